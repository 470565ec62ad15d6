// Package dealsync derives display-ready deal rows from pipeline results:
// payment state, next deadline, urgency, and a short deliverable summary.
package dealsync

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"github.com/creatorstack/dealflow-cli/internal/mail"
	"github.com/creatorstack/dealflow-cli/internal/model"
)

const dateLayout = "2006-01-02"

// urgency thresholds in days until the next deadline.
const (
	highUrgencyDays   = 3
	mediumUrgencyDays = 14
)

// BuildRecord assembles a DealRecord from one message and its pipeline
// result. now is injected so derived urgency is deterministic in tests.
func BuildRecord(msg model.Message, result model.DecisionTreeResult, now time.Time) model.DealRecord {
	rec := model.DealRecord{
		ID:                 uuid.NewString(),
		ThreadID:           msg.ThreadID,
		SenderAddress:      mail.NormalizeAddress(msg.From),
		SenderDisplayName:  mail.ParseDisplayName(msg.From),
		Subject:            msg.Subject,
		Stage:              result.Routing.DealStage,
		PaymentState:       model.DealPaymentPending,
		Urgency:            model.UrgencyLow,
		DeliverableSummary: "Imported from email",
		Result:             result,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if m := result.Minimal; m != nil {
		if m.BrandName != nil {
			v := m.BrandName.Value
			rec.BrandName = &v
		}
		if m.CampaignName != nil {
			v := m.CampaignName.Value
			rec.CampaignName = &v
		}
		if m.Payment != nil {
			rec.PaymentAmount = m.Payment.Amount
			rec.PaymentCurrency = normalizeCurrency(m.Payment.Currency)
		}
	}

	if d := result.Deep; d != nil {
		if d.Payment != nil {
			rec.PaymentState = PaymentState(d.Payment.PaymentStatus)
			if rec.PaymentAmount == nil {
				rec.PaymentAmount = d.Payment.Amount
			}
			if rec.PaymentCurrency == nil {
				rec.PaymentCurrency = normalizeCurrency(d.Payment.Currency)
			}
		}
		rec.DeliverableSummary = DeliverableSummary(d)
	}

	rec.NextDeadline = PickNextDeadline(deadlineCandidates(result), now)
	rec.Urgency = ComputeUrgency(rec.NextDeadline, now)
	return rec
}

// PaymentState collapses an extracted payment status into the app's
// three-state model. Unknown or missing phrasing stays PENDING.
func PaymentState(status *model.PaymentStatus) model.DealPaymentState {
	if status == nil {
		return model.DealPaymentPending
	}
	s := strings.ToLower(strings.TrimSpace(string(*status)))
	switch {
	case s == "":
		return model.DealPaymentPending
	case strings.Contains(s, "paid"):
		return model.DealPaymentPaid
	case strings.Contains(s, "late"), strings.Contains(s, "overdue"):
		return model.DealPaymentLate
	default:
		return model.DealPaymentPending
	}
}

// PickNextDeadline returns the earliest upcoming deadline, or the earliest
// past one when everything has already slipped, or nil with no dates.
func PickNextDeadline(dates []time.Time, now time.Time) *time.Time {
	if len(dates) == 0 {
		return nil
	}
	var earliest, upcoming *time.Time
	for i := range dates {
		d := dates[i]
		if earliest == nil || d.Before(*earliest) {
			earliest = &dates[i]
		}
		if !d.Before(now) && (upcoming == nil || d.Before(*upcoming)) {
			upcoming = &dates[i]
		}
	}
	if upcoming != nil {
		return upcoming
	}
	return earliest
}

// ComputeUrgency ranks a deadline by how soon it lands.
func ComputeUrgency(next *time.Time, now time.Time) model.UrgencyLevel {
	if next == nil {
		return model.UrgencyLow
	}
	days := next.Sub(now).Hours() / 24
	switch {
	case days <= highUrgencyDays:
		return model.UrgencyHigh
	case days <= mediumUrgencyDays:
		return model.UrgencyMedium
	default:
		return model.UrgencyLow
	}
}

// DeliverableSummary builds a short inbox line like "2 IG Reels • 1 TikTok".
// Falls back to required action names, then to a generic import note.
func DeliverableSummary(deep *model.DeepExtraction) string {
	if deep == nil {
		return "Imported from email"
	}
	if len(deep.Deliverables) > 0 {
		parts := make([]string, 0, 3)
		for _, d := range deep.Deliverables {
			if len(parts) == 3 {
				break
			}
			qty := 1
			if d.Quantity != nil {
				qty = *d.Quantity
			}
			label := deliverableLabel(d.Platform, d.Type)
			if qty != 1 {
				label = pluralizeLabel(label)
			}
			parts = append(parts, fmt.Sprintf("%d %s", qty, label))
		}
		if len(parts) > 0 {
			return strings.Join(parts, " • ")
		}
	}
	if len(deep.RequiredActions) > 0 {
		names := make([]string, 0, 3)
		for _, a := range deep.RequiredActions {
			if len(names) == 3 {
				break
			}
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
		if len(names) > 0 {
			return "Required actions: " + strings.Join(names, ", ")
		}
	}
	return "Imported from email"
}

func deliverableLabel(platform model.Platform, typ model.DeliverableType) string {
	p := platformLabel(platform)
	t := typeLabel(typ)
	switch {
	case p != "" && t != "":
		// "TikTok TikTok" reads badly.
		if p == "TikTok" && t == "TikTok" {
			return "TikTok"
		}
		return p + " " + t
	case p != "":
		return p
	case t != "":
		return t
	default:
		return "Deliverable"
	}
}

func pluralizeLabel(label string) string {
	switch label {
	case "Story":
		return "Stories"
	case "Blog post":
		return "Blog posts"
	case "Podcast episode":
		return "Podcast episodes"
	case "TikTok":
		return "TikToks"
	default:
		return label + "s"
	}
}

func platformLabel(p model.Platform) string {
	switch p {
	case model.PlatformInstagram:
		return "IG"
	case model.PlatformTikTok:
		return "TikTok"
	case model.PlatformYouTube:
		return "YouTube"
	case model.PlatformTwitch:
		return "Twitch"
	case model.PlatformX:
		return "X"
	case model.PlatformPinterest:
		return "Pinterest"
	case model.PlatformFacebook:
		return "Facebook"
	case model.PlatformBlog:
		return "Blog"
	case model.PlatformPodcast:
		return "Podcast"
	default:
		return ""
	}
}

func typeLabel(t model.DeliverableType) string {
	switch t {
	case model.DeliverablePost:
		return "Post"
	case model.DeliverableReel:
		return "Reel"
	case model.DeliverableStory:
		return "Story"
	case model.DeliverableTikTok:
		return "TikTok"
	case model.DeliverableShort:
		return "Short"
	case model.DeliverableVideo:
		return "Video"
	case model.DeliverableLivestream:
		return "Livestream"
	case model.DeliverableCarousel:
		return "Carousel"
	case model.DeliverableThread:
		return "Thread"
	case model.DeliverableBlogPost:
		return "Blog post"
	case model.DeliverablePodcastEpisode:
		return "Podcast episode"
	default:
		return ""
	}
}

// normalizeCurrency keeps only codes the ISO 4217 table recognizes; the
// catch-all OTHER (and anything malformed) yields nil so stores don't
// persist a fake currency column.
func normalizeCurrency(c model.Currency) *model.Currency {
	if _, err := currency.ParseISO(string(c)); err != nil {
		return nil
	}
	out := c
	return &out
}

// deadlineCandidates gathers every dated signal usable as a deadline:
// go-live bounds, expected payment, and key date bounds.
func deadlineCandidates(result model.DecisionTreeResult) []time.Time {
	var out []time.Time
	add := func(s *string) {
		if s == nil {
			return
		}
		if t, err := time.Parse(dateLayout, *s); err == nil {
			out = append(out, t)
		}
	}
	if m := result.Minimal; m != nil && m.GoLiveWindow != nil {
		add(m.GoLiveWindow.StartDate)
		add(m.GoLiveWindow.EndDate)
	}
	if d := result.Deep; d != nil {
		if d.Payment != nil {
			add(d.Payment.InvoiceExpectedAt)
		}
		for i := range d.KeyDates {
			add(d.KeyDates[i].StartDate)
			add(d.KeyDates[i].EndDate)
		}
	}
	return out
}
