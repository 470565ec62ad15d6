package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/creatorstack/dealflow-cli/internal/model"
)

// Deal database property names. The integration expects a database with
// these columns already created.
const (
	propTitle        = "Name"
	propBrand        = "Brand"
	propStage        = "Stage"
	propAmount       = "Payment Amount"
	propPaymentState = "Payment State"
	propUrgency      = "Urgency"
	propDeliverables = "Deliverables"
	propNextDeadline = "Next Deadline"
	propThreadID     = "Thread ID"
	propSender       = "Sender"
)

// UpsertDeal creates or updates the Notion page for a deal, keyed by the
// email thread id. Threadless records always create a fresh page.
func UpsertDeal(ctx context.Context, c Client, dbID string, rec model.DealRecord) (*notionapi.Page, error) {
	props := dealProperties(rec)

	if rec.ThreadID != nil {
		existing, err := findDealPage(ctx, c, dbID, *rec.ThreadID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			page, err := c.UpdatePage(ctx, string(existing.ID), &notionapi.PageUpdateRequest{
				Properties: props,
			})
			if err != nil {
				return nil, eris.Wrapf(err, "notion: update deal page for thread %s", *rec.ThreadID)
			}
			return page, nil
		}
	}

	page, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent:     notionapi.Parent{Type: notionapi.ParentTypeDatabaseID, DatabaseID: notionapi.DatabaseID(dbID)},
		Properties: props,
	})
	if err != nil {
		return nil, eris.Wrap(err, "notion: create deal page")
	}
	return page, nil
}

// findDealPage looks up the page whose Thread ID column matches threadID.
func findDealPage(ctx context.Context, c Client, dbID, threadID string) (*notionapi.Page, error) {
	resp, err := c.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: propThreadID,
			RichText: &notionapi.TextFilterCondition{Equals: threadID},
		},
		PageSize: 1,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "notion: find deal page for thread %s", threadID)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}

func dealProperties(rec model.DealRecord) notionapi.Properties {
	title := rec.Subject
	if rec.CampaignName != nil && *rec.CampaignName != "" {
		title = *rec.CampaignName
	}
	brand := rec.SenderDisplayName
	if rec.BrandName != nil && *rec.BrandName != "" {
		brand = *rec.BrandName
	}

	props := notionapi.Properties{
		propTitle: notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: title}}},
		},
		propBrand: notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: brand}}},
		},
		propStage: notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(rec.Stage)},
		},
		propPaymentState: notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(rec.PaymentState)},
		},
		propUrgency: notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(rec.Urgency)},
		},
		propDeliverables: notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: rec.DeliverableSummary}}},
		},
		propSender: notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: rec.SenderAddress}}},
		},
	}

	if rec.PaymentAmount != nil {
		props[propAmount] = notionapi.NumberProperty{Number: *rec.PaymentAmount}
	}
	if rec.NextDeadline != nil {
		d := notionapi.Date(*rec.NextDeadline)
		props[propNextDeadline] = notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &d},
		}
	}
	if rec.ThreadID != nil {
		props[propThreadID] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: *rec.ThreadID}}},
		}
	}
	return props
}
