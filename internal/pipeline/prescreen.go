package pipeline

import (
	"fmt"
	"strings"

	"github.com/creatorstack/dealflow-cli/internal/model"
)

// campaignKeywords are cheap lexical signals that a message is worth
// routing at all. The prescreen runs before any completion call, so push
// traffic from a busy inbox doesn't burn tokens on newsletters.
var campaignKeywords = []string{
	"campaign",
	"brief",
	"proposal",
	"sow",
	"statement of work",
	"deliverables",
	"usage rights",
	"ugc",
	"whitelisting",
	"influencer",
	"creator partnership",
	"brand deal",
}

// PrescreenResult is the outcome of the keyword prescreen.
type PrescreenResult struct {
	IsCampaign bool
	Reason     string
}

// Prescreen checks subject and body for campaign keywords. A miss only
// means "skip the automated pass"; it never marks a message as not a deal.
func Prescreen(msg model.Message) PrescreenResult {
	text := strings.ToLower(msg.Subject + " " + msg.Body)

	for _, kw := range campaignKeywords {
		if strings.Contains(text, kw) {
			return PrescreenResult{
				IsCampaign: true,
				Reason:     fmt.Sprintf("matched keyword %q", kw),
			}
		}
	}

	return PrescreenResult{
		IsCampaign: false,
		Reason:     "no campaign keywords found",
	}
}
