package model

import "time"

// DealPaymentState is the app-level payment state derived for the deal row,
// collapsed from whatever phrasing the extraction produced.
type DealPaymentState string

const (
	DealPaymentPending DealPaymentState = "PENDING"
	DealPaymentPaid    DealPaymentState = "PAID"
	DealPaymentLate    DealPaymentState = "LATE"
)

// UrgencyLevel ranks how soon the next deadline lands.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "LOW"
	UrgencyMedium UrgencyLevel = "MEDIUM"
	UrgencyHigh   UrgencyLevel = "HIGH"
)

// DealRecord is the row handed to the persistence collaborator: the raw
// pipeline result plus columns derived for inbox display and sorting.
type DealRecord struct {
	ID                 string             `json:"id"`
	ThreadID           *string            `json:"thread_id"`
	SenderAddress      string             `json:"sender_address"`
	SenderDisplayName  string             `json:"sender_display_name"`
	Subject            string             `json:"subject"`
	BrandName          *string            `json:"brand_name"`
	CampaignName       *string            `json:"campaign_name"`
	Stage              DealStage          `json:"stage"`
	PaymentAmount      *float64           `json:"payment_amount"`
	PaymentCurrency    *Currency          `json:"payment_currency"`
	PaymentState       DealPaymentState   `json:"payment_state"`
	NextDeadline       *time.Time         `json:"next_deadline"`
	Urgency            UrgencyLevel       `json:"urgency"`
	DeliverableSummary string             `json:"deliverable_summary"`
	Result             DecisionTreeResult `json:"result"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
