package model

// Evidence is a literal quote proving an extracted value appears in the
// text the model was shown. Page is only meaningful for PDF_TEXT sources.
type Evidence struct {
	Quote  string         `json:"quote"`
	Source EvidenceSource `json:"source"`
	Page   *int           `json:"page"`
}

// EvidencedField wraps an extracted value with its grounding evidence.
// A nil pointer means the field was absent or its evidence failed
// validation; a wrapper is never kept with invalid evidence.
type EvidencedField[V any] struct {
	Value    V        `json:"value"`
	Evidence Evidence `json:"evidence"`
}

// Routing is the cheap first-pass classification of a message. It carries
// no evidence requirement.
type Routing struct {
	IsDeal                 bool      `json:"isDeal"`
	DealStage              DealStage `json:"dealStage"`
	ShouldParseAttachments bool      `json:"shouldParseAttachments"`
	RoutingReason          *string   `json:"routingReason"`
}

// GoLiveWindow is the raw go-live window text plus explicit dates, if any.
type GoLiveWindow struct {
	RawText   string   `json:"rawText"`
	StartDate *string  `json:"startDate"`
	EndDate   *string  `json:"endDate"`
	Evidence  Evidence `json:"evidence"`
}

// PaymentInfo is the minimal-extraction payment summary.
type PaymentInfo struct {
	Amount       *float64 `json:"amount"`
	Currency     Currency `json:"currency"`
	PaymentTerms *string  `json:"paymentTerms"`
	Evidence     Evidence `json:"evidence"`
}

// MinimalExtraction is the always-run inbox-card payload.
type MinimalExtraction struct {
	CampaignName        *EvidencedField[string]             `json:"campaignName"`
	BrandName           *EvidencedField[string]             `json:"brandName"`
	LastActionNeededBy  *EvidencedField[LastActionNeededBy] `json:"lastActionNeededBy"`
	DraftRequired       *EvidencedField[bool]               `json:"draftRequired"`
	GoLiveWindow        *GoLiveWindow                       `json:"goLiveWindow"`
	Payment             *PaymentInfo                        `json:"payment"`
	DeliverablesSummary *EvidencedField[string]             `json:"deliverablesSummary"`
}

// DeepPayment is the richer payment object from deep extraction.
type DeepPayment struct {
	Amount            *float64       `json:"amount"`
	Currency          Currency       `json:"currency"`
	PaymentTerms      *string        `json:"paymentTerms"`
	PaymentStatus     *PaymentStatus `json:"paymentStatus"`
	InvoiceSentAt     *string        `json:"invoiceSentAt"`
	InvoiceExpectedAt *string        `json:"invoiceExpectedAt"`
	Evidence          Evidence       `json:"evidence"`
}

// KeyDate is a named milestone with explicit dates where stated.
type KeyDate struct {
	Name        *string  `json:"name"`
	DateRawText string   `json:"dateRawText"`
	StartDate   *string  `json:"startDate"`
	EndDate     *string  `json:"endDate"`
	Description *string  `json:"description"`
	Evidence    Evidence `json:"evidence"`
}

// ActionItem is a required action or a must-avoid constraint.
type ActionItem struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Evidence    Evidence `json:"evidence"`
}

// Deliverable is a structured deliverable commitment.
type Deliverable struct {
	Platform       Platform        `json:"platform"`
	Type           DeliverableType `json:"type"`
	Quantity       *int            `json:"quantity"`
	DueDate        *string         `json:"dueDate"`
	DueDateRawText *string         `json:"dueDateRawText"`
	Description    *string         `json:"description"`
	Evidence       Evidence        `json:"evidence"`
}

// DeepExtraction is the late-stage/contractual payload. Payment is a
// pointer because the evidence validator may collapse the whole object.
type DeepExtraction struct {
	ExclusivityRightsSummary *EvidencedField[string] `json:"exclusivityRightsSummary"`
	UsageRightsSummary       *EvidencedField[string] `json:"usageRightsSummary"`
	Payment                  *DeepPayment            `json:"payment"`
	KeyDates                 []KeyDate               `json:"keyDates"`
	RequiredActions          []ActionItem            `json:"requiredActions"`
	MustAvoids               []ActionItem            `json:"mustAvoids"`
	Deliverables             []Deliverable           `json:"deliverables"`
}

// DecisionTreeResult is the assembled pipeline output. Minimal and Deep
// are nil when routing gated them off.
type DecisionTreeResult struct {
	Routing Routing            `json:"routing"`
	Minimal *MinimalExtraction `json:"minimal,omitempty"`
	Deep    *DeepExtraction    `json:"deep,omitempty"`
}
