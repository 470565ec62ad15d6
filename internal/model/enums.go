package model

// DealStage is the lifecycle stage of a brand deal as judged by routing.
type DealStage string

const (
	StageInbound     DealStage = "INBOUND"
	StageNegotiation DealStage = "NEGOTIATION"
	StageContracting DealStage = "CONTRACTING"
	StageScheduling  DealStage = "SCHEDULING"
	StageFulfillment DealStage = "FULFILLMENT"
	StagePayment     DealStage = "PAYMENT"
	StageCompleted   DealStage = "COMPLETED"
	StageDead        DealStage = "DEAD"
	StageOther       DealStage = "OTHER"
)

// AllDealStages returns every valid deal stage.
func AllDealStages() []DealStage {
	return []DealStage{
		StageInbound, StageNegotiation, StageContracting, StageScheduling,
		StageFulfillment, StagePayment, StageCompleted, StageDead, StageOther,
	}
}

// DeepEligibleStages lists the stages where contractual detail is likely
// enough to justify the deep extraction call.
func DeepEligibleStages() []DealStage {
	return []DealStage{
		StageContracting, StageScheduling, StageFulfillment,
		StagePayment, StageCompleted,
	}
}

// LastActionNeededBy identifies who must act next on a deal.
type LastActionNeededBy string

const (
	ActorCreator  LastActionNeededBy = "CREATOR"
	ActorBrand    LastActionNeededBy = "BRAND"
	ActorAgent    LastActionNeededBy = "AGENT"
	ActorPlatform LastActionNeededBy = "PLATFORM"
	ActorOther    LastActionNeededBy = "OTHER"
)

// AllActors returns every valid last-action-needed-by value.
func AllActors() []LastActionNeededBy {
	return []LastActionNeededBy{ActorCreator, ActorBrand, ActorAgent, ActorPlatform, ActorOther}
}

// Currency is a closed set of payment currencies.
type Currency string

const (
	CurrencyUSD   Currency = "USD"
	CurrencyEUR   Currency = "EUR"
	CurrencyGBP   Currency = "GBP"
	CurrencyCAD   Currency = "CAD"
	CurrencyAUD   Currency = "AUD"
	CurrencyOther Currency = "OTHER"
)

// AllCurrencies returns every valid currency.
func AllCurrencies() []Currency {
	return []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyCAD, CurrencyAUD, CurrencyOther}
}

// PaymentStatus is the payment state explicitly stated in a message.
type PaymentStatus string

const (
	PaymentNotApplicable    PaymentStatus = "NOT_APPLICABLE"
	PaymentNotInvoiced      PaymentStatus = "NOT_INVOICED"
	PaymentInvoiceRequested PaymentStatus = "INVOICE_REQUESTED"
	PaymentInvoiceSent      PaymentStatus = "INVOICE_SENT"
	PaymentPaid             PaymentStatus = "PAID"
	PaymentOverdue          PaymentStatus = "OVERDUE"
	PaymentUnknown          PaymentStatus = "UNKNOWN"
	PaymentOther            PaymentStatus = "OTHER"
)

// AllPaymentStatuses returns every valid payment status.
func AllPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{
		PaymentNotApplicable, PaymentNotInvoiced, PaymentInvoiceRequested,
		PaymentInvoiceSent, PaymentPaid, PaymentOverdue, PaymentUnknown, PaymentOther,
	}
}

// Platform is the social platform a deliverable targets.
type Platform string

const (
	PlatformInstagram Platform = "INSTAGRAM"
	PlatformTikTok    Platform = "TIKTOK"
	PlatformYouTube   Platform = "YOUTUBE"
	PlatformTwitch    Platform = "TWITCH"
	PlatformX         Platform = "X"
	PlatformPinterest Platform = "PINTEREST"
	PlatformFacebook  Platform = "FACEBOOK"
	PlatformBlog      Platform = "BLOG"
	PlatformPodcast   Platform = "PODCAST"
	PlatformOther     Platform = "OTHER"
)

// AllPlatforms returns every valid platform.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformInstagram, PlatformTikTok, PlatformYouTube, PlatformTwitch,
		PlatformX, PlatformPinterest, PlatformFacebook, PlatformBlog,
		PlatformPodcast, PlatformOther,
	}
}

// DeliverableType is the content format of a deliverable.
type DeliverableType string

const (
	DeliverablePost           DeliverableType = "POST"
	DeliverableReel           DeliverableType = "REEL"
	DeliverableStory          DeliverableType = "STORY"
	DeliverableTikTok         DeliverableType = "TIKTOK"
	DeliverableShort          DeliverableType = "SHORT"
	DeliverableVideo          DeliverableType = "VIDEO"
	DeliverableLivestream     DeliverableType = "LIVESTREAM"
	DeliverableCarousel       DeliverableType = "CAROUSEL"
	DeliverableThread         DeliverableType = "THREAD"
	DeliverableBlogPost       DeliverableType = "BLOG_POST"
	DeliverablePodcastEpisode DeliverableType = "PODCAST_EPISODE"
	DeliverableOther          DeliverableType = "OTHER"
)

// AllDeliverableTypes returns every valid deliverable type.
func AllDeliverableTypes() []DeliverableType {
	return []DeliverableType{
		DeliverablePost, DeliverableReel, DeliverableStory, DeliverableTikTok,
		DeliverableShort, DeliverableVideo, DeliverableLivestream,
		DeliverableCarousel, DeliverableThread, DeliverableBlogPost,
		DeliverablePodcastEpisode, DeliverableOther,
	}
}

// EvidenceSource names the text segment an evidence quote was taken from.
type EvidenceSource string

const (
	SourceEmailSubject EvidenceSource = "EMAIL_SUBJECT"
	SourceEmailFrom    EvidenceSource = "EMAIL_FROM"
	SourceEmailBody    EvidenceSource = "EMAIL_BODY"
	SourcePDFText      EvidenceSource = "PDF_TEXT"
	SourceOther        EvidenceSource = "OTHER"
)

// AllEvidenceSources returns every valid evidence source.
func AllEvidenceSources() []EvidenceSource {
	return []EvidenceSource{SourceEmailSubject, SourceEmailFrom, SourceEmailBody, SourcePDFText, SourceOther}
}
