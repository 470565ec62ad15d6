package model

// Message is a normalized inbound email delivered by the mail-retrieval
// collaborator. It is immutable for the duration of one pipeline run.
type Message struct {
	From       string  `json:"from" yaml:"from"`
	Subject    string  `json:"subject" yaml:"subject"`
	ReceivedAt *string `json:"receivedAt" yaml:"receivedAt"`
	Body       string  `json:"body" yaml:"body"`
	ThreadID   *string `json:"threadId" yaml:"threadId"`
}
