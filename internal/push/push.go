// Package push handles mailbox push notifications: decoding the Pub/Sub
// style envelope and dispatching new messages into the pipeline.
package push

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/creatorstack/dealflow-cli/internal/model"
)

// Notification identifies the mailbox and history cursor that changed.
type Notification struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    string `json:"historyId"`
}

// envelope is the wire shape of a push delivery: the payload rides
// base64-encoded in message.data.
type envelope struct {
	Message struct {
		Data string `json:"data"`
		ID   string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// DecodeNotification parses a push envelope body. historyId may arrive as
// a string or a number; both normalize to string.
func DecodeNotification(body []byte) (*Notification, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "push: decode envelope")
	}
	if env.Message.Data == "" {
		return nil, eris.New("push: envelope has no message data")
	}

	raw, err := base64.StdEncoding.DecodeString(env.Message.Data)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(env.Message.Data, "="))
		if err != nil {
			return nil, eris.Wrap(err, "push: decode message data")
		}
	}

	var payload struct {
		EmailAddress string          `json:"emailAddress"`
		HistoryID    json.RawMessage `json:"historyId"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, eris.Wrap(err, "push: decode notification payload")
	}
	if payload.EmailAddress == "" {
		return nil, eris.New("push: notification missing emailAddress")
	}

	historyID, err := normalizeHistoryID(payload.HistoryID)
	if err != nil {
		return nil, err
	}

	return &Notification{EmailAddress: payload.EmailAddress, HistoryID: historyID}, nil
}

func normalizeHistoryID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", eris.New("push: notification missing historyId")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", eris.New("push: notification has empty historyId")
		}
		return s, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return fmt.Sprintf("%.0f", n), nil
	}
	return "", eris.New("push: notification has malformed historyId")
}

// MessageSource fetches the messages behind a notification from the
// mailbox provider.
type MessageSource interface {
	FetchNewMessages(ctx context.Context, n Notification) ([]model.Message, error)
}

// Sink consumes one inbound message end to end.
type Sink interface {
	Handle(ctx context.Context, msg model.Message) error
}

// Handler is the HTTP endpoint for push deliveries. Malformed envelopes
// are acknowledged with 204 so the broker stops redelivering them;
// per-message failures are logged but never fail the delivery, matching
// at-least-once push semantics.
type Handler struct {
	Source MessageSource
	Sink   Sink
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, 1<<20)
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		http.Error(w, `{"error":"unreadable body"}`, http.StatusBadRequest)
		return
	}

	n, err := DecodeNotification(raw)
	if err != nil {
		zap.L().Warn("push: dropping malformed notification", zap.Error(err))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msgs, err := h.Source.FetchNewMessages(r.Context(), *n)
	if err != nil {
		zap.L().Error("push: fetch messages failed",
			zap.String("email_address", n.EmailAddress),
			zap.String("history_id", n.HistoryID),
			zap.Error(err),
		)
		http.Error(w, `{"error":"fetch failed"}`, http.StatusInternalServerError)
		return
	}

	for _, msg := range msgs {
		if err := h.Sink.Handle(r.Context(), msg); err != nil {
			zap.L().Error("push: message processing failed",
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
