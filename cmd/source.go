package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/creatorstack/dealflow-cli/internal/model"
	"github.com/creatorstack/dealflow-cli/internal/push"
)

// bridgeSource resolves push notifications into messages by calling the
// mailbox bridge, which owns provider credentials and history tracking.
type bridgeSource struct {
	baseURL string
	client  *http.Client
}

func newBridgeSource(baseURL string) *bridgeSource {
	return &bridgeSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *bridgeSource) FetchNewMessages(ctx context.Context, n push.Notification) ([]model.Message, error) {
	q := url.Values{}
	q.Set("email", n.EmailAddress)
	q.Set("historyId", n.HistoryID)
	endpoint := fmt.Sprintf("%s/messages?%s", s.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "bridge: build request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "bridge: fetch messages")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("bridge: fetch messages: status %d", resp.StatusCode)
	}

	var msgs []model.Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		return nil, eris.Wrap(err, "bridge: decode messages")
	}
	return msgs, nil
}
