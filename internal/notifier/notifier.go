// Package notifier delivers review reminders to registered push
// subscriptions. Web-Push encryption and fan-out are handled by an
// external relay; this package only speaks to its HTTP endpoint.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mshiraki/tangocho/internal/models"
)

// Payload is the notification content shown to the user.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Notifier sends one notification to one subscription.
// Implementations return models.ErrSubscriptionGone when the endpoint
// has permanently rejected delivery, so the caller can drop the
// subscription.
type Notifier interface {
	Send(ctx context.Context, sub models.PushSubscription, payload Payload) error
}

// Relay is a Notifier that forwards notifications to a push relay
// service over HTTP.
type Relay struct {
	url    string
	client *http.Client
}

// NewRelay creates a Relay targeting the given endpoint URL.
func NewRelay(url string) *Relay {
	return &Relay{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// relayRequest is the body posted to the relay: the raw subscription
// plus the payload to encrypt and deliver.
type relayRequest struct {
	Endpoint string  `json:"endpoint"`
	Keys     keys    `json:"keys"`
	Payload  Payload `json:"payload"`
}

type keys struct {
	P256DH string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Send posts the notification to the relay. A 410 Gone response maps to
// models.ErrSubscriptionGone; any other non-2xx status is an error.
func (r *Relay) Send(ctx context.Context, sub models.PushSubscription, payload Payload) error {
	body, err := json.Marshal(relayRequest{
		Endpoint: sub.Endpoint,
		Keys:     keys{P256DH: sub.P256DH, Auth: sub.Auth},
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone:
		return models.ErrSubscriptionGone
	case resp.StatusCode >= 300:
		return fmt.Errorf("push relay returned status %d", resp.StatusCode)
	}
	return nil
}
