package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/carlmjohnson/requests"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
)

// WhatsAppSender delivers notifications through a WhatsApp gateway
// service that accepts a phone number and a text body.
type WhatsAppSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewWhatsAppSender(endpoint, apiKey string) *WhatsAppSender {
	return &WhatsAppSender{endpoint: endpoint, apiKey: apiKey, client: http.DefaultClient}
}

func (s *WhatsAppSender) Send(ctx context.Context, destination string, video models.ChannelLatestVideo, summary string) error {
	err := requests.
		URL(s.endpoint).
		Client(s.client).
		Header("Authorization", "Bearer "+s.apiKey).
		BodyJSON(map[string]string{
			"phone": destination,
			"body":  FormatMessage(video, summary),
		}).
		Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	return nil
}
