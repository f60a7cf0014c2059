package notify

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
)

// Channel kinds, keys of the sender registry.
const (
	ChannelTelegram = "telegram"
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

// Sender delivers one formatted message to one destination on a single
// channel kind.
type Sender interface {
	Send(ctx context.Context, destination string, video models.ChannelLatestVideo, summary string) error
}

// Registry maps channel kinds to their senders.
type Registry map[string]Sender

// ChannelResult is the outcome of one delivery attempt.
type ChannelResult struct {
	Channel string `json:"channel"`
	Sent    bool   `json:"sent"`
	Error   string `json:"error,omitempty"`
}

// Notifier fans a new-video event out to every configured delivery
// channel the subscriber's tier permits. One channel's failure never
// blocks or rolls back another channel's delivery.
type Notifier struct {
	registry Registry
}

func NewNotifier(registry Registry) *Notifier {
	return &Notifier{registry: registry}
}

// FormatMessage renders the deterministic notification body.
func FormatMessage(video models.ChannelLatestVideo, summary string) string {
	return fmt.Sprintf("New video from %s: %s\n%s\n\nSummary:\n%s",
		video.ChannelTitle, video.Title, video.WatchURL(), summary)
}

// Dispatch attempts delivery on every populated, tier-permitted channel
// independently. Unset channels are silently skipped; populated channels
// the tier does not permit are skipped as well, regardless of what
// upstream CRUD let through.
func (n *Notifier) Dispatch(ctx context.Context, video models.ChannelLatestVideo, summary string, cfg models.DeliveryConfig, tier models.Tier) []ChannelResult {
	type delivery struct {
		channel     string
		destination string
		permitted   bool
	}

	var deliveries []delivery
	if cfg.TelegramChatID.Valid {
		deliveries = append(deliveries, delivery{
			channel:     ChannelTelegram,
			destination: strconv.FormatInt(cfg.TelegramChatID.Int64, 10),
			permitted:   true, // every tier may use telegram
		})
	}
	if cfg.Email.Valid && cfg.Email.String != "" {
		deliveries = append(deliveries, delivery{
			channel:     ChannelEmail,
			destination: cfg.Email.String,
			permitted:   tier.Email,
		})
	}
	if cfg.WhatsAppPhone.Valid && cfg.WhatsAppPhone.String != "" {
		deliveries = append(deliveries, delivery{
			channel:     ChannelWhatsApp,
			destination: cfg.WhatsAppPhone.String,
			permitted:   tier.WhatsApp,
		})
	}

	var results []ChannelResult
	for _, d := range deliveries {
		if !d.permitted {
			log.Printf("skipping %s delivery for user %d: not permitted by tier %s", d.channel, cfg.UserID, tier.ID)
			continue
		}
		sender, ok := n.registry[d.channel]
		if !ok {
			// Channel configured by the user but not wired in this
			// deployment (e.g. no mailgun credentials).
			log.Printf("skipping %s delivery for user %d: no sender configured", d.channel, cfg.UserID)
			continue
		}

		result := ChannelResult{Channel: d.channel, Sent: true}
		if err := sender.Send(ctx, d.destination, video, summary); err != nil {
			log.Printf("failed to send %s notification for user %d: %v", d.channel, cfg.UserID, err)
			result.Sent = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}
