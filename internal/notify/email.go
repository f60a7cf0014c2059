package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
)

// EmailSender delivers notifications over mailgun.
type EmailSender struct {
	mg      mailgun.Mailgun
	from    string
	timeout time.Duration
}

func NewEmailSender(mg mailgun.Mailgun, from string, timeout time.Duration) *EmailSender {
	return &EmailSender{mg: mg, from: from, timeout: timeout}
}

func (s *EmailSender) Send(ctx context.Context, destination string, video models.ChannelLatestVideo, summary string) error {
	subject := fmt.Sprintf("New video from %s: %s", video.ChannelTitle, video.Title)

	// Create message with empty body first, then SetHtml so the MIME
	// type is assigned properly.
	message := s.mg.NewMessage(s.from, subject, "", destination)
	message.SetHtml(emailBody(video, summary))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, _, err := s.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func emailBody(video models.ChannelLatestVideo, summary string) string {
	summaryHTML := strings.ReplaceAll(html.EscapeString(summary), "\n", "<br>")
	return fmt.Sprintf(
		`<p><b>%s</b> published a new video: <a href="%s">%s</a></p><p>%s</p>`,
		html.EscapeString(video.ChannelTitle),
		video.WatchURL(),
		html.EscapeString(video.Title),
		summaryHTML,
	)
}
