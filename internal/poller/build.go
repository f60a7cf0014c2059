package poller

import (
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mailgun/mailgun-go/v4"

	"github.com/yusufnadiruzun/video-summary-app/internal/config"
	"github.com/yusufnadiruzun/video-summary-app/internal/notify"
	"github.com/yusufnadiruzun/video-summary-app/internal/summarize"
	"github.com/yusufnadiruzun/video-summary-app/internal/transcript"
	"github.com/yusufnadiruzun/video-summary-app/internal/youtube"
)

// Pipeline bundles the orchestrator with the components it was built
// from, for surfaces (HTTP handlers) that talk to them directly.
type Pipeline struct {
	Orchestrator *Orchestrator
	Detector     *youtube.Client
	Resolver     *transcript.Resolver
	Summarizer   *summarize.Client
}

// FromConfig wires the full pipeline: strategy chain, resolver,
// detector, summarizer and sender registry. Clients are constructed
// here, once, and injected; nothing holds module-level state.
func FromConfig(cfg *config.Config) (*Pipeline, error) {
	chain := []transcript.Strategy{transcript.NewCaptionList()}
	if proxyURL := cfg.ProxyURL(); proxyURL != nil {
		chain = append(chain, transcript.NewProxiedCaptionList(proxyURL, cfg.CaptionCookie))
	}
	chain = append(chain, transcript.NewInnertube())

	audio := transcript.NewAudio(cfg.AudioDir, cfg.TranscribeScript)
	resolver := transcript.NewResolver(chain, audio, cfg.TranscriptLang)

	detector := youtube.NewClient(cfg.YouTubeAPIKey)
	summarizer := summarize.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	registry := notify.Registry{}
	if cfg.TelegramBotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			return nil, err
		}
		registry[notify.ChannelTelegram] = notify.NewTelegramSender(bot)
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, telegram delivery disabled")
	}
	if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" {
		mg := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
		registry[notify.ChannelEmail] = notify.NewEmailSender(mg, cfg.MailgunFrom, time.Duration(cfg.MailgunTimeoutSecs)*time.Second)
	}
	if cfg.WhatsAppEndpoint != "" {
		registry[notify.ChannelWhatsApp] = notify.NewWhatsAppSender(cfg.WhatsAppEndpoint, cfg.WhatsAppAPIKey)
	}

	notifier := notify.NewNotifier(registry)

	orchestrator := NewOrchestrator(
		detector,
		resolver,
		summarizer,
		notifier,
		cfg.YouTubeRPS,
		cfg.PollConcurrency,
		cfg.SubscriptionTimeout,
	)
	return &Pipeline{
		Orchestrator: orchestrator,
		Detector:     detector,
		Resolver:     resolver,
		Summarizer:   summarizer,
	}, nil
}
