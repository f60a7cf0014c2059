package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every knob the pipeline needs. All values come from the
// environment (cmd/* load a .env file first via godotenv).
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Port        string `env:"PORT" envDefault:"8080"`

	// CronSecret guards the scheduled-check HTTP endpoint.
	CronSecret string `env:"CRON_SECRET,required"`

	YouTubeAPIKey string `env:"YOUTUBE_API_KEY,required"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	MailgunDomain      string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey      string `env:"MAILGUN_API_KEY"`
	MailgunFrom        string `env:"MAILGUN_FROM"`
	MailgunTimeoutSecs int    `env:"MAILGUN_TIMEOUT_SECS" envDefault:"15"`

	WhatsAppEndpoint string `env:"WHATSAPP_GATEWAY_URL"`
	WhatsAppAPIKey   string `env:"WHATSAPP_GATEWAY_KEY"`

	// Residential proxy used by the authenticated caption strategy.
	ProxyHost     string `env:"CAPTION_PROXY_HOST"`
	ProxyPort     int    `env:"CAPTION_PROXY_PORT" envDefault:"22225"`
	ProxyUsername string `env:"CAPTION_PROXY_USERNAME"`
	ProxyPassword string `env:"CAPTION_PROXY_PASSWORD"`
	// Session cookie blob attached to proxied caption requests.
	CaptionCookie string `env:"CAPTION_COOKIE"`

	TranscriptLang   string `env:"TRANSCRIPT_LANG" envDefault:"tr"`
	AudioDir         string `env:"AUDIO_DIR" envDefault:"audio"`
	TranscribeScript string `env:"TRANSCRIBE_SCRIPT" envDefault:"transcribe.py"`

	PollSchedule        string        `env:"POLL_SCHEDULE" envDefault:"@every 1h"`
	PollConcurrency     int           `env:"POLL_CONCURRENCY" envDefault:"4"`
	SubscriptionTimeout time.Duration `env:"SUBSCRIPTION_TIMEOUT" envDefault:"10m"`
	// Requests per second against the YouTube Data API across the whole run.
	YouTubeRPS float64 `env:"YOUTUBE_RPS" envDefault:"2"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ProxyURL builds the proxy URL for the authenticated caption strategy,
// or nil when no proxy is configured.
func (c *Config) ProxyURL() *url.URL {
	if c.ProxyHost == "" {
		return nil
	}
	u := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", c.ProxyHost, c.ProxyPort),
	}
	if c.ProxyUsername != "" {
		u.User = url.UserPassword(c.ProxyUsername, c.ProxyPassword)
	}
	return u
}
