package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/yusufnadiruzun/video-summary-app/internal/config"
	"github.com/yusufnadiruzun/video-summary-app/internal/db"
	"github.com/yusufnadiruzun/video-summary-app/internal/handlers"
	"github.com/yusufnadiruzun/video-summary-app/internal/middleware"
	"github.com/yusufnadiruzun/video-summary-app/internal/poller"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	db.InitDB(cfg.DatabaseURL)

	pipeline, err := poller.FromConfig(cfg)
	if err != nil {
		log.Fatalf("could not build pipeline: %v", err)
	}

	h := handlers.New(pipeline.Orchestrator, pipeline.Detector, pipeline.Resolver, pipeline.Summarizer)

	if cfg.TelegramBotToken != "" {
		go handlers.StartTelegramBot(cfg.TelegramBotToken)
	}

	limiter := middleware.NewRateLimiterMiddleware(rate.Limit(1), 3)

	r := mux.NewRouter()
	r.Handle("/healthz", http.HandlerFunc(h.Healthz)).Methods(http.MethodGet)
	r.Handle("/api/video/check",
		limiter.Middleware(middleware.SecretMiddleware(cfg.CronSecret, http.HandlerFunc(h.CheckVideos))),
	).Methods(http.MethodGet)
	r.Handle("/api/channel/summary",
		limiter.Middleware(middleware.SecretMiddleware(cfg.CronSecret, http.HandlerFunc(h.ChannelSummary))),
	).Methods(http.MethodPost)

	log.Printf("Starting server on :%s\n", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
