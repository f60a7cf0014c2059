package main

import (
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/yusufnadiruzun/video-summary-app/internal/config"
	"github.com/yusufnadiruzun/video-summary-app/internal/db"
	"github.com/yusufnadiruzun/video-summary-app/internal/poller"
	"github.com/yusufnadiruzun/video-summary-app/internal/worker"
	"github.com/yusufnadiruzun/video-summary-app/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

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

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer client.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			// Low concurrency to be gentle with the caption and
			// metadata APIs; the per-run limiter caps them further.
			Concurrency: cfg.PollConcurrency,
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
			// Custom retry delay function for exponential backoff
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := 5 * time.Minute
				maxDelay := 24 * time.Hour

				// Exponential backoff: 5min, 10min, 20min, 40min, 80min, etc.
				for i := 0; i < n; i++ {
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
						break
					}
				}

				log.Printf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
				return delay
			},
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(client, pipeline.Orchestrator)

	mux.HandleFunc(tasks.TypeCheckSubscription, taskHandler.HandleCheckSubscriptionTask)
	mux.HandleFunc(tasks.TypeCheckAllSubscriptions, taskHandler.HandleCheckAllSubscriptionsTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
