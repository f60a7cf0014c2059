package main

import (
	"log"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/yusufnadiruzun/video-summary-app/internal/config"
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

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		&asynq.SchedulerOpts{},
	)

	task, err := tasks.NewCheckAllSubscriptionsTask()
	if err != nil {
		log.Fatalf("could not create task: %v", err)
	}

	_, err = scheduler.Register(cfg.PollSchedule, task)
	if err != nil {
		log.Fatalf("could not register task: %v", err)
	}

	log.Printf("Scheduler starting (commit: %s)", CommitSHA)
	if err := scheduler.Run(); err != nil {
		log.Fatalf("could not run scheduler: %v", err)
	}
}
