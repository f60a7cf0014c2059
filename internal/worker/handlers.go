package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/yusufnadiruzun/video-summary-app/internal/db"
	"github.com/yusufnadiruzun/video-summary-app/internal/poller"
	"github.com/yusufnadiruzun/video-summary-app/pkg/tasks"
)

type TaskHandler struct {
	asynqClient  tasks.TaskEnqueuer
	orchestrator *poller.Orchestrator
}

func NewTaskHandler(client tasks.TaskEnqueuer, orchestrator *poller.Orchestrator) *TaskHandler {
	return &TaskHandler{asynqClient: client, orchestrator: orchestrator}
}

// HandleCheckAllSubscriptionsTask fans the scheduled poll out into one
// task per subscription, so one stuck channel never delays the others
// and asynq retries them independently.
func (h *TaskHandler) HandleCheckAllSubscriptionsTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Checking all subscriptions...")

	targets, err := db.GetPollTargets()
	if err != nil {
		return fmt.Errorf("failed to get poll targets: %w", err)
	}

	for _, target := range targets {
		task, err := tasks.NewCheckSubscriptionTask(target.SubscriptionID)
		if err != nil {
			log.Printf("failed to create check task for subscription %d: %v", target.SubscriptionID, err)
			continue
		}

		_, err = h.asynqClient.Enqueue(task)
		if err != nil {
			log.Printf("failed to enqueue check task for subscription %d: %v", target.SubscriptionID, err)
			continue
		}
	}

	log.Println("Finished checking all subscriptions.")
	return nil
}

// HandleCheckSubscriptionTask runs one subscription's full cycle:
// detect, resolve, summarize, dispatch, commit watermark. A returned
// error makes asynq retry with backoff; the watermark stays put until a
// dispatch has been attempted, so retries re-detect the same video.
func (h *TaskHandler) HandleCheckSubscriptionTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.CheckSubscriptionTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	log.Printf("Checking subscription: %d", p.SubscriptionID)

	target, err := db.GetPollTargetByID(p.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to get subscription %d: %w", p.SubscriptionID, err)
	}

	result, err := h.orchestrator.ProcessOne(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to process subscription %d: %w", p.SubscriptionID, err)
	}

	if result.NewVideo {
		log.Printf("Subscription %d: dispatched video %s (sent=%d failed=%d)",
			p.SubscriptionID, result.VideoID, result.Sent, result.Failed)
	}
	return nil
}
