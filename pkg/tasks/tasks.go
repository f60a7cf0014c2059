package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeCheckSubscription     = "subscription:check"
	TypeCheckAllSubscriptions = "subscriptions:checkall"
)

// TaskEnqueuer is the part of asynq.Client the fan-out handler needs;
// mocked in tests.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type CheckSubscriptionTaskPayload struct {
	SubscriptionID int
}

func NewCheckSubscriptionTask(subscriptionID int) (*asynq.Task, error) {
	payload, err := json.Marshal(CheckSubscriptionTaskPayload{SubscriptionID: subscriptionID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCheckSubscription, payload), nil
}

func NewCheckAllSubscriptionsTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeCheckAllSubscriptions, nil), nil
}
