package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
	"github.com/yusufnadiruzun/video-summary-app/internal/notify"
	"github.com/yusufnadiruzun/video-summary-app/internal/poller"
	"github.com/yusufnadiruzun/video-summary-app/internal/test"
	"github.com/yusufnadiruzun/video-summary-app/internal/transcript"
	"github.com/yusufnadiruzun/video-summary-app/pkg/tasks"
)

var pollColumns = []string{
	"subscription_id", "user_id", "channel_id", "last_video_id",
	"notification_email", "telegram_chat_id", "whatsapp_phone", "package_id",
}

type stubDetector struct {
	video models.ChannelLatestVideo
	err   error
}

func (s *stubDetector) Latest(ctx context.Context, channel string) (models.ChannelLatestVideo, error) {
	return s.video, s.err
}

type stubResolver struct{}

func (stubResolver) Resolve(ctx context.Context, videoID string, tier models.Tier) transcript.Outcome {
	return transcript.Outcome{Status: transcript.StatusNotAvailable}
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(ctx context.Context, transcriptText, instruction string) (string, error) {
	return "summary", nil
}

type stubDispatcher struct{}

func (stubDispatcher) Dispatch(ctx context.Context, video models.ChannelLatestVideo, summary string, cfg models.DeliveryConfig, tier models.Tier) []notify.ChannelResult {
	return nil
}

func newStubOrchestrator(d poller.Detector) *poller.Orchestrator {
	return poller.NewOrchestrator(d, stubResolver{}, stubSummarizer{}, stubDispatcher{}, 1000, 1, 5*time.Second)
}

func TestHandleCheckAllSubscriptionsTask(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("FROM subscriptions s").WillReturnRows(
		sqlmock.NewRows(pollColumns).
			AddRow(1, 10, "UCchannelAAAAAAAAAAAAAAA", "aaa111", nil, 111, nil, nil).
			AddRow(2, 20, "UCchannelBBBBBBBBBBBBBBB", "bbb111", nil, 222, nil, nil),
	)

	enqueuer := &test.MockTaskEnqueuer{}
	h := NewTaskHandler(enqueuer, newStubOrchestrator(&stubDetector{}))

	task, err := tasks.NewCheckAllSubscriptionsTask()
	require.NoError(t, err)
	require.NoError(t, h.HandleCheckAllSubscriptionsTask(context.Background(), task))

	require.Len(t, enqueuer.EnqueuedTasks, 2)
	var got []int
	for _, enqueued := range enqueuer.EnqueuedTasks {
		assert.Equal(t, tasks.TypeCheckSubscription, enqueued.Type())
		var p tasks.CheckSubscriptionTaskPayload
		require.NoError(t, json.Unmarshal(enqueued.Payload(), &p))
		got = append(got, p.SubscriptionID)
	}
	assert.Equal(t, []int{1, 2}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCheckAllSubscriptionsTaskDBError(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("FROM subscriptions s").WillReturnError(errors.New("db gone"))

	enqueuer := &test.MockTaskEnqueuer{}
	h := NewTaskHandler(enqueuer, newStubOrchestrator(&stubDetector{}))

	task, _ := tasks.NewCheckAllSubscriptionsTask()
	err := h.HandleCheckAllSubscriptionsTask(context.Background(), task)
	assert.Error(t, err)
	assert.Empty(t, enqueuer.EnqueuedTasks)
}

func TestHandleCheckSubscriptionTask(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("WHERE s.id =").WithArgs(1).WillReturnRows(
		sqlmock.NewRows(pollColumns).
			AddRow(1, 42, "UCGBytjbMXiF1nbe6HD7iORQ", "xyz789", nil, 123456, nil, nil),
	)

	// The latest upload matches the watermark, so the cycle is a no-op
	// and the handler reports success.
	detector := &stubDetector{video: models.ChannelLatestVideo{ID: "xyz789"}}
	h := NewTaskHandler(&test.MockTaskEnqueuer{}, newStubOrchestrator(detector))

	task, err := tasks.NewCheckSubscriptionTask(1)
	require.NoError(t, err)
	assert.NoError(t, h.HandleCheckSubscriptionTask(context.Background(), task))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCheckSubscriptionTaskDetectorFailure(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("WHERE s.id =").WithArgs(1).WillReturnRows(
		sqlmock.NewRows(pollColumns).
			AddRow(1, 42, "UCGBytjbMXiF1nbe6HD7iORQ", "xyz789", nil, 123456, nil, nil),
	)

	detector := &stubDetector{err: errors.New("metadata api unreachable")}
	h := NewTaskHandler(&test.MockTaskEnqueuer{}, newStubOrchestrator(detector))

	task, _ := tasks.NewCheckSubscriptionTask(1)
	// A transient failure bubbles up so asynq retries the task.
	assert.Error(t, h.HandleCheckSubscriptionTask(context.Background(), task))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCheckSubscriptionTaskBadPayload(t *testing.T) {
	h := NewTaskHandler(&test.MockTaskEnqueuer{}, newStubOrchestrator(&stubDetector{}))

	task := asynq.NewTask(tasks.TypeCheckSubscription, []byte("not json"))
	assert.Error(t, h.HandleCheckSubscriptionTask(context.Background(), task))
}
