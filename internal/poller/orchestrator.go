package poller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yusufnadiruzun/video-summary-app/internal/db"
	"github.com/yusufnadiruzun/video-summary-app/internal/models"
	"github.com/yusufnadiruzun/video-summary-app/internal/notify"
	"github.com/yusufnadiruzun/video-summary-app/internal/transcript"
	"github.com/yusufnadiruzun/video-summary-app/internal/youtube"
)

// Stages of the per-subscription cycle, recorded on errors.
const (
	StageScanning    = "scanning"
	StageResolving   = "resolving"
	StageSummarizing = "summarizing"
	StageDispatching = "dispatching"
	StageCommitting  = "committing"
)

// FallbackSummary is dispatched when the summarizer fails. The cycle
// degrades rather than aborting.
const FallbackSummary = "A new video was published, but a summary could not be generated this time."

// Detector reads the latest upload for a tracked channel.
type Detector interface {
	Latest(ctx context.Context, channel string) (models.ChannelLatestVideo, error)
}

// Resolver obtains a transcript under a subscriber's tier.
type Resolver interface {
	Resolve(ctx context.Context, videoID string, tier models.Tier) transcript.Outcome
}

// Summarizer turns transcript text into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcriptText, instruction string) (string, error)
}

// Dispatcher fans a new-video event out to a subscriber's channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, video models.ChannelLatestVideo, summary string, cfg models.DeliveryConfig, tier models.Tier) []notify.ChannelResult
}

// StageError wraps a per-subscription failure with the stage it
// happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Result summarizes one subscription's cycle.
type Result struct {
	SubscriptionID int
	NewVideo       bool
	VideoID        string
	Sent           int
	Failed         int
}

// Orchestrator iterates all active subscriptions, detects new uploads,
// resolves transcripts, summarizes and dispatches, and commits the
// watermark. All continuity between runs is carried by the persisted
// watermark; there is no cross-run in-memory state.
type Orchestrator struct {
	detector   Detector
	resolver   Resolver
	summarizer Summarizer
	notifier   Dispatcher

	// limiter caps calls against the channel-metadata API across the
	// whole run.
	limiter     *rate.Limiter
	concurrency int
	subTimeout  time.Duration
}

func NewOrchestrator(detector Detector, resolver Resolver, summarizer Summarizer, notifier Dispatcher, rps float64, concurrency int, subTimeout time.Duration) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{
		detector:    detector,
		resolver:    resolver,
		summarizer:  summarizer,
		notifier:    notifier,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		concurrency: concurrency,
		subTimeout:  subTimeout,
	}
}

// Run executes one poll cycle over every active subscription. Only a
// failure to read the subscription store at all is returned as an
// error; every per-subscription failure lands in the report and the run
// carries on.
func (o *Orchestrator) Run(ctx context.Context) (*models.DispatchReport, error) {
	targets, err := db.GetPollTargets()
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	report := &models.DispatchReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Errors:    []models.SubscriptionError{},
	}
	var mu sync.Mutex

	// The store holds (user, channel) unique, but the watermark
	// read-then-write must never race even if it doesn't.
	seen := make(map[string]bool, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, target := range targets {
		target := target
		key := fmt.Sprintf("%d:%s", target.UserID, target.ChannelID)
		if seen[key] {
			log.Printf("skipping duplicate subscription %d for user %d channel %s", target.SubscriptionID, target.UserID, target.ChannelID)
			continue
		}
		seen[key] = true

		g.Go(func() error {
			subCtx, cancel := context.WithTimeout(ctx, o.subTimeout)
			defer cancel()

			result, err := o.processSafely(subCtx, target)

			mu.Lock()
			defer mu.Unlock()
			report.Scanned++
			if result.NewVideo {
				report.NewVideos++
			}
			report.NotificationsSent += result.Sent
			report.NotificationsFailed += result.Failed
			if err != nil {
				stage := "unknown"
				var stageErr *StageError
				if errors.As(err, &stageErr) {
					stage = stageErr.Stage
				}
				report.Errors = append(report.Errors, models.SubscriptionError{
					SubscriptionID: target.SubscriptionID,
					Stage:          stage,
					Message:        err.Error(),
				})
			}
			return nil
		})
	}

	// Goroutines never return errors; failures are recorded per
	// subscription above.
	_ = g.Wait()

	report.FinishedAt = time.Now().UTC()
	log.Printf("poll run %s finished: scanned=%d new=%d sent=%d failed=%d errors=%d",
		report.RunID, report.Scanned, report.NewVideos, report.NotificationsSent, report.NotificationsFailed, len(report.Errors))
	return report, nil
}

// processSafely shields the run from panics in a single subscription's
// cycle.
func (o *Orchestrator) processSafely(ctx context.Context, target models.PollTarget) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic while processing subscription %d: %v", target.SubscriptionID, r)
			err = &StageError{Stage: StageResolving, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return o.ProcessOne(ctx, target)
}

// ProcessOne runs the per-subscription state machine for one cycle:
// detect, resolve, summarize, dispatch, commit. The watermark is
// committed only after dispatch has been attempted, so a crash in
// between makes the next cycle retry the same video (at-least-once
// notification).
func (o *Orchestrator) ProcessOne(ctx context.Context, target models.PollTarget) (Result, error) {
	result := Result{SubscriptionID: target.SubscriptionID}

	if err := o.limiter.Wait(ctx); err != nil {
		return result, &StageError{Stage: StageScanning, Err: err}
	}

	latest, err := o.detector.Latest(ctx, target.ChannelID)
	if err != nil {
		// A missing channel or an exhausted metadata quota means "no
		// new video this cycle", not a hard failure.
		if errors.Is(err, youtube.ErrChannelNotFound) || errors.Is(err, youtube.ErrQuotaExceeded) {
			log.Printf("subscription %d: no video this cycle: %v", target.SubscriptionID, err)
			return result, nil
		}
		return result, &StageError{Stage: StageScanning, Err: err}
	}

	if target.LastVideoID.Valid && latest.ID == target.LastVideoID.String {
		return result, nil
	}
	result.NewVideo = true
	result.VideoID = latest.ID
	log.Printf("subscription %d: new video %s (%s)", target.SubscriptionID, latest.ID, latest.Title)

	tier := models.TierForPackage(target.PackageID)
	if used, err := db.GetDailyUsage(target.UserID); err == nil {
		tier.UsedToday = used
	}

	// A transcript that could not be obtained still advances the cycle:
	// the subscriber gets a best-effort notification rather than
	// silence.
	outcome := o.resolver.Resolve(ctx, latest.ID, tier)
	if outcome.Status == transcript.StatusResolved {
		log.Printf("subscription %d: transcript resolved via %s", target.SubscriptionID, outcome.Strategy)
	} else {
		log.Printf("subscription %d: transcript %s", target.SubscriptionID, outcome.Status)
	}

	summary, err := o.summarizer.Summarize(ctx, outcome.Text, "")
	if err != nil {
		log.Printf("subscription %d: summarizer failed, degrading: %v", target.SubscriptionID, err)
		summary = FallbackSummary
	}

	for _, cr := range o.notifier.Dispatch(ctx, latest, summary, target.Delivery(), tier) {
		if cr.Sent {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	if err := db.UpdateWatermark(target.SubscriptionID, latest.ID); err != nil {
		return result, &StageError{Stage: StageCommitting, Err: err}
	}
	return result, nil
}
