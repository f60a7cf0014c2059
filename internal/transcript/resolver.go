package transcript

import (
	"context"
	"errors"
	"log"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
)

// Resolver runs an ordered chain of caption strategies and applies the
// tier-gated audio fallback. Strategies run sequentially so a single
// rate-limited upstream is never hit concurrently; the first strategy to
// produce usable text wins.
type Resolver struct {
	chain []Strategy
	// audio is the tier-gated fallback; nil when not configured.
	audio Strategy
	lang  string
}

// NewResolver builds a resolver over the configured chain. The chain
// order is fixed by configuration, not hardcoded per call site.
func NewResolver(chain []Strategy, audio Strategy, lang string) *Resolver {
	return &Resolver{chain: chain, audio: audio, lang: lang}
}

// Resolve obtains a transcript for the video under the subscriber's
// tier. It never returns an error: every strategy failure is converted
// into an outcome status at this boundary.
func (r *Resolver) Resolve(ctx context.Context, videoID string, tier models.Tier) Outcome {
	for _, strat := range r.chain {
		text, err := strat.Attempt(ctx, videoID, r.lang)
		if err == nil {
			return Outcome{Status: StatusResolved, Text: text, Strategy: strat.Name()}
		}
		switch {
		case errors.Is(err, ErrBotDetected):
			log.Printf("strategy %s hit bot detection for video %s, skipping it for this cycle", strat.Name(), videoID)
		case errors.Is(err, ErrNoCaptions):
			log.Printf("strategy %s found no captions for video %s", strat.Name(), videoID)
		default:
			log.Printf("strategy %s failed for video %s: %v", strat.Name(), videoID, err)
		}
	}

	if !tier.AudioFallback {
		return Outcome{Status: StatusNotAvailableForTier}
	}
	if r.audio == nil {
		return Outcome{Status: StatusNotAvailable}
	}

	text, err := r.audio.Attempt(ctx, videoID, r.lang)
	if err != nil {
		log.Printf("audio fallback failed for video %s: %v", videoID, err)
		return Outcome{Status: StatusFailed}
	}
	return Outcome{Status: StatusResolved, Text: text, Strategy: r.audio.Name()}
}
