package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
)

type fakeStrategy struct {
	name    string
	text    string
	err     error
	calls   int
	panicky bool
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Attempt(ctx context.Context, videoID, lang string) (string, error) {
	f.calls++
	if f.panicky {
		panic("boom")
	}
	return f.text, f.err
}

func TestResolveFirstSuccessWins(t *testing.T) {
	a := &fakeStrategy{name: "a", text: "transcript from strategy a"}
	b := &fakeStrategy{name: "b", text: "transcript from strategy b"}
	audio := &fakeStrategy{name: "audio", text: "audio transcript"}

	r := NewResolver([]Strategy{a, b}, audio, "tr")
	outcome := r.Resolve(context.Background(), "video1", models.TierMax)

	assert.Equal(t, StatusResolved, outcome.Status)
	assert.Equal(t, "transcript from strategy a", outcome.Text)
	assert.Equal(t, "a", outcome.Strategy)
	assert.Equal(t, 0, b.calls)
	assert.Equal(t, 0, audio.calls)
}

func TestResolveFallsThroughChain(t *testing.T) {
	a := &fakeStrategy{name: "a", err: errors.New("proxy error")}
	b := &fakeStrategy{name: "b", err: ErrNoCaptions}
	c := &fakeStrategy{name: "c", text: "transcript from strategy c"}

	r := NewResolver([]Strategy{a, b, c}, nil, "tr")
	outcome := r.Resolve(context.Background(), "video1", models.TierFree)

	assert.Equal(t, StatusResolved, outcome.Status)
	assert.Equal(t, "c", outcome.Strategy)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestResolveBotDetectionSkipsOnlyThatStrategy(t *testing.T) {
	a := &fakeStrategy{name: "a", err: ErrBotDetected}
	b := &fakeStrategy{name: "b", text: "transcript from strategy b"}

	r := NewResolver([]Strategy{a, b}, nil, "tr")
	outcome := r.Resolve(context.Background(), "video1", models.TierFree)

	assert.Equal(t, StatusResolved, outcome.Status)
	assert.Equal(t, "b", outcome.Strategy)
}

func TestResolveTierWithoutAudioFallback(t *testing.T) {
	a := &fakeStrategy{name: "a", err: ErrNoCaptions}
	audio := &fakeStrategy{name: "audio", text: "audio transcript"}

	r := NewResolver([]Strategy{a}, audio, "tr")

	for _, tier := range []models.Tier{models.TierGuest, models.TierFree} {
		outcome := r.Resolve(context.Background(), "video1", tier)
		assert.Equal(t, StatusNotAvailableForTier, outcome.Status)
	}
	// The gated strategy is never touched for these tiers.
	assert.Equal(t, 0, audio.calls)
}

func TestResolveAudioFallback(t *testing.T) {
	a := &fakeStrategy{name: "a", err: ErrNoCaptions}
	audio := &fakeStrategy{name: "audio", text: "audio transcript"}

	r := NewResolver([]Strategy{a}, audio, "tr")
	outcome := r.Resolve(context.Background(), "video1", models.TierPro)

	assert.Equal(t, StatusResolved, outcome.Status)
	assert.Equal(t, "audio transcript", outcome.Text)
	assert.Equal(t, "audio", outcome.Strategy)
}

func TestResolveAudioFallbackFails(t *testing.T) {
	a := &fakeStrategy{name: "a", err: ErrNoCaptions}
	audio := &fakeStrategy{name: "audio", err: errors.New("yt-dlp exploded")}

	r := NewResolver([]Strategy{a}, audio, "tr")
	outcome := r.Resolve(context.Background(), "video1", models.TierPro)

	assert.Equal(t, StatusFailed, outcome.Status)
}

func TestResolveNoAudioStrategyConfigured(t *testing.T) {
	a := &fakeStrategy{name: "a", err: ErrNoCaptions}

	r := NewResolver([]Strategy{a}, nil, "tr")
	outcome := r.Resolve(context.Background(), "video1", models.TierPro)

	assert.Equal(t, StatusNotAvailable, outcome.Status)
}
