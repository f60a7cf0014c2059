package transcript

import (
	"context"
	"errors"
	"strings"
)

// Status classifies the result of a resolution attempt.
type Status string

const (
	StatusResolved           Status = "RESOLVED"
	StatusNotAvailable       Status = "NOT_AVAILABLE"
	StatusNotAvailableForTier Status = "NOT_AVAILABLE_FOR_TIER"
	StatusFailed             Status = "FAILED"
)

// Outcome is the result of resolving a transcript for one video. Text is
// set only when Status is StatusResolved; Strategy names the strategy
// that produced it.
type Outcome struct {
	Status   Status `json:"status"`
	Text     string `json:"text,omitempty"`
	Strategy string `json:"strategy,omitempty"`
}

// Strategy is one self-contained mechanism for obtaining a transcript.
// Attempt returns the normalized transcript text, ErrNoCaptions when the
// video simply has no usable captions, ErrBotDetected when the upstream
// flagged automated access, or any other error for a transient failure.
// Strategies perform their own network I/O and mutate no shared state.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, videoID, lang string) (string, error)
}

var (
	// ErrNoCaptions means no caption track exists for the video. Not
	// retryable within the same cycle.
	ErrNoCaptions = errors.New("no captions available")
	// ErrBotDetected means the upstream explicitly flagged automated
	// access. The strategy that hit it is not retried in the same run.
	ErrBotDetected = errors.New("bot detection triggered")
)

// Results shorter than this are treated the same as having no captions.
const minTranscriptLen = 10

// normalize flattens caption segments into a single string: segments
// joined by single spaces, embedded newlines collapsed, surrounding
// whitespace trimmed.
func normalize(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.Join(strings.Fields(seg), " ")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// checkLength maps near-empty transcripts to ErrNoCaptions so that a
// track of silence is never treated as success.
func checkLength(text string) (string, error) {
	if len(text) < minTranscriptLen {
		return "", ErrNoCaptions
	}
	return text, nil
}
