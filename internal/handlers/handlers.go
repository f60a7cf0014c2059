package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
	"github.com/yusufnadiruzun/video-summary-app/internal/summarize"
	"github.com/yusufnadiruzun/video-summary-app/internal/transcript"
)

// Runner executes one full poll cycle. Implemented by
// poller.Orchestrator, mockable for testing.
type Runner interface {
	Run(ctx context.Context) (*models.DispatchReport, error)
}

// ChannelReader lists a channel's recent uploads.
type ChannelReader interface {
	Recent(ctx context.Context, channel string, n int) ([]models.ChannelLatestVideo, error)
}

// TranscriptResolver obtains transcripts for the insight endpoint.
type TranscriptResolver interface {
	Resolve(ctx context.Context, videoID string, tier models.Tier) transcript.Outcome
}

// InsightSummarizer produces a channel-level analysis.
type InsightSummarizer interface {
	ChannelInsight(ctx context.Context, videos []summarize.VideoTranscript) (string, error)
}

type Handlers struct {
	orchestrator Runner
	channels     ChannelReader
	resolver     TranscriptResolver
	summarizer   InsightSummarizer
}

func New(orchestrator Runner, channels ChannelReader, resolver TranscriptResolver, summarizer InsightSummarizer) *Handlers {
	return &Handlers{
		orchestrator: orchestrator,
		channels:     channels,
		resolver:     resolver,
		summarizer:   summarizer,
	}
}

// CheckVideos is the scheduled trigger. It runs a full poll cycle and
// always answers with the run report; per-subscription failures are
// visible only inside the report, never as an endpoint failure.
func (h *Handlers) CheckVideos(w http.ResponseWriter, r *http.Request) {
	log.Println("-> Scheduled video check started.")

	report, err := h.orchestrator.Run(r.Context())
	if err != nil {
		log.Printf("Poll run failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "poll run failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
