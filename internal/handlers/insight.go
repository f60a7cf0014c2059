package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
	"github.com/yusufnadiruzun/video-summary-app/internal/summarize"
	"github.com/yusufnadiruzun/video-summary-app/internal/transcript"
)

const insightVideoCount = 3

type channelSummaryRequest struct {
	ChannelID string `json:"channel_id"`
}

type insightVideo struct {
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	Transcript string `json:"transcript,omitempty"`
	Status     string `json:"status"`
}

type channelSummaryResponse struct {
	Summary string         `json:"summary"`
	Videos  []insightVideo `json:"videos"`
}

// ChannelSummary analyzes a channel from the transcripts of its most
// recent uploads. Transcripts are collected best-effort: a video
// without captions is reported with its status and skipped by the
// analysis.
func (h *Handlers) ChannelSummary(w http.ResponseWriter, r *http.Request) {
	var req channelSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChannelID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "channel_id is required"})
		return
	}

	videos, err := h.channels.Recent(r.Context(), req.ChannelID, insightVideoCount)
	if err != nil {
		log.Printf("Error fetching recent videos for channel %s: %v", req.ChannelID, err)
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "could not fetch channel videos"})
		return
	}

	// Caption strategies only; the caller's identity is not known here,
	// so the audio fallback is never used for insight requests.
	tier := models.TierFree

	collected := make([]summarize.VideoTranscript, 0, len(videos))
	reported := make([]insightVideo, 0, len(videos))
	for _, video := range videos {
		outcome := h.resolver.Resolve(r.Context(), video.ID, tier)
		iv := insightVideo{VideoID: video.ID, Title: video.Title, Status: string(outcome.Status)}
		if outcome.Status == transcript.StatusResolved {
			iv.Transcript = outcome.Text
			collected = append(collected, summarize.VideoTranscript{Video: video, Transcript: outcome.Text})
		}
		reported = append(reported, iv)
	}

	summary, err := h.summarizer.ChannelInsight(r.Context(), collected)
	if err != nil {
		log.Printf("Error analyzing channel %s: %v", req.ChannelID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "channel analysis failed"})
		return
	}

	writeJSON(w, http.StatusOK, channelSummaryResponse{Summary: summary, Videos: reported})
}
