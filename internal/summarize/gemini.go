package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/carlmjohnson/requests"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
)

const defaultAPIBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	// ErrModelNotFound means the configured model name is stale.
	ErrModelNotFound = errors.New("summarizer model not found")
	// ErrQuotaExceeded means the summarizer rejected the call for quota
	// reasons.
	ErrQuotaExceeded = errors.New("summarizer quota exceeded")
)

// NoTranscriptMessage is returned instead of calling the model when
// there is no transcript text to summarize.
const NoTranscriptMessage = "Transcript unavailable, no summary could be generated."

// Client summarizes transcripts with the Gemini generateContent API.
// The summarization itself is an opaque capability: text in, text out,
// or a typed failure.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey, model string) *Client {
	return &Client{apiKey: apiKey, model: model, baseURL: defaultAPIBaseURL, client: http.DefaultClient}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Summarize produces a short summary of the transcript. An optional
// instruction customizes the prompt. An empty transcript short-circuits
// to NoTranscriptMessage without calling the model.
func (c *Client) Summarize(ctx context.Context, transcript, instruction string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return NoTranscriptMessage, nil
	}

	prompt := "Summarize the content of this video transcript briefly."
	if instruction != "" {
		prompt = fmt.Sprintf("Summarize the video transcript I give you. Also take this instruction into account: %s", instruction)
	}

	var resp generateResponse
	err := requests.
		URL(fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)).
		Param("key", c.apiKey).
		Client(c.client).
		BodyJSON(generateRequest{
			Contents: []content{{Parts: []part{{Text: prompt + ": " + transcript}}}},
		}).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		switch {
		case requests.HasStatusErr(err, http.StatusNotFound):
			return "", fmt.Errorf("generateContent: %w", ErrModelNotFound)
		case requests.HasStatusErr(err, http.StatusTooManyRequests):
			return "", fmt.Errorf("generateContent: %w", ErrQuotaExceeded)
		default:
			return "", fmt.Errorf("generateContent: %w", err)
		}
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generateContent returned no candidates")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// VideoTranscript pairs a video with its resolved transcript for
// channel-level analysis.
type VideoTranscript struct {
	Video      models.ChannelLatestVideo
	Transcript string
}

// NoChannelDataMessage is returned when none of a channel's recent
// videos yielded a transcript.
const NoChannelDataMessage = "No transcript data could be collected for this channel's recent videos, so a detailed analysis is not possible."

// Excerpts longer than this are cut before being blended into the
// channel prompt to keep it inside the model's context.
const maxExcerptLen = 2000

// ChannelInsight blends the transcripts of a channel's recent videos
// into one channel-level analysis. Videos without a transcript are
// skipped; when everything was skipped a fixed message is returned
// without calling the model.
func (c *Client) ChannelInsight(ctx context.Context, videos []VideoTranscript) (string, error) {
	var sections []string
	for _, v := range videos {
		text := strings.TrimSpace(v.Transcript)
		if text == "" {
			continue
		}
		if len(text) > maxExcerptLen {
			text = text[:maxExcerptLen]
		}
		sections = append(sections, fmt.Sprintf("Title: %s\nContent: %s", v.Video.Title, text))
	}
	if len(sections) == 0 {
		return NoChannelDataMessage, nil
	}

	instruction := "Below are transcript excerpts from a channel's recent videos. " +
		"Based on them, summarize in three paragraphs the channel's area of expertise, " +
		"its publishing language, and the core value it offers viewers."

	return c.Summarize(ctx, strings.Join(sections, "\n\n---\n\n"), instruction)
}
