package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/carlmjohnson/requests"
)

const (
	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

	innertubeClientName    = "WEB"
	innertubeClientVersion = "2.20240210.01.00"
)

var (
	apiKeyPattern        = regexp.MustCompile(`"INNERTUBE_API_KEY":"([^"]+)"`)
	apiKeyEscapedPattern = regexp.MustCompile(`INNERTUBE_API_KEY\\":\\"([^\\"]+)\\"`)
)

// Innertube scrapes the video's public page for the embedded client API
// key and calls the internal player API with it. More resilient than the
// public listing when anonymous sessions are throttled, but also the
// strategy most likely to trip bot detection, which it reports as
// ErrBotDetected so the resolver does not retry it in the same run.
type Innertube struct {
	baseURL string
	client  *http.Client
}

func NewInnertube() *Innertube {
	return &Innertube{baseURL: defaultCaptionBaseURL, client: http.DefaultClient}
}

func (s *Innertube) Name() string { return "innertube" }

type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []innertubeTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type innertubeTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

type json3Transcript struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func (s *Innertube) Attempt(ctx context.Context, videoID, lang string) (string, error) {
	apiKey, err := s.extractAPIKey(ctx, videoID, lang)
	if err != nil {
		return "", err
	}

	var player playerResponse
	err = requests.
		URL(s.baseURL+"/youtubei/v1/player").
		Param("key", apiKey).
		Header("User-Agent", desktopUserAgent).
		Client(s.client).
		BodyJSON(map[string]any{
			"context": map[string]any{
				"client": map[string]any{
					"clientName":    innertubeClientName,
					"clientVersion": innertubeClientVersion,
				},
			},
			"videoId": videoID,
		}).
		ToJSON(&player).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("player API request failed: %w", err)
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return "", ErrNoCaptions
	}
	track := pickInnertubeTrack(tracks, lang)

	var payload string
	err = requests.
		URL(track.BaseURL).
		Param("fmt", "json3").
		Client(s.client).
		ToString(&payload).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("caption payload fetch failed: %w", err)
	}

	text, err := parseCaptionPayload(payload)
	if err != nil {
		return "", err
	}
	return checkLength(text)
}

// extractAPIKey loads the watch page and pulls the embedded client API
// key out of it. A recaptcha marker in the page means the request was
// flagged as automated.
func (s *Innertube) extractAPIKey(ctx context.Context, videoID, lang string) (string, error) {
	var body string
	err := requests.
		URL(s.baseURL+"/watch").
		Param("v", videoID).
		Header("User-Agent", desktopUserAgent).
		Header("Accept-Language", fmt.Sprintf("%s,en-US;q=0.8,en;q=0.7", lang)).
		Client(s.client).
		ToString(&body).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("watch page fetch failed: %w", err)
	}

	if strings.Contains(body, `class="g-recaptcha"`) {
		return "", ErrBotDetected
	}

	if m := apiKeyPattern.FindStringSubmatch(body); m != nil {
		return m[1], nil
	}
	if m := apiKeyEscapedPattern.FindStringSubmatch(body); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("no API key found in watch page")
}

// parseCaptionPayload handles both formats the track endpoint is known to
// return: json3 segment events and legacy timed XML.
func parseCaptionPayload(payload string) (string, error) {
	trimmed := strings.TrimSpace(payload)
	switch {
	case strings.HasPrefix(trimmed, "{"):
		var t json3Transcript
		if err := json.Unmarshal([]byte(trimmed), &t); err != nil {
			return "", fmt.Errorf("failed to parse json3 captions: %w", err)
		}
		segments := make([]string, 0, len(t.Events))
		for _, ev := range t.Events {
			if len(ev.Segs) == 0 {
				continue
			}
			var sb strings.Builder
			for _, seg := range ev.Segs {
				sb.WriteString(seg.UTF8)
			}
			segments = append(segments, sb.String())
		}
		return normalize(segments), nil
	case strings.HasPrefix(trimmed, "<"):
		var tt timedText
		if err := xml.Unmarshal([]byte(trimmed), &tt); err != nil {
			return "", fmt.Errorf("failed to parse timed XML captions: %w", err)
		}
		return normalize(tt.Texts), nil
	default:
		return "", fmt.Errorf("unrecognized caption payload format")
	}
}

func pickInnertubeTrack(tracks []innertubeTrack, lang string) innertubeTrack {
	for _, t := range tracks {
		if t.LanguageCode == lang {
			return t
		}
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" {
			return t
		}
	}
	return tracks[0]
}
