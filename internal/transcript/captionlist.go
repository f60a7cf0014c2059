package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"

	"github.com/carlmjohnson/requests"
)

const defaultCaptionBaseURL = "https://www.youtube.com"

// CaptionList fetches transcripts through YouTube's public caption track
// listing. The same code path serves the plain and the proxied variant:
// the proxied one is constructed with an upstream HTTP proxy and a
// persisted session cookie to get past IP-based blocking.
type CaptionList struct {
	name    string
	baseURL string
	client  *http.Client
	cookie  string
}

// NewCaptionList returns the anonymous public-listing strategy.
func NewCaptionList() *CaptionList {
	return &CaptionList{
		name:    "caption_list",
		baseURL: defaultCaptionBaseURL,
		client:  http.DefaultClient,
	}
}

// NewProxiedCaptionList returns the caption-listing strategy routed
// through proxyURL with the given session cookie blob attached.
func NewProxiedCaptionList(proxyURL *url.URL, cookie string) *CaptionList {
	return &CaptionList{
		name:    "caption_list_proxied",
		baseURL: defaultCaptionBaseURL,
		client: &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		},
		cookie: cookie,
	}
}

func (s *CaptionList) Name() string { return s.name }

type trackList struct {
	Tracks []captionTrack `xml:"track"`
}

type captionTrack struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
	Kind     string `xml:"kind,attr"`
}

type timedText struct {
	Texts []string `xml:"text"`
}

// Attempt lists the caption tracks for the video, picks the preferred
// language (falling back to English, then to the first track), fetches
// it and flattens it to plain text.
func (s *CaptionList) Attempt(ctx context.Context, videoID, lang string) (string, error) {
	var listBody string
	err := requests.
		URL(s.baseURL + "/api/timedtext").
		Param("type", "list").
		Param("v", videoID).
		Header("Cookie", s.cookie).
		Client(s.client).
		ToString(&listBody).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("caption track listing failed: %w", err)
	}

	var list trackList
	if err := xml.Unmarshal([]byte(listBody), &list); err != nil {
		return "", fmt.Errorf("failed to parse caption track list: %w", err)
	}
	track, ok := pickTrack(list.Tracks, lang)
	if !ok {
		return "", ErrNoCaptions
	}

	var trackBody string
	err = requests.
		URL(s.baseURL + "/api/timedtext").
		Param("v", videoID).
		Param("lang", track.LangCode).
		Param("name", track.Name).
		Header("Cookie", s.cookie).
		Client(s.client).
		ToString(&trackBody).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("caption track fetch failed: %w", err)
	}

	var tt timedText
	if err := xml.Unmarshal([]byte(trackBody), &tt); err != nil {
		return "", fmt.Errorf("failed to parse caption track: %w", err)
	}

	return checkLength(normalize(tt.Texts))
}

// pickTrack honors the preferred language, then English, then whatever
// comes first.
func pickTrack(tracks []captionTrack, lang string) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}
	for _, t := range tracks {
		if t.LangCode == lang {
			return t, true
		}
	}
	for _, t := range tracks {
		if t.LangCode == "en" {
			return t, true
		}
	}
	return tracks[0], true
}
