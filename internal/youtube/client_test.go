package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newAPITestServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		switch r.URL.Path {
		case "/channels":
			if id := r.URL.Query().Get("id"); id != "" && id != "UCGBytjbMXiF1nbe6HD7iORQ" {
				fmt.Fprint(w, `{"items": []}`)
				return
			}
			if handle := r.URL.Query().Get("forHandle"); handle != "" && handle != "@somecreator" {
				fmt.Fprint(w, `{"items": []}`)
				return
			}
			fmt.Fprint(w, `{"items": [{"contentDetails": {"relatedPlaylists": {"uploads": "UUGBytjbMXiF1nbe6HD7iORQ"}}}]}`)
		case "/playlistItems":
			assert.Equal(t, "UUGBytjbMXiF1nbe6HD7iORQ", r.URL.Query().Get("playlistId"))
			fmt.Fprint(w, `{"items": [
				{"snippet": {"title": "Latest video", "channelTitle": "Some Creator", "publishedAt": "2026-08-30T10:00:00Z", "resourceId": {"videoId": "xyz789"}}},
				{"snippet": {"title": "Older video", "channelTitle": "Some Creator", "publishedAt": "2026-08-20T10:00:00Z", "resourceId": {"videoId": "abc123"}}}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestLatestWithChannelID(t *testing.T) {
	srv := newAPITestServer(t)
	defer srv.Close()

	c := NewClient("test-key")
	c.baseURL = srv.URL

	video, err := c.Latest(context.Background(), "UCGBytjbMXiF1nbe6HD7iORQ")
	assert.NoError(t, err)
	assert.Equal(t, "xyz789", video.ID)
	assert.Equal(t, "Latest video", video.Title)
	assert.Equal(t, "Some Creator", video.ChannelTitle)
}

func TestLatestWithHandle(t *testing.T) {
	srv := newAPITestServer(t)
	defer srv.Close()

	c := NewClient("test-key")
	c.baseURL = srv.URL

	// Handles resolve the same way with or without the leading @.
	for _, handle := range []string{"@somecreator", "somecreator"} {
		video, err := c.Latest(context.Background(), handle)
		assert.NoError(t, err)
		assert.Equal(t, "xyz789", video.ID)
	}
}

func TestRecentReturnsAllItems(t *testing.T) {
	srv := newAPITestServer(t)
	defer srv.Close()

	c := NewClient("test-key")
	c.baseURL = srv.URL

	videos, err := c.Recent(context.Background(), "UCGBytjbMXiF1nbe6HD7iORQ", 2)
	assert.NoError(t, err)
	assert.Len(t, videos, 2)
	assert.Equal(t, "abc123", videos[1].ID)
}

func TestLatestChannelNotFound(t *testing.T) {
	srv := newAPITestServer(t)
	defer srv.Close()

	c := NewClient("test-key")
	c.baseURL = srv.URL

	_, err := c.Latest(context.Background(), "UCxxxxxxxxxxxxxxxxxxxxxx")
	assert.True(t, errors.Is(err, ErrChannelNotFound))
}

func TestLatestQuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"errors": [{"reason": "quotaExceeded"}]}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.baseURL = srv.URL

	_, err := c.Latest(context.Background(), "UCGBytjbMXiF1nbe6HD7iORQ")
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
}

func TestIsCanonicalID(t *testing.T) {
	assert.True(t, isCanonicalID("UCGBytjbMXiF1nbe6HD7iORQ"))
	assert.False(t, isCanonicalID("@somecreator"))
	assert.False(t, isCanonicalID("UCshort"))
}
