package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
)

const defaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

var (
	// ErrChannelNotFound means the channel does not exist or has no
	// public uploads. The poller treats it as "no new video this cycle".
	ErrChannelNotFound = errors.New("channel not found")
	// ErrQuotaExceeded means the Data API rejected the call for quota
	// reasons. Also mapped to "no new video this cycle" so one exhausted
	// key never aborts the whole run.
	ErrQuotaExceeded = errors.New("youtube API quota exceeded")
)

// Client reads channel upload metadata from the YouTube Data API v3. It
// accepts both canonical channel ids and human-readable handles.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey, baseURL: defaultAPIBaseURL, client: http.DefaultClient}
}

type channelListResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			Title        string    `json:"title"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
			ResourceID   struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

// Latest returns the single most recent public upload for the channel.
func (c *Client) Latest(ctx context.Context, channel string) (models.ChannelLatestVideo, error) {
	videos, err := c.Recent(ctx, channel, 1)
	if err != nil {
		return models.ChannelLatestVideo{}, err
	}
	return videos[0], nil
}

// Recent returns up to n of the channel's most recent public uploads,
// newest first.
func (c *Client) Recent(ctx context.Context, channel string, n int) ([]models.ChannelLatestVideo, error) {
	uploadsPlaylist, err := c.resolveUploadsPlaylist(ctx, channel)
	if err != nil {
		return nil, err
	}

	var playlist playlistItemsResponse
	err = requests.
		URL(c.baseURL+"/playlistItems").
		Param("part", "snippet").
		Param("playlistId", uploadsPlaylist).
		Param("maxResults", strconv.Itoa(n)).
		Param("key", c.apiKey).
		Client(c.client).
		ToJSON(&playlist).
		Fetch(ctx)
	if err != nil {
		return nil, c.mapAPIError("playlistItems.list", channel, err)
	}
	if len(playlist.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	videos := make([]models.ChannelLatestVideo, 0, len(playlist.Items))
	for _, item := range playlist.Items {
		videos = append(videos, models.ChannelLatestVideo{
			ID:           item.Snippet.ResourceID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	return videos, nil
}

// resolveUploadsPlaylist resolves a channel id or handle to the id of
// its uploads playlist, using the cheapest available query.
func (c *Client) resolveUploadsPlaylist(ctx context.Context, channel string) (string, error) {
	req := requests.
		URL(c.baseURL+"/channels").
		Param("part", "contentDetails").
		Param("key", c.apiKey).
		Client(c.client)

	if isCanonicalID(channel) {
		req = req.Param("id", channel)
	} else {
		if !strings.HasPrefix(channel, "@") {
			channel = "@" + channel
		}
		req = req.Param("forHandle", channel)
	}

	var channels channelListResponse
	if err := req.ToJSON(&channels).Fetch(ctx); err != nil {
		return "", c.mapAPIError("channels.list", channel, err)
	}
	if len(channels.Items) == 0 {
		return "", ErrChannelNotFound
	}

	uploads := channels.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return "", ErrChannelNotFound
	}
	return uploads, nil
}

func (c *Client) mapAPIError(call, channel string, err error) error {
	if requests.HasStatusErr(err, http.StatusForbidden, http.StatusTooManyRequests) {
		return fmt.Errorf("%s for channel %s: %w", call, channel, ErrQuotaExceeded)
	}
	if requests.HasStatusErr(err, http.StatusNotFound) {
		return fmt.Errorf("%s for channel %s: %w", call, channel, ErrChannelNotFound)
	}
	return fmt.Errorf("%s for channel %s: %w", call, channel, err)
}

// isCanonicalID reports whether the identifier is already a canonical
// channel id rather than a human handle.
func isCanonicalID(channel string) bool {
	return len(channel) == 24 && strings.HasPrefix(channel, "UC")
}
