package models

import (
	"fmt"
	"time"
)

// ChannelLatestVideo is the most recent public upload of a tracked
// channel, as reported by the channel-metadata API.
type ChannelLatestVideo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title"`
	PublishedAt  time.Time `json:"published_at"`
}

// WatchURL returns the public link embedded in notifications.
func (v ChannelLatestVideo) WatchURL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.ID)
}
