package models

import "time"

// SubscriptionError records one subscription that ended a poll cycle in
// the Errored state, with the stage it failed in.
type SubscriptionError struct {
	SubscriptionID int    `json:"subscription_id"`
	Stage          string `json:"stage"`
	Message        string `json:"message"`
}

// DispatchReport is the aggregate of one poll run. It is returned to the
// scheduled trigger as the response body and is never persisted.
type DispatchReport struct {
	RunID               string              `json:"run_id"`
	StartedAt           time.Time           `json:"started_at"`
	FinishedAt          time.Time           `json:"finished_at"`
	Scanned             int                 `json:"subscriptions_scanned"`
	NewVideos           int                 `json:"new_videos_found"`
	NotificationsSent   int                 `json:"notifications_sent"`
	NotificationsFailed int                 `json:"notifications_failed"`
	Errors              []SubscriptionError `json:"errors"`
}
