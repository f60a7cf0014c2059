package db

import (
	"log"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
)

// GetPollTargets returns every active subscription joined with the
// subscriber's delivery config and active package, one row per
// (user, channel) pair. Rows without a notifications record come back
// with all delivery fields NULL.
func GetPollTargets() ([]models.PollTarget, error) {
	query := `
		SELECT
			s.id AS subscription_id,
			s.user_id,
			s.channel_id,
			s.last_video_id,
			n.notification_email,
			n.telegram_chat_id,
			n.whatsapp_phone,
			(SELECT package_id FROM user_packages
			 WHERE user_id = s.user_id AND package_status_id = 1
			 LIMIT 1) AS package_id
		FROM subscriptions s
		LEFT JOIN notifications n ON s.user_id = n.user_id
		WHERE s.channel_id != 'default_channel'
		ORDER BY s.id
	`
	var targets []models.PollTarget
	err := DB.Select(&targets, query)
	if err != nil {
		log.Printf("Error getting poll targets: %v", err)
		return nil, err
	}
	return targets, nil
}

// GetPollTargetByID returns the poll row for a single subscription.
func GetPollTargetByID(subscriptionID int) (models.PollTarget, error) {
	query := `
		SELECT
			s.id AS subscription_id,
			s.user_id,
			s.channel_id,
			s.last_video_id,
			n.notification_email,
			n.telegram_chat_id,
			n.whatsapp_phone,
			(SELECT package_id FROM user_packages
			 WHERE user_id = s.user_id AND package_status_id = 1
			 LIMIT 1) AS package_id
		FROM subscriptions s
		LEFT JOIN notifications n ON s.user_id = n.user_id
		WHERE s.id = $1
	`
	target := models.PollTarget{}
	err := DB.Get(&target, query, subscriptionID)
	return target, err
}

// UpdateWatermark records the newly dispatched video id on a
// subscription. Called only after dispatch has been attempted, so a
// crash before this point makes the next run re-detect the same video.
func UpdateWatermark(subscriptionID int, videoID string) error {
	_, err := DB.Exec(
		"UPDATE subscriptions SET last_video_id = $1 WHERE id = $2",
		videoID, subscriptionID,
	)
	if err != nil {
		log.Printf("Error updating watermark for subscription %d: %v", subscriptionID, err)
	}
	return err
}
