package db

import (
	"log"

	"github.com/yusufnadiruzun/video-summary-app/internal/models"
)

// GetDeliveryConfig returns a subscriber's notification endpoints. One
// row serves all of the subscriber's subscriptions.
func GetDeliveryConfig(userID int64) (models.DeliveryConfig, error) {
	cfg := models.DeliveryConfig{}
	err := DB.Get(&cfg, `
		SELECT user_id, notification_email, telegram_chat_id, whatsapp_phone
		FROM notifications
		WHERE user_id = $1
	`, userID)
	if err != nil {
		log.Printf("Error getting delivery config for user %d: %v", userID, err)
		return cfg, err
	}
	return cfg, nil
}
