package models

import (
	"database/sql"
	"time"
)

// Subscription represents one (user, tracked channel) pair. LastVideoID is
// the watermark: the last video already summarized and dispatched for this
// subscription. It only moves forward and is mutated exclusively by the
// poller after a dispatch cycle.
type Subscription struct {
	ID           int            `db:"id"`
	UserID       int64          `db:"user_id"`
	ChannelID    string         `db:"channel_id"`
	LastVideoID  sql.NullString `db:"last_video_id"`
	TierAtSignup string         `db:"tier_at_signup"`
	CreatedAt    time.Time      `db:"created_at"`
}

// PollTarget is one row of the poll query: a subscription joined with the
// subscriber's delivery config and active package.
type PollTarget struct {
	SubscriptionID int            `db:"subscription_id"`
	UserID         int64          `db:"user_id"`
	ChannelID      string         `db:"channel_id"`
	LastVideoID    sql.NullString `db:"last_video_id"`
	Email          sql.NullString `db:"notification_email"`
	TelegramChatID sql.NullInt64  `db:"telegram_chat_id"`
	WhatsAppPhone  sql.NullString `db:"whatsapp_phone"`
	PackageID      sql.NullInt64  `db:"package_id"`
}

// Delivery returns the delivery config carried by the poll row.
func (t PollTarget) Delivery() DeliveryConfig {
	return DeliveryConfig{
		UserID:         t.UserID,
		Email:          t.Email,
		TelegramChatID: t.TelegramChatID,
		WhatsAppPhone:  t.WhatsAppPhone,
	}
}
