package models

import "database/sql"

// DeliveryConfig holds a subscriber's notification endpoints. One row
// serves all of the subscriber's subscriptions; every field is optional.
// The dispatcher re-checks tier permissions per field and never trusts
// upstream CRUD to have enforced them.
type DeliveryConfig struct {
	UserID         int64          `db:"user_id"`
	Email          sql.NullString `db:"notification_email"`
	TelegramChatID sql.NullInt64  `db:"telegram_chat_id"`
	WhatsAppPhone  sql.NullString `db:"whatsapp_phone"`
}
