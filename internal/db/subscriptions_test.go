package db_test

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusufnadiruzun/video-summary-app/internal/db"
	"github.com/yusufnadiruzun/video-summary-app/internal/test"
)

var pollColumns = []string{
	"subscription_id", "user_id", "channel_id", "last_video_id",
	"notification_email", "telegram_chat_id", "whatsapp_phone", "package_id",
}

func TestGetPollTargets(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("FROM subscriptions s").WillReturnRows(
		sqlmock.NewRows(pollColumns).
			AddRow(1, 42, "UCGBytjbMXiF1nbe6HD7iORQ", "abc123", "user@example.com", 123456, nil, 2).
			AddRow(2, 43, "UCchannelBBBBBBBBBBBBBBB", nil, nil, nil, nil, nil),
	)

	targets, err := db.GetPollTargets()
	require.NoError(t, err)
	require.Len(t, targets, 2)

	first := targets[0]
	assert.Equal(t, 1, first.SubscriptionID)
	assert.Equal(t, int64(42), first.UserID)
	assert.Equal(t, "UCGBytjbMXiF1nbe6HD7iORQ", first.ChannelID)
	assert.Equal(t, "abc123", first.LastVideoID.String)
	assert.Equal(t, int64(2), first.PackageID.Int64)

	cfg := first.Delivery()
	assert.Equal(t, "user@example.com", cfg.Email.String)
	assert.Equal(t, int64(123456), cfg.TelegramChatID.Int64)
	assert.False(t, cfg.WhatsAppPhone.Valid)

	// A subscription that was never dispatched has no watermark and the
	// subscriber may have no notification row at all.
	second := targets[1]
	assert.False(t, second.LastVideoID.Valid)
	assert.False(t, second.PackageID.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPollTargetByID(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("WHERE s.id =").WithArgs(7).WillReturnRows(
		sqlmock.NewRows(pollColumns).
			AddRow(7, 42, "UCGBytjbMXiF1nbe6HD7iORQ", "abc123", nil, 123456, nil, 3),
	)

	target, err := db.GetPollTargetByID(7)
	require.NoError(t, err)
	assert.Equal(t, 7, target.SubscriptionID)
	assert.Equal(t, int64(3), target.PackageID.Int64)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPollTargetByIDNotFound(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("WHERE s.id =").WithArgs(99).WillReturnError(sql.ErrNoRows)

	_, err := db.GetPollTargetByID(99)
	assert.Error(t, err)
}

func TestUpdateWatermark(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectExec("UPDATE subscriptions SET last_video_id").
		WithArgs("xyz789", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.UpdateWatermark(1, "xyz789"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDailyUsage(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("FROM usage_counters").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))

	used, err := db.GetDailyUsage(42)
	require.NoError(t, err)
	assert.Equal(t, 3, used)
}

func TestGetActivePackageID(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("FROM user_packages").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"package_id"}).AddRow(2))

	packageID, err := db.GetActivePackageID(42)
	require.NoError(t, err)
	assert.True(t, packageID.Valid)
	assert.Equal(t, int64(2), packageID.Int64)
}

func TestGetActivePackageIDGuest(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("FROM user_packages").WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	packageID, err := db.GetActivePackageID(42)
	require.NoError(t, err)
	assert.False(t, packageID.Valid)
}

func TestGetDeliveryConfig(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("FROM notifications").WithArgs(int64(42)).WillReturnRows(
		sqlmock.NewRows([]string{"user_id", "notification_email", "telegram_chat_id", "whatsapp_phone"}).
			AddRow(42, "user@example.com", nil, "+905551112233"),
	)

	cfg, err := db.GetDeliveryConfig(42)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", cfg.Email.String)
	assert.False(t, cfg.TelegramChatID.Valid)
	assert.Equal(t, "+905551112233", cfg.WhatsAppPhone.String)
}
