package db

import (
	"database/sql"
	"errors"
	"log"
)

// GetActivePackageID returns the user's active package id, or an invalid
// NullInt64 when the user has no active package (a guest).
func GetActivePackageID(userID int64) (sql.NullInt64, error) {
	var packageID sql.NullInt64
	err := DB.Get(&packageID, `
		SELECT package_id FROM user_packages
		WHERE user_id = $1 AND package_status_id = 1
		LIMIT 1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.NullInt64{}, nil
	}
	if err != nil {
		log.Printf("Error getting active package for user %d: %v", userID, err)
		return sql.NullInt64{}, err
	}
	return packageID, nil
}

// GetDailyUsage returns today's summary-usage counter for a user. The
// counter is incremented by the request-serving paths and reset daily;
// the poller only ever reads it.
func GetDailyUsage(userID int64) (int, error) {
	var used int
	err := DB.Get(&used, `
		SELECT COALESCE(SUM(amount), 0) FROM usage_counters
		WHERE user_id = $1 AND day = CURRENT_DATE
	`, userID)
	if err != nil {
		log.Printf("Error getting daily usage for user %d: %v", userID, err)
		return 0, err
	}
	return used, nil
}
