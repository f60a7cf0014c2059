package models

import "database/sql"

// Tier is a subscriber's service plan resolved at dispatch time. It gates
// which fallback strategies and delivery channels are permitted. The set
// of tiers is closed; capabilities live here instead of being derived
// from loosely-typed package ids scattered across call sites.
type Tier struct {
	ID string
	// AudioFallback permits the audio-extraction transcription strategy.
	AudioFallback bool
	// Email and WhatsApp gate the corresponding delivery channels.
	Email    bool
	WhatsApp bool
	// DailyQuota is the number of summaries per day; nil means unlimited.
	// The counter behind it resets on a daily boundary and is owned by
	// the request-serving paths, not by the poller.
	DailyQuota *int
	// UsedToday is a point-in-time read of the usage counter. It may be
	// stale by the time it is used; the poller only reads it.
	UsedToday int
}

func quota(n int) *int { return &n }

var (
	TierGuest = Tier{ID: "guest", DailyQuota: quota(3)}
	TierFree  = Tier{ID: "free", DailyQuota: quota(10)}
	TierPro   = Tier{ID: "pro", AudioFallback: true, Email: true, WhatsApp: true, DailyQuota: quota(100)}
	TierMax   = Tier{ID: "premium", AudioFallback: true, Email: true, WhatsApp: true}
)

// Package ids as stored in user_packages.
const (
	PackageFree    = 1
	PackagePro     = 2
	PackagePremium = 3
)

// TierForPackage maps an active package id to its tier. Users without an
// active package are guests.
func TierForPackage(packageID sql.NullInt64) Tier {
	if !packageID.Valid {
		return TierGuest
	}
	switch packageID.Int64 {
	case PackageFree:
		return TierFree
	case PackagePro:
		return TierPro
	case PackagePremium:
		return TierMax
	default:
		return TierGuest
	}
}
