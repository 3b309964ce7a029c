package models

import "time"

// StreakBreak is recorded when a gap is detected and waits for the user to
// restore or discard it.
type StreakBreak struct {
	PreviousStreak int       `json:"previousStreak" validate:"gte=0"`
	BrokenAt       time.Time `json:"brokenAt"`
}

type FreezeActivation struct {
	ActivatedAt time.Time `json:"activatedAt"`
}
