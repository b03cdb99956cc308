package model

import "time"

// Hold is a short-lived exclusive claim on a room over [StartAt,
// EndAt). It is deleted on confirmation, and reclaimed lazily once
// ExpiresAt has passed; read paths never see expired holds.
type Hold struct {
	ID               int64     `gorm:"primaryKey"`
	RoomID           int64     `gorm:"index;not null"`
	StartAt          time.Time `gorm:"not null"`
	EndAt            time.Time `gorm:"not null"`
	Token            string    `gorm:"uniqueIndex;size:64;not null"`
	PhoneFingerprint string    `gorm:"size:64"`
	ExpiresAt        time.Time `gorm:"index;not null"`
	CreatedAt        time.Time `gorm:"not null"`
}

// Live reports whether the hold still claims its range at instant now.
func (h Hold) Live(now time.Time) bool {
	return h.ExpiresAt.After(now)
}
