package model

import "time"

// Reservation lifecycle statuses. A reservation only ever moves
// forward: confirmed|ongoing -> cancelled, never back.
const (
	StatusConfirmed = "confirmed"
	StatusOngoing   = "ongoing"
	StatusCancelled = "cancelled"
)

// ActiveStatuses are the statuses that occupy a room's time range.
var ActiveStatuses = []string{StatusConfirmed, StatusOngoing}

// Reservation is a durable booking of a room over [StartAt, EndAt).
// The reserver is identified only by one-way derived credential
// material, never by the raw phone number or password.
type Reservation struct {
	ID               int64     `gorm:"primaryKey"`
	RoomID           int64     `gorm:"index;not null"`
	StartAt          time.Time `gorm:"index;not null"`
	EndAt            time.Time `gorm:"not null"`
	Status           string    `gorm:"size:16;not null;default:confirmed"`
	ReserverName     string    `gorm:"size:128;not null"`
	PhoneFingerprint string    `gorm:"index;size:64;not null"`
	PasswordHash     string    `gorm:"size:256;not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE"`
}
