package model

import "time"

// Blackout is an administratively imposed unbookable period for a
// room, independent of any reservation.
type Blackout struct {
	ID        int64     `gorm:"primaryKey"`
	RoomID    int64     `gorm:"index;not null"`
	StartAt   time.Time `gorm:"not null"`
	EndAt     time.Time `gorm:"not null"`
	Note      string    `gorm:"size:256"`
	CreatedAt time.Time `gorm:"not null"`
}
