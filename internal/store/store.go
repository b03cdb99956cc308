package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"room-booking-backend/internal/model"
	"room-booking-backend/internal/timerange"
)

// Sentinel errors surfaced by Store implementations. ErrOverlap is the
// storage-level non-overlap guarantee firing; the service translates
// it into a caller-visible conflict.
var (
	ErrOverlap  = errors.New("time range overlaps an existing hold or reservation")
	ErrNotFound = errors.New("record not found")
)

// RoomFilter narrows ListActiveRooms by static room attributes.
type RoomFilter struct {
	MinCapacity int
	// Location is matched as a substring when set.
	Location string
}

// Store defines the interface for all database operations. Overlap
// semantics: every range-filtered listing returns exactly the rows
// whose half-open [start_at, end_at) intersects the query range.
type Store interface {
	ListActiveRooms(ctx context.Context, filter RoomFilter) ([]model.Room, error)
	GetRoom(ctx context.Context, id int64) (*model.Room, error)

	ListReservationsForRoom(ctx context.Context, roomID int64, r timerange.Range, statuses []string) ([]model.Reservation, error)
	ListHoldsForRoom(ctx context.Context, roomID int64, r timerange.Range, now time.Time) ([]model.Hold, error)
	ListBlackoutsForRoom(ctx context.Context, roomID int64, r timerange.Range) ([]model.Blackout, error)

	// InsertHold persists a hold, enforcing no overlap against live
	// holds and confirmed/ongoing reservations. Expired holds covering
	// the requested range are reclaimed first.
	InsertHold(ctx context.Context, hold *model.Hold, now time.Time) error
	GetHoldByToken(ctx context.Context, token string) (*model.Hold, error)
	DeleteHold(ctx context.Context, id int64) error
	DeleteExpiredHolds(ctx context.Context, now time.Time) (int64, error)

	// InsertReservation persists a reservation under the same
	// non-overlap guarantee as InsertHold.
	InsertReservation(ctx context.Context, res *model.Reservation, now time.Time) error
	GetReservation(ctx context.Context, id int64) (*model.Reservation, error)
	ListReservationsByFingerprint(ctx context.Context, fingerprint string) ([]model.Reservation, error)
	// UpdateReservationStatus transitions id from one status to
	// another and reports how many rows changed; zero means a
	// concurrent writer got there first.
	UpdateReservationStatus(ctx context.Context, id int64, from, to string) (int64, error)

	// DB exposes the underlying gorm handle for migrations and tests;
	// nil for the in-memory variant.
	DB() *gorm.DB
}
