package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"room-booking-backend/internal/model"
	"room-booking-backend/internal/timerange"
)

// gormStore implements the Store interface using GORM. The insert
// transactions re-check overlap for a clean ErrOverlap on the common
// path, but under READ COMMITTED two concurrent inserts can both pass
// that check; the Postgres exclusion constraints are the authoritative
// guard, and their violations are translated to ErrOverlap.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) ListActiveRooms(ctx context.Context, filter RoomFilter) ([]model.Room, error) {
	q := s.db.WithContext(ctx).Where("is_active = ?", true)
	if filter.MinCapacity > 0 {
		q = q.Where("capacity >= ?", filter.MinCapacity)
	}
	if filter.Location != "" {
		q = q.Where("location LIKE ?", "%"+filter.Location+"%")
	}

	var rooms []model.Room
	if err := q.Order("id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list active rooms: %w", err)
	}
	return rooms, nil
}

func (s *gormStore) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	var room model.Room
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room %d: %w", id, err)
	}
	return &room, nil
}

// overlapping expresses the half-open intersection test on the
// start_at/end_at columns: row.start < q.end AND row.end > q.start.
func overlapping(q *gorm.DB, r timerange.Range) *gorm.DB {
	return q.Where("start_at < ? AND end_at > ?", r.End, r.Start)
}

func (s *gormStore) ListReservationsForRoom(ctx context.Context, roomID int64, r timerange.Range, statuses []string) ([]model.Reservation, error) {
	var reservations []model.Reservation
	q := s.db.WithContext(ctx).Where("room_id = ? AND status IN ?", roomID, statuses)
	if err := overlapping(q, r).Order("start_at").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("list reservations for room %d: %w", roomID, err)
	}
	return reservations, nil
}

func (s *gormStore) ListHoldsForRoom(ctx context.Context, roomID int64, r timerange.Range, now time.Time) ([]model.Hold, error) {
	var holds []model.Hold
	q := s.db.WithContext(ctx).Where("room_id = ? AND expires_at > ?", roomID, now)
	if err := overlapping(q, r).Order("start_at").Find(&holds).Error; err != nil {
		return nil, fmt.Errorf("list holds for room %d: %w", roomID, err)
	}
	return holds, nil
}

func (s *gormStore) ListBlackoutsForRoom(ctx context.Context, roomID int64, r timerange.Range) ([]model.Blackout, error) {
	var blackouts []model.Blackout
	q := s.db.WithContext(ctx).Where("room_id = ?", roomID)
	if err := overlapping(q, r).Order("start_at").Find(&blackouts).Error; err != nil {
		return nil, fmt.Errorf("list blackouts for room %d: %w", roomID, err)
	}
	return blackouts, nil
}

func (s *gormStore) InsertHold(ctx context.Context, hold *model.Hold, now time.Time) error {
	r := timerange.Range{Start: hold.StartAt, End: hold.EndAt}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Reclaim any expired holds still occupying the range so they
		// cannot trip the exclusion constraint below.
		if err := overlapping(tx.Where("room_id = ? AND expires_at <= ?", hold.RoomID, now), r).
			Delete(&model.Hold{}).Error; err != nil {
			return fmt.Errorf("reclaim expired holds: %w", err)
		}

		var liveHolds int64
		if err := overlapping(tx.Model(&model.Hold{}).Where("room_id = ? AND expires_at > ?", hold.RoomID, now), r).
			Count(&liveHolds).Error; err != nil {
			return fmt.Errorf("count live holds: %w", err)
		}

		var activeReservations int64
		if err := overlapping(tx.Model(&model.Reservation{}).Where("room_id = ? AND status IN ?", hold.RoomID, model.ActiveStatuses), r).
			Count(&activeReservations).Error; err != nil {
			return fmt.Errorf("count active reservations: %w", err)
		}

		if liveHolds > 0 || activeReservations > 0 {
			return ErrOverlap
		}

		return tx.Create(hold).Error
	})
	if err != nil {
		if errors.Is(err, ErrOverlap) || isOverlapViolation(err) {
			return ErrOverlap
		}
		return fmt.Errorf("insert hold %s: %w", timerange.Literal(r), err)
	}
	return nil
}

func (s *gormStore) GetHoldByToken(ctx context.Context, token string) (*model.Hold, error) {
	var hold model.Hold
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&hold).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get hold by token: %w", err)
	}
	return &hold, nil
}

func (s *gormStore) DeleteHold(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&model.Hold{}, id).Error
}

func (s *gormStore) DeleteExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Hold{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired holds: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *gormStore) InsertReservation(ctx context.Context, reservation *model.Reservation, now time.Time) error {
	r := timerange.Range{Start: reservation.StartAt, End: reservation.EndAt}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activeReservations int64
		if err := overlapping(tx.Model(&model.Reservation{}).Where("room_id = ? AND status IN ?", reservation.RoomID, model.ActiveStatuses), r).
			Count(&activeReservations).Error; err != nil {
			return fmt.Errorf("count active reservations: %w", err)
		}
		if activeReservations > 0 {
			return ErrOverlap
		}

		return tx.Create(reservation).Error
	})
	if err != nil {
		if errors.Is(err, ErrOverlap) || isOverlapViolation(err) {
			return ErrOverlap
		}
		return fmt.Errorf("insert reservation %s: %w", timerange.Literal(r), err)
	}
	return nil
}

func (s *gormStore) GetReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := s.db.WithContext(ctx).First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation %d: %w", id, err)
	}
	return &reservation, nil
}

func (s *gormStore) ListReservationsByFingerprint(ctx context.Context, fingerprint string) ([]model.Reservation, error) {
	var reservations []model.Reservation
	if err := s.db.WithContext(ctx).
		Where("phone_fingerprint = ?", fingerprint).
		Order("created_at DESC").
		Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("list reservations by fingerprint: %w", err)
	}
	return reservations, nil
}

func (s *gormStore) UpdateReservationStatus(ctx context.Context, id int64, from, to string) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return 0, fmt.Errorf("update reservation %d status: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

// isOverlapViolation recognizes a uniqueness or exclusion violation
// raised by the database-level constraints (SQLSTATE 23505 / 23P01).
func isOverlapViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23P01") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "exclusion constraint") ||
		strings.Contains(msg, "duplicate key")
}
