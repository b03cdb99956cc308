package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"room-booking-backend/internal/model"
	"room-booking-backend/internal/timerange"
)

// MemStore is the in-memory Store variant used as a test double. It
// enforces the same overlap rejection as the GORM adapter under a
// single mutex, so service-level conflict behavior is observable
// without a database.
type MemStore struct {
	mu           sync.Mutex
	rooms        map[int64]model.Room
	reservations map[int64]model.Reservation
	holds        map[int64]model.Hold
	blackouts    map[int64]model.Blackout
	nextID       int64
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		rooms:        make(map[int64]model.Room),
		reservations: make(map[int64]model.Reservation),
		holds:        make(map[int64]model.Hold),
		blackouts:    make(map[int64]model.Blackout),
		nextID:       1,
	}
}

func (s *MemStore) DB() *gorm.DB { return nil }

// SeedRoom registers a room, assigning an id when the caller left it
// zero. Test setup helper; production rooms come from administration.
func (s *MemStore) SeedRoom(room model.Room) model.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room.ID == 0 {
		room.ID = s.nextID
		s.nextID++
	}
	s.rooms[room.ID] = room
	return room
}

// SeedReservation registers a reservation without overlap checks, so
// tests can stage states the write path would refuse.
func (s *MemStore) SeedReservation(res model.Reservation) model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if res.ID == 0 {
		res.ID = s.nextID
		s.nextID++
	}
	s.reservations[res.ID] = res
	return res
}

// SeedHold registers a hold without overlap checks.
func (s *MemStore) SeedHold(h model.Hold) model.Hold {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == 0 {
		h.ID = s.nextID
		s.nextID++
	}
	s.holds[h.ID] = h
	return h
}

// SeedBlackout registers a blackout period for a room.
func (s *MemStore) SeedBlackout(b model.Blackout) model.Blackout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.nextID
		s.nextID++
	}
	s.blackouts[b.ID] = b
	return b
}

func (s *MemStore) ListActiveRooms(_ context.Context, filter RoomFilter) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rooms []model.Room
	for _, room := range s.rooms {
		if !room.IsActive {
			continue
		}
		if filter.MinCapacity > 0 && room.Capacity < filter.MinCapacity {
			continue
		}
		if filter.Location != "" && !strings.Contains(strings.ToLower(room.Location), strings.ToLower(filter.Location)) {
			continue
		}
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (s *MemStore) GetRoom(_ context.Context, id int64) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

func rangeOf(start, end time.Time) timerange.Range {
	return timerange.Range{Start: start, End: end}
}

func (s *MemStore) ListReservationsForRoom(_ context.Context, roomID int64, r timerange.Range, statuses []string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}

	var out []model.Reservation
	for _, res := range s.reservations {
		if res.RoomID == roomID && wanted[res.Status] && r.Overlaps(rangeOf(res.StartAt, res.EndAt)) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *MemStore) ListHoldsForRoom(_ context.Context, roomID int64, r timerange.Range, now time.Time) ([]model.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Hold
	for _, h := range s.holds {
		if h.RoomID == roomID && h.Live(now) && r.Overlaps(rangeOf(h.StartAt, h.EndAt)) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *MemStore) ListBlackoutsForRoom(_ context.Context, roomID int64, r timerange.Range) ([]model.Blackout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Blackout
	for _, b := range s.blackouts {
		if b.RoomID == roomID && r.Overlaps(rangeOf(b.StartAt, b.EndAt)) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

// claimed reports whether any live hold or active reservation occupies
// part of the range. Callers must hold the mutex.
func (s *MemStore) claimed(roomID int64, r timerange.Range, now time.Time, ignoreHoldID int64) bool {
	for _, h := range s.holds {
		if h.ID != ignoreHoldID && h.RoomID == roomID && h.Live(now) && r.Overlaps(rangeOf(h.StartAt, h.EndAt)) {
			return true
		}
	}
	for _, res := range s.reservations {
		if res.RoomID != roomID {
			continue
		}
		if (res.Status == model.StatusConfirmed || res.Status == model.StatusOngoing) && r.Overlaps(rangeOf(res.StartAt, res.EndAt)) {
			return true
		}
	}
	return false
}

func (s *MemStore) InsertHold(_ context.Context, hold *model.Hold, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := rangeOf(hold.StartAt, hold.EndAt)
	if s.claimed(hold.RoomID, r, now, 0) {
		return ErrOverlap
	}
	hold.ID = s.nextID
	s.nextID++
	if hold.CreatedAt.IsZero() {
		hold.CreatedAt = now
	}
	s.holds[hold.ID] = *hold
	return nil
}

func (s *MemStore) GetHoldByToken(_ context.Context, token string) (*model.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.holds {
		if h.Token == token {
			hold := h
			return &hold, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) DeleteHold(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.holds, id)
	return nil
}

func (s *MemStore) DeleteExpiredHolds(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, h := range s.holds {
		if !h.Live(now) {
			delete(s.holds, id)
			n++
		}
	}
	return n, nil
}

func (s *MemStore) InsertReservation(_ context.Context, res *model.Reservation, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := rangeOf(res.StartAt, res.EndAt)
	for _, existing := range s.reservations {
		if existing.RoomID != res.RoomID {
			continue
		}
		if (existing.Status == model.StatusConfirmed || existing.Status == model.StatusOngoing) && r.Overlaps(rangeOf(existing.StartAt, existing.EndAt)) {
			return ErrOverlap
		}
	}
	res.ID = s.nextID
	s.nextID++
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = res.CreatedAt
	s.reservations[res.ID] = *res
	return nil
}

func (s *MemStore) ListReservationsByFingerprint(_ context.Context, fingerprint string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Reservation
	for _, res := range s.reservations {
		if res.PhoneFingerprint == fingerprint {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemStore) UpdateReservationStatus(_ context.Context, id int64, from, to string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok || res.Status != from {
		return 0, nil
	}
	res.Status = to
	res.UpdatedAt = time.Now().UTC()
	s.reservations[id] = res
	return 1, nil
}

// GetReservation returns a reservation by id, used by the service for
// the cancel flow's credential check.
func (s *MemStore) GetReservation(_ context.Context, id int64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &res, nil
}
