package booking

import (
	"context"
	"errors"
	"time"

	"room-booking-backend/internal/model"
	"room-booking-backend/internal/store"
	"room-booking-backend/internal/timerange"
)

// Slot unavailability reasons, in priority order. A slot failing for
// several reasons reports the highest-priority one so output stays
// deterministic.
const (
	ReasonOutsideHours  = "outside_hours"
	ReasonBufferBlocked = "buffer_blocked"
	ReasonBlackout      = "blackout"
	ReasonConflict      = "conflict"
)

// Slot is one candidate booking window in the generated grid.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
}

// SlotParams describe a slot grid request. BufferBefore/BufferAfter
// are minutes of padding applied around occupied ranges.
type SlotParams struct {
	RoomID       int64
	Window       timerange.Range
	SlotMinutes  int
	UnitMinutes  int
	BufferBefore int
	BufferAfter  int
}

// SlotList is a dense grid over the room's business hours. Unavailable
// slots are included with a reason so callers can render a full
// schedule.
type SlotList struct {
	Room  RoomSummary `json:"room"`
	Slots []Slot      `json:"slots"`
	AsOf  time.Time   `json:"asOf"`
}

// ListSlots generates the candidate grid for a room. The grid starts
// at the business open boundary of the window's day and advances by
// the unit size; no step is ever skipped because a slot is blocked.
func (s *Service) ListSlots(ctx context.Context, params SlotParams) (*SlotList, error) {
	if params.UnitMinutes <= 0 || params.SlotMinutes <= 0 {
		return nil, NewError(CodeInvalidInput, "slot and unit sizes must be positive")
	}
	if params.BufferBefore < 0 || params.BufferAfter < 0 {
		return nil, NewError(CodeInvalidInput, "buffer must not be negative")
	}
	if !params.Window.Start.Before(params.Window.End) {
		return nil, NewError(CodeInvalidInput, "start must be before end")
	}

	room, err := s.store.GetRoom(ctx, params.RoomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewError(CodeInvalidInput, "room not found")
		}
		return nil, WrapError(CodeSystemError, "room lookup failed", err)
	}
	if !room.IsActive {
		return nil, NewError(CodeInvalidInput, "room is not active")
	}

	now := s.now()
	open, close := room.OpenAt(params.Window.Start)

	result := &SlotList{Room: summarize(*room), Slots: []Slot{}, AsOf: now}

	// A degenerate business day yields an empty grid, not an error.
	if !open.Before(close) {
		return result, nil
	}

	occupied, blackouts, err := s.loadConflicts(ctx, room.ID, open, close, now)
	if err != nil {
		return nil, err
	}

	unit := time.Duration(params.UnitMinutes) * time.Minute
	length := time.Duration(params.SlotMinutes) * time.Minute

	gridEnd := close
	if params.Window.End.Before(gridEnd) {
		gridEnd = params.Window.End
	}

	for cursor := open; cursor.Before(gridEnd); cursor = cursor.Add(unit) {
		if cursor.Before(params.Window.Start) {
			continue
		}
		candidate := timerange.Range{Start: cursor, End: cursor.Add(length)}
		slot := Slot{Start: candidate.Start, End: candidate.End}

		switch {
		case s.outsideHours(candidate, open, close, now):
			slot.Reason = ReasonOutsideHours
		case bufferExitsHours(candidate, params, open, close):
			slot.Reason = ReasonBufferBlocked
		case hitsAny(candidate, blackouts, 0, 0):
			slot.Reason = ReasonBlackout
		case hitsAny(candidate, occupied, params.BufferBefore, params.BufferAfter):
			slot.Reason = ReasonConflict
		default:
			slot.Available = true
		}
		result.Slots = append(result.Slots, slot)
	}
	return result, nil
}

// loadConflicts gathers occupied ranges (active reservations and live
// holds) and blackout ranges over the business day.
func (s *Service) loadConflicts(ctx context.Context, roomID int64, open, close, now time.Time) (occupied, blackouts []timerange.Range, err error) {
	day := timerange.Range{Start: open, End: close}

	reservations, err := s.store.ListReservationsForRoom(ctx, roomID, day, model.ActiveStatuses)
	if err != nil {
		return nil, nil, WrapError(CodeSystemError, "reservation lookup failed", err)
	}
	for _, r := range reservations {
		occupied = append(occupied, timerange.Range{Start: r.StartAt, End: r.EndAt})
	}

	holds, err := s.store.ListHoldsForRoom(ctx, roomID, day, now)
	if err != nil {
		return nil, nil, WrapError(CodeSystemError, "hold lookup failed", err)
	}
	for _, h := range holds {
		occupied = append(occupied, timerange.Range{Start: h.StartAt, End: h.EndAt})
	}

	rows, err := s.store.ListBlackoutsForRoom(ctx, roomID, day)
	if err != nil {
		return nil, nil, WrapError(CodeSystemError, "blackout lookup failed", err)
	}
	for _, b := range rows {
		blackouts = append(blackouts, timerange.Range{Start: b.StartAt, End: b.EndAt})
	}
	return occupied, blackouts, nil
}

// outsideHours marks slots starting in the past or not fitting fully
// within business hours.
func (s *Service) outsideHours(candidate timerange.Range, open, close, now time.Time) bool {
	if candidate.Start.Before(now) {
		return true
	}
	return candidate.Start.Before(open) || candidate.End.After(close)
}

// bufferExitsHours applies the buffer to the candidate itself: a slot
// whose padded range leaves the business day cannot be booked.
func bufferExitsHours(candidate timerange.Range, params SlotParams, open, close time.Time) bool {
	if params.BufferBefore == 0 && params.BufferAfter == 0 {
		return false
	}
	padded := timerange.ApplyBuffer(candidate, params.BufferBefore, params.BufferAfter)
	return padded.Start.Before(open) || padded.End.After(close)
}

// hitsAny tests the candidate against each occupied range expanded
// outward by the buffer.
func hitsAny(candidate timerange.Range, ranges []timerange.Range, bufferBefore, bufferAfter int) bool {
	for _, r := range ranges {
		if candidate.Overlaps(timerange.ApplyBuffer(r, bufferBefore, bufferAfter)) {
			return true
		}
	}
	return false
}
