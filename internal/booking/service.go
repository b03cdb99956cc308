package booking

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"room-booking-backend/internal/auth"
	"room-booking-backend/internal/cleanup"
	"room-booking-backend/internal/model"
	"room-booking-backend/internal/store"
	"room-booking-backend/internal/timerange"
)

// DefaultHoldTTL is the canonical hold lifetime when the caller does
// not ask for one. Both 5 and 10 minutes circulated historically; ten
// minutes is the deployed value.
const DefaultHoldTTL = 600 * time.Second

// MaxHoldTTL caps a caller-supplied TTL so a client cannot park a
// range indefinitely.
const MaxHoldTTL = time.Hour

const minPasswordLength = 8

// holdTokenBytes gives 144 bits of entropy per token.
const holdTokenBytes = 18

// Service implements the availability and reservation lifecycle. All
// state lives in the injected Store; the service itself is stateless
// and safe for concurrent use.
type Service struct {
	store   store.Store
	cleanup *cleanup.WorkerPool
	logger  *zap.Logger
	now     func() time.Time
	holdTTL time.Duration
}

// Options configures optional Service collaborators; zero values fall
// back to sane defaults.
type Options struct {
	Logger  *zap.Logger
	Cleanup *cleanup.WorkerPool
	Now     func() time.Time
	HoldTTL time.Duration
}

// NewService wires a booking service over a store.
func NewService(s store.Store, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.HoldTTL <= 0 {
		opts.HoldTTL = DefaultHoldTTL
	}
	return &Service{
		store:   s,
		cleanup: opts.Cleanup,
		logger:  opts.Logger,
		now:     opts.Now,
		holdTTL: opts.HoldTTL,
	}
}

// checkWindow enforces the shared rule for query and hold windows:
// well-formed and not entirely in the past.
func (s *Service) checkWindow(r timerange.Range) error {
	if !r.Start.Before(r.End) {
		return NewError(CodeInvalidInput, "start must be before end")
	}
	if !r.End.After(s.now()) {
		return NewError(CodeInvalidInput, "time window must be in the future")
	}
	return nil
}

// RoomSummary is the caller-facing view of a room.
type RoomSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
}

func summarize(room model.Room) RoomSummary {
	return RoomSummary{ID: room.ID, Name: room.Name, Location: room.Location, Capacity: room.Capacity}
}

// SearchParams narrow the room-level availability search.
type SearchParams struct {
	Window      timerange.Range
	MinCapacity int
	Location    string
}

// SearchResult carries matching rooms plus the evaluation instant.
type SearchResult struct {
	Rooms []RoomSummary `json:"rooms"`
	AsOf  time.Time     `json:"asOf"`
}

// SearchRooms returns active rooms passing the static filters with no
// confirmed/ongoing reservation overlapping the window. Holds and
// blackouts are deliberately not consulted: this is a coarse
// pre-filter, slot generation does the fine-grained work.
func (s *Service) SearchRooms(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if err := s.checkWindow(params.Window); err != nil {
		return nil, err
	}

	rooms, err := s.store.ListActiveRooms(ctx, store.RoomFilter{
		MinCapacity: params.MinCapacity,
		Location:    params.Location,
	})
	if err != nil {
		return nil, WrapError(CodeSystemError, "room lookup failed", err)
	}

	result := &SearchResult{Rooms: []RoomSummary{}, AsOf: s.now()}
	for _, room := range rooms {
		conflicts, err := s.store.ListReservationsForRoom(ctx, room.ID, params.Window, model.ActiveStatuses)
		if err != nil {
			return nil, WrapError(CodeSystemError, "reservation lookup failed", err)
		}
		if len(conflicts) == 0 {
			result.Rooms = append(result.Rooms, summarize(room))
		}
	}
	return result, nil
}

// HoldParams describe a requested claim on a room range.
type HoldParams struct {
	RoomID int64
	Window timerange.Range
	Phone  string
	TTL    time.Duration
}

// HoldGrant is returned on a successful hold. The hold's internal id
// stays server-side; the token is the only claim credential.
type HoldGrant struct {
	Token     string    `json:"holdToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateHold places a time-boxed exclusive claim on a room range. The
// overlap pre-check here is advisory fast-fail; the store insert is
// what actually guarantees exclusivity.
func (s *Service) CreateHold(ctx context.Context, params HoldParams) (*HoldGrant, error) {
	if err := s.checkWindow(params.Window); err != nil {
		return nil, err
	}
	ttl := params.TTL
	if ttl == 0 {
		ttl = s.holdTTL
	}
	if ttl < 0 {
		return nil, NewError(CodeInvalidInput, "ttl must be positive")
	}
	if ttl > MaxHoldTTL {
		return nil, NewError(CodeInvalidInput, "ttl exceeds maximum")
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
	reservations, err := s.store.ListReservationsForRoom(ctx, params.RoomID, params.Window, model.ActiveStatuses)
	if err != nil {
		return nil, WrapError(CodeSystemError, "reservation lookup failed", err)
	}
	holds, err := s.store.ListHoldsForRoom(ctx, params.RoomID, params.Window, now)
	if err != nil {
		return nil, WrapError(CodeSystemError, "hold lookup failed", err)
	}
	if len(reservations) > 0 || len(holds) > 0 {
		return nil, NewError(CodeConflict, "range already held or reserved")
	}

	token, err := newHoldToken()
	if err != nil {
		return nil, WrapError(CodeSystemError, "token generation failed", err)
	}

	hold := &model.Hold{
		RoomID:    params.RoomID,
		StartAt:   params.Window.Start,
		EndAt:     params.Window.End,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if params.Phone != "" {
		hold.PhoneFingerprint = auth.Fingerprint(params.Phone)
	}

	if err := s.store.InsertHold(ctx, hold, now); err != nil {
		if errors.Is(err, store.ErrOverlap) {
			return nil, WrapError(CodeConflict, "range already held or reserved", err)
		}
		return nil, WrapError(CodeSystemError, "hold insert failed", err)
	}

	return &HoldGrant{Token: token, ExpiresAt: hold.ExpiresAt}, nil
}

// newHoldToken returns an unguessable, URL-safe claim token.
func newHoldToken() (string, error) {
	buf := make([]byte, holdTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ConfirmParams carry the hold token and the reserver's identity.
type ConfirmParams struct {
	Token    string
	Name     string
	Phone    string
	Password string
}

// Confirmation summarizes a freshly created reservation.
type Confirmation struct {
	ID    int64       `json:"id"`
	Room  RoomSummary `json:"room"`
	Start time.Time   `json:"start"`
	End   time.Time   `json:"end"`
}

// Confirm converts a live hold into a durable reservation and retires
// the hold. A store-level overlap on insert means another confirmation
// raced ahead.
func (s *Service) Confirm(ctx context.Context, params ConfirmParams) (*Confirmation, error) {
	if params.Token == "" {
		return nil, NewError(CodeInvalidInput, "hold token is required")
	}
	if params.Name == "" {
		return nil, NewError(CodeInvalidInput, "reserver name is required")
	}
	if len(params.Password) < minPasswordLength {
		return nil, NewError(CodeInvalidInput, "password too short")
	}

	hold, err := s.store.GetHoldByToken(ctx, params.Token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewError(CodeInvalidInput, "unknown hold token")
		}
		return nil, WrapError(CodeSystemError, "hold lookup failed", err)
	}

	now := s.now()
	if !hold.Live(now) {
		s.retireHold(hold.ID)
		return nil, NewError(CodeHoldExpired, "hold has expired")
	}

	passwordHash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, WrapError(CodeSystemError, "password hashing failed", err)
	}

	reservation := &model.Reservation{
		RoomID:           hold.RoomID,
		StartAt:          hold.StartAt,
		EndAt:            hold.EndAt,
		Status:           model.StatusConfirmed,
		ReserverName:     params.Name,
		PhoneFingerprint: auth.Fingerprint(params.Phone),
		PasswordHash:     passwordHash,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.InsertReservation(ctx, reservation, now); err != nil {
		if errors.Is(err, store.ErrOverlap) {
			return nil, WrapError(CodeConflict, "reservation overlap", err)
		}
		return nil, WrapError(CodeSystemError, "reservation insert failed", err)
	}

	// The hold did its job; losing this delete only leaves a row for
	// the expiry sweep.
	s.retireHold(hold.ID)

	confirmation := &Confirmation{
		ID:    reservation.ID,
		Room:  RoomSummary{ID: hold.RoomID},
		Start: hold.StartAt,
		End:   hold.EndAt,
	}
	if room, err := s.store.GetRoom(ctx, hold.RoomID); err == nil {
		confirmation.Room = summarize(*room)
	} else {
		s.logger.Warn("room summary lookup failed after confirm",
			zap.Int64("room_id", hold.RoomID), zap.Error(err))
	}
	return confirmation, nil
}

// retireHold hands a hold to the cleanup pool, or deletes it inline
// when no pool is wired (tests, small deployments). Failure is logged
// and swallowed either way.
func (s *Service) retireHold(id int64) {
	if s.cleanup != nil {
		s.cleanup.Dispatch(id)
		return
	}
	if err := s.store.DeleteHold(context.Background(), id); err != nil {
		s.logger.Warn("best-effort hold delete failed", zap.Int64("hold_id", id), zap.Error(err))
	}
}

// MyReservation is one entry in a caller's reservation list.
type MyReservation struct {
	ID        int64       `json:"id"`
	Room      RoomSummary `json:"room"`
	Status    string      `json:"status"`
	Start     time.Time   `json:"start"`
	End       time.Time   `json:"end"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ListMyReservations authenticates by phone and password and returns
// the caller's reservations, newest first. Unknown phone and wrong
// password are indistinguishable to the caller.
func (s *Service) ListMyReservations(ctx context.Context, phone, password string) ([]MyReservation, error) {
	fingerprint := auth.Fingerprint(phone)
	rows, err := s.store.ListReservationsByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, WrapError(CodeSystemError, "reservation lookup failed", err)
	}

	// Verify per row: the same phone may carry hashes from different
	// scheme epochs.
	var verified []model.Reservation
	for _, row := range rows {
		if auth.VerifyPassword(password, row.PasswordHash) {
			verified = append(verified, row)
		}
	}
	if len(verified) == 0 {
		return nil, NewError(CodeAuthFailed, "authentication failed")
	}

	roomCache := make(map[int64]RoomSummary)
	out := make([]MyReservation, 0, len(verified))
	for _, row := range verified {
		summary, ok := roomCache[row.RoomID]
		if !ok {
			summary = RoomSummary{ID: row.RoomID}
			if room, err := s.store.GetRoom(ctx, row.RoomID); err == nil {
				summary = summarize(*room)
			}
			roomCache[row.RoomID] = summary
		}
		out = append(out, MyReservation{
			ID:        row.ID,
			Room:      summary,
			Status:    row.Status,
			Start:     row.StartAt,
			End:       row.EndAt,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

// Cancel transitions the caller's reservation to cancelled. The
// status-conditioned update is the only serialization point: losing
// the race surfaces as conflict, a started booking as policy_violation.
func (s *Service) Cancel(ctx context.Context, id int64, phone, password string) error {
	reservation, err := s.store.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Indistinguishable from a credential mismatch.
			return NewError(CodeAuthFailed, "authentication failed")
		}
		return WrapError(CodeSystemError, "reservation lookup failed", err)
	}

	if reservation.PhoneFingerprint != auth.Fingerprint(phone) {
		return NewError(CodeAuthFailed, "authentication failed")
	}
	if !auth.VerifyPassword(password, reservation.PasswordHash) {
		return NewError(CodeAuthFailed, "authentication failed")
	}

	if !reservation.StartAt.After(s.now()) {
		return NewError(CodePolicyViolation, "cannot cancel a started booking")
	}

	affected, err := s.store.UpdateReservationStatus(ctx, id, model.StatusConfirmed, model.StatusCancelled)
	if err != nil {
		return WrapError(CodeSystemError, "status update failed", err)
	}
	if affected == 0 {
		return NewError(CodeConflict, "reservation changed concurrently")
	}
	return nil
}
