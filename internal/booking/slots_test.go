package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-booking-backend/internal/model"
	"room-booking-backend/internal/store"
	"room-booking-backend/internal/timerange"
)

func seedMorningRoom(seeder *store.MemStore) model.Room {
	// Open 09:00 to 10:00 so a whole business day fits in four
	// fifteen-minute slots.
	return seeder.SeedRoom(model.Room{
		Name: "Morning", Location: "HQ 2F", Capacity: 6, IsActive: true,
		OpenMinute: 9 * 60, CloseMinute: 10 * 60,
	})
}

func TestListSlotsValidation(t *testing.T) {
	svc, seeder := newTestService(t)
	ctx := context.Background()
	room := seedActiveRoom(seeder, "A", 4)
	day := window(t, "2030-01-01T09:00:00Z", "2030-01-01T18:00:00Z")

	cases := []struct {
		name   string
		params SlotParams
	}{
		{"zero unit", SlotParams{RoomID: room.ID, Window: day, SlotMinutes: 30, UnitMinutes: 0}},
		{"zero length", SlotParams{RoomID: room.ID, Window: day, SlotMinutes: 0, UnitMinutes: 30}},
		{"negative buffer", SlotParams{RoomID: room.ID, Window: day, SlotMinutes: 30, UnitMinutes: 30, BufferBefore: -1}},
		{"inverted window", SlotParams{RoomID: room.ID, Window: timerange.Range{Start: day.End, End: day.Start}, SlotMinutes: 30, UnitMinutes: 30}},
		{"unknown room", SlotParams{RoomID: 9999, Window: day, SlotMinutes: 30, UnitMinutes: 30}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ListSlots(ctx, tc.params)
			assert.True(t, IsCode(err, CodeInvalidInput))
		})
	}

	inactive := seeder.SeedRoom(model.Room{Name: "Closed", Location: "HQ", Capacity: 4, IsActive: false, OpenMinute: 540, CloseMinute: 1080})
	_, err := svc.ListSlots(ctx, SlotParams{RoomID: inactive.ID, Window: day, SlotMinutes: 30, UnitMinutes: 30})
	assert.True(t, IsCode(err, CodeInvalidInput))
}

func TestListSlotsFullyBlockedHour(t *testing.T) {
	svc, seeder := newTestService(t)
	ctx := context.Background()
	room := seedMorningRoom(seeder)

	seeder.SeedReservation(model.Reservation{
		RoomID:  room.ID,
		StartAt: at(t, "2030-01-01T09:00:00Z"), EndAt: at(t, "2030-01-01T09:15:00Z"),
		Status: model.StatusConfirmed, PhoneFingerprint: "fp", PasswordHash: "x",
	})
	seeder.SeedHold(model.Hold{
		RoomID:  room.ID,
		StartAt: at(t, "2030-01-01T09:15:00Z"), EndAt: at(t, "2030-01-01T09:30:00Z"),
		Token: "h1", ExpiresAt: testNow.Add(10 * time.Minute),
	})
	seeder.SeedHold(model.Hold{
		RoomID:  room.ID,
		StartAt: at(t, "2030-01-01T09:30:00Z"), EndAt: at(t, "2030-01-01T09:45:00Z"),
		Token: "h2", ExpiresAt: testNow.Add(10 * time.Minute),
	})
	seeder.SeedBlackout(model.Blackout{
		RoomID:  room.ID,
		StartAt: at(t, "2030-01-01T09:45:00Z"), EndAt: at(t, "2030-01-01T10:00:00Z"),
		Note: "maintenance",
	})

	out, err := svc.ListSlots(ctx, SlotParams{
		RoomID:      room.ID,
		Window:      window(t, "2030-01-01T09:00:00Z", "2030-01-01T10:00:00Z"),
		SlotMinutes: 15, UnitMinutes: 15,
	})
	require.NoError(t, err)
	require.Len(t, out.Slots, 4)

	wantReasons := []string{ReasonConflict, ReasonConflict, ReasonConflict, ReasonBlackout}
	for i, slot := range out.Slots {
		assert.False(t, slot.Available, "slot %d", i)
		assert.Equal(t, wantReasons[i], slot.Reason, "slot %d", i)
		assert.Equal(t, at(t, "2030-01-01T09:00:00Z").Add(time.Duration(i)*15*time.Minute), slot.Start, "slot %d", i)
	}
	assert.Equal(t, testNow, out.AsOf)
}

func TestListSlotsIdempotent(t *testing.T) {
	svc, seeder := newTestService(t)
	ctx := context.Background()
	room := seedMorningRoom(seeder)
	seeder.SeedReservation(model.Reservation{
		RoomID:  room.ID,
		StartAt: at(t, "2030-01-01T09:00:00Z"), EndAt: at(t, "2030-01-01T09:30:00Z"),
		Status: model.StatusConfirmed, PhoneFingerprint: "fp", PasswordHash: "x",
	})

	params := SlotParams{
		RoomID:      room.ID,
		Window:      window(t, "2030-01-01T09:00:00Z", "2030-01-01T10:00:00Z"),
		SlotMinutes: 15, UnitMinutes: 15,
	}
	first, err := svc.ListSlots(ctx, params)
	require.NoError(t, err)
	second, err := svc.ListSlots(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListSlotsPastStartsAreOutsideHours(t *testing.T) {
	s := store.NewMemStore()
	midMorning := at(t, "2030-01-01T09:20:00Z")
	svc := NewService(s, Options{Now: func() time.Time { return midMorning }})
	room := seedMorningRoom(s)

	out, err := svc.ListSlots(context.Background(), SlotParams{
		RoomID:      room.ID,
		Window:      window(t, "2030-01-01T09:00:00Z", "2030-01-01T10:00:00Z"),
		SlotMinutes: 15, UnitMinutes: 15,
	})
	require.NoError(t, err)
	require.Len(t, out.Slots, 4)

	assert.Equal(t, ReasonOutsideHours, out.Slots[0].Reason)
	assert.Equal(t, ReasonOutsideHours, out.Slots[1].Reason)
	assert.True(t, out.Slots[2].Available)
	assert.True(t, out.Slots[3].Available)
}

func TestListSlotsBufferAgainstBusinessHours(t *testing.T) {
	svc, seeder := newTestService(t)
	room := seedMorningRoom(seeder)

	out, err := svc.ListSlots(context.Background(), SlotParams{
		RoomID:      room.ID,
		Window:      window(t, "2030-01-01T09:00:00Z", "2030-01-01T10:00:00Z"),
		SlotMinutes: 15, UnitMinutes: 15,
		BufferBefore: 10, BufferAfter: 10,
	})
	require.NoError(t, err)
	require.Len(t, out.Slots, 4)

	// Edge slots cannot carry their padding inside the business day.
	assert.Equal(t, ReasonBufferBlocked, out.Slots[0].Reason)
	assert.True(t, out.Slots[1].Available)
	assert.True(t, out.Slots[2].Available)
	assert.Equal(t, ReasonBufferBlocked, out.Slots[3].Reason)
}

func TestListSlotsBufferedConflict(t *testing.T) {
	svc, seeder := newTestService(t)
	room := seedActiveRoom(seeder, "A", 4) // open 09:00 to 18:00

	seeder.SeedReservation(model.Reservation{
		RoomID:  room.ID,
		StartAt: at(t, "2030-01-01T09:00:00Z"), EndAt: at(t, "2030-01-01T09:15:00Z"),
		Status: model.StatusConfirmed, PhoneFingerprint: "fp", PasswordHash: "x",
	})

	out, err := svc.ListSlots(context.Background(), SlotParams{
		RoomID:      room.ID,
		Window:      window(t, "2030-01-01T09:00:00Z", "2030-01-01T10:00:00Z"),
		SlotMinutes: 15, UnitMinutes: 15,
		BufferAfter: 15,
	})
	require.NoError(t, err)
	require.Len(t, out.Slots, 4)

	assert.Equal(t, ReasonConflict, out.Slots[0].Reason)
	// The buffer extends the occupied range over the following slot.
	assert.Equal(t, ReasonConflict, out.Slots[1].Reason)
	assert.True(t, out.Slots[2].Available)
	assert.True(t, out.Slots[3].Available)
}

func TestListSlotsIgnoresExpiredHold(t *testing.T) {
	svc, seeder := newTestService(t)
	room := seedMorningRoom(seeder)

	seeder.SeedHold(model.Hold{
		RoomID:  room.ID,
		StartAt: at(t, "2030-01-01T09:00:00Z"), EndAt: at(t, "2030-01-01T09:15:00Z"),
		Token: "expired", ExpiresAt: testNow.Add(-time.Minute),
	})

	out, err := svc.ListSlots(context.Background(), SlotParams{
		RoomID:      room.ID,
		Window:      window(t, "2030-01-01T09:00:00Z", "2030-01-01T10:00:00Z"),
		SlotMinutes: 15, UnitMinutes: 15,
	})
	require.NoError(t, err)
	require.Len(t, out.Slots, 4)
	for i, slot := range out.Slots {
		assert.True(t, slot.Available, "slot %d", i)
	}
}

func TestListSlotsEmptyGridWhenDayDegenerate(t *testing.T) {
	svc, seeder := newTestService(t)
	room := seeder.SeedRoom(model.Room{
		Name: "Never", Location: "HQ", Capacity: 2, IsActive: true,
		OpenMinute: 600, CloseMinute: 600,
	})

	out, err := svc.ListSlots(context.Background(), SlotParams{
		RoomID:      room.ID,
		Window:      window(t, "2030-01-01T09:00:00Z", "2030-01-01T18:00:00Z"),
		SlotMinutes: 30, UnitMinutes: 30,
	})
	require.NoError(t, err)
	assert.Empty(t, out.Slots)
}

func TestListSlotsWindowNarrowerThanDay(t *testing.T) {
	svc, seeder := newTestService(t)
	room := seedActiveRoom(seeder, "A", 4) // open 09:00 to 18:00

	out, err := svc.ListSlots(context.Background(), SlotParams{
		RoomID:      room.ID,
		Window:      window(t, "2030-01-01T09:30:00Z", "2030-01-01T10:00:00Z"),
		SlotMinutes: 15, UnitMinutes: 15,
	})
	require.NoError(t, err)
	// The grid stays anchored to the business opening, so only the
	// aligned steps inside the window appear.
	require.Len(t, out.Slots, 2)
	assert.Equal(t, at(t, "2030-01-01T09:30:00Z"), out.Slots[0].Start)
	assert.Equal(t, at(t, "2030-01-01T09:45:00Z"), out.Slots[1].Start)
}
