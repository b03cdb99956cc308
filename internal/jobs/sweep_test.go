package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-booking-backend/internal/model"
	"room-booking-backend/internal/store"
)

func TestSweepDeletesOnlyExpiredHolds(t *testing.T) {
	s := store.NewMemStore()
	room := s.SeedRoom(model.Room{Name: "A", Location: "HQ", Capacity: 4, IsActive: true, OpenMinute: 540, CloseMinute: 1080})

	now := time.Now().UTC()
	s.SeedHold(model.Hold{
		RoomID:  room.ID,
		StartAt: now.Add(-2 * time.Hour), EndAt: now.Add(-time.Hour),
		Token: "expired", ExpiresAt: now.Add(-time.Minute),
	})
	s.SeedHold(model.Hold{
		RoomID:  room.ID,
		StartAt: now.Add(time.Hour), EndAt: now.Add(2 * time.Hour),
		Token: "live", ExpiresAt: now.Add(10 * time.Minute),
	})

	NewSweep(s, nil).Run()

	_, err := s.GetHoldByToken(context.Background(), "expired")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetHoldByToken(context.Background(), "live")
	assert.NoError(t, err)
}

func TestSweepSchedules(t *testing.T) {
	s := store.NewMemStore()
	c, err := NewSweep(s, nil).Schedule(time.Minute)
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 1)
}
