package model

import "time"

// Room represents a bookable room. Rooms are administered out of band;
// the booking flows only ever read them.
type Room struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Location string `gorm:"index;size:128;not null" json:"location"`
	Capacity int    `gorm:"not null" json:"capacity"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`
	// Business hours as minutes past midnight of the server-local day.
	OpenMinute  int       `gorm:"not null" json:"-"`
	CloseMinute int       `gorm:"not null" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}

// OpenAt returns the open and close instants of the room's business
// hours on the day containing t, in t's location.
func (r Room) OpenAt(t time.Time) (open, close time.Time) {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	open = midnight.Add(time.Duration(r.OpenMinute) * time.Minute)
	close = midnight.Add(time.Duration(r.CloseMinute) * time.Minute)
	return open, close
}
