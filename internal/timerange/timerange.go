package timerange

import (
	"fmt"
	"time"
)

// Range is a half-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// New builds a Range and validates the half-open invariant.
func New(start, end time.Time) (Range, error) {
	if !start.Before(end) {
		return Range{}, fmt.Errorf("invalid range: start %s is not before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Range{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect. Adjacent
// ranges sharing a boundary instant do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether other lies fully inside r.
func (r Range) Contains(other Range) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Duration returns the length of the interval.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// ApplyBuffer expands the range outward by whole minutes on each side.
// Buffers model padding around an occupied range, so a candidate slot
// conflicts if it touches the expanded range.
func ApplyBuffer(r Range, beforeMin, afterMin int) Range {
	return Range{
		Start: r.Start.Add(-time.Duration(beforeMin) * time.Minute),
		End:   r.End.Add(time.Duration(afterMin) * time.Minute),
	}
}
