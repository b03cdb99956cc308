package timerange

import (
	"fmt"
	"strings"
	"time"
)

// Literal renders the range as the Postgres tstzrange literal used by
// the exclusion DDL, lower bound closed and upper bound open.
func Literal(r Range) string {
	return fmt.Sprintf("[%q,%q)", r.Start.UTC().Format(time.RFC3339Nano), r.End.UTC().Format(time.RFC3339Nano))
}

// ParseLiteral parses a `["start","end")` literal back into a Range.
// The boundary representation is always two ISO instants; the literal
// form only ever appears in storage.
func ParseLiteral(s string) (Range, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ')' {
		return Range{}, fmt.Errorf("malformed range literal: %q", s)
	}
	inner := trimmed[1 : len(trimmed)-1]
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("malformed range literal: %q", s)
	}
	start, err := parseBound(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("range lower bound: %w", err)
	}
	end, err := parseBound(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("range upper bound: %w", err)
	}
	return New(start, end)
}

func parseBound(raw string) (time.Time, error) {
	b := strings.TrimSpace(raw)
	b = strings.Trim(b, `"`)
	t, err := time.Parse(time.RFC3339Nano, b)
	if err != nil {
		// Postgres prints a space instead of the T separator and may
		// shorten a whole-hour offset to two digits.
		for _, layout := range []string{
			"2006-01-02 15:04:05.999999999Z07:00",
			"2006-01-02 15:04:05.999999999Z07",
		} {
			if t, err = time.Parse(layout, b); err == nil {
				break
			}
		}
	}
	return t, err
}
