package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Direction selects which way ShiftMonth moves.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// ParseDirection accepts prev/next and backward/forward.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "prev", "previous", "backward":
		return Backward, nil
	case "next", "forward":
		return Forward, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", raw)
	}
}

func (d Direction) String() string {
	if d < 0 {
		return "prev"
	}
	return "next"
}

// ShiftMonth moves reference exactly one month. When the target month is
// shorter, the day is clamped to its last day, so Mar 31 backward gives the
// last day of February.
func ShiftMonth(reference Date, direction Direction) Date {
	step := 1
	if direction < 0 {
		step = -1
	}
	target := NewDate(reference.Year, reference.Month+time.Month(step), 1)
	day := reference.Day
	if last := target.DaysInMonth(); day > last {
		day = last
	}
	return Date{Year: target.Year, Month: target.Month, Day: day}
}
