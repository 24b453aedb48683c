package timecard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

const minutesPerDay = 24 * 60

// ToMinutes converts a 24h "HH:MM" wall-clock value to minutes after midnight.
func ToMinutes(hhmm string) (int, error) {
	if !validator.IsValidClock(hhmm) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, hhmm)
	}
	h, m, _ := strings.Cut(hhmm, ":")
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	return hours*60 + minutes, nil
}

// Duration returns the minutes elapsed from a to b. The result is negative
// when b is earlier than a; callers decide whether that is an error.
func Duration(a, b string) (int, error) {
	from, err := ToMinutes(a)
	if err != nil {
		return 0, err
	}
	to, err := ToMinutes(b)
	if err != nil {
		return 0, err
	}
	return to - from, nil
}

// Overlaps reports whether spans a1..a2 and b1..b2 share more than an
// endpoint. A zero-length span overlaps when it falls strictly inside the other.
func Overlaps(a1, a2, b1, b2 string) bool {
	as, errA1 := ToMinutes(a1)
	ae, errA2 := ToMinutes(a2)
	bs, errB1 := ToMinutes(b1)
	be, errB2 := ToMinutes(b2)
	if errA1 != nil || errA2 != nil || errB1 != nil || errB2 != nil {
		return false
	}
	return as < be && bs < ae
}

// FormatMinutes renders minutes after midnight as "HH:MM", wrapping at 24h.
func FormatMinutes(m int) string {
	m %= minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatSpan renders a duration in minutes as "7h45m".
func FormatSpan(m int) string {
	if m < 0 {
		return "-" + FormatSpan(-m)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

// OrderedDuration is Duration for event pairs that must not run backwards.
func OrderedDuration(a, b string) (int, error) {
	d, err := Duration(a, b)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s is before %s", ErrInvalidTimeOrder, b, a)
	}
	return d, nil
}
