package timecard

import (
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
)

// AttendanceStatus is the classification assigned to a day at logout.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusHalfDay AttendanceStatus = "half_day"
	StatusLeave   AttendanceStatus = "leave"
)

// BreakPair is one break-out/break-in cycle. In is nil while the break is running.
type BreakPair struct {
	Out string  `json:"out"`
	In  *string `json:"in,omitempty"`
}

func (b BreakPair) Open() bool {
	return b.In == nil
}

// DaySession is the attendance record of one employee for one calendar date.
type DaySession struct {
	ID                 string
	EmployeeID         string
	Date               time.Time
	Role               user.Role
	Login              *string
	Logout             *string
	LunchOut           *string
	LunchIn            *string
	Breaks             []BreakPair
	PermissionMinutes  int
	PermissionReason   *string
	PermissionLocked   bool
	LateLogin          bool
	LateLoginMinutes   int
	AttendanceStatus   *AttendanceStatus
	StatusReason       *string
	WorkMinutes        *int
	AutoLogoutReason   *string
	ManualLogoutReason *string
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Closed reports whether logout has been recorded.
func (s DaySession) Closed() bool {
	return s.Logout != nil
}

// LastBreak returns the most recent break pair, if any.
func (s DaySession) LastBreak() (BreakPair, bool) {
	if len(s.Breaks) == 0 {
		return BreakPair{}, false
	}
	return s.Breaks[len(s.Breaks)-1], true
}

// LunchOpen reports whether the employee is currently out for lunch.
func (s DaySession) LunchOpen() bool {
	return s.LunchOut != nil && s.LunchIn == nil
}

// LatestEvent is the latest wall-clock time recorded for the day across
// login, lunch and breaks. It is "" before login.
func (s DaySession) LatestEvent() string {
	latest, at := "", -1
	consider := func(t *string) {
		if t == nil {
			return
		}
		if m, err := ToMinutes(*t); err == nil && m > at {
			latest, at = *t, m
		}
	}
	consider(s.Login)
	consider(s.LunchOut)
	consider(s.LunchIn)
	for i := range s.Breaks {
		consider(&s.Breaks[i].Out)
		consider(s.Breaks[i].In)
	}
	return latest
}

// LunchOverlaps reports whether start..end crosses a completed lunch.
func (s DaySession) LunchOverlaps(start, end string) bool {
	if s.LunchOut == nil || s.LunchIn == nil {
		return false
	}
	return Overlaps(start, end, *s.LunchOut, *s.LunchIn)
}

// BreakOverlaps reports whether start..end crosses any completed break.
func (s DaySession) BreakOverlaps(start, end string) bool {
	for _, b := range s.Breaks {
		if b.In != nil && Overlaps(start, end, b.Out, *b.In) {
			return true
		}
	}
	return false
}
