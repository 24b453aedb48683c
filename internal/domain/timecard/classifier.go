package timecard

import "fmt"

// Classify derives the day's attendance status from worked and permission
// minutes. Work shortfall is evaluated before permission overage.
func Classify(workMinutes, permissionMinutes int, p Policy) (AttendanceStatus, string) {
	switch {
	case workMinutes < p.HalfDayFloorMinutes:
		return StatusLeave, fmt.Sprintf("worked %s, %s short of the %s half-day minimum",
			FormatSpan(workMinutes), FormatSpan(p.HalfDayFloorMinutes-workMinutes), FormatSpan(p.HalfDayFloorMinutes))
	case workMinutes < p.RequiredWorkMinutes:
		return StatusHalfDay, fmt.Sprintf("worked %s, %s short of the required %s",
			FormatSpan(workMinutes), FormatSpan(p.RequiredWorkMinutes-workMinutes), FormatSpan(p.RequiredWorkMinutes))
	case permissionMinutes > p.PermissionLimitMinutes:
		return StatusHalfDay, fmt.Sprintf("permission of %d minutes exceeds the %d minute limit by %d",
			permissionMinutes, p.PermissionLimitMinutes, permissionMinutes-p.PermissionLimitMinutes)
	default:
		return StatusPresent, fmt.Sprintf("worked %s", FormatSpan(workMinutes))
	}
}
