package settings

import "github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"

// Keys under which typed settings are stored.
const (
	KeyRequiredLoginTime = "timecard.required_login_time"
)

// TimecardSettings is the typed view of the tenant's timecard settings.
type TimecardSettings struct {
	RequiredLoginTime string
}

func DefaultTimecardSettings() TimecardSettings {
	return TimecardSettings{RequiredLoginTime: timecard.DefaultRequiredLoginTime}
}
