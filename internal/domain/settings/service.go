package settings

import "context"

type SettingsService interface {
	// GetTimecardSettings fills missing keys with defaults.
	GetTimecardSettings(ctx context.Context) (TimecardSettings, error)
	UpdateTimecardSettings(ctx context.Context, req UpdateTimecardSettingsRequest) (TimecardSettingsResponse, error)
}
