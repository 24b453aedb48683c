package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

type SettingsServiceImpl struct {
	repo settings.Repository
}

func NewSettingsService(repo settings.Repository) settings.SettingsService {
	return &SettingsServiceImpl{repo: repo}
}

// GetTimecardSettings implements settings.SettingsService.
func (s *SettingsServiceImpl) GetTimecardSettings(ctx context.Context) (settings.TimecardSettings, error) {
	result := settings.DefaultTimecardSettings()

	value, err := s.repo.Get(ctx, settings.KeyRequiredLoginTime)
	if err != nil {
		if errors.Is(err, settings.ErrSettingNotFound) {
			return result, nil
		}
		return settings.TimecardSettings{}, fmt.Errorf("failed to load %s: %w", settings.KeyRequiredLoginTime, err)
	}

	if !validator.IsValidClock(value) {
		slog.Warn("Stored required login time is malformed, using default",
			"value", value, "default", result.RequiredLoginTime)
		return result, nil
	}

	result.RequiredLoginTime = value
	return result, nil
}

// UpdateTimecardSettings implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateTimecardSettings(ctx context.Context, req settings.UpdateTimecardSettingsRequest) (settings.TimecardSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.TimecardSettingsResponse{}, err
	}

	if err := s.repo.Upsert(ctx, settings.KeyRequiredLoginTime, req.RequiredLoginTime); err != nil {
		return settings.TimecardSettingsResponse{}, fmt.Errorf("failed to save %s: %w", settings.KeyRequiredLoginTime, err)
	}

	return settings.TimecardSettingsResponse{RequiredLoginTime: req.RequiredLoginTime}, nil
}
