package http

import (
	"net/http"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetTimecardSettings(w http.ResponseWriter, r *http.Request)
	UpdateTimecardSettings(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

func (h *settingsHandlerImpl) GetTimecardSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetTimecardSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings.TimecardSettingsResponse{RequiredLoginTime: result.RequiredLoginTime})
}

func (h *settingsHandlerImpl) UpdateTimecardSettings(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateTimecardSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.settingsService.UpdateTimecardSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timecard settings updated", result)
}
