package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homeguardhq/homeguard-core/internal/activity"
	"github.com/homeguardhq/homeguard-core/internal/settings"
)

// handleListSettings returns all settings.
func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	list, err := s.settings.List(r.Context())
	if err != nil {
		s.logger.Error("listing settings failed", "error", err)
		writeInternalError(w, "listing settings failed")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleGetSetting returns a single setting by name.
func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	setting, err := s.settings.Get(r.Context(), name)
	if errors.Is(err, settings.ErrNotFound) {
		writeNotFound(w, "setting not found: "+name)
		return
	}
	if err != nil {
		s.logger.Error("reading setting failed", "setting", name, "error", err)
		writeInternalError(w, "reading setting failed")
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

// settingRequest is the body of PUT /api/settings/{name}. Value accepts a
// bare JSON scalar; its JSON type fixes the stored kind.
type settingRequest struct {
	Value       settings.Value `json:"value"`
	Description string         `json:"description,omitempty"`
}

// handleSetSetting creates or updates a setting.
func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: value must be a bool, number, or string")
		return
	}

	setting := settings.Setting{
		SettingName: name,
		Value:       req.Value,
		Description: req.Description,
	}
	if err := s.settings.Upsert(r.Context(), setting); err != nil {
		if errors.Is(err, settings.ErrInvalidValue) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("writing setting failed", "setting", name, "error", err)
		writeInternalError(w, "writing setting failed")
		return
	}

	updated, err := s.settings.Get(r.Context(), name)
	if err != nil {
		writeInternalError(w, "reading setting failed")
		return
	}
	s.Hub().SettingUpdated(*updated)
	s.logActivity(r.Context(), "Setting updated: "+name, activity.TypeInfo)
	writeJSON(w, http.StatusOK, updated)
}
