package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homeguardhq/homeguard-core/internal/activity"
	"github.com/homeguardhq/homeguard-core/internal/command"
	"github.com/homeguardhq/homeguard-core/internal/device"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/mqtt"
)

// handleListDevices returns all known devices.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.devices.List(r.Context())
	if err != nil {
		s.logger.Error("listing devices failed", "error", err)
		writeInternalError(w, "listing devices failed")
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

// handleGetDevice returns a single device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := s.devices.GetByID(r.Context(), id)
	if errors.Is(err, device.ErrNotFound) {
		writeNotFound(w, "device not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("reading device failed", "device", id, "error", err)
		writeInternalError(w, "reading device failed")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleCreateDevice registers a device manually, ahead of its first
// report on the wire.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var d device.Device
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := d.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	err := s.devices.Create(r.Context(), &d)
	if errors.Is(err, device.ErrExists) {
		writeConflict(w, "device already exists: "+d.DeviceID)
		return
	}
	if err != nil {
		s.logger.Error("creating device failed", "device", d.DeviceID, "error", err)
		writeInternalError(w, "creating device failed")
		return
	}
	s.logActivity(r.Context(), "Device added: "+d.Name, activity.TypeInfo)
	writeJSON(w, http.StatusCreated, d)
}

// handleDeleteDevice removes a device record.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.devices.Delete(r.Context(), id)
	if errors.Is(err, device.ErrNotFound) {
		writeNotFound(w, "device not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("deleting device failed", "device", id, "error", err)
		writeInternalError(w, "deleting device failed")
		return
	}
	s.logActivity(r.Context(), "Device removed: "+id, activity.TypeWarning)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// stateRequest is the body of PUT /api/devices/{id}/state. Absent fields
// are left untouched.
type stateRequest struct {
	Status  *string  `json:"status"`
	Value   *float64 `json:"value"`
	IsArmed *bool    `json:"isArmed"`
}

// handleSetDeviceState writes state fields directly, bypassing the broker.
// Intended for administrative correction, not normal control flow.
func (s *Server) handleSetDeviceState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req stateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Status == nil && req.Value == nil && req.IsArmed == nil {
		writeBadRequest(w, "at least one of status, value, isArmed is required")
		return
	}

	existing, err := s.devices.GetByID(r.Context(), id)
	if errors.Is(err, device.ErrNotFound) {
		writeNotFound(w, "device not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("reading device failed", "device", id, "error", err)
		writeInternalError(w, "reading device failed")
		return
	}

	change := device.StateChange{Status: req.Status, Value: req.Value, IsArmed: req.IsArmed}
	if err := s.devices.ApplyState(r.Context(), *existing, change); err != nil {
		s.logger.Error("updating device state failed", "device", id, "error", err)
		writeInternalError(w, "updating device state failed")
		return
	}

	updated, err := s.devices.GetByID(r.Context(), id)
	if err != nil {
		writeInternalError(w, "reading device failed")
		return
	}
	s.Hub().DeviceUpdated(*updated)
	writeJSON(w, http.StatusOK, updated)
}

// automationRequest is the body of PUT /api/devices/{id}/automation.
type automationRequest struct {
	IsArmed      *bool `json:"isArmed"`
	AutoOnMotion *bool `json:"autoOnMotion"`
}

// handleSetAutomation updates the per-device automation flags.
func (s *Server) handleSetAutomation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req automationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.IsArmed == nil && req.AutoOnMotion == nil {
		writeBadRequest(w, "at least one of isArmed, autoOnMotion is required")
		return
	}

	err := s.devices.SetAutomation(r.Context(), id, req.IsArmed, req.AutoOnMotion)
	if errors.Is(err, device.ErrNotFound) {
		writeNotFound(w, "device not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("updating automation failed", "device", id, "error", err)
		writeInternalError(w, "updating automation failed")
		return
	}

	updated, err := s.devices.GetByID(r.Context(), id)
	if err != nil {
		writeInternalError(w, "reading device failed")
		return
	}
	s.Hub().DeviceUpdated(*updated)
	writeJSON(w, http.StatusOK, updated)
}

// handleToggleDevice flips a controllable device via the broker.
func (s *Server) handleToggleDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if s.dispatcher == nil {
		writeUnavailable(w, "command dispatch is not available")
		return
	}

	err := s.dispatcher.Toggle(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"toggled": id})
	case errors.Is(err, device.ErrNotFound):
		writeNotFound(w, "device not found: "+id)
	case errors.Is(err, command.ErrUnsupportedToggle):
		writeBadRequest(w, "device cannot be toggled: "+id)
	case errors.Is(err, command.ErrPublishFailed), errors.Is(err, mqtt.ErrNotConnected):
		writeUnavailable(w, "broker unavailable, command not delivered")
	default:
		s.logger.Error("toggle failed", "device", id, "error", err)
		writeInternalError(w, "toggle failed")
	}
}
