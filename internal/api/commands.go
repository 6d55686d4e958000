package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/homeguardhq/homeguard-core/internal/activity"
	"github.com/homeguardhq/homeguard-core/internal/command"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/mqtt"
)

// commandRequest is the body of POST /api/commands.
type commandRequest struct {
	Command string `json:"command"`
}

// handleCommand validates and dispatches a control command to the broker.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if s.dispatcher == nil {
		writeUnavailable(w, "command dispatch is not available")
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	cmd := command.Command(strings.ToUpper(strings.TrimSpace(req.Command)))
	err := s.dispatcher.Dispatch(r.Context(), cmd)
	switch {
	case err == nil:
		s.logActivity(r.Context(), "Command dispatched: "+string(cmd), activity.TypeInfo)
		writeJSON(w, http.StatusOK, map[string]any{
			"command": string(cmd),
			"status":  "dispatched",
		})
	case errors.Is(err, command.ErrUnknownCommand):
		writeBadRequest(w, "unknown command: "+req.Command)
	case errors.Is(err, command.ErrPublishFailed), errors.Is(err, mqtt.ErrNotConnected):
		writeUnavailable(w, "broker unavailable, command not delivered")
	default:
		s.logger.Error("command dispatch failed", "command", req.Command, "error", err)
		writeInternalError(w, "command dispatch failed")
	}
}
