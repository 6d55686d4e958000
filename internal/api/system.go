package api

import (
	"net/http"

	"github.com/homeguardhq/homeguard-core/internal/reconcile"
)

// clientConfig is the bootstrap document served at GET /api/config.
// Dashboards read it before anything else to learn where the backend and
// the broker live and which distance thresholds to render.
type clientConfig struct {
	BackendURL string           `json:"backendUrl"`
	MQTTBroker string           `json:"mqttBroker"`
	Thresholds clientThresholds `json:"thresholds"`
	Version    string           `json:"version"`
}

// clientThresholds mirrors the reconciler's distance constants, in cm.
type clientThresholds struct {
	DistanceWarning float64 `json:"distanceWarning"`
	DistanceDanger  float64 `json:"distanceDanger"`
	UnlockProximity float64 `json:"unlockProximity"`
}

// handleClientConfig serves the client bootstrap document.
func (s *Server) handleClientConfig(w http.ResponseWriter, r *http.Request) {
	backendURL := s.cfg.BaseURL
	if backendURL == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		backendURL = scheme + "://" + r.Host
	}

	writeJSON(w, http.StatusOK, clientConfig{
		BackendURL: backendURL,
		MQTTBroker: s.mqttCfg.ClientBrokerURL(),
		Thresholds: clientThresholds{
			DistanceWarning: reconcile.DistanceWarning,
			DistanceDanger:  reconcile.DistanceDanger,
			UnlockProximity: reconcile.UnlockProximity,
		},
		Version: s.version,
	})
}
