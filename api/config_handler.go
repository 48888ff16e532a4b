package api

import (
	"net/http"

	"github.com/seenimoa/fundlens/internal/config"
)

// ConfigResponse is the JSON body returned by GET /api/config.
type ConfigResponse struct {
	Config     *config.Config `json:"config"`
	ConfigFile string         `json:"config_file"` // empty when running on defaults
}

// handleGetConfig returns the running configuration.
// Secrets are excluded via json:"-" tags.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ConfigResponse{
		Config:     s.cfg,
		ConfigFile: s.cfg.File,
	})
}

// handleGetConfigKeys returns the status of every credential, masked.
func (s *Server) handleGetConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.CheckAPIKeys(s.cfg))
}
