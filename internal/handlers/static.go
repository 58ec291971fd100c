package handlers

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/sagoresarker/scion-visualizer/internal/models"
)

type HealthHandler struct {
	logger *slog.Logger
}

func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, models.HealthResponse{Status: "ok"})
}

type TopologyHandler struct {
	logger *slog.Logger
}

func NewTopologyHandler(logger *slog.Logger) *TopologyHandler {
	return &TopologyHandler{logger: logger}
}

func (h *TopologyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, models.DefaultTopology())
}

// NewStaticHandler serves the front end from dir when set, otherwise from
// the embedded assets.
func NewStaticHandler(dir string, embedded fs.FS) http.Handler {
	if dir != "" {
		return http.FileServer(http.FS(os.DirFS(dir)))
	}
	return http.FileServer(http.FS(embedded))
}
