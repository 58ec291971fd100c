package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sagoresarker/scion-visualizer/internal/models"
	"github.com/sagoresarker/scion-visualizer/internal/parser"
	"github.com/sagoresarker/scion-visualizer/internal/runner"
)

const statusFailedMsg = "Failed to get status"

// PingResolver turns the configured ping target into a SCION address.
type PingResolver interface {
	Resolve(ctx context.Context, target string) (string, error)
}

// DashboardHandler serves the command-backed /api routes. Every handler
// answers 200: command failures are reported in the body.
type DashboardHandler struct {
	runner      runner.Runner
	resolver    PingResolver
	commands    Commands
	projectRoot string
	pingTarget  string
	logger      *slog.Logger
}

type DashboardOptions struct {
	Runner      runner.Runner
	Resolver    PingResolver
	Commands    Commands
	ProjectRoot string
	PingTarget  string
	Logger      *slog.Logger
}

func NewDashboardHandler(opts DashboardOptions) *DashboardHandler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &DashboardHandler{
		runner:      opts.Runner,
		resolver:    opts.Resolver,
		commands:    opts.Commands,
		projectRoot: opts.ProjectRoot,
		pingTarget:  opts.PingTarget,
		logger:      opts.Logger,
	}
}

// run detaches from the request context: only the runner timeout may stop
// a command.
func (h *DashboardHandler) run(command string) runner.Result {
	return h.runner.Run(context.Background(), command, h.projectRoot)
}

func (h *DashboardHandler) Status(w http.ResponseWriter, r *http.Request) {
	res := h.run(h.commands.Status())
	if !res.Succeeded {
		msg := res.Stderr
		if msg == "" {
			msg = statusFailedMsg
		}
		writeJSON(w, h.logger, models.ErrorResponse{Error: msg})
		return
	}

	writeJSON(w, h.logger, models.StatusResponse{Containers: parser.ParseContainers(res.Stdout)})
}

func (h *DashboardHandler) Paths(w http.ResponseWriter, r *http.Request) {
	res := h.run(h.commands.Paths())

	if parser.NoPathFound(res.Succeeded, res.Stdout) {
		writeJSON(w, h.logger, models.PathsResponse{
			Paths:   []models.PathEntry{},
			Message: parser.NoPathsMessage,
		})
		return
	}

	if !res.Succeeded {
		// Still parsed below: partial output may hold usable path lines.
		h.logger.Warn("showpaths failed, parsing partial output",
			"error", res.Err, "stderr", res.Stderr)
	}

	writeJSON(w, h.logger, models.PathsResponse{Paths: parser.ParsePaths(res.Stdout)})
}

func (h *DashboardHandler) Ping(w http.ResponseWriter, r *http.Request) {
	target, err := h.resolver.Resolve(context.Background(), h.pingTarget)
	if err != nil {
		h.logger.Warn("ping target resolution failed", "target", h.pingTarget, "error", err)
		writeJSON(w, h.logger, models.PingResponse{Success: false, Output: err.Error()})
		return
	}

	res := h.run(h.commands.Ping(target))
	writeJSON(w, h.logger, models.PingResponse{
		Success: parser.PingSucceeded(res.Stdout),
		Output:  res.Stdout,
	})
}

func (h *DashboardHandler) Logs(w http.ResponseWriter, r *http.Request) {
	res := h.run(h.commands.Logs())
	writeJSON(w, h.logger, models.LogsResponse{Logs: parser.TailLogs(res.Stdout, h.commands.LogMaxLines)})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", "error", err)
	}
}
