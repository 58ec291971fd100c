package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sagoresarker/scion-visualizer/internal/config"
	"github.com/sagoresarker/scion-visualizer/internal/handlers"
	"github.com/sagoresarker/scion-visualizer/internal/logging"
	"github.com/sagoresarker/scion-visualizer/internal/models"
	"github.com/sagoresarker/scion-visualizer/internal/ratelimit"
	"github.com/sagoresarker/scion-visualizer/internal/resolve"
	"github.com/sagoresarker/scion-visualizer/internal/runner"
)

type failingRunner struct{}

func (failingRunner) Run(context.Context, string, string) runner.Result {
	return runner.Result{Stderr: runner.TimedOutMsg, Err: runner.ErrTimeout}
}

type panicRunner struct{}

func (panicRunner) Run(context.Context, string, string) runner.Result {
	panic("boom")
}

func testOptions(r runner.Runner, limiter ratelimit.Limiter) Options {
	cfg := config.Default()
	logger := logging.NewDiscardLogger()
	return Options{
		Dashboard: handlers.NewDashboardHandler(handlers.DashboardOptions{
			Runner:      r,
			Resolver:    resolve.NewResolver(cfg.DNS.Server, time.Second),
			Commands:    handlers.CommandsFromConfig(cfg),
			ProjectRoot: cfg.ProjectRoot,
			PingTarget:  cfg.SCION.PingTarget,
			Logger:      logger,
		}),
		Limiter: limiter,
		Assets:  fstest.MapFS{"index.html": {Data: []byte("<html>embedded</html>")}},
		Logger:  logger,
	}
}

func get(h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AllRoutesReturn200OnCommandFailure(t *testing.T) {
	t.Parallel()

	h := NewRouter(testOptions(failingRunner{}, nil))
	for _, path := range []string{"/api/health", "/api/status", "/api/paths", "/api/ping", "/api/logs", "/api/topology"} {
		rec := get(h, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rec.Code)
		}
		if !json.Valid(rec.Body.Bytes()) {
			t.Fatalf("%s body=%q", path, rec.Body.String())
		}
	}
}

func TestRouter_HealthAndTopology(t *testing.T) {
	t.Parallel()

	h := NewRouter(testOptions(failingRunner{}, nil))

	rec := get(h, "/api/health", nil)
	if strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
		t.Fatalf("health=%s", rec.Body.String())
	}

	var topo models.Topology
	if err := json.Unmarshal(get(h, "/api/topology", nil).Body.Bytes(), &topo); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(topo.ASes) != 4 || topo.Links[3].Type != "PEER" {
		t.Fatalf("topo=%+v", topo)
	}
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()

	h := NewRouter(testOptions(failingRunner{}, nil))
	rec := get(h, "/api/health", http.Header{"Origin": {"http://elsewhere.example"}})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin=%q", got)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/paths", nil)
	req.Header.Set("Origin", "http://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, req)
	if pre.Code >= 300 {
		t.Fatalf("preflight status=%d", pre.Code)
	}
	if got := pre.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("preflight allow-origin=%q", got)
	}
}

func TestRouter_RequestID(t *testing.T) {
	t.Parallel()

	h := NewRouter(testOptions(failingRunner{}, nil))
	if id := get(h, "/api/health", nil).Header().Get(RequestIDHeader); len(id) != 36 {
		t.Fatalf("generated id=%q", id)
	}
	rec := get(h, "/api/health", http.Header{RequestIDHeader: {"abc-123"}})
	if id := rec.Header().Get(RequestIDHeader); id != "abc-123" {
		t.Fatalf("echoed id=%q", id)
	}
}

func TestRouter_RateLimitOnlyCommandRoutes(t *testing.T) {
	t.Parallel()

	h := NewRouter(testOptions(failingRunner{}, ratelimit.NewRateLimiter(time.Minute, 1)))

	if rec := get(h, "/api/paths", nil); rec.Code != http.StatusOK {
		t.Fatalf("first status=%d", rec.Code)
	}
	rec := get(h, "/api/logs", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status=%d", rec.Code)
	}
	for i := 0; i < 3; i++ {
		if rec := get(h, "/api/health", nil); rec.Code != http.StatusOK {
			t.Fatalf("health status=%d", rec.Code)
		}
	}
}

func TestRouter_Static(t *testing.T) {
	t.Parallel()

	rec := get(NewRouter(testOptions(failingRunner{}, nil)), "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "embedded") {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>from disk</html>"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	opts := testOptions(failingRunner{}, nil)
	opts.StaticDir = dir
	rec = get(NewRouter(opts), "/", nil)
	if !strings.Contains(rec.Body.String(), "from disk") {
		t.Fatalf("body=%q", rec.Body.String())
	}
}

func TestRouter_PanicRecovered(t *testing.T) {
	t.Parallel()

	rec := get(NewRouter(testOptions(panicRunner{}, nil)), "/api/status", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == "" {
		t.Fatalf("body=%q", rec.Body.String())
	}
}

func TestServer_ShutdownOnCancel(t *testing.T) {
	t.Parallel()

	opts := testOptions(failingRunner{}, nil)
	opts.Addr = "127.0.0.1:0"
	s := New(opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
