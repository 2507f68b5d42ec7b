package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/teslashibe/reachy-blocks/pkg/blocks"
	"github.com/teslashibe/reachy-blocks/pkg/daemon"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires a server to a fake daemon built from routes.
func newTestServer(t *testing.T, routes map[string]any, staticDir string) *Server {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, body := range routes {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(body)
		})
	}
	robot := httptest.NewServer(mux)
	t.Cleanup(robot.Close)

	client := daemon.NewClient(daemon.WithBaseURL(robot.URL+"/api"), daemon.WithLogger(quietLogger()))
	ext := blocks.New(client, quietLogger())
	return NewServer(ext, client, Config{StaticDir: staticDir, Logger: quietLogger()})
}

func doGet(t *testing.T, s *Server, path string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Origin", "https://turbowarp.org")
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func TestStatusConnected(t *testing.T) {
	s := newTestServer(t, map[string]any{
		"GET /api/daemon/status": map[string]string{"state": "running"},
	}, "")

	resp, body := doGet(t, s, "/api/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var got StatusResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Connected || got.DaemonState != "running" || got.Connection != "connected" {
		t.Errorf("status = %+v", got)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing CORS header")
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store, no-cache, must-revalidate" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestStatusDisconnected(t *testing.T) {
	s := newTestServer(t, nil, "")

	_, body := doGet(t, s, "/api/status")
	var got StatusResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Connected || got.DaemonState != blocks.UnknownValue || got.Connection != "disconnected" {
		t.Errorf("status = %+v", got)
	}
}

func TestStateInDegrees(t *testing.T) {
	s := newTestServer(t, map[string]any{
		"GET /api/state/full": map[string]any{
			"head_pose":         map[string]float64{"pitch": 0, "yaw": 3.141592653589793, "roll": 0},
			"antennas_position": []float64{0, 0},
			"body_yaw":          0,
		},
		"GET /api/motors/status": map[string]string{"mode": "enabled"},
	}, "")

	resp, body := doGet(t, s, "/api/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var snap blocks.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.HeadYaw < 179.999 || snap.HeadYaw > 180.001 || snap.MotorMode != "enabled" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestStateDaemonFailure(t *testing.T) {
	s := newTestServer(t, nil, "")

	resp, body := doGet(t, s, "/api/state")
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502: %s", resp.StatusCode, body)
	}
}

func TestMovesGroupsCategories(t *testing.T) {
	s := newTestServer(t, map[string]any{
		"GET /api/move/recorded-move-datasets/list/org/lib": []string{"yes2", "yes1", "joy"},
	}, "")

	resp, body := doGet(t, s, "/api/moves?dataset=org/lib")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var got MovesResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Dataset != "org/lib" || len(got.Moves) != 3 {
		t.Errorf("moves = %+v", got)
	}
	if yes := got.Categories["yes"]; len(yes) != 2 || yes[0] != "yes1" {
		t.Errorf("yes category = %v", yes)
	}
}

func TestServesExtensionBundle(t *testing.T) {
	dir := t.TempDir()
	const js = "(function(Scratch){})(Scratch);"
	if err := os.WriteFile(filepath.Join(dir, "reachy-mini-extension.js"), []byte(js), 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	s := newTestServer(t, nil, dir)

	resp, body := doGet(t, s, "/reachy-mini-extension.js")
	if resp.StatusCode != http.StatusOK || string(body) != js {
		t.Errorf("status %d body %q", resp.StatusCode, body)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("bundle served without CORS header")
	}
	if resp.Header.Get("Cache-Control") == "" {
		t.Error("bundle served without Cache-Control")
	}
}
