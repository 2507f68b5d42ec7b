package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/teslashibe/reachy-blocks/pkg/blocks"
)

const testMoveID = "3f1c2a9e-7b4d-4e2a-9c1f-0d6e5b8a7c21"

type recordedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// fakeRobot is a daemon stand-in that records every request it serves.
type fakeRobot struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeRobot(t *testing.T) *fakeRobot {
	t.Helper()

	f := &fakeRobot{}
	move := func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string]string{"uuid": testMoveID})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/move/play/wake_up", move)
	mux.HandleFunc("POST /api/move/play/goto_sleep", move)
	mux.HandleFunc("POST /api/move/goto", move)
	mux.HandleFunc("POST /api/move/play/recorded-move-dataset/", move)
	mux.HandleFunc("POST /api/move/stop", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string]string{"message": "stopped"})
	})
	mux.HandleFunc("GET /api/move/running", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, []map[string]string{{"uuid": testMoveID}, {"uuid": "other"}})
	})
	mux.HandleFunc("GET /api/move/recorded-move-datasets/list/", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, []string{"yes1", "no1", "yes2", "laughing1"})
	})
	mux.HandleFunc("POST /api/motors/set_mode/", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/motors/status", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string]string{"mode": "enabled"})
	})
	mux.HandleFunc("GET /api/state/full", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string]any{
			"head_pose":         map[string]float64{"pitch": math.Pi / 6, "yaw": 0, "roll": 0},
			"antennas_position": []float64{math.Pi / 4, -math.Pi / 4},
			"body_yaw":          0,
		})
	})
	mux.HandleFunc("GET /api/daemon/status", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string]string{"state": "running"})
	})

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.EscapedPath(), Body: body})
		f.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func writeBody(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (f *fakeRobot) apiURL() string {
	return f.server.URL + "/api"
}

func (f *fakeRobot) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeRobot) last(t *testing.T) recordedRequest {
	t.Helper()
	reqs := f.recorded()
	if len(reqs) == 0 {
		t.Fatal("daemon received no requests")
	}
	return reqs[len(reqs)-1]
}

// isolateEnv keeps the developer's environment from leaking into config.
func isolateEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("ROBOT_IP", "")
	t.Setenv("REACHY_API_URL", "")
	t.Setenv("LOG_LEVEL", "")
	return filepath.Join(t.TempDir(), "config.toml")
}

func runCLI(t *testing.T, args []string, apiURL, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--config", configPath}
	if apiURL != "" {
		flags = append(flags, "--api-url", apiURL)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestWakeAndSleepReportMoveID(t *testing.T) {
	cfgPath := isolateEnv(t)
	robot := newFakeRobot(t)

	out, _, err := runCLI(t, []string{"wake"}, robot.apiURL(), cfgPath)
	if err != nil {
		t.Fatalf("wake: %v", err)
	}
	if !strings.Contains(out, testMoveID) {
		t.Errorf("wake output %q missing move id", out)
	}
	if got := robot.last(t); got.Method != http.MethodPost || got.Path != "/api/move/play/wake_up" {
		t.Errorf("wake request = %s %s", got.Method, got.Path)
	}

	out, _, err = runCLI(t, []string{"--json", "sleep"}, robot.apiURL(), cfgPath)
	if err != nil {
		t.Fatalf("sleep: %v", err)
	}
	var res moveOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode sleep output %q: %v", out, err)
	}
	if res.UUID != testMoveID {
		t.Errorf("sleep uuid = %q", res.UUID)
	}
}

func TestHeadDirectionSendsPresetInRadians(t *testing.T) {
	cfgPath := isolateEnv(t)
	robot := newFakeRobot(t)

	if _, _, err := runCLI(t, []string{"head", "up-left", "--duration", "0.01"}, robot.apiURL(), cfgPath); err != nil {
		t.Fatalf("head: %v", err)
	}

	got := robot.last(t)
	if got.Path != "/api/move/goto" {
		t.Fatalf("path = %s", got.Path)
	}
	var body struct {
		HeadPose struct {
			Pitch float64 `json:"pitch"`
			Yaw   float64 `json:"yaw"`
		} `json:"head_pose"`
		Duration      float64 `json:"duration"`
		Interpolation string  `json:"interpolation"`
	}
	if err := json.Unmarshal(got.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.HeadPose.Pitch != 0.3 || body.HeadPose.Yaw != 0.5 {
		t.Errorf("head pose = %+v", body.HeadPose)
	}
	if body.Duration != blocks.MinDuration {
		t.Errorf("duration = %v, want clamped to %v", body.Duration, blocks.MinDuration)
	}
	if body.Interpolation != "minjerk" {
		t.Errorf("interpolation = %q", body.Interpolation)
	}
}

func TestHeadRejectsBadInput(t *testing.T) {
	cfgPath := isolateEnv(t)
	robot := newFakeRobot(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no target", []string{"head"}},
		{"direction and angles", []string{"head", "UP", "--pitch", "10"}},
		{"reset with direction", []string{"head", "UP", "--reset"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runCLI(t, tt.args, robot.apiURL(), cfgPath); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, _, err := runCLI(t, []string{"head", "SIDEWAYS"}, robot.apiURL(), cfgPath)
	if !errors.Is(err, blocks.ErrInvalidDirection) {
		t.Errorf("unknown direction error = %v", err)
	}
	if n := len(robot.recorded()); n != 0 {
		t.Errorf("daemon saw %d requests for rejected input", n)
	}
}

func TestAntennasBothConvertsDegrees(t *testing.T) {
	cfgPath := isolateEnv(t)
	robot := newFakeRobot(t)

	if _, _, err := runCLI(t, []string{"antennas", "--both", "90"}, robot.apiURL(), cfgPath); err != nil {
		t.Fatalf("antennas: %v", err)
	}

	var body struct {
		Antennas [2]float64 `json:"antennas"`
	}
	if err := json.Unmarshal(robot.last(t).Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	for i, v := range body.Antennas {
		if math.Abs(v-math.Pi/2) > 1e-9 {
			t.Errorf("antennas[%d] = %v, want pi/2", i, v)
		}
	}

	if _, _, err := runCLI(t, []string{"antennas", "--both", "10", "--left", "5"}, robot.apiURL(), cfgPath); err == nil {
		t.Error("expected error combining --both and --left")
	}
}

func TestStateRendersDegrees(t *testing.T) {
	cfgPath := isolateEnv(t)
	robot := newFakeRobot(t)

	out, _, err := runCLI(t, []string{"state"}, robot.apiURL(), cfgPath)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	for _, want := range []string{"Head pitch", "30.0°", "45.0°", "-45.0°", "enabled"} {
		if !strings.Contains(out, want) {
			t.Errorf("state output missing %q:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, []string{"--json", "state"}, robot.apiURL(), cfgPath)
	if err != nil {
		t.Fatalf("state --json: %v", err)
	}
	var snap blocks.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if math.Abs(snap.HeadPitch-30) > 1e-9 || math.Abs(snap.LeftAntenna-45) > 1e-9 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestPing(t *testing.T) {
	cfgPath := isolateEnv(t)
	robot := newFakeRobot(t)

	out, _, err := runCLI(t, []string{"ping"}, robot.apiURL(), cfgPath)
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if !strings.Contains(out, "running") {
		t.Errorf("ping output = %q", out)
	}

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL + "/api"
	dead.Close()

	if _, _, err := runCLI(t, []string{"ping"}, deadURL, cfgPath); err == nil {
		t.Error("expected error for unreachable daemon")
	}
}

func TestMotors(t *testing.T) {
	cfgPath := isolateEnv(t)
	robot := newFakeRobot(t)

	if _, _, err := runCLI(t, []string{"motors", "mode", "gravity_compensation"}, robot.apiURL(), cfgPath); err != nil {
		t.Fatalf("motors mode: %v", err)
	}
	if got := robot.last(t).Path; got != "/api/motors/set_mode/gravity_compensation" {
		t.Errorf("path = %s", got)
	}

	_, _, err := runCLI(t, []string{"motors", "mode", "turbo"}, robot.apiURL(), cfgPath)
	if !errors.Is(err, blocks.ErrInvalidMotorMode) {
		t.Errorf("invalid mode error = %v", err)
	}

	out, _, err := runCLI(t, []string{"motors", "status"}, robot.apiURL(), cfgPath)
	if err != nil {
		t.Fatalf("motors status: %v", err)
	}
	if !strings.Contains(out, "enabled") {
		t.Errorf("motors status output = %q", out)
	}
}

func TestMovesListAndPlay(t *testing.T) {
	cfgPath := isolateEnv(t)
	robot := newFakeRobot(t)

	out, _, err := runCLI(t, []string{"moves", "list", "org/lib"}, robot.apiURL(), cfgPath)
	if err != nil {
		t.Fatalf("moves list: %v", err)
	}
	if got := robot.last(t).Path; got != "/api/move/recorded-move-datasets/list/org/lib" {
		t.Errorf("list path = %s", got)
	}
	if lines := strings.Fields(out); len(lines) != 4 {
		t.Errorf("moves list output = %q", out)
	}

	out, _, err = runCLI(t, []string{"--json", "moves", "list", "--group", "org/lib"}, robot.apiURL(), cfgPath)
	if err != nil {
		t.Fatalf("moves list --group: %v", err)
	}
	var listed movesListOutput
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if yes := listed.Categories["yes"]; len(yes) != 2 {
		t.Errorf("yes category = %v", yes)
	}

	out, _, err = runCLI(t, []string{"moves", "list", "--search", "YES"}, robot.apiURL(), cfgPath)
	if err != nil {
		t.Fatalf("moves list --search: %v", err)
	}
	if strings.Contains(out, "no1") || !strings.Contains(out, "yes2") {
		t.Errorf("search output = %q", out)
	}

	if _, _, err := runCLI(t, []string{"moves", "play", "org/lib", "happy dance"}, robot.apiURL(), cfgPath); err != nil {
		t.Fatalf("moves play: %v", err)
	}
	if got := robot.last(t).Path; got != "/api/move/play/recorded-move-dataset/org/lib/happy%20dance" {
		t.Errorf("play path = %s", got)
	}
}

func TestMovesRunningAndStop(t *testing.T) {
	cfgPath := isolateEnv(t)
	robot := newFakeRobot(t)

	out, _, err := runCLI(t, []string{"moves", "running"}, robot.apiURL(), cfgPath)
	if err != nil {
		t.Fatalf("moves running: %v", err)
	}
	if !strings.HasPrefix(out, "2 ") {
		t.Errorf("running output = %q", out)
	}

	if _, _, err := runCLI(t, []string{"moves", "stop", "--uuid", "not-a-uuid"}, robot.apiURL(), cfgPath); err == nil {
		t.Error("expected error for malformed uuid")
	}
	if got := robot.last(t).Path; got == "/api/move/stop" {
		t.Error("malformed uuid reached the daemon")
	}

	if _, _, err := runCLI(t, []string{"moves", "stop", "--uuid", strings.ToUpper(testMoveID)}, robot.apiURL(), cfgPath); err != nil {
		t.Fatalf("moves stop: %v", err)
	}
	got := robot.last(t)
	if got.Path != "/api/move/stop" {
		t.Fatalf("stop path = %s", got.Path)
	}
	var body map[string]string
	if err := json.Unmarshal(got.Body, &body); err != nil {
		t.Fatalf("decode stop body: %v", err)
	}
	if body["uuid"] != testMoveID {
		t.Errorf("stop uuid = %q", body["uuid"])
	}
}

func TestConfigInitAndShow(t *testing.T) {
	cfgPath := isolateEnv(t)

	out, _, err := runCLI(t, []string{"config", "init", "--path", cfgPath}, "", cfgPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, cfgPath) {
		t.Errorf("init output = %q", out)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", cfgPath}, "", cfgPath); err == nil {
		t.Error("expected error when config exists without --overwrite")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, "http://robot.local:8000/api/", cfgPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "http://robot.local:8000/api'") && !strings.Contains(out, `"http://robot.local:8000/api"`) {
		t.Errorf("flag override missing from config show:\n%s", out)
	}
}

func TestInvalidAPIURLFlag(t *testing.T) {
	cfgPath := isolateEnv(t)

	if _, _, err := runCLI(t, []string{"ping"}, "ftp://robot", cfgPath); err == nil {
		t.Error("expected error for unsupported scheme")
	}
}
