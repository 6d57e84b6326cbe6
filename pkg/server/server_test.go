package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matzehuels/labyrinth/pkg/engine"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/observability"
	"github.com/matzehuels/labyrinth/pkg/pattern/catalog"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.New(io.Discard)
	reg, err := catalog.NewRegistry(logger)
	if err != nil {
		t.Fatalf("catalog.NewRegistry() error: %v", err)
	}
	e := engine.New(reg, engine.WithLogger(logger))
	s := New(pipeline.NewRunner(e, nil, nil, logger), Options{})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h healthResponse
	if err := json.Unmarshal(body, &h); err != nil || h.Status != "ok" {
		t.Errorf("body = %s", body)
	}
}

func TestCatalog(t *testing.T) {
	s, ts := newTestServer(t)
	_, body := get(t, ts, "/v1/catalog")
	var c catalogResponse
	if err := json.Unmarshal(body, &c); err != nil {
		t.Fatal(err)
	}
	if c.Fingerprint != s.engine.Registry().Fingerprint() || c.Stats.Size != 5 {
		t.Errorf("catalog = %+v", c)
	}
}

func TestCell(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := get(t, ts, "/v1/mazes/17/cells/1/1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var c cellResponse
	if err := json.Unmarshal(body, &c); err != nil {
		t.Fatal(err)
	}
	if c.Next != (grid.Point{X: 1, Y: 0}) {
		t.Errorf("next of (1,1) = %v, want (1,0)", c.Next)
	}
	if c.Exit != "north" {
		t.Errorf("exit of (1,1) = %s, want north", c.Exit)
	}
	if c.Coord.Seed != 17 || !c.Coord.IsCell() {
		t.Errorf("coord = %v", c.Coord)
	}
}

func TestView(t *testing.T) {
	_, ts := newTestServer(t)

	resp, body := get(t, ts, "/v1/mazes/17/view?width=10&height=4")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %s", ct)
	}
	if n := strings.Count(string(body), "\n"); n != 4 {
		t.Errorf("view has %d lines, want 4", n)
	}

	resp, body = get(t, ts, "/v1/mazes/17/view?width=10&height=4&format=json&scale=2")
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %s", resp.Header.Get("Content-Type"))
	}
	var doc pipeline.ViewDocument
	if err := json.Unmarshal(body, &doc); err != nil || !doc.Ready || doc.Viewport.Scale != 2 {
		t.Errorf("document = %s", body)
	}
}

func TestTile(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := get(t, ts, "/v1/mazes/17/tiles/2/3?detailed=true")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(string(body), "digraph G {") {
		t.Errorf("body = %.40s", body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %s", ct)
	}
}

func TestDistance(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := get(t, ts, "/v1/mazes/17/distance?from=1,1&to=3,0")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var d distanceResponse
	if err := json.Unmarshal(body, &d); err != nil {
		t.Fatal(err)
	}
	// (1,1) -> (1,0) -> (2,0) -> (3,0)
	if d.Distance != 3 || d.Direction != 1 {
		t.Errorf("distance = %+v, want 3 ahead", d)
	}
}

func TestErrors(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		path   string
		status int
		code   errors.Code
	}{
		{"/v1/mazes/seedless/stats", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/v1/mazes/17/cells/1/x", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/v1/mazes/17/view?width=0", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/v1/mazes/17/view?format=png", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"/v1/mazes/17/tiles/0/12", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/v1/mazes/17/tiles/1/99", http.StatusBadRequest, errors.ErrCodeMalformedCoordinate},
		{"/v1/mazes/17/tiles/40/12", http.StatusBadRequest, errors.ErrCodeMalformedCoordinate},
		{"/v1/mazes/17/cells/1/9223372036854775807", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/v1/mazes/17/distance?from=1,1", http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			var e errorResponse
			if err := json.Unmarshal(body, &e); err != nil || e.Error != tt.code {
				t.Errorf("body = %s, want code %s", body, tt.code)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeNotReady, "stuck"), http.StatusServiceUnavailable},
		{errors.New(errors.ErrCodeNotFound, "gone"), http.StatusNotFound},
		{errors.New(errors.ErrCodeSeedMismatch, "two mazes"), http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestTrailStream(t *testing.T) {
	_, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/mazes/17/trail?x=1&y=1&to=3,0&interval=5ms&length=4"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.CloseNow()

	want := []grid.Point{{X: 1, Y: 1}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	for i, p := range want {
		var msg TrailMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if msg.Head != p || msg.Step != i || len(msg.Positions) != 4 {
			t.Errorf("message %d = %+v, want head %v", i, msg, p)
		}
		if msg.Arrived != (i == len(want)-1) {
			t.Errorf("message %d: arrived = %v", i, msg.Arrived)
		}
	}

	_, _, err = conn.Read(ctx)
	if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Errorf("stream should close normally after arrival, got %v", err)
	}
}

func TestTrailRejectsBadParams(t *testing.T) {
	_, ts := newTestServer(t)
	for _, q := range []string{"", "?to=1", "?to=1,1&steps=0", "?to=1,1&interval=fast", "?to=1,1&length=0"} {
		resp, body := get(t, ts, "/v1/mazes/17/trail"+q)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("trail%s: status = %d (%s)", q, resp.StatusCode, body)
		}
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu    sync.Mutex
	paths []string
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, path string, _ int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths = append(h.paths, path)
}

func TestHooksSeeRoutePatterns(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	_, ts := newTestServer(t)
	get(t, ts, "/v1/mazes/42/stats")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.paths) != 1 || hooks.paths[0] != "/v1/mazes/{seed}/stats" {
		t.Errorf("hook paths = %v", hooks.paths)
	}
}

func TestServeShutsDown(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get("http://" + ln.Addr().String() + "/healthz"); err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
