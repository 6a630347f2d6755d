package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mg "unimax-chess/unimaxmg"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Depth = 1
	cfg.Seed = 42
	cfg.MaxDepth = 3
	return New(NewConfigStore(cfg), zerolog.Nop())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestPing(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/ping", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("ping: %d %s", rec.Code, rec.Body.String())
	}
}

func TestBoardInitialState(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/board", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	state := decode[boardResponse](t, rec)
	if state.SideToMove != "A" || state.GameOver {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.Grid[0][4] != int(mg.NewPiece(mg.SideA, mg.King)) {
		t.Fatalf("expected side A king on e1, got %d", state.Grid[0][4])
	}
	if state.Value != 482 {
		t.Fatalf("expected initial value 482, got %v", state.Value)
	}
}

func TestMoveAppliesAndRecords(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/move", `{"from":"e2","to":"e4"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	state := decode[boardResponse](t, rec)
	if state.SideToMove != "B" || len(state.History) != 1 || state.History[0] != "e2e4" {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.Repetitions != 1 || len(state.Seen) != 1 || state.Seen[0] != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" {
		t.Fatalf("expected the start board recorded, got %d %v", state.Repetitions, state.Seen)
	}
}

func TestMoveRejections(t *testing.T) {
	cases := map[string]string{
		"empty origin": `{"from":"e4","to":"e5"}`,
		"illegal":      `{"from":"e2","to":"e5"}`,
		"off board":    `{"from":"z9","to":"e5"}`,
		"bad notation": `{"from":"e","to":"e5"}`,
		"bad json":     `{"from":`,
	}
	for name, body := range cases {
		s := newTestServer(t)
		if rec := do(t, s, http.MethodPost, "/api/move", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d %s", name, rec.Code, rec.Body.String())
		}
	}
}

func TestGameOverConflicts(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodPost, "/api/new", `{"fen":"4k3/8/8/8/8/8/8/4R1K1 w"}`); rec.Code != http.StatusOK {
		t.Fatalf("new: %d %s", rec.Code, rec.Body.String())
	}
	rec := do(t, s, http.MethodPost, "/api/move", `{"from":"e1","to":"e8"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("capture: %d %s", rec.Code, rec.Body.String())
	}
	if state := decode[boardResponse](t, rec); !state.GameOver || state.Winner != "A" {
		t.Fatalf("expected side A to win, got %+v", state)
	}
	for _, path := range []string{"/api/move", "/api/bestmove", "/api/play"} {
		body := `{"from":"g1","to":"g2"}`
		if path != "/api/move" {
			body = ""
		}
		if rec := do(t, s, http.MethodPost, path, body); rec.Code != http.StatusConflict {
			t.Errorf("%s: expected 409, got %d", path, rec.Code)
		}
	}
}

func TestBestMoveNoLegalMoves(t *testing.T) {
	s := newTestServer(t)
	// Side B's king is walled in by its own pawns, none of which can advance.
	fen := `{"fen":"6pk/6pp/6pp/6pp/6pp/6pp/6pp/K5pp b"}`
	if rec := do(t, s, http.MethodPost, "/api/new", fen); rec.Code != http.StatusOK {
		t.Fatalf("new: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, s, http.MethodPost, "/api/bestmove", `{"side":"b"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, s, http.MethodPost, "/api/bestmove", `{"side":"a"}`); rec.Code != http.StatusOK {
		t.Fatalf("side A can still move, got %d", rec.Code)
	}
}

func TestBestMoveDoesNotApply(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/bestmove", `{"side":"B","depth":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	res := decode[searchResponse](t, rec)
	if len(res.Move) != 4 || res.Depth != 2 || res.Nodes == 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	state := decode[boardResponse](t, do(t, s, http.MethodGet, "/api/board", ""))
	if len(state.History) != 0 {
		t.Fatalf("bestmove must not change the game")
	}
}

func TestDepthLimits(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{`{"depth":-1}`, `{"depth":4}`} {
		if rec := do(t, s, http.MethodPost, "/api/play", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
	if rec := do(t, s, http.MethodPost, "/api/bestmove", `{"side":"purple"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown side: expected 400, got %d", rec.Code)
	}
}

func TestPlayAdvancesGame(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/play", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	res := decode[playResponse](t, rec)
	if len(res.Board.History) != 1 || res.Board.History[0] != res.Move {
		t.Fatalf("played move not recorded: %+v", res)
	}
	if res.Board.SideToMove != "B" {
		t.Fatalf("expected side B to move next")
	}
}

func TestConfigUpdate(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodPost, "/api/config", `{"depth":9}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("depth above max_depth should be rejected, got %d", rec.Code)
	}
	rec := do(t, s, http.MethodPost, "/api/config", `{"max_depth":5,"depth":4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if cfg := s.store.Get(); cfg.Depth != 4 || cfg.MaxDepth != 5 {
		t.Fatalf("store not updated: %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	if err := os.WriteFile(path, []byte(`{"addr":":9090","depth":3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" || cfg.Depth != 3 || cfg.MaxDepth != DefaultConfig().MaxDepth {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if err := os.WriteFile(path, []byte(`{"depth":7}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("depth above max_depth should fail validation")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestWebsocketStreamsBoard(t *testing.T) {
	s := newTestServer(t)
	done := make(chan struct{})
	defer close(done)
	go s.hub.Run(done)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() wsMessage {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}

	if msg := read(); msg.Type != "board" {
		t.Fatalf("expected initial board, got %q", msg.Type)
	}

	resp, err := http.Post(ts.URL+"/api/move", "application/json", strings.NewReader(`{"from":"g1","to":"f3"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	msg := read()
	if msg.Type != "board" {
		t.Fatalf("expected board update, got %q", msg.Type)
	}
	var state boardResponse
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatal(err)
	}
	if len(state.History) != 1 || state.History[0] != "g1f3" {
		t.Fatalf("unexpected history %v", state.History)
	}
}
