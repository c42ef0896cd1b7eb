package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/clanpj/stablebot/config"
	"github.com/clanpj/stablebot/engine"
	"github.com/clanpj/stablebot/interop"
)

var backRankMate = "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(engine.DefaultConfig(), config.Default().Server, zerolog.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postMove(t *testing.T, url string, body string) (int, []byte) {
	t.Helper()
	res, err := http.Post(url+"/api/move", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/move: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return res.StatusCode, data
}

func TestPingAndConfig(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/ping")
	if err != nil {
		t.Fatalf("GET /api/ping: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("ping status %d", res.StatusCode)
	}

	res, err = http.Get(ts.URL + "/api/config")
	if err != nil {
		t.Fatalf("GET /api/config: %v", err)
	}
	defer res.Body.Close()
	var cfg configResponse
	if err := json.NewDecoder(res.Body).Decode(&cfg); err != nil {
		t.Fatalf("decoding config: %v", err)
	}
	if cfg.Engine != engine.DefaultConfig() || cfg.Server.MaxDepth != config.Default().Server.MaxDepth {
		t.Errorf("config is %+v", cfg)
	}
}

func TestPostMove(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := postMove(t, ts.URL, `{"fen": "`+backRankMate+`", "depth": 1}`)
	if status != http.StatusOK {
		t.Fatalf("status %d: %s", status, body)
	}
	var reply interop.Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}
	if reply.Encoded != "a1;a8;none" || reply.MatePlies != 1 {
		t.Errorf("reply is %+v", reply)
	}
}

func TestPostMoveErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"not json", `{"fen": `, http.StatusBadRequest, "bad_request"},
		{"bad fen", `{"fen": "8/8/8 w - -", "depth": 1}`, http.StatusBadRequest, "invalid_fen"},
		{"too deep", `{"fen": "` + backRankMate + `", "depth": 7}`, http.StatusBadRequest, "invalid_depth"},
		{"checkmated", `{"fen": "rnb1kbnr/pppp1ppp/4p3/8/5PPq/8/PPPPP2P/RNBQKBNR w KQkq - 1 3", "depth": 1}`, http.StatusUnprocessableEntity, "no_legal_moves"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postMove(t, ts.URL, tt.body)
			if status != tt.status {
				t.Errorf("status %d expected %d: %s", status, tt.status, body)
			}
			var errRes errorResponse
			if err := json.Unmarshal(body, &errRes); err != nil {
				t.Fatalf("decoding error: %v", err)
			}
			if errRes.Kind != tt.kind {
				t.Errorf("kind %s expected %s", errRes.Kind, tt.kind)
			}
		})
	}
}

func TestPostMoveBusy(t *testing.T) {
	cfg := config.Default().Server
	cfg.MaxConcurrentSearches = 1
	s := New(engine.DefaultConfig(), cfg, zerolog.New(io.Discard))

	// Hold the only search slot
	s.searches <- struct{}{}
	defer s.release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	body := bytes.NewBufferString(`{"fen": "` + backRankMate + `", "depth": 1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/move", body).WithContext(ctx)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status %d expected 503: %s", rec.Code, rec.Body.String())
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func TestWebsocketStreamsSearch(t *testing.T) {
	_, ts := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/ws", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(interop.Request{Fen: backRankMate, Depth: 1}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	rootMoves := 0
	for {
		msg := readMessage(t, conn)
		if msg.Type == "root_move" {
			var payload rootMovePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				t.Fatalf("decoding root_move: %v", err)
			}
			if payload.Index != rootMoves || payload.Depth != 1 {
				t.Errorf("root_move %d is %+v", rootMoves, payload)
			}
			rootMoves++
			continue
		}
		if msg.Type != "best_move" {
			t.Fatalf("unexpected message %s", msg.Type)
		}
		var reply interop.Reply
		if err := json.Unmarshal(msg.Payload, &reply); err != nil {
			t.Fatalf("decoding best_move: %v", err)
		}
		if reply.Encoded != "a1;a8;none" {
			t.Errorf("best_move is %+v", reply)
		}
		break
	}
	if rootMoves == 0 {
		t.Errorf("no root_move messages before best_move")
	}

	// The connection survives a failed search
	if err := conn.WriteJSON(interop.Request{Fen: "garbage", Depth: 1}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	msg := readMessage(t, conn)
	var errRes errorResponse
	if msg.Type != "error" || json.Unmarshal(msg.Payload, &errRes) != nil || errRes.Kind != "invalid_fen" {
		t.Errorf("expected an invalid_fen error, got %s %s", msg.Type, msg.Payload)
	}
}
