package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/clanpj/stablebot/engine"
	"github.com/clanpj/stablebot/interop"
)

const wsIdlePingInterval = 30 * time.Second

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type rootMovePayload struct {
	Depth    int           `json:"depth"`
	Index    int           `json:"index"`
	Move     string        `json:"move"`
	Eval     engine.EvalCp `json:"eval"`
	BestMove string        `json:"best_move"`
	BestEval engine.EvalCp `json:"best_eval"`
}

func mustMarshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func marshalMessage(msgType string, payload interface{}) []byte {
	return mustMarshal(wsMessage{Type: msgType, Payload: mustMarshal(payload)})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// handleWS runs one search per request message. Each search streams a
// root_move message per root move and ends with best_move or error.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("ws-upgrade")
		return
	}

	send := make(chan []byte, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := writeWSWithHeartbeat(conn, send); err != nil {
			s.logger.Debug().Err(err).Msg("ws-write")
		}
	}()

	defer func() {
		close(send)
		<-writerDone
		conn.Close()
	}()

	for {
		var req interop.Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug().Err(err).Msg("ws-read")
			}
			return
		}

		// Root move events are dropped when the client falls behind, the
		// final message is not.
		streamEvents := func(ev engine.SearchEvent) {
			if ev.Kind != engine.EventRootMove {
				return
			}
			msg := marshalMessage(ev.Kind.String(), rootMovePayload{
				Depth:    ev.Depth,
				Index:    ev.Index,
				Move:     engine.MoveString(ev.Move),
				Eval:     ev.Eval,
				BestMove: engine.MoveString(ev.BestMove),
				BestEval: ev.BestEval,
			})
			select {
			case send <- msg:
			default:
			}
		}

		logger := s.logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
		observer := engine.Observers(engine.LogObserver(logger), streamEvents)

		var msg []byte
		reply, err := s.search(r.Context(), req, observer)
		if err != nil {
			_, kind := statusFor(err)
			msg = marshalMessage("error", errorResponse{Error: err.Error(), Kind: kind})
		} else {
			msg = marshalMessage(engine.EventBestMove.String(), reply)
		}

		select {
		case send <- msg:
		case <-writerDone:
			return
		}
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
