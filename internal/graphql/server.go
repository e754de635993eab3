package graphql

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ExecFunc resolves one operation on the server side.
type ExecFunc func(ctx context.Context, req *Request) *Response

// Handler serves ExecFunc over HTTP POST and, for upgrade requests, over
// graphql-transport-ws.
type Handler struct {
	Exec ExecFunc

	upgrader websocket.Upgrader
}

func NewHandler(exec ExecFunc) *Handler {
	return &Handler{
		Exec: exec,
		upgrader: websocket.Upgrader{
			Subprotocols: []string{Subprotocol},
			CheckOrigin:  func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		h.serveWS(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(Response{Errors: Errors{{Message: "invalid request body"}}})
		return
	}
	json.NewEncoder(w).Encode(h.Exec(r.Context(), &req))
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[GraphQL] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var writeMu sync.Mutex
	send := func(m Message) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(m); err != nil {
			log.Printf("[GraphQL] Write failed: %v", err)
		}
	}
	closeWith := func(code int, reason string) {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	}

	acked := false
	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			return
		}
		switch m.Type {
		case MsgConnectionInit:
			if acked {
				closeWith(4429, "Too many initialisation requests")
				return
			}
			acked = true
			send(Message{Type: MsgConnectionAck})
		case MsgPing:
			send(Message{Type: MsgPong})
		case MsgSubscribe:
			if !acked {
				closeWith(4401, "Unauthorized")
				return
			}
			var req Request
			if err := json.Unmarshal(m.Payload, &req); err != nil {
				payload, _ := json.Marshal(Errors{{Message: "invalid subscribe payload"}})
				send(Message{ID: m.ID, Type: MsgError, Payload: payload})
				continue
			}
			go func(id string) {
				payload, err := json.Marshal(h.Exec(ctx, &req))
				if err != nil {
					payload, _ = json.Marshal(Errors{{Message: err.Error()}})
					send(Message{ID: id, Type: MsgError, Payload: payload})
					return
				}
				send(Message{ID: id, Type: MsgNext, Payload: payload})
				send(Message{ID: id, Type: MsgComplete})
			}(m.ID)
		case MsgComplete, MsgPong:
		}
	}
}
