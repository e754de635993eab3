package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Subprotocol is the websocket subprotocol spoken by WSTransport.
const Subprotocol = "graphql-transport-ws"

// Message types of the graphql-transport-ws protocol.
const (
	MsgConnectionInit = "connection_init"
	MsgConnectionAck  = "connection_ack"
	MsgPing           = "ping"
	MsgPong           = "pong"
	MsgSubscribe      = "subscribe"
	MsgNext           = "next"
	MsgError          = "error"
	MsgComplete       = "complete"
)

const wsWriteTimeout = 10 * time.Second

// Message is one frame of the graphql-transport-ws protocol.
type Message struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsResult struct {
	resp *Response
	err  error
}

// WSTransport multiplexes operations over one websocket. A single reader
// goroutine routes results to waiting callers by operation id.
type WSTransport struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan wsResult
	nextID  uint64
	err     error

	done      chan struct{}
	closeOnce sync.Once
}

// DialWS connects to endpoint and completes the connection_init handshake.
// http and https URLs are mapped to ws and wss.
func DialWS(ctx context.Context, endpoint string, header http.Header) (*WSTransport, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
		Subprotocols:     []string{Subprotocol},
	}
	conn, _, err := dialer.DialContext(ctx, wsURL(endpoint), header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	if dl, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(dl)
	}
	if err := conn.WriteJSON(Message{Type: MsgConnectionInit, Payload: json.RawMessage(`{}`)}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connection_init: %w", err)
	}
	var ack Message
	if err := conn.ReadJSON(&ack); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connection_ack: %w", err)
	}
	if ack.Type != MsgConnectionAck {
		conn.Close()
		return nil, fmt.Errorf("expected %s, got %q", MsgConnectionAck, ack.Type)
	}
	conn.SetReadDeadline(time.Time{})

	t := &WSTransport{
		conn:    conn,
		pending: make(map[string]chan wsResult),
		done:    make(chan struct{}),
	}
	go t.readLoop()
	return t, nil
}

func wsURL(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	}
	return endpoint
}

func (t *WSTransport) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	t.mu.Lock()
	if t.err != nil {
		err := t.err
		t.mu.Unlock()
		return nil, err
	}
	t.nextID++
	id := strconv.FormatUint(t.nextID, 10)
	ch := make(chan wsResult, 1)
	t.pending[id] = ch
	t.mu.Unlock()

	if err := t.write(Message{ID: id, Type: MsgSubscribe, Payload: payload}); err != nil {
		t.forget(id)
		return nil, err
	}

	select {
	case res := <-ch:
		return res.resp, res.err
	case <-ctx.Done():
		if t.forget(id) {
			t.write(Message{ID: id, Type: MsgComplete})
		}
		return nil, ctx.Err()
	case <-t.done:
		t.forget(id)
		return nil, t.closeErr()
	}
}

// Close ends the connection. Waiting operations fail with ErrClosed.
func (t *WSTransport) Close() error {
	t.write(websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	t.fail(ErrClosed)
	return nil
}

func (t *WSTransport) write(v any) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	t.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if frame, ok := v.([]byte); ok {
		return t.conn.WriteMessage(websocket.CloseMessage, frame)
	}
	return t.conn.WriteJSON(v)
}

func (t *WSTransport) readLoop() {
	for {
		var m Message
		if err := t.conn.ReadJSON(&m); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.fail(ErrClosed)
			} else {
				t.fail(fmt.Errorf("%w: %v", ErrClosed, err))
			}
			return
		}
		switch m.Type {
		case MsgPing:
			t.write(Message{Type: MsgPong})
		case MsgPong:
		case MsgNext:
			var resp Response
			if err := json.Unmarshal(m.Payload, &resp); err != nil {
				t.deliver(m.ID, wsResult{err: fmt.Errorf("decode result: %w", err)})
				continue
			}
			t.deliver(m.ID, wsResult{resp: &resp})
		case MsgError:
			var errs Errors
			if err := json.Unmarshal(m.Payload, &errs); err != nil {
				t.deliver(m.ID, wsResult{err: fmt.Errorf("decode errors: %w", err)})
				continue
			}
			t.deliver(m.ID, wsResult{resp: &Response{Errors: errs}})
		case MsgComplete:
			t.deliver(m.ID, wsResult{err: errors.New("operation completed without a result")})
		default:
			log.Printf("[GraphQL] Ignoring %q message", m.Type)
		}
	}
}

// deliver hands the first result of an operation to its caller; later
// messages for the same id are dropped.
func (t *WSTransport) deliver(id string, res wsResult) {
	t.mu.Lock()
	ch, ok := t.pending[id]
	delete(t.pending, id)
	t.mu.Unlock()
	if ok {
		ch <- res
	}
}

// forget reports whether id was still pending.
func (t *WSTransport) forget(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[id]
	delete(t.pending, id)
	return ok
}

func (t *WSTransport) fail(err error) {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		if t.err == nil {
			t.err = err
		}
		t.mu.Unlock()
		close(t.done)
		t.conn.Close()
	})
}

func (t *WSTransport) closeErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		return ErrClosed
	}
	return t.err
}
