package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsIdlePingInterval = 30 * time.Second
	observerBuffer     = 16

	msgBoard = "board"
	msgReset = "reset"
	msgPing  = "ping"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub streams board states to websocket observers. Each update is encoded
// once and the same frame is queued for every observer.
type Hub struct {
	mu        sync.Mutex
	observers map[*observer]struct{}
	frames    chan []byte
}

// observer is one websocket connection; frames is closed when it leaves.
type observer struct {
	frames chan []byte
}

func NewHub() *Hub {
	return &Hub{
		observers: make(map[*observer]struct{}),
		frames:    make(chan []byte, 32),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case frame := <-h.frames:
			h.mu.Lock()
			for o := range h.observers {
				o.offer(frame)
			}
			h.mu.Unlock()
		}
	}
}

// PublishBoard announces the board after a real move.
func (h *Hub) PublishBoard(state boardResponse) { h.publish(msgBoard, state) }

// PublishReset announces the board of a freshly started game.
func (h *Hub) PublishReset(state boardResponse) { h.publish(msgReset, state) }

// publish never blocks the caller. Nothing is encoded while nobody watches,
// and when the queue is full the update is dropped: the next one carries the
// whole board anyway.
func (h *Hub) publish(kind string, state boardResponse) {
	if h.Observers() == 0 {
		return
	}
	frame, err := encodeFrame(kind, state)
	if err != nil {
		return
	}
	select {
	case h.frames <- frame:
	default:
	}
}

// Observers returns the number of connected observers.
func (h *Hub) Observers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

func (h *Hub) join() *observer {
	o := &observer{frames: make(chan []byte, observerBuffer)}
	h.mu.Lock()
	h.observers[o] = struct{}{}
	h.mu.Unlock()
	return o
}

func (h *Hub) leave(o *observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.observers[o]; !ok {
		return
	}
	delete(h.observers, o)
	close(o.frames)
}

// offer queues frame unless the observer is too far behind to keep up.
func (o *observer) offer(frame []byte) {
	select {
	case o.frames <- frame:
	default:
	}
}

func encodeFrame(kind string, state boardResponse) ([]byte, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wsMessage{Type: kind, Payload: payload})
}

// streamFrames copies queued frames to conn until the observer leaves. A ping
// frame goes out whenever the connection has been idle for wsIdlePingInterval.
func streamFrames(conn *websocket.Conn, frames <-chan []byte) error {
	ping, err := json.Marshal(wsMessage{Type: msgPing})
	if err != nil {
		return err
	}
	idle := time.NewTicker(wsIdlePingInterval)
	defer idle.Stop()
	lastWrite := time.Now()

	for {
		var frame []byte
		select {
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			frame = f
		case <-idle.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			frame = ping
		}
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return err
		}
		lastWrite = time.Now()
	}
}
