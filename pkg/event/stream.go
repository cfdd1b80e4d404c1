package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const defaultHeartbeat = 25 * time.Second

// Stream wraps SSE framing so run events can be pushed safely to an HTTP
// client. The consumer reads in emission order; a literal done frame follows
// the last event so the transport can detect closure.
type Stream struct {
	w         io.Writer
	flush     func()
	heartbeat time.Duration
	mu        sync.Mutex
}

// NewStream builds an SSE stream over an HTTP response.
func NewStream(w http.ResponseWriter) *Stream {
	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")

	var flushFn func()
	if f, ok := w.(http.Flusher); ok {
		flushFn = f.Flush
	}

	return &Stream{
		w:         w,
		flush:     flushFn,
		heartbeat: defaultHeartbeat,
	}
}

// NewStreamWriter builds a stream over a custom writer, e.g. for tests.
func NewStreamWriter(w io.Writer) *Stream {
	return &Stream{w: w}
}

// SetHeartbeat adjusts the keepalive interval; <=0 disables it.
func (s *Stream) SetHeartbeat(d time.Duration) {
	if d <= 0 {
		s.heartbeat = 0
		return
	}
	s.heartbeat = d
}

// Relay drains the event channel into the SSE response, then writes the done
// sentinel. Returns the context error when the client disconnects first.
func (s *Stream) Relay(ctx context.Context, events <-chan Event) error {
	if s == nil {
		return errors.New("event: stream is nil")
	}
	var ticker *time.Ticker
	if s.heartbeat > 0 {
		ticker = time.NewTicker(s.heartbeat)
		defer ticker.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				return s.write([]byte("data: {\"type\":\"done\"}\n\n"))
			}
			if err := s.Send(evt); err != nil {
				return err
			}
		case <-heartbeatChan(ticker):
			if err := s.sendHeartbeat(); err != nil {
				return err
			}
		}
	}
}

// Send writes a single event frame.
func (s *Stream) Send(evt Event) error {
	if s == nil {
		return errors.New("event: stream is nil")
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("event: marshal SSE payload: %w", err)
	}
	frame := fmt.Sprintf("data: %s\n\n", body)
	return s.write([]byte(frame))
}

func (s *Stream) sendHeartbeat() error {
	if s == nil || s.w == nil || s.heartbeat <= 0 {
		return nil
	}
	payload := fmt.Sprintf(": ping %d\n\n", time.Now().Unix())
	return s.write([]byte(payload))
}

func (s *Stream) write(data []byte) error {
	if s == nil || s.w == nil {
		return errors.New("event: stream writer not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(data); err != nil {
		return err
	}
	if s.flush != nil {
		s.flush()
	}
	return nil
}

func heartbeatChan(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
