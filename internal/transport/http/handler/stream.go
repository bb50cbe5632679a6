package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/application/realtime"
	"github.com/ferrypratamaa-00/monii-sub001/internal/pkg/id"
	"github.com/ferrypratamaa-00/monii-sub001/internal/transport/http/middleware"
)

var (
	errStreamClosed = errors.New("stream closed")

	handshakeFrame = []byte(`{"type":"connected"}`)
)

// streamConn is one open SSE response. Writes are serialised by mu; Close
// never waits on mu so a stalled write cannot block the dispatcher.
type streamConn struct {
	id           string
	w            http.ResponseWriter
	rc           *http.ResponseController
	writeTimeout time.Duration

	mu   sync.Mutex
	once sync.Once
	done chan struct{}
}

func newStreamConn(w http.ResponseWriter, writeTimeout time.Duration) *streamConn {
	return &streamConn{
		id:           id.New(),
		w:            w,
		rc:           http.NewResponseController(w),
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
}

func (c *streamConn) ID() string { return c.id }

// Push writes one `data: <payload>\n\n` frame and flushes it.
func (c *streamConn) Push(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.done:
		return errStreamClosed
	default:
	}

	if c.writeTimeout > 0 {
		if err := c.rc.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		defer func() { _ = c.rc.SetWriteDeadline(time.Time{}) }()
	}
	frame := make([]byte, 0, len(payload)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, payload...)
	frame = append(frame, "\n\n"...)
	if _, err := c.w.Write(frame); err != nil {
		return err
	}
	return c.rc.Flush()
}

func (c *streamConn) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *streamConn) Done() <-chan struct{} { return c.done }

// drain waits for an in-flight Push to finish. Call after Close.
func (c *streamConn) drain() {
	c.mu.Lock()
	defer c.mu.Unlock()
}

// StreamHandler serves the long-lived SSE notification stream.
type StreamHandler struct {
	registry     *realtime.Registry
	writeTimeout time.Duration
}

func NewStreamHandler(registry *realtime.Registry, writeTimeout time.Duration) *StreamHandler {
	return &StreamHandler{registry: registry, writeTimeout: writeTimeout}
}

// Stream holds the response open until the client leaves, the server shuts
// down, a push fails, or a newer stream for the same user replaces it.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID := claims.UserID

	conn := newStreamConn(w, h.writeTimeout)
	// The server WriteTimeout would otherwise cut the stream.
	if err := conn.rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.Warn("clear stream write deadline", "user_id", userID, "err", err)
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := conn.Push(handshakeFrame); err != nil {
		slog.Warn("stream handshake failed", "user_id", userID, "err", err)
		return
	}
	h.registry.Register(userID, conn)
	slog.Info("stream opened", "user_id", userID, "conn_id", conn.id)

	select {
	case <-r.Context().Done():
	case <-conn.Done():
	}

	conn.Close()
	conn.drain()
	h.registry.Remove(userID, conn)
	slog.Info("stream closed", "user_id", userID, "conn_id", conn.id)
}
