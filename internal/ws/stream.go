package ws

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphcrawl/internal/metrics"
)

const (
	writeTimeout     = 10 * time.Second
	streamSendBuffer = 64
	pingInterval     = 30 * time.Second
	pingTimeout      = 10 * time.Second
)

// Stream delivers the events of one traversal run over a single connection.
// Events are queued by the crawling goroutine and written by WritePump.
type Stream struct {
	conn      *websocket.Conn
	send      chan []byte
	runID     string
	seq       atomic.Uint64
	log       *logrus.Logger
	closeOnce sync.Once
}

// NewStream wraps an accepted connection.
func NewStream(conn *websocket.Conn, runID string, log *logrus.Logger) *Stream {
	return &Stream{
		conn:  conn,
		send:  make(chan []byte, streamSendBuffer),
		runID: runID,
		log:   log,
	}
}

// SendLevel queues a level event.
func (s *Stream) SendLevel(ctx context.Context, depth int, nodes []string) bool {
	return s.enqueue(ctx, EventLevel, LevelData{Depth: depth, Nodes: nodes, Count: len(nodes)})
}

// SendDone queues the terminal success event.
func (s *Stream) SendDone(ctx context.Context, counts []int, total int, elapsed time.Duration) bool {
	return s.enqueue(ctx, EventDone, DoneData{Counts: counts, Total: total, ElapsedSeconds: elapsed.Seconds()})
}

// SendError queues the terminal failure event.
func (s *Stream) SendError(ctx context.Context, node, message string) bool {
	return s.enqueue(ctx, EventError, ErrorData{Node: node, Message: message})
}

// enqueue blocks until the event is queued or ctx ends.
func (s *Stream) enqueue(ctx context.Context, typ string, data any) bool {
	msg, err := newEvent(typ, s.runID, s.seq.Add(1), data)
	if err != nil {
		s.log.WithError(err).Error("encoding stream event")
		return false
	}

	select {
	case s.send <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close ends the stream once queued events are written.
func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.send) })
}

// WritePump writes queued events until Close is called or ctx ends, then
// closes the connection.
func (s *Stream) WritePump(ctx context.Context) {
	metrics.StreamConnections.Inc()
	defer metrics.StreamConnections.Dec()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
			return
		case <-pingTicker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				s.log.WithError(err).Debug("stream ping failed")
				s.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
				return
			}
		case msg, ok := <-s.send:
			if !ok {
				s.conn.Close(websocket.StatusNormalClosure, "run complete") //nolint:errcheck // best-effort
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := s.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()

			if err != nil {
				s.log.WithError(err).Debug("write failed")
				s.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
				return
			}
		}
	}
}
