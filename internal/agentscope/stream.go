package agentscope

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// StreamHandlers receives stream callbacks. Exactly one of OnComplete or
// OnError fires per session; OnToken may fire any number of times before
// that, never after.
type StreamHandlers struct {
	OnToken    func(token string)
	OnComplete func(usage Usage, metadata map[string]any)
	OnError    func(message string)
}

// StreamSession is one live streaming run. Closing it before the terminal
// frame arrives stops further callback invocations; no retries are
// performed by the session itself.
type StreamSession struct {
	conn      *websocket.Conn
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// Done is closed once the session has reached a terminal state and the
// socket is released.
func (s *StreamSession) Done() <-chan struct{} {
	return s.done
}

// Close tears the session down. Safe to call multiple times and after the
// terminal frame.
func (s *StreamSession) Close() error {
	s.closed.Store(true)
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	return err
}

// Stream opens a WebSocket to the backend, sends the run request as the
// single outbound frame, and relays inbound frames to the handlers. Dial
// and handshake failures are returned synchronously; everything after that
// is reported through the handlers.
func (c *Client) Stream(ctx context.Context, request AgentRunRequest, handlers StreamHandlers) (*StreamSession, error) {
	header := http.Header{}
	c.authorize(header)

	conn, _, err := c.dialer.DialContext(ctx, c.streamURL(), header)
	if err != nil {
		if ctx.Err() != nil {
			return nil, domain.CancelledError(ctx.Err())
		}
		return nil, domain.TransportError("dial stream", err)
	}

	if err := conn.WriteJSON(streamRequest{Action: "run", AgentRunRequest: request}); err != nil {
		_ = conn.Close()
		return nil, domain.TransportError("send run frame", err)
	}

	session := &StreamSession{
		conn: conn,
		done: make(chan struct{}),
	}

	// Cancelling the context closes the socket, which is the stream's only
	// cancellation path.
	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				_ = session.Close()
			case <-session.done:
			}
		}()
	}

	go session.readLoop(c.logger, handlers)

	return session, nil
}

func (c *Client) streamURL() string {
	url := c.baseURL + "/api/agents/stream"
	switch {
	case strings.HasPrefix(url, "https://"):
		return "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		return "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url
}

// readLoop relays frames until a terminal frame or a socket failure. The
// terminal flag guarantees at most one terminal callback; frames after a
// terminal frame and malformed frames are dropped, never fatal.
func (s *StreamSession) readLoop(logger *slog.Logger, handlers StreamHandlers) {
	defer close(s.done)
	defer s.Close()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				// Caller closed the session: suppress callbacks.
				return
			}
			if handlers.OnError != nil {
				handlers.OnError("stream connection failed: " + err.Error())
			}
			return
		}

		var event StreamEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Warn("dropping malformed stream frame", "error", err)
			continue
		}

		switch event.Type {
		case frameStart:
			// Informational only.
		case frameToken:
			if event.Content != "" && handlers.OnToken != nil {
				handlers.OnToken(event.Content)
			}
		case frameComplete:
			var usage Usage
			if event.Usage != nil {
				usage = *event.Usage
			}
			if handlers.OnComplete != nil {
				handlers.OnComplete(usage, event.Metadata)
			}
			return
		case frameError:
			message := event.Error
			if message == "" {
				message = "unknown error"
			}
			if handlers.OnError != nil {
				handlers.OnError(message)
			}
			return
		default:
			logger.Warn("dropping unknown stream frame", "type", event.Type)
		}
	}
}
