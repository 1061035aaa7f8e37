// Push channel: real-time job and library events over a websocket
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/charmbracelet/log"
	"github.com/fernandodimas/myfoil-tui/internal/models"
	"github.com/gorilla/websocket"
)

// PushEventType discriminates the events the server pushes.
type PushEventType int

const (
	// EventJobUpdate carries one or more job records to merge into the
	// retained job list.
	EventJobUpdate PushEventType = iota
	// EventLibraryUpdated signals that the library changed server-side and
	// should be reloaded in full.
	EventLibraryUpdated
)

// PushEvent is one decoded push message.
type PushEvent struct {
	Type PushEventType
	Jobs []models.Job
}

// pushMessage is the wire shape of a push frame.
type pushMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

const (
	pushConnectTimeout   = 10 * time.Second
	pushReconnectTries   = 10
	pushReconnectInitial = time.Second
)

// PushListener maintains the websocket connection to the server's push
// channel and republishes decoded events on a channel. Reconnection is
// bounded with backoff; the REST poll remains the safety net when the
// channel stays down.
type PushListener struct {
	url    string
	dialer *websocket.Dialer
	logger *log.Logger
	events chan PushEvent
}

// NewPushListener creates a listener for the given server base URL.
func NewPushListener(baseURL string, logger *log.Logger) *PushListener {
	wsURL := strings.TrimRight(baseURL, "/")
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)

	return &PushListener{
		url:    wsURL + "/ws",
		dialer: &websocket.Dialer{HandshakeTimeout: pushConnectTimeout},
		logger: logger,
		events: make(chan PushEvent, 16),
	}
}

// Events returns the channel decoded push events arrive on. Closed when
// Run returns.
func (p *PushListener) Events() <-chan PushEvent {
	return p.events
}

// Run connects and reads until the context is canceled or reconnection
// attempts are exhausted. Blocking; call in a goroutine.
func (p *PushListener) Run(ctx context.Context) error {
	defer close(p.events)

	for {
		conn, err := p.connect(ctx)
		if err != nil {
			return fmt.Errorf("push channel unavailable: %w", err)
		}

		readErr := p.readLoop(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return nil
		}
		p.logger.Warn("push channel dropped, reconnecting", "err", readErr)
	}
}

// connect dials with bounded retries and backoff.
func (p *PushListener) connect(ctx context.Context) (*websocket.Conn, error) {
	var conn *websocket.Conn

	err := retry.Do(
		func() error {
			c, _, err := p.dialer.DialContext(ctx, p.url, nil)
			if err != nil {
				return err
			}
			conn = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(pushReconnectTries),
		retry.Delay(pushReconnectInitial),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (p *PushListener) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var msg pushMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		event, ok := decodePush(msg)
		if !ok {
			p.logger.Debug("ignoring unknown push event", "event", msg.Event)
			continue
		}

		select {
		case p.events <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// decodePush maps a wire frame to a PushEvent. job_update data may be a
// single job or an array; both are accepted.
func decodePush(msg pushMessage) (PushEvent, bool) {
	switch msg.Event {
	case "library_updated":
		return PushEvent{Type: EventLibraryUpdated}, true
	case "job_update":
		var jobs []models.Job
		if err := json.Unmarshal(msg.Data, &jobs); err == nil {
			return PushEvent{Type: EventJobUpdate, Jobs: jobs}, true
		}
		var job models.Job
		if err := json.Unmarshal(msg.Data, &job); err == nil && job.ID != "" {
			return PushEvent{Type: EventJobUpdate, Jobs: []models.Job{job}}, true
		}
		return PushEvent{}, false
	default:
		return PushEvent{}, false
	}
}
