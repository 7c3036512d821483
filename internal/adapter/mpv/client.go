// Package mpv drives an mpv process over its JSON IPC protocol.
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/pkg/errors"
)

// ErrPropertyUnavailable is returned while mpv has no value for a property,
// e.g. time-pos with nothing loaded.
var ErrPropertyUnavailable = errors.New("property unavailable")

// ErrClosed is returned by calls on a client whose connection is gone
var ErrClosed = errors.New("mpv connection closed")

// request is one line sent to mpv
type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// message is one line received from mpv: a reply or an async event
type message struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int64           `json:"request_id"`
	Event     string          `json:"event"`
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
}

// Event is an asynchronous notification from mpv
type Event struct {
	Name     string          // e.g. "property-change", "end-file"
	ID       int64           // Observer id for property-change
	Property string          // Property name for property-change
	Data     json.RawMessage // Property value, may be empty
}

type reply struct {
	data json.RawMessage
	err  error
}

// Client is a JSON IPC connection. Commands may be issued from any
// goroutine; replies are matched by request id.
type Client struct {
	conn   net.Conn
	logger *slog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan reply

	events chan Event
	done   chan struct{}
}

// NewClient starts reading from conn. The client owns conn from here on.
func NewClient(conn net.Conn, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		conn:    conn,
		logger:  logger,
		pending: make(map[int64]chan reply),
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Events delivers async notifications. It is closed when the connection ends.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Command sends a command and waits for its reply
func (c *Client) Command(ctx context.Context, args ...any) (json.RawMessage, error) {
	ch := make(chan reply, 1)

	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		return nil, ErrClosed
	default:
	}
	c.nextID++
	id := c.nextID
	c.pending[id] = ch
	c.mu.Unlock()

	line, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		c.forget(id)
		return nil, errors.Wrap(err, "encode mpv command")
	}

	c.writeMu.Lock()
	_, err = c.conn.Write(append(line, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return nil, errors.Wrapf(err, "send mpv command %v", args[0])
	}

	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrClosed
	}
}

// GetFloat reads a numeric property
func (c *Client) GetFloat(ctx context.Context, name string) (float64, error) {
	data, err := c.Command(ctx, "get_property", name)
	if err != nil {
		return 0, err
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, errors.Wrapf(err, "decode property %s", name)
	}
	return v, nil
}

// SetProperty writes a property
func (c *Client) SetProperty(ctx context.Context, name string, value any) error {
	_, err := c.Command(ctx, "set_property", name, value)
	return err
}

// Observe subscribes to changes of a property under the given observer id.
// mpv answers with the current value as the first property-change event.
func (c *Client) Observe(ctx context.Context, id int64, name string) error {
	_, err := c.Command(ctx, "observe_property", id, name)
	return err
}

// Unobserve removes every observation registered under id
func (c *Client) Unobserve(ctx context.Context, id int64) error {
	_, err := c.Command(ctx, "unobserve_property", id)
	return err
}

// Close ends the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) forget(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) readLoop() {
	defer c.shutdown()

	r := bufio.NewReader(c.conn)
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			c.handleLine(line)
		}
		if err != nil {
			if err != io.EOF {
				c.logger.Debug("mpv connection read failed", "error", err)
			}
			return
		}
	}
}

func (c *Client) handleLine(line []byte) {
	var msg message
	if err := json.Unmarshal(line, &msg); err != nil {
		c.logger.Debug("ignoring malformed mpv message", "error", err, "line", string(line))
		return
	}

	if msg.Event != "" {
		c.events <- Event{Name: msg.Event, ID: msg.ID, Property: msg.Name, Data: msg.Data}
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[msg.RequestID]
	delete(c.pending, msg.RequestID)
	c.mu.Unlock()
	if !ok {
		return
	}

	switch msg.Error {
	case "success":
		ch <- reply{data: msg.Data}
	case "property unavailable":
		ch <- reply{err: ErrPropertyUnavailable}
	default:
		ch <- reply{err: errors.Errorf("mpv: %s", msg.Error)}
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	close(c.done)
	for id, ch := range c.pending {
		ch <- reply{err: ErrClosed}
		delete(c.pending, id)
	}
	c.mu.Unlock()
	close(c.events)
}
