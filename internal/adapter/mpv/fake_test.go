package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
)

// fakeMPV answers the subset of the IPC protocol the player uses
type fakeMPV struct {
	t    *testing.T
	conn net.Conn

	writeMu sync.Mutex

	mu        sync.Mutex
	props     map[string]any
	observers map[int64]string
	commands  []string
}

func newFakeMPV(t *testing.T) (*fakeMPV, net.Conn) {
	server, client := net.Pipe()
	f := &fakeMPV{
		t:         t,
		conn:      server,
		props:     map[string]any{"pause": true, "eof-reached": false},
		observers: make(map[int64]string),
	}
	go f.serve()
	t.Cleanup(func() { server.Close() })
	return f, client
}

func (f *fakeMPV) serve() {
	r := bufio.NewReader(f.conn)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}
		var req struct {
			Command   []any `json:"command"`
			RequestID int64 `json:"request_id"`
		}
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}
		f.handle(req.Command, req.RequestID)
	}
}

func (f *fakeMPV) handle(cmd []any, id int64) {
	name, _ := cmd[0].(string)

	f.mu.Lock()
	f.commands = append(f.commands, name)
	f.mu.Unlock()

	switch name {
	case "observe_property":
		obs := int64(cmd[1].(float64))
		prop := cmd[2].(string)
		f.mu.Lock()
		f.observers[obs] = prop
		val, ok := f.props[prop]
		f.mu.Unlock()
		f.reply(id, "success", nil)
		if ok {
			f.write(map[string]any{"event": "property-change", "id": obs, "name": prop, "data": val})
		} else {
			f.write(map[string]any{"event": "property-change", "id": obs, "name": prop})
		}

	case "unobserve_property":
		obs := int64(cmd[1].(float64))
		f.mu.Lock()
		delete(f.observers, obs)
		f.mu.Unlock()
		f.reply(id, "success", nil)

	case "get_property":
		f.mu.Lock()
		val, ok := f.props[cmd[1].(string)]
		f.mu.Unlock()
		if !ok {
			f.reply(id, "property unavailable", nil)
			return
		}
		f.reply(id, "success", val)

	case "set_property":
		f.reply(id, "success", nil)
		f.Set(cmd[1].(string), cmd[2])

	case "cycle":
		f.mu.Lock()
		paused, _ := f.props["pause"].(bool)
		f.mu.Unlock()
		f.reply(id, "success", nil)
		f.Set("pause", !paused)

	case "fail":
		f.reply(id, "error running command", nil)

	default:
		f.reply(id, "success", nil)
	}
}

// Set changes a property and notifies its observers
func (f *fakeMPV) Set(prop string, val any) {
	f.mu.Lock()
	f.props[prop] = val
	var ids []int64
	for obs, name := range f.observers {
		if name == prop {
			ids = append(ids, obs)
		}
	}
	f.mu.Unlock()

	for _, obs := range ids {
		f.write(map[string]any{"event": "property-change", "id": obs, "name": prop, "data": val})
	}
}

// Emit sends a property-change for an arbitrary observer id
func (f *fakeMPV) Emit(obs int64, prop string, val any) {
	f.write(map[string]any{"event": "property-change", "id": obs, "name": prop, "data": val})
}

func (f *fakeMPV) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

func (f *fakeMPV) Observers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.observers)
}

func (f *fakeMPV) reply(id int64, status string, data any) {
	msg := map[string]any{"request_id": id, "error": status}
	if data != nil {
		msg["data"] = data
	}
	f.write(msg)
}

func (f *fakeMPV) write(msg map[string]any) {
	line, err := json.Marshal(msg)
	if err != nil {
		f.t.Errorf("encode fake reply: %v", err)
		return
	}
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	f.conn.Write(append(line, '\n'))
}

// fakeConnector hands out one pre-made connection
type fakeConnector struct {
	mu       sync.Mutex
	conn     net.Conn
	connects int
	closed   bool
}

func (c *fakeConnector) Connect(ctx context.Context) (net.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects++
	return c.conn, nil
}

func (c *fakeConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
