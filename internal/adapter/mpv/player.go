package mpv

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/streamflix/streamflix/internal/domain"
)

const (
	commandTimeout = 2 * time.Second
	connectTimeout = 10 * time.Second

	// Minimum spacing between delivered time updates
	timeUpdateInterval = 250 * time.Millisecond
)

// observed properties, in observer-id order within a binding
var observedProperties = []string{"pause", "time-pos", "eof-reached"}

// Connector starts (or reaches) an mpv instance and returns its IPC connection
type Connector interface {
	Connect(ctx context.Context) (net.Conn, error)
	Close() error
}

// Player implements domain.MediaPlayer on top of a single mpv instance.
// The instance is started on first use and restarted if it goes away.
type Player struct {
	connector Connector
	logger    *slog.Logger

	mu       sync.Mutex
	client   *Client
	binding  *binding
	observer int64 // Last allocated observer id
}

// NewPlayer creates a player that connects lazily through connector
func NewPlayer(connector Connector, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		connector: connector,
		logger:    logger,
	}
}

var _ domain.MediaPlayer = (*Player)(nil)

// Start connects to mpv ahead of the first command, launching it if needed
func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.ensureClient(ctx)
	return err
}

// ensureClient returns a live client, connecting if needed. Caller holds p.mu.
func (p *Player) ensureClient(ctx context.Context) (*Client, error) {
	if p.client != nil {
		select {
		case <-p.client.Done():
			p.logger.Info("mpv connection lost, reconnecting")
			p.client = nil
		default:
			return p.client, nil
		}
	}

	conn, err := p.connector.Connect(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "connect to player")
	}

	client := NewClient(conn, p.logger)
	p.client = client
	go p.dispatch(client)
	return client, nil
}

func (p *Player) command(args ...any) (json.RawMessage, error) {
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), connectTimeout)
	defer cancelConnect()

	p.mu.Lock()
	client, err := p.ensureClient(connectCtx)
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return client.Command(ctx, args...)
}

func (p *Player) Play() error {
	_, err := p.command("set_property", "pause", false)
	return err
}

func (p *Player) Pause() error {
	_, err := p.command("set_property", "pause", true)
	return err
}

func (p *Player) TogglePause() error {
	_, err := p.command("cycle", "pause")
	return err
}

// Seek jumps to an absolute position in seconds
func (p *Player) Seek(position float64) error {
	_, err := p.command("seek", position, "absolute")
	return err
}

// SeekRelative moves by delta seconds
func (p *Player) SeekRelative(delta float64) error {
	_, err := p.command("seek", delta, "relative")
	return err
}

// Load replaces the current source with url
func (p *Player) Load(url string) error {
	_, err := p.command("loadfile", url, "replace")
	return err
}

// Position returns the current playback position in seconds
func (p *Player) Position() (float64, error) {
	data, err := p.command("get_property", "time-pos")
	if err != nil {
		return 0, err
	}
	var pos float64
	if err := json.Unmarshal(data, &pos); err != nil {
		return 0, errors.Wrap(err, "decode time-pos")
	}
	return pos, nil
}

// Eject unloads the current source and leaves mpv idle
func (p *Player) Eject() error {
	_, err := p.command("stop")
	return err
}

// Bind subscribes to playback events. Only one binding may be live.
func (p *Player) Bind() (domain.MediaBinding, error) {
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), connectTimeout)
	defer cancelConnect()

	p.mu.Lock()
	if p.binding != nil {
		p.mu.Unlock()
		return nil, domain.ErrMediaInUse
	}

	client, err := p.ensureClient(connectCtx)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}

	b := &binding{
		player: p,
		client: client,
		events: make(chan domain.MediaEvent, 64),
		ids:    make(map[int64]string, len(observedProperties)),
		primed: make(map[string]bool, len(observedProperties)),
	}
	for _, name := range observedProperties {
		p.observer++
		b.ids[p.observer] = name
	}
	p.binding = b
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	for id, name := range b.ids {
		if err := client.Observe(ctx, id, name); err != nil {
			b.Release()
			return nil, errors.Wrapf(err, "observe %s", name)
		}
	}

	p.logger.Debug("media binding created", "observers", len(b.ids))
	return b, nil
}

// Shutdown quits mpv and closes the connection
func (p *Player) Shutdown() error {
	p.mu.Lock()
	client := p.client
	p.client = nil
	b := p.binding
	p.mu.Unlock()

	if b != nil {
		b.Release()
	}

	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		_, err := client.Command(ctx, "quit")
		cancel()
		if err != nil && !errors.Is(err, ErrClosed) {
			p.logger.Debug("mpv quit failed", "error", err)
		}
		client.Close()
	}

	return p.connector.Close()
}

// dispatch routes client events to the live binding until the connection ends
func (p *Player) dispatch(client *Client) {
	for ev := range client.Events() {
		if ev.Name != "property-change" {
			continue
		}

		p.mu.Lock()
		b := p.binding
		p.mu.Unlock()

		if b == nil || b.client != client {
			continue
		}
		b.handle(ev)
	}
}

func (p *Player) unbind(b *binding) {
	p.mu.Lock()
	if p.binding == b {
		p.binding = nil
	}
	p.mu.Unlock()
}

// binding is one live subscription to player events
type binding struct {
	player *Player
	client *Client

	mu         sync.Mutex
	events     chan domain.MediaEvent
	ids        map[int64]string
	primed     map[string]bool // Initial value already seen
	position   float64
	lastUpdate time.Time
	released   bool
}

func (b *binding) Events() <-chan domain.MediaEvent {
	return b.events
}

// Release detaches the binding. Safe to call more than once.
func (b *binding) Release() {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return
	}
	b.released = true
	close(b.events)
	b.mu.Unlock()

	b.player.unbind(b)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	for id := range b.ids {
		if err := b.client.Unobserve(ctx, id); err != nil && !errors.Is(err, ErrClosed) {
			b.player.logger.Debug("failed to unobserve property", "error", err, "id", id)
		}
	}
}

// handle translates a property change into a media event.
// mpv reports each property's current value right after observe; that
// first report describes state, not a transition, and is not forwarded.
func (b *binding) handle(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}
	name, ok := b.ids[ev.ID]
	if !ok {
		return
	}

	first := !b.primed[name]
	b.primed[name] = true

	switch name {
	case "time-pos":
		var pos float64
		if json.Unmarshal(ev.Data, &pos) != nil {
			return
		}
		b.position = pos
		if first {
			return
		}
		now := time.Now()
		if now.Sub(b.lastUpdate) < timeUpdateInterval {
			return
		}
		b.lastUpdate = now
		b.send(domain.MediaEvent{Kind: domain.MediaTimeUpdate, Position: pos})

	case "pause":
		var paused bool
		if json.Unmarshal(ev.Data, &paused) != nil || first {
			return
		}
		kind := domain.MediaPlay
		if paused {
			kind = domain.MediaPause
		}
		b.send(domain.MediaEvent{Kind: kind, Position: b.position})

	case "eof-reached":
		var eof bool
		if json.Unmarshal(ev.Data, &eof) != nil || first || !eof {
			return
		}
		b.send(domain.MediaEvent{Kind: domain.MediaEnded, Position: b.position})
	}
}

// send delivers without blocking; caller holds b.mu
func (b *binding) send(e domain.MediaEvent) {
	select {
	case b.events <- e:
	default:
		b.player.logger.Warn("media event dropped, consumer too slow", "event", e.Kind.String())
	}
}
