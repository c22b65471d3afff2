// Package bus talks to the lyrics daemon over the D-Bus session bus.
// Client implements both provider ports: the two method calls and the two
// signals.
package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/hammamikhairi/lrcshow/internal/domain"
	"github.com/hammamikhairi/lrcshow/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.LyricsService = (*Client)(nil)
	_ domain.SignalSource  = (*Client)(nil)
)

// Client is a D-Bus client for the lyrics daemon. Safe for concurrent use.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
	log  *logger.Logger

	mu     sync.Mutex
	closed bool
}

// Dial connects to the session bus.
func Dial(log *logger.Logger) (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	return NewClient(conn, log), nil
}

// NewClient wraps an existing connection. The client takes ownership of
// conn and closes it in Close.
func NewClient(conn *dbus.Conn, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(ServiceName, dbus.ObjectPath(LyricsPath)),
		log:  log.Named("bus"),
	}
}

// Close closes the bus connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// GetCurrentLyrics calls the daemon's GetCurrentLyrics method.
func (c *Client) GetCurrentLyrics(ctx context.Context) ([]string, error) {
	var lines []string
	if err := c.obj.CallWithContext(ctx, MethodGetCurrentLyrics, 0).Store(&lines); err != nil {
		return nil, fmt.Errorf("GetCurrentLyrics: %w", err)
	}
	c.log.Debug("GetCurrentLyrics: %d lines", len(lines))
	return lines, nil
}

// positionReply mirrors the (iiii) struct GetCurrentLyricsPosition returns.
type positionReply struct {
	LineIndex int32
	CharFrom  int32
	CharTo    int32
	Elapsed   int32
}

// GetCurrentLyricsPosition calls the daemon's GetCurrentLyricsPosition
// method. The daemon answers (-1, -1, -1, -1) when nothing is active.
func (c *Client) GetCurrentLyricsPosition(ctx context.Context) (domain.Position, error) {
	var reply positionReply
	if err := c.obj.CallWithContext(ctx, MethodGetCurrentLyricsPosition, 0).Store(&reply); err != nil {
		return domain.NoPosition, fmt.Errorf("GetCurrentLyricsPosition: %w", err)
	}
	pos := domain.Position{
		LineIndex: int(reply.LineIndex),
		CharFrom:  int(reply.CharFrom),
		CharTo:    int(reply.CharTo),
		Elapsed:   int(reply.Elapsed),
	}
	c.log.Debug("GetCurrentLyricsPosition: %+v", pos)
	return pos, nil
}

// Subscribe adds match rules for the daemon's two signals and forwards
// them, decoded, in arrival order. Signals that fail to decode are logged
// and dropped. The returned channel closes when ctx is done.
func (c *Client) Subscribe(ctx context.Context) (<-chan domain.Event, error) {
	for _, member := range []string{SignalSegmentChanged, SignalLyricsChanged} {
		err := c.conn.AddMatchSignalContext(ctx,
			dbus.WithMatchInterface(DaemonInterface),
			dbus.WithMatchMember(member),
		)
		if err != nil {
			return nil, fmt.Errorf("adding match for %s: %w", member, err)
		}
	}

	raw := make(chan *dbus.Signal, signalBuffer)
	c.conn.Signal(raw)

	out := make(chan domain.Event)
	go c.forward(ctx, raw, out)
	return out, nil
}

// forward decodes signals from raw onto out until ctx is done or godbus
// closes raw (connection lost).
func (c *Client) forward(ctx context.Context, raw chan *dbus.Signal, out chan<- domain.Event) {
	defer close(out)
	defer c.conn.RemoveSignal(raw)

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-raw:
			if !ok {
				c.log.Warn("signal channel closed by connection")
				return
			}
			ev, err := decodeSignal(sig)
			if err != nil {
				c.log.Warn("dropping signal: %v", err)
				continue
			}
			if ev == nil {
				continue // not ours
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
