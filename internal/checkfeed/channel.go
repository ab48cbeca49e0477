// Package checkfeed implements the live progress feed for one check task:
// a reconnecting WebSocket channel, a one-shot status poll, and the tracker
// that merges both into a single authoritative task state.
package checkfeed

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ConnState describes the duplex channel's connection lifecycle. It is kept
// apart from the task status: a dropped channel is not a failed task.
type ConnState string

const (
	StateConnecting   ConnState = "connecting"
	StateOpen         ConnState = "open"
	StateReconnecting ConnState = "reconnecting"
	StateClosed       ConnState = "closed"
	StateExhausted    ConnState = "exhausted"
)

// Default reconnection policy: a fixed number of attempts at a fixed
// interval. Constant rather than exponential on purpose; the feed is a
// low-frequency progress stream and predictable recovery matters more than
// load shedding.
const (
	DefaultReconnectAttempts = 5
	DefaultReconnectInterval = 3 * time.Second
)

// Feed delivers live task updates and connection state transitions. Start
// registers the callbacks and begins connecting; Close tears the feed down
// and is idempotent.
type Feed interface {
	Start(onUpdate func(StatusUpdate), onState func(ConnState))
	Close()
}

// Channel is a Feed over a WebSocket scoped to one task id. On an unexpected
// close it reconnects up to a bounded attempt count; the attempt counter is
// owned state of the channel and resets to zero on every successful connect.
type Channel struct {
	url    string
	dialer *websocket.Dialer
	log    *logrus.Logger

	maxAttempts int
	policy      *backoff.ConstantBackOff

	onUpdate func(StatusUpdate)
	onState  func(ConnState)

	mu      sync.Mutex
	state   ConnState
	conn    *websocket.Conn
	attempt int
	timer   *time.Timer
	closed  bool
}

// ChannelOption configures a Channel.
type ChannelOption func(*Channel)

// WithReconnectPolicy overrides the attempt bound and delay between attempts.
func WithReconnectPolicy(attempts int, interval time.Duration) ChannelOption {
	return func(c *Channel) {
		c.maxAttempts = attempts
		c.policy = backoff.NewConstantBackOff(interval)
	}
}

// WithChannelLogger sets the logger for connection lifecycle events.
func WithChannelLogger(log *logrus.Logger) ChannelOption {
	return func(c *Channel) { c.log = log }
}

// WithDialer overrides the WebSocket dialer, mainly for tests.
func WithDialer(d *websocket.Dialer) ChannelOption {
	return func(c *Channel) { c.dialer = d }
}

// NewChannel creates a channel for the given task. The session token rides
// as a query parameter; an expired token is refused by the server and shows
// up through the ordinary close/reconnect path, not as a special case.
func NewChannel(wsBaseURL, taskID, token string, opts ...ChannelOption) *Channel {
	c := &Channel{
		url:         fmt.Sprintf("%s/check/%s?token=%s", wsBaseURL, taskID, url.QueryEscape(token)),
		dialer:      websocket.DefaultDialer,
		log:         logrus.New(),
		maxAttempts: DefaultReconnectAttempts,
		policy:      backoff.NewConstantBackOff(DefaultReconnectInterval),
		state:       StateConnecting,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins connecting in the background. Callbacks fire from the
// channel's own goroutines; they must not block for long.
func (c *Channel) Start(onUpdate func(StatusUpdate), onState func(ConnState)) {
	c.onUpdate = onUpdate
	c.onState = onState
	c.setState(StateConnecting)
	go c.connect()
}

// State returns the current connection state.
func (c *Channel) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns the current reconnect attempt counter.
func (c *Channel) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempt
}

// Close tears the connection down and cancels any pending reconnect timer.
// Safe to call from any state, any number of times.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	c.setState(StateClosed)
}

// setState records a transition and notifies the listener. The callback runs
// without the lock held so it may call back into the channel.
func (c *Channel) setState(s ConnState) {
	c.mu.Lock()
	if c.state == s || (c.closed && s != StateClosed) {
		c.mu.Unlock()
		return
	}
	c.state = s
	cb := c.onState
	c.mu.Unlock()

	c.log.WithField("state", s).Debug("channel state change")
	if cb != nil {
		cb(s)
	}
}

func (c *Channel) connect() {
	conn, resp, err := c.dialer.Dial(c.url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.log.WithError(err).Debug("channel dial failed")
		c.scheduleReconnect()
		return
	}
	c.conn = conn
	c.attempt = 0
	c.policy.Reset()
	c.mu.Unlock()

	c.setState(StateOpen)
	c.readLoop(conn)
}

// readLoop reads frames until the connection drops. A frame that fails to
// decode is logged and dropped; it never reaches the tracker and never kills
// the loop.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			c.mu.Lock()
			closed := c.closed
			c.conn = nil
			c.mu.Unlock()
			if closed {
				return
			}
			c.log.WithError(err).Debug("channel read failed")
			c.scheduleReconnect()
			return
		}

		update, err := DecodeUpdate(data)
		if err != nil {
			c.log.WithError(err).Warn("dropping malformed frame")
			continue
		}
		if update.Empty() {
			continue
		}
		if c.onUpdate != nil {
			c.onUpdate(*update)
		}
	}
}

// scheduleReconnect arms the next reconnect attempt, or gives up once the
// bound is reached.
func (c *Channel) scheduleReconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.attempt >= c.maxAttempts {
		c.mu.Unlock()
		c.log.Warn("reconnect attempts exhausted")
		c.setState(StateExhausted)
		return
	}
	c.attempt++
	attempt := c.attempt
	delay := c.policy.NextBackOff()
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"attempt": attempt,
		"max":     c.maxAttempts,
	}).Debug("scheduling reconnect")

	// The reconnecting state must be observable before the retry can race
	// it to open; arm the timer only afterwards.
	c.setState(StateReconnecting)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.timer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.timer = nil
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}
		c.connect()
	})
	c.mu.Unlock()
}
