package realtime

import (
	"sync"
	"time"

	"quiz-portal/internal/domain"
)

// ConnState is the per-connection lifecycle state.
type ConnState int32

const (
	StateHandshaking ConnState = iota
	StateAuthenticated
	StateActive
	StateClosed
)

// Transport is the bidirectional message channel behind a connection. A
// gorilla websocket connection satisfies it; tests supply fakes.
type Transport interface {
	WriteJSON(v any) error
	Close() error
}

// Event is the wire envelope for server-to-client messages.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Server-to-client event types.
const (
	EventConnected    = "connected"
	EventOnlineCount  = "online_users_count"
	EventNotification = "notification"
	EventPong         = "pong"
)

// connectedPayload is the one-time acknowledgement after authentication.
type connectedPayload struct {
	Message      string      `json:"message"`
	UserID       string      `json:"userId"`
	Role         domain.Role `json:"role"`
	ConnectionID string      `json:"connectionId"`
	Timestamp    time.Time   `json:"timestamp"`
}

type onlineCountPayload struct {
	Count int `json:"count"`
}

type pongPayload struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// Conn is a typed record for one live transport session. Identity and group
// membership are fixed at the authenticated transition; the raw transport
// handle is never mutated.
type Conn struct {
	ID       string
	identity domain.Identity

	transport Transport
	send      chan Event
	done      chan struct{}

	mu    sync.Mutex
	state ConnState

	closeOnce sync.Once
}

func newConn(id string, transport Transport) *Conn {
	return &Conn{
		ID:        id,
		transport: transport,
		send:      make(chan Event, 32),
		done:      make(chan struct{}),
		state:     StateHandshaking,
	}
}

// Identity returns the identity snapshotted at authentication time.
func (c *Conn) Identity() domain.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// State returns the current lifecycle state.
func (c *Conn) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conn) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Conn) authenticate(identity domain.Identity) {
	c.mu.Lock()
	c.identity = identity
	c.state = StateAuthenticated
	c.mu.Unlock()
}

// Groups returns the routing groups this connection belongs to.
func (c *Conn) Groups() []string {
	identity := c.Identity()
	return []string{RoleGroup(identity.Role), UserGroup(identity.ID)}
}

// Send enqueues an event without blocking. Delivery is fire-and-forget: a
// full buffer or a closed connection drops the event.
func (c *Conn) Send(event Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// writePump drains the send queue onto the transport. One goroutine per
// connection keeps transport writes serialized.
func (c *Conn) writePump(onError func(*Conn)) {
	for {
		select {
		case event := <-c.send:
			if err := c.transport.WriteJSON(event); err != nil {
				onError(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// close tears the transport down exactly once.
func (c *Conn) close() {
	c.closeOnce.Do(func() {
		c.setState(StateClosed)
		close(c.done)
		_ = c.transport.Close()
	})
}

// RoleGroup names the routing group holding every connection of a role.
func RoleGroup(role domain.Role) string {
	return "role:" + string(role)
}

// UserGroup names the routing group holding every connection of one user.
func UserGroup(identityID string) string {
	return "user:" + identityID
}
