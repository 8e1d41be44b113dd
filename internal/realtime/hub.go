package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-portal/internal/domain"
)

// IdentityVerifier authenticates a bearer credential during the handshake.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (domain.Identity, error)
}

// Logger is the structured event sink the hub reports lifecycle and
// delivery outcomes to. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// Hub owns every live connection. It runs the per-connection state machine
// (handshaking, authenticated, active, closed), keeps the presence registry
// and group membership consistent, and provides the delivery primitives the
// notification router builds on. Construct one per process and inject it;
// there is no package-level instance.
type Hub struct {
	verifier IdentityVerifier
	presence *Presence
	log      Logger
	now      func() time.Time

	mu     sync.RWMutex
	conns  map[string]*Conn
	groups map[string]map[string]*Conn
	closed bool
}

func NewHub(verifier IdentityVerifier, log Logger) *Hub {
	return &Hub{
		verifier: verifier,
		presence: NewPresence(),
		log:      log,
		now:      time.Now,
		conns:    make(map[string]*Conn),
		groups:   make(map[string]map[string]*Conn),
	}
}

// Presence exposes the registry for read-side consumers.
func (h *Hub) Presence() *Presence {
	return h.presence
}

// Connect runs the handshake for a new transport session: verify the
// credential, register presence and groups, acknowledge the connection, and
// broadcast the online count. On any authentication failure the transport
// is closed before it ever reaches the active state.
func (h *Hub) Connect(ctx context.Context, credential string, transport Transport) (*Conn, error) {
	conn := newConn(uuid.NewString(), transport)

	// The connection stays in handshaking while verification blocks on the
	// user store. A concurrent transport close converges on closed via the
	// idempotent cleanup below.
	identity, err := h.verifier.Verify(ctx, credential)
	if err != nil {
		conn.close()
		h.log.Printf("ws auth rejected: %v", err)
		return nil, err
	}
	conn.authenticate(identity)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.close()
		return nil, context.Canceled
	}
	h.conns[conn.ID] = conn
	for _, group := range conn.Groups() {
		members, ok := h.groups[group]
		if !ok {
			members = make(map[string]*Conn)
			h.groups[group] = members
		}
		members[conn.ID] = conn
	}
	conn.setState(StateActive)
	// Presence must land while the registration lock is held, otherwise a
	// concurrent Shutdown could disconnect this conn before the Add and
	// leave a phantom entry behind.
	h.presence.Add(identity.ID, conn.ID)
	h.mu.Unlock()

	go conn.writePump(h.Disconnect)

	conn.Send(Event{Type: EventConnected, Payload: connectedPayload{
		Message:      "connected to notification service",
		UserID:       identity.ID,
		Role:         identity.Role,
		ConnectionID: conn.ID,
		Timestamp:    h.now(),
	}})
	h.broadcastOnlineCount()
	h.log.Printf("ws connected: user=%s role=%s conn=%s", identity.ID, identity.Role, conn.ID)
	return conn, nil
}

// Disconnect removes one connection and broadcasts the new online count.
// Safe to call more than once for the same connection; other live
// connections of the same identity stay registered.
func (h *Hub) Disconnect(conn *Conn) {
	if conn == nil {
		return
	}

	h.mu.Lock()
	_, registered := h.conns[conn.ID]
	if registered {
		delete(h.conns, conn.ID)
		for _, group := range conn.Groups() {
			if members, ok := h.groups[group]; ok {
				delete(members, conn.ID)
				if len(members) == 0 {
					delete(h.groups, group)
				}
			}
		}
	}
	h.mu.Unlock()

	identity := conn.Identity()
	h.presence.Remove(identity.ID, conn.ID)
	conn.close()

	if registered {
		h.broadcastOnlineCount()
		h.log.Printf("ws disconnected: user=%s conn=%s", identity.ID, conn.ID)
	}
}

// HandlePing answers a liveness probe on an active connection.
func (h *Hub) HandlePing(conn *Conn) {
	conn.Send(Event{Type: EventPong, Payload: pongPayload{
		Name:      conn.Identity().DisplayName,
		Timestamp: h.now(),
	}})
}

// sendToGroup fans an event out to every member of a routing group and
// reports how many connections it reached.
func (h *Hub) sendToGroup(group string, event Event) int {
	h.mu.RLock()
	members := make([]*Conn, 0, len(h.groups[group]))
	for _, conn := range h.groups[group] {
		members = append(members, conn)
	}
	h.mu.RUnlock()

	for _, conn := range members {
		conn.Send(event)
	}
	return len(members)
}

// broadcast fans an event out to every active connection.
func (h *Hub) broadcast(event Event) int {
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.Send(event)
	}
	return len(conns)
}

func (h *Hub) broadcastOnlineCount() {
	h.broadcast(Event{Type: EventOnlineCount, Payload: onlineCountPayload{
		Count: h.presence.CountDistinctIdentities(),
	}})
}

// OnlineCount reports the number of distinct identities currently online.
func (h *Hub) OnlineCount() int {
	return h.presence.CountDistinctIdentities()
}

// Shutdown closes every connection and refuses new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*Conn, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		h.Disconnect(conn)
	}
}
