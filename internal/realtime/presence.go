// Package realtime implements the authenticated notification channel: it
// owns connection lifecycles, tracks online presence, and routes targeted
// and broadcast notifications by role or user.
package realtime

import "sync"

// Presence is the live mapping of identity to active connection ids. It is
// a multimap: one user open in two tabs holds two entries under one
// identity. The registry serializes its own mutations; callers never lock.
type Presence struct {
	mu         sync.RWMutex
	byIdentity map[string]map[string]struct{}
}

func NewPresence() *Presence {
	return &Presence{byIdentity: make(map[string]map[string]struct{})}
}

// Add records a live connection for the identity.
func (p *Presence) Add(identityID, connectionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	conns, ok := p.byIdentity[identityID]
	if !ok {
		conns = make(map[string]struct{})
		p.byIdentity[identityID] = conns
	}
	conns[connectionID] = struct{}{}
}

// Remove drops one connection and prunes the identity entry when it was the
// last one. Removing an absent connection is a no-op, so disconnect cleanup
// stays idempotent.
func (p *Presence) Remove(identityID, connectionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	conns, ok := p.byIdentity[identityID]
	if !ok {
		return
	}
	delete(conns, connectionID)
	if len(conns) == 0 {
		delete(p.byIdentity, identityID)
	}
}

// CountDistinctIdentities counts identities with at least one live
// connection, not raw connections.
func (p *Presence) CountDistinctIdentities() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byIdentity)
}

// ConnectionsFor returns the live connection ids for an identity.
func (p *Presence) ConnectionsFor(identityID string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	conns := p.byIdentity[identityID]
	ids := make([]string, 0, len(conns))
	for id := range conns {
		ids = append(ids, id)
	}
	return ids
}
