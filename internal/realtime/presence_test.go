package realtime

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
)

func TestPresenceCountsDistinctIdentities(t *testing.T) {
	p := NewPresence()
	p.Add("u1", "c1")
	p.Add("u1", "c2")
	p.Add("u2", "c3")

	if got := p.CountDistinctIdentities(); got != 2 {
		t.Fatalf("expected 2 distinct identities, got %d", got)
	}

	p.Remove("u1", "c1")
	if got := p.CountDistinctIdentities(); got != 2 {
		t.Fatalf("u1 still has one connection, expected 2, got %d", got)
	}

	p.Remove("u1", "c2")
	if got := p.CountDistinctIdentities(); got != 1 {
		t.Fatalf("expected 1 after u1 fully gone, got %d", got)
	}
}

func TestPresenceRemoveAbsentIsNoOp(t *testing.T) {
	p := NewPresence()
	p.Add("u1", "c1")
	p.Remove("u1", "never-added")
	p.Remove("ghost", "c9")
	p.Remove("u1", "c1")
	p.Remove("u1", "c1") // second removal of the same connection

	if got := p.CountDistinctIdentities(); got != 0 {
		t.Fatalf("expected empty registry, got %d", got)
	}
}

func TestPresenceConnectionsFor(t *testing.T) {
	p := NewPresence()
	p.Add("u1", "c1")
	p.Add("u1", "c2")

	conns := p.ConnectionsFor("u1")
	if len(conns) != 2 {
		t.Fatalf("expected 2 connections, got %v", conns)
	}
	if len(p.ConnectionsFor("ghost")) != 0 {
		t.Fatal("expected no connections for unknown identity")
	}
}

// Random interleavings of add/remove across identities must keep the
// distinct count equal to the number of identities with open connections.
func TestPresenceRandomInterleavings(t *testing.T) {
	const identities = 8
	const connsPer = 4

	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		p := NewPresence()

		type op struct {
			identity, conn string
			add            bool
		}
		var ops []op
		for i := 0; i < identities; i++ {
			for c := 0; c < connsPer; c++ {
				identity := fmt.Sprintf("u%d", i)
				conn := fmt.Sprintf("u%d-c%d", i, c)
				ops = append(ops, op{identity, conn, true})
				if rnd.Intn(2) == 0 {
					ops = append(ops, op{identity, conn, false})
				}
			}
		}
		rnd.Shuffle(len(ops), func(i, j int) { ops[i], ops[j] = ops[j], ops[i] })

		open := make(map[string]map[string]bool)
		for _, o := range ops {
			if o.add {
				p.Add(o.identity, o.conn)
				if open[o.identity] == nil {
					open[o.identity] = make(map[string]bool)
				}
				open[o.identity][o.conn] = true
			} else {
				p.Remove(o.identity, o.conn)
				delete(open[o.identity], o.conn)
				if len(open[o.identity]) == 0 {
					delete(open, o.identity)
				}
			}
		}

		if got := p.CountDistinctIdentities(); got != len(open) {
			t.Fatalf("trial %d: expected %d identities online, got %d", trial, len(open), got)
		}
	}
}

func TestPresenceConcurrentAddRemove(t *testing.T) {
	p := NewPresence()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			identity := fmt.Sprintf("u%d", i%4)
			for c := 0; c < 100; c++ {
				conn := fmt.Sprintf("u%d-%d-%d", i%4, i, c)
				p.Add(identity, conn)
				p.Remove(identity, conn)
			}
		}(i)
	}
	wg.Wait()

	if got := p.CountDistinctIdentities(); got != 0 {
		t.Fatalf("expected empty registry after symmetric ops, got %d", got)
	}
}
