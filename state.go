package suuid

import (
	"context"
	"time"
)

// State is the version 1 generator state kept in stable storage so that a
// restarted process does not reuse a clock sequence (RFC 4122 §4.2.1).
type State struct {
	Timestamp uint64 // last 60-bit timestamp handed out
	ClockSeq  uint16
	Node      uint64
}

// StateStore persists State between runs. Load reports false when nothing
// has been stored yet.
type StateStore interface {
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, st State) error
}

const (
	defaultSaveInterval = time.Second
	defaultStoreTimeout = 2 * time.Second
)

// restoreLocked seeds the clock sequence from stored state. It runs once,
// before the first version 1 UUID.
func (g *Generator) restoreLocked(node, timestamp uint64) {
	g.restored = true
	if g.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.storeTimeout)
	defer cancel()

	st, ok, err := g.store.Load(ctx)
	if err != nil {
		log.Warnf("load v1 state: %v", err)
		return
	}
	if !ok {
		return
	}

	// Saves are throttled, so timestamps up to one save interval past the
	// stored one may have been handed out with the stored clock sequence.
	window := uint64(g.saveInterval / 100)

	switch {
	case st.Node != node:
		log.Infof("node changed from %012x to %012x, using a fresh clock sequence", st.Node, node)
	case st.ClockSeq > maxClockSeq:
		log.Warnf("stored clock sequence %#x out of range, ignored", st.ClockSeq)
	case st.Timestamp+window >= timestamp:
		log.Warnf("stored timestamp %d within %s of now (%d), advancing clock sequence",
			st.Timestamp, g.saveInterval, timestamp)
		_ = g.clock.Reset(st.ClockSeq)
		if _, err := g.clock.Advance(); err != nil {
			log.Warnf("advance clock sequence: %v", err)
		}
		g.lastTimestamp = st.Timestamp
	default:
		_ = g.clock.Reset(st.ClockSeq)
		g.lastTimestamp = st.Timestamp
	}
}

// persistLocked reports whether st is due for a write: the clock sequence
// or node changed, or SaveInterval has elapsed since the last write. The
// write itself happens in save, after g.mu is released.
func (g *Generator) persistLocked(st State) bool {
	if g.store == nil {
		return false
	}
	interval := uint64(g.saveInterval / 100)
	if g.saved && st.ClockSeq == g.last.ClockSeq && st.Node == g.last.Node &&
		st.Timestamp < g.last.Timestamp+interval {
		return false
	}
	g.last, g.saved = st, true
	return true
}

// save writes st to the store. Writes are serialized, and one that would
// replace a newer state for the same node and clock sequence is dropped.
func (g *Generator) save(st State) {
	g.saveMu.Lock()
	defer g.saveMu.Unlock()

	w := g.written
	if g.hasWritten && st.Node == w.Node && st.ClockSeq == w.ClockSeq && st.Timestamp <= w.Timestamp {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.storeTimeout)
	defer cancel()

	if err := g.store.Save(ctx, st); err != nil {
		log.Warnf("save v1 state: %v", err)
		g.mu.Lock()
		g.saved = false
		g.mu.Unlock()
		return
	}
	g.written, g.hasWritten = st, true
}
