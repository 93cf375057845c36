package suuid

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Generator is a thread-safe generator for version 1 and version 4 UUIDs.
// Version 1 UUIDs from one Generator never repeat: a timestamp that is not
// newer than the previous one is moved one tick past it.
//
// Each Generator draws its own random clock sequence, so two Generators in
// one process that share a node can collide on the same tick. Give them
// distinct nodes (WithNode) or the same StateStore, or use the package-level
// functions, which share one default Generator.
type Generator struct {
	mu            sync.Mutex
	lastTimestamp uint64
	clock         *ClockSequence
	nodes         *NodeResolver
	randReader    io.Reader
	now           func() time.Time

	store        StateStore
	saveInterval time.Duration
	storeTimeout time.Duration
	restored     bool
	saved        bool
	last         State

	// saveMu serializes store writes, which run without mu held.
	saveMu     sync.Mutex
	written    State
	hasWritten bool
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRandReader sets the source of randomness for version 4 UUIDs and for
// seeding the clock sequence. It is primarily useful for testing with
// deterministic random sources.
func WithRandReader(r io.Reader) GeneratorOption {
	return func(g *Generator) {
		g.randReader = r
	}
}

// WithClock sets the wall clock used for version 1 timestamps.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// WithNodeResolver replaces the process-wide node resolver.
func WithNodeResolver(r *NodeResolver) GeneratorOption {
	return func(g *Generator) {
		g.nodes = r
	}
}

// WithStateStore keeps the version 1 state in s across restarts.
func WithStateStore(s StateStore) GeneratorOption {
	return func(g *Generator) {
		g.store = s
	}
}

// WithSaveInterval bounds how often unchanged state is written to the store.
func WithSaveInterval(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.saveInterval = d
	}
}

// WithStoreTimeout bounds every state store call.
func WithStoreTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.storeTimeout = d
	}
}

// NewGenerator creates a new generator with crypto/rand as the random source
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		randReader:   rand.Reader,
		now:          time.Now,
		saveInterval: defaultSaveInterval,
		storeTimeout: defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.nodes == nil {
		g.nodes = defaultNodeResolver()
	}
	g.clock = NewClockSequence(g.randReader)
	return g
}

// NewGeneratorWithReader creates a new generator with a custom random source.
func NewGeneratorWithReader(r io.Reader) *Generator {
	return NewGenerator(WithRandReader(r))
}

type v1Options struct {
	node        uint64
	hasNode     bool
	clockSeq    uint16
	hasClockSeq bool
}

// V1Option overrides a field of a version 1 UUID.
type V1Option func(*v1Options)

// WithNode uses node instead of the resolved hardware address.
// node must fit in 48 bits.
func WithNode(node uint64) V1Option {
	return func(o *v1Options) {
		o.node, o.hasNode = node, true
	}
}

// WithClockSeq uses seq instead of the generator's clock sequence.
// seq must fit in 14 bits.
func WithClockSeq(seq uint16) V1Option {
	return func(o *v1Options) {
		o.clockSeq, o.hasClockSeq = seq, true
	}
}

// NewV1 generates a time-based UUID from the current time.
func (g *Generator) NewV1(opts ...V1Option) (UUID, error) {
	return g.NewV1WithTime(g.now(), opts...)
}

// NewV1WithTime generates a time-based UUID for t.
func (g *Generator) NewV1WithTime(t time.Time, opts ...V1Option) (UUID, error) {
	var o v1Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasNode && o.node > maxNode {
		return Nil, errors.Wrapf(ErrOutOfRange, "node %#x does not fit in 48 bits", o.node)
	}
	if o.hasClockSeq && o.clockSeq > maxClockSeq {
		return Nil, errors.Wrapf(ErrOutOfRange, "clock sequence %#x does not fit in 14 bits", o.clockSeq)
	}

	node := o.node
	if !o.hasNode {
		node = g.nodes.Node()
	}
	timestamp := timestampFromTime(t)

	g.mu.Lock()
	if !g.restored {
		g.restoreLocked(node, timestamp)
	}

	if timestamp <= g.lastTimestamp {
		if g.lastTimestamp-timestamp > 1e7 {
			log.Warnf("clock moved backwards by %s", time.Duration(g.lastTimestamp-timestamp)*100)
		}
		timestamp = g.lastTimestamp + 1
	}

	seq, err := g.clock.Value()
	if err != nil {
		g.mu.Unlock()
		return Nil, err
	}
	g.lastTimestamp = timestamp
	st := State{Timestamp: timestamp, ClockSeq: seq, Node: node}
	due := g.persistLocked(st)
	g.mu.Unlock()

	if due {
		g.save(st)
	}
	if o.hasClockSeq {
		seq = o.clockSeq
	}

	return FromFields(Fields{
		TimeLow:           uint32(timestamp),
		TimeMid:           uint16(timestamp >> 32),
		TimeHiVersion:     uint16(timestamp>>48)&0x0fff | uint16(VersionTimeBased)<<12,
		ClockSeqHiVariant: uint8(seq>>8)&0x3f | 0x80,
		ClockSeqLow:       uint8(seq),
		Node:              node,
	})
}

// NewV4 generates a random UUID.
func (g *Generator) NewV4() (UUID, error) {
	var uuid UUID
	if _, err := io.ReadFull(g.randReader, uuid[:]); err != nil {
		return Nil, err
	}
	setVersion(&uuid, VersionRandom)
	return uuid, nil
}

// setVersion overwrites the version nibble and the RFC 4122 variant bits.
func setVersion(u *UUID, v Version) {
	u[6] = (u[6] & 0x0f) | byte(v)<<4
	u[8] = (u[8] & 0x3f) | 0x80
}

// Must is a helper that wraps a call to a function returning (UUID, error)
// and panics if the error is non-nil. It is intended for use in variable
// initializations such as:
//
//	var id = suuid.Must(suuid.NewV4())
func Must(uuid UUID, err error) UUID {
	if err != nil {
		panic(err)
	}
	return uuid
}

// defaultGenerator is the package-level generator used by the New* functions
var defaultGenerator = sync.OnceValue(func() *Generator {
	return NewGenerator()
})

// New generates a random (version 4) UUID using the default generator.
func New() (UUID, error) {
	return defaultGenerator().NewV4()
}

// NewV1 generates a time-based UUID using the default generator.
func NewV1(opts ...V1Option) (UUID, error) {
	return defaultGenerator().NewV1(opts...)
}

// NewV4 generates a random UUID using the default generator.
func NewV4() (UUID, error) {
	return defaultGenerator().NewV4()
}
