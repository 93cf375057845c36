package suuid

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// ClockSequence is the 14-bit clock sequence of version 1 UUIDs. It is
// seeded from a random source on first use unless Reset first.
type ClockSequence struct {
	mu         sync.Mutex
	randReader io.Reader
	seeded     bool
	seq        uint16
}

// NewClockSequence returns a clock sequence seeded from r, or from
// crypto/rand when r is nil.
func NewClockSequence(r io.Reader) *ClockSequence {
	if r == nil {
		r = rand.Reader
	}
	return &ClockSequence{randReader: r}
}

// Value returns the current clock sequence.
func (c *ClockSequence) Value() (uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.seedLocked(); err != nil {
		return 0, err
	}
	return c.seq, nil
}

// Advance increments the clock sequence modulo 2^14 and returns the new value.
func (c *ClockSequence) Advance() (uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.seedLocked(); err != nil {
		return 0, err
	}
	c.seq = (c.seq + 1) & maxClockSeq
	return c.seq, nil
}

// Reset sets the clock sequence. seq must fit in 14 bits.
func (c *ClockSequence) Reset(seq uint16) error {
	if seq > maxClockSeq {
		return errors.Wrapf(ErrOutOfRange, "clock sequence %#x does not fit in 14 bits", seq)
	}
	c.mu.Lock()
	c.seq, c.seeded = seq, true
	c.mu.Unlock()
	return nil
}

// Reseed draws a new random clock sequence.
func (c *ClockSequence) Reseed() (uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seeded = false
	if err := c.seedLocked(); err != nil {
		return 0, err
	}
	return c.seq, nil
}

func (c *ClockSequence) seedLocked() error {
	if c.seeded {
		return nil
	}
	var b [2]byte
	if _, err := io.ReadFull(c.randReader, b[:]); err != nil {
		return errors.Wrap(err, "seed clock sequence")
	}
	c.seq = binary.BigEndian.Uint16(b[:]) & maxClockSeq
	c.seeded = true
	return nil
}
