package suuid

import (
	"math/big"

	"github.com/pkg/errors"
)

// Source is one of the accepted construction forms: Hex, Bytes, BytesLE,
// Fields or Int. The set is closed.
type Source interface {
	decode() (UUID, error)
}

// Hex is a textual UUID, see Parse for the accepted decorations.
type Hex string

// Bytes holds 16 bytes in canonical big-endian order.
type Bytes []byte

// BytesLE holds 16 bytes in Microsoft GUID order.
type BytesLE []byte

// Int holds an unsigned integer below 2^128.
type Int struct {
	*big.Int
}

func (h Hex) decode() (UUID, error)     { return Parse(string(h)) }
func (b Bytes) decode() (UUID, error)   { return FromBytes(b) }
func (b BytesLE) decode() (UUID, error) { return FromBytesLE(b) }
func (f Fields) decode() (UUID, error)  { return FromFields(f) }
func (i Int) decode() (UUID, error)     { return FromInt(i.Int) }

type sourceOptions struct {
	version Version
}

// Option configures FromSource.
type Option func(*sourceOptions)

// WithVersion requires the constructed UUID to carry version v. The UUID is
// never rewritten; a UUID with a different version is rejected.
func WithVersion(v Version) Option {
	return func(o *sourceOptions) {
		o.version = v
	}
}

// FromSource builds a UUID from exactly one construction form.
func FromSource(src Source, opts ...Option) (UUID, error) {
	var o sourceOptions
	for _, opt := range opts {
		opt(&o)
	}
	if src == nil {
		return Nil, ErrArity
	}
	if o.version != VersionUnknown && o.version > VersionNameBasedSHA1 {
		return Nil, errors.Wrapf(ErrInvalidVersion, "version %d", o.version)
	}
	uuid, err := src.decode()
	if err != nil {
		return Nil, err
	}
	if o.version != VersionUnknown && uuid.Version() != o.version {
		return Nil, errors.Wrapf(ErrVersionMismatch, "%s has version %s, want %s", uuid, uuid.Version(), o.version)
	}
	return uuid, nil
}

// Config names every construction form as an optional field. Exactly one of
// Hex, Bytes, BytesLE, Fields or Int must be set; Version is an optional
// hint validated against the result.
type Config struct {
	Hex     *string  `json:"hex,omitempty" yaml:"hex,omitempty"`
	Bytes   []byte   `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	BytesLE []byte   `json:"bytes_le,omitempty" yaml:"bytes_le,omitempty"`
	Fields  *Fields  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Int     *big.Int `json:"int,omitempty" yaml:"-"`
	Version Version  `json:"version,omitempty" yaml:"version,omitempty"`
}

// Source returns the single construction form set in c.
func (c Config) Source() (Source, error) {
	var (
		src Source
		n   int
	)
	if c.Hex != nil {
		src, n = Hex(*c.Hex), n+1
	}
	if c.Bytes != nil {
		src, n = Bytes(c.Bytes), n+1
	}
	if c.BytesLE != nil {
		src, n = BytesLE(c.BytesLE), n+1
	}
	if c.Fields != nil {
		src, n = *c.Fields, n+1
	}
	if c.Int != nil {
		src, n = Int{c.Int}, n+1
	}
	if n != 1 {
		return nil, errors.Wrapf(ErrArity, "%d forms given", n)
	}
	return src, nil
}

// FromConfig builds a UUID from c, see Config.
func FromConfig(c Config) (UUID, error) {
	src, err := c.Source()
	if err != nil {
		return Nil, err
	}
	return FromSource(src, WithVersion(c.Version))
}
