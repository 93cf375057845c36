package suuid

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// UUID represents a Universally Unique Identifier as defined by RFC 4122.
// The UUID is a 128-bit (16 byte) value stored in network (big-endian) byte order.
type UUID [16]byte

// Version represents the UUID version
type Version byte

const (
	VersionUnknown Version = iota
	VersionTimeBased
	VersionDCESecurity
	VersionNameBasedMD5
	VersionRandom
	VersionNameBasedSHA1
)

// String returns the version number, or "unknown" for VersionUnknown.
func (v Version) String() string {
	if v == VersionUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%d", byte(v))
}

// Variant represents the UUID variant
type Variant byte

const (
	VariantNCS Variant = iota
	VariantRFC4122
	VariantMicrosoft
	VariantFuture
)

// Variant labels.
const (
	RFC4122           = "RFC4122"
	ReservedNCS       = "reserved for NCS compatibility"
	ReservedMicrosoft = "reserved for Microsoft compatibility"
	ReservedFuture    = "reserved for future definition"
)

func (v Variant) String() string {
	switch v {
	case VariantNCS:
		return ReservedNCS
	case VariantRFC4122:
		return RFC4122
	case VariantMicrosoft:
		return ReservedMicrosoft
	default:
		return ReservedFuture
	}
}

// Nil is the nil UUID (all zeros)
var Nil UUID

// Version returns the version of the UUID. The version nibble only has a
// meaning for the RFC 4122 variant; VersionUnknown is returned otherwise.
func (u UUID) Version() Version {
	if u.Variant() != VariantRFC4122 {
		return VersionUnknown
	}
	return Version(u[6] >> 4)
}

// Variant returns the variant of the UUID
func (u UUID) Variant() Variant {
	switch {
	case (u[8] & 0x80) == 0x00:
		return VariantNCS
	case (u[8] & 0xc0) == 0x80:
		return VariantRFC4122
	case (u[8] & 0xe0) == 0xc0:
		return VariantMicrosoft
	default:
		return VariantFuture
	}
}

// String returns the canonical string representation of the UUID
// in the format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	var buf [36]byte
	encodeHex(buf[:], u)
	return string(buf[:])
}

// URN returns the RFC 4122 URN form: urn:uuid:xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) URN() string {
	var buf [45]byte
	copy(buf[:], "urn:uuid:")
	encodeHex(buf[9:], u)
	return string(buf[:])
}

// GoString implements fmt.GoStringer.
func (u UUID) GoString() string {
	return fmt.Sprintf("suuid.MustParse(%q)", u.String())
}

// encodeHex encodes UUID to its canonical hex representation
func encodeHex(dst []byte, u UUID) {
	hex.Encode(dst[0:8], u[0:4])
	dst[8] = '-'
	hex.Encode(dst[9:13], u[4:6])
	dst[13] = '-'
	hex.Encode(dst[14:18], u[6:8])
	dst[18] = '-'
	hex.Encode(dst[19:23], u[8:10])
	dst[23] = '-'
	hex.Encode(dst[24:36], u[10:16])
}

// Parse parses a UUID from its string representation.
// The "urn:" and "uuid:" prefixes and enclosing braces are stripped and
// every hyphen is dropped; exactly 32 hex digits must remain. Accepted
// formats include:
//   - xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx (canonical)
//   - urn:uuid:xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
//   - {xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}
//   - xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx (without hyphens)
func Parse(s string) (UUID, error) {
	var uuid UUID

	s = strings.TrimPrefix(s, "urn:")
	s = strings.TrimPrefix(s, "uuid:")
	s = strings.Trim(s, "{}")

	var digits [32]byte
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '-' {
			continue
		}
		if n == len(digits) {
			return uuid, errors.Wrapf(ErrInvalidFormat, "more than 32 hex digits in %q", s)
		}
		digits[n] = s[i]
		n++
	}
	if n != len(digits) {
		return uuid, errors.Wrapf(ErrInvalidFormat, "%d hex digits in %q, want 32", n, s)
	}
	if _, err := hex.Decode(uuid[:], digits[:]); err != nil {
		return Nil, errors.Wrapf(ErrInvalidFormat, "%q: %v", s, err)
	}
	return uuid, nil
}

// MustParse is like Parse but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(s string) UUID {
	uuid, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("suuid: Parse(%q): %v", s, err))
	}
	return uuid
}

// Bytes returns the UUID as a byte slice in big-endian order
func (u UUID) Bytes() []byte {
	return u[:]
}

// IsNil returns true if the UUID is the nil UUID (all zeros)
func (u UUID) IsNil() bool {
	return u == Nil
}

// MarshalText implements the encoding.TextMarshaler interface
func (u UUID) MarshalText() ([]byte, error) {
	var buf [36]byte
	encodeHex(buf[:], u)
	return buf[:], nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (u *UUID) UnmarshalText(data []byte) error {
	id, err := Parse(string(data))
	if err != nil {
		return err
	}
	*u = id
	return nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (u UUID) MarshalBinary() ([]byte, error) {
	return u[:], nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (u *UUID) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return ErrInvalidLength
	}
	copy(u[:], data)
	return nil
}

// Scan implements the sql.Scanner interface for database compatibility
func (u *UUID) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		return nil
	case string:
		id, err := Parse(src)
		if err != nil {
			return err
		}
		*u = id
		return nil
	case []byte:
		if len(src) == 16 {
			copy(u[:], src)
			return nil
		}
		if len(src) == 0 {
			return nil
		}
		id, err := Parse(string(src))
		if err != nil {
			return err
		}
		*u = id
		return nil
	default:
		return fmt.Errorf("suuid: cannot scan type %T into UUID", src)
	}
}

// Value implements the driver.Valuer interface for database compatibility
func (u UUID) Value() (driver.Value, error) {
	return u.String(), nil
}

// Compare returns an integer comparing two UUIDs lexicographically.
// The result will be 0 if u==other, -1 if u < other, and +1 if u > other.
// Byte-wise comparison is the same as comparing the unsigned 128-bit values.
func (u UUID) Compare(other UUID) int {
	for i := 0; i < 16; i++ {
		if u[i] < other[i] {
			return -1
		}
		if u[i] > other[i] {
			return 1
		}
	}
	return 0
}

// Less reports whether u sorts before other.
func (u UUID) Less(other UUID) bool {
	return u.Compare(other) < 0
}

// Equal returns true if u and other represent the same UUID
func (u UUID) Equal(other UUID) bool {
	return u == other
}

// Hash returns a 64-bit hash of the canonical bytes.
// Equal UUIDs always hash equally.
func (u UUID) Hash() uint64 {
	return xxhash.Sum64(u[:])
}
