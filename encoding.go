package suuid

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"
)

// Hex encodes the UUID as 32 lowercase hex digits without hyphens
func (u UUID) Hex() string {
	return hex.EncodeToString(u[:])
}

// EncodeToBase64 encodes the UUID to a base64 string (URL-safe, no padding)
func (u UUID) EncodeToBase64() string {
	return base64.RawURLEncoding.EncodeToString(u[:])
}

// EncodeToBase64Std encodes the UUID to a standard base64 string
func (u UUID) EncodeToBase64Std() string {
	return base64.StdEncoding.EncodeToString(u[:])
}

// DecodeFromHex decodes exactly 32 hex digits to UUID
func DecodeFromHex(s string) (UUID, error) {
	var uuid UUID
	if len(s) != 32 {
		return uuid, errors.Wrapf(ErrInvalidFormat, "%d hex digits, want 32", len(s))
	}
	if _, err := hex.Decode(uuid[:], []byte(s)); err != nil {
		return Nil, errors.Wrapf(ErrInvalidFormat, "%q: %v", s, err)
	}
	return uuid, nil
}

// DecodeFromBase64 decodes a base64 string to UUID (URL-safe encoding)
func DecodeFromBase64(s string) (UUID, error) {
	var uuid UUID
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return uuid, ErrInvalidFormat
	}
	return FromBytes(data)
}

// DecodeFromBase64Std decodes a standard base64 string to UUID
func DecodeFromBase64Std(s string) (UUID, error) {
	var uuid UUID
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return uuid, ErrInvalidFormat
	}
	return FromBytes(data)
}

// FromBytes creates a UUID from 16 big-endian bytes
func FromBytes(b []byte) (UUID, error) {
	var uuid UUID
	if len(b) != 16 {
		return uuid, ErrInvalidLength
	}
	copy(uuid[:], b)
	return uuid, nil
}

// MustFromBytes is like FromBytes but panics on error
func MustFromBytes(b []byte) UUID {
	uuid, err := FromBytes(b)
	if err != nil {
		panic(err)
	}
	return uuid
}

// BytesLE returns the UUID in Microsoft GUID byte order: time_low, time_mid
// and time_hi_and_version are little-endian, the last 8 bytes are unchanged.
func (u UUID) BytesLE() []byte {
	b := make([]byte, 16)
	swapLE(b, u[:])
	return b
}

// FromBytesLE creates a UUID from 16 bytes in Microsoft GUID byte order.
func FromBytesLE(b []byte) (UUID, error) {
	var uuid UUID
	if len(b) != 16 {
		return uuid, ErrInvalidLength
	}
	swapLE(uuid[:], b)
	return uuid, nil
}

// swapLE converts between canonical and mixed-endian layouts. The
// transform is its own inverse.
func swapLE(dst, src []byte) {
	dst[0], dst[1], dst[2], dst[3] = src[3], src[2], src[1], src[0]
	dst[4], dst[5] = src[5], src[4]
	dst[6], dst[7] = src[7], src[6]
	copy(dst[8:16], src[8:16])
}

// FromFields packs the six RFC 4122 fields. Node must fit in 48 bits.
func FromFields(f Fields) (UUID, error) {
	var uuid UUID
	if f.Node > maxNode {
		return uuid, errors.Wrapf(ErrOutOfRange, "node %#x does not fit in 48 bits", f.Node)
	}
	binary.BigEndian.PutUint32(uuid[0:4], f.TimeLow)
	binary.BigEndian.PutUint16(uuid[4:6], f.TimeMid)
	binary.BigEndian.PutUint16(uuid[6:8], f.TimeHiVersion)
	uuid[8] = f.ClockSeqHiVariant
	uuid[9] = f.ClockSeqLow
	putNode(uuid[10:16], f.Node)
	return uuid, nil
}

func putNode(dst []byte, node uint64) {
	dst[0] = byte(node >> 40)
	dst[1] = byte(node >> 32)
	dst[2] = byte(node >> 24)
	dst[3] = byte(node >> 16)
	dst[4] = byte(node >> 8)
	dst[5] = byte(node)
}

// FromUint128 builds a UUID from an unsigned 128-bit integer split into its
// high and low 64-bit halves. hi becomes bytes 0-7 and lo bytes 8-15, both
// big-endian.
func FromUint128(hi, lo uint64) UUID {
	var uuid UUID
	binary.BigEndian.PutUint64(uuid[0:8], hi)
	binary.BigEndian.PutUint64(uuid[8:16], lo)
	return uuid
}

// Uint128 returns the UUID as an unsigned 128-bit integer split into its
// high and low 64-bit halves, the inverse of FromUint128.
func (u UUID) Uint128() (hi, lo uint64) {
	return binary.BigEndian.Uint64(u[0:8]), binary.BigEndian.Uint64(u[8:16])
}

// FromInt builds a UUID from a non-negative integer below 2^128.
func FromInt(n *big.Int) (UUID, error) {
	var uuid UUID
	if n == nil || n.Sign() < 0 || n.BitLen() > 128 {
		return uuid, errors.Wrapf(ErrOutOfRange, "integer %v does not fit in 128 unsigned bits", n)
	}
	n.FillBytes(uuid[:])
	return uuid, nil
}

// Int returns the UUID as a big-endian unsigned integer.
func (u UUID) Int() *big.Int {
	return new(big.Int).SetBytes(u[:])
}
