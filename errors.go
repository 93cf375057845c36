package suuid

import "github.com/pkg/errors"

var (
	// ErrInvalidFormat indicates that the UUID string format is invalid
	ErrInvalidFormat = errors.New("suuid: invalid UUID format")

	// ErrInvalidLength indicates that the UUID byte slice has incorrect length
	ErrInvalidLength = errors.WithMessage(ErrInvalidFormat, "invalid UUID length (expected 16 bytes)")

	// ErrVersionMismatch indicates that a constructed UUID does not carry the requested version
	ErrVersionMismatch = errors.WithMessage(ErrInvalidFormat, "UUID version does not match the requested version")

	// ErrOutOfRange indicates that a numeric input does not fit its field
	ErrOutOfRange = errors.New("suuid: value out of range")

	// ErrInvalidVersion indicates that the requested version is not one of 1..5
	ErrInvalidVersion = errors.WithMessage(ErrOutOfRange, "invalid or unsupported UUID version")

	// ErrArity indicates that zero or more than one construction form was supplied
	ErrArity = errors.New("suuid: exactly one of hex, bytes, bytes_le, fields or int must be given")

	// ErrNodeUnavailable indicates that no usable hardware address was found.
	// NewV1 recovers from it with a random multicast node and never returns it.
	ErrNodeUnavailable = errors.New("suuid: no usable hardware address")
)
