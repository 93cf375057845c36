package suuid

import (
	"encoding/binary"
	"time"
)

// Fields is the RFC 4122 decomposition of a UUID. Each field is big-endian
// in the canonical byte layout:
//
//	time_low                  bytes 0-3
//	time_mid                  bytes 4-5
//	time_hi_and_version       bytes 6-7
//	clock_seq_hi_and_reserved byte  8
//	clock_seq_low             byte  9
//	node                      bytes 10-15
type Fields struct {
	TimeLow           uint32
	TimeMid           uint16
	TimeHiVersion     uint16
	ClockSeqHiVariant uint8
	ClockSeqLow       uint8
	Node              uint64 // 48 bits
}

const (
	maxNode     = 1<<48 - 1
	maxClockSeq = 1<<14 - 1
	maxTime     = 1<<60 - 1
)

// gregorianOffset is the number of 100-nanosecond intervals between the
// Gregorian reform (1582-10-15T00:00:00Z) and the Unix epoch.
const gregorianOffset = 0x01b21dd213814000

// Fields returns the six RFC 4122 fields of u.
func (u UUID) Fields() Fields {
	return Fields{
		TimeLow:           u.TimeLow(),
		TimeMid:           u.TimeMid(),
		TimeHiVersion:     u.TimeHiVersion(),
		ClockSeqHiVariant: u.ClockSeqHiVariant(),
		ClockSeqLow:       u.ClockSeqLow(),
		Node:              u.Node(),
	}
}

func (u UUID) TimeLow() uint32 {
	return binary.BigEndian.Uint32(u[0:4])
}

func (u UUID) TimeMid() uint16 {
	return binary.BigEndian.Uint16(u[4:6])
}

func (u UUID) TimeHiVersion() uint16 {
	return binary.BigEndian.Uint16(u[6:8])
}

func (u UUID) ClockSeqHiVariant() uint8 {
	return u[8]
}

func (u UUID) ClockSeqLow() uint8 {
	return u[9]
}

// Node returns the 48-bit node field.
func (u UUID) Node() uint64 {
	return uint64(u[10])<<40 |
		uint64(u[11])<<32 |
		uint64(u[12])<<24 |
		uint64(u[13])<<16 |
		uint64(u[14])<<8 |
		uint64(u[15])
}

// ClockSeq returns the 14-bit clock sequence.
func (u UUID) ClockSeq() uint16 {
	return uint16(u[8]&0x3f)<<8 | uint16(u[9])
}

// Timestamp returns the 60-bit timestamp field: the count of 100-nanosecond
// intervals since 1582-10-15 for a version 1 UUID. The value is computed for
// any UUID but only has a meaning for version 1.
func (u UUID) Timestamp() uint64 {
	return uint64(u.TimeHiVersion()&0x0fff)<<48 |
		uint64(u.TimeMid())<<32 |
		uint64(u.TimeLow())
}

// Time returns the timestamp of a version 1 UUID as a time.Time.
// The zero time is returned for any other version.
func (u UUID) Time() time.Time {
	if u.Version() != VersionTimeBased {
		return time.Time{}
	}
	return timeFromTimestamp(u.Timestamp())
}

func timeFromTimestamp(ts uint64) time.Time {
	unix100ns := int64(ts) - gregorianOffset
	return time.Unix(unix100ns/1e7, (unix100ns%1e7)*100).UTC()
}

// timestampFromTime converts t to 100-nanosecond intervals since 1582-10-15.
func timestampFromTime(t time.Time) uint64 {
	return (uint64(t.UnixNano()/100) + gregorianOffset) & maxTime
}
