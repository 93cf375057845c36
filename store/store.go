// Package store holds what the suuid.StateStore backends share: the
// persisted record format and the default state name.
//
// Backends live in sub-packages:
//
//	filestore   embedded buntdb file on the local disk
//	sqlstore    MySQL or SQLite table
//	zkstore     ZooKeeper znode, optionally mirrored to a local store
//	redisstore  Redis key
package store

import (
	"time"

	"github.com/Lzww0608/suuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// DefaultName identifies the generator state when the caller gives no name.
const DefaultName = "default"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is the persisted form of suuid.State.
type Record struct {
	Timestamp uint64 `json:"timestamp"`
	ClockSeq  uint16 `json:"clock_seq"`
	Node      uint64 `json:"node"`
	UpdatedAt int64  `json:"updated_at"` // unix milliseconds
}

// NewRecord stamps st with the current time.
func NewRecord(st suuid.State) Record {
	return Record{
		Timestamp: st.Timestamp,
		ClockSeq:  st.ClockSeq,
		Node:      st.Node,
		UpdatedAt: time.Now().UnixMilli(),
	}
}

// State returns the generator state held by r.
func (r Record) State() suuid.State {
	return suuid.State{
		Timestamp: r.Timestamp,
		ClockSeq:  r.ClockSeq,
		Node:      r.Node,
	}
}

// Encode marshals st as a JSON record.
func Encode(st suuid.State) ([]byte, error) {
	return json.Marshal(NewRecord(st))
}

// Decode unmarshals a record written by Encode.
func Decode(data []byte) (suuid.State, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return suuid.State{}, errors.Wrap(err, "decode state record")
	}
	return r.State(), nil
}
