package store

import (
	"testing"

	"github.com/Lzww0608/suuid"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	st := suuid.State{Timestamp: 0x1eea91b969e5707, ClockSeq: 0x1234, Node: 0x0123456789ab}

	data, err := Encode(st)
	require.NoError(t, err)
	require.Contains(t, string(data), `"clock_seq":4660`)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, st, got)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	require.Error(t, err)
}
