package redisstore

import (
	"context"
	"testing"

	"github.com/Lzww0608/suuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	data   map[string][]byte
	err    error
	closed bool
}

func (f *fakeClient) get(ctx context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.data[key]
	if !ok {
		return nil, errMiss
	}
	return v, nil
}

func (f *fakeClient) set(ctx context.Context, key string, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = value
	return nil
}

func (f *fakeClient) close() error {
	f.closed = true
	return nil
}

func TestStore_LoadSave(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{data: map[string][]byte{}}
	s := newStore(fc, DefaultConfig().Prefix, "")
	require.Equal(t, "suuid:state:default", s.Key())

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	st := suuid.State{Timestamp: 99, ClockSeq: 0x0fff, Node: 0xaabbccddeeff}
	require.NoError(t, s.Save(ctx, st))
	require.Contains(t, fc.data, "suuid:state:default")

	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, st, got)

	require.NoError(t, s.Close())
	require.True(t, fc.closed)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{data: map[string][]byte{"p:x": []byte("garbage")}}
	s := newStore(fc, "p:", "x")

	_, _, err := s.Load(ctx)
	require.Error(t, err)

	fc.err = errors.New("connection refused")
	_, _, err = s.Load(ctx)
	require.ErrorContains(t, err, "connection refused")
	require.Error(t, s.Save(ctx, suuid.State{}))
}
