package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Lzww0608/suuid"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, name string) *Store {
	t.Helper()
	s, err := Open(SQLite, filepath.Join(t.TempDir(), "state.db"), name)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := Open("postgres", "", "")
	require.ErrorIs(t, err, ErrUnknownDialect)
}

func TestStore_LoadSave(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, "")

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	st := suuid.State{Timestamp: 0x1eea91b969e5707, ClockSeq: 0x3fff, Node: 0xffffffffffff}
	require.NoError(t, s.Save(ctx, st))

	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, st, got)

	// Migrate is idempotent and keeps the row.
	require.NoError(t, s.Migrate(ctx))
	got, ok, err = s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, st, got)
}

func TestStore_SaveNeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, "worker")

	newer := suuid.State{Timestamp: 2000, ClockSeq: 7, Node: 0x0123456789ab}
	older := suuid.State{Timestamp: 1000, ClockSeq: 7, Node: 0x0123456789ab}
	require.NoError(t, s.Save(ctx, newer))
	require.NoError(t, s.Save(ctx, older))

	got, _, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, newer, got)

	// A new clock sequence always replaces the row.
	reseeded := suuid.State{Timestamp: 1000, ClockSeq: 8, Node: 0x0123456789ab}
	require.NoError(t, s.Save(ctx, reseeded))
	got, _, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, reseeded, got)
}

func TestStore_NamesAreIndependent(t *testing.T) {
	ctx := context.Background()
	a := openSQLite(t, "a")
	b := New(a.db, SQLite, "b")

	require.NoError(t, a.Save(ctx, suuid.State{Timestamp: 1, ClockSeq: 1, Node: 1}))
	_, ok, err := b.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
