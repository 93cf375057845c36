package zkstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Lzww0608/suuid"
	"github.com/Lzww0608/suuid/store/filestore"
	"github.com/go-zookeeper/zk"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// fakeConn is an in-memory znode tree.
type fakeConn struct {
	mu    sync.Mutex
	nodes map[string][]byte
	down  bool
	stall chan struct{} // when set, Get and Exists wait for it
}

func newFakeConn() *fakeConn {
	return &fakeConn{nodes: map[string][]byte{}}
}

var errConnClosed = errors.New("zk: connection closed")

func (c *fakeConn) Exists(p string) (bool, *zk.Stat, error) {
	if c.stall != nil {
		<-c.stall
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return false, nil, errConnClosed
	}
	_, ok := c.nodes[p]
	return ok, &zk.Stat{}, nil
}

func (c *fakeConn) Get(p string) ([]byte, *zk.Stat, error) {
	if c.stall != nil {
		<-c.stall
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return nil, nil, errConnClosed
	}
	data, ok := c.nodes[p]
	if !ok {
		return nil, nil, zk.ErrNoNode
	}
	return data, &zk.Stat{}, nil
}

func (c *fakeConn) Set(p string, data []byte, version int32) (*zk.Stat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return nil, errConnClosed
	}
	if _, ok := c.nodes[p]; !ok {
		return nil, zk.ErrNoNode
	}
	c.nodes[p] = data
	return &zk.Stat{}, nil
}

func (c *fakeConn) Create(p string, data []byte, flags int32, acl []zk.ACL) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return "", errConnClosed
	}
	if _, ok := c.nodes[p]; ok {
		return "", zk.ErrNodeExists
	}
	c.nodes[p] = data
	return p, nil
}

func TestStore_CreatesParents(t *testing.T) {
	ctx := context.Background()
	conn := newFakeConn()
	s := New(conn, "worker-1", WithRoot("/services/ids"))
	require.Equal(t, "/services/ids/worker-1", s.Path())

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	st := suuid.State{Timestamp: 42, ClockSeq: 0x1234, Node: 0x0123456789ab}
	require.NoError(t, s.Save(ctx, st))
	require.Contains(t, conn.nodes, "/services")
	require.Contains(t, conn.nodes, "/services/ids")

	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, st, got)

	st.Timestamp = 43
	require.NoError(t, s.Save(ctx, st))
	got, _, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(43), got.Timestamp)
}

func TestStore_NoCacheReportsErrors(t *testing.T) {
	conn := newFakeConn()
	conn.down = true
	s := New(conn, "")
	require.Equal(t, DefaultRoot+"/default", s.Path())

	_, _, err := s.Load(context.Background())
	require.Error(t, err)
	require.Error(t, s.Save(context.Background(), suuid.State{}))
}

func TestStore_FallsBackToCache(t *testing.T) {
	ctx := context.Background()
	cache, err := filestore.Open(":memory:", "worker")
	require.NoError(t, err)
	defer cache.Close()

	conn := newFakeConn()
	s := New(conn, "worker", WithCache(cache))

	st := suuid.State{Timestamp: 7, ClockSeq: 3, Node: 9}
	require.NoError(t, s.Save(ctx, st))

	conn.down = true
	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, st, got)

	// Saves still reach the cache while ZooKeeper is down.
	st.Timestamp = 8
	require.Error(t, s.Save(ctx, st))
	got, _, err = cache.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, st, got)
}

func TestStore_MissingZnodeUsesCache(t *testing.T) {
	ctx := context.Background()
	cache, err := filestore.Open(":memory:", "")
	require.NoError(t, err)
	defer cache.Close()

	st := suuid.State{Timestamp: 100, ClockSeq: 5, Node: 6}
	require.NoError(t, cache.Save(ctx, st))

	s := New(newFakeConn(), "", WithCache(cache))
	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, st, got)
}

func TestStore_HonorsContext(t *testing.T) {
	cache, err := filestore.Open(":memory:", "")
	require.NoError(t, err)
	defer cache.Close()

	st := suuid.State{Timestamp: 11, ClockSeq: 12, Node: 13}
	require.NoError(t, cache.Save(context.Background(), st))

	conn := newFakeConn()
	conn.stall = make(chan struct{})
	defer close(conn.stall)
	s := New(conn, "", WithCache(cache))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, st, got)

	require.ErrorIs(t, s.Save(ctx, st), context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}
