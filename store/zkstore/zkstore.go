// Package zkstore keeps the version 1 generator state in a ZooKeeper znode,
// one znode per generator name under a root path. A local store can mirror
// the znode so that a restart still recovers the state while ZooKeeper is
// unreachable.
package zkstore

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/Lzww0608/suuid"
	"github.com/Lzww0608/suuid/store"
	"github.com/go-zookeeper/zk"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
)

var log = logging.Logger("suuid/store")

// DefaultRoot is the parent znode of all generator states.
const DefaultRoot = "/suuid"

// Conn is the subset of *zk.Conn used by Store.
type Conn interface {
	Exists(path string) (bool, *zk.Stat, error)
	Get(path string) ([]byte, *zk.Stat, error)
	Set(path string, data []byte, version int32) (*zk.Stat, error)
	Create(path string, data []byte, flags int32, acl []zk.ACL) (string, error)
}

// Store is a suuid.StateStore backed by a ZooKeeper znode.
type Store struct {
	conn  Conn
	path  string
	cache suuid.StateStore
	close func()
}

// Option configures a Store.
type Option func(*Store)

// WithCache mirrors every save to cache and loads from it when ZooKeeper
// fails.
func WithCache(cache suuid.StateStore) Option {
	return func(s *Store) {
		s.cache = cache
	}
}

// WithRoot places the state znode under root instead of DefaultRoot.
func WithRoot(root string) Option {
	return func(s *Store) {
		s.path = path.Join(root, path.Base(s.path))
	}
}

// Dial connects to the ZooKeeper ensemble and returns a store for name.
func Dial(servers []string, timeout time.Duration, name string, opts ...Option) (*Store, error) {
	c, _, err := zk.Connect(servers, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "connect zookeeper %s", strings.Join(servers, ","))
	}
	s := New(c, name, opts...)
	s.close = c.Close
	return s, nil
}

// New returns a store for name on an existing connection.
func New(conn Conn, name string, opts ...Option) *Store {
	if name == "" {
		name = store.DefaultName
	}
	s := &Store{conn: conn, path: path.Join(DefaultRoot, name)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the znode holding the state.
func (s *Store) Path() string {
	return s.path
}

// Load implements suuid.StateStore.
func (s *Store) Load(ctx context.Context) (suuid.State, bool, error) {
	var data []byte
	err := do(ctx, func() error {
		var err error
		data, _, err = s.conn.Get(s.path)
		return err
	})
	switch {
	case errors.Is(err, zk.ErrNoNode):
		// Not registered yet; the local mirror may still know the state.
		if s.cache != nil {
			return s.cache.Load(ctx)
		}
		return suuid.State{}, false, nil
	case err != nil:
		if s.cache == nil {
			return suuid.State{}, false, errors.Wrapf(err, "get %s", s.path)
		}
		log.Warnf("get %s: %v, using local cache", s.path, err)
		return s.cache.Load(context.WithoutCancel(ctx))
	}

	st, err := store.Decode(data)
	if err != nil {
		return suuid.State{}, false, errors.Wrapf(err, "znode %s", s.path)
	}
	return st, true, nil
}

// Save implements suuid.StateStore. The local mirror is written even when
// ZooKeeper fails.
func (s *Store) Save(ctx context.Context, st suuid.State) error {
	if s.cache != nil {
		if err := s.cache.Save(ctx, st); err != nil {
			log.Warnf("save local cache: %v", err)
		}
	}

	data, err := store.Encode(st)
	if err != nil {
		return err
	}
	return do(ctx, func() error {
		if err := s.ensurePath(path.Dir(s.path)); err != nil {
			return err
		}
		_, err := s.conn.Set(s.path, data, -1)
		if errors.Is(err, zk.ErrNoNode) {
			_, err = s.conn.Create(s.path, data, 0, zk.WorldACL(zk.PermAll))
			if errors.Is(err, zk.ErrNodeExists) {
				// Lost a race with another writer.
				_, err = s.conn.Set(s.path, data, -1)
			}
		}
		return errors.Wrapf(err, "write %s", s.path)
	})
}

// Close closes the connection opened by Dial.
func (s *Store) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

// ensurePath creates every missing znode from the root down to p.
func (s *Store) ensurePath(p string) error {
	cur := ""
	for _, part := range strings.Split(strings.Trim(p, "/"), "/") {
		if part == "" {
			continue
		}
		cur += "/" + part
		exists, _, err := s.conn.Exists(cur)
		if err != nil {
			return errors.Wrapf(err, "exists %s", cur)
		}
		if exists {
			continue
		}
		_, err = s.conn.Create(cur, []byte{}, 0, zk.WorldACL(zk.PermAll))
		if err != nil && !errors.Is(err, zk.ErrNodeExists) {
			return errors.Wrapf(err, "create %s", cur)
		}
	}
	return nil
}

// do runs op unless ctx ends first. The zk client takes no context, so an
// abandoned op completes in the background.
func do(ctx context.Context, op func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- op() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "zookeeper")
	}
}
