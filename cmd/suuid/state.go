package main

import (
	"context"
	"io"
	"time"

	"github.com/Lzww0608/suuid"
	"github.com/Lzww0608/suuid/store/filestore"
	"github.com/Lzww0608/suuid/store/redisstore"
	"github.com/Lzww0608/suuid/store/sqlstore"
	"github.com/Lzww0608/suuid/store/zkstore"
	"github.com/pkg/errors"
)

const defaultStatePath = ".suuid_state.db"

type stateStore interface {
	suuid.StateStore
	io.Closer
}

// openStore connects the configured state backend. It returns nil for
// backend "none".
func openStore(ctx context.Context, c StateConfig) (stateStore, error) {
	path := c.Path
	if path == "" {
		path = defaultStatePath
	}

	switch c.Backend {
	case "", "none":
		return nil, nil
	case "file":
		return filestore.Open(path, c.Key)
	case "sqlite", "mysql":
		dsn := c.DSN
		if c.Backend == "sqlite" && dsn == "" {
			dsn = path
		}
		s, err := sqlstore.Open(sqlstore.Dialect(c.Backend), dsn, c.Key)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "zookeeper":
		if c.Path == "" {
			return zkstore.Dial(c.Servers, 5*time.Second, c.Key)
		}
		cache, err := filestore.Open(c.Path, c.Key)
		if err != nil {
			return nil, err
		}
		s, err := zkstore.Dial(c.Servers, 5*time.Second, c.Key, zkstore.WithCache(cache))
		if err != nil {
			cache.Close()
			return nil, err
		}
		return &multiCloser{stateStore: s, extra: cache}, nil
	case "redis":
		cfg := redisstore.DefaultConfig()
		if c.Addr != "" {
			cfg.Addr = c.Addr
		}
		return redisstore.Dial(ctx, cfg, c.Key)
	default:
		return nil, errors.Wrapf(errUsage, "unknown state backend %q", c.Backend)
	}
}

// multiCloser closes a store together with the local cache behind it.
type multiCloser struct {
	stateStore
	extra io.Closer
}

func (m *multiCloser) Close() error {
	err := m.stateStore.Close()
	if cerr := m.extra.Close(); err == nil {
		err = cerr
	}
	return err
}
