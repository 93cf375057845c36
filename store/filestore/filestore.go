// Package filestore keeps the version 1 generator state in a local buntdb
// file so it survives restarts on the same host.
package filestore

import (
	"context"

	"github.com/Lzww0608/suuid"
	"github.com/Lzww0608/suuid/store"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"github.com/tidwall/buntdb"
)

var log = logging.Logger("suuid/store")

const keyPrefix = "suuid:state:"

// Store is a suuid.StateStore backed by a buntdb file.
type Store struct {
	db  *buntdb.DB
	key string
}

// Open opens or creates the database at path. ":memory:" keeps the state in
// memory only. Every write is synced to disk.
func Open(path, name string) (*Store, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open state file %s", path)
	}

	var cfg buntdb.Config
	if err := db.ReadConfig(&cfg); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "read buntdb config")
	}
	cfg.SyncPolicy = buntdb.Always
	if err := db.SetConfig(cfg); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set buntdb config")
	}

	if name == "" {
		name = store.DefaultName
	}
	log.Debugf("state file %s opened for %q", path, name)
	return &Store{db: db, key: keyPrefix + name}, nil
}

// Load implements suuid.StateStore.
func (s *Store) Load(ctx context.Context) (suuid.State, bool, error) {
	var (
		st    suuid.State
		found bool
	)
	if err := ctx.Err(); err != nil {
		return st, false, err
	}
	err := s.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(s.key)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		st, err = store.Decode([]byte(val))
		found = err == nil
		return err
	})
	if err != nil {
		return suuid.State{}, false, errors.Wrapf(err, "load %s", s.key)
	}
	return st, found, nil
}

// Save implements suuid.StateStore.
func (s *Store) Save(ctx context.Context, st suuid.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := store.Encode(st)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(s.key, string(data), nil)
		return err
	})
	return errors.Wrapf(err, "save %s", s.key)
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
