// Package redisstore keeps the version 1 generator state under a Redis key.
package redisstore

import (
	"context"
	"time"

	"github.com/Lzww0608/suuid"
	"github.com/Lzww0608/suuid/store"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var log = logging.Logger("suuid/store")

// client abstracts the Redis operations the store uses.
type client interface {
	get(ctx context.Context, key string) ([]byte, error)
	set(ctx context.Context, key string, value []byte) error
	close() error
}

var errMiss = errors.New("redis: key not found")

// Config holds the Redis connection settings.
type Config struct {
	Addr         string        // Redis server address
	Password     string        // Redis password
	DB           int           // Redis database number
	DialTimeout  time.Duration // Connection timeout
	ReadTimeout  time.Duration // Read timeout
	WriteTimeout time.Duration // Write timeout
	Prefix       string        // Key prefix for namespacing
}

// DefaultConfig returns the default Redis configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "localhost:6379",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		Prefix:       "suuid:state:",
	}
}

// Store is a suuid.StateStore backed by a Redis string key.
type Store struct {
	client client
	key    string
}

// Dial connects to Redis and returns a store for name.
func Dial(ctx context.Context, config *Config, name string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrapf(err, "connect redis %s", config.Addr)
	}
	log.Debugf("connected to redis %s db %d", config.Addr, config.DB)
	return newStore(&redisClient{rdb: rdb}, config.Prefix, name), nil
}

// New returns a store for name on an existing client.
func New(rdb *redis.Client, prefix, name string) *Store {
	return newStore(&redisClient{rdb: rdb}, prefix, name)
}

func newStore(c client, prefix, name string) *Store {
	if name == "" {
		name = store.DefaultName
	}
	return &Store{client: c, key: prefix + name}
}

// Key returns the Redis key holding the state.
func (s *Store) Key() string {
	return s.key
}

// Load implements suuid.StateStore.
func (s *Store) Load(ctx context.Context) (suuid.State, bool, error) {
	data, err := s.client.get(ctx, s.key)
	if errors.Is(err, errMiss) {
		return suuid.State{}, false, nil
	}
	if err != nil {
		return suuid.State{}, false, errors.Wrapf(err, "get %s", s.key)
	}
	st, err := store.Decode(data)
	if err != nil {
		return suuid.State{}, false, errors.Wrapf(err, "key %s", s.key)
	}
	return st, true, nil
}

// Save implements suuid.StateStore.
func (s *Store) Save(ctx context.Context, st suuid.State) error {
	data, err := store.Encode(st)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.client.set(ctx, s.key, data), "set %s", s.key)
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.close()
}

// redisClient wraps redis.Client to implement client.
type redisClient struct {
	rdb *redis.Client
}

func (r *redisClient) get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errMiss
	}
	return val, err
}

func (r *redisClient) set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}

func (r *redisClient) close() error {
	return r.rdb.Close()
}
