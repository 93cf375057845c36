// Package sqlstore keeps the version 1 generator state in a MySQL or SQLite
// table, one row per generator name.
package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Lzww0608/suuid"
	"github.com/Lzww0608/suuid/store"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

var log = logging.Logger("suuid/store")

// Dialect selects the SQL driver and the upsert syntax.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

// ErrUnknownDialect is returned for a dialect other than MySQL or SQLite.
var ErrUnknownDialect = errors.New("unknown sql dialect")

const createMySQL = `CREATE TABLE IF NOT EXISTS suuid_state (
	name           VARCHAR(128)    NOT NULL PRIMARY KEY,
	last_timestamp BIGINT UNSIGNED NOT NULL,
	clock_seq      INT UNSIGNED    NOT NULL,
	node           BIGINT UNSIGNED NOT NULL,
	updated_at     BIGINT          NOT NULL
)`

const createSQLite = `CREATE TABLE IF NOT EXISTS suuid_state (
	name           TEXT    NOT NULL PRIMARY KEY,
	last_timestamp INTEGER NOT NULL,
	clock_seq      INTEGER NOT NULL,
	node           INTEGER NOT NULL,
	updated_at     INTEGER NOT NULL
)`

const upsertMySQL = `INSERT INTO suuid_state (name, last_timestamp, clock_seq, node, updated_at)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
	last_timestamp = VALUES(last_timestamp),
	clock_seq = VALUES(clock_seq),
	node = VALUES(node),
	updated_at = VALUES(updated_at)`

const upsertSQLite = `INSERT INTO suuid_state (name, last_timestamp, clock_seq, node, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	last_timestamp = excluded.last_timestamp,
	clock_seq = excluded.clock_seq,
	node = excluded.node,
	updated_at = excluded.updated_at`

// Store is a suuid.StateStore backed by the suuid_state table.
type Store struct {
	db      *sql.DB
	dialect Dialect
	name    string
}

// Open connects to dsn with the driver for dialect and applies the
// connection pool settings. Call Migrate before first use on a new database.
func Open(dialect Dialect, dsn, name string) (*Store, error) {
	if dialect != MySQL && dialect != SQLite {
		return nil, errors.Wrapf(ErrUnknownDialect, "%q", dialect)
	}
	if dialect == SQLite && dsn != ":memory:" && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dialect)
	}

	if dialect == SQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}
	return New(db, dialect, name), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB, dialect Dialect, name string) *Store {
	if name == "" {
		name = store.DefaultName
	}
	return &Store{db: db, dialect: dialect, name: name}
}

// Migrate creates the suuid_state table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	ddl := createSQLite
	if s.dialect == MySQL {
		ddl = createMySQL
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(err, "create suuid_state")
	}
	log.Debugf("suuid_state table ready (%s)", s.dialect)
	return nil
}

// Load implements suuid.StateStore.
func (s *Store) Load(ctx context.Context) (suuid.State, bool, error) {
	st, ok, err := load(ctx, s.db, s.name, "")
	if err != nil {
		return suuid.State{}, false, errors.Wrapf(err, "load state %q", s.name)
	}
	return st, ok, nil
}

// Save implements suuid.StateStore. The row is read and written in one
// transaction; a stored timestamp newer than st for the same node and clock
// sequence is kept, so concurrent writers never move the state backwards.
func (s *Store) Save(ctx context.Context, st suuid.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	lock := ""
	if s.dialect == MySQL {
		lock = " FOR UPDATE"
	}
	cur, ok, err := load(ctx, tx, s.name, lock)
	if err != nil {
		return errors.Wrapf(err, "read state %q", s.name)
	}
	if ok && cur.Node == st.Node && cur.ClockSeq == st.ClockSeq && cur.Timestamp > st.Timestamp {
		return nil
	}

	upsert := upsertSQLite
	if s.dialect == MySQL {
		upsert = upsertMySQL
	}
	rec := store.NewRecord(st)
	if _, err := tx.ExecContext(ctx, upsert, s.name,
		int64(rec.Timestamp), int64(rec.ClockSeq), int64(rec.Node), rec.UpdatedAt); err != nil {
		return errors.Wrapf(err, "write state %q", s.name)
	}

	return errors.Wrap(tx.Commit(), "commit")
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func load(ctx context.Context, q queryer, name, suffix string) (suuid.State, bool, error) {
	var ts, seq, node int64
	err := q.QueryRowContext(ctx,
		"SELECT last_timestamp, clock_seq, node FROM suuid_state WHERE name = ?"+suffix, name).
		Scan(&ts, &seq, &node)
	if errors.Is(err, sql.ErrNoRows) {
		return suuid.State{}, false, nil
	}
	if err != nil {
		return suuid.State{}, false, err
	}
	return suuid.State{Timestamp: uint64(ts), ClockSeq: uint16(seq), Node: uint64(node)}, true, nil
}
