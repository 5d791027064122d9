package kv

import (
	"database/sql"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value BYTEA NOT NULL
);`

// pgStore keeps blobs in a single Postgres table. Useful when the API runs
// on a host without durable local disk.
type pgStore struct {
	db *sqlx.DB
}

var _ Store = (*pgStore)(nil)

func OpenPostgresStore(conf *core.Config) (Store, error) {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.DatabaseAddress(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}

	db, err := sqlx.Open(conf.Database.Engine, u.String())
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err = db.Exec(kvSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating kv table")
	}
	return &pgStore{db: db}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func (s *pgStore) Get(key string) ([]byte, error) {
	var val []byte
	err := s.db.Get(&val, "SELECT value FROM kv WHERE key = $1", key)
	if err == sql.ErrNoRows {
		return nil, ErrKeyNotFound
	} else if err != nil {
		return nil, errors.Wrapf(err, "getting key %s", key)
	}
	return val, nil
}

func (s *pgStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		key, value,
	)
	return errors.Wrapf(err, "setting key %s", key)
}

func (s *pgStore) Close() error { return s.db.Close() }
