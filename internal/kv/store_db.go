package kv

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	applyTimeout = 5 * time.Second
)

// PostgresStore keeps every record in a single kv_store table:
//
//	CREATE TABLE kv_store (
//	    key      TEXT PRIMARY KEY,
//	    value    JSONB NOT NULL,
//	    revision BIGINT NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Record, bool, error) {
	var rec Record

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT key, value, revision
			FROM kv_store
			WHERE key = $1
		`, key).Scan(&rec.Key, &rec.Value, &rec.Revision)
	})

	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (s *PostgresStore) GetByPrefix(ctx context.Context, prefix string) ([]Record, error) {
	var out []Record

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT key, value, revision
			FROM kv_store
			WHERE key LIKE $1 || '%'
			ORDER BY key ASC
		`, prefix)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Record, 0, 16)
		for rows.Next() {
			var rec Record
			if err := rows.Scan(&rec.Key, &rec.Value, &rec.Revision); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Apply(ctx context.Context, writes ...Write) error {
	return withTimeout(ctx, applyTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		for _, w := range writes {
			if err := applyOne(ctx, tx, w); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

func applyOne(ctx context.Context, tx *sql.Tx, w Write) error {
	switch {
	case w.Revision == AnyRevision:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO kv_store (key, value, revision)
			VALUES ($1, $2, 1)
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, revision = kv_store.revision + 1
		`, w.Key, w.Value)
		return err

	case w.Revision == 0:
		res, err := tx.ExecContext(ctx, `
			INSERT INTO kv_store (key, value, revision)
			VALUES ($1, $2, 1)
			ON CONFLICT (key) DO NOTHING
		`, w.Key, w.Value)
		if err != nil {
			return err
		}
		return checkAffected(res)

	default:
		res, err := tx.ExecContext(ctx, `
			UPDATE kv_store
			SET value = $2, revision = revision + 1
			WHERE key = $1 AND revision = $3
		`, w.Key, w.Value, w.Revision)
		if err != nil {
			return err
		}
		return checkAffected(res)
	}
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRevisionMismatch
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
