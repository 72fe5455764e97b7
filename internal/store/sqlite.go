package store

import (
	"context"
	"database/sql"
	"errors"
)

// SQLiteStore keeps records in the nodes table of the local database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Children(ctx context.Context, path string) ([]Node, error) {
	parent, err := Clean(path)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, data FROM nodes WHERE parent = ? ORDER BY key`, parent)
	if err != nil {
		return nil, unavailable("list nodes", err)
	}
	defer rows.Close()

	nodes := []Node{}
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, unavailable("scan node", err)
		}
		rec, err := decode([]byte(data))
		if err != nil {
			return nil, unavailable("decode node "+key, err)
		}
		nodes = append(nodes, Node{Key: key, Data: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list nodes", err)
	}
	return nodes, nil
}

func (s *SQLiteStore) Push(ctx context.Context, path string, data Record) (string, error) {
	parent, err := Clean(path)
	if err != nil {
		return "", err
	}
	key, err := NewKey()
	if err != nil {
		return "", unavailable("push", err)
	}
	payload, err := encode(compact(data))
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO nodes (parent, key, data) VALUES (?, ?, ?)`,
		parent, key, string(payload),
	)
	if err != nil {
		return "", unavailable("insert node", err)
	}
	return key, nil
}

// Update reads, merges and writes the record inside one transaction.
func (s *SQLiteStore) Update(ctx context.Context, path string, fields Record) error {
	parent, key, err := Split(path)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin update", err)
	}
	defer tx.Rollback()

	var current Record
	var data string
	err = tx.QueryRowContext(ctx, `SELECT data FROM nodes WHERE parent = ? AND key = ?`, parent, key).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = Record{}
	case err != nil:
		return unavailable("read node", err)
	default:
		if current, err = decode([]byte(data)); err != nil {
			return unavailable("decode node "+key, err)
		}
	}

	merged := Merge(current, fields)
	if len(merged) == 0 {
		// A node without fields does not exist.
		if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE parent = ? AND key = ?`, parent, key); err != nil {
			return unavailable("delete empty node", err)
		}
	} else {
		payload, err := encode(merged)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO nodes (parent, key, data) VALUES (?, ?, ?)
			 ON CONFLICT (parent, key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
			parent, key, string(payload),
		)
		if err != nil {
			return unavailable("write node", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit update", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, path string) error {
	parent, key, err := Split(path)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM nodes WHERE parent = ? AND key = ?`, parent, key); err != nil {
		return unavailable("delete node", err)
	}
	return nil
}

// Close is a no-op; the database handle is owned by the caller.
func (s *SQLiteStore) Close() error {
	return nil
}

var _ Client = (*SQLiteStore)(nil)
