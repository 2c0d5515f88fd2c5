package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Store persists the document collections (users, quizzes, questions,
// results, quiz_rooms) as JSONB rows keyed by document ID, mirroring the
// document-database layout the clients were written against.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func marshalDoc(doc interface{}) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return raw, nil
}

func unmarshalDoc(raw []byte, dst interface{}) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}

// getDoc loads one document into dst; notFound is returned for missing rows.
func (s *Store) getDoc(ctx context.Context, table, id string, dst interface{}, notFound error) error {
	var raw []byte
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT data FROM %s WHERE id=$1`, table), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	if err := unmarshalDoc(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}
	return nil
}

// putDoc upserts one document.
func (s *Store) putDoc(ctx context.Context, table, id string, doc interface{}) error {
	raw, err := marshalDoc(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}
	_, err = s.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2::jsonb)
			ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, table),
		id, raw)
	if err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	return nil
}

// deleteDoc removes one document; deleting a missing document is a no-op.
func (s *Store) deleteDoc(ctx context.Context, table, id string) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, table), id); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// queryDocs runs an equality-filter query over a collection and decodes
// each row with decode.
func (s *Store) queryDocs(ctx context.Context, query string, decode func(raw []byte) error, args ...interface{}) error {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if err := decode(raw); err != nil {
			return err
		}
	}
	return rows.Err()
}
