package sequence

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store backs the allocator with the sequence_counters table. The upsert
// creates the counter on first use and increments it in the same
// statement, so concurrent callers always observe distinct values.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) NextValue(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO sequence_counters (name, value)
    VALUES ($1, 1)
    ON CONFLICT (name) DO UPDATE SET value = sequence_counters.value + 1
    RETURNING value
  `, name).Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}
