package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// HealthRepository probes the database through database/sql.
type HealthRepository struct {
	db *sql.DB
}

func NewHealthRepository(db *sql.DB) *HealthRepository {
	return &HealthRepository{db: db}
}

// Check runs a trivial query and fails if it does not return 1.
func (r *HealthRepository) Check(ctx context.Context) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	if one != 1 {
		return fmt.Errorf("unexpected health probe result %d", one)
	}
	return nil
}
