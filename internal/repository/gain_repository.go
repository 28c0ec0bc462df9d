package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/geovana49/apostaspro-v2-sub001/internal/database"
	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
)

// PostgresGainStore implements GainStore for PostgreSQL
type PostgresGainStore struct {
	db *database.DB
}

// NewPostgresGainStore creates a new gain store
func NewPostgresGainStore(db *database.DB) GainStore {
	return &PostgresGainStore{db: db}
}

// Create inserts a new extra gain
func (s *PostgresGainStore) Create(ctx context.Context, gain *models.ExtraGain) error {
	query := `
		INSERT INTO extra_gains (id, bookmaker_id, description, amount, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.GetPool().Exec(ctx, query,
		gain.ID, gain.BookmakerID, gain.Description, gain.Amount, gain.Date, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to create gain: %w", err)
	}
	return nil
}

// List retrieves all extra gains, newest first
func (s *PostgresGainStore) List(ctx context.Context) ([]*models.ExtraGain, error) {
	query := `
		SELECT id, bookmaker_id, description, amount, date, created_at
		FROM extra_gains
		ORDER BY date DESC, created_at DESC
	`

	rows, err := s.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query gains: %w", err)
	}
	defer rows.Close()

	var gains []*models.ExtraGain
	for rows.Next() {
		gain := &models.ExtraGain{}
		err := rows.Scan(&gain.ID, &gain.BookmakerID, &gain.Description, &gain.Amount, &gain.Date, &gain.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gain: %w", err)
		}
		gains = append(gains, gain)
	}
	return gains, rows.Err()
}

// Delete removes an extra gain
func (s *PostgresGainStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.GetPool().Exec(ctx, `DELETE FROM extra_gains WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gain: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
