package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/geovana49/apostaspro-v2-sub001/internal/database"
	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
)

// PostgresBetStore implements BetStore for PostgreSQL. Legs live and
// die with their bet, so they are stored inline as JSONB rather than in
// a separate table.
type PostgresBetStore struct {
	db *database.DB
}

// NewPostgresBetStore creates a new bet store
func NewPostgresBetStore(db *database.DB) BetStore {
	return &PostgresBetStore{db: db}
}

// Create inserts a new bet with its legs
func (s *PostgresBetStore) Create(ctx context.Context, bet *models.Bet) error {
	legs, err := json.Marshal(bet.Legs)
	if err != nil {
		return fmt.Errorf("failed to encode legs: %w", err)
	}

	query := `
		INSERT INTO bets (id, event, date, main_bookmaker_id, promotion, status,
		                  extra_adjustment, legs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	_, err = s.db.GetPool().Exec(ctx, query,
		bet.ID, bet.Event, bet.Date, bet.MainBookmakerID, bet.Promotion, bet.Status,
		bet.ExtraAdjustment, legs, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}
	return nil
}

// GetByID retrieves a bet by ID
func (s *PostgresBetStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	query := `
		SELECT id, event, date, main_bookmaker_id, promotion, status,
		       extra_adjustment, legs, created_at, updated_at
		FROM bets WHERE id = $1
	`

	bet, err := scanBet(s.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return bet, nil
}

// List retrieves all bets, newest first
func (s *PostgresBetStore) List(ctx context.Context) ([]*models.Bet, error) {
	query := `
		SELECT id, event, date, main_bookmaker_id, promotion, status,
		       extra_adjustment, legs, created_at, updated_at
		FROM bets
		ORDER BY date DESC, created_at DESC
	`

	rows, err := s.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

// Update replaces a bet record, legs included
func (s *PostgresBetStore) Update(ctx context.Context, bet *models.Bet) error {
	legs, err := json.Marshal(bet.Legs)
	if err != nil {
		return fmt.Errorf("failed to encode legs: %w", err)
	}

	query := `
		UPDATE bets
		SET event = $2, date = $3, main_bookmaker_id = $4, promotion = $5,
		    status = $6, extra_adjustment = $7, legs = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := s.db.GetPool().Exec(ctx, query,
		bet.ID, bet.Event, bet.Date, bet.MainBookmakerID, bet.Promotion,
		bet.Status, bet.ExtraAdjustment, legs, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update bet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes a bet and, with it, all of its legs
func (s *PostgresBetStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.GetPool().Exec(ctx, `DELETE FROM bets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBet(row rowScanner) (*models.Bet, error) {
	bet := &models.Bet{}
	var legs []byte
	err := row.Scan(
		&bet.ID, &bet.Event, &bet.Date, &bet.MainBookmakerID, &bet.Promotion,
		&bet.Status, &bet.ExtraAdjustment, &legs, &bet.CreatedAt, &bet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(legs) > 0 {
		if err := json.Unmarshal(legs, &bet.Legs); err != nil {
			return nil, fmt.Errorf("failed to decode legs: %w", err)
		}
	}
	return bet, nil
}
