// Package repository provides the persistence layer for bets and
// standalone gains.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
)

// BetStore supplies and persists bet records. The engines only read
// from it; writes come from the editing UI.
type BetStore interface {
	Create(ctx context.Context, bet *models.Bet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	List(ctx context.Context) ([]*models.Bet, error)
	Update(ctx context.Context, bet *models.Bet) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GainStore supplies and persists standalone extra gains.
type GainStore interface {
	Create(ctx context.Context, gain *models.ExtraGain) error
	List(ctx context.Context) ([]*models.ExtraGain, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Stores bundles the application's stores for wiring convenience.
type Stores struct {
	Bets  BetStore
	Gains GainStore
}
