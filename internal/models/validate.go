package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateBet checks a bet record against its struct tags. Validation
// failures mean the record should be surfaced to the user for fixing;
// they never stop aggregate views, which sanitize bad numerics instead.
func ValidateBet(bet *Bet) error {
	if bet == nil {
		return fmt.Errorf("%w: nil bet", ErrInvalidRecord)
	}
	if err := validate.Struct(bet); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	for i := range bet.Legs {
		if err := validate.Struct(&bet.Legs[i]); err != nil {
			return fmt.Errorf("%w: leg %d: %v", ErrInvalidRecord, i, err)
		}
	}
	return nil
}
