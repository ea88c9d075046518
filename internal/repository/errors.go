package repository

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrUniqueViolation is returned when an insert collides with a unique index.
	ErrUniqueViolation = errors.New("unique constraint violation")
	ErrNotFound        = errors.New("record not found")
)

// translate maps gorm errors onto the store's own error kinds. Anything else is
// wrapped with op for context and left for the caller to classify.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkgerrors.WithMessage(ErrUniqueViolation, op)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.WithMessage(ErrNotFound, op)
	default:
		return pkgerrors.Wrap(err, op)
	}
}
