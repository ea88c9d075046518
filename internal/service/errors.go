package service

import (
	"errors"
	"fmt"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/repository"
)

var (
	ErrDuplicateRequest = errors.New("connection request already exists")
	ErrNotFound         = errors.New("not found")
	ErrPersistence      = errors.New("persistence failure")

	ErrAlreadyResolved = errors.New("connection request already resolved")
	ErrNotRecipient    = errors.New("only the recipient can resolve a connection request")
	ErrNotConnected    = errors.New("users are not connected")
	ErrSelfConnection  = errors.New("cannot connect with yourself")
	ErrSelfMessage     = errors.New("cannot message yourself")
	ErrEmptyContent    = errors.New("message content is empty")
	ErrInvalidDecision = errors.New("decision must be accepted or rejected")

	ErrInvalidClientID  = errors.New("client id must be a uuid")
	ErrClientIDConflict = errors.New("client id already used for a different message")
)

// PersistenceError carries the store failure behind ErrPersistence.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// storeError classifies a repository error. Not-found is reported as
// ErrNotFound, everything else as a persistence failure.
func storeError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return persistence(op, err)
}
