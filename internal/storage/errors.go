package storage

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrLastOwner     = errors.New("cannot remove the last owner")
	ErrSelfModify    = errors.New("cannot modify own account")
	ErrInviteInvalid = errors.New("invite is invalid or expired")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
