package models

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrUnauthenticated  = errors.New("unauthenticated")

	// Conflict refinements, errors.Is(err, ErrConflict) holds for all of them
	ErrOpeningNameTaken   = fmt.Errorf("%w: opening name taken", ErrConflict)
	ErrVariationNameTaken = fmt.Errorf("%w: variation name taken", ErrConflict)
	ErrMovesExist         = fmt.Errorf("%w: moves sequence already exists", ErrConflict)
	ErrUsernameTaken      = fmt.Errorf("%w: username taken", ErrConflict)
)

// Error is a business rule violation with a message meant for the user
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// translateDBError turns unique constraint violations into ErrConflict and missing rows into ErrNotFound
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(ErrNotFound, "Not found")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return newError(ErrConflict, "Already exists")
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return newError(ErrConflict, "Already exists")
	}
	return err
}
