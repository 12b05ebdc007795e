package services

import (
	"errors"
	"fmt"

	"github.com/yashdodwani/student-grading-system/internal/repository"
)

// Категории ошибок; обработчики сопоставляют их с HTTP-статусами через errors.Is
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrBadRequest      = errors.New("bad request")
	ErrConflict        = errors.New("conflict")
)

// Error несёт категорию ошибки и сообщение для клиента
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }
func forbidden(msg string) error       { return &Error{Kind: ErrForbidden, Message: msg} }
func notFound(msg string) error        { return &Error{Kind: ErrNotFound, Message: msg} }
func conflict(msg string) error        { return &Error{Kind: ErrConflict, Message: msg} }

func badRequest(format string, args ...interface{}) error {
	return &Error{Kind: ErrBadRequest, Message: fmt.Sprintf(format, args...)}
}

// lookup превращает repository.ErrNotFound в ошибку NotFound с понятным сообщением
func lookup(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msg)
	}
	return err
}
