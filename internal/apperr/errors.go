// Package apperr описывает классы ошибок приложения: ошибки ввода, отсутствие записи,
// неудачную аутентификацию, сбои хранилища и доставки уведомлений.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound возвращается, если аккаунт или привязка не найдены.
	ErrNotFound = errors.New("not found")
	// ErrAuthFailure возвращается одинаково для неизвестного логина, неверного пароля и неподходящей роли.
	ErrAuthFailure = errors.New("authentication failed")
	// ErrAccountExists возвращается при попытке создать аккаунт с занятым логином.
	ErrAccountExists = errors.New("account already exists")
)

// ValidationError - некорректный ввод пользователя. Обрабатывается повторным запросом того же шага.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid создает ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistenceError wraps a failed storage write or read.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence оборачивает ошибку хранилища. nil остается nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// NotificationError - сбой доставки одному получателю. Не прерывает остальные рассылки.
type NotificationError struct {
	Recipient int64
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %d: %v", e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// UnexpectedError is anything caught at the top level, including recovered panics.
type UnexpectedError struct {
	Err   error
	Stack string
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsPersistence reports whether err is a *PersistenceError.
func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
