package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"orderbot/internal/constants"
)

// ErrPasswordTooShort - пароль короче constants.MinPasswordLength.
var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)

// dummyHash сравнивается с паролем, когда логин не найден, чтобы время ответа не выдавало существование логина.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("orderbot-dummy-secret"), bcrypt.MinCost)

// HashPassword возвращает bcrypt-хэш пароля.
func HashPassword(secret string) (string, error) {
	if len([]rune(secret)) < constants.MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether secret matches the stored hash.
func CheckPassword(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
