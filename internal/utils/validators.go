package utils

import (
	"fmt"
	"strconv"
	"strings"

	"orderbot/internal/models"
)

// ValidateLogin проверяет логин нового аккаунта: непустой и не команда.
func ValidateLogin(login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return fmt.Errorf("логин пустой")
	}
	if strings.HasPrefix(login, "/") {
		return fmt.Errorf("логин не может начинаться с '/'")
	}
	return nil
}

// NormalizeRole приводит ввод к одной из ролей. Регистр не важен.
func NormalizeRole(input string) (string, bool) {
	role := strings.ToLower(strings.TrimSpace(input))
	if !models.ValidRole(role) {
		return "", false
	}
	return role, true
}

// ParseChannelID разбирает аргумент /kick_user.
func ParseChannelID(arg string) (int64, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, fmt.Errorf("telegram id не указан")
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram id должен быть числом: %w", err)
	}
	return id, nil
}
