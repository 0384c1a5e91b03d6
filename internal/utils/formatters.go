package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID генерирует новый UUID.
func GenerateUUID() string {
	return uuid.New().String()
}

// DisplayUsername возвращает "@username" или пустую строку.
func DisplayUsername(username string) string {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return ""
	}
	return "@" + username
}
