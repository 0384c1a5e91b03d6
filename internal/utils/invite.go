package utils

import (
	"fmt"
	"regexp"

	"github.com/skip2/go-qrcode"
)

// Telegram принимает в start-параметре только A-Z, a-z, 0-9, _ и -, до 64 символов.
var startPayloadRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// GenerateInviteLink строит deep link вида https://t.me/<bot>?start=<login>.
func GenerateInviteLink(botUsername, login string) (string, error) {
	if botUsername == "" {
		return "", fmt.Errorf("имя пользователя бота не настроено")
	}
	if !startPayloadRe.MatchString(login) {
		return "", fmt.Errorf("логин %q нельзя передать в ссылке", login)
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, login), nil
}

// GenerateInviteQR генерирует PNG с QR-кодом приглашения.
func GenerateInviteQR(botUsername, login string) ([]byte, string, error) {
	link, err := GenerateInviteLink(botUsername, login)
	if err != nil {
		return nil, "", err
	}
	// qrcode.Medium - уровень коррекции ошибок, 256 - размер QR-кода в пикселях.
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка кодирования QR-кода для ссылки '%s': %w", link, err)
	}
	return png, link, nil
}

// StartPayload возвращает логин из аргумента /start, если он похож на приглашение.
func StartPayload(args string) (string, bool) {
	if !startPayloadRe.MatchString(args) {
		return "", false
	}
	return args, true
}
