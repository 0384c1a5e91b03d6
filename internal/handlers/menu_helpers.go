package handlers

import (
	"strings"

	"go.uber.org/zap"

	"orderbot/internal/constants"
	"orderbot/internal/orderform"
	"orderbot/internal/telegram_api"
)

// Telegram ограничивает текст сообщения 4096 символами.
const maxMessageRunes = 4000

func loginTypeKeyboard() [][]string {
	return [][]string{{constants.BTN_ADMIN_LOGIN, constants.BTN_USER_LOGIN}}
}

func roleKeyboard() [][]string {
	return [][]string{{constants.ROLE_ADMIN, constants.ROLE_SELLER}}
}

func yesNoKeyboard() [][]string {
	return [][]string{{constants.BTN_YES, constants.BTN_NO}}
}

// sendText отправляет Markdown-текст без изменения клавиатуры.
func (bh *BotHandler) sendText(chatID int64, text string) {
	bh.send(telegram_api.OutgoingMessage{ChatID: chatID, Text: text, Markdown: true})
}

// sendPlain отправляет текст без разметки и убирает reply-клавиатуру.
func (bh *BotHandler) sendPlain(chatID int64, text string) {
	bh.send(telegram_api.OutgoingMessage{ChatID: chatID, Text: text, RemoveKeyboard: true})
}

// sendNotice отправляет текст без разметки (тексты с командами вида /all_orders).
func (bh *BotHandler) sendNotice(chatID int64, text string) {
	bh.send(telegram_api.OutgoingMessage{ChatID: chatID, Text: text})
}

func (bh *BotHandler) sendWithKeyboard(chatID int64, text string, keyboard [][]string) {
	bh.send(telegram_api.OutgoingMessage{ChatID: chatID, Text: text, Keyboard: keyboard, Markdown: true})
}

func (bh *BotHandler) send(out telegram_api.OutgoingMessage) {
	if _, err := bh.Deps.Messenger.SendMessage(out); err != nil {
		bh.logger.Warn("Ошибка отправки сообщения", zap.Int64("chat_id", out.ChatID), zap.Error(err))
	}
}

// sendFormReplies отправляет ответы машины состояний заказа по порядку.
func (bh *BotHandler) sendFormReplies(chatID int64, replies []orderform.Reply) {
	for _, r := range replies {
		bh.send(telegram_api.OutgoingMessage{
			ChatID:         chatID,
			Text:           r.Text,
			Keyboard:       r.Keyboard,
			RemoveKeyboard: r.RemoveKeyboard,
			Markdown:       r.Markdown,
		})
	}
}

// sendLong режет длинный текст по строкам и отправляет частями.
func (bh *BotHandler) sendLong(chatID int64, text string) {
	for _, chunk := range splitMessage(text, maxMessageRunes) {
		bh.sendText(chatID, chunk)
	}
}

// deleteMessageHelper удаляет сообщение пользователя (например, с паролем).
func (bh *BotHandler) deleteMessageHelper(chatID int64, messageID int) bool {
	if messageID == 0 {
		return false
	}
	return bh.Deps.Messenger.DeleteMessage(chatID, messageID)
}

// splitMessage делит текст на части не длиннее limit рун, по возможности по границе строки.
func splitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}
	var chunks []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			currentLen = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if currentLen+len(runes) > limit {
			flush()
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()
	return chunks
}
