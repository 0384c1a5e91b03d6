package telegram_api

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"go.uber.org/zap"
)

// OutgoingMessage - текст с необязательной клавиатурой.
type OutgoingMessage struct {
	ChatID         int64
	Text           string
	Keyboard       [][]string
	RemoveKeyboard bool
	Markdown       bool
}

// ReplyKeyboard строит reply-клавиатуру из рядов подписей.
func ReplyKeyboard(labels [][]string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(labels))
	for _, row := range labels {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// SendMessage отправляет сообщение. Если Telegram не смог разобрать Markdown,
// сообщение отправляется повторно без разметки.
func (bc *BotClient) SendMessage(out OutgoingMessage) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(out.ChatID, out.Text)
	switch {
	case len(out.Keyboard) > 0:
		msg.ReplyMarkup = ReplyKeyboard(out.Keyboard)
	case out.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}
	if out.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	sent, err := bc.Send(msg)
	if err != nil && out.Markdown && strings.Contains(err.Error(), "can't parse entities") {
		bc.logger.Warn("Markdown не разобран, отправка без разметки", zap.Int64("chat_id", out.ChatID), zap.Error(err))
		msg.ParseMode = ""
		sent, err = bc.Send(msg)
	}
	if err != nil {
		bc.logger.Error("Ошибка отправки сообщения", zap.Int64("chat_id", out.ChatID), zap.Error(err))
		return tgbotapi.Message{}, err
	}
	return sent, nil
}

// SendText sends a Markdown text without a keyboard. It implements the notifier
// used by the authenticator and the commit pipeline.
func (bc *BotClient) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := bc.SendMessage(OutgoingMessage{ChatID: chatID, Text: text, Markdown: true})
	return err
}

// SendDocument отправляет файл из памяти.
func (bc *BotClient) SendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	if _, err := bc.Send(doc); err != nil {
		bc.logger.Error("Ошибка отправки документа", zap.Int64("chat_id", chatID), zap.String("file", name), zap.Error(err))
		return fmt.Errorf("send document %s: %w", name, err)
	}
	return nil
}

// SendPhoto отправляет PNG/JPEG из памяти.
func (bc *BotClient) SendPhoto(chatID int64, name string, data []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = caption
	if _, err := bc.Send(photo); err != nil {
		bc.logger.Error("Ошибка отправки фото", zap.Int64("chat_id", chatID), zap.Error(err))
		return fmt.Errorf("send photo %s: %w", name, err)
	}
	return nil
}

// DeleteMessage удаляет сообщение. Ошибки "уже удалено" не логируются.
func (bc *BotClient) DeleteMessage(chatID int64, messageID int) bool {
	if messageID == 0 {
		return false
	}
	response, err := bc.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	if err != nil {
		if !isBenignDeleteError(err.Error()) {
			bc.logger.Warn("Ошибка удаления сообщения", zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
		}
		return false
	}
	return response != nil && response.Ok
}

func isBenignDeleteError(description string) bool {
	return strings.Contains(description, "message to delete not found") ||
		strings.Contains(description, "message can't be deleted") ||
		strings.Contains(description, "MESSAGE_ID_INVALID")
}

// SetCommands регистрирует список команд бота (меню "/").
func (bc *BotClient) SetCommands(commands []tgbotapi.BotCommand) error {
	if _, err := bc.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		return fmt.Errorf("set my commands: %w", err)
	}
	return nil
}

// BotCommands переводит пары (команда, описание) в формат Telegram.
func BotCommands(pairs [][2]string) []tgbotapi.BotCommand {
	out := make([]tgbotapi.BotCommand, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, tgbotapi.BotCommand{Command: p[0], Description: p[1]})
	}
	return out
}
