package telegram_api

import (
	"fmt"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"go.uber.org/zap"
)

// botAPI - часть *tgbotapi.BotAPI, которой пользуется клиент.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// BotClient представляет собой обертку для Telegram Bot API.
// BotClient represents a wrapper for the Telegram Bot API.
type BotClient struct {
	api      botAPI
	bot      *tgbotapi.BotAPI
	username string
	Debug    bool
	logger   *zap.Logger
}

// NewBotClient инициализирует Telegram бота и отключает вебхук.
// NewBotClient initializes the Telegram bot.
func NewBotClient(token string, debug bool, logger *zap.Logger) (*BotClient, error) {
	if token == "" {
		return nil, fmt.Errorf("токен Telegram API не предоставлен")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Telegram Bot API: %w", err)
	}
	bot.Debug = debug
	logger.Info("Авторизован как аккаунт", zap.String("username", bot.Self.UserName))

	// Отключаем вебхук, если он активен (важно для getUpdates)
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		logger.Warn("Ошибка при отключении вебхука, это нормально, если вебхук не был установлен", zap.Error(err))
	}

	return &BotClient{
		api:      bot,
		bot:      bot,
		username: bot.Self.UserName,
		Debug:    debug,
		logger:   logger,
	}, nil
}

// newClientWithAPI собирает клиент поверх произвольной реализации botAPI.
func newClientWithAPI(api botAPI, username string, logger *zap.Logger) *BotClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BotClient{api: api, username: username, logger: logger}
}

// Username возвращает имя бота без "@".
func (bc *BotClient) Username() string {
	return bc.username
}

// GetUpdatesChan возвращает канал обновлений от Telegram.
// GetUpdatesChan returns the update channel from Telegram.
func (bc *BotClient) GetUpdatesChan(config tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error) {
	if bc == nil || bc.bot == nil {
		return nil, fmt.Errorf("BotClient или его API не инициализирован")
	}
	if bc.Debug {
		bc.logger.Debug("Запрос канала обновлений", zap.Int("timeout", config.Timeout))
	}
	return bc.bot.GetUpdatesChan(config), nil
}

// StopReceivingUpdates останавливает long polling.
func (bc *BotClient) StopReceivingUpdates() {
	if bc != nil && bc.bot != nil {
		bc.bot.StopReceivingUpdates()
	}
}

// Send отправляет сообщение через BotClient.
// Send sends a message via BotClient.
func (bc *BotClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if bc == nil || bc.api == nil {
		return tgbotapi.Message{}, fmt.Errorf("BotClient или его API не инициализирован")
	}
	if bc.Debug {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			bc.logger.Debug("Отправка сообщения", zap.Int64("chat_id", m.ChatID), zap.String("text", truncate(m.Text, 50)))
		case tgbotapi.DocumentConfig:
			bc.logger.Debug("Отправка документа", zap.Int64("chat_id", m.ChatID))
		default:
			bc.logger.Debug("Отправка запроса", zap.String("type", fmt.Sprintf("%T", c)))
		}
	}
	return bc.api.Send(c)
}

// Request выполняет запрос через BotClient.
// Request performs a request via BotClient.
func (bc *BotClient) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if bc == nil || bc.api == nil {
		return nil, fmt.Errorf("BotClient или его API не инициализирован")
	}
	if bc.Debug {
		bc.logger.Debug("Выполнение запроса", zap.String("type", fmt.Sprintf("%T", c)))
	}
	return bc.api.Request(c)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
