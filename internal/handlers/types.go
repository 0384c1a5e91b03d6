package handlers

import (
	"context"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"go.uber.org/zap"

	"orderbot/internal/auth"
	"orderbot/internal/config"
	"orderbot/internal/models"
	"orderbot/internal/orderform"
	"orderbot/internal/session"
	"orderbot/internal/telegram_api"
)

// Messenger - исходящие сообщения в Telegram.
type Messenger interface {
	SendMessage(out telegram_api.OutgoingMessage) (tgbotapi.Message, error)
	SendText(ctx context.Context, chatID int64, text string) error
	SendDocument(chatID int64, name string, data []byte, caption string) error
	SendPhoto(chatID int64, name string, data []byte, caption string) error
	DeleteMessage(chatID int64, messageID int) bool
}

// Store - операции хранилища, нужные обработчикам напрямую.
type Store interface {
	CreateAccount(ctx context.Context, acct models.Account) (models.Account, error)
	FindAccountByLogin(ctx context.Context, login string) (models.Account, error)
	ListAdminAccounts(ctx context.Context) ([]models.Account, error)
	ListOrdersForAccount(ctx context.Context, userID int64) ([]models.PersistedOrder, error)
	ListAllOrdersJoinedWithAccount(ctx context.Context) ([]models.OrderWithAccount, error)
}

// HandlerDependencies содержит все зависимости, необходимые для обработчиков.
// HandlerDependencies contains all dependencies required for handlers.
type HandlerDependencies struct {
	Config         *config.Config
	Messenger      Messenger
	SessionManager *session.SessionManager
	Authenticator  *auth.Authenticator
	OrderForm      *orderform.Machine
	Store          Store
	Logger         *zap.Logger
}

// BotHandler инкапсулирует логику обработки сообщений.
// BotHandler encapsulates the logic for handling messages.
type BotHandler struct {
	Deps   HandlerDependencies
	logger *zap.Logger
}

// NewBotHandler создает новый экземпляр BotHandler.
// NewBotHandler creates a new instance of BotHandler.
func NewBotHandler(deps HandlerDependencies) *BotHandler {
	if deps.Config == nil || deps.Messenger == nil || deps.SessionManager == nil ||
		deps.Authenticator == nil || deps.OrderForm == nil || deps.Store == nil {
		// Без любой из зависимостей бот не может работать корректно.
		panic("Не все зависимости для BotHandler были предоставлены.")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BotHandler{Deps: deps, logger: logger}
}

// incoming - входящее сообщение, извлеченное из tgbotapi.Update.
type incoming struct {
	ChatID    int64
	MessageID int
	Username  string
	Text      string
	Command   string // "/start" без "@bot", пусто для обычного текста
	Args      string
	Private   bool
}

// caller - результат разрешения Telegram ID в аккаунт.
type caller struct {
	Account models.Account
	Bound   bool
}
