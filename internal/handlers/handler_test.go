package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderbot/internal/apperr"
	"orderbot/internal/auth"
	"orderbot/internal/commit"
	"orderbot/internal/config"
	"orderbot/internal/constants"
	"orderbot/internal/models"
	"orderbot/internal/orderform"
	"orderbot/internal/pricing"
	"orderbot/internal/session"
	"orderbot/internal/telegram_api"
)

const (
	adminChat  int64 = 900
	sellerChat int64 = 500
	secret           = "sirli123"
)

type sentText struct {
	ChatID int64
	Text   string
}

type stubMessenger struct {
	mu        sync.Mutex
	messages  []telegram_api.OutgoingMessage
	texts     []sentText
	documents []string
	photos    []string
	deleted   []int
}

func (m *stubMessenger) SendMessage(out telegram_api.OutgoingMessage) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, out)
	return tgbotapi.Message{MessageID: len(m.messages)}, nil
}

func (m *stubMessenger) SendText(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, sentText{ChatID: chatID, Text: text})
	return nil
}

func (m *stubMessenger) SendDocument(_ int64, name string, _ []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = append(m.documents, name)
	return nil
}

func (m *stubMessenger) SendPhoto(_ int64, name string, _ []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photos = append(m.photos, name)
	return nil
}

func (m *stubMessenger) DeleteMessage(_ int64, messageID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, messageID)
	return true
}

func (m *stubMessenger) last() telegram_api.OutgoingMessage {
	if len(m.messages) == 0 {
		return telegram_api.OutgoingMessage{}
	}
	return m.messages[len(m.messages)-1]
}

func (m *stubMessenger) textsTo(chatID int64) []string {
	var out []string
	for _, t := range m.texts {
		if t.ChatID == chatID {
			out = append(out, t.Text)
		}
	}
	return out
}

// memStore - хранилище в памяти для аккаунтов и заказов.
type memStore struct {
	accounts  []models.Account
	orders    []models.PersistedOrder
	panicList bool
}

func (s *memStore) CreateAccount(_ context.Context, acct models.Account) (models.Account, error) {
	for _, a := range s.accounts {
		if a.Login == acct.Login {
			return models.Account{}, apperr.ErrAccountExists
		}
	}
	acct.ID = int64(len(s.accounts) + 1)
	s.accounts = append(s.accounts, acct)
	return acct, nil
}

func (s *memStore) FindAccountByLogin(_ context.Context, login string) (models.Account, error) {
	for _, a := range s.accounts {
		if a.Login == login {
			return a, nil
		}
	}
	return models.Account{}, apperr.ErrNotFound
}

func (s *memStore) FindAccountByChannelIdentity(_ context.Context, channelID int64) (models.Account, error) {
	for _, a := range s.accounts {
		if a.TelegramID.Valid && a.TelegramID.Int64 == channelID {
			return a, nil
		}
	}
	return models.Account{}, apperr.ErrNotFound
}

func (s *memStore) RebindChannelIdentity(_ context.Context, accountID, channelID int64, username string, at time.Time) (models.Account, error) {
	var out models.Account
	for i := range s.accounts {
		a := &s.accounts[i]
		if a.ID != accountID && a.TelegramID.Valid && a.TelegramID.Int64 == channelID {
			a.TelegramID = sql.NullInt64{}
		}
		if a.ID == accountID {
			a.TelegramID = sql.NullInt64{Int64: channelID, Valid: true}
			a.TelegramUsername = sql.NullString{String: username, Valid: username != ""}
			a.LastLogin = sql.NullTime{Time: at, Valid: true}
			out = *a
		}
	}
	return out, nil
}

func (s *memStore) UnbindChannelIdentity(_ context.Context, channelID int64) error {
	for i := range s.accounts {
		if s.accounts[i].TelegramID.Valid && s.accounts[i].TelegramID.Int64 == channelID {
			s.accounts[i].TelegramID = sql.NullInt64{}
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (s *memStore) ListAdminAccounts(_ context.Context) ([]models.Account, error) {
	var out []models.Account
	for _, a := range s.accounts {
		if a.IsAdmin() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) ListAdminAccountsByChannelIdentity(ctx context.Context, channelID int64) ([]models.Account, error) {
	admins, _ := s.ListAdminAccounts(ctx)
	var out []models.Account
	for _, a := range admins {
		if a.TelegramID.Valid && a.TelegramID.Int64 == channelID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) InsertOrder(_ context.Context, order models.PersistedOrder) (models.PersistedOrder, error) {
	order.ID = int64(len(s.orders) + 1)
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *memStore) ListOrdersForAccount(_ context.Context, userID int64) ([]models.PersistedOrder, error) {
	if s.panicList {
		panic("list exploded")
	}
	var out []models.PersistedOrder
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memStore) ListAllOrdersJoinedWithAccount(_ context.Context) ([]models.OrderWithAccount, error) {
	var out []models.OrderWithAccount
	for _, o := range s.orders {
		for _, a := range s.accounts {
			if a.ID == o.UserID {
				out = append(out, models.OrderWithAccount{PersistedOrder: o, Login: a.Login, FullName: a.FullName})
			}
		}
	}
	return out, nil
}

type fixture struct {
	t         *testing.T
	store     *memStore
	messenger *stubMessenger
	sessions  *session.SessionManager
	handler   *BotHandler
	nextMsgID int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := auth.HashPassword(secret)
	require.NoError(t, err)

	store := &memStore{accounts: []models.Account{
		{ID: 1, Login: "boss", FullName: "Bosh Admin", Role: constants.ROLE_ADMIN, PasswordHash: hash,
			TelegramID: sql.NullInt64{Int64: adminChat, Valid: true}},
		{ID: 2, Login: "ali", FullName: "Ali Karimov", Role: constants.ROLE_SELLER, PasswordHash: hash},
	}}
	messenger := &stubMessenger{}
	sessions := session.NewSessionManager(nil)
	authenticator := auth.NewAuthenticator(store, messenger, nil)
	pipeline := commit.NewPipeline(store, store, messenger, 0, nil)
	machine := orderform.NewMachine(sessions, pricing.NewCalculator(pricing.DefaultCatalog()), pipeline, nil)

	handler := NewBotHandler(HandlerDependencies{
		Config:         &config.Config{BotUsername: "buyurtma_bot"},
		Messenger:      messenger,
		SessionManager: sessions,
		Authenticator:  authenticator,
		OrderForm:      machine,
		Store:          store,
	})
	return &fixture{t: t, store: store, messenger: messenger, sessions: sessions, handler: handler}
}

// say отправляет текст или команду от имени чата.
func (f *fixture) say(chatID int64, texts ...string) {
	for _, text := range texts {
		f.nextMsgID++
		in := incoming{ChatID: chatID, MessageID: f.nextMsgID, Text: text, Username: "tester", Private: true}
		if strings.HasPrefix(text, "/") {
			parts := strings.SplitN(text, " ", 2)
			in.Command = parts[0]
			if len(parts) == 2 {
				in.Args = parts[1]
			}
		}
		f.handler.handleIncoming(context.Background(), in)
	}
}

func (f *fixture) account(login string) models.Account {
	acct, err := f.store.FindAccountByLogin(context.Background(), login)
	require.NoError(f.t, err)
	return acct
}

func (f *fixture) loginSeller() {
	f.say(sellerChat, constants.BTN_USER_LOGIN, "ali", secret)
	require.True(f.t, f.account("ali").IsBound())
}

func TestStartUnboundShowsLoginChoice(t *testing.T) {
	f := newFixture(t)
	f.say(sellerChat, constants.CMD_START)

	last := f.messenger.last()
	assert.Equal(t, constants.MSG_WELCOME_CHOOSE_LOGIN, last.Text)
	assert.Equal(t, [][]string{{constants.BTN_ADMIN_LOGIN, constants.BTN_USER_LOGIN}}, last.Keyboard)
	assert.Equal(t, constants.STATE_LOGIN_CHOOSE_TYPE, f.sessions.GetState(sellerChat))
}

func TestUserLoginBindsAndNotifiesAdmins(t *testing.T) {
	f := newFixture(t)
	f.say(sellerChat, constants.CMD_START, constants.BTN_USER_LOGIN, "ali", secret)

	acct := f.account("ali")
	assert.True(t, acct.IsBound())
	assert.Equal(t, sellerChat, acct.TelegramID.Int64)
	assert.Equal(t, "tester", acct.TelegramUsername.String)

	assert.Contains(t, f.messenger.deleted, 4, "message with the secret is deleted")
	last := f.messenger.last()
	assert.Equal(t, constants.MSG_USER_LOGGED_IN, last.Text)
	assert.Equal(t, orderform.UserMenuKeyboard(), last.Keyboard)
	assert.Equal(t, constants.STATE_IDLE, f.sessions.GetState(sellerChat))

	notices := f.messenger.textsTo(adminChat)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0], "Sotuvchi")
}

func TestLoginFailureIsUniform(t *testing.T) {
	f := newFixture(t)
	f.say(sellerChat, constants.BTN_USER_LOGIN, "ali", "notright")
	wrongSecret := f.messenger.last().Text

	f.say(sellerChat, constants.BTN_USER_LOGIN, "nobody", secret)
	unknownLogin := f.messenger.last().Text

	f.say(sellerChat, constants.CMD_ADMIN, "ali", secret)
	sellerAsAdmin := f.messenger.last().Text

	assert.Equal(t, constants.MSG_AUTH_FAILED, wrongSecret)
	assert.Equal(t, wrongSecret, unknownLogin)
	assert.Equal(t, wrongSecret, sellerAsAdmin)
	assert.False(t, f.account("ali").IsBound())
	assert.Equal(t, constants.STATE_IDLE, f.sessions.GetState(sellerChat))
}

func TestInviteDeepLinkPrefillsLogin(t *testing.T) {
	f := newFixture(t)
	f.say(sellerChat, "/start ali")
	assert.Equal(t, constants.STATE_LOGIN_USER_PASSWORD, f.sessions.GetState(sellerChat))
	assert.Equal(t, constants.MSG_ASK_PASSWORD, f.messenger.last().Text)

	f.say(sellerChat, secret)
	assert.True(t, f.account("ali").IsBound())
}

func TestGuardRejections(t *testing.T) {
	f := newFixture(t)

	f.say(sellerChat, "/drop_tables")
	assert.Equal(t, constants.MSG_UNKNOWN_COMMAND, f.messenger.last().Text)

	f.say(sellerChat, constants.CMD_ZAKAZ)
	assert.Equal(t, constants.MSG_NOT_LOGGED_IN, f.messenger.last().Text)

	f.loginSeller()
	f.say(sellerChat, constants.CMD_ADD_USER)
	assert.Equal(t, constants.MSG_NOT_ADMIN, f.messenger.last().Text)
	assert.Equal(t, constants.STATE_IDLE, f.sessions.GetState(sellerChat))
}

func TestOrderThroughMenu(t *testing.T) {
	f := newFixture(t)
	f.loginSeller()

	f.say(sellerChat, constants.BTN_ADD_ORDER, "NM 2x0.5", "3", constants.BTN_YES, constants.BTN_FINISH_ORDER,
		"Ali", "Valiyev", "901234567", "Andijon", "Navoiy ko'chasi 5", "Bugun", "100,000", "Yo'q", constants.BTN_YES)

	require.Len(t, f.store.orders, 1)
	saved := f.store.orders[0]
	assert.Equal(t, int64(2), saved.UserID)
	assert.Equal(t, "450000", saved.TotalPrice.String())
	assert.Equal(t, "350000", saved.RemainingPayment.String())
	assert.Empty(t, saved.AdditionalComments)
	assert.Equal(t, constants.STATE_IDLE, f.sessions.GetState(sellerChat))

	admin := f.messenger.textsTo(adminChat)
	require.NotEmpty(t, admin)
	assert.Contains(t, admin[len(admin)-1], "*Buyurtma ID:* 1")
}

func TestZakazDiscardsFormInProgress(t *testing.T) {
	f := newFixture(t)
	f.loginSeller()

	f.say(sellerChat, constants.CMD_ZAKAZ, "LIGHT")
	assert.Equal(t, constants.STATE_ORDER_SIZE, f.sessions.GetState(sellerChat))

	f.say(sellerChat, constants.CMD_ZAKAZ)
	assert.Equal(t, constants.STATE_ORDER_PRODUCT, f.sessions.GetState(sellerChat))
	assert.Empty(t, f.sessions.GetOrder(sellerChat).Product)
}

func TestMyOrders(t *testing.T) {
	f := newFixture(t)
	f.loginSeller()

	f.say(sellerChat, constants.CMD_MY_ORDERS)
	assert.Equal(t, constants.MSG_NO_ORDERS_YET, f.messenger.last().Text)
	assert.Empty(t, f.messenger.documents)

	f.store.orders = append(f.store.orders, models.PersistedOrder{ID: 1, UserID: 2, Products: "LIGHT (200x100) - 1 ta - 700,000 so'm"})
	f.say(sellerChat, constants.CMD_MY_ORDERS)
	assert.Equal(t, []string{myOrdersFileName}, f.messenger.documents)

	f.say(sellerChat, constants.BTN_VIEW_ORDERS)
	assert.Contains(t, f.messenger.last().Text, "LIGHT (200x100)")
}

func TestAllOrdersSendsDigestAndWorkbook(t *testing.T) {
	f := newFixture(t)
	f.say(adminChat, constants.CMD_ALL_ORDERS)
	assert.Equal(t, constants.MSG_NO_ORDERS_AT_ALL, f.messenger.last().Text)

	f.store.orders = append(f.store.orders, models.PersistedOrder{ID: 1, UserID: 2, Products: "PREMIUM (N/A) - 1 ta - 900,000 so'm"})
	f.say(adminChat, constants.CMD_ALL_ORDERS)
	assert.Equal(t, []string{allOrdersFileName}, f.messenger.documents)
}

func TestAddUserFlow(t *testing.T) {
	f := newFixture(t)
	f.say(adminChat, constants.CMD_ADD_USER)
	assert.Equal(t, constants.STATE_ADD_USER_LOGIN, f.sessions.GetState(adminChat))

	f.say(adminChat, "ali")
	assert.Equal(t, constants.MSG_ADD_USER_LOGIN_TAKEN, f.messenger.last().Text)
	f.say(adminChat, "/zakaz")
	assert.Equal(t, constants.STATE_ORDER_PRODUCT, f.sessions.GetState(adminChat), "commands always leave the form")

	f.say(adminChat, constants.CMD_ADD_USER, "vali_01", "Vali Qodirov", "911112233", "SOTUVCHI", "abc")
	assert.Equal(t, constants.MSG_ADD_USER_SHORT_PASS, f.messenger.last().Text)

	f.say(adminChat, "yangiparol")
	assert.Equal(t, constants.STATE_ADD_USER_CONFIRM, f.sessions.GetState(adminChat))
	assert.Contains(t, f.messenger.last().Text, "vali")

	f.say(adminChat, constants.BTN_YES)
	created := f.account("vali_01")
	assert.Equal(t, constants.ROLE_SELLER, created.Role)
	assert.True(t, auth.CheckPassword(created.PasswordHash, "yangiparol"))
	assert.Equal(t, []string{"vali_01.png"}, f.messenger.photos)
	assert.Equal(t, constants.STATE_IDLE, f.sessions.GetState(adminChat))
	assert.Len(t, f.messenger.deleted, 2, "both secret messages are deleted")
}

func TestAddUserCancelled(t *testing.T) {
	f := newFixture(t)
	f.say(adminChat, constants.CMD_ADD_USER, "vali", "Vali", "911112233", "owner")
	assert.Equal(t, constants.MSG_ADD_USER_BAD_ROLE, f.messenger.last().Text)

	f.say(adminChat, "admin", "yangiparol", "balki")
	assert.Equal(t, constants.MSG_CHOOSE_YES_NO, f.messenger.last().Text)

	f.say(adminChat, constants.BTN_NO)
	assert.Equal(t, constants.MSG_ADD_USER_CANCELLED, f.messenger.last().Text)
	_, err := f.store.FindAccountByLogin(context.Background(), "vali")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestKickUser(t *testing.T) {
	f := newFixture(t)
	f.loginSeller()
	f.say(sellerChat, constants.CMD_ZAKAZ)

	f.say(adminChat, constants.CMD_KICK_USER)
	assert.Equal(t, constants.MSG_KICK_USAGE, f.messenger.last().Text)

	f.say(adminChat, "/kick_user abc")
	assert.Equal(t, constants.MSG_KICK_NOT_NUMERIC, f.messenger.last().Text)

	f.say(adminChat, "/kick_user 777")
	assert.Contains(t, f.messenger.last().Text, "777 bo'yicha foydalanuvchi topilmadi")

	f.say(adminChat, "/kick_user 500")
	assert.Contains(t, f.messenger.last().Text, "tizimdan chiqarildi")
	assert.False(t, f.account("ali").IsBound())
	assert.Contains(t, f.messenger.textsTo(sellerChat), constants.MSG_KICKED_NOTICE)
	assert.Equal(t, constants.STATE_IDLE, f.sessions.GetState(sellerChat))
}

func TestHelpForwarding(t *testing.T) {
	f := newFixture(t)
	f.loginSeller()

	f.say(sellerChat, constants.CMD_HELP, "")
	assert.Equal(t, constants.MSG_HELP_EMPTY, f.messenger.last().Text)

	f.say(sellerChat, "Narxlar yangilandimi?")
	assert.Equal(t, constants.MSG_HELP_SENT, f.messenger.last().Text)
	admin := f.messenger.textsTo(adminChat)
	assert.Contains(t, admin[len(admin)-1], "Narxlar yangilandimi?")

	require.NoError(t, f.store.UnbindChannelIdentity(context.Background(), adminChat))
	f.say(sellerChat, constants.CMD_HELP, "Yordam kerak")
	assert.Equal(t, constants.MSG_HELP_NO_ADMINS, f.messenger.last().Text)
}

func TestPanicIsRecovered(t *testing.T) {
	f := newFixture(t)
	f.loginSeller()
	f.store.panicList = true

	assert.NotPanics(t, func() { f.say(sellerChat, constants.CMD_MY_ORDERS) })
	assert.Equal(t, constants.MSG_GENERIC_ERROR, f.messenger.last().Text)
}

// update собирает обновление из JSON, как его присылает Telegram.
func update(t *testing.T, raw string) tgbotapi.Update {
	t.Helper()
	var u tgbotapi.Update
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	return u
}

// textUpdate собирает обновление с текстом из личного чата.
func textUpdate(t *testing.T, updateID int, chatID int64, text string) tgbotapi.Update {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"update_id": updateID,
		"message": map[string]any{
			"message_id": updateID,
			"date":       0,
			"text":       text,
			"chat":       map[string]any{"id": chatID, "type": "private"},
		},
	})
	require.NoError(t, err)
	return update(t, string(raw))
}

func TestRunKeepsPerChatOrder(t *testing.T) {
	flow := []string{constants.BTN_ADD_ORDER, "NM 2x0.5", "3", constants.BTN_YES, constants.BTN_FINISH_ORDER,
		"Ali", "Valiyev", "901234567", "Andijon", "Navoiy ko'chasi 5", "Bugun", "100,000", "Yo'q", constants.BTN_YES}

	for round := 0; round < 20; round++ {
		f := newFixture(t)
		f.loginSeller()

		ch := make(chan tgbotapi.Update, len(flow)+1)
		ch <- textUpdate(t, 1, 4242, "salom")
		for i, text := range flow {
			ch <- textUpdate(t, i+2, sellerChat, text)
		}
		close(ch)

		require.NoError(t, f.handler.Run(context.Background(), ch))

		require.Len(t, f.store.orders, 1, "round %d", round)
		assert.Equal(t, "450000", f.store.orders[0].TotalPrice.String())
		assert.Equal(t, "350000", f.store.orders[0].RemainingPayment.String())
		assert.Equal(t, constants.STATE_IDLE, f.sessions.GetState(sellerChat))
		assert.Equal(t, constants.STATE_LOGIN_CHOOSE_TYPE, f.sessions.GetState(4242))
	}
}

func TestChatDispatcherPreservesOrder(t *testing.T) {
	var mu sync.Mutex
	seen := map[int64][]int{}
	d := newChatDispatcher(func(u tgbotapi.Update) {
		if u.UpdateID%3 == 0 {
			time.Sleep(time.Millisecond)
		}
		mu.Lock()
		seen[u.Message.Chat.ID] = append(seen[u.Message.Chat.ID], u.UpdateID)
		mu.Unlock()
	})

	want := map[int64][]int{}
	for i := 1; i <= 60; i++ {
		chatID := int64(i%3 + 1)
		d.dispatch(chatID, textUpdate(t, i, chatID, "x"))
		want[chatID] = append(want[chatID], i)
	}
	d.wait()

	assert.Equal(t, want, seen)
	assert.Empty(t, d.queues)
}

func TestHandleUpdateIgnoresGroupChats(t *testing.T) {
	f := newFixture(t)
	f.handler.HandleUpdate(context.Background(), update(t,
		`{"update_id":1,"message":{"message_id":1,"date":0,"text":"/start","chat":{"id":-100,"type":"group"},`+
			`"entities":[{"type":"bot_command","offset":0,"length":6}]}}`))
	assert.Empty(t, f.messenger.messages)

	f.handler.HandleUpdate(context.Background(), update(t,
		`{"update_id":2,"message":{"message_id":2,"date":0,"text":"/start","chat":{"id":42,"type":"private"},`+
			`"entities":[{"type":"bot_command","offset":0,"length":6}]}}`))
	assert.Equal(t, constants.MSG_WELCOME_CHOOSE_LOGIN, f.messenger.last().Text)
}

func TestParseMessage(t *testing.T) {
	u := update(t, `{"update_id":1,"message":{"message_id":9,"date":0,"text":"/Kick_user 123456",`+
		`"chat":{"id":42,"type":"private"},"from":{"id":42,"is_bot":false,"first_name":"Ali","username":"ali"},`+
		`"entities":[{"type":"bot_command","offset":0,"length":10}]}}`)
	in := parseMessage(u.Message)
	assert.Equal(t, constants.CMD_KICK_USER, in.Command)
	assert.Equal(t, "123456", in.Args)
	assert.Equal(t, "ali", in.Username)
	assert.Equal(t, 9, in.MessageID)
	assert.True(t, in.Private)

	u = update(t, `{"update_id":2,"message":{"message_id":10,"date":0,"text":"  LIGHT ","chat":{"id":42,"type":"private"}}}`)
	plain := parseMessage(u.Message)
	assert.Empty(t, plain.Command)
	assert.Equal(t, "LIGHT", plain.Text)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"qisqa"}, splitMessage("qisqa", 10))

	chunks := splitMessage("aaaa\nbbbb\ncccc\n", 10)
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, chunks)

	long := splitMessage(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, long)
}

func TestNewBotHandlerPanicsWithoutDeps(t *testing.T) {
	assert.Panics(t, func() { NewBotHandler(HandlerDependencies{}) })
}
