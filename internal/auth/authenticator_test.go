package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"orderbot/internal/apperr"
	"orderbot/internal/constants"
	"orderbot/internal/models"
)

type stubStore struct {
	accounts map[string]*models.Account
	rebinds  int
}

func newStubStore(accts ...models.Account) *stubStore {
	s := &stubStore{accounts: make(map[string]*models.Account)}
	for i := range accts {
		a := accts[i]
		s.accounts[a.Login] = &a
	}
	return s
}

func (s *stubStore) FindAccountByLogin(_ context.Context, login string) (models.Account, error) {
	a, ok := s.accounts[login]
	if !ok {
		return models.Account{}, apperr.ErrNotFound
	}
	return *a, nil
}

func (s *stubStore) FindAccountByChannelIdentity(_ context.Context, channelID int64) (models.Account, error) {
	for _, a := range s.accounts {
		if a.TelegramID.Valid && a.TelegramID.Int64 == channelID {
			return *a, nil
		}
	}
	return models.Account{}, apperr.ErrNotFound
}

// RebindChannelIdentity повторяет политику хранилища: чужая привязка этого ID снимается.
func (s *stubStore) RebindChannelIdentity(_ context.Context, accountID, channelID int64, username string, at time.Time) (models.Account, error) {
	s.rebinds++
	var target *models.Account
	for _, a := range s.accounts {
		if a.ID != accountID && a.TelegramID.Valid && a.TelegramID.Int64 == channelID {
			a.TelegramID = sql.NullInt64{}
		}
		if a.ID == accountID {
			target = a
		}
	}
	if target == nil {
		return models.Account{}, apperr.ErrNotFound
	}
	target.TelegramID = sql.NullInt64{Int64: channelID, Valid: true}
	target.TelegramUsername = sql.NullString{String: username, Valid: username != ""}
	target.LastLogin = sql.NullTime{Time: at, Valid: true}
	return *target, nil
}

func (s *stubStore) UnbindChannelIdentity(_ context.Context, channelID int64) error {
	for _, a := range s.accounts {
		if a.TelegramID.Valid && a.TelegramID.Int64 == channelID {
			a.TelegramID = sql.NullInt64{}
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (s *stubStore) ListAdminAccounts(context.Context) ([]models.Account, error) {
	var out []models.Account
	for _, a := range s.accounts {
		if a.IsAdmin() {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubStore) ListAdminAccountsByChannelIdentity(_ context.Context, channelID int64) ([]models.Account, error) {
	var out []models.Account
	for _, a := range s.accounts {
		if a.IsAdmin() && a.TelegramID.Valid && a.TelegramID.Int64 == channelID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type stubNotifier struct {
	sent []sentMessage
	fail bool
}

func (n *stubNotifier) SendText(_ context.Context, chatID int64, text string) error {
	n.sent = append(n.sent, sentMessage{chatID, text})
	if n.fail {
		return errors.New("forbidden")
	}
	return nil
}

func (n *stubNotifier) recipients() []int64 {
	var ids []int64
	for _, m := range n.sent {
		ids = append(ids, m.chatID)
	}
	return ids
}

func hash(t *testing.T, secret string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func boundTo(id int64) sql.NullInt64 { return sql.NullInt64{Int64: id, Valid: true} }

func TestAuthenticateUniformFailure(t *testing.T) {
	store := newStubStore(
		models.Account{ID: 1, Login: "seller", Role: constants.ROLE_SELLER, PasswordHash: hash(t, "secret1")},
	)
	a := NewAuthenticator(store, &stubNotifier{}, nil)
	ctx := context.Background()
	caller := Caller{ChannelID: 500}

	_, errUnknown := a.Authenticate(ctx, FlowRegular, "ghost", "secret1", caller)
	_, errWrong := a.Authenticate(ctx, FlowRegular, "seller", "nope", caller)
	_, errRole := a.Authenticate(ctx, FlowAdmin, "seller", "secret1", caller)

	for _, err := range []error{errUnknown, errWrong, errRole} {
		assert.ErrorIs(t, err, apperr.ErrAuthFailure)
		assert.Equal(t, errUnknown.Error(), err.Error())
	}
	assert.Zero(t, store.rebinds)
}

func TestAuthenticateBindsAndBroadcasts(t *testing.T) {
	store := newStubStore(
		models.Account{ID: 1, Login: "boss", Role: constants.ROLE_ADMIN, PasswordHash: hash(t, "root"), TelegramID: boundTo(100)},
		models.Account{ID: 2, Login: "seller", Role: constants.ROLE_SELLER, PasswordHash: hash(t, "secret1")},
	)
	notifier := &stubNotifier{}
	a := NewAuthenticator(store, notifier, nil)

	acct, err := a.Authenticate(context.Background(), FlowRegular, "seller", "secret1", Caller{ChannelID: 500, Username: "ali"})
	require.NoError(t, err)
	assert.Equal(t, int64(500), acct.TelegramID.Int64)
	assert.Equal(t, "ali", acct.TelegramUsername.String)
	assert.True(t, acct.LastLogin.Valid)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(100), notifier.sent[0].chatID)
	assert.Contains(t, notifier.sent[0].text, "Sotuvchi")
}

func TestAdminRebindAlertsOldIdentity(t *testing.T) {
	store := newStubStore(
		models.Account{ID: 1, Login: "boss", Role: constants.ROLE_ADMIN, PasswordHash: hash(t, "root"), TelegramID: boundTo(100)},
		models.Account{ID: 3, Login: "deputy", Role: constants.ROLE_ADMIN, PasswordHash: hash(t, "root2"), TelegramID: boundTo(300)},
	)
	notifier := &stubNotifier{}
	a := NewAuthenticator(store, notifier, nil)

	_, err := a.Authenticate(context.Background(), FlowAdmin, "boss", "root", Caller{ChannelID: 200})
	require.NoError(t, err)

	// уведомление о входе обоим привязанным админам, затем предупреждение на старый ID
	assert.ElementsMatch(t, []int64{200, 300, 100}, notifier.recipients())
	last := notifier.sent[len(notifier.sent)-1]
	assert.Equal(t, int64(100), last.chatID)
	assert.Contains(t, last.text, "200")
}

func TestSellerRebindSendsNoAlert(t *testing.T) {
	store := newStubStore(
		models.Account{ID: 1, Login: "boss", Role: constants.ROLE_ADMIN, PasswordHash: hash(t, "root"), TelegramID: boundTo(100)},
		models.Account{ID: 2, Login: "seller", Role: constants.ROLE_SELLER, PasswordHash: hash(t, "secret1"), TelegramID: boundTo(400)},
	)
	notifier := &stubNotifier{}
	a := NewAuthenticator(store, notifier, nil)

	_, err := a.Authenticate(context.Background(), FlowRegular, "seller", "secret1", Caller{ChannelID: 401})
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, notifier.recipients())
}

func TestRebindEvictsOtherAccount(t *testing.T) {
	store := newStubStore(
		models.Account{ID: 2, Login: "seller", Role: constants.ROLE_SELLER, PasswordHash: hash(t, "secret1"), TelegramID: boundTo(500)},
		models.Account{ID: 4, Login: "other", Role: constants.ROLE_SELLER, PasswordHash: hash(t, "secret2")},
	)
	a := NewAuthenticator(store, &stubNotifier{}, nil)

	_, err := a.Authenticate(context.Background(), FlowRegular, "other", "secret2", Caller{ChannelID: 500})
	require.NoError(t, err)

	resolved, err := a.Resolve(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, "other", resolved.Login)
	assert.False(t, store.accounts["seller"].TelegramID.Valid)
}

func TestNotificationFailureDoesNotFailLogin(t *testing.T) {
	store := newStubStore(
		models.Account{ID: 1, Login: "boss", Role: constants.ROLE_ADMIN, PasswordHash: hash(t, "root"), TelegramID: boundTo(100)},
	)
	a := NewAuthenticator(store, &stubNotifier{fail: true}, nil)

	_, err := a.Authenticate(context.Background(), FlowAdmin, "boss", "root", Caller{ChannelID: 100})
	assert.NoError(t, err)
}

func TestEvict(t *testing.T) {
	store := newStubStore(
		models.Account{ID: 2, Login: "seller", Role: constants.ROLE_SELLER, TelegramID: boundTo(500)},
	)
	notifier := &stubNotifier{}
	a := NewAuthenticator(store, notifier, nil)

	require.NoError(t, a.Evict(context.Background(), 500))
	assert.Equal(t, []sentMessage{{500, constants.MSG_KICKED_NOTICE}}, notifier.sent)

	_, err := a.Resolve(context.Background(), 500)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, a.Evict(context.Background(), 500), apperr.ErrNotFound)
}

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("abc")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	h, err := HashPassword("abcd")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "abcd"))
	assert.False(t, CheckPassword(h, "abce"))
}
