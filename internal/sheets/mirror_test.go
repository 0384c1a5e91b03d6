package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderbot/internal/models"
)

type stubResolver struct {
	calls int
	id    string
	err   error
}

func (s *stubResolver) ResolveSpreadsheetID(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.id, s.err
}

type stubAppender struct {
	ids  []string
	rows [][]interface{}
	err  error
}

func (s *stubAppender) AppendRows(_ context.Context, id string, rows [][]interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.ids = append(s.ids, id)
	s.rows = append(s.rows, rows...)
	return nil
}

func order() models.PersistedOrder {
	return models.PersistedOrder{
		ID:               11,
		Products:         "PREMIUM (190x80) - 1 ta - 1,368,000 so'm",
		TotalPrice:       decimal.NewFromInt(1368000),
		RemainingPayment: decimal.NewFromInt(1368000),
		CustomerName:     "Ali",
		OrderDate:        time.Date(2024, 12, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestMirrorResolvesOnceByName(t *testing.T) {
	resolver := &stubResolver{id: "sheet-1"}
	appender := &stubAppender{}
	m := NewMirror(resolver, appender, "", "Buyurtmalar", nil)

	acct := models.Account{Login: "ali", FullName: "Ali Karimov"}
	require.NoError(t, m.MirrorOrder(context.Background(), acct, order()))
	require.NoError(t, m.MirrorOrder(context.Background(), acct, order()))

	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, []string{"sheet-1", "sheet-1"}, appender.ids)
	require.Len(t, appender.rows, 2)
	assert.Equal(t, "ali", appender.rows[0][0])
	assert.Equal(t, "11", appender.rows[0][3])
}

func TestMirrorUsesConfiguredID(t *testing.T) {
	resolver := &stubResolver{}
	appender := &stubAppender{}
	m := NewMirror(resolver, appender, "fixed-id", "", nil)

	require.NoError(t, m.MirrorOrder(context.Background(), models.Account{}, order()))
	assert.Zero(t, resolver.calls)
	assert.Equal(t, []string{"fixed-id"}, appender.ids)
}

func TestMirrorRetriesResolutionAfterFailure(t *testing.T) {
	resolver := &stubResolver{err: ErrSpreadsheetNotFound}
	appender := &stubAppender{}
	m := NewMirror(resolver, appender, "", "Buyurtmalar", nil)

	err := m.MirrorOrder(context.Background(), models.Account{}, order())
	assert.ErrorIs(t, err, ErrSpreadsheetNotFound)

	resolver.err, resolver.id = nil, "sheet-2"
	require.NoError(t, m.MirrorOrder(context.Background(), models.Account{}, order()))
	assert.Equal(t, 2, resolver.calls)
}

func TestMirrorAppendFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	m := NewMirror(&stubResolver{id: "x"}, &stubAppender{err: boom}, "", "Buyurtmalar", nil)
	assert.ErrorIs(t, m.MirrorOrder(context.Background(), models.Account{}, order()), boom)
	assert.Equal(t, "google_sheets", m.Name())
}

func TestMirrorWithoutName(t *testing.T) {
	m := NewMirror(&stubResolver{}, &stubAppender{}, "", "", nil)
	assert.ErrorIs(t, m.MirrorOrder(context.Background(), models.Account{}, order()), ErrSpreadsheetNotFound)
}

func TestSpreadsheetQueryEscapesQuotes(t *testing.T) {
	q := spreadsheetQuery("Sotuv'lar")
	assert.Contains(t, q, `name = 'Sotuv\'lar'`)
	assert.Contains(t, q, "trashed = false")
}
