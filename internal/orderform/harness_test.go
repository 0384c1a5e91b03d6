package orderform

import (
	"context"
	"time"

	"orderbot/internal/commit"
	"orderbot/internal/models"
	"orderbot/internal/pricing"
	"orderbot/internal/session"
)

// recordingCommitter сохраняет заказы в память; failures > 0 означает столько неудачных попыток подряд.
type recordingCommitter struct {
	failures  int
	committed []models.PersistedOrder
}

func (c *recordingCommitter) Commit(_ context.Context, acct models.Account, order *session.WorkingOrder) (models.PersistedOrder, error) {
	if c.failures > 0 {
		c.failures--
		return models.PersistedOrder{}, errStore
	}
	saved := commit.BuildOrder(acct, order, time.Now())
	saved.ID = int64(len(c.committed) + 1)
	c.committed = append(c.committed, saved)
	return saved, nil
}

type harness struct {
	sessions  *session.SessionManager
	committer *recordingCommitter
	machine   *Machine
	acct      models.Account
	chatID    int64
	last      Result
}

func newHarness() *harness {
	sessions := session.NewSessionManager(nil)
	committer := &recordingCommitter{}
	return &harness{
		sessions:  sessions,
		committer: committer,
		machine:   NewMachine(sessions, pricing.NewCalculator(pricing.DefaultCatalog()), committer, nil),
		acct:      models.Account{ID: 5, Login: "seller1", Role: "sotuvchi"},
		chatID:    1001,
	}
}

func (h *harness) start() Result {
	h.last = h.machine.Start(h.chatID)
	return h.last
}

func (h *harness) send(inputs ...string) (Result, error) {
	var err error
	for _, in := range inputs {
		h.last, err = h.machine.Handle(context.Background(), h.chatID, h.acct, in)
		if err != nil {
			return h.last, err
		}
	}
	return h.last, nil
}

func (h *harness) state() string {
	return h.sessions.GetState(h.chatID)
}

func (h *harness) order() *session.WorkingOrder {
	return h.sessions.GetOrder(h.chatID)
}

func (h *harness) lastText() string {
	if len(h.last.Replies) == 0 {
		return ""
	}
	return h.last.Replies[len(h.last.Replies)-1].Text
}

var customerDetails = []string{"Ali", "Valiyev", "901234567", "Andijon", "Navoiy ko'chasi 5", "Bugun"}
