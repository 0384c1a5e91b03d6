package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"orderbot/internal/constants"
)

// chatLock удаляется из карты, когда его больше никто не ждет.
type chatLock struct {
	mu   sync.Mutex
	refs int
}

type chatSession struct {
	state        string
	order        *WorkingOrder
	scratch      FormScratch
	lastActivity time.Time
}

// SessionManager управляет состояниями пользователей и незавершенными заказами.
// SessionManager manages per-chat dialog state, the working order and dialog scratch data.
// Sessions live in memory only and are dropped after an idle TTL by the janitor.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[int64]*chatSession

	locksMu sync.Mutex
	locks   map[int64]*chatLock

	now    func() time.Time
	logger *zap.Logger
}

// NewSessionManager создает и возвращает новый экземпляр SessionManager.
func NewSessionManager(logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		sessions: make(map[int64]*chatSession),
		locks:    make(map[int64]*chatLock),
		now:      time.Now,
		logger:   logger,
	}
}

// session возвращает сессию чата, создавая ее при необходимости. Вызывать под sm.mu.Lock.
func (sm *SessionManager) session(chatID int64) *chatSession {
	s, ok := sm.sessions[chatID]
	if !ok {
		s = &chatSession{state: constants.STATE_IDLE}
		sm.sessions[chatID] = s
	}
	s.lastActivity = sm.now()
	return s
}

// LockChat serializes update handling for one chat. Call the returned func to release.
// Апдейты одного чата никогда не обрабатываются одновременно; порядок задает очередь в handlers.
func (sm *SessionManager) LockChat(chatID int64) func() {
	sm.locksMu.Lock()
	l, ok := sm.locks[chatID]
	if !ok {
		l = &chatLock{}
		sm.locks[chatID] = l
	}
	l.refs++
	sm.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		sm.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(sm.locks, chatID)
		}
		sm.locksMu.Unlock()
	}
}

// --- Состояние диалога ---

// GetState возвращает текущее состояние пользователя.
// Если состояние для пользователя не установлено, возвращает STATE_IDLE.
func (sm *SessionManager) GetState(chatID int64) string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[chatID]
	if !ok {
		return constants.STATE_IDLE
	}
	return s.state
}

// SetState устанавливает новое состояние для пользователя.
func (sm *SessionManager) SetState(chatID int64, state string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.session(chatID).state = state
	sm.logger.Debug("состояние установлено", zap.Int64("chat_id", chatID), zap.String("state", state))
}

// ClearState сбрасывает состояние пользователя к STATE_IDLE.
func (sm *SessionManager) ClearState(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.session(chatID).state = constants.STATE_IDLE
	sm.logger.Debug("состояние сброшено", zap.Int64("chat_id", chatID))
}

// --- Незавершенный заказ ---

// GetOrder returns a copy of the chat's working order, creating an empty one on first use.
// Изменения копии нужно сохранить через UpdateOrder.
func (sm *SessionManager) GetOrder(chatID int64) *WorkingOrder {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	s := sm.session(chatID)
	if s.order == nil {
		s.order = NewWorkingOrder()
	}
	return s.order.Clone()
}

// UpdateOrder сохраняет копию заказа в сессии.
func (sm *SessionManager) UpdateOrder(chatID int64, order *WorkingOrder) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.session(chatID).order = order.Clone()
}

// ClearOrder удаляет незавершенный заказ чата.
func (sm *SessionManager) ClearOrder(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.session(chatID).order = nil
	sm.logger.Debug("заказ удален из сессии", zap.Int64("chat_id", chatID))
}

// --- Данные служебных диалогов ---

// GetScratch возвращает промежуточные ответы служебного диалога.
func (sm *SessionManager) GetScratch(chatID int64) FormScratch {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.session(chatID).scratch
}

// UpdateScratch сохраняет промежуточные ответы служебного диалога.
func (sm *SessionManager) UpdateScratch(chatID int64, scratch FormScratch) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.session(chatID).scratch = scratch
}

// ClearScratch очищает промежуточные ответы.
func (sm *SessionManager) ClearScratch(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.session(chatID).scratch = FormScratch{}
}

// Reset сбрасывает состояние, заказ и промежуточные данные чата.
func (sm *SessionManager) Reset(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, chatID)
}

// --- Очистка неактивных сессий ---

// EvictIdle drops sessions whose last activity is older than ttl and returns how many were dropped.
// Chats with an update in flight are skipped.
func (sm *SessionManager) EvictIdle(now time.Time, ttl time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.locksMu.Lock()
	defer sm.locksMu.Unlock()

	evicted := 0
	for chatID, s := range sm.sessions {
		if now.Sub(s.lastActivity) < ttl {
			continue
		}
		if _, busy := sm.locks[chatID]; busy {
			continue
		}
		delete(sm.sessions, chatID)
		evicted++
	}
	return evicted
}

// RunJanitor периодически удаляет неактивные сессии, пока не отменен ctx.
func (sm *SessionManager) RunJanitor(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := sm.EvictIdle(sm.now(), ttl); n > 0 {
				sm.logger.Info("удалены неактивные сессии", zap.Int("count", n), zap.Duration("ttl", ttl))
			}
		}
	}
}
