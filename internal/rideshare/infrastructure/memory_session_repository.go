package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
)

// InMemorySessionRepository keeps sessions for the life of the process. It is
// what the BFF uses when no database is configured.
type InMemorySessionRepository struct {
	mu     sync.RWMutex
	data   map[string]domain.Session
	logger pkgApp.AppLogger
	now    func() time.Time
}

func NewInMemorySessionRepository(logger pkgApp.AppLogger) *InMemorySessionRepository {
	return &InMemorySessionRepository{
		data:   make(map[string]domain.Session),
		logger: logger,
		now:    time.Now,
	}
}

func (r *InMemorySessionRepository) Save(ctx context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[session.Token] = session
	pkgApp.LogDebug(ctx, r.logger, "session saved", map[string]interface{}{
		"user_id": session.UserID,
	})
	return nil
}

func (r *InMemorySessionRepository) FindByToken(_ context.Context, token string) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.data[token]
	if !exists {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *InMemorySessionRepository) UpdateActiveTab(ctx context.Context, token string, tab domain.Tab) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.data[token]
	if !exists {
		return domain.ErrSessionNotFound
	}
	session.ActiveTab = tab
	session.UpdatedAt = r.now().UTC()
	r.data[token] = session

	pkgApp.LogDebug(ctx, r.logger, "session tab updated", map[string]interface{}{
		"user_id": session.UserID,
		"tab":     tab,
	})
	return nil
}

func (r *InMemorySessionRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.data[token]
	if !exists {
		return domain.ErrSessionNotFound
	}
	delete(r.data, token)

	pkgApp.LogDebug(ctx, r.logger, "session deleted", map[string]interface{}{
		"user_id": session.UserID,
	})
	return nil
}

// Len reports how many sessions are open.
func (r *InMemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
