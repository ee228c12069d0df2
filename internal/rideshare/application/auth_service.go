package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/composer"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/reconciler"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
)

// AuthService signs users in and keeps their sessions. Sign-in is guarded per
// email address so a double tap never creates two accounts.
type AuthService struct {
	gateway  domain.Gateway
	sessions domain.SessionRepository
	guards   *reconciler.GuardRegistry
	logger   pkgApp.AppLogger
	now      func() time.Time
}

func NewAuthService(gateway domain.Gateway, sessions domain.SessionRepository, guards *reconciler.GuardRegistry, logger pkgApp.AppLogger) *AuthService {
	if guards == nil {
		guards = reconciler.NewGuardRegistry()
	}
	if logger == nil {
		logger = pkgApp.NopLogger{}
	}
	return &AuthService{
		gateway:  gateway,
		sessions: sessions,
		guards:   guards,
		logger:   logger,
		now:      time.Now,
	}
}

// Authenticate logs in or registers and opens a session on the search tab.
func (s *AuthService) Authenticate(ctx context.Context, mode domain.AuthMode, creds domain.Credentials) (domain.AuthResult, error) {
	req, err := composer.BuildAuthRequest(mode, creds)
	if err != nil {
		return domain.AuthResult{}, err
	}

	key := "auth:" + strings.ToLower(req.Credentials.Email)
	var result domain.AuthResult
	err = s.guards.Run(ctx, key, reconciler.ActionAuth, string(req.Mode), func(ctx context.Context) error {
		res, err := s.gateway.Authenticate(ctx, req)
		if err != nil {
			pkgApp.LogWarn(ctx, s.logger, "authentication failed", err, map[string]interface{}{"mode": req.Mode})
			return err
		}
		session := domain.Session{
			Token:     res.Token,
			UserID:    res.User.ID,
			UserName:  res.User.Name,
			ActiveTab: domain.TabSearch,
			UpdatedAt: s.now().UTC(),
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			pkgApp.LogError(ctx, s.logger, "error saving session", err, map[string]interface{}{"user_id": session.UserID})
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.AuthResult{}, err
	}

	pkgApp.LogInfo(ctx, s.logger, "user signed in", map[string]interface{}{"user_id": result.User.ID, "mode": req.Mode})
	return result, nil
}

// Bootstrap checks a stored token with the API. A token the API rejects is
// forgotten; any other failure leaves the session alone.
func (s *AuthService) Bootstrap(ctx context.Context, token string) (domain.User, domain.Session, error) {
	if token == "" {
		return domain.User{}, domain.Session{}, domain.ErrSessionNotFound
	}

	user, err := s.gateway.CurrentUser(domain.ContextWithToken(ctx, token))
	if err != nil {
		var remote *domain.RemoteError
		if errors.As(err, &remote) && remote.Unauthorized() {
			pkgApp.LogInfo(ctx, s.logger, "stored token rejected, dropping session", nil)
			s.forget(ctx, token)
		}
		return domain.User{}, domain.Session{}, err
	}

	session, err := s.sessions.FindByToken(ctx, token)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		session = domain.Session{Token: token, UserID: user.ID, UserName: user.Name, ActiveTab: domain.TabSearch, UpdatedAt: s.now().UTC()}
		if err := s.sessions.Save(ctx, session); err != nil {
			return domain.User{}, domain.Session{}, err
		}
	case err != nil:
		return domain.User{}, domain.Session{}, err
	}
	return user, session, nil
}

// Session looks a token up without calling the API.
func (s *AuthService) Session(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return s.sessions.FindByToken(ctx, token)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return nil
}

// ActiveTab is the tab the user last had open, search by default.
func (s *AuthService) ActiveTab(ctx context.Context, token string) (domain.Tab, error) {
	session, err := s.Session(ctx, token)
	if err != nil {
		return "", err
	}
	if !session.ActiveTab.Valid() {
		return domain.TabSearch, nil
	}
	return session.ActiveTab, nil
}

func (s *AuthService) SetActiveTab(ctx context.Context, token string, tab domain.Tab) error {
	if !tab.Valid() {
		return domain.ErrInvalidTab
	}
	return s.sessions.UpdateActiveTab(ctx, token, tab)
}

func (s *AuthService) forget(ctx context.Context, token string) {
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		pkgApp.LogWarn(ctx, s.logger, "error deleting session", err, nil)
	}
}
