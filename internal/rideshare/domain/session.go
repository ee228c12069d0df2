package domain

import (
	"context"
	"time"
)

// Tab is a top-level screen of the app.
type Tab string

const (
	TabSearch   Tab = "search"
	TabRides    Tab = "rides"
	TabBookings Tab = "bookings"
	TabProfile  Tab = "profile"
)

func (t Tab) Valid() bool {
	switch t {
	case TabSearch, TabRides, TabBookings, TabProfile:
		return true
	default:
		return false
	}
}

// Session is what the BFF remembers about a signed-in user between requests:
// the token, who it belongs to and the last tab they had open.
type Session struct {
	Token     string    `json:"-" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"index"`
	UserName  string    `json:"userName"`
	ActiveTab Tab       `json:"activeTab"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SessionRepository interface {
	Save(ctx context.Context, session Session) error
	FindByToken(ctx context.Context, token string) (Session, error)
	UpdateActiveTab(ctx context.Context, token string, tab Tab) error
	Delete(ctx context.Context, token string) error
}

// Actor identifies who an operation is carried out for. Token is both the
// bearer credential sent upstream and the key the per-user guards hang off.
type Actor struct {
	Token  string `json:"-"`
	UserID string `json:"userId"`
}

type tokenKey struct{}

// ContextWithToken attaches the bearer token Gateway calls are made with.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
