package infrastructure

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/pkg/application"
)

type gormSessionRepository struct {
	db     *gorm.DB
	logger application.AppLogger
}

// NewGormSessionRepository stores sessions in PostgreSQL, migrating the table
// on start.
func NewGormSessionRepository(dsn string, logger application.AppLogger) (domain.SessionRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return NewGormSessionRepositoryFromDB(db, logger)
}

func NewGormSessionRepositoryFromDB(db *gorm.DB, logger application.AppLogger) (domain.SessionRepository, error) {
	if err := db.AutoMigrate(&domain.Session{}); err != nil {
		return nil, err
	}
	return &gormSessionRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Save inserts the session or replaces the one with the same token.
func (r *gormSessionRepository) Save(ctx context.Context, session domain.Session) error {
	if err := r.db.WithContext(ctx).Save(&session).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to save session", err, map[string]interface{}{
			"user_id": session.UserID,
		})
		return err
	}

	application.LogDebug(ctx, r.logger, "session saved", map[string]interface{}{
		"user_id": session.UserID,
	})
	return nil
}

func (r *gormSessionRepository) FindByToken(ctx context.Context, token string) (domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		application.LogError(ctx, r.logger, "failed to find session", err, nil)
		return domain.Session{}, err
	}
	return session, nil
}

func (r *gormSessionRepository) UpdateActiveTab(ctx context.Context, token string, tab domain.Tab) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("token = ?", token).
		Updates(map[string]interface{}{"active_tab": tab, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		application.LogError(ctx, r.logger, "failed to update session tab", result.Error, map[string]interface{}{
			"tab": tab,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *gormSessionRepository) Delete(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&domain.Session{})
	if result.Error != nil {
		application.LogError(ctx, r.logger, "failed to delete session", result.Error, nil)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}

	application.LogDebug(ctx, r.logger, "session deleted", nil)
	return nil
}
