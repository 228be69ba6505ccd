package repository

import (
	"context"
	"errors"
	"time"

	"taskmanager/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RefreshTokenRepository keeps one refresh session per user in SQL.
type RefreshTokenRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db, now: time.Now}
}

// Save inserts or overwrites the user's record in a single statement, so
// concurrent logins for the same user resolve to whichever write lands last.
func (r *RefreshTokenRepository) Save(ctx context.Context, userID, tokenHash string) (*domain.RefreshToken, error) {
	now := r.now().UTC()
	t := &domain.RefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token_hash", "updated_at"}),
	}).Create(t).Error
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete is a no-op when the user has no record.
func (r *RefreshTokenRepository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.RefreshToken{}).Error
}

// GetByUserID returns nil, nil when the user has no live session.
func (r *RefreshTokenRepository) GetByUserID(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// DeleteStaleBefore removes records not rotated since cutoff. Their tokens
// have expired, so they can no longer be refreshed anyway.
func (r *RefreshTokenRepository) DeleteStaleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff.UTC()).
		Delete(&domain.RefreshToken{})
	return res.RowsAffected, res.Error
}
