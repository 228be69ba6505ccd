package repository

import (
	"context"
	"errors"

	"taskmanager/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListRepository scopes every read and write to the owning user.
type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) Create(ctx context.Context, l *domain.List) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *ListRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.List, error) {
	lists := []domain.List{}
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("creation_date ASC").
		Find(&lists).Error
	return lists, err
}

// GetForOwner returns nil, nil when the list does not exist or belongs to
// someone else.
func (r *ListRepository) GetForOwner(ctx context.Context, id, ownerID string) (*domain.List, error) {
	var l domain.List
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *ListRepository) UpdateLabel(ctx context.Context, l *domain.List) error {
	return r.db.WithContext(ctx).
		Model(&domain.List{}).
		Where("id = ? AND owner_id = ?", l.ID, l.OwnerID).
		Update("label", l.Label).Error
}

// DeleteForOwner removes the list together with its tasks. It reports false
// when there was nothing to delete.
func (r *ListRepository) DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&domain.List{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("list_id = ? AND owner_id = ?", id, ownerID).Delete(&domain.Task{}).Error
	})
	return deleted, err
}
