package repository

import (
	"context"
	"errors"

	"taskmanager/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskRepository scopes every read and write to the owning user.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(t).Error
}

// ListByOwner returns the owner's tasks, restricted to one list when listID
// is not nil.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string, listID *string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if listID != nil {
		q = q.Where("list_id = ?", *listID)
	}
	err := q.Order("creation_date ASC").Find(&tasks).Error
	return tasks, err
}

// GetForOwner returns nil, nil when the task does not exist or belongs to
// someone else.
func (r *TaskRepository) GetForOwner(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Update writes every mutable column of t.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Select("list_id", "text", "note", "is_important", "is_done", "completion_date").
		Updates(t).Error
}

// DeleteForOwner reports false when there was nothing to delete.
func (r *TaskRepository) DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&domain.Task{})
	return res.RowsAffected > 0, res.Error
}
