package task

import (
	"context"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/modules/feed"
	"taskmanager/internal/pkg/apperr"
	"taskmanager/internal/pkg/validator"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, t *domain.Task) error
	ListByOwner(ctx context.Context, ownerID string, listID *string) ([]domain.Task, error)
	GetForOwner(ctx context.Context, id, ownerID string) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error)
}

// ListLookup confirms that a list belongs to the caller.
type ListLookup interface {
	GetForOwner(ctx context.Context, id, ownerID string) (*domain.List, error)
}

// Notifier receives every task mutation. *feed.Hub implements it.
type Notifier interface {
	Publish(userID string, event feed.Event) bool
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, feed.Event) bool { return false }

type Service struct {
	tasks    Repository
	lists    ListLookup
	notifier Notifier
	now      func() time.Time
	log      *zap.Logger
}

func NewService(tasks Repository, lists ListLookup, notifier Notifier, log *zap.Logger) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Service{
		tasks:    tasks,
		lists:    lists,
		notifier: notifier,
		now:      time.Now,
		log:      log.Named("task"),
	}
}

// List returns the owner's tasks, or only those of one list when listID is
// set. A list the owner does not have simply yields no tasks.
func (s *Service) List(ctx context.Context, ownerID string, listID *string) ([]domain.Task, error) {
	if listID != nil && !validator.ValidID(*listID) {
		return nil, validator.InvalidID("listId", *listID)
	}
	tasks, err := s.tasks.ListByOwner(ctx, ownerID, listID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tasks, nil
}

func (s *Service) Create(ctx context.Context, ownerID string, req CreateTaskRequest) (*domain.Task, error) {
	if err := s.checkList(ctx, ownerID, req.ListID); err != nil {
		return nil, err
	}

	t := &domain.Task{
		OwnerID:     ownerID,
		ListID:      req.ListID,
		Text:        req.Text,
		IsImportant: req.IsImportant,
	}
	if req.Note != nil {
		t.Note = *req.Note
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}

	s.notifier.Publish(ownerID, feed.TaskCreated(t))
	return t, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	t, err := s.tasks.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

// Update applies the present fields. Marking a task done stamps its
// completion date; marking it undone clears the date.
func (s *Service) Update(ctx context.Context, ownerID, id string, req UpdateTaskRequest) (*domain.Task, error) {
	t, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.ListID != nil {
		if *req.ListID == "" {
			t.ListID = nil
		} else {
			if !validator.ValidID(*req.ListID) {
				return nil, validator.InvalidID("listId", *req.ListID)
			}
			if err := s.checkList(ctx, ownerID, req.ListID); err != nil {
				return nil, err
			}
			t.ListID = req.ListID
		}
	}
	if req.Text != nil {
		t.Text = *req.Text
	}
	if req.Note != nil {
		t.Note = *req.Note
	}
	if req.IsImportant != nil {
		t.IsImportant = *req.IsImportant
	}
	if req.IsDone != nil && *req.IsDone != t.IsDone {
		t.SetDone(*req.IsDone, s.now().UTC())
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}

	s.notifier.Publish(ownerID, feed.TaskUpdated(t))
	return t, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.tasks.DeleteForOwner(ctx, id, ownerID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return ErrTaskNotFound
	}

	s.notifier.Publish(ownerID, feed.TaskDeleted(id))
	return nil
}

func (s *Service) checkList(ctx context.Context, ownerID string, listID *string) error {
	if listID == nil {
		return nil
	}
	l, err := s.lists.GetForOwner(ctx, *listID, ownerID)
	if err != nil {
		return apperr.Internal(err)
	}
	if l == nil {
		s.log.Debug("task references foreign list", zap.String("user_id", ownerID), zap.String("list_id", *listID))
		return ErrListNotFound
	}
	return nil
}
