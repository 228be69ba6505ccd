package list

import (
	"context"

	"taskmanager/internal/domain"
	"taskmanager/internal/pkg/apperr"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, l *domain.List) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.List, error)
	GetForOwner(ctx context.Context, id, ownerID string) (*domain.List, error)
	UpdateLabel(ctx context.Context, l *domain.List) error
	DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error)
}

// Service is list CRUD scoped to the calling user. Lists of other users are
// indistinguishable from lists that do not exist.
type Service struct {
	lists Repository
	log   *zap.Logger
}

func NewService(lists Repository, log *zap.Logger) *Service {
	return &Service{lists: lists, log: log.Named("list")}
}

func (s *Service) Create(ctx context.Context, ownerID string, req CreateListRequest) (*domain.List, error) {
	l := &domain.List{OwnerID: ownerID, Label: req.Label}
	if err := s.lists.Create(ctx, l); err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Debug("list created", zap.String("user_id", ownerID), zap.String("list_id", l.ID))
	return l, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]domain.List, error) {
	lists, err := s.lists.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return lists, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.List, error) {
	l, err := s.lists.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if l == nil {
		return nil, ErrListNotFound
	}
	return l, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, req UpdateListRequest) (*domain.List, error) {
	l, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	l.Label = req.Label
	if err := s.lists.UpdateLabel(ctx, l); err != nil {
		return nil, apperr.Internal(err)
	}
	return l, nil
}

// Delete removes the list and every task in it.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.lists.DeleteForOwner(ctx, id, ownerID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return ErrListNotFound
	}
	s.log.Debug("list deleted", zap.String("user_id", ownerID), zap.String("list_id", id))
	return nil
}
