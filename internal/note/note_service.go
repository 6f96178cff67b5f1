package note

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	noteerrors "go-portal/internal/note/errors"
	"go-portal/internal/shared/apperror"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req UpsertNoteRequest) (NoteResponse, error)
	List(ctx context.Context, ownerID string) ([]NoteResponse, error)
	Update(ctx context.Context, id, ownerID string, req UpsertNoteRequest) (NoteResponse, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("note.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("note.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, ownerID string, req UpsertNoteRequest) (NoteResponse, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return NoteResponse{}, apperror.InvalidField("owner id")
	}
	n := &Note{
		ID:      uuid.New(),
		OwnerID: ownerUUID,
		Title:   req.Title,
		Body:    req.Body,
		Color:   req.Color,
	}
	if n.Color == "" {
		n.Color = "default"
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("create note persist failed", zap.Error(err))
		return NoteResponse{}, err
	}
	return mapToResponse(*n), nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]NoteResponse, error) {
	list, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	resp := make([]NoteResponse, len(list))
	for i, n := range list {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id, ownerID string, req UpsertNoteRequest) (NoteResponse, error) {
	n, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NoteResponse{}, noteerrors.ErrNoteNotFound
		}
		return NoteResponse{}, err
	}
	n.Title = req.Title
	n.Body = req.Body
	if req.Color != "" {
		n.Color = req.Color
	}
	if err := s.repo.Update(ctx, n); err != nil {
		return NoteResponse{}, err
	}
	return mapToResponse(*n), nil
}

func (s *service) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.repo.FindByIDAndOwner(ctx, id, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return noteerrors.ErrNoteNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id, ownerID)
}

func mapToResponse(n Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Body:      n.Body,
		Color:     n.Color,
		UpdatedAt: n.UpdatedAt.Format(time.RFC3339),
	}
}
