package announcement

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	announcementerrors "go-portal/internal/announcement/errors"
	"go-portal/internal/shared/apperror"
)

const feedCacheKey = "announcements:feed"

type Service interface {
	Create(ctx context.Context, authorID string, req CreateAnnouncementRequest) (AnnouncementResponse, error)
	List(ctx context.Context) ([]AnnouncementResponse, error)
	Update(ctx context.Context, id string, req UpdateAnnouncementRequest) (AnnouncementResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("announcement.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("announcement.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, authorID string, req CreateAnnouncementRequest) (AnnouncementResponse, error) {
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return AnnouncementResponse{}, apperror.InvalidField("author id")
	}
	a := &Announcement{
		ID:          uuid.New(),
		AuthorID:    authorUUID,
		Title:       req.Title,
		Body:        req.Body,
		Pinned:      req.Pinned,
		PublishedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("create announcement persist failed", zap.Error(err))
		return AnnouncementResponse{}, err
	}
	s.invalidateCache(ctx)
	return mapToResponse(*a), nil
}

func (s *service) List(ctx context.Context) ([]AnnouncementResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, feedCacheKey).Result(); err == nil {
			var resp []AnnouncementResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(feedCacheKey, func() (any, error) {
		list, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		resp := make([]AnnouncementResponse, len(list))
		for i, a := range list {
			resp[i] = mapToResponse(a)
		}
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, feedCacheKey, jsonData, 5*time.Minute)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]AnnouncementResponse), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateAnnouncementRequest) (AnnouncementResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AnnouncementResponse{}, announcementerrors.ErrAnnouncementNotFound
		}
		return AnnouncementResponse{}, err
	}
	a.Title = req.Title
	a.Body = req.Body
	a.Pinned = req.Pinned
	if err := s.repo.Update(ctx, a); err != nil {
		return AnnouncementResponse{}, err
	}
	s.invalidateCache(ctx)
	return mapToResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return announcementerrors.ErrAnnouncementNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, feedCacheKey).Err(); err != nil {
		s.logger.Warn("announcement cache invalidation failed", zap.Error(err))
	}
}

func mapToResponse(a Announcement) AnnouncementResponse {
	resp := AnnouncementResponse{
		ID:          a.ID.String(),
		Title:       a.Title,
		Body:        a.Body,
		Pinned:      a.Pinned,
		PublishedAt: a.PublishedAt.Format(time.RFC3339),
	}
	if a.Author != nil {
		resp.AuthorName = a.Author.FullName
	}
	return resp
}
