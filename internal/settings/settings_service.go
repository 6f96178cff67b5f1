package settings

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	settingserrors "go-portal/internal/settings/errors"
)

const settingsCacheKey = "settings:global"

//go:generate mockgen -source=settings_service.go -destination=mock/settings_service_mock.go -package=mock
type Service interface {
	// Get is read by every workflow component; it is cached because the
	// singleton row changes rarely but is consulted on every mutation.
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
	GetResponse(ctx context.Context) (SettingsResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("settings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settings.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Get(ctx context.Context) (Settings, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, settingsCacheKey).Result(); err == nil {
			var settings Settings
			if json.Unmarshal([]byte(cached), &settings) == nil {
				return settings, nil
			}
		}
	}

	v, err, _ := s.sf.Do(settingsCacheKey, func() (interface{}, error) {
		settings, err := s.repo.Find(ctx)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(settings); err == nil {
				s.rdb.Set(ctx, settingsCacheKey, jsonData, 10*time.Minute)
			}
		}
		return *settings, nil
	})
	if err != nil {
		return Settings{}, err
	}
	return v.(Settings), nil
}

func (s *service) GetResponse(ctx context.Context) (SettingsResponse, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return SettingsResponse{}, err
	}
	return mapToResponse(settings), nil
}

func (s *service) Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error) {
	s.logger.Debug("update settings requested")

	hours, err := decimal.NewFromString(req.WorkHoursPerDay)
	if err != nil || hours.LessThanOrEqual(decimal.Zero) || hours.GreaterThan(decimal.NewFromInt(24)) {
		return SettingsResponse{}, settingserrors.ErrInvalidWorkHours
	}

	settings, err := s.repo.Find(ctx)
	if err != nil {
		s.logger.Error("update settings load failed", zap.Error(err))
		return SettingsResponse{}, err
	}

	settings.MaxConsecutiveLeaveDays = req.MaxConsecutiveLeaveDays
	settings.WorkHoursPerDay = hours
	settings.CarryoverCap = req.CarryoverCap
	settings.ChatEnabled = req.ChatEnabled
	settings.ReservationApprovalRequired = req.ReservationApprovalRequired

	if err := s.repo.Save(ctx, settings); err != nil {
		s.logger.Error("update settings persist failed", zap.Error(err))
		return SettingsResponse{}, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, settingsCacheKey).Err(); err != nil {
			s.logger.Error("failed to invalidate settings cache",
				zap.Error(err),
				zap.String("key", settingsCacheKey),
			)
		}
	}

	s.logger.Info("update settings success")
	return mapToResponse(*settings), nil
}

func mapToResponse(s Settings) SettingsResponse {
	return SettingsResponse{
		MaxConsecutiveLeaveDays:     s.MaxConsecutiveLeaveDays,
		WorkHoursPerDay:             s.WorkHoursPerDay.String(),
		CarryoverCap:                s.CarryoverCap,
		ChatEnabled:                 s.ChatEnabled,
		ReservationApprovalRequired: s.ReservationApprovalRequired,
	}
}
