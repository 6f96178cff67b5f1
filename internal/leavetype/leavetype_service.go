package leavetype

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

	"go-portal/internal/employee"
	leavetypeerrors "go-portal/internal/leavetype/errors"
)

const catalogCacheKey = "leavetypes:catalog"

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, id string) error
	// ListEligibleFor filters the active catalog by the employee's gender and
	// tenure gates. Types failing a gate are invisible to that employee.
	ListEligibleFor(ctx context.Context, emp *employee.Employee) ([]LeaveTypeResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("create leave type requested", zap.String("code", req.Code))

	exists, err := s.repo.CodeExists(ctx, req.Code)
	if err != nil {
		s.logger.Error("create leave type code check failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	if exists {
		s.logger.Warn("create leave type duplicate code", zap.String("code", req.Code))
		return LeaveTypeResponse{}, leavetypeerrors.ErrDuplicateCode
	}

	if !req.AllowCarryover && req.MaxCarryoverDays > 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrCarryoverDisabled
	}

	t := &LeaveType{
		ID:               uuid.New(),
		Code:             req.Code,
		Name:             req.Name,
		DefaultBalance:   req.DefaultBalance,
		IsUnlimited:      req.IsUnlimited,
		IsPaid:           req.IsPaid,
		AllowHalfDay:     req.AllowHalfDay,
		AllowCarryover:   req.AllowCarryover,
		MaxCarryoverDays: req.MaxCarryoverDays,
		RequireApproval:  req.RequireApproval,
		AllowedGender:    req.AllowedGender,
		RequiredWorkDays: req.RequiredWorkDays,
		DisplayOrder:     req.DisplayOrder,
		IsActive:         true,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateCatalogCache(ctx)
	s.logger.Info("create leave type success", zap.String("code", t.Code))
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, catalogCacheKey).Result(); err == nil {
			var resp []LeaveTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(catalogCacheKey, func() (interface{}, error) {
		types, err := s.repo.FindAll(ctx, false)
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(types)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, catalogCacheKey, jsonData, 1*time.Hour)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("update leave type requested", zap.String("leave_type_id", id))

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	if !req.AllowCarryover && req.MaxCarryoverDays > 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrCarryoverDisabled
	}

	t.Name = req.Name
	t.DefaultBalance = req.DefaultBalance
	t.IsUnlimited = req.IsUnlimited
	t.IsPaid = req.IsPaid
	t.AllowHalfDay = req.AllowHalfDay
	t.AllowCarryover = req.AllowCarryover
	t.MaxCarryoverDays = req.MaxCarryoverDays
	t.RequireApproval = req.RequireApproval
	t.AllowedGender = req.AllowedGender
	t.RequiredWorkDays = req.RequiredWorkDays
	t.DisplayOrder = req.DisplayOrder
	t.IsActive = req.IsActive

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("update leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateCatalogCache(ctx)
	s.logger.Info("update leave type success", zap.String("code", t.Code))
	return mapToResponse(*t), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leavetypeerrors.ErrInvalidLeaveTypeID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete leave type failed", zap.String("leave_type_id", id), zap.Error(err))
		return err
	}
	s.invalidateCatalogCache(ctx)
	s.logger.Info("delete leave type success", zap.String("leave_type_id", id))
	return nil
}

func (s *service) ListEligibleFor(ctx context.Context, emp *employee.Employee) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}

	tenureDays := emp.TenureDays(time.Now().UTC())
	eligible := make([]LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		if !t.EligibleFor(emp.Gender, tenureDays) {
			continue
		}
		eligible = append(eligible, mapToResponse(t))
	}
	return eligible, nil
}

func (s *service) invalidateCatalogCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate leave type catalog cache",
			zap.Error(err),
			zap.String("key", catalogCacheKey),
		)
	}
}

func mapToResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:               t.ID.String(),
		Code:             t.Code,
		Name:             t.Name,
		DefaultBalance:   t.DefaultBalance,
		IsUnlimited:      t.IsUnlimited,
		IsPaid:           t.IsPaid,
		AllowHalfDay:     t.AllowHalfDay,
		AllowCarryover:   t.AllowCarryover,
		MaxCarryoverDays: t.MaxCarryoverDays,
		RequireApproval:  t.RequireApproval,
		AllowedGender:    t.AllowedGender,
		RequiredWorkDays: t.RequiredWorkDays,
		DisplayOrder:     t.DisplayOrder,
		IsActive:         t.IsActive,
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, t := range types {
		resp[i] = mapToResponse(t)
	}
	return resp
}
