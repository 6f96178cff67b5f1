package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	employeeerrors "go-portal/internal/employee/errors"
	"go-portal/internal/shared/contextutil"
	"go-portal/internal/shared/counter"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	// ResolveOrCreate is the only lazy creation path: it maps an authenticated
	// identity to its Employee row, allocating one on first login.
	ResolveOrCreate(ctx context.Context, userID string, profile CreateProfile) (*Employee, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	SetManagers(ctx context.Context, id string, req SetManagersRequest) (EmployeeResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, counter: counterRepo, logger: l}
}

func (s *service) ResolveOrCreate(ctx context.Context, userID string, profile CreateProfile) (*Employee, error) {
	rid := contextutil.GetRequestID(ctx)

	existing, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("resolve employee lookup failed", zap.String("request_id", rid), zap.Error(err))
		return nil, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}

	// First login for this identity: allocate the next employee number from
	// the atomic counter, so concurrent first logins never collide.
	nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
	if err != nil {
		s.logger.Error("generate employee number failed", zap.String("request_id", rid), zap.Error(err))
		return nil, err
	}

	e := &Employee{
		ID:             uuid.New(),
		UserID:         userUUID,
		EmployeeNumber: fmt.Sprintf("EMP-%06d", nextVal),
		FullName:       profile.FullName,
		Email:          profile.Email,
		Gender:         profile.Gender,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		// Lost a race against another first login for the same identity;
		// the unique index on user_id makes the other row authoritative.
		if again, lookupErr := s.repo.FindByUserID(ctx, userID); lookupErr == nil {
			return again, nil
		}
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("employee created on first login",
		zap.String("request_id", rid),
		zap.String("employee_id", e.ID.String()),
		zap.String("employee_number", e.EmployeeNumber),
	)

	return e, nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.String("employee_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	e.FullName = req.FullName
	e.Email = req.Email
	e.Gender = req.Gender
	if req.StartWorkDate != "" {
		startWork, parseErr := time.Parse("2006-01-02", req.StartWorkDate)
		if parseErr != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
		}
		e.StartWorkDate = &startWork
	} else {
		e.StartWorkDate = nil
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*e), nil
}

func (s *service) SetManagers(ctx context.Context, id string, req SetManagersRequest) (EmployeeResponse, error) {
	s.logger.Debug("set managers requested",
		zap.String("employee_id", id),
		zap.Int("manager_count", len(req.ManagerIDs)),
	)

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	managers := make([]Employee, 0, len(req.ManagerIDs))
	for _, managerID := range req.ManagerIDs {
		if managerID == id {
			return EmployeeResponse{}, employeeerrors.ErrSelfManager
		}
		m, err := s.repo.FindByID(ctx, managerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EmployeeResponse{}, employeeerrors.ErrInvalidManagerID
			}
			return EmployeeResponse{}, err
		}
		managers = append(managers, *m)
	}

	if err := s.repo.ReplaceManagers(ctx, e, managers); err != nil {
		s.logger.Error("replace managers failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}
	e.Managers = managers

	s.logger.Info("set managers success",
		zap.String("employee_id", id),
		zap.Int("manager_count", len(managers)),
	)
	return mapToResponse(*e), nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FullName:       e.FullName,
		Email:          e.Email,
		Gender:         e.Gender,
	}
	if e.StartWorkDate != nil {
		resp.StartWorkDate = e.StartWorkDate.Format("2006-01-02")
	}
	for _, m := range e.Managers {
		resp.Managers = append(resp.Managers, ManagerRef{
			ID:       m.ID.String(),
			FullName: m.FullName,
		})
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = mapToResponse(e)
	}
	return res
}
