package leavebalance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-portal/internal/employee"
	leavebalanceerrors "go-portal/internal/leavebalance/errors"
	"go-portal/internal/leavetype"
	"go-portal/internal/settings"
)

//go:generate mockgen -source=leavebalance_service.go -destination=mock/leavebalance_service_mock.go -package=mock
type Service interface {
	// Compute derives the balance sheet for one employee and year. It is a
	// pure read: nothing is persisted, and the same inputs always produce
	// the same output.
	Compute(ctx context.Context, emp *employee.Employee, year int) ([]BalanceItem, error)
	UpsertOverride(ctx context.Context, req UpsertOverrideRequest) (OverrideResponse, error)
	DeleteOverride(ctx context.Context, employeeID, leaveTypeID string, year int) error
	ListOverrides(ctx context.Context, employeeID string, year int) ([]OverrideResponse, error)
}

type service struct {
	repo         Repository
	typeRepo     leavetype.Repository
	settingsServ settings.Service
	logger       *zap.Logger
}

func NewService(
	repo Repository,
	typeRepo leavetype.Repository,
	settingsService settings.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{
		repo:         repo,
		typeRepo:     typeRepo,
		settingsServ: settingsService,
		logger:       l,
	}
}

func (s *service) Compute(ctx context.Context, emp *employee.Employee, year int) ([]BalanceItem, error) {
	if year < 2000 || year > 2100 {
		return nil, leavebalanceerrors.ErrInvalidYear
	}

	types, err := s.typeRepo.FindAll(ctx, true)
	if err != nil {
		s.logger.Error("compute balances catalog load failed", zap.Error(err))
		return nil, err
	}

	tenureDays := emp.TenureDays(time.Now().UTC())
	employeeID := emp.ID.String()

	items := make([]BalanceItem, 0, len(types))
	for _, t := range types {
		if !t.EligibleFor(emp.Gender, tenureDays) {
			continue
		}

		total := float64(t.DefaultBalance)
		override, err := s.repo.FindOverride(ctx, employeeID, t.ID.String(), year)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("compute balances override load failed",
				zap.String("employee_id", employeeID),
				zap.String("leave_type_id", t.ID.String()),
				zap.Error(err),
			)
			return nil, err
		}
		if override != nil {
			if override.Balance != nil {
				total = float64(*override.Balance)
			}
			total += float64(override.CarriedOver) + float64(override.Adjustment)
		}

		usage, err := s.repo.FindApprovedUsage(ctx, employeeID, t.ID.String(), year)
		if err != nil {
			s.logger.Error("compute balances usage load failed",
				zap.String("employee_id", employeeID),
				zap.String("leave_type_id", t.ID.String()),
				zap.Error(err),
			)
			return nil, err
		}

		used := 0.0
		for _, u := range usage {
			used += u.Days()
		}

		item := BalanceItem{
			LeaveTypeID:   t.ID.String(),
			LeaveTypeCode: t.Code,
			LeaveTypeName: t.Name,
			Year:          year,
			IsUnlimited:   t.IsUnlimited,
			Total:         total,
			Used:          used,
		}
		if !t.IsUnlimited {
			remaining := total - used
			item.Remaining = &remaining
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *service) UpsertOverride(ctx context.Context, req UpsertOverrideRequest) (OverrideResponse, error) {
	s.logger.Debug("upsert balance override requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
	)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return OverrideResponse{}, leavebalanceerrors.ErrInvalidEmployeeID
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return OverrideResponse{}, leavebalanceerrors.ErrInvalidLeaveTypeID
	}

	t, err := s.typeRepo.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OverrideResponse{}, leavebalanceerrors.ErrInvalidLeaveTypeID
		}
		return OverrideResponse{}, err
	}

	if req.CarriedOver > 0 {
		cfg, err := s.settingsServ.Get(ctx)
		if err != nil {
			return OverrideResponse{}, err
		}
		limit := cfg.CarryoverCap
		if t.AllowCarryover && t.MaxCarryoverDays < limit {
			limit = t.MaxCarryoverDays
		}
		if !t.AllowCarryover || req.CarriedOver > limit {
			s.logger.Warn("carryover rejected",
				zap.Int("carried_over", req.CarriedOver),
				zap.Int("cap", limit),
				zap.Bool("allow_carryover", t.AllowCarryover),
			)
			return OverrideResponse{}, leavebalanceerrors.ErrCarryoverExceedsCap
		}
	}

	o := &BalanceOverride{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        req.Year,
		Balance:     req.Balance,
		CarriedOver: req.CarriedOver,
		Adjustment:  req.Adjustment,
		Notes:       req.Notes,
	}

	if err := s.repo.Upsert(ctx, o); err != nil {
		s.logger.Error("upsert balance override persist failed", zap.Error(err))
		return OverrideResponse{}, err
	}

	s.logger.Info("upsert balance override success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
	)
	return mapToResponse(*o), nil
}

// DeleteOverride resets the employee to the leave type's default balance.
func (s *service) DeleteOverride(ctx context.Context, employeeID, leaveTypeID string, year int) error {
	if _, err := uuid.Parse(employeeID); err != nil {
		return leavebalanceerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(leaveTypeID); err != nil {
		return leavebalanceerrors.ErrInvalidLeaveTypeID
	}

	if err := s.repo.Delete(ctx, employeeID, leaveTypeID, year); err != nil {
		s.logger.Error("delete balance override failed", zap.Error(err))
		return err
	}
	s.logger.Info("delete balance override success",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
	)
	return nil
}

func (s *service) ListOverrides(ctx context.Context, employeeID string, year int) ([]OverrideResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}
	overrides, err := s.repo.FindOverridesByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	resp := make([]OverrideResponse, len(overrides))
	for i, o := range overrides {
		resp[i] = mapToResponse(o)
	}
	return resp, nil
}

func mapToResponse(o BalanceOverride) OverrideResponse {
	return OverrideResponse{
		ID:          o.ID.String(),
		EmployeeID:  o.EmployeeID.String(),
		LeaveTypeID: o.LeaveTypeID.String(),
		Year:        o.Year,
		Balance:     o.Balance,
		CarriedOver: o.CarriedOver,
		Adjustment:  o.Adjustment,
		Notes:       o.Notes,
	}
}
