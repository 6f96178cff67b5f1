package leaverequest_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-portal/internal/employee"
	"go-portal/internal/leaverequest"
	leaverequesterrors "go-portal/internal/leaverequest/errors"
	"go-portal/internal/leavetype"
	"go-portal/internal/messaging/kafka"
	"go-portal/internal/rbac"
	"go-portal/internal/settings"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRequestRepository struct {
	withTxFn                 func(tx *sql.Tx) leaverequest.Repository
	createFn                 func(ctx context.Context, l *leaverequest.LeaveRequest) error
	findByIDFn               func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error)
	findByEmployeeFn         func(ctx context.Context, employeeID string) ([]leaverequest.LeaveRequest, error)
	findAllFn                func(ctx context.Context) ([]leaverequest.LeaveRequest, error)
	findPendingForApproverFn func(ctx context.Context, approverID string) ([]leaverequest.LeaveRequest, error)
	lockEmployeeLeavesFn     func(ctx context.Context, employeeID string) error
	hasOverlappingPeriodFn   func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	lockRequestFn            func(ctx context.Context, id string) error
	getStatusFn              func(ctx context.Context, id string) (string, error)
	updateStatusFn           func(ctx context.Context, id, status string) error
	listApprovalsFn          func(ctx context.Context, requestID string) ([]leaverequest.Approval, error)
	recordDecisionFn         func(ctx context.Context, approvalID string, approved bool, comment string, respondedAt time.Time) error
	forceDecideAllFn         func(ctx context.Context, requestID string, approved bool, comment string, respondedAt time.Time) error
}

func (f *fakeLeaveRequestRepository) WithTx(tx *sql.Tx) leaverequest.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRequestRepository) Create(ctx context.Context, l *leaverequest.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRequestRepository) FindByID(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRequestRepository) FindByEmployee(ctx context.Context, employeeID string) ([]leaverequest.LeaveRequest, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRequestRepository) FindAll(ctx context.Context) ([]leaverequest.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRequestRepository) FindPendingForApprover(ctx context.Context, approverID string) ([]leaverequest.LeaveRequest, error) {
	if f.findPendingForApproverFn != nil {
		return f.findPendingForApproverFn(ctx, approverID)
	}
	return nil, nil
}

func (f *fakeLeaveRequestRepository) LockEmployeeLeaves(ctx context.Context, employeeID string) error {
	if f.lockEmployeeLeavesFn != nil {
		return f.lockEmployeeLeavesFn(ctx, employeeID)
	}
	return nil
}

func (f *fakeLeaveRequestRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, employeeID, startDate, endDate)
	}
	return false, nil
}

func (f *fakeLeaveRequestRepository) LockRequest(ctx context.Context, id string) error {
	if f.lockRequestFn != nil {
		return f.lockRequestFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRequestRepository) GetStatus(ctx context.Context, id string) (string, error) {
	if f.getStatusFn != nil {
		return f.getStatusFn(ctx, id)
	}
	return leaverequest.StatusPending, nil
}

func (f *fakeLeaveRequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeLeaveRequestRepository) ListApprovals(ctx context.Context, requestID string) ([]leaverequest.Approval, error) {
	if f.listApprovalsFn != nil {
		return f.listApprovalsFn(ctx, requestID)
	}
	return nil, nil
}

func (f *fakeLeaveRequestRepository) RecordDecision(ctx context.Context, approvalID string, approved bool, comment string, respondedAt time.Time) error {
	if f.recordDecisionFn != nil {
		return f.recordDecisionFn(ctx, approvalID, approved, comment, respondedAt)
	}
	return nil
}

func (f *fakeLeaveRequestRepository) ForceDecideAll(ctx context.Context, requestID string, approved bool, comment string, respondedAt time.Time) error {
	if f.forceDecideAllFn != nil {
		return f.forceDecideAllFn(ctx, requestID, approved, comment, respondedAt)
	}
	return nil
}

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) FindByUserID(ctx context.Context, userID string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepository) ReplaceManagers(ctx context.Context, e *employee.Employee, managers []employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) FindManagers(ctx context.Context, employeeID string) ([]employee.Employee, error) {
	return nil, nil
}

type fakeLeaveTypeRepository struct {
	findByCodeFn func(ctx context.Context, code string) (*leavetype.LeaveType, error)
}

func (f *fakeLeaveTypeRepository) WithTx(tx *sql.Tx) leavetype.Repository { return f }
func (f *fakeLeaveTypeRepository) Create(ctx context.Context, t *leavetype.LeaveType) error {
	return nil
}
func (f *fakeLeaveTypeRepository) FindAll(ctx context.Context, activeOnly bool) ([]leavetype.LeaveType, error) {
	return nil, nil
}
func (f *fakeLeaveTypeRepository) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeLeaveTypeRepository) FindByCode(ctx context.Context, code string) (*leavetype.LeaveType, error) {
	if f.findByCodeFn != nil {
		return f.findByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeLeaveTypeRepository) Update(ctx context.Context, t *leavetype.LeaveType) error {
	return nil
}
func (f *fakeLeaveTypeRepository) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeLeaveTypeRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return false, nil
}

type fakeSettingsService struct {
	cfg settings.Settings
}

func (f *fakeSettingsService) Get(ctx context.Context) (settings.Settings, error) {
	return f.cfg, nil
}
func (f *fakeSettingsService) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	return settings.SettingsResponse{}, nil
}
func (f *fakeSettingsService) GetResponse(ctx context.Context) (settings.SettingsResponse, error) {
	return settings.SettingsResponse{}, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveRequestServiceDeps struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	service      leaverequest.Service
	repo         *fakeLeaveRequestRepository
	employeeRepo *fakeEmployeeRepository
	typeRepo     *fakeLeaveTypeRepository
	outbox       *fakeOutboxRepository
}

func setupLeaveRequestServiceTest(t *testing.T) *leaveRequestServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRequestRepository{}
	employeeRepo := &fakeEmployeeRepository{}
	typeRepo := &fakeLeaveTypeRepository{}
	outbox := &fakeOutboxRepository{}
	settingsSvc := &fakeSettingsService{cfg: settings.Settings{
		MaxConsecutiveLeaveDays:     14,
		WorkHoursPerDay:             decimal.NewFromInt(8),
		ChatEnabled:                 true,
		ReservationApprovalRequired: true,
	}}
	rbacSvc, err := rbac.NewService()
	assert.NoError(t, err)

	svc := leaverequest.NewService(db, repo, employeeRepo, typeRepo, settingsSvc, outbox, rbacSvc)

	return &leaveRequestServiceDeps{
		db:           db,
		sqlMock:      sqlMock,
		service:      svc,
		repo:         repo,
		employeeRepo: employeeRepo,
		typeRepo:     typeRepo,
		outbox:       outbox,
	}
}

func boolPtr(v bool) *bool { return &v }

func testEmployee(managerCount int) *employee.Employee {
	e := &employee.Employee{
		ID:       uuid.New(),
		FullName: "Test Employee",
		Gender:   employee.GenderMale,
	}
	start := time.Now().UTC().AddDate(-1, 0, 0)
	e.StartWorkDate = &start
	for i := 0; i < managerCount; i++ {
		e.Managers = append(e.Managers, employee.Employee{ID: uuid.New()})
	}
	return e
}

func annualType() *leavetype.LeaveType {
	return &leavetype.LeaveType{
		ID:             uuid.New(),
		Code:           "ANNUAL",
		Name:           "Annual Leave",
		DefaultBalance: 12,
		AllowHalfDay:   true,
		IsActive:       true,
	}
}

func TestLeaveRequestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects start after end", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, uuid.New().String(), leaverequest.CreateLeaveRequest{
			TypeCode:  "ANNUAL",
			Reason:    "holiday",
			StartDate: "2026-02-10",
			EndDate:   "2026-02-08",
		})
		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidDateRange)
	})

	t.Run("rejects span over max consecutive days", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, uuid.New().String(), leaverequest.CreateLeaveRequest{
			TypeCode:  "ANNUAL",
			Reason:    "sabbatical",
			StartDate: "2026-02-01",
			EndDate:   "2026-02-20",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "14 consecutive days")
	})

	t.Run("rejects unknown type code", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, uuid.New().String(), leaverequest.CreateLeaveRequest{
			TypeCode:  "NOPE",
			Reason:    "holiday",
			StartDate: "2026-02-10",
			EndDate:   "2026-02-11",
		})
		assert.ErrorIs(t, err, leaverequesterrors.ErrUnknownLeaveType)
	})

	t.Run("rejects half day spanning multiple days", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findByCodeFn = func(ctx context.Context, code string) (*leavetype.LeaveType, error) {
			return annualType(), nil
		}
		created := false
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			created = true
			return nil
		}

		portion := leaverequest.HalfMorning
		_, err := deps.service.Create(ctx, uuid.New().String(), leaverequest.CreateLeaveRequest{
			TypeCode:       "ANNUAL",
			Reason:         "appointment",
			StartDate:      "2026-01-10",
			EndDate:        "2026-01-12",
			HalfDay:        true,
			HalfDayPortion: &portion,
		})
		assert.ErrorIs(t, err, leaverequesterrors.ErrHalfDayMultiDay)
		assert.False(t, created)
	})

	t.Run("accepts single-day half day", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findByCodeFn = func(ctx context.Context, code string) (*leavetype.LeaveType, error) {
			return annualType(), nil
		}
		emp := testEmployee(1)
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		portion := leaverequest.HalfAfternoon
		resp, err := deps.service.Create(ctx, emp.ID.String(), leaverequest.CreateLeaveRequest{
			TypeCode:       "ANNUAL",
			Reason:         "appointment",
			StartDate:      "2026-01-10",
			EndDate:        "2026-01-10",
			HalfDay:        true,
			HalfDayPortion: &portion,
		})
		assert.NoError(t, err)
		assert.True(t, resp.HalfDay)
	})

	t.Run("rejects insufficient tenure with worked and required days", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		required := 90
		lt := annualType()
		lt.Code = "BIRTHDAY"
		lt.RequiredWorkDays = &required
		deps.typeRepo.findByCodeFn = func(ctx context.Context, code string) (*leavetype.LeaveType, error) {
			return lt, nil
		}
		emp := testEmployee(1)
		today := time.Now().UTC()
		emp.StartWorkDate = &today
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}

		_, err := deps.service.Create(ctx, emp.ID.String(), leaverequest.CreateLeaveRequest{
			TypeCode:  "BIRTHDAY",
			Reason:    "birthday",
			StartDate: "2026-09-10",
			EndDate:   "2026-09-10",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "0 days worked / 90 required")
	})

	t.Run("rejects overlapping period", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findByCodeFn = func(ctx context.Context, code string) (*leavetype.LeaveType, error) {
			return annualType(), nil
		}
		emp := testEmployee(1)
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
			return true, nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(ctx, emp.ID.String(), leaverequest.CreateLeaveRequest{
			TypeCode:  "ANNUAL",
			Reason:    "holiday",
			StartDate: "2026-01-11",
			EndDate:   "2026-01-13",
		})
		assert.ErrorIs(t, err, leaverequesterrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("acquires employee lock before overlap check", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findByCodeFn = func(ctx context.Context, code string) (*leavetype.LeaveType, error) {
			return annualType(), nil
		}
		emp := testEmployee(1)
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}

		var calls []string
		deps.repo.lockEmployeeLeavesFn = func(ctx context.Context, employeeID string) error {
			assert.Equal(t, emp.ID.String(), employeeID)
			calls = append(calls, "lock")
			return nil
		}
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
			calls = append(calls, "overlap")
			return false, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			calls = append(calls, "create")
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.Create(ctx, emp.ID.String(), leaverequest.CreateLeaveRequest{
			TypeCode:  "ANNUAL",
			Reason:    "holiday",
			StartDate: "2026-05-04",
			EndDate:   "2026-05-05",
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"lock", "overlap", "create"}, calls)
	})

	t.Run("failed lock aborts before the overlap check", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findByCodeFn = func(ctx context.Context, code string) (*leavetype.LeaveType, error) {
			return annualType(), nil
		}
		emp := testEmployee(1)
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}

		lockErr := errors.New("lock wait cancelled")
		deps.repo.lockEmployeeLeavesFn = func(ctx context.Context, employeeID string) error {
			return lockErr
		}
		overlapChecked := false
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
			overlapChecked = true
			return false, nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(ctx, emp.ID.String(), leaverequest.CreateLeaveRequest{
			TypeCode:  "ANNUAL",
			Reason:    "holiday",
			StartDate: "2026-05-04",
			EndDate:   "2026-05-05",
		})
		assert.ErrorIs(t, err, lockErr)
		assert.False(t, overlapChecked)
	})

	t.Run("fans out one approval row per manager", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findByCodeFn = func(ctx context.Context, code string) (*leavetype.LeaveType, error) {
			return annualType(), nil
		}
		emp := testEmployee(2)
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		var created *leaverequest.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			created = l
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Create(ctx, emp.ID.String(), leaverequest.CreateLeaveRequest{
			TypeCode:  "ANNUAL",
			Reason:    "holiday",
			StartDate: "2026-01-10",
			EndDate:   "2026-01-12",
		})
		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Len(t, created.Approvals, 2)
		assert.Equal(t, leaverequest.StatusPending, resp.Status)
		assert.Equal(t, 3, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("zero managers still creates pending request", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findByCodeFn = func(ctx context.Context, code string) (*leavetype.LeaveType, error) {
			return annualType(), nil
		}
		emp := testEmployee(0)
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return emp, nil
		}
		var created *leaverequest.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			created = l
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Create(ctx, emp.ID.String(), leaverequest.CreateLeaveRequest{
			TypeCode:  "ANNUAL",
			Reason:    "holiday",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-02",
		})
		assert.NoError(t, err)
		assert.Empty(t, created.Approvals)
		assert.Equal(t, leaverequest.StatusPending, resp.Status)
	})
}

func pendingRequest(approverIDs ...uuid.UUID) *leaverequest.LeaveRequest {
	l := &leaverequest.LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		Status:     leaverequest.StatusPending,
		StartDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	}
	for _, id := range approverIDs {
		l.Approvals = append(l.Approvals, leaverequest.Approval{
			ID:             uuid.New(),
			LeaveRequestID: l.ID,
			ApproverID:     id,
		})
	}
	return l
}

func TestLeaveRequestService_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non pending request", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		deps.repo.getStatusFn = func(ctx context.Context, id string) (string, error) {
			return leaverequest.StatusApproved, nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Decide(ctx, uuid.New().String(), uuid.New().String(), "MANAGER", leaverequest.DecideLeaveRequest{
			Approved: boolPtr(true),
		})
		assert.ErrorIs(t, err, leaverequesterrors.ErrNotPending)
	})

	t.Run("rejects actor without approval row", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		other := uuid.New()
		req := pendingRequest(other)
		deps.repo.listApprovalsFn = func(ctx context.Context, requestID string) ([]leaverequest.Approval, error) {
			return req.Approvals, nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Decide(ctx, req.ID.String(), uuid.New().String(), "MANAGER", leaverequest.DecideLeaveRequest{
			Approved: boolPtr(true),
		})
		assert.ErrorIs(t, err, leaverequesterrors.ErrNotAnApprover)
	})

	t.Run("first of two approvals keeps request pending", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		approverA := uuid.New()
		approverB := uuid.New()
		req := pendingRequest(approverA, approverB)
		deps.repo.listApprovalsFn = func(ctx context.Context, requestID string) ([]leaverequest.Approval, error) {
			return req.Approvals, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return req, nil
		}
		statusUpdated := false
		deps.repo.updateStatusFn = func(ctx context.Context, id, status string) error {
			statusUpdated = true
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Decide(ctx, req.ID.String(), approverA.String(), "MANAGER", leaverequest.DecideLeaveRequest{
			Approved: boolPtr(true),
		})
		assert.NoError(t, err)
		assert.False(t, statusUpdated)
		assert.Equal(t, leaverequest.StatusPending, resp.Status)
	})

	t.Run("any rejection rejects overall", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		approverA := uuid.New()
		approverB := uuid.New()
		req := pendingRequest(approverA, approverB)
		req.Approvals[0].Approved = boolPtr(true)
		deps.repo.listApprovalsFn = func(ctx context.Context, requestID string) ([]leaverequest.Approval, error) {
			return req.Approvals, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return req, nil
		}
		var newStatus string
		deps.repo.updateStatusFn = func(ctx context.Context, id, status string) error {
			newStatus = status
			req.Status = status
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Decide(ctx, req.ID.String(), approverB.String(), "MANAGER", leaverequest.DecideLeaveRequest{
			Approved: boolPtr(false),
			Comment:  "coverage gap",
		})
		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusRejected, newStatus)
		assert.Equal(t, leaverequest.StatusRejected, resp.Status)
	})

	t.Run("unanimous approvals approve overall", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		approverA := uuid.New()
		approverB := uuid.New()
		req := pendingRequest(approverA, approverB)
		req.Approvals[0].Approved = boolPtr(true)
		deps.repo.listApprovalsFn = func(ctx context.Context, requestID string) ([]leaverequest.Approval, error) {
			return req.Approvals, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return req, nil
		}
		var newStatus string
		deps.repo.updateStatusFn = func(ctx context.Context, id, status string) error {
			newStatus = status
			req.Status = status
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.Decide(ctx, req.ID.String(), approverB.String(), "MANAGER", leaverequest.DecideLeaveRequest{
			Approved: boolPtr(true),
		})
		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusApproved, newStatus)
	})

	t.Run("direct decision force marks all rows", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		hr := uuid.New()
		req := pendingRequest(uuid.New(), uuid.New())
		req.EmployeeID = uuid.New()
		forceMarked := false
		deps.repo.forceDecideAllFn = func(ctx context.Context, requestID string, approved bool, comment string, respondedAt time.Time) error {
			forceMarked = true
			assert.True(t, approved)
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return req, nil
		}
		var newStatus string
		deps.repo.updateStatusFn = func(ctx context.Context, id, status string) error {
			newStatus = status
			req.Status = status
			return nil
		}
		enqueued := false
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			enqueued = true
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.Decide(ctx, req.ID.String(), hr.String(), "HR", leaverequest.DecideLeaveRequest{
			Approved: boolPtr(true),
		})
		assert.NoError(t, err)
		assert.True(t, forceMarked)
		assert.True(t, enqueued)
		assert.Equal(t, leaverequest.StatusApproved, newStatus)
	})
}

func TestLeaveRequestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels pending request", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		req := pendingRequest()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return req, nil
		}
		var newStatus string
		deps.repo.updateStatusFn = func(ctx context.Context, id, status string) error {
			newStatus = status
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Cancel(ctx, req.ID.String(), req.EmployeeID.String(), "EMPLOYEE")
		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusCanceled, newStatus)
		assert.Equal(t, leaverequest.StatusCanceled, resp.Status)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		req := pendingRequest()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return req, nil
		}

		_, err := deps.service.Cancel(ctx, req.ID.String(), uuid.New().String(), "EMPLOYEE")
		assert.ErrorIs(t, err, leaverequesterrors.ErrCancelForbidden)
	})

	t.Run("rejected request cannot be cancelled", func(t *testing.T) {
		deps := setupLeaveRequestServiceTest(t)
		defer deps.db.Close()

		req := pendingRequest()
		req.Status = leaverequest.StatusRejected
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return req, nil
		}
		deps.repo.getStatusFn = func(ctx context.Context, id string) (string, error) {
			return leaverequest.StatusRejected, nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Cancel(ctx, req.ID.String(), req.EmployeeID.String(), "EMPLOYEE")
		assert.ErrorIs(t, err, leaverequesterrors.ErrCancelInvalidState)
	})
}
