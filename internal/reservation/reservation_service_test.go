package reservation_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-portal/internal/employee"
	"go-portal/internal/rbac"
	"go-portal/internal/reservation"
	reservationerrors "go-portal/internal/reservation/errors"
	"go-portal/internal/settings"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeReservationRepository struct {
	createFn           func(ctx context.Context, r *reservation.Reservation) error
	findByIDFn         func(ctx context.Context, id string) (*reservation.Reservation, error)
	updateFn           func(ctx context.Context, r *reservation.Reservation) error
	sumBookedHoursFn   func(ctx context.Context, resourceID string, date time.Time) (decimal.Decimal, error)
	getStatusFn        func(ctx context.Context, id string) (string, error)
	recordResponseFn   func(ctx context.Context, id, status, comment string, respondedAt time.Time) error
	updateStatusFn     func(ctx context.Context, id, status string) error
	lockResourceDateFn func(ctx context.Context, resourceID string, date time.Time) error
}

func (f *fakeReservationRepository) WithTx(tx *sql.Tx) reservation.Repository { return f }

func (f *fakeReservationRepository) Create(ctx context.Context, r *reservation.Reservation) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeReservationRepository) FindByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReservationRepository) FindByRequester(ctx context.Context, requesterID string) ([]reservation.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationRepository) FindByOwner(ctx context.Context, ownerID string) ([]reservation.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationRepository) FindAll(ctx context.Context) ([]reservation.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationRepository) Update(ctx context.Context, r *reservation.Reservation) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, r)
	}
	return nil
}

func (f *fakeReservationRepository) LockResourceDate(ctx context.Context, resourceID string, date time.Time) error {
	if f.lockResourceDateFn != nil {
		return f.lockResourceDateFn(ctx, resourceID, date)
	}
	return nil
}

func (f *fakeReservationRepository) SumBookedHours(ctx context.Context, resourceID string, date time.Time) (decimal.Decimal, error) {
	if f.sumBookedHoursFn != nil {
		return f.sumBookedHoursFn(ctx, resourceID, date)
	}
	return decimal.Zero, nil
}

func (f *fakeReservationRepository) LockReservation(ctx context.Context, id string) error { return nil }

func (f *fakeReservationRepository) GetStatus(ctx context.Context, id string) (string, error) {
	if f.getStatusFn != nil {
		return f.getStatusFn(ctx, id)
	}
	return reservation.StatusPending, nil
}

func (f *fakeReservationRepository) RecordResponse(ctx context.Context, id, status, comment string, respondedAt time.Time) error {
	if f.recordResponseFn != nil {
		return f.recordResponseFn(ctx, id, status, comment, respondedAt)
	}
	return nil
}

func (f *fakeReservationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository            { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error { return nil }
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

type reservationServiceDeps struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	service      reservation.Service
	repo         *fakeReservationRepository
	employeeRepo *fakeEmployeeRepository
	settings     *fakeSettingsService
}

func setupReservationServiceTest(t *testing.T) *reservationServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeReservationRepository{}
	employeeRepo := &fakeEmployeeRepository{}
	settingsSvc := &fakeSettingsService{cfg: settings.Settings{
		MaxConsecutiveLeaveDays:     14,
		WorkHoursPerDay:             decimal.NewFromInt(8),
		ReservationApprovalRequired: true,
	}}
	rbacSvc, err := rbac.NewService()
	assert.NoError(t, err)

	svc := reservation.NewService(db, repo, employeeRepo, settingsSvc, rbacSvc)

	return &reservationServiceDeps{
		db:           db,
		sqlMock:      sqlMock,
		service:      svc,
		repo:         repo,
		employeeRepo: employeeRepo,
		settings:     settingsSvc,
	}
}

func boolPtr(v bool) *bool { return &v }

func managedResource(managerID uuid.UUID) *employee.Employee {
	return &employee.Employee{
		ID:       uuid.New(),
		FullName: "Resource Employee",
		Managers: []employee.Employee{{ID: managerID, FullName: "Resource Owner"}},
	}
}

func TestReservationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unmanaged resource", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return &employee.Employee{ID: uuid.MustParse(id)}, nil
		}

		_, err := deps.service.Create(ctx, uuid.New().String(), reservation.CreateReservationRequest{
			ResourceID: uuid.New().String(),
			Date:       "2026-06-01",
			Hours:      "2",
			Title:      "pairing",
		})
		assert.ErrorIs(t, err, reservationerrors.ErrUnmanagedResource)
	})

	t.Run("rejects owner reserving own report", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		ownerID := uuid.New()
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return managedResource(ownerID), nil
		}

		_, err := deps.service.Create(ctx, ownerID.String(), reservation.CreateReservationRequest{
			ResourceID: uuid.New().String(),
			Date:       "2026-06-01",
			Hours:      "2",
			Title:      "pairing",
		})
		assert.ErrorIs(t, err, reservationerrors.ErrSelfReservation)
	})

	t.Run("rejects over capacity citing remaining headroom", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return managedResource(uuid.New()), nil
		}
		deps.repo.sumBookedHoursFn = func(ctx context.Context, resourceID string, date time.Time) (decimal.Decimal, error) {
			return decimal.NewFromInt(6), nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(ctx, uuid.New().String(), reservation.CreateReservationRequest{
			ResourceID: uuid.New().String(),
			Date:       "2026-06-01",
			Hours:      "3",
			Title:      "workshop",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "2 hours remaining")
	})

	t.Run("creates pending when approval required", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return managedResource(uuid.New()), nil
		}
		var created *reservation.Reservation
		deps.repo.createFn = func(ctx context.Context, r *reservation.Reservation) error {
			created = r
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Create(ctx, uuid.New().String(), reservation.CreateReservationRequest{
			ResourceID: uuid.New().String(),
			Date:       "2026-06-01",
			Hours:      "1.5",
			Title:      "design review",
		})
		assert.NoError(t, err)
		assert.Equal(t, reservation.StatusPending, created.Status)
		assert.Equal(t, "1.5", resp.Hours)
	})

	t.Run("creates approved when approval disabled", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		deps.settings.cfg.ReservationApprovalRequired = false
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return managedResource(uuid.New()), nil
		}
		var created *reservation.Reservation
		deps.repo.createFn = func(ctx context.Context, r *reservation.Reservation) error {
			created = r
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.Create(ctx, uuid.New().String(), reservation.CreateReservationRequest{
			ResourceID: uuid.New().String(),
			Date:       "2026-06-01",
			Hours:      "2",
			Title:      "onboarding",
		})
		assert.NoError(t, err)
		assert.Equal(t, reservation.StatusApproved, created.Status)
	})

	t.Run("acquires resource date lock before summing booked hours", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return managedResource(uuid.New()), nil
		}

		resourceID := uuid.New()
		var calls []string
		deps.repo.lockResourceDateFn = func(ctx context.Context, id string, date time.Time) error {
			assert.Equal(t, resourceID.String(), id)
			calls = append(calls, "lock")
			return nil
		}
		deps.repo.sumBookedHoursFn = func(ctx context.Context, id string, date time.Time) (decimal.Decimal, error) {
			calls = append(calls, "sum")
			return decimal.Zero, nil
		}
		deps.repo.createFn = func(ctx context.Context, r *reservation.Reservation) error {
			calls = append(calls, "create")
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.Create(ctx, uuid.New().String(), reservation.CreateReservationRequest{
			ResourceID: resourceID.String(),
			Date:       "2026-06-01",
			Hours:      "2",
			Title:      "pairing",
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"lock", "sum", "create"}, calls)
	})

	t.Run("failed lock aborts before summing booked hours", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return managedResource(uuid.New()), nil
		}

		lockErr := errors.New("lock wait cancelled")
		deps.repo.lockResourceDateFn = func(ctx context.Context, id string, date time.Time) error {
			return lockErr
		}
		summed := false
		deps.repo.sumBookedHoursFn = func(ctx context.Context, id string, date time.Time) (decimal.Decimal, error) {
			summed = true
			return decimal.Zero, nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(ctx, uuid.New().String(), reservation.CreateReservationRequest{
			ResourceID: uuid.New().String(),
			Date:       "2026-06-01",
			Hours:      "2",
			Title:      "pairing",
		})
		assert.ErrorIs(t, err, lockErr)
		assert.False(t, summed)
	})

	t.Run("rejects malformed hours", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, uuid.New().String(), reservation.CreateReservationRequest{
			ResourceID: uuid.New().String(),
			Date:       "2026-06-01",
			Hours:      "-2",
			Title:      "pairing",
		})
		assert.ErrorIs(t, err, reservationerrors.ErrInvalidHours)
	})

	t.Run("rejects malformed resource id", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, uuid.New().String(), reservation.CreateReservationRequest{
			ResourceID: "not-a-uuid",
			Date:       "2026-06-01",
			Hours:      "2",
			Title:      "pairing",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "resource id is invalid")
	})
}

func pendingReservation(ownerID, requesterID uuid.UUID) *reservation.Reservation {
	return &reservation.Reservation{
		ID:          uuid.New(),
		ResourceID:  uuid.New(),
		OwnerID:     ownerID,
		RequesterID: requesterID,
		Date:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Hours:       decimal.NewFromInt(2),
		Title:       "pairing",
		Status:      reservation.StatusPending,
	}
}

func TestReservationService_Respond(t *testing.T) {
	ctx := context.Background()

	t.Run("non owner cannot respond", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		res := pendingReservation(uuid.New(), uuid.New())
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*reservation.Reservation, error) {
			return res, nil
		}

		_, err := deps.service.Respond(ctx, res.ID.String(), uuid.New().String(), "MANAGER", reservation.RespondReservationRequest{
			Approved: boolPtr(true),
		})
		assert.ErrorIs(t, err, reservationerrors.ErrRespondForbidden)
	})

	t.Run("admin override may respond", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		res := pendingReservation(uuid.New(), uuid.New())
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*reservation.Reservation, error) {
			return res, nil
		}
		var recorded string
		deps.repo.recordResponseFn = func(ctx context.Context, id, status, comment string, respondedAt time.Time) error {
			recorded = status
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Respond(ctx, res.ID.String(), uuid.New().String(), "ADMIN", reservation.RespondReservationRequest{
			Approved: boolPtr(false),
			Comment:  "conflicts with release",
		})
		assert.NoError(t, err)
		assert.Equal(t, reservation.StatusRejected, recorded)
		assert.Equal(t, reservation.StatusRejected, resp.Status)
	})

	t.Run("rejects non pending reservation", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		owner := uuid.New()
		res := pendingReservation(owner, uuid.New())
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*reservation.Reservation, error) {
			return res, nil
		}
		deps.repo.getStatusFn = func(ctx context.Context, id string) (string, error) {
			return reservation.StatusApproved, nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Respond(ctx, res.ID.String(), owner.String(), "MANAGER", reservation.RespondReservationRequest{
			Approved: boolPtr(true),
		})
		assert.ErrorIs(t, err, reservationerrors.ErrNotPending)
	})
}

func TestReservationService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("requester patches fields without capacity re-check", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		requester := uuid.New()
		res := pendingReservation(uuid.New(), requester)
		res.Status = reservation.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*reservation.Reservation, error) {
			return res, nil
		}
		capacityChecked := false
		deps.repo.sumBookedHoursFn = func(ctx context.Context, resourceID string, date time.Time) (decimal.Decimal, error) {
			capacityChecked = true
			return decimal.Zero, nil
		}

		resp, err := deps.service.Update(ctx, res.ID.String(), requester.String(), reservation.UpdateReservationRequest{
			Hours: "6",
			Title: "extended workshop",
		})
		assert.NoError(t, err)
		assert.False(t, capacityChecked)
		assert.Equal(t, "6", resp.Hours)
		assert.Equal(t, "extended workshop", resp.Title)
	})

	t.Run("stranger cannot patch", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		res := pendingReservation(uuid.New(), uuid.New())
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*reservation.Reservation, error) {
			return res, nil
		}

		_, err := deps.service.Update(ctx, res.ID.String(), uuid.New().String(), reservation.UpdateReservationRequest{
			Hours: "2",
			Title: "pairing",
		})
		assert.ErrorIs(t, err, reservationerrors.ErrUpdateForbidden)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("requester cancels pending reservation", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		requester := uuid.New()
		res := pendingReservation(uuid.New(), requester)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*reservation.Reservation, error) {
			return res, nil
		}
		var newStatus string
		deps.repo.updateStatusFn = func(ctx context.Context, id, status string) error {
			newStatus = status
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Cancel(ctx, res.ID.String(), requester.String(), "EMPLOYEE")
		assert.NoError(t, err)
		assert.Equal(t, reservation.StatusCanceled, newStatus)
		assert.Equal(t, reservation.StatusCanceled, resp.Status)
	})

	t.Run("already cancelled rejected", func(t *testing.T) {
		deps := setupReservationServiceTest(t)
		defer deps.db.Close()

		requester := uuid.New()
		res := pendingReservation(uuid.New(), requester)
		res.Status = reservation.StatusCanceled
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*reservation.Reservation, error) {
			return res, nil
		}

		_, err := deps.service.Cancel(ctx, res.ID.String(), requester.String(), "EMPLOYEE")
		assert.ErrorIs(t, err, reservationerrors.ErrAlreadyCancelled)
	})
}
