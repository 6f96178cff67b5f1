package leavetype_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-portal/internal/employee"
	"go-portal/internal/leavetype"
	leavetypeerrors "go-portal/internal/leavetype/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveTypeRepository struct {
	withTxFn     func(tx *sql.Tx) leavetype.Repository
	createFn     func(ctx context.Context, t *leavetype.LeaveType) error
	findAllFn    func(ctx context.Context, activeOnly bool) ([]leavetype.LeaveType, error)
	findByIDFn   func(ctx context.Context, id string) (*leavetype.LeaveType, error)
	findByCodeFn func(ctx context.Context, code string) (*leavetype.LeaveType, error)
	updateFn     func(ctx context.Context, t *leavetype.LeaveType) error
	deleteFn     func(ctx context.Context, id string) error
	codeExistsFn func(ctx context.Context, code string) (bool, error)
}

func (f *fakeLeaveTypeRepository) WithTx(tx *sql.Tx) leavetype.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveTypeRepository) Create(ctx context.Context, t *leavetype.LeaveType) error {
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) FindAll(ctx context.Context, activeOnly bool) ([]leavetype.LeaveType, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, activeOnly)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) FindByCode(ctx context.Context, code string) (*leavetype.LeaveType, error) {
	if f.findByCodeFn != nil {
		return f.findByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) Update(ctx context.Context, t *leavetype.LeaveType) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, t)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	if f.codeExistsFn != nil {
		return f.codeExistsFn(ctx, code)
	}
	return false, nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateLeaveType_RejectsDuplicateCode(t *testing.T) {
	repo := &fakeLeaveTypeRepository{
		codeExistsFn: func(ctx context.Context, code string) (bool, error) {
			return true, nil
		},
	}

	svc := leavetype.NewService(repo, nil)

	_, err := svc.Create(context.Background(), leavetype.CreateLeaveTypeRequest{Code: "ANNUAL", Name: "Annual Leave"})
	assert.ErrorIs(t, err, leavetypeerrors.ErrDuplicateCode)
}

func TestCreateLeaveType_RejectsCarryoverDaysWithoutCarryover(t *testing.T) {
	svc := leavetype.NewService(&fakeLeaveTypeRepository{}, nil)

	_, err := svc.Create(context.Background(), leavetype.CreateLeaveTypeRequest{
		Code:             "ANNUAL",
		Name:             "Annual Leave",
		AllowCarryover:   false,
		MaxCarryoverDays: 5,
	})
	assert.ErrorIs(t, err, leavetypeerrors.ErrCarryoverDisabled)
}

func TestGetAll_ServesFromCache(t *testing.T) {
	cached := []leavetype.LeaveTypeResponse{{ID: uuid.New().String(), Code: "ANNUAL", Name: "Annual Leave"}}
	payload, err := json.Marshal(cached)
	assert.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("leavetypes:catalog").SetVal(string(payload))

	repoHit := false
	repo := &fakeLeaveTypeRepository{
		findAllFn: func(ctx context.Context, activeOnly bool) ([]leavetype.LeaveType, error) {
			repoHit = true
			return nil, nil
		},
	}

	svc := leavetype.NewService(repo, rdb)

	got, err := svc.GetAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, cached, got)
	assert.False(t, repoHit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEligibleFor_FiltersGenderAndTenure(t *testing.T) {
	start := time.Now().UTC().AddDate(0, 0, -30)
	emp := &employee.Employee{
		ID:            uuid.New(),
		Gender:        employee.GenderFemale,
		StartWorkDate: &start,
	}

	repo := &fakeLeaveTypeRepository{
		findAllFn: func(ctx context.Context, activeOnly bool) ([]leavetype.LeaveType, error) {
			assert.True(t, activeOnly)
			return []leavetype.LeaveType{
				{ID: uuid.New(), Code: "ANNUAL", Name: "Annual Leave"},
				{ID: uuid.New(), Code: "PATERNITY", Name: "Paternity Leave", AllowedGender: strPtr(employee.GenderMale)},
				{ID: uuid.New(), Code: "LONG_SERVICE", Name: "Long Service Leave", RequiredWorkDays: intPtr(365)},
				{ID: uuid.New(), Code: "MATERNITY", Name: "Maternity Leave", AllowedGender: strPtr(employee.GenderFemale)},
			}, nil
		},
	}

	svc := leavetype.NewService(repo, nil)

	got, err := svc.ListEligibleFor(context.Background(), emp)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "ANNUAL", got[0].Code)
	assert.Equal(t, "MATERNITY", got[1].Code)
}

func TestDeleteLeaveType_RejectsMalformedID(t *testing.T) {
	svc := leavetype.NewService(&fakeLeaveTypeRepository{}, nil)

	err := svc.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidLeaveTypeID)
}

func TestUpdateLeaveType_NotFound(t *testing.T) {
	svc := leavetype.NewService(&fakeLeaveTypeRepository{}, nil)

	_, err := svc.Update(context.Background(), uuid.New().String(), leavetype.UpdateLeaveTypeRequest{Name: "Annual Leave"})
	assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
}
