package leavebalance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindOverride(ctx context.Context, employeeID, leaveTypeID string, year int) (*BalanceOverride, error)
	FindOverridesByEmployee(ctx context.Context, employeeID string, year int) ([]BalanceOverride, error)
	Upsert(ctx context.Context, o *BalanceOverride) error
	Delete(ctx context.Context, employeeID, leaveTypeID string, year int) error
	// FindApprovedUsage reads the approved leave requests of one type whose
	// start date falls inside the target year.
	FindApprovedUsage(ctx context.Context, employeeID, leaveTypeID string, year int) ([]UsageRow, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) FindOverride(ctx context.Context, employeeID, leaveTypeID string, year int) (*BalanceOverride, error) {
	var o BalanceOverride
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) FindOverridesByEmployee(ctx context.Context, employeeID string, year int) ([]BalanceOverride, error) {
	var overrides []BalanceOverride
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Find(&overrides).Error
	return overrides, err
}

func (r *repository) Upsert(ctx context.Context, o *BalanceOverride) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "leave_type_id"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"balance", "carried_over", "adjustment", "notes", "updated_at",
			}),
		}).
		Create(o).Error
}

func (r *repository) Delete(ctx context.Context, employeeID, leaveTypeID string, year int) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		Delete(&BalanceOverride{}).Error
}

func (r *repository) FindApprovedUsage(ctx context.Context, employeeID, leaveTypeID string, year int) ([]UsageRow, error) {
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)

	var rows []UsageRow
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select("start_date, end_date, half_day").
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("status = ?", "APPROVED").
		Where("start_date >= ? AND start_date < ?", yearStart, yearEnd).
		Where("deleted_at IS NULL").
		Scan(&rows).Error
	return rows, err
}
