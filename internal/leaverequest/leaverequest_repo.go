package leaverequest

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	FindPendingForApprover(ctx context.Context, approverID string) ([]LeaveRequest, error)

	LockEmployeeLeaves(ctx context.Context, employeeID string) error
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)

	LockRequest(ctx context.Context, id string) error
	GetStatus(ctx context.Context, id string) (string, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListApprovals(ctx context.Context, requestID string) ([]Approval, error)
	RecordDecision(ctx context.Context, approvalID string, approved bool, comment string, respondedAt time.Time) error
	ForceDecideAll(ctx context.Context, requestID string, approved bool, comment string, respondedAt time.Time) error
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

// Mutations that participate in the overlap and quorum checks go through the
// raw *sql.Tx so the advisory lock and the write share one connection.
func (r *repository) execer() interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	db, err := r.db.DB()
	if err != nil {
		panic(err)
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	exec := r.execer()
	_, err := exec.ExecContext(ctx, `
        INSERT INTO leave_requests (
            id, employee_id, leave_type_id, reason, start_date, end_date,
            half_day, half_day_portion, status, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
    `,
		l.ID, l.EmployeeID, l.LeaveTypeID, l.Reason, l.StartDate, l.EndDate,
		l.HalfDay, l.HalfDayPortion, l.Status,
	)
	if err != nil {
		return err
	}

	for i := range l.Approvals {
		a := &l.Approvals[i]
		_, err := exec.ExecContext(ctx, `
            INSERT INTO leave_approvals (id, leave_request_id, approver_id, created_at)
            VALUES ($1, $2, $3, now())
        `, a.ID, a.LeaveRequestID, a.ApproverID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("LeaveType").
		Preload("Approvals").
		Preload("Approvals.Approver").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var list []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Preload("Approvals").
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var list []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("LeaveType").
		Preload("Approvals").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) FindPendingForApprover(ctx context.Context, approverID string) ([]LeaveRequest, error) {
	var list []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("LeaveType").
		Preload("Approvals").
		Joins("JOIN leave_approvals ON leave_approvals.leave_request_id = leave_requests.id").
		Where("leave_approvals.approver_id = ?", approverID).
		Where("leave_approvals.approved IS NULL").
		Where("leave_requests.status = ?", StatusPending).
		Order("leave_requests.created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) LockEmployeeLeaves(ctx context.Context, employeeID string) error {
	_, err := r.execer().ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('leave:' || $1))`, employeeID)
	return err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.execer().QueryRowContext(ctx, `
        SELECT COUNT(*) FROM leave_requests
        WHERE employee_id = $1
          AND status IN ('PENDING', 'APPROVED')
          AND start_date <= $2
          AND end_date >= $3
          AND deleted_at IS NULL
    `, employeeID, endDate, startDate).Scan(&count)
	return count > 0, err
}

func (r *repository) LockRequest(ctx context.Context, id string) error {
	_, err := r.execer().ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('leave-request:' || $1))`, id)
	return err
}

func (r *repository) GetStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.execer().QueryRowContext(ctx,
		`SELECT status FROM leave_requests WHERE id = $1 AND deleted_at IS NULL`, id).
		Scan(&status)
	if err == sql.ErrNoRows {
		return "", gorm.ErrRecordNotFound
	}
	return status, err
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.execer().ExecContext(ctx,
		`UPDATE leave_requests SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *repository) ListApprovals(ctx context.Context, requestID string) ([]Approval, error) {
	rows, err := r.execer().QueryContext(ctx, `
        SELECT id, leave_request_id, approver_id, approved, comment, responded_at
        FROM leave_approvals
        WHERE leave_request_id = $1
        ORDER BY created_at ASC
    `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []Approval
	for rows.Next() {
		var a Approval
		if err := rows.Scan(&a.ID, &a.LeaveRequestID, &a.ApproverID, &a.Approved, &a.Comment, &a.RespondedAt); err != nil {
			return nil, err
		}
		approvals = append(approvals, a)
	}
	return approvals, rows.Err()
}

func (r *repository) RecordDecision(ctx context.Context, approvalID string, approved bool, comment string, respondedAt time.Time) error {
	_, err := r.execer().ExecContext(ctx, `
        UPDATE leave_approvals
        SET approved = $1, comment = $2, responded_at = $3
        WHERE id = $4
    `, approved, comment, respondedAt, approvalID)
	return err
}

// ForceDecideAll marks every undecided approval row with the direct decision
// so no row is left pending after an HR override.
func (r *repository) ForceDecideAll(ctx context.Context, requestID string, approved bool, comment string, respondedAt time.Time) error {
	_, err := r.execer().ExecContext(ctx, `
        UPDATE leave_approvals
        SET approved = $1, comment = $2, responded_at = $3
        WHERE leave_request_id = $4 AND approved IS NULL
    `, approved, comment, respondedAt, requestID)
	return err
}
