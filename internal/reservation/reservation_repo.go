package reservation

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=reservation_repo.go -destination=mock/reservation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, r *Reservation) error
	FindByID(ctx context.Context, id string) (*Reservation, error)
	FindByRequester(ctx context.Context, requesterID string) ([]Reservation, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Reservation, error)
	FindAll(ctx context.Context) ([]Reservation, error)
	Update(ctx context.Context, r *Reservation) error

	LockResourceDate(ctx context.Context, resourceID string, date time.Time) error
	SumBookedHours(ctx context.Context, resourceID string, date time.Time) (decimal.Decimal, error)

	LockReservation(ctx context.Context, id string) error
	GetStatus(ctx context.Context, id string) (string, error)
	RecordResponse(ctx context.Context, id, status, comment string, respondedAt time.Time) error
	UpdateStatus(ctx context.Context, id, status string) error
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

// Capacity checks and status transitions run on the raw *sql.Tx so they share
// one connection with the advisory lock.
func (r *repository) execer() interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
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

func (r *repository) Create(ctx context.Context, res *Reservation) error {
	_, err := r.execer().ExecContext(ctx, `
        INSERT INTO reservations (
            id, resource_id, owner_id, requester_id, date, hours,
            title, description, status, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
    `,
		res.ID, res.ResourceID, res.OwnerID, res.RequesterID, res.Date, res.Hours,
		res.Title, res.Description, res.Status,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Reservation, error) {
	var res Reservation
	err := r.db.WithContext(ctx).
		Preload("Resource").
		Preload("Owner").
		Preload("Requester").
		First(&res, "id = ?", id).Error
	return &res, err
}

func (r *repository) FindByRequester(ctx context.Context, requesterID string) ([]Reservation, error) {
	var list []Reservation
	err := r.db.WithContext(ctx).
		Preload("Resource").
		Preload("Owner").
		Where("requester_id = ?", requesterID).
		Order("date DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) FindByOwner(ctx context.Context, ownerID string) ([]Reservation, error) {
	var list []Reservation
	err := r.db.WithContext(ctx).
		Preload("Resource").
		Preload("Requester").
		Where("owner_id = ?", ownerID).
		Order("date DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) FindAll(ctx context.Context) ([]Reservation, error) {
	var list []Reservation
	err := r.db.WithContext(ctx).
		Preload("Resource").
		Preload("Owner").
		Preload("Requester").
		Order("date DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) Update(ctx context.Context, res *Reservation) error {
	return r.db.WithContext(ctx).Save(res).Error
}

func (r *repository) LockResourceDate(ctx context.Context, resourceID string, date time.Time) error {
	_, err := r.execer().ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('reservation:' || $1 || ':' || $2))`,
		resourceID, date.Format("2006-01-02"))
	return err
}

func (r *repository) SumBookedHours(ctx context.Context, resourceID string, date time.Time) (decimal.Decimal, error) {
	var sum string
	err := r.execer().QueryRowContext(ctx, `
        SELECT COALESCE(SUM(hours), 0) FROM reservations
        WHERE resource_id = $1
          AND date = $2
          AND status IN ('PENDING', 'APPROVED')
          AND deleted_at IS NULL
    `, resourceID, date).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(sum)
}

func (r *repository) LockReservation(ctx context.Context, id string) error {
	_, err := r.execer().ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('reservation-row:' || $1))`, id)
	return err
}

func (r *repository) GetStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.execer().QueryRowContext(ctx,
		`SELECT status FROM reservations WHERE id = $1 AND deleted_at IS NULL`, id).
		Scan(&status)
	if err == sql.ErrNoRows {
		return "", gorm.ErrRecordNotFound
	}
	return status, err
}

func (r *repository) RecordResponse(ctx context.Context, id, status, comment string, respondedAt time.Time) error {
	_, err := r.execer().ExecContext(ctx, `
        UPDATE reservations
        SET status = $1, response_comment = $2, responded_at = $3, updated_at = now()
        WHERE id = $4
    `, status, comment, respondedAt, id)
	return err
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.execer().ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}
