package complaint

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=complaint_repo.go -destination=mock/complaint_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, c *Complaint) error
	FindByID(ctx context.Context, id string) (*Complaint, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Complaint, error)
	FindAll(ctx context.Context) ([]Complaint, error)
	AppendMessage(ctx context.Context, m *Message) error
	UpdateStatus(ctx context.Context, id, status string) error
	SetDirectResponse(ctx context.Context, id, response string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Complaint) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Complaint, error) {
	var c Complaint
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("complaint_messages.created_at ASC")
		}).
		Preload("Messages.Author").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Complaint, error) {
	var list []Complaint
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) FindAll(ctx context.Context) ([]Complaint, error) {
	var list []Complaint
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) AppendMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&Complaint{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) SetDirectResponse(ctx context.Context, id, response string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Complaint{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"direct_response":    response,
			"direct_response_at": at,
		}).Error
}
