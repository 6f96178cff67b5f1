package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock

type Repository interface {
	Create(ctx context.Context, user *User) error
	UpsertBySubject(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetBySubject(ctx context.Context, subject string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	LinkEmployee(ctx context.Context, userID, employeeID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpsertBySubject keeps the local mirror of the SSO identity fresh: name and
// email follow whatever the provider asserted on the latest login.
func (r *repository) UpsertBySubject(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "updated_at"}),
	}).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *repository) GetBySubject(ctx context.Context, subject string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&user).Error
	return &user, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	return &user, err
}

func (r *repository) LinkEmployee(ctx context.Context, userID, employeeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("employee_id", employeeID).Error
}
