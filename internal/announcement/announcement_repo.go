package announcement

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	FindAll(ctx context.Context) ([]Announcement, error)
	FindByID(ctx context.Context, id string) (*Announcement, error)
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Announcement, error) {
	var list []Announcement
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("pinned DESC, published_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Announcement, error) {
	var a Announcement
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) Update(ctx context.Context, a *Announcement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Announcement{}, "id = ?", id).Error
}
