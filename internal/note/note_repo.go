package note

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, n *Note) error
	FindByOwner(ctx context.Context, ownerID string) ([]Note, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id, ownerID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Note) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByOwner(ctx context.Context, ownerID string) ([]Note, error) {
	var list []Note
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&list).Error
	return list, err
}

// Owner scoping lives in the query itself so a note id from another user is
// indistinguishable from a missing one.
func (r *repository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*Note, error) {
	var n Note
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&n, "id = ?", id).Error
	return &n, err
}

func (r *repository) Update(ctx context.Context, n *Note) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *repository) Delete(ctx context.Context, id, ownerID string) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&Note{}, "id = ?", id).Error
}
