package repository

import (
	"context"

	"clinic-admin-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var specialtyOrderings = map[string]string{
	"name": "specialties.name ASC",
}

type SpecialtyRepository struct {
	db *gorm.DB
}

func NewSpecialtyRepo(db *gorm.DB) *SpecialtyRepository {
	return &SpecialtyRepository{db: db}
}

// List retrieves specialties matching the options, active ones only by default
func (r *SpecialtyRepository) List(ctx context.Context, opts ListOptions) ([]models.Specialty, error) {
	order, err := ordering("specialties", opts.Order, specialtyOrderings)
	if err != nil {
		return nil, err
	}
	specialties := []models.Specialty{}
	err = r.db.WithContext(ctx).
		Scopes(visibility("specialties", opts), search(opts.Query, "specialties.name")).
		Order(order).
		Find(&specialties).Error
	return specialties, err
}

// GetByID retrieves a specialty by ID whether or not it is active
func (r *SpecialtyRepository) GetByID(ctx context.Context, id uint) (*models.Specialty, error) {
	var specialty models.Specialty
	if err := r.db.WithContext(ctx).First(&specialty, id).Error; err != nil {
		return nil, notFound(err, "specialty", id)
	}
	return &specialty, nil
}

// Create creates a new specialty
func (r *SpecialtyRepository) Create(ctx context.Context, specialty *models.Specialty) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(specialty).Error
}

// Update saves every column of an existing specialty
func (r *SpecialtyRepository) Update(ctx context.Context, specialty *models.Specialty) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(specialty).Error
}

// SetActive soft deletes (false) or restores (true) a specialty
func (r *SpecialtyRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return setActive(r.db.WithContext(ctx), &models.Specialty{}, id, active)
}

// CountActive counts specialties that have not been soft deleted
func (r *SpecialtyRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Specialty{}).
		Scopes(activeOnly("specialties")).
		Count(&count).Error
	return count, err
}
