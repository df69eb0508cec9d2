package repository

import (
	"context"

	"clinic-admin-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var doctorOrderings = map[string]string{
	"name": "doctors.last_name ASC, doctors.first_name ASC",
}

// DoctorFilter narrows a doctor listing
type DoctorFilter struct {
	ListOptions
	SpecialtyID uint
}

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepo(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

// List retrieves doctors with their specialty preloaded
func (r *DoctorRepository) List(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error) {
	order, err := ordering("doctors", filter.Order, doctorOrderings)
	if err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Scopes(
			visibility("doctors", filter.ListOptions),
			search(filter.Query, "doctors.first_name", "doctors.last_name", "doctors.license_id"),
		)
	if filter.SpecialtyID != 0 {
		query = query.Where("doctors.specialty_id = ?", filter.SpecialtyID)
	}

	doctors := []models.Doctor{}
	err = query.Preload("Specialty").Order(order).Find(&doctors).Error
	return doctors, err
}

// GetByID retrieves a doctor by ID whether or not it is active
func (r *DoctorRepository) GetByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Preload("Specialty").First(&doctor, id).Error; err != nil {
		return nil, notFound(err, "doctor", id)
	}
	return &doctor, nil
}

// LicenseIDTaken reports whether another doctor, active or not, already holds the license id
func (r *DoctorRepository) LicenseIDTaken(ctx context.Context, licenseID string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Doctor{}).Where("license_id = ?", licenseID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Create creates a new doctor
func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(doctor).Error
}

// Update saves every column of an existing doctor
func (r *DoctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(doctor).Error
}

// SetActive soft deletes (false) or restores (true) a doctor
func (r *DoctorRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return setActive(r.db.WithContext(ctx), &models.Doctor{}, id, active)
}

// CountActive counts doctors that have not been soft deleted
func (r *DoctorRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Doctor{}).
		Scopes(activeOnly("doctors")).
		Count(&count).Error
	return count, err
}
