package repository

import (
	"context"

	"clinic-admin-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var patientOrderings = map[string]string{
	"name": "patients.last_name ASC, patients.first_name ASC",
}

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// List retrieves patients matching the options, active ones only by default
func (r *PatientRepository) List(ctx context.Context, opts ListOptions) ([]models.Patient, error) {
	order, err := ordering("patients", opts.Order, patientOrderings)
	if err != nil {
		return nil, err
	}
	patients := []models.Patient{}
	err = r.db.WithContext(ctx).
		Scopes(
			visibility("patients", opts),
			search(opts.Query, "patients.first_name", "patients.last_name", "patients.national_id"),
		).
		Order(order).
		Find(&patients).Error
	return patients, err
}

// GetByID retrieves a patient by ID whether or not it is active
func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, id).Error; err != nil {
		return nil, notFound(err, "patient", id)
	}
	return &patient, nil
}

// NationalIDTaken reports whether another patient, active or not, already holds the national id
func (r *PatientRepository) NationalIDTaken(ctx context.Context, nationalID string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Patient{}).Where("national_id = ?", nationalID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Create creates a new patient
func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

// Update saves every column of an existing patient
func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(patient).Error
}

// SetActive soft deletes (false) or restores (true) a patient
func (r *PatientRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return setActive(r.db.WithContext(ctx), &models.Patient{}, id, active)
}

// CountActive counts patients that have not been soft deleted
func (r *PatientRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).
		Scopes(activeOnly("patients")).
		Count(&count).Error
	return count, err
}
