package repository

import (
	"context"
	"time"

	"clinic-admin-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var appointmentOrderings = map[string]string{
	"schedule": "appointments.date DESC, appointments.time DESC",
}

// AppointmentFilter narrows an appointment listing
type AppointmentFilter struct {
	ListOptions
	Status    models.AppointmentStatus
	PatientID uint
	DoctorID  uint
	// Date matches appointments on that calendar day
	Date *time.Time
}

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// List retrieves appointments with patient and doctor preloaded.
// The search matches the patient's and the doctor's names.
func (r *AppointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	order, err := ordering("appointments", filter.Order, appointmentOrderings)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Scopes(visibility("appointments", filter.ListOptions))

	if filter.Query != "" {
		query = query.
			Joins("INNER JOIN patients ON patients.id = appointments.patient_id").
			Joins("INNER JOIN doctors ON doctors.id = appointments.doctor_id").
			Scopes(search(filter.Query,
				"patients.first_name", "patients.last_name",
				"doctors.first_name", "doctors.last_name",
			))
	}
	if filter.Status != "" {
		query = query.Where("appointments.status = ?", filter.Status)
	}
	if filter.PatientID != 0 {
		query = query.Where("appointments.patient_id = ?", filter.PatientID)
	}
	if filter.DoctorID != 0 {
		query = query.Where("appointments.doctor_id = ?", filter.DoctorID)
	}
	if filter.Date != nil {
		day := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, time.UTC)
		query = query.Where("appointments.date >= ? AND appointments.date < ?", day, day.AddDate(0, 0, 1))
	}

	appointments := []models.Appointment{}
	err = query.
		Preload("Patient").
		Preload("Doctor").
		Order(order).
		Find(&appointments).Error
	return appointments, err
}

// GetByID retrieves an appointment by ID whether or not it is active
func (r *AppointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		First(&appointment, id).Error
	if err != nil {
		return nil, notFound(err, "appointment", id)
	}
	return &appointment, nil
}

// Create creates a new appointment
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(appointment).Error
}

// Update saves every column of an existing appointment
func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(appointment).Error
}

// SetActive soft deletes (false) or restores (true) an appointment
func (r *AppointmentRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return setActive(r.db.WithContext(ctx), &models.Appointment{}, id, active)
}

// CountActive counts appointments that have not been soft deleted
func (r *AppointmentRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Scopes(activeOnly("appointments")).
		Count(&count).Error
	return count, err
}

// CountActiveByStatus counts active appointments carrying the given status
func (r *AppointmentRepository) CountActiveByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Scopes(activeOnly("appointments")).
		Where("appointments.status = ?", status).
		Count(&count).Error
	return count, err
}
