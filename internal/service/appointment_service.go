package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clinic-admin-backend/internal/models"
	"clinic-admin-backend/internal/repository"

	"gorm.io/datatypes"
)

// AppointmentInput is the editable part of an appointment.
// Date is YYYY-MM-DD, Time is HH:MM or HH:MM:SS, Status defaults to Pending.
type AppointmentInput struct {
	PatientID uint   `json:"patient_id" validate:"required"`
	DoctorID  uint   `json:"doctor_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"required,clock"`
	Reason    string `json:"reason" validate:"required"`
	Diagnosis string `json:"diagnosis"`
	Status    string `json:"status" validate:"omitempty,oneof=Pending Completed Cancelled"`
}

func (in *AppointmentInput) normalize() {
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Reason = strings.TrimSpace(in.Reason)
	in.Diagnosis = strings.TrimSpace(in.Diagnosis)
	in.Status = strings.TrimSpace(in.Status)
	if in.Status == "" {
		in.Status = string(models.StatusPending)
	}
}

type AppointmentService struct {
	appointmentRepo *repository.AppointmentRepository
	patientRepo     *repository.PatientRepository
	doctorRepo      *repository.DoctorRepository
	logger          *slog.Logger
}

func NewAppointmentService(
	appointmentRepo *repository.AppointmentRepository,
	patientRepo *repository.PatientRepository,
	doctorRepo *repository.DoctorRepository,
	logger *slog.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		logger:          logger,
	}
}

// List returns appointments with patient and doctor, active ones unless the filter says otherwise
func (s *AppointmentService) List(ctx context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fieldError("status", "unknown appointment status")
	}
	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		return nil, listError(err)
	}
	return appointments, nil
}

// Get returns an appointment regardless of its active flag
func (s *AppointmentService) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.appointmentRepo.GetByID(ctx, id)
}

// Create validates and stores a new active appointment. Nothing is written
// when the patient or doctor cannot be resolved.
func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput) (*models.Appointment, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	appointment := &models.Appointment{Active: true}
	if err := s.fill(ctx, appointment, in); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.logger.InfoContext(ctx, "appointment created",
		"appointment_id", appointment.ID,
		"patient_id", appointment.PatientID,
		"doctor_id", appointment.DoctorID,
		"by", actor.Username,
	)
	return appointment, nil
}

// Update re-validates and overwrites the editable fields of an existing appointment.
// Any status may replace any other.
func (s *AppointmentService) Update(ctx context.Context, id uint, in AppointmentInput) (*models.Appointment, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.fill(ctx, appointment, in); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.logger.InfoContext(ctx, "appointment updated", "appointment_id", appointment.ID, "status", appointment.Status, "by", actor.Username)
	return appointment, nil
}

// Delete marks an appointment inactive
func (s *AppointmentService) Delete(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.setActive(ctx, id, false)
}

// Restore marks a soft-deleted appointment active again
func (s *AppointmentService) Restore(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.setActive(ctx, id, true)
}

func (s *AppointmentService) setActive(ctx context.Context, id uint, active bool) (*models.Appointment, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Active == active {
		return appointment, nil
	}

	if err := s.appointmentRepo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("failed to change appointment state: %w", err)
	}
	appointment.Active = active

	s.logger.InfoContext(ctx, "appointment state changed", "appointment_id", id, "active", active, "by", actor.Username)
	return appointment, nil
}

// fill validates in and copies it onto appointment. The existing references of
// appointment (zero on create) may stay even if they were deactivated since.
func (s *AppointmentService) fill(ctx context.Context, appointment *models.Appointment, in AppointmentInput) error {
	in.normalize()
	if err := validateStruct(&in).Err(); err != nil {
		return err
	}

	patient, err := s.patientRepo.GetByID(ctx, in.PatientID)
	if err != nil {
		return err
	}
	doctor, err := s.doctorRepo.GetByID(ctx, in.DoctorID)
	if err != nil {
		return err
	}

	ve := newValidationError()
	if !patient.Active && patient.ID != appointment.PatientID {
		ve.Add("patient_id", "the patient is inactive")
	}
	if !doctor.Active && doctor.ID != appointment.DoctorID {
		ve.Add("doctor_id", "the doctor is inactive")
	}
	if err := ve.Err(); err != nil {
		return err
	}

	date, _ := parseDate(in.Date)
	clock, _ := parseClock(in.Time)

	appointment.PatientID = patient.ID
	appointment.DoctorID = doctor.ID
	appointment.Date = datatypes.Date(date)
	appointment.Time = datatypes.NewTime(clock.Hour(), clock.Minute(), clock.Second(), 0)
	appointment.Reason = in.Reason
	appointment.Diagnosis = in.Diagnosis
	appointment.Status = models.AppointmentStatus(in.Status)
	appointment.Patient = patient
	appointment.Doctor = doctor
	return nil
}
