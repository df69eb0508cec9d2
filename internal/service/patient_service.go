package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clinic-admin-backend/internal/models"
	"clinic-admin-backend/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PatientInput is the editable part of a patient. BirthDate is YYYY-MM-DD.
type PatientInput struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	NationalID string `json:"national_id" validate:"required,max=20"`
	BirthDate  string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Phone      string `json:"phone" validate:"required,max=20"`
	Email      string `json:"email" validate:"omitempty,max=254,email"`
	Address    string `json:"address"`
}

func (in *PatientInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.NationalID = strings.TrimSpace(in.NationalID)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
}

type PatientService struct {
	patientRepo *repository.PatientRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewPatientService(patientRepo *repository.PatientRepository, logger *slog.Logger) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns patients, active ones unless the options say otherwise
func (s *PatientService) List(ctx context.Context, opts repository.ListOptions) ([]models.Patient, error) {
	patients, err := s.patientRepo.List(ctx, opts)
	if err != nil {
		return nil, listError(err)
	}
	return patients, nil
}

// Get returns a patient regardless of its active flag
func (s *PatientService) Get(ctx context.Context, id uint) (*models.Patient, error) {
	return s.patientRepo.GetByID(ctx, id)
}

// Create validates and stores a new active patient.
// The national id must be unused by every patient ever registered.
func (s *PatientService) Create(ctx context.Context, in PatientInput) (*models.Patient, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	birthDate, err := s.validate(ctx, &in, 0)
	if err != nil {
		return nil, err
	}

	patient := &models.Patient{Active: true}
	applyPatientInput(patient, in, birthDate)
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("national_id", "a patient with this national id already exists")
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.logger.InfoContext(ctx, "patient created", "patient_id", patient.ID, "by", actor.Username)
	return patient, nil
}

// Update re-validates and overwrites the editable fields of an existing patient
func (s *PatientService) Update(ctx context.Context, id uint, in PatientInput) (*models.Patient, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	birthDate, err := s.validate(ctx, &in, patient.ID)
	if err != nil {
		return nil, err
	}

	applyPatientInput(patient, in, birthDate)
	if err := s.patientRepo.Update(ctx, patient); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("national_id", "a patient with this national id already exists")
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	s.logger.InfoContext(ctx, "patient updated", "patient_id", patient.ID, "by", actor.Username)
	return patient, nil
}

// Delete marks a patient inactive. Appointments referencing the patient are left as they are.
func (s *PatientService) Delete(ctx context.Context, id uint) (*models.Patient, error) {
	return s.setActive(ctx, id, false)
}

// Restore marks a soft-deleted patient active again
func (s *PatientService) Restore(ctx context.Context, id uint) (*models.Patient, error) {
	return s.setActive(ctx, id, true)
}

func (s *PatientService) setActive(ctx context.Context, id uint, active bool) (*models.Patient, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient.Active == active {
		return patient, nil
	}

	if err := s.patientRepo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("failed to change patient state: %w", err)
	}
	patient.Active = active

	s.logger.InfoContext(ctx, "patient state changed", "patient_id", id, "active", active, "by", actor.Username)
	return patient, nil
}

// validate checks field rules, the past birth date and national id uniqueness (ignoring selfID)
func (s *PatientService) validate(ctx context.Context, in *PatientInput, selfID uint) (time.Time, error) {
	in.normalize()
	ve := validateStruct(in)

	var birthDate time.Time
	if !ve.Has("birth_date") {
		birthDate, _ = parseDate(in.BirthDate)
		now := s.now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if !birthDate.Before(today) {
			ve.Add("birth_date", "must be in the past")
		}
	}

	if !ve.Has("national_id") {
		taken, err := s.patientRepo.NationalIDTaken(ctx, in.NationalID, selfID)
		if err != nil {
			return time.Time{}, err
		}
		if taken {
			ve.Add("national_id", "a patient with this national id already exists")
		}
	}

	return birthDate, ve.Err()
}

func applyPatientInput(patient *models.Patient, in PatientInput, birthDate time.Time) {
	patient.FirstName = in.FirstName
	patient.LastName = in.LastName
	patient.NationalID = in.NationalID
	patient.BirthDate = datatypes.Date(birthDate)
	patient.Phone = in.Phone
	patient.Email = in.Email
	patient.Address = in.Address
}
