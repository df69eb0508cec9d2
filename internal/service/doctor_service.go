package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"clinic-admin-backend/internal/models"
	"clinic-admin-backend/internal/repository"

	"gorm.io/gorm"
)

// DoctorInput is the editable part of a doctor
type DoctorInput struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	LicenseID   string `json:"license_id" validate:"required,max=20"`
	Phone       string `json:"phone" validate:"required,max=20"`
	Email       string `json:"email" validate:"omitempty,max=254,email"`
	SpecialtyID uint   `json:"specialty_id" validate:"required"`
}

func (in *DoctorInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.LicenseID = strings.TrimSpace(in.LicenseID)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
}

type DoctorService struct {
	doctorRepo    *repository.DoctorRepository
	specialtyRepo *repository.SpecialtyRepository
	logger        *slog.Logger
}

func NewDoctorService(
	doctorRepo *repository.DoctorRepository,
	specialtyRepo *repository.SpecialtyRepository,
	logger *slog.Logger,
) *DoctorService {
	return &DoctorService{
		doctorRepo:    doctorRepo,
		specialtyRepo: specialtyRepo,
		logger:        logger,
	}
}

// List returns doctors with their specialty, active ones unless the filter says otherwise
func (s *DoctorService) List(ctx context.Context, filter repository.DoctorFilter) ([]models.Doctor, error) {
	doctors, err := s.doctorRepo.List(ctx, filter)
	if err != nil {
		return nil, listError(err)
	}
	return doctors, nil
}

// Get returns a doctor regardless of its active flag
func (s *DoctorService) Get(ctx context.Context, id uint) (*models.Doctor, error) {
	return s.doctorRepo.GetByID(ctx, id)
}

// Create validates and stores a new active doctor.
// The license id must be unused by every doctor ever registered and the specialty must be active.
func (s *DoctorService) Create(ctx context.Context, in DoctorInput) (*models.Doctor, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	in.normalize()
	ve := validateStruct(&in)

	if !ve.Has("license_id") {
		taken, err := s.doctorRepo.LicenseIDTaken(ctx, in.LicenseID, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("license_id", "a doctor with this license id already exists")
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	specialty, err := s.checkSpecialty(ctx, in.SpecialtyID, 0)
	if err != nil {
		return nil, err
	}

	doctor := &models.Doctor{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		LicenseID:   in.LicenseID,
		Phone:       in.Phone,
		Email:       in.Email,
		SpecialtyID: in.SpecialtyID,
		Active:      true,
	}
	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("license_id", "a doctor with this license id already exists")
		}
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	doctor.Specialty = specialty

	s.logger.InfoContext(ctx, "doctor created", "doctor_id", doctor.ID, "name", doctor.DisplayName(), "by", actor.Username)
	return doctor, nil
}

// Update re-validates and overwrites the editable fields of an existing doctor.
// The license id is immutable.
func (s *DoctorService) Update(ctx context.Context, id uint, in DoctorInput) (*models.Doctor, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.normalize()
	ve := validateStruct(&in)
	if !ve.Has("license_id") && in.LicenseID != doctor.LicenseID {
		ve.Add("license_id", "the license id cannot be changed")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	specialty, err := s.checkSpecialty(ctx, in.SpecialtyID, doctor.SpecialtyID)
	if err != nil {
		return nil, err
	}

	doctor.FirstName = in.FirstName
	doctor.LastName = in.LastName
	doctor.Phone = in.Phone
	doctor.Email = in.Email
	doctor.SpecialtyID = in.SpecialtyID
	if err := s.doctorRepo.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}
	doctor.Specialty = specialty

	s.logger.InfoContext(ctx, "doctor updated", "doctor_id", doctor.ID, "by", actor.Username)
	return doctor, nil
}

// Delete marks a doctor inactive. Appointments referencing the doctor are left as they are.
func (s *DoctorService) Delete(ctx context.Context, id uint) (*models.Doctor, error) {
	return s.setActive(ctx, id, false)
}

// Restore marks a soft-deleted doctor active again
func (s *DoctorService) Restore(ctx context.Context, id uint) (*models.Doctor, error) {
	return s.setActive(ctx, id, true)
}

func (s *DoctorService) setActive(ctx context.Context, id uint, active bool) (*models.Doctor, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor.Active == active {
		return doctor, nil
	}

	if err := s.doctorRepo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("failed to change doctor state: %w", err)
	}
	doctor.Active = active

	s.logger.InfoContext(ctx, "doctor state changed", "doctor_id", id, "active", active, "by", actor.Username)
	return doctor, nil
}

// checkSpecialty resolves the referenced specialty. An inactive specialty is
// only accepted when it is the one the doctor already had.
func (s *DoctorService) checkSpecialty(ctx context.Context, id, current uint) (*models.Specialty, error) {
	specialty, err := s.specialtyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !specialty.Active && id != current {
		return nil, fieldError("specialty_id", "the specialty is inactive")
	}
	return specialty, nil
}
