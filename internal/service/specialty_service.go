package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clinic-admin-backend/internal/models"
	"clinic-admin-backend/internal/repository"
)

// SpecialtyInput is the editable part of a specialty
type SpecialtyInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

func (in *SpecialtyInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
}

type SpecialtyService struct {
	specialtyRepo *repository.SpecialtyRepository
	logger        *slog.Logger
}

func NewSpecialtyService(specialtyRepo *repository.SpecialtyRepository, logger *slog.Logger) *SpecialtyService {
	return &SpecialtyService{
		specialtyRepo: specialtyRepo,
		logger:        logger,
	}
}

// List returns specialties, active ones unless the options say otherwise
func (s *SpecialtyService) List(ctx context.Context, opts repository.ListOptions) ([]models.Specialty, error) {
	specialties, err := s.specialtyRepo.List(ctx, opts)
	if err != nil {
		return nil, listError(err)
	}
	return specialties, nil
}

// Get returns a specialty regardless of its active flag
func (s *SpecialtyService) Get(ctx context.Context, id uint) (*models.Specialty, error) {
	return s.specialtyRepo.GetByID(ctx, id)
}

// Create validates and stores a new active specialty
func (s *SpecialtyService) Create(ctx context.Context, in SpecialtyInput) (*models.Specialty, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	in.normalize()
	if err := validateStruct(&in).Err(); err != nil {
		return nil, err
	}

	specialty := &models.Specialty{
		Name:        in.Name,
		Description: in.Description,
		Active:      true,
	}
	if err := s.specialtyRepo.Create(ctx, specialty); err != nil {
		return nil, fmt.Errorf("failed to create specialty: %w", err)
	}

	s.logger.InfoContext(ctx, "specialty created", "specialty_id", specialty.ID, "name", specialty.Name, "by", actor.Username)
	return specialty, nil
}

// Update re-validates and overwrites the editable fields of an existing specialty
func (s *SpecialtyService) Update(ctx context.Context, id uint, in SpecialtyInput) (*models.Specialty, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	specialty, err := s.specialtyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.normalize()
	if err := validateStruct(&in).Err(); err != nil {
		return nil, err
	}

	specialty.Name = in.Name
	specialty.Description = in.Description
	if err := s.specialtyRepo.Update(ctx, specialty); err != nil {
		return nil, fmt.Errorf("failed to update specialty: %w", err)
	}

	s.logger.InfoContext(ctx, "specialty updated", "specialty_id", specialty.ID, "by", actor.Username)
	return specialty, nil
}

// Delete marks a specialty inactive. Doctors referencing it are left as they are.
func (s *SpecialtyService) Delete(ctx context.Context, id uint) (*models.Specialty, error) {
	return s.setActive(ctx, id, false)
}

// Restore marks a soft-deleted specialty active again
func (s *SpecialtyService) Restore(ctx context.Context, id uint) (*models.Specialty, error) {
	return s.setActive(ctx, id, true)
}

func (s *SpecialtyService) setActive(ctx context.Context, id uint, active bool) (*models.Specialty, error) {
	actor, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	specialty, err := s.specialtyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if specialty.Active == active {
		return specialty, nil
	}

	if err := s.specialtyRepo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("failed to change specialty state: %w", err)
	}
	specialty.Active = active

	s.logger.InfoContext(ctx, "specialty state changed", "specialty_id", id, "active", active, "by", actor.Username)
	return specialty, nil
}
