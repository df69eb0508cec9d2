package service

import (
	"context"
	"fmt"

	"clinic-admin-backend/internal/models"
	"clinic-admin-backend/internal/repository"
)

// DashboardCounts is the summary shown on the landing page
type DashboardCounts struct {
	ActivePatients      int64 `json:"active_patients"`
	ActiveDoctors       int64 `json:"active_doctors"`
	ActiveAppointments  int64 `json:"active_appointments"`
	PendingAppointments int64 `json:"pending_appointments"`
	ActiveSpecialties   int64 `json:"active_specialties"`
}

type DashboardService struct {
	patientRepo     *repository.PatientRepository
	doctorRepo      *repository.DoctorRepository
	appointmentRepo *repository.AppointmentRepository
	specialtyRepo   *repository.SpecialtyRepository
}

func NewDashboardService(
	patientRepo *repository.PatientRepository,
	doctorRepo *repository.DoctorRepository,
	appointmentRepo *repository.AppointmentRepository,
	specialtyRepo *repository.SpecialtyRepository,
) *DashboardService {
	return &DashboardService{
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		specialtyRepo:   specialtyRepo,
	}
}

// Counts reads the active totals. Pending counts only active appointments.
func (s *DashboardService) Counts(ctx context.Context) (*DashboardCounts, error) {
	var (
		counts DashboardCounts
		err    error
	)
	if counts.ActivePatients, err = s.patientRepo.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	if counts.ActiveDoctors, err = s.doctorRepo.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("failed to count doctors: %w", err)
	}
	if counts.ActiveAppointments, err = s.appointmentRepo.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}
	if counts.PendingAppointments, err = s.appointmentRepo.CountActiveByStatus(ctx, models.StatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending appointments: %w", err)
	}
	if counts.ActiveSpecialties, err = s.specialtyRepo.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("failed to count specialties: %w", err)
	}
	return &counts, nil
}
