package handler

import (
	"clinic-admin-backend/internal/service"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patientService *service.PatientService
}

func NewPatientHandler(patientService *service.PatientService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
	}
}

// List returns active patients unless the query asks for inactive ones
func (h *PatientHandler) List(c *gin.Context) {
	var q listQuery
	if !bindQuery(c, &q) {
		return
	}

	patients, err := h.patientService.List(c.Request.Context(), q.options())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"patients": patients,
		"count":    len(patients),
	})
}

// Get returns a single patient whether or not it is active
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	patient, err := h.patientService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, patient)
}

// Create registers a new patient
func (h *PatientHandler) Create(c *gin.Context) {
	var in service.PatientInput
	if !bindJSON(c, &in) {
		return
	}

	patient, err := h.patientService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, patient)
}

// Update replaces the editable fields of a patient
func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in service.PatientInput
	if !bindJSON(c, &in) {
		return
	}

	patient, err := h.patientService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, patient)
}

// Delete soft-deletes a patient
func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	patient, err := h.patientService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, patient)
}

// Restore reactivates a soft-deleted patient
func (h *PatientHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	patient, err := h.patientService.Restore(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, patient)
}
