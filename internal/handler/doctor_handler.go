package handler

import (
	"clinic-admin-backend/internal/service"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	doctorService *service.DoctorService
}

func NewDoctorHandler(doctorService *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{
		doctorService: doctorService,
	}
}

// List returns active doctors unless the query asks for inactive ones
func (h *DoctorHandler) List(c *gin.Context) {
	var q doctorQuery
	if !bindQuery(c, &q) {
		return
	}

	doctors, err := h.doctorService.List(c.Request.Context(), q.filter())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// Get returns a single doctor whether or not it is active
func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doctor, err := h.doctorService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, doctor)
}

// Create registers a new doctor
func (h *DoctorHandler) Create(c *gin.Context) {
	var in service.DoctorInput
	if !bindJSON(c, &in) {
		return
	}

	doctor, err := h.doctorService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, doctor)
}

// Update replaces the editable fields of a doctor
func (h *DoctorHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in service.DoctorInput
	if !bindJSON(c, &in) {
		return
	}

	doctor, err := h.doctorService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, doctor)
}

// Delete soft-deletes a doctor
func (h *DoctorHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doctor, err := h.doctorService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, doctor)
}

// Restore reactivates a soft-deleted doctor
func (h *DoctorHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doctor, err := h.doctorService.Restore(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, doctor)
}
