package handler

import (
	"clinic-admin-backend/internal/service"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SpecialtyHandler struct {
	specialtyService *service.SpecialtyService
}

func NewSpecialtyHandler(specialtyService *service.SpecialtyService) *SpecialtyHandler {
	return &SpecialtyHandler{
		specialtyService: specialtyService,
	}
}

// List returns active specialties unless the query asks for inactive ones
func (h *SpecialtyHandler) List(c *gin.Context) {
	var q listQuery
	if !bindQuery(c, &q) {
		return
	}

	specialties, err := h.specialtyService.List(c.Request.Context(), q.options())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"specialties": specialties,
		"count":       len(specialties),
	})
}

// Get returns a single specialty whether or not it is active
func (h *SpecialtyHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	specialty, err := h.specialtyService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, specialty)
}

// Create registers a new specialty
func (h *SpecialtyHandler) Create(c *gin.Context) {
	var in service.SpecialtyInput
	if !bindJSON(c, &in) {
		return
	}

	specialty, err := h.specialtyService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, specialty)
}

// Update replaces the editable fields of a specialty
func (h *SpecialtyHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in service.SpecialtyInput
	if !bindJSON(c, &in) {
		return
	}

	specialty, err := h.specialtyService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, specialty)
}

// Delete soft-deletes a specialty
func (h *SpecialtyHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	specialty, err := h.specialtyService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, specialty)
}

// Restore reactivates a soft-deleted specialty
func (h *SpecialtyHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	specialty, err := h.specialtyService.Restore(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, specialty)
}
