package handler

import (
	"clinic-admin-backend/internal/service"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	appointmentService *service.AppointmentService
}

func NewAppointmentHandler(appointmentService *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
	}
}

// List returns active appointments unless the query asks for inactive ones
func (h *AppointmentHandler) List(c *gin.Context) {
	var q appointmentQuery
	if !bindQuery(c, &q) {
		return
	}

	filter, ok := q.filter()
	if !ok {
		utils.ValidationErrorResponse(c, map[string]string{"date": "must be a date formatted as YYYY-MM-DD"})
		return
	}

	appointments, err := h.appointmentService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// Get returns a single appointment whether or not it is active
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, appointment)
}

// Create registers a new appointment
func (h *AppointmentHandler) Create(c *gin.Context) {
	var in service.AppointmentInput
	if !bindJSON(c, &in) {
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, appointment)
}

// Update replaces the editable fields of an appointment
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in service.AppointmentInput
	if !bindJSON(c, &in) {
		return
	}

	appointment, err := h.appointmentService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, appointment)
}

// Delete soft-deletes an appointment
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, appointment)
}

// Restore reactivates a soft-deleted appointment
func (h *AppointmentHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Restore(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, appointment)
}
