package handler

import (
	"net/http"
	"time"

	"clinic-admin-backend/internal/models"
	"clinic-admin-backend/internal/repository"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// listQuery holds the query parameters shared by every list endpoint
type listQuery struct {
	Q               string `form:"q"`
	IncludeInactive bool   `form:"include_inactive"`
	Active          *bool  `form:"active"`
	Order           string `form:"order"`
}

func (q listQuery) options() repository.ListOptions {
	return repository.ListOptions{
		Query:           q.Q,
		IncludeInactive: q.IncludeInactive,
		Active:          q.Active,
		Order:           q.Order,
	}
}

type doctorQuery struct {
	listQuery
	SpecialtyID uint `form:"specialty_id"`
}

func (q doctorQuery) filter() repository.DoctorFilter {
	return repository.DoctorFilter{
		ListOptions: q.options(),
		SpecialtyID: q.SpecialtyID,
	}
}

type appointmentQuery struct {
	listQuery
	Status    string `form:"status"`
	PatientID uint   `form:"patient_id"`
	DoctorID  uint   `form:"doctor_id"`
	Date      string `form:"date"`
}

func (q appointmentQuery) filter() (repository.AppointmentFilter, bool) {
	filter := repository.AppointmentFilter{
		ListOptions: q.options(),
		Status:      models.AppointmentStatus(q.Status),
		PatientID:   q.PatientID,
		DoctorID:    q.DoctorID,
	}
	if q.Date != "" {
		day, err := time.Parse("2006-01-02", q.Date)
		if err != nil {
			return filter, false
		}
		filter.Date = &day
	}
	return filter, true
}

// bindQuery decodes query parameters, answering 400 on malformed values
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return false
	}
	return true
}
