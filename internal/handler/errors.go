package handler

import (
	"errors"
	"net/http"
	"strconv"

	"clinic-admin-backend/internal/service"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the JSON envelope
func respondError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.ValidationErrorResponse(c, ve.Fields)
	case errors.Is(err, service.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
	default:
		// Picked up by the request logger
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// parseID reads the :id path parameter, answering 400 when it is not a positive integer
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body, answering 400 on malformed input
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
