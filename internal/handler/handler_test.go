package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-admin-backend/internal/models"
	"clinic-admin-backend/internal/repository"
	"clinic-admin-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func TestRespondError(t *testing.T) {
	ve := &service.ValidationError{Fields: map[string]string{"license_id": "taken"}}

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", ve, http.StatusBadRequest},
		{"not found", &repository.NotFoundError{Entity: "doctor", ID: 3}, http.StatusNotFound},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized},
		{"other", errors.New("database is down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, body.Error, "database", "internal details stay in the log")
				assert.Len(t, c.Errors, 1)
			}
		})
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, ve)
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "taken", body.Fields["license_id"])
}

func TestAppointmentQuery(t *testing.T) {
	r := gin.New()
	var got repository.AppointmentFilter
	r.GET("/appointments", func(c *gin.Context) {
		var q appointmentQuery
		if !bindQuery(c, &q) {
			return
		}
		filter, ok := q.filter()
		if !ok {
			c.Status(http.StatusBadRequest)
			return
		}
		got = filter
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/appointments?q=doe&active=false&order=schedule&status=Pending&doctor_id=4&date=2030-01-15", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "doe", got.Query)
	require.NotNil(t, got.Active)
	assert.False(t, *got.Active)
	assert.Equal(t, "schedule", got.Order)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, uint(4), got.DoctorID)
	require.NotNil(t, got.Date)
	assert.Equal(t, 15, got.Date.Day())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments?date=tomorrow", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments?doctor_id=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseID(t *testing.T) {
	r := gin.New()
	r.GET("/doctors/:id", func(c *gin.Context) {
		if _, ok := parseID(c); ok {
			c.Status(http.StatusOK)
		}
	})

	for path, want := range map[string]int{
		"/doctors/12":  http.StatusOK,
		"/doctors/0":   http.StatusBadRequest,
		"/doctors/-1":  http.StatusBadRequest,
		"/doctors/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}
