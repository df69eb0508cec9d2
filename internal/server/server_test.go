package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-admin-backend/internal/config"
	"clinic-admin-backend/internal/testutil"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.BcryptCost = bcrypt.MinCost
}

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

type response struct {
	Code    int
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
	cookies []*http.Cookie
}

func newClient(t *testing.T) *client {
	cfg := config.Default()
	cfg.Server.AllowedHosts = []string{"example.com"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := New(cfg, testutil.NewDB(t), logger)
	return &client{t: t, handler: srv.Handler()}
}

func (c *client) do(method, path string, body interface{}, cookies ...*http.Cookie) response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	var resp response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	resp.Code = w.Code
	resp.cookies = w.Result().Cookies()
	return resp
}

// create posts body and returns the id of the created record
func (c *client) create(path string, body interface{}) uint {
	c.t.Helper()
	resp := c.do(http.MethodPost, path, body)
	require.Equal(c.t, http.StatusCreated, resp.Code, resp.Error, resp.Fields)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(resp.Data, &created))
	return created.ID
}

func (c *client) register() []*http.Cookie {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/auth/register", map[string]string{
		"username":         "reception",
		"email":            "reception@example.com",
		"password":         "s3cret-pass",
		"password_confirm": "s3cret-pass",
	})
	require.Equal(c.t, http.StatusCreated, resp.Code, resp.Fields)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(c.t, json.Unmarshal(resp.Data, &data))
	c.token = data.AccessToken
	return resp.cookies
}

type dashboard struct {
	ActivePatients      int64 `json:"active_patients"`
	ActiveDoctors       int64 `json:"active_doctors"`
	ActiveAppointments  int64 `json:"active_appointments"`
	PendingAppointments int64 `json:"pending_appointments"`
	ActiveSpecialties   int64 `json:"active_specialties"`
}

func (c *client) dashboard() dashboard {
	c.t.Helper()
	resp := c.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(c.t, http.StatusOK, resp.Code)
	var d dashboard
	require.NoError(c.t, json.Unmarshal(resp.Data, &d))
	return d
}

func TestHealthAndMetrics(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, resp.Success)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `clinic_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRejectsUnknownHost(t *testing.T) {
	c := newClient(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Host = "attacker.test"
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	c := newClient(t)

	for _, path := range []string{"/api/dashboard", "/api/doctors", "/api/patients/1"} {
		resp := c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, path)
	}
}

func TestAuthFlow(t *testing.T) {
	c := newClient(t)
	cookies := c.register()

	var refresh *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == "refresh_token" {
			refresh = cookie
		}
	}
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)

	resp := c.do(http.MethodPost, "/auth/login", map[string]string{"username": "reception", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = c.do(http.MethodPost, "/auth/login", map[string]string{"username": "reception", "password": "s3cret-pass"})
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = c.do(http.MethodPost, "/auth/refresh", nil, refresh)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = c.do(http.MethodPost, "/auth/logout", nil, refresh)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = c.do(http.MethodPost, "/auth/refresh", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = c.do(http.MethodPost, "/auth/register", map[string]string{
		"username": "reception", "email": "x@example.com", "password": "s3cret-pass", "password_confirm": "s3cret-pass",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Fields, "username")
}

func TestClinicScenario(t *testing.T) {
	c := newClient(t)
	c.register()

	specialtyID := c.create("/api/specialties", map[string]interface{}{"name": "Cardiology"})
	doctorID := c.create("/api/doctors", map[string]interface{}{
		"first_name":   "Gregory",
		"last_name":    "House",
		"license_id":   "D-001",
		"phone":        "555-0100",
		"specialty_id": specialtyID,
	})
	patientID := c.create("/api/patients", map[string]interface{}{
		"first_name":  "Jane",
		"last_name":   "Doe",
		"national_id": "P-001",
		"birth_date":  "1990-05-17",
		"phone":       "555-0200",
	})
	appointmentID := c.create("/api/appointments", map[string]interface{}{
		"patient_id": patientID,
		"doctor_id":  doctorID,
		"date":       "2030-01-15",
		"time":       "09:30",
		"reason":     "checkup",
		"status":     "Pending",
	})

	assert.Equal(t, int64(1), c.dashboard().PendingAppointments)

	resp := c.do(http.MethodDelete, fmt.Sprintf("/api/appointments/%d", appointmentID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = c.do(http.MethodDelete, fmt.Sprintf("/api/appointments/%d", appointmentID), nil)
	require.Equal(t, http.StatusOK, resp.Code, "soft delete is idempotent")

	d := c.dashboard()
	assert.Equal(t, int64(0), d.PendingAppointments)
	assert.Equal(t, int64(1), d.ActiveDoctors)
	assert.Equal(t, int64(1), d.ActivePatients)

	var doctors struct {
		Count int `json:"count"`
	}
	resp = c.do(http.MethodGet, "/api/doctors?q=house", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &doctors))
	assert.Equal(t, 1, doctors.Count)

	var appointment struct {
		Active bool `json:"active"`
	}
	resp = c.do(http.MethodGet, fmt.Sprintf("/api/appointments/%d", appointmentID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &appointment))
	assert.False(t, appointment.Active, "direct lookup still finds the soft-deleted appointment")

	resp = c.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/restore", appointmentID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, int64(1), c.dashboard().PendingAppointments)
}

func TestErrorMapping(t *testing.T) {
	c := newClient(t)
	c.register()

	specialtyID := c.create("/api/specialties", map[string]interface{}{"name": "Cardiology"})
	doctor := map[string]interface{}{
		"first_name":   "Gregory",
		"last_name":    "House",
		"license_id":   "D-001",
		"phone":        "555-0100",
		"specialty_id": specialtyID,
	}
	c.create("/api/doctors", doctor)

	resp := c.do(http.MethodPost, "/api/doctors", doctor)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Fields, "license_id")

	resp = c.do(http.MethodPost, "/api/appointments", map[string]interface{}{
		"patient_id": 999, "doctor_id": 1, "date": "2030-01-15", "time": "09:30", "reason": "checkup",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = c.do(http.MethodPut, "/api/patients/999", map[string]interface{}{"first_name": "x"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = c.do(http.MethodGet, "/api/doctors/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = c.do(http.MethodPost, "/api/specialties", "not an object")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = c.do(http.MethodGet, "/api/patients?order=shoe_size", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Fields, "order")
}
