package handler

import (
	"errors"
	"net/http"

	"clinic-admin-backend/internal/service"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	authService *service.AuthService
	// secureCookies marks the refresh cookie HTTPS-only
	secureCookies bool
}

func NewAuthHandler(authService *service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	utils.SuccessResponse(c, response)
}

// Register creates an account and signs it in
func (h *AuthHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if !bindJSON(c, &in) {
		return
	}

	response, err := h.authService.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	utils.CreatedResponse(c, response)
}

// Refresh generates a new access token from refresh token
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil || refreshToken == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"access_token": accessToken,
	})
}

// Logout revokes the refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err == nil && refreshToken != "" {
		if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
			respondError(c, err)
			return
		}
	}

	// Clear the cookie
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, "", -1, "/auth", "", h.secureCookies, true)
	utils.MessageResponse(c, "Logged out successfully")
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		refreshCookie,
		token,
		int(h.authService.RefreshTokenExpiry().Seconds()),
		"/auth", // only sent to refresh and logout
		"",
		h.secureCookies,
		true, // httpOnly
	)
}
