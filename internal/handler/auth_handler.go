package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/nabih-app/nabih-api/internal/middleware"
	"github.com/nabih-app/nabih-api/internal/service"
	"github.com/nabih-app/nabih-api/internal/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	rateLimiter *middleware.InvalidAuthRateLimiter
}

func NewAuthHandler(authService *service.AuthService, rateLimiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, rateLimiter: rateLimiter}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.authService.Register(req)
	if err != nil {
		if errors.Is(err, utils.ErrEmailTaken) {
			utils.Error(c, 409, "EMAIL_TAKEN", "An account with this email already exists")
			return
		}
		utils.Error(c, 500, "REGISTRATION_FAILED", "Failed to create account")
		return
	}

	utils.Success(c, 201, "Account created", result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Platform string `json:"platform"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if h.rateLimiter.Blocked(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many failed attempts, try again later")
		return
	}

	result, err := h.authService.Login(service.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidCredentials):
			// Only failed credential checks count against the limit.
			if !h.rateLimiter.Allow(c.ClientIP()) {
				utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many failed attempts, try again later")
				return
			}
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, utils.ErrAccountInactive):
			utils.Error(c, 403, "ACCOUNT_INACTIVE", "This account is suspended or deleted")
		default:
			utils.Error(c, 500, "LOGIN_FAILED", "Failed to sign in")
		}
		return
	}

	destination, err := service.ResolveDestination(result.User, req.Platform)
	if err != nil {
		if errors.Is(err, utils.ErrAccessDenied) {
			utils.Error(c, 403, "ACCESS_DENIED", "This account cannot access the requested platform")
			return
		}
		utils.Error(c, 500, "LOGIN_FAILED", "Failed to sign in")
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token":       result.Token,
		"user":        result.User,
		"destination": destination,
	})
}

// Session re-resolves the authenticated user and their destination, used
// by clients on page reload.
func (h *AuthHandler) Session(c *gin.Context) {
	userID := c.GetString("user_id")
	user, err := h.authService.AssembleUser(userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Account no longer exists")
			return
		}
		utils.Error(c, 500, "SESSION_FAILED", "Failed to load session")
		return
	}

	destination, err := service.ResolveDestination(user, c.Query("platform"))
	if err != nil {
		if errors.Is(err, utils.ErrAccessDenied) {
			utils.Error(c, 403, "ACCESS_DENIED", "This account cannot access the requested platform")
			return
		}
		utils.Error(c, 500, "SESSION_FAILED", "Failed to load session")
		return
	}

	utils.Success(c, 200, "Session resolved", gin.H{
		"user":        user,
		"destination": destination,
	})
}
