package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/davryn/identity-service/internal/application"
	"github.com/davryn/identity-service/internal/domain/entity"
	"github.com/davryn/identity-service/internal/interface/middleware"
	"github.com/davryn/identity-service/pkg/helpers"
	"github.com/davryn/identity-service/pkg/response"
	"github.com/davryn/identity-service/pkg/validation"
)

type UserHandler struct {
	Svc     *userapp.Service
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	NewEmail    string `json:"new_email" binding:"omitempty,email"`
	NewPassword string `json:"new_password" binding:"omitempty,pwd"`
}

func profileJSON(u *entity.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email.Address(),
		"is_verified": u.IsVerified,
		"created_at":  u.CreatedAt,
		"updated_at":  u.UpdatedAt,
	}
}

// Register POST /api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Logger.WithError(err).WithField("email", req.Email).Warn("registration failed")
		response.Error(c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, profileJSON(u), "user registered", nil)
}

// Login POST /api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Uniform message: never hint whether the email exists.
		response.Error(c, statusFor(err), "invalid credentials", nil)
		return
	}
	h.Cookies.SetAccessToken(c, token, exp)
	response.Success(c, http.StatusOK, gin.H{
		"user_id": u.ID,
		"email":   u.Email.Address(),
		"token":   token,
	}, "login successful", map[string]any{"expires_at": exp})
}

// Logout POST /api/logout
func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, statusFor(err), "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, profileJSON(u), "profile", nil)
}

// UpdateProfile PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, userapp.UpdateProfileInput{
		NewEmail:    req.NewEmail,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		response.Error(c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, profileJSON(u), "profile updated", nil)
}

// DeleteAccount DELETE /api/profile?hard=true|false
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	hard := c.Query("hard") == "true"
	if err := h.Svc.Delete(c.Request.Context(), uid, hard); err != nil {
		response.Error(c, statusFor(err), err.Error(), nil)
		return
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"deleted": true, "hard": hard}, "account deleted", nil)
}
