package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/davryn/identity-service/internal/application"
	"github.com/davryn/identity-service/pkg/response"
	"github.com/davryn/identity-service/pkg/validation"
)

// AuthHandler serves the password-reset and email-confirmation
// endpoints.
type AuthHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *userapp.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type resetInitRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

type verifyConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

// ResetInit POST /api/auth/reset/init
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req resetInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		h.Logger.WithError(err).WithField("email", req.Email).Warn("password reset request failed")
		response.Error(c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset_token": token}, "reset email sent", nil)
}

// ResetConfirm POST /api/auth/reset/confirm
func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.Error(c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}

// VerifyConfirm POST /api/auth/verify/confirm
func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req verifyConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ConfirmEmail(c.Request.Context(), req.Token)
	if err != nil {
		response.Error(c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true, "user_id": u.ID}, "email verified", nil)
}
