package handlers

import (
	"net/http"

	"github.com/farellandr/echallan/internal/account"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type AuthHandler struct {
	accounts *account.Service
	logger   *zap.Logger
}

func NewAuthHandler(accounts *account.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	expiresAt, err := h.accounts.RequestOTP(c.Request.Context(), req.Phone)
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"expiresAt": expiresAt,
	})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	result, err := h.accounts.VerifyOTP(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     result.Token,
		"userId":    result.UserID,
		"isNewUser": result.IsNewUser,
		"expiresAt": result.ExpiresAt,
	})
}
