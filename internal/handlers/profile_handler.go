package handlers

import (
	"net/http"

	"github.com/farellandr/echallan/internal/account"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/middleware"
	"github.com/farellandr/echallan/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	accounts *account.Service
	logger   *zap.Logger
}

func NewProfileHandler(accounts *account.Service, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, logger: logger}
}

func (h *ProfileHandler) CreateUserAccount(c *gin.Context) {
	var req account.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	user, err := h.accounts.CreateUserAccount(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"userId":  user.UID,
	})
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.accounts.GetUserProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req account.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	user, err := h.accounts.UpdateUserProfile(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

func (h *ProfileHandler) CreateAddress(c *gin.Context) {
	var req account.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	address, err := h.accounts.CreateAddress(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"address": address,
	})
}

func (h *ProfileHandler) ListAddresses(c *gin.Context) {
	addresses, err := h.accounts.ListAddresses(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}
	if addresses == nil {
		addresses = []models.Address{}
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}
