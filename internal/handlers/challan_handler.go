package handlers

import (
	"net/http"

	"github.com/farellandr/echallan/internal/challan"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/middleware"
	"github.com/farellandr/echallan/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadPhotosRequest struct {
	Photos []string `json:"photos" binding:"required,min=1"`
}

type ValidateQRRequest struct {
	QRData string `json:"qrData" binding:"required"`
}

type ChallanHandler struct {
	challans *challan.Service
	logger   *zap.Logger
}

func NewChallanHandler(challans *challan.Service, logger *zap.Logger) *ChallanHandler {
	return &ChallanHandler{challans: challans, logger: logger}
}

func (h *ChallanHandler) CreatePersonChallan(c *gin.Context) {
	var req challan.PersonChallanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	created, err := h.challans.CreatePersonChallan(c.Request.Context(), middleware.GetUserID(c), req)
	h.respondCreated(c, created, err)
}

func (h *ChallanHandler) CreateShopChallan(c *gin.Context) {
	var req challan.ShopChallanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	created, err := h.challans.CreateShopChallan(c.Request.Context(), middleware.GetUserID(c), req)
	h.respondCreated(c, created, err)
}

func (h *ChallanHandler) respondCreated(c *gin.Context, created *models.Challan, err error) {
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"challanId": created.ChallanID,
		"challan":   created,
	})
}

func (h *ChallanHandler) ListChallans(c *gin.Context) {
	limit, err := helpers.ParseLimit(c.Query("limit"), challan.DefaultPageSize, challan.MaxPageSize)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	page, err := h.challans.ListUserChallans(c.Request.Context(), middleware.GetUserID(c), challan.ListInput{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Limit:  limit,
		Cursor: c.Query("cursor"),
	})
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ChallanHandler) GetChallan(c *gin.Context) {
	details, err := h.challans.GetChallanDetails(c.Request.Context(), middleware.GetUserID(c), c.Param("challanId"))
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *ChallanHandler) UploadPhotos(c *gin.Context) {
	var req UploadPhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	urls, err := h.challans.AttachPhotos(c.Request.Context(), middleware.GetUserID(c), c.Param("challanId"), req.Photos)
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"photoUrls": urls,
	})
}

func (h *ChallanHandler) RegenerateQR(c *gin.Context) {
	url, err := h.challans.RegenerateQR(c.Request.Context(), middleware.GetUserID(c), c.Param("challanId"))
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"qrCodeUrl": url,
	})
}

func (h *ChallanHandler) ValidateQR(c *gin.Context) {
	var req ValidateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	found, err := h.challans.ValidateQR(c.Request.Context(), middleware.GetUserID(c), req.QRData)
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"challan": found,
	})
}
