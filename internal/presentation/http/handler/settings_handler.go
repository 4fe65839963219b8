package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kiplagat/bookshop-api/internal/application/service"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves user settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings updates user settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Language           string  `json:"language"`
		Timezone           string  `json:"timezone"`
		Currency           string  `json:"currency"`
		DateFormat         string  `json:"date_format"`
		ShopName           string  `json:"shop_name"`
		ShopAddress        *string `json:"shop_address"`
		ShopPhone          *string `json:"shop_phone"`
		ReceiptFooter      string  `json:"receipt_footer"`
		EmailNotifications bool    `json:"email_notifications"`
		LowStockAlerts     bool    `json:"low_stock_alerts"`
		PaymentDueAlerts   bool    `json:"payment_due_alerts"`
		Theme              string  `json:"theme"`
		CompactMode        bool    `json:"compact_mode"`
		SessionTimeout     string  `json:"session_timeout"`
		LoginAlerts        bool    `json:"login_alerts"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		UserID:             *userID,
		Language:           req.Language,
		Timezone:           req.Timezone,
		Currency:           req.Currency,
		DateFormat:         req.DateFormat,
		ShopName:           req.ShopName,
		ShopAddress:        req.ShopAddress,
		ShopPhone:          req.ShopPhone,
		ReceiptFooter:      req.ReceiptFooter,
		EmailNotifications: req.EmailNotifications,
		LowStockAlerts:     req.LowStockAlerts,
		PaymentDueAlerts:   req.PaymentDueAlerts,
		Theme:              req.Theme,
		CompactMode:        req.CompactMode,
		SessionTimeout:     req.SessionTimeout,
		LoginAlerts:        req.LoginAlerts,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
