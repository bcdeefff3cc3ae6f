package handlers

import (
	"github.com/gin-gonic/gin"

	"rezerve/internal/domain/auth"
	"rezerve/internal/infrastructure/http/v1/dto"
)

// BotTokenSink receives the bot token when it changes at runtime.
type BotTokenSink interface {
	SetToken(token string)
}

// SettingsHandler handles application settings endpoints.
type SettingsHandler struct {
	*BaseHandler
	service  *auth.Service
	botToken BotTokenSink
}

// NewSettingsHandler creates a settings handler. botToken may be nil
// when no notification client runs in this process.
func NewSettingsHandler(base *BaseHandler, service *auth.Service, botToken BotTokenSink) *SettingsHandler {
	return &SettingsHandler{BaseHandler: base, service: service, botToken: botToken}
}

// List handles GET /settings.
func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.service.AllSettings(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, settings)
}

// Get handles GET /settings/:key.
func (h *SettingsHandler) Get(c *gin.Context) {
	key := c.Param("key")
	value, err := h.service.GetSetting(c.Request.Context(), key)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"key": key, "value": value})
}

// Set handles PUT /settings/:key.
func (h *SettingsHandler) Set(c *gin.Context) {
	var req dto.SettingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	key := c.Param("key")
	if err := h.service.SetSetting(c.Request.Context(), key, req.Value); err != nil {
		h.Error(c, err)
		return
	}

	// Token changes take effect without a restart.
	if key == auth.SettingBotToken && h.botToken != nil {
		h.botToken.SetToken(req.Value)
	}

	h.Success(c, "setting updated")
}
