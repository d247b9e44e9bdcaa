package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ibercasa/ibercasa/internal/services"
	"github.com/ibercasa/ibercasa/internal/utils"
)

type AdminHandler struct {
	auth      services.AuthService
	analytics services.AnalyticsService
}

func NewAdminHandler(auth services.AuthService, analytics services.AnalyticsService) *AdminHandler {
	return &AdminHandler{auth: auth, analytics: analytics}
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AdminHandler.Login", "invalid request body", err))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      res.Token,
		"expires_in": res.ExpiresIn,
	})
}

type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AdminHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AdminHandler.Verify", "invalid request body", err))
		return
	}

	info, err := h.auth.Verify(c.Request.Context(), req.Token)
	if err != nil {
		// Verification failures are a negative answer, not an API error.
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "data": info})
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	out, err := h.analytics.GetAnalytics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) Interactions(c *gin.Context) {
	limit, offset := pageParams(c)
	out, err := h.analytics.ListInteractions(c.Request.Context(), limit, offset, c.Query("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) QueryLogs(c *gin.Context) {
	limit, offset := pageParams(c)
	out, err := h.analytics.ListQueryLogs(c.Request.Context(), limit, offset, c.Query("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) Preferences(c *gin.Context) {
	limit, offset := pageParams(c)
	out, err := h.analytics.ListPreferences(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
