package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ibercasa/ibercasa/internal/models"
	"github.com/ibercasa/ibercasa/internal/services"
	"github.com/ibercasa/ibercasa/internal/utils"
)

type AdviceHandler struct {
	svc services.AdviceService
}

func NewAdviceHandler(svc services.AdviceService) *AdviceHandler {
	return &AdviceHandler{svc: svc}
}

type GenerateAdviceRequest struct {
	models.AdviceRequest
	SessionID string `json:"session_id,omitempty"`
}

func (h *AdviceHandler) Generate(c *gin.Context) {
	var req GenerateAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AdviceHandler.Generate", "invalid request body", err))
		return
	}

	meta := services.ClientMeta{
		SessionID: req.SessionID,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}

	res, err := h.svc.GenerateAdvice(c.Request.Context(), &req.AdviceRequest, meta)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
