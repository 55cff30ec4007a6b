package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/services"
)

type ReadyPlanHandler struct {
	log     *logger.Logger
	planSvc services.ReadyPlanService
}

func NewReadyPlanHandler(log *logger.Logger, planSvc services.ReadyPlanService) *ReadyPlanHandler {
	return &ReadyPlanHandler{
		log:     log.With("handler", "ReadyPlanHandler"),
		planSvc: planSvc,
	}
}

type generateRequest struct {
	City string `json:"city"`
}

type preconditionResponse struct {
	Error            string `json:"error"`
	LocalFriendCount int    `json:"local_friend_count"`
	MinimumRequired  int    `json:"minimum_required,omitempty"`
}

// POST /api/ready-plans/generate
func (h *ReadyPlanHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.City) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "City is required"})
		return
	}

	result, err := h.planSvc.Generate(c.Request.Context(), strings.TrimSpace(req.City))
	if err != nil {
		var pre *services.PreconditionError
		if errors.As(err, &pre) {
			c.JSON(http.StatusBadRequest, preconditionResponse{
				Error:            pre.Message,
				LocalFriendCount: pre.LocalFriendCount,
				MinimumRequired:  pre.MinimumRequired,
			})
			return
		}
		h.log.Error("Plan generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"plans_generated": result.PlansGenerated,
		"plans":           result.Plans,
	})
}

// GET /api/ready-plans
func (h *ReadyPlanHandler) List(c *gin.Context) {
	plans, err := h.planSvc.ListPlans(c.Request.Context())
	if err != nil {
		h.log.Error("Plan listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}
