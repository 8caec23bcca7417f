package ai

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/ai")
	g.GET("/status", h.getStatus)
	g.POST("/generate/description", h.generateDescription)
	g.GET("/tasks/:id", h.getTask)
}

// GET /ai/status
func (h *Handler) getStatus(c *gin.Context) {
	response.OK(c, gin.H{"configured": h.svc.Configured()})
}

type generateDescriptionDTO struct {
	Topic string `json:"topic"`
}

// POST /ai/generate/description
func (h *Handler) generateDescription(c *gin.Context) {
	var dto generateDescriptionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	topic := strings.TrimSpace(dto.Topic)
	if topic == "" {
		response.BadRequest(c, "topic is required")
		return
	}

	text := h.svc.GenerateProjectDescription(c.Request.Context(), topic)
	response.OK(c, gin.H{"description": text})
}

// GET /ai/tasks/:id
func (h *Handler) getTask(c *gin.Context) {
	task, err := h.svc.TaskByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFoundMsg(c, "task not found")
		return
	}
	response.OK(c, task)
}
