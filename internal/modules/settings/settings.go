package settings

import (
	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/models"
	"github.com/impactflow/core/internal/modules/realtime"
	"github.com/impactflow/core/internal/pkg/response"
	"github.com/impactflow/core/internal/store"
)

type Handler struct {
	st  *store.Store
	hub *realtime.Hub
}

func NewHandler(st *store.Store, hub *realtime.Hub) *Handler {
	return &Handler{st: st, hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/settings")
	g.GET("", h.get)
	g.PUT("", h.update)
}

// GET /settings
func (h *Handler) get(c *gin.Context) {
	response.OK(c, h.st.Settings())
}

// PUT /settings — wholesale replacement of the singleton.
func (h *Handler) update(c *gin.Context) {
	var dto models.SettingsModel
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	saved, err := h.st.UpdateSettings(c.Request.Context(), dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if h.hub != nil {
		h.hub.BroadcastPublic(realtime.EventSettingsUpdated, saved)
	}
	response.OK(c, saved)
}
