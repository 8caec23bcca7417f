package notify

import (
	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/pkg/response"
)

type Handler struct{ center *Center }

func NewHandler(center *Center) *Handler { return &Handler{center: center} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/notifications")
	g.GET("", h.list)
	g.DELETE("/:id", h.dismiss)
}

// GET /notifications — the currently active toasts.
func (h *Handler) list(c *gin.Context) {
	response.OK(c, h.center.Active())
}

// DELETE /notifications/:id — dismiss early. Unknown ids succeed; the toast
// may simply have expired already.
func (h *Handler) dismiss(c *gin.Context) {
	h.center.Dismiss(c.Param("id"))
	response.NoContent(c)
}
