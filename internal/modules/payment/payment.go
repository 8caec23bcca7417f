package payment

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
	g := rg.Group("/payment-methods")
	g.GET("", h.list)
	g.GET("/active", h.listActive)
	g.PUT("", h.update)
}

// GET /payment-methods
func (h *Handler) list(c *gin.Context) {
	response.OK(c, h.st.PaymentMethods())
}

// GET /payment-methods/active — the set offered on the donation form.
func (h *Handler) listActive(c *gin.Context) {
	active := h.st.ActivePaymentMethods()
	if active == nil {
		active = []models.PaymentMethodModel{}
	}
	response.OK(c, active)
}

type updateDTO struct {
	Methods []models.PaymentMethodModel `json:"methods"`
}

// PUT /payment-methods — admin submits the full set; only changed entries
// are written through.
func (h *Handler) update(c *gin.Context) {
	var dto updateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	for _, m := range dto.Methods {
		if m.ID == "" {
			response.UnprocessableEntity(c, "every payment method needs an id")
			return
		}
	}

	if err := h.st.UpdatePaymentMethods(c.Request.Context(), dto.Methods); err != nil {
		response.InternalError(c, err)
		return
	}
	if h.hub != nil {
		h.hub.BroadcastPublic(realtime.EventPaymentMethodUpdate, h.st.PaymentMethods())
	}
	response.OK(c, h.st.PaymentMethods())
}
