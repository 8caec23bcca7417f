package contact

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/pkg/pagination"
	"github.com/impactflow/core/internal/pkg/response"
	"github.com/impactflow/core/internal/store"
)

type Handler struct{ st *store.Store }

func NewHandler(st *store.Store) *Handler { return &Handler{st: st} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/messages")
	g.GET("", h.list)
	g.POST("", h.create)
	g.PATCH("/:id/read", h.markRead)
	g.DELETE("/:id", h.delete)
}

// GET /messages?page=&size=
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag := pagination.Slice(h.st.Messages(), q)
	response.Paged(c, items, pag)
}

type messageDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// POST /messages — public contact form.
func (h *Handler) create(c *gin.Context) {
	var dto messageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(dto.Name) == "" {
		response.UnprocessableEntity(c, "name is required")
		return
	}
	if strings.TrimSpace(dto.Message) == "" {
		response.UnprocessableEntity(c, "message is required")
		return
	}

	m, err := h.st.RecordMessage(c.Request.Context(), store.MessageInput{
		Name:    strings.TrimSpace(dto.Name),
		Email:   strings.TrimSpace(dto.Email),
		Subject: strings.TrimSpace(dto.Subject),
		Message: dto.Message,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, m)
}

// PATCH /messages/:id/read — idempotent.
func (h *Handler) markRead(c *gin.Context) {
	if err := h.st.MarkMessageRead(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// DELETE /messages/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.st.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
