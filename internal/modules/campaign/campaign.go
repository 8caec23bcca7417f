package campaign

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/models"
	"github.com/impactflow/core/internal/pkg/response"
	"github.com/impactflow/core/internal/store"
)

type Handler struct{ st *store.Store }

func NewHandler(st *store.Store) *Handler { return &Handler{st: st} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/campaigns")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// GET /campaigns?status=...
func (h *Handler) list(c *gin.Context) {
	campaigns := h.st.Campaigns()
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filtered := campaigns[:0]
		for _, item := range campaigns {
			if string(item.Status) == status {
				filtered = append(filtered, item)
			}
		}
		campaigns = filtered
	}
	response.OK(c, campaigns)
}

// GET /campaigns/:id
func (h *Handler) get(c *gin.Context) {
	item, ok := h.st.CampaignByID(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "campaign not found")
		return
	}
	response.OK(c, item)
}

type campaignDTO struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Goal        float64   `json:"goal"`
	Deadline    time.Time `json:"deadline"`
	ImageURL    string    `json:"imageUrl"`
	Status      string    `json:"status"`
}

func (dto *campaignDTO) validate() string {
	if strings.TrimSpace(dto.Title) == "" {
		return "title is required"
	}
	if dto.Goal <= 0 {
		return "goal must be positive"
	}
	if dto.Status != "" && !models.ValidCampaignStatus(models.CampaignStatus(dto.Status)) {
		return "unknown status"
	}
	return ""
}

// POST /campaigns
func (h *Handler) create(c *gin.Context) {
	var dto campaignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if msg := dto.validate(); msg != "" {
		response.UnprocessableEntity(c, msg)
		return
	}

	status := models.CampaignStatus(dto.Status)
	if dto.Status == "" {
		status = models.CampaignActive
	}

	item, err := h.st.CreateCampaign(c.Request.Context(), models.CampaignModel{
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		Goal:        dto.Goal,
		Deadline:    dto.Deadline,
		ImageURL:    dto.ImageURL,
		Status:      status,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, item)
}

// PUT /campaigns/:id
func (h *Handler) update(c *gin.Context) {
	existing, ok := h.st.CampaignByID(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "campaign not found")
		return
	}

	var dto campaignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if msg := dto.validate(); msg != "" {
		response.UnprocessableEntity(c, msg)
		return
	}

	existing.Title = strings.TrimSpace(dto.Title)
	existing.Description = dto.Description
	existing.Goal = dto.Goal
	existing.Deadline = dto.Deadline
	existing.ImageURL = dto.ImageURL
	if dto.Status != "" {
		existing.Status = models.CampaignStatus(dto.Status)
	}

	item, err := h.st.UpdateCampaign(c.Request.Context(), existing)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, item)
}

// DELETE /campaigns/:id
func (h *Handler) delete(c *gin.Context) {
	if _, ok := h.st.CampaignByID(c.Param("id")); !ok {
		response.NotFoundMsg(c, "campaign not found")
		return
	}
	if err := h.st.DeleteCampaign(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
