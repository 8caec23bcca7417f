package donation

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/models"
	"github.com/impactflow/core/internal/modules/ai"
	"github.com/impactflow/core/internal/modules/realtime"
	"github.com/impactflow/core/internal/pkg/pagination"
	"github.com/impactflow/core/internal/pkg/response"
	"github.com/impactflow/core/internal/store"
)

type Handler struct {
	st  *store.Store
	ai  *ai.Service
	hub *realtime.Hub
}

// NewHandler wires the donation endpoints. ai and hub may be nil.
func NewHandler(st *store.Store, aiSvc *ai.Service, hub *realtime.Hub) *Handler {
	return &Handler{st: st, ai: aiSvc, hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/donations")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.POST("/:id/thank-you", h.thankYou)
}

// GET /donations?page=&size=
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag := pagination.Slice(h.st.Donations(), q)
	response.Paged(c, items, pag)
}

// GET /donations/:id — donation verification lookup.
func (h *Handler) get(c *gin.Context) {
	d, ok := h.st.DonationByID(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "donation not found")
		return
	}
	response.OK(c, d)
}

type donationDTO struct {
	ProjectID     string  `json:"projectId"`
	CampaignID    string  `json:"campaignId"`
	Amount        float64 `json:"amount"`
	DonorName     string  `json:"donorName"`
	DonorEmail    string  `json:"donorEmail"`
	Message       string  `json:"message"`
	IsAnonymous   bool    `json:"isAnonymous"`
	PaymentMethod string  `json:"paymentMethod"`
}

// POST /donations
func (h *Handler) create(c *gin.Context) {
	var dto donationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if dto.Amount <= 0 {
		response.UnprocessableEntity(c, "amount must be positive")
		return
	}
	if dto.ProjectID == "" && dto.CampaignID == "" {
		response.UnprocessableEntity(c, "a project or campaign is required")
		return
	}
	if dto.ProjectID != "" && dto.CampaignID != "" {
		response.UnprocessableEntity(c, "choose either a project or a campaign, not both")
		return
	}
	if dto.ProjectID != "" {
		if _, ok := h.st.ProjectByID(dto.ProjectID); !ok {
			response.UnprocessableEntity(c, "unknown project")
			return
		}
	}
	if dto.CampaignID != "" {
		if _, ok := h.st.CampaignByID(dto.CampaignID); !ok {
			response.UnprocessableEntity(c, "unknown campaign")
			return
		}
	}

	active := h.st.ActivePaymentMethods()
	if len(active) == 0 {
		response.Conflict(c, "donations are temporarily unavailable: no payment methods are active")
		return
	}
	if !methodActive(active, dto.PaymentMethod) {
		response.UnprocessableEntity(c, "payment method is not available")
		return
	}

	d, err := h.st.RecordDonation(c.Request.Context(), store.DonationInput{
		ProjectID:     dto.ProjectID,
		CampaignID:    dto.CampaignID,
		Amount:        dto.Amount,
		DonorName:     strings.TrimSpace(dto.DonorName),
		DonorEmail:    strings.TrimSpace(dto.DonorEmail),
		Message:       dto.Message,
		IsAnonymous:   dto.IsAnonymous,
		PaymentMethod: dto.PaymentMethod,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastPublic(realtime.EventDonationCreated, d)
	}

	var taskID string
	if h.ai != nil && h.ai.Configured() {
		if task, err := h.ai.EnqueueThankYouNote(
			c.Request.Context(), d.ID, d.DonorName, d.Amount, h.targetTitle(d),
		); err == nil {
			taskID = task.ID
		}
	}

	payload := gin.H{"donation": d}
	if taskID != "" {
		payload["thankYouTaskId"] = taskID
	}
	response.Created(c, payload)
}

// POST /donations/:id/thank-you — (re)queue thank-you note generation.
func (h *Handler) thankYou(c *gin.Context) {
	d, ok := h.st.DonationByID(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "donation not found")
		return
	}
	if h.ai == nil {
		response.Conflict(c, "AI services are not configured")
		return
	}
	task, err := h.ai.EnqueueThankYouNote(c.Request.Context(), d.ID, d.DonorName, d.Amount, h.targetTitle(d))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, task)
}

func (h *Handler) targetTitle(d models.DonationModel) string {
	kind, id, ok := d.Target()
	if !ok {
		return "General Fund"
	}
	switch kind {
	case "project":
		if p, found := h.st.ProjectByID(id); found {
			return p.Title
		}
	case "campaign":
		if cp, found := h.st.CampaignByID(id); found {
			return cp.Title
		}
	}
	return "General Fund"
}

func methodActive(active []models.PaymentMethodModel, name string) bool {
	for _, m := range active {
		if m.Name == name {
			return true
		}
	}
	return false
}
