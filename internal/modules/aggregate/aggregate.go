package aggregate

import (
	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/models"
	"github.com/impactflow/core/internal/modules/realtime"
	"github.com/impactflow/core/internal/pkg/response"
	"github.com/impactflow/core/internal/store"
)

// Handler serves the dashboard bootstrap payload: everything the admin
// overview needs in one round trip.
type Handler struct {
	st  *store.Store
	hub *realtime.Hub
}

func NewHandler(st *store.Store, hub *realtime.Hub) *Handler {
	return &Handler{st: st, hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/aggregate")
	g.GET("", h.getAggregate)
	g.GET("/stats", h.getStats)
}

type aggregateData struct {
	Settings        models.SettingsModel        `json:"settings"`
	Stats           store.Stats                 `json:"stats"`
	RecentDonations []models.DonationModel      `json:"recentDonations"`
	UrgentCampaigns []models.CampaignModel      `json:"urgentCampaigns"`
	PaymentMethods  []models.PaymentMethodModel `json:"paymentMethods"`
	Online          int                         `json:"online"`
}

const recentDonationLimit = 5

// GET /aggregate
func (h *Handler) getAggregate(c *gin.Context) {
	donations := h.st.Donations()
	if len(donations) > recentDonationLimit {
		donations = donations[:recentDonationLimit]
	}

	var urgent []models.CampaignModel
	for _, cp := range h.st.Campaigns() {
		if cp.Status == models.CampaignUrgent {
			urgent = append(urgent, cp)
		}
	}

	online := 0
	if h.hub != nil {
		online = h.hub.ClientCount("")
	}

	response.OK(c, aggregateData{
		Settings:        h.st.Settings(),
		Stats:           h.st.Stats(),
		RecentDonations: donations,
		UrgentCampaigns: urgent,
		PaymentMethods:  h.st.PaymentMethods(),
		Online:          online,
	})
}

// GET /aggregate/stats
func (h *Handler) getStats(c *gin.Context) {
	response.OK(c, h.st.Stats())
}
