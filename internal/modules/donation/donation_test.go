package donation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/gateway"
	"github.com/impactflow/core/internal/models"
	"github.com/impactflow/core/internal/store"
)

type stubGateway struct{}

func (stubGateway) Configured() bool                                  { return false }
func (stubGateway) LoadState(context.Context) gateway.Snapshot        { return gateway.Snapshot{} }
func (stubGateway) LoadDonations(context.Context) ([]models.DonationModel, error) {
	return nil, nil
}
func (stubGateway) LoadMessages(context.Context) ([]models.MessageModel, error) { return nil, nil }
func (stubGateway) LoadPaymentMethods(context.Context) ([]models.PaymentMethodModel, error) {
	return nil, nil
}
func (stubGateway) SaveDonation(context.Context, *models.DonationModel) error      { return nil }
func (stubGateway) SaveProject(context.Context, *models.ProjectModel) error        { return nil }
func (stubGateway) DeleteProject(context.Context, string) error                    { return nil }
func (stubGateway) SaveCampaign(context.Context, *models.CampaignModel) error      { return nil }
func (stubGateway) DeleteCampaign(context.Context, string) error                   { return nil }
func (stubGateway) SaveNews(context.Context, *models.NewsModel) error              { return nil }
func (stubGateway) DeleteNews(context.Context, string) error                       { return nil }
func (stubGateway) SaveMessage(context.Context, *models.MessageModel) error        { return nil }
func (stubGateway) MarkMessageRead(context.Context, string) error                  { return nil }
func (stubGateway) DeleteMessage(context.Context, string) error                    { return nil }
func (stubGateway) SaveSettings(context.Context, *models.SettingsModel) error      { return nil }
func (stubGateway) SavePaymentMethod(context.Context, *models.PaymentMethodModel) error {
	return nil
}
func (stubGateway) Subscribe(func(gateway.ChangeEvent)) func() { return func() {} }

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(stubGateway{}, nil, nil)
	st.Initialize(context.Background())
	t.Cleanup(st.Close)

	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(st, nil, nil).RegisterRoutes(api)
	return r, st
}

func postDonation(t *testing.T, r *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/donations", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateDonation(t *testing.T) {
	r, st := newTestRouter(t)

	before, _ := st.ProjectByID("p1")
	w := postDonation(t, r, map[string]interface{}{
		"projectId":     "p1",
		"amount":        500,
		"donorName":     "Jane",
		"paymentMethod": "PayPal",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	after, _ := st.ProjectByID("p1")
	if after.CurrentAmount != before.CurrentAmount+500 {
		t.Fatalf("aggregate not applied: %v", after.CurrentAmount)
	}
}

func TestCreateDonationRejectsNonPositiveAmount(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postDonation(t, r, map[string]interface{}{
		"projectId":     "p1",
		"amount":        0,
		"paymentMethod": "PayPal",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestCreateDonationRequiresTarget(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postDonation(t, r, map[string]interface{}{
		"amount":        100,
		"paymentMethod": "PayPal",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestCreateDonationRejectsInactiveMethod(t *testing.T) {
	r, _ := newTestRouter(t)

	// Bitcoin is seeded inactive.
	w := postDonation(t, r, map[string]interface{}{
		"projectId":     "p1",
		"amount":        100,
		"paymentMethod": "Bitcoin",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestCreateDonationBlockedWhenNoActiveMethods(t *testing.T) {
	r, st := newTestRouter(t)

	methods := st.PaymentMethods()
	for i := range methods {
		methods[i].IsActive = false
	}
	if err := st.UpdatePaymentMethods(context.Background(), methods); err != nil {
		t.Fatalf("deactivate methods: %v", err)
	}

	countBefore := len(st.Donations())
	w := postDonation(t, r, map[string]interface{}{
		"projectId":     "p1",
		"amount":        100,
		"paymentMethod": "PayPal",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if len(st.Donations()) != countBefore {
		t.Fatal("donation recorded despite block")
	}
}

func TestListDonationsPaginated(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/donations?page=1&size=5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Data       []models.DonationModel `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Pagination.Total < 1 {
		t.Fatal("expected seeded donation in listing")
	}
}
