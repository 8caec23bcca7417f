package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/impactflow/core/internal/gateway"
	"github.com/impactflow/core/internal/models"
	"github.com/impactflow/core/internal/modules/notify"
)

type fakeGateway struct {
	configured bool
	snap       gateway.Snapshot
	failWrites bool

	donationSaves      []models.DonationModel
	messageSaves       int
	markReadCalls      []string
	paymentMethodSaves []models.PaymentMethodModel

	subscriber func(gateway.ChangeEvent)

	donations []models.DonationModel
	messages  []models.MessageModel
	methods   []models.PaymentMethodModel
}

func (f *fakeGateway) Configured() bool { return f.configured }

func (f *fakeGateway) LoadState(ctx context.Context) gateway.Snapshot { return f.snap }

func (f *fakeGateway) LoadDonations(ctx context.Context) ([]models.DonationModel, error) {
	return f.donations, nil
}

func (f *fakeGateway) LoadMessages(ctx context.Context) ([]models.MessageModel, error) {
	return f.messages, nil
}

func (f *fakeGateway) LoadPaymentMethods(ctx context.Context) ([]models.PaymentMethodModel, error) {
	return f.methods, nil
}

func (f *fakeGateway) write() error {
	if f.failWrites {
		return errors.New("store write rejected")
	}
	return nil
}

func (f *fakeGateway) SaveDonation(ctx context.Context, d *models.DonationModel) error {
	if err := f.write(); err != nil {
		return err
	}
	f.donationSaves = append(f.donationSaves, *d)
	return nil
}

func (f *fakeGateway) SaveProject(ctx context.Context, p *models.ProjectModel) error {
	return f.write()
}
func (f *fakeGateway) DeleteProject(ctx context.Context, id string) error { return f.write() }
func (f *fakeGateway) SaveCampaign(ctx context.Context, c *models.CampaignModel) error {
	return f.write()
}
func (f *fakeGateway) DeleteCampaign(ctx context.Context, id string) error { return f.write() }
func (f *fakeGateway) SaveNews(ctx context.Context, n *models.NewsModel) error {
	return f.write()
}
func (f *fakeGateway) DeleteNews(ctx context.Context, id string) error { return f.write() }

func (f *fakeGateway) SaveMessage(ctx context.Context, m *models.MessageModel) error {
	if err := f.write(); err != nil {
		return err
	}
	f.messageSaves++
	return nil
}

func (f *fakeGateway) MarkMessageRead(ctx context.Context, id string) error {
	if err := f.write(); err != nil {
		return err
	}
	f.markReadCalls = append(f.markReadCalls, id)
	return nil
}

func (f *fakeGateway) DeleteMessage(ctx context.Context, id string) error { return f.write() }

func (f *fakeGateway) SaveSettings(ctx context.Context, s *models.SettingsModel) error {
	return f.write()
}

func (f *fakeGateway) SavePaymentMethod(ctx context.Context, m *models.PaymentMethodModel) error {
	if err := f.write(); err != nil {
		return err
	}
	f.paymentMethodSaves = append(f.paymentMethodSaves, *m)
	return nil
}

func (f *fakeGateway) Subscribe(fn func(gateway.ChangeEvent)) (cancel func()) {
	f.subscriber = fn
	return func() { f.subscriber = nil }
}

func newTestStore(t *testing.T, gw *fakeGateway) *Store {
	t.Helper()
	s := New(gw, nil, nil)
	s.Initialize(context.Background())
	t.Cleanup(s.Close)
	return s
}

func TestInitializeSeedsDemoState(t *testing.T) {
	s := newTestStore(t, &fakeGateway{})

	if got := len(s.Projects()); got == 0 {
		t.Fatal("expected seeded projects")
	}
	if s.Settings().OrganizationName != "ImpactFlow" {
		t.Fatalf("unexpected organization name %q", s.Settings().OrganizationName)
	}
}

func TestInitializeMergeKeepsSeedsForEmptyCollections(t *testing.T) {
	remote := gateway.Snapshot{
		Projects: []models.ProjectModel{
			{Base: models.Base{ID: "remote-1"}, Title: "Remote Project", Goal: 100},
		},
		// every other collection absent
	}
	s := newTestStore(t, &fakeGateway{configured: true, snap: remote})

	projects := s.Projects()
	if len(projects) != 1 || projects[0].ID != "remote-1" {
		t.Fatalf("expected remote projects to replace seeds, got %d", len(projects))
	}
	if len(s.Campaigns()) == 0 {
		t.Fatal("empty remote campaigns must not blank the seeded ones")
	}
	if len(s.PaymentMethods()) == 0 {
		t.Fatal("empty remote payment methods must not blank the seeded ones")
	}
}

func TestRecordDonationUpdatesProjectAggregate(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestStore(t, gw)

	before, ok := s.ProjectByID("p1")
	if !ok {
		t.Fatal("seed project p1 missing")
	}

	d, err := s.RecordDonation(context.Background(), DonationInput{
		ProjectID: "p1",
		Amount:    500,
		DonorName: "Test Donor",
	})
	if err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}

	if !strings.HasPrefix(d.ID, "DON-") {
		t.Fatalf("donation id %q missing DON- prefix", d.ID)
	}

	after, _ := s.ProjectByID("p1")
	if want := before.CurrentAmount + 500; after.CurrentAmount != want {
		t.Fatalf("currentAmount = %v, want %v", after.CurrentAmount, want)
	}

	donations := s.Donations()
	if donations[0].ID != d.ID {
		t.Fatal("new donation must be prepended")
	}
	if len(gw.donationSaves) != 1 {
		t.Fatalf("expected 1 gateway save, got %d", len(gw.donationSaves))
	}
}

func TestRecordDonationCampaignTarget(t *testing.T) {
	s := newTestStore(t, &fakeGateway{})

	before, _ := s.CampaignByID("c1")
	if _, err := s.RecordDonation(context.Background(), DonationInput{
		CampaignID: "c1",
		Amount:     120,
	}); err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}
	after, _ := s.CampaignByID("c1")
	if want := before.CurrentAmount + 120; after.CurrentAmount != want {
		t.Fatalf("campaign currentAmount = %v, want %v", after.CurrentAmount, want)
	}
}

func TestRecordDonationPersistFailureLeavesStateUnchanged(t *testing.T) {
	gw := &fakeGateway{failWrites: true}
	s := newTestStore(t, gw)

	countBefore := len(s.Donations())
	projectBefore, _ := s.ProjectByID("p1")

	_, err := s.RecordDonation(context.Background(), DonationInput{
		ProjectID: "p1",
		Amount:    500,
	})
	if err == nil {
		t.Fatal("expected error from failing gateway")
	}

	if got := len(s.Donations()); got != countBefore {
		t.Fatalf("donation list changed on failed persist: %d -> %d", countBefore, got)
	}
	projectAfter, _ := s.ProjectByID("p1")
	if projectAfter.CurrentAmount != projectBefore.CurrentAmount {
		t.Fatal("aggregate changed on failed persist")
	}
}

func TestRecordMessagePrefix(t *testing.T) {
	s := newTestStore(t, &fakeGateway{})

	m, err := s.RecordMessage(context.Background(), MessageInput{
		Name:    "Visitor",
		Message: "hello",
	})
	if err != nil {
		t.Fatalf("RecordMessage: %v", err)
	}
	if !strings.HasPrefix(m.ID, "MSG-") {
		t.Fatalf("message id %q missing MSG- prefix", m.ID)
	}
	if m.IsRead {
		t.Fatal("new message must start unread")
	}
}

func TestMarkMessageReadIdempotent(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestStore(t, gw)

	if err := s.MarkMessageRead(context.Background(), "m1"); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := s.MarkMessageRead(context.Background(), "m1"); err != nil {
		t.Fatalf("second mark: %v", err)
	}

	if len(gw.markReadCalls) != 1 {
		t.Fatalf("expected exactly 1 gateway call, got %d", len(gw.markReadCalls))
	}
	for _, m := range s.Messages() {
		if m.ID == "m1" && !m.IsRead {
			t.Fatal("message m1 should be read")
		}
	}
}

func TestUpdatePaymentMethodsPersistsOnlyChangedEntries(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestStore(t, gw)

	methods := s.PaymentMethods()
	if len(methods) < 3 {
		t.Fatalf("expected at least 3 seeded methods, got %d", len(methods))
	}

	// toggle only the third entry
	methods[2].IsActive = !methods[2].IsActive
	toggledID := methods[2].ID

	if err := s.UpdatePaymentMethods(context.Background(), methods); err != nil {
		t.Fatalf("UpdatePaymentMethods: %v", err)
	}

	if len(gw.paymentMethodSaves) != 1 {
		t.Fatalf("expected exactly 1 persistence call, got %d", len(gw.paymentMethodSaves))
	}
	if gw.paymentMethodSaves[0].ID != toggledID {
		t.Fatalf("persisted wrong method: %s, want %s", gw.paymentMethodSaves[0].ID, toggledID)
	}
}

func TestChangeEventReloadsDonations(t *testing.T) {
	gw := &fakeGateway{configured: true}
	s := newTestStore(t, gw)

	gw.donations = []models.DonationModel{{ID: "DON-remote", Amount: 75}}
	if gw.subscriber == nil {
		t.Fatal("store did not subscribe to change events")
	}
	gw.subscriber(gateway.ChangeEvent{Table: gateway.TableDonations, Op: gateway.OpInsert})

	donations := s.Donations()
	if len(donations) != 1 || donations[0].ID != "DON-remote" {
		t.Fatalf("donations not reconciled from remote, got %d entries", len(donations))
	}
}

func TestDonationInsertEventRaisesNotification(t *testing.T) {
	gw := &fakeGateway{configured: true}
	center := notify.NewCenter()
	defer center.Close()

	s := New(gw, center, nil)
	s.Initialize(context.Background())
	defer s.Close()

	gw.subscriber(gateway.ChangeEvent{
		Table:   gateway.TableDonations,
		Op:      gateway.OpInsert,
		Payload: []byte(`{"amount":250}`),
	})

	active := center.Active()
	if len(active) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(active))
	}
	if want := "New donation of $250 received!"; active[0].Message != want {
		t.Fatalf("message = %q, want %q", active[0].Message, want)
	}
	if active[0].Kind != notify.KindDonation {
		t.Fatalf("kind = %q", active[0].Kind)
	}
}

func TestStatsCountsUnread(t *testing.T) {
	s := newTestStore(t, &fakeGateway{})

	st := s.Stats()
	if st.UnreadMessages != 1 {
		t.Fatalf("unread = %d, want 1", st.UnreadMessages)
	}
	if st.DonationCount != len(s.Donations()) {
		t.Fatal("donation count mismatch")
	}
	var total float64
	for _, d := range s.Donations() {
		total += d.Amount
	}
	if st.TotalRaised != total {
		t.Fatalf("totalRaised = %v, want %v", st.TotalRaised, total)
	}
}

func TestStatsGroupsRaisedByTarget(t *testing.T) {
	s := newTestStore(t, &fakeGateway{})

	if _, err := s.RecordDonation(context.Background(), DonationInput{
		Amount: 100, DonorName: "Anon",
	}); err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}

	st := s.Stats()
	if st.RaisedByTarget["Clean Water for All"] != 250 {
		t.Fatalf("raisedByTarget = %v", st.RaisedByTarget)
	}
	if st.RaisedByTarget["General Fund"] != 100 {
		t.Fatalf("untargeted donation must land in the general fund: %v", st.RaisedByTarget)
	}
}
