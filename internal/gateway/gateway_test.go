package gateway

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/impactflow/core/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.ProjectModel{},
		&models.CampaignModel{},
		&models.DonationModel{},
		&models.NewsModel{},
		&models.MessageModel{},
		&models.PaymentMethodModel{},
		&models.SettingsModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, true, nil, nil)
}

func strPtr(s string) *string { return &s }

func TestSaveDonationIncrementsProjectAtomically(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	project := models.ProjectModel{
		Base:          models.Base{ID: "p1"},
		Title:         "Water",
		Category:      models.CategoryHealth,
		Goal:          1000,
		CurrentAmount: 100,
	}
	if err := g.db.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}

	for i := 0; i < 10; i++ {
		d := models.DonationModel{
			ID:        fmt.Sprintf("DON-%d", i),
			ProjectID: strPtr("p1"),
			Amount:    10,
			Date:      time.Now(),
		}
		if err := g.SaveDonation(ctx, &d); err != nil {
			t.Fatalf("SaveDonation: %v", err)
		}
	}

	var got models.ProjectModel
	if err := g.db.First(&got, "id = ?", "p1").Error; err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if got.CurrentAmount != 200 {
		t.Fatalf("currentAmount = %v, want 200 (lost update)", got.CurrentAmount)
	}
}

func TestSaveDonationDuplicateIDIsIdempotent(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	project := models.ProjectModel{
		Base:  models.Base{ID: "p1"},
		Title: "Water",
		Goal:  1000,
	}
	if err := g.db.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}

	d := models.DonationModel{
		ID:        "DON-retry",
		ProjectID: strPtr("p1"),
		Amount:    25,
		Date:      time.Now(),
	}
	if err := g.SaveDonation(ctx, &d); err != nil {
		t.Fatalf("first SaveDonation: %v", err)
	}
	if err := g.SaveDonation(ctx, &d); err != nil {
		t.Fatalf("retried SaveDonation must not fail: %v", err)
	}

	var got models.ProjectModel
	if err := g.db.First(&got, "id = ?", "p1").Error; err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if got.CurrentAmount != 25 {
		t.Fatalf("currentAmount = %v, want 25 (retry double-counted)", got.CurrentAmount)
	}
}

func TestSaveDonationDanglingTargetSucceeds(t *testing.T) {
	g := newTestGateway(t)

	d := models.DonationModel{
		ID:        "DON-dangling",
		ProjectID: strPtr("no-such-project"),
		Amount:    50,
		Date:      time.Now(),
	}
	if err := g.SaveDonation(context.Background(), &d); err != nil {
		t.Fatalf("donation to missing target must not fail: %v", err)
	}

	var count int64
	g.db.Model(&models.DonationModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("donation not persisted, count = %d", count)
	}
}

func TestLoadStateOrdering(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	now := time.Now()
	donations := []models.DonationModel{
		{ID: "DON-old", Amount: 1, Date: now.Add(-2 * time.Hour)},
		{ID: "DON-new", Amount: 2, Date: now},
		{ID: "DON-mid", Amount: 3, Date: now.Add(-time.Hour)},
	}
	for i := range donations {
		if err := g.SaveDonation(ctx, &donations[i]); err != nil {
			t.Fatalf("seed donation: %v", err)
		}
	}

	campaigns := []models.CampaignModel{
		{Base: models.Base{ID: "c-late"}, Title: "Late", Goal: 1, Deadline: now.AddDate(0, 2, 0)},
		{Base: models.Base{ID: "c-soon"}, Title: "Soon", Goal: 1, Deadline: now.AddDate(0, 0, 7)},
	}
	for i := range campaigns {
		if err := g.SaveCampaign(ctx, &campaigns[i]); err != nil {
			t.Fatalf("seed campaign: %v", err)
		}
	}

	snap := g.LoadState(ctx)

	if len(snap.Donations) != 3 || snap.Donations[0].ID != "DON-new" || snap.Donations[2].ID != "DON-old" {
		t.Fatalf("donations not newest-first: %+v", idsOf(snap.Donations))
	}
	if len(snap.Campaigns) != 2 || snap.Campaigns[0].ID != "c-soon" {
		t.Fatal("campaigns not ordered by nearest deadline")
	}
}

func idsOf(ds []models.DonationModel) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}

func TestSaveSettingsSingleton(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	first := models.SettingsModel{OrganizationName: "First"}
	if err := g.SaveSettings(ctx, &first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := models.SettingsModel{OrganizationName: "Second"}
	if err := g.SaveSettings(ctx, &second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var count int64
	g.db.Model(&models.SettingsModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("settings rows = %d, want 1", count)
	}

	snap := g.LoadState(ctx)
	if snap.Settings == nil || snap.Settings.OrganizationName != "Second" {
		t.Fatal("settings upsert did not overwrite the singleton row")
	}
}

func TestMarkMessageReadPersists(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	m := models.MessageModel{
		Base:    models.Base{ID: "MSG-1"},
		Name:    "Visitor",
		Message: "hi",
		Date:    time.Now(),
	}
	if err := g.SaveMessage(ctx, &m); err != nil {
		t.Fatalf("save message: %v", err)
	}

	if err := g.MarkMessageRead(ctx, "MSG-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	var got models.MessageModel
	if err := g.db.First(&got, "id = ?", "MSG-1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.IsRead {
		t.Fatal("isRead not persisted")
	}
}

func TestUnconfiguredGatewayIsInert(t *testing.T) {
	g := New(nil, false, nil, nil)
	ctx := context.Background()

	if err := g.SaveDonation(ctx, &models.DonationModel{ID: "DON-x", Amount: 1}); err != nil {
		t.Fatalf("unconfigured write must succeed silently: %v", err)
	}
	snap := g.LoadState(ctx)
	if len(snap.Donations) != 0 || snap.Settings != nil {
		t.Fatal("unconfigured load must be empty")
	}
}
