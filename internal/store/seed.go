package store

import (
	"time"

	"github.com/impactflow/core/internal/models"
)

func ptr(s string) *string { return &s }

// seedState returns the built-in demo dataset. It is what the service shows
// before the remote store has been configured or while it is unreachable.
func seedState() state {
	now := time.Now()
	return state{
		projects: []models.ProjectModel{
			{
				Base:          models.Base{ID: "p1", CreatedAt: now, UpdatedAt: now},
				Title:         "Clean Water for All",
				Description:   "Providing access to clean and safe drinking water in rural communities through well construction and water purification systems.",
				Category:      models.CategoryHealth,
				Goal:          50000,
				CurrentAmount: 32500,
				ImageURL:      "https://images.unsplash.com/photo-1541252260730-0412e8e2108e?q=80&w=800&auto=format&fit=crop",
			},
			{
				Base:          models.Base{ID: "p2", CreatedAt: now, UpdatedAt: now},
				Title:         "Education for Every Child",
				Description:   "Building classrooms and supplying learning materials so children in underserved areas can stay in school.",
				Category:      models.CategoryEducation,
				Goal:          75000,
				CurrentAmount: 41200,
				ImageURL:      "https://images.unsplash.com/photo-1427504494785-3a9ca7044f45?q=80&w=800&auto=format&fit=crop",
			},
			{
				Base:          models.Base{ID: "p3", CreatedAt: now, UpdatedAt: now},
				Title:         "Reforest the Valley",
				Description:   "Planting native trees to restore degraded land and protect local watersheds.",
				Category:      models.CategoryEnvironment,
				Goal:          30000,
				CurrentAmount: 12750,
				ImageURL:      "https://images.unsplash.com/photo-1542601906990-b4d3fb778b09?q=80&w=800&auto=format&fit=crop",
			},
		},
		campaigns: []models.CampaignModel{
			{
				Base:          models.Base{ID: "c1", CreatedAt: now, UpdatedAt: now},
				Title:         "Winter Relief Drive",
				Description:   "Emergency blankets, heaters, and warm meals for families facing the cold season without shelter.",
				Goal:          25000,
				CurrentAmount: 18300,
				Deadline:      now.AddDate(0, 1, 0),
				ImageURL:      "https://images.unsplash.com/photo-1608889175123-8ee362201f81?q=80&w=800&auto=format&fit=crop",
				Status:        models.CampaignUrgent,
			},
			{
				Base:          models.Base{ID: "c2", CreatedAt: now, UpdatedAt: now},
				Title:         "Back to School 2026",
				Description:   "School bags, uniforms, and supplies for 1,000 students starting the new school year.",
				Goal:          15000,
				CurrentAmount: 6400,
				Deadline:      now.AddDate(0, 3, 0),
				ImageURL:      "https://images.unsplash.com/photo-1497633762265-9d179a990aa6?q=80&w=800&auto=format&fit=crop",
				Status:        models.CampaignActive,
			},
		},
		donations: []models.DonationModel{
			{
				ID:            "d1",
				ProjectID:     ptr("p1"),
				Amount:        250,
				DonorName:     "Sarah Jenkins",
				DonorEmail:    "sarah.j@example.com",
				Date:          now.Add(-48 * time.Hour),
				Message:       "Keep up the amazing work!",
				PaymentMethod: "Credit Card",
			},
		},
		news: []models.NewsModel{
			{
				Base:     models.Base{ID: "n1", CreatedAt: now, UpdatedAt: now},
				Title:    "First Well Completed in the Northern District",
				Content:  "Thanks to your support, the first of five planned wells is now serving over 400 residents with clean drinking water. Construction on the second site begins next week.",
				Author:   "ImpactFlow Team",
				Date:     now.Add(-72 * time.Hour),
				ImageURL: "https://images.unsplash.com/photo-1594398901394-4e34939a4fd0?q=80&w=800&auto=format&fit=crop",
			},
		},
		messages: []models.MessageModel{
			{
				Base:    models.Base{ID: "m1", CreatedAt: now, UpdatedAt: now},
				Name:    "David Okafor",
				Email:   "d.okafor@example.com",
				Subject: "Corporate partnership",
				Message: "Hi, our company would like to discuss a matching-gift program for your water projects.",
				Date:    now.Add(-24 * time.Hour),
				IsRead:  false,
			},
		},
		paymentMethods: []models.PaymentMethodModel{
			{Base: models.Base{ID: "pm1", CreatedAt: now, UpdatedAt: now}, Name: "Visa / Mastercard", Type: models.PaymentCreditCard, IsActive: true},
			{Base: models.Base{ID: "pm2", CreatedAt: now, UpdatedAt: now}, Name: "PayPal", Type: models.PaymentPayPal, IsActive: true},
			{Base: models.Base{ID: "pm3", CreatedAt: now, UpdatedAt: now}, Name: "Bitcoin", Type: models.PaymentCrypto, IsActive: false},
		},
		settings: models.SettingsModel{
			ID:               models.SettingsID,
			LogoURL:          "",
			HeroImageURL:     "https://images.unsplash.com/photo-1488521787991-ed7bbaae773c?q=80&w=1600&auto=format&fit=crop",
			OrganizationName: "ImpactFlow",
			PrimaryColor:     "#059669",
			HeroTitle:        "Every dollar changes a life.",
			HeroSubtitle:     "Join thousands of donors funding clean water, education, and relief around the world.",
			ContactEmail:     "hello@impactflow.org",
			ContactPhone:     "+1 (555) 010-4477",
			Address:          "214 Hope Avenue, Portland, OR",
		},
	}
}
