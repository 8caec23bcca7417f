package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/impactflow/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is the result of a full state load. Nil/empty slices mean the
// collection was absent or failed to load; the caller decides how to merge.
type Snapshot struct {
	Projects       []models.ProjectModel
	Campaigns      []models.CampaignModel
	Donations      []models.DonationModel
	News           []models.NewsModel
	Messages       []models.MessageModel
	PaymentMethods []models.PaymentMethodModel
	Settings       *models.SettingsModel
}

// Gateway translates domain operations into remote persistence calls against
// the seven collections. When unconfigured every write resolves successfully
// without effect and every read returns an empty result, so the service stays
// usable in local-only demo mode.
type Gateway struct {
	db         *gorm.DB
	configured bool
	broker     *Broker
	logger     *zap.Logger
}

// New builds a gateway. db may be nil when configured is false.
func New(db *gorm.DB, configured bool, broker *Broker, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{db: db, configured: configured, broker: broker, logger: logger}
}

// Configured reports whether real remote-store credentials are present.
func (g *Gateway) Configured() bool { return g.configured }

// Events exposes the push-change broker.
func (g *Gateway) Events() *Broker { return g.broker }

// Subscribe registers fn for push-change events. The returned cancel func is
// safe to call more than once. Without a broker it is a no-op.
func (g *Gateway) Subscribe(fn func(ChangeEvent)) (cancel func()) {
	if g.broker == nil {
		return func() {}
	}
	return g.broker.Subscribe(fn)
}

// LoadState fetches all seven collections concurrently. A failed collection
// is logged and left empty; it never aborts the others. Total failure
// degrades to an empty snapshot, never an error.
func (g *Gateway) LoadState(ctx context.Context) Snapshot {
	var snap Snapshot
	if !g.configured {
		return snap
	}

	var wg sync.WaitGroup
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				g.logger.Warn("collection load failed", zap.String("collection", name), zap.Error(err))
			}
		}()
	}

	run("projects", func() error {
		return g.db.WithContext(ctx).Order("created_at DESC").Find(&snap.Projects).Error
	})
	run("campaigns", func() error {
		return g.db.WithContext(ctx).Order("deadline ASC").Find(&snap.Campaigns).Error
	})
	run("donations", func() error {
		return g.db.WithContext(ctx).Order("date DESC").Find(&snap.Donations).Error
	})
	run("news", func() error {
		return g.db.WithContext(ctx).Order("date DESC").Find(&snap.News).Error
	})
	run("messages", func() error {
		return g.db.WithContext(ctx).Order("date DESC").Find(&snap.Messages).Error
	})
	run("payment_methods", func() error {
		return g.db.WithContext(ctx).Order("name ASC").Find(&snap.PaymentMethods).Error
	})
	run("settings", func() error {
		var s models.SettingsModel
		err := g.db.WithContext(ctx).First(&s, "id = ?", models.SettingsID).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		snap.Settings = &s
		return nil
	})

	wg.Wait()
	return snap
}

// LoadDonations re-reads the donations collection (push-change reconciliation).
func (g *Gateway) LoadDonations(ctx context.Context) ([]models.DonationModel, error) {
	if !g.configured {
		return nil, nil
	}
	var out []models.DonationModel
	err := g.db.WithContext(ctx).Order("date DESC").Find(&out).Error
	return out, err
}

// LoadMessages re-reads the messages collection.
func (g *Gateway) LoadMessages(ctx context.Context) ([]models.MessageModel, error) {
	if !g.configured {
		return nil, nil
	}
	var out []models.MessageModel
	err := g.db.WithContext(ctx).Order("date DESC").Find(&out).Error
	return out, err
}

// LoadPaymentMethods re-reads the payment methods collection.
func (g *Gateway) LoadPaymentMethods(ctx context.Context) ([]models.PaymentMethodModel, error) {
	if !g.configured {
		return nil, nil
	}
	var out []models.PaymentMethodModel
	err := g.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

var errDuplicateRow = errors.New("duplicate row")

// isDuplicateKeyError reports whether err is a MySQL 1062 duplicate-entry
// violation on the primary key.
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}

// SaveDonation inserts a donation and applies the aggregate update in one
// transaction. The increment runs server-side (current_amount =
// current_amount + amount) so concurrent donations to the same target never
// lose updates. Dangling target ids affect zero rows and are not an error.
// A duplicate id means a retried submission already landed: the insert and
// the increment are skipped so the target is never double-counted.
func (g *Gateway) SaveDonation(ctx context.Context, d *models.DonationModel) error {
	if !g.configured {
		return nil
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			if isDuplicateKeyError(err) {
				return errDuplicateRow
			}
			return err
		}
		kind, id, ok := d.Target()
		if !ok {
			return nil
		}
		switch kind {
		case "project":
			return tx.Model(&models.ProjectModel{}).Where("id = ?", id).
				UpdateColumn("current_amount", gorm.Expr("current_amount + ?", d.Amount)).Error
		case "campaign":
			return tx.Model(&models.CampaignModel{}).Where("id = ?", id).
				UpdateColumn("current_amount", gorm.Expr("current_amount + ?", d.Amount)).Error
		}
		return nil
	})
	if errors.Is(err, errDuplicateRow) {
		return nil
	}
	if err != nil {
		return err
	}

	g.publish(ctx, TableDonations, OpInsert, d)
	return nil
}

// SaveProject upserts a project by id.
func (g *Gateway) SaveProject(ctx context.Context, p *models.ProjectModel) error {
	if !g.configured {
		return nil
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(p).Error
}

// DeleteProject removes a project by id.
func (g *Gateway) DeleteProject(ctx context.Context, id string) error {
	if !g.configured {
		return nil
	}
	return g.db.WithContext(ctx).Delete(&models.ProjectModel{}, "id = ?", id).Error
}

// SaveCampaign upserts a campaign by id.
func (g *Gateway) SaveCampaign(ctx context.Context, c *models.CampaignModel) error {
	if !g.configured {
		return nil
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(c).Error
}

// DeleteCampaign removes a campaign by id.
func (g *Gateway) DeleteCampaign(ctx context.Context, id string) error {
	if !g.configured {
		return nil
	}
	return g.db.WithContext(ctx).Delete(&models.CampaignModel{}, "id = ?", id).Error
}

// SaveNews upserts a news update by id.
func (g *Gateway) SaveNews(ctx context.Context, n *models.NewsModel) error {
	if !g.configured {
		return nil
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(n).Error
}

// DeleteNews removes a news update by id.
func (g *Gateway) DeleteNews(ctx context.Context, id string) error {
	if !g.configured {
		return nil
	}
	return g.db.WithContext(ctx).Delete(&models.NewsModel{}, "id = ?", id).Error
}

// SaveMessage inserts a contact message (insert-only collection). A duplicate
// id means the submission was retried and is already stored.
func (g *Gateway) SaveMessage(ctx context.Context, m *models.MessageModel) error {
	if !g.configured {
		return nil
	}
	if err := g.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil
		}
		return err
	}
	g.publish(ctx, TableMessages, OpInsert, m)
	return nil
}

// MarkMessageRead flips isRead to true. Re-marking an already-read message is
// a no-op, not an error.
func (g *Gateway) MarkMessageRead(ctx context.Context, id string) error {
	if !g.configured {
		return nil
	}
	err := g.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("id = ?", id).Update("is_read", true).Error
	if err != nil {
		return err
	}
	g.publish(ctx, TableMessages, OpUpdate, map[string]any{"id": id, "isRead": true})
	return nil
}

// DeleteMessage removes a contact message by id.
func (g *Gateway) DeleteMessage(ctx context.Context, id string) error {
	if !g.configured {
		return nil
	}
	if err := g.db.WithContext(ctx).Delete(&models.MessageModel{}, "id = ?", id).Error; err != nil {
		return err
	}
	g.publish(ctx, TableMessages, OpDelete, map[string]any{"id": id})
	return nil
}

// SaveSettings upserts the settings singleton under its constant id.
func (g *Gateway) SaveSettings(ctx context.Context, s *models.SettingsModel) error {
	if !g.configured {
		return nil
	}
	s.ID = models.SettingsID
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(s).Error
}

// SavePaymentMethod upserts a single payment method.
func (g *Gateway) SavePaymentMethod(ctx context.Context, m *models.PaymentMethodModel) error {
	if !g.configured {
		return nil
	}
	if err := g.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(m).Error; err != nil {
		return err
	}
	g.publish(ctx, TablePaymentMethods, OpUpdate, m)
	return nil
}

func (g *Gateway) publish(ctx context.Context, table Table, op Op, payload interface{}) {
	if g.broker == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = nil
	}
	g.broker.Publish(ctx, ChangeEvent{Table: table, Op: op, Payload: raw})
}
