package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/impactflow/core/internal/gateway"
	"github.com/impactflow/core/internal/models"
	"github.com/impactflow/core/internal/modules/notify"
	"go.uber.org/zap"
)

// Persistence is the remote-store surface the store depends on. The concrete
// implementation is *gateway.Gateway.
type Persistence interface {
	Configured() bool
	LoadState(ctx context.Context) gateway.Snapshot
	LoadDonations(ctx context.Context) ([]models.DonationModel, error)
	LoadMessages(ctx context.Context) ([]models.MessageModel, error)
	LoadPaymentMethods(ctx context.Context) ([]models.PaymentMethodModel, error)
	SaveDonation(ctx context.Context, d *models.DonationModel) error
	SaveProject(ctx context.Context, p *models.ProjectModel) error
	DeleteProject(ctx context.Context, id string) error
	SaveCampaign(ctx context.Context, c *models.CampaignModel) error
	DeleteCampaign(ctx context.Context, id string) error
	SaveNews(ctx context.Context, n *models.NewsModel) error
	DeleteNews(ctx context.Context, id string) error
	SaveMessage(ctx context.Context, m *models.MessageModel) error
	MarkMessageRead(ctx context.Context, id string) error
	DeleteMessage(ctx context.Context, id string) error
	SaveSettings(ctx context.Context, s *models.SettingsModel) error
	SavePaymentMethod(ctx context.Context, m *models.PaymentMethodModel) error
	Subscribe(fn func(gateway.ChangeEvent)) (cancel func())
}

// Notifier receives user-facing notifications raised by reconciliation and
// mutations. *notify.Center satisfies it.
type Notifier interface {
	Notify(message string, kind notify.Kind) notify.Notification
}

type state struct {
	projects       []models.ProjectModel
	campaigns      []models.CampaignModel
	donations      []models.DonationModel
	news           []models.NewsModel
	messages       []models.MessageModel
	paymentMethods []models.PaymentMethodModel
	settings       models.SettingsModel
}

// Store is the in-memory mirror of application state. Every mutation persists
// through the gateway first and only applies locally after the write is
// acknowledged, so the mirror never shows state the remote store rejected.
type Store struct {
	mu sync.RWMutex
	st state

	gw       Persistence
	notifier Notifier
	logger   *zap.Logger

	initOnce    sync.Once
	unsubscribe func()
}

func New(gw Persistence, notifier Notifier, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{gw: gw, notifier: notifier, logger: logger}
}

// Initialize seeds the defaults, overlays whatever the remote store holds,
// and subscribes to push changes. Remote collections that come back empty
// (absent or failed to load) keep their seeded defaults; they are never
// blanked. Safe to call more than once; only the first call does work.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		s.mu.Lock()
		s.st = seedState()
		s.mu.Unlock()

		if s.gw.Configured() {
			s.merge(s.gw.LoadState(ctx))
		}
		s.unsubscribe = s.gw.Subscribe(s.handleChange)
	})
}

// Resync re-reads the full remote snapshot and overlays it, same merge rules
// as Initialize. Used by the periodic reconciliation job.
func (s *Store) Resync(ctx context.Context) {
	if !s.gw.Configured() {
		return
	}
	s.merge(s.gw.LoadState(ctx))
}

func (s *Store) merge(snap gateway.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(snap.Projects) > 0 {
		s.st.projects = snap.Projects
	}
	if len(snap.Campaigns) > 0 {
		s.st.campaigns = snap.Campaigns
	}
	if len(snap.Donations) > 0 {
		s.st.donations = snap.Donations
	}
	if len(snap.News) > 0 {
		s.st.news = snap.News
	}
	if len(snap.Messages) > 0 {
		s.st.messages = snap.Messages
	}
	if len(snap.PaymentMethods) > 0 {
		s.st.paymentMethods = snap.PaymentMethods
	}
	if snap.Settings != nil {
		s.st.settings = *snap.Settings
	}
}

// Close cancels the push-change subscription.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

const reloadTimeout = 10 * time.Second

// handleChange reconciles a push-change event from another writer. Reloads
// replace the collection wholesale with remote truth, so a reload racing a
// local prepend converges to the remote list instead of duplicating entries.
func (s *Store) handleChange(ev gateway.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	switch ev.Table {
	case gateway.TableDonations:
		if ev.Op == gateway.OpInsert {
			s.announceDonation(ev.Payload)
		}
		donations, err := s.gw.LoadDonations(ctx)
		if err != nil {
			s.logger.Warn("donation reload failed", zap.Error(err))
			return
		}
		s.mu.Lock()
		s.st.donations = donations
		s.mu.Unlock()

	case gateway.TableMessages:
		if ev.Op == gateway.OpInsert {
			s.announceMessage(ev.Payload)
		}
		messages, err := s.gw.LoadMessages(ctx)
		if err != nil {
			s.logger.Warn("message reload failed", zap.Error(err))
			return
		}
		s.mu.Lock()
		s.st.messages = messages
		s.mu.Unlock()

	case gateway.TablePaymentMethods:
		methods, err := s.gw.LoadPaymentMethods(ctx)
		if err != nil {
			s.logger.Warn("payment method reload failed", zap.Error(err))
			return
		}
		s.mu.Lock()
		s.st.paymentMethods = methods
		s.mu.Unlock()
	}
}

func (s *Store) announceDonation(payload json.RawMessage) {
	if s.notifier == nil {
		return
	}
	var body struct {
		Amount float64 `json:"amount"`
	}
	_ = json.Unmarshal(payload, &body)
	s.notifier.Notify(fmt.Sprintf("New donation of $%s received!", formatAmount(body.Amount)), notify.KindDonation)
}

func (s *Store) announceMessage(payload json.RawMessage) {
	if s.notifier == nil {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(payload, &body)
	name := body.Name
	if name == "" {
		name = "a visitor"
	}
	s.notifier.Notify("New message from "+name, notify.KindInfo)
}

func formatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}

// DonationInput is the caller-supplied part of a donation record.
type DonationInput struct {
	ProjectID     string
	CampaignID    string
	Amount        float64
	DonorName     string
	DonorEmail    string
	Message       string
	IsAnonymous   bool
	PaymentMethod string
}

// RecordDonation persists a new donation, then prepends it locally and bumps
// the targeted project or campaign total by the same amount the remote
// increment applied. On persistence failure nothing changes locally.
func (s *Store) RecordDonation(ctx context.Context, in DonationInput) (models.DonationModel, error) {
	d := models.DonationModel{
		ID:            models.NewDonationID(),
		Amount:        in.Amount,
		DonorName:     in.DonorName,
		DonorEmail:    in.DonorEmail,
		Date:          time.Now(),
		Message:       in.Message,
		IsAnonymous:   in.IsAnonymous,
		PaymentMethod: in.PaymentMethod,
	}
	if in.ProjectID != "" {
		d.ProjectID = &in.ProjectID
	} else if in.CampaignID != "" {
		d.CampaignID = &in.CampaignID
	}

	if err := s.gw.SaveDonation(ctx, &d); err != nil {
		return models.DonationModel{}, fmt.Errorf("save donation: %w", err)
	}

	s.mu.Lock()
	s.st.donations = append([]models.DonationModel{d}, s.st.donations...)
	if kind, id, ok := d.Target(); ok {
		switch kind {
		case "project":
			for i := range s.st.projects {
				if s.st.projects[i].ID == id {
					s.st.projects[i].CurrentAmount += d.Amount
					break
				}
			}
		case "campaign":
			for i := range s.st.campaigns {
				if s.st.campaigns[i].ID == id {
					s.st.campaigns[i].CurrentAmount += d.Amount
					break
				}
			}
		}
	}
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Notify(fmt.Sprintf("Thank you for your donation of $%s!", formatAmount(d.Amount)), notify.KindSuccess)
	}
	return d, nil
}

// MessageInput is a contact-form submission.
type MessageInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// RecordMessage persists a contact message, then prepends it locally.
func (s *Store) RecordMessage(ctx context.Context, in MessageInput) (models.MessageModel, error) {
	m := models.MessageModel{
		Base:    models.Base{ID: models.NewMessageID()},
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
		Date:    time.Now(),
		IsRead:  false,
	}
	if err := s.gw.SaveMessage(ctx, &m); err != nil {
		return models.MessageModel{}, fmt.Errorf("save message: %w", err)
	}

	s.mu.Lock()
	s.st.messages = append([]models.MessageModel{m}, s.st.messages...)
	s.mu.Unlock()
	return m, nil
}

// CreateProject persists, then prepends.
func (s *Store) CreateProject(ctx context.Context, p models.ProjectModel) (models.ProjectModel, error) {
	if p.ID == "" {
		p.ID = models.NewEntityID()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.gw.SaveProject(ctx, &p); err != nil {
		return models.ProjectModel{}, fmt.Errorf("save project: %w", err)
	}
	s.mu.Lock()
	s.st.projects = append([]models.ProjectModel{p}, s.st.projects...)
	s.mu.Unlock()
	return p, nil
}

// UpdateProject persists, then replaces in place.
func (s *Store) UpdateProject(ctx context.Context, p models.ProjectModel) (models.ProjectModel, error) {
	p.UpdatedAt = time.Now()
	if err := s.gw.SaveProject(ctx, &p); err != nil {
		return models.ProjectModel{}, fmt.Errorf("save project: %w", err)
	}
	s.mu.Lock()
	for i := range s.st.projects {
		if s.st.projects[i].ID == p.ID {
			s.st.projects[i] = p
			break
		}
	}
	s.mu.Unlock()
	return p, nil
}

// DeleteProject persists the delete, then drops the local entry. Existing
// donations that referenced the project keep their id and render as general
// fund afterwards.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if err := s.gw.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.mu.Lock()
	s.st.projects = dropByID(s.st.projects, id, func(p models.ProjectModel) string { return p.ID })
	s.mu.Unlock()
	return nil
}

func (s *Store) CreateCampaign(ctx context.Context, c models.CampaignModel) (models.CampaignModel, error) {
	if c.ID == "" {
		c.ID = models.NewEntityID()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := s.gw.SaveCampaign(ctx, &c); err != nil {
		return models.CampaignModel{}, fmt.Errorf("save campaign: %w", err)
	}
	s.mu.Lock()
	s.st.campaigns = append([]models.CampaignModel{c}, s.st.campaigns...)
	s.mu.Unlock()
	return c, nil
}

func (s *Store) UpdateCampaign(ctx context.Context, c models.CampaignModel) (models.CampaignModel, error) {
	c.UpdatedAt = time.Now()
	if err := s.gw.SaveCampaign(ctx, &c); err != nil {
		return models.CampaignModel{}, fmt.Errorf("save campaign: %w", err)
	}
	s.mu.Lock()
	for i := range s.st.campaigns {
		if s.st.campaigns[i].ID == c.ID {
			s.st.campaigns[i] = c
			break
		}
	}
	s.mu.Unlock()
	return c, nil
}

func (s *Store) DeleteCampaign(ctx context.Context, id string) error {
	if err := s.gw.DeleteCampaign(ctx, id); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	s.mu.Lock()
	s.st.campaigns = dropByID(s.st.campaigns, id, func(c models.CampaignModel) string { return c.ID })
	s.mu.Unlock()
	return nil
}

func (s *Store) CreateNews(ctx context.Context, n models.NewsModel) (models.NewsModel, error) {
	if n.ID == "" {
		n.ID = models.NewEntityID()
	}
	now := time.Now()
	n.CreatedAt, n.UpdatedAt = now, now
	if n.Date.IsZero() {
		n.Date = now
	}
	if err := s.gw.SaveNews(ctx, &n); err != nil {
		return models.NewsModel{}, fmt.Errorf("save news: %w", err)
	}
	s.mu.Lock()
	s.st.news = append([]models.NewsModel{n}, s.st.news...)
	s.mu.Unlock()
	return n, nil
}

func (s *Store) UpdateNews(ctx context.Context, n models.NewsModel) (models.NewsModel, error) {
	n.UpdatedAt = time.Now()
	if err := s.gw.SaveNews(ctx, &n); err != nil {
		return models.NewsModel{}, fmt.Errorf("save news: %w", err)
	}
	s.mu.Lock()
	for i := range s.st.news {
		if s.st.news[i].ID == n.ID {
			s.st.news[i] = n
			break
		}
	}
	s.mu.Unlock()
	return n, nil
}

func (s *Store) DeleteNews(ctx context.Context, id string) error {
	if err := s.gw.DeleteNews(ctx, id); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	s.mu.Lock()
	s.st.news = dropByID(s.st.news, id, func(n models.NewsModel) string { return n.ID })
	s.mu.Unlock()
	return nil
}

// MarkMessageRead flips a message to read. Already-read messages and unknown
// ids are a silent no-op; nothing is persisted for them.
func (s *Store) MarkMessageRead(ctx context.Context, id string) error {
	s.mu.RLock()
	needsFlip := false
	for i := range s.st.messages {
		if s.st.messages[i].ID == id {
			needsFlip = !s.st.messages[i].IsRead
			break
		}
	}
	s.mu.RUnlock()
	if !needsFlip {
		return nil
	}

	if err := s.gw.MarkMessageRead(ctx, id); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	s.mu.Lock()
	for i := range s.st.messages {
		if s.st.messages[i].ID == id {
			s.st.messages[i].IsRead = true
			break
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	if err := s.gw.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	s.mu.Lock()
	s.st.messages = dropByID(s.st.messages, id, func(m models.MessageModel) string { return m.ID })
	s.mu.Unlock()
	return nil
}

// UpdateSettings persists the full settings object, then replaces it locally.
func (s *Store) UpdateSettings(ctx context.Context, in models.SettingsModel) (models.SettingsModel, error) {
	in.ID = models.SettingsID
	if err := s.gw.SaveSettings(ctx, &in); err != nil {
		return models.SettingsModel{}, fmt.Errorf("save settings: %w", err)
	}
	s.mu.Lock()
	s.st.settings = in
	s.mu.Unlock()
	return in, nil
}

// UpdatePaymentMethods diffs the submitted set against the current one by id
// and persists every entry whose fields changed, then replaces the local set
// wholesale. A persistence failure aborts before any local change.
func (s *Store) UpdatePaymentMethods(ctx context.Context, methods []models.PaymentMethodModel) error {
	s.mu.RLock()
	prev := make(map[string]models.PaymentMethodModel, len(s.st.paymentMethods))
	for _, m := range s.st.paymentMethods {
		prev[m.ID] = m
	}
	s.mu.RUnlock()

	for i := range methods {
		m := methods[i]
		old, known := prev[m.ID]
		if known && old.Name == m.Name && old.Type == m.Type && old.IsActive == m.IsActive {
			continue
		}
		if err := s.gw.SavePaymentMethod(ctx, &methods[i]); err != nil {
			return fmt.Errorf("save payment method %s: %w", m.ID, err)
		}
	}

	s.mu.Lock()
	s.st.paymentMethods = append([]models.PaymentMethodModel(nil), methods...)
	s.mu.Unlock()
	return nil
}

func dropByID[T any](list []T, id string, key func(T) string) []T {
	out := list[:0]
	for _, item := range list {
		if key(item) != id {
			out = append(out, item)
		}
	}
	return out
}

// --- read side ---

func (s *Store) Projects() []models.ProjectModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ProjectModel(nil), s.st.projects...)
}

func (s *Store) ProjectByID(id string) (models.ProjectModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.st.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.ProjectModel{}, false
}

func (s *Store) Campaigns() []models.CampaignModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CampaignModel(nil), s.st.campaigns...)
}

func (s *Store) CampaignByID(id string) (models.CampaignModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.st.campaigns {
		if c.ID == id {
			return c, true
		}
	}
	return models.CampaignModel{}, false
}

func (s *Store) Donations() []models.DonationModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DonationModel(nil), s.st.donations...)
}

func (s *Store) DonationByID(id string) (models.DonationModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.st.donations {
		if d.ID == id {
			return d, true
		}
	}
	return models.DonationModel{}, false
}

func (s *Store) News() []models.NewsModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.NewsModel(nil), s.st.news...)
}

func (s *Store) NewsByID(id string) (models.NewsModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.st.news {
		if n.ID == id {
			return n, true
		}
	}
	return models.NewsModel{}, false
}

func (s *Store) Messages() []models.MessageModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MessageModel(nil), s.st.messages...)
}

func (s *Store) PaymentMethods() []models.PaymentMethodModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PaymentMethodModel(nil), s.st.paymentMethods...)
}

// ActivePaymentMethods returns only the methods donors may currently use.
func (s *Store) ActivePaymentMethods() []models.PaymentMethodModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PaymentMethodModel
	for _, m := range s.st.paymentMethods {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) Settings() models.SettingsModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.settings
}

// Stats summarizes the dashboard aggregates.
type Stats struct {
	TotalRaised    float64            `json:"totalRaised"`
	DonationCount  int                `json:"donationCount"`
	ProjectCount   int                `json:"projectCount"`
	CampaignCount  int                `json:"campaignCount"`
	UnreadMessages int                `json:"unreadMessages"`
	RaisedByTarget map[string]float64 `json:"raisedByTarget"`
}

// generalFundLabel groups donations whose target is absent or no longer
// resolvable.
const generalFundLabel = "General Fund"

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{
		DonationCount:  len(s.st.donations),
		ProjectCount:   len(s.st.projects),
		CampaignCount:  len(s.st.campaigns),
		RaisedByTarget: make(map[string]float64),
	}

	titles := make(map[string]string, len(s.st.projects)+len(s.st.campaigns))
	for _, p := range s.st.projects {
		titles["project:"+p.ID] = p.Title
	}
	for _, c := range s.st.campaigns {
		titles["campaign:"+c.ID] = c.Title
	}

	for _, d := range s.st.donations {
		st.TotalRaised += d.Amount
		label := generalFundLabel
		if kind, id, ok := d.Target(); ok {
			if title, found := titles[kind+":"+id]; found {
				label = title
			}
		}
		st.RaisedByTarget[label] += d.Amount
	}
	for _, m := range s.st.messages {
		if !m.IsRead {
			st.UnreadMessages++
		}
	}
	return st
}
