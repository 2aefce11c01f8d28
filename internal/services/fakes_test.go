package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
)

type fakeCampaignStore struct {
	mu        sync.Mutex
	inserted  []*models.Campaign
	insertErr error

	campaigns []*models.Campaign
	findErr   error
	findCalls int
	count     int
	countErr  error
}

// EnsureAndInsert makes inserted campaigns visible to Find, and fails on a
// cancelled context like the database driver does.
func (s *fakeCampaignStore) EnsureAndInsert(ctx context.Context, projectID string, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, c)
	s.campaigns = append(s.campaigns, c)
	return nil
}

func (s *fakeCampaignStore) Find(ctx context.Context, projectID string, filter interfaces.CampaignFilter) ([]*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	return s.campaigns, s.findErr
}

func (s *fakeCampaignStore) Count(ctx context.Context, projectID string, filter interfaces.CampaignFilter) (int, error) {
	return s.count, s.countErr
}

func (s *fakeCampaignStore) GetByID(ctx context.Context, projectID string, id string) (*models.Campaign, error) {
	for _, c := range s.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, &interfaces.NotFoundError{Resource: "campaign", ID: id}
}

// fakeProvider answers per recipient; unknown recipients get a generated id.
type fakeProvider struct {
	mu     sync.Mutex
	ids    map[string]string
	errs   map[string]error
	delays map[string]time.Duration
	calls  []interfaces.SendRequest

	// afterSend runs once a recipient's send has been accepted.
	afterSend func(to string)
}

func (p *fakeProvider) Send(ctx context.Context, req interfaces.SendRequest) (string, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	delay := p.delays[req.To]
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := p.errs[req.To]; err != nil {
		return "", err
	}
	id, ok := p.ids[req.To]
	if !ok {
		id = "wamid." + req.To
	}
	if p.afterSend != nil {
		p.afterSend(req.To)
	}
	return id, nil
}

type publishedEvent struct {
	routingKey string
	payload    any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{routingKey: routingKey, payload: payload})
	return nil
}

type fakeMetricsCache struct {
	mu          sync.Mutex
	values      map[string]map[string]int
	generations map[string]int64
	getErr      error
	sets        int
}

func (c *fakeMetricsCache) Get(ctx context.Context, key string) (map[string]int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *fakeMetricsCache) Set(ctx context.Context, key string, value map[string]int, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]map[string]int)
	}
	c.values[key] = value
	c.sets++
	return nil
}

func (c *fakeMetricsCache) Generation(ctx context.Context, projectID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[projectID], nil
}

func (c *fakeMetricsCache) Invalidate(ctx context.Context, projectID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations == nil {
		c.generations = make(map[string]int64)
	}
	c.generations[projectID]++
	return nil
}

// fakeDashboardRepo keeps dashboards in memory and enforces the version
// check the real repository performs.
type fakeDashboardRepo struct {
	mu         sync.Mutex
	dashboards map[string]*models.Dashboard
}

func newFakeDashboardRepo(ds ...*models.Dashboard) *fakeDashboardRepo {
	r := &fakeDashboardRepo{dashboards: make(map[string]*models.Dashboard)}
	for _, d := range ds {
		r.dashboards[d.ID] = cloneDashboard(d)
	}
	return r
}

func cloneDashboard(d *models.Dashboard) *models.Dashboard {
	c := *d
	c.Reports = slices.Clone(d.Reports)
	return &c
}

func (r *fakeDashboardRepo) Create(ctx context.Context, d *models.Dashboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.Version = 1
	r.dashboards[d.ID] = cloneDashboard(d)
	return nil
}

func (r *fakeDashboardRepo) GetByID(ctx context.Context, id string) (*models.Dashboard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dashboards[id]
	if !ok {
		return nil, &interfaces.NotFoundError{Resource: "dashboard", ID: id}
	}
	return cloneDashboard(d), nil
}

func (r *fakeDashboardRepo) ListByIDs(ctx context.Context, ids []string) ([]*models.Dashboard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Dashboard{}
	for _, id := range ids {
		if d, ok := r.dashboards[id]; ok {
			out = append(out, cloneDashboard(d))
		}
	}
	return out, nil
}

func (r *fakeDashboardRepo) Replace(ctx context.Context, d *models.Dashboard, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.dashboards[d.ID]
	if !ok {
		return &interfaces.NotFoundError{Resource: "dashboard", ID: d.ID}
	}
	if stored.Version != expectedVersion {
		return &interfaces.ConflictError{Resource: "dashboard", ID: d.ID}
	}
	d.Version = expectedVersion + 1
	r.dashboards[d.ID] = cloneDashboard(d)
	return nil
}

func (r *fakeDashboardRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dashboards, id)
	return nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*models.Project
	err      error
	addErr   error
}

func newFakeProjectRepo(ps ...*models.Project) *fakeProjectRepo {
	r := &fakeProjectRepo{projects: make(map[string]*models.Project)}
	for _, p := range ps {
		r.projects[p.ID] = p
	}
	return r
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.projects[id]
	if !ok {
		return nil, &interfaces.NotFoundError{Resource: "project", ID: id}
	}
	c := *p
	c.Dashboards = slices.Clone(p.Dashboards)
	return &c, nil
}

func (r *fakeProjectRepo) AddDashboard(ctx context.Context, projectID string, dashboardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		return r.addErr
	}
	p, ok := r.projects[projectID]
	if !ok {
		p = &models.Project{ID: projectID, Name: projectID}
		r.projects[projectID] = p
	}
	if !slices.Contains(p.Dashboards, dashboardID) {
		p.Dashboards = append(p.Dashboards, dashboardID)
	}
	return nil
}

var errStoreDown = errors.New("store unavailable")
