package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
)

const defaultMetricsCacheTTL = time.Minute

// MetricsEngine computes aggregate statistics over a project's campaign
// history.
type MetricsEngine struct {
	store    interfaces.CampaignRepository
	cache    interfaces.MetricsCache
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewMetricsEngine builds an engine. cache may be nil.
func NewMetricsEngine(store interfaces.CampaignRepository, cache interfaces.MetricsCache, cacheTTL time.Duration, logger zerolog.Logger) *MetricsEngine {
	if cacheTTL <= 0 {
		cacheTTL = defaultMetricsCacheTTL
	}
	return &MetricsEngine{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "metrics").Logger(),
	}
}

type metricOutcome struct {
	key   string
	value int
	ok    bool
}

// Compute runs every requested metric concurrently and returns the values
// keyed by MetricKey. A metric that fails or has an unknown type is left out
// of the map. The only error returned is a ValidationError for a malformed
// filter set.
func (e *MetricsEngine) Compute(ctx context.Context, projectID string, specs []models.MetricSpec, filters models.FilterSet) (map[string]int, error) {
	filter, err := interfaces.NewCampaignFilter(filters)
	if err != nil {
		return nil, err
	}

	if len(specs) == 0 {
		return map[string]int{}, nil
	}

	cacheKey := e.cacheKey(ctx, projectID, specs, filters)
	if cached, ok := e.cached(ctx, cacheKey); ok {
		return cached, nil
	}

	// Campaign documents are loaded lazily and shared by every metric that
	// needs them.
	load := sync.OnceValues(func() ([]*models.Campaign, error) {
		return e.store.Find(ctx, projectID, filter)
	})

	outcomes := make([]metricOutcome, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			outcomes[i] = e.computeOne(gctx, projectID, spec, filter, load)
			return nil
		})
	}
	_ = g.Wait()

	result := make(map[string]int, len(specs))
	complete := true
	for _, o := range outcomes {
		if !o.ok {
			complete = false
			continue
		}
		result[o.key] = o.value
	}

	if complete {
		e.remember(ctx, cacheKey, result)
	}
	return result, nil
}

func (e *MetricsEngine) computeOne(
	ctx context.Context,
	projectID string,
	spec models.MetricSpec,
	filter interfaces.CampaignFilter,
	load func() ([]*models.Campaign, error),
) (out metricOutcome) {
	label := spec.Type
	if !models.IsMetricType(spec.Type) {
		label = "unknown"
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Str("metric", spec.Type).Msg("metric computation panicked")
			out = metricOutcome{}
		}
		metricsComputeDurationHist.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if !out.ok {
			metricsComputeFailuresCounter.WithLabelValues(label).Inc()
		}
	}()

	if !models.IsMetricType(spec.Type) {
		e.logger.Debug().Str("metric", spec.Type).Msg("unknown metric type omitted")
		return metricOutcome{}
	}

	key := MetricKey(spec)
	if spec.Type == models.MetricCampaignsTotal {
		n, err := e.store.Count(ctx, projectID, filter)
		if err != nil {
			e.logger.Warn().Err(err).Str("metric", spec.Type).Msg("metric omitted")
			return metricOutcome{}
		}
		return metricOutcome{key: key, value: n, ok: true}
	}

	campaigns, err := load()
	if err != nil {
		e.logger.Warn().Err(err).Str("metric", spec.Type).Msg("metric omitted")
		return metricOutcome{}
	}

	var value int
	switch spec.Type {
	case models.MetricMessagesSent:
		value = countMessagesSent(campaigns)
	case models.MetricReplies:
		value = countReplies(campaigns, replyText(spec))
	case models.MetricViews:
		value = countViews(campaigns)
	case models.MetricErrors:
		value = countErrors(campaigns)
	}
	return metricOutcome{key: key, value: value, ok: true}
}

// MetricKey is the output map key for a metric. A replies metric with a
// text filter is keyed "replies:<text>"; everything else by its type.
func MetricKey(spec models.MetricSpec) string {
	if spec.Type == models.MetricReplies {
		if text := replyText(spec); text != "" {
			return models.MetricReplies + ":" + text
		}
	}
	return spec.Type
}

func replyText(spec models.MetricSpec) string {
	if spec.Filter == nil {
		return ""
	}
	return strings.TrimSpace(spec.Filter.Text)
}

func countMessagesSent(campaigns []*models.Campaign) int {
	total := 0
	for _, c := range campaigns {
		total += c.Total
	}
	return total
}

// countReplies counts distinct phone numbers that answered. With text set,
// a number counts only if one of its answers equals text, ignoring case and
// surrounding space.
func countReplies(campaigns []*models.Campaign, text string) int {
	seen := make(map[string]struct{})
	for _, c := range campaigns {
		for _, r := range c.Results {
			phone := strings.TrimSpace(r.PhoneNumber)
			if phone == "" {
				continue
			}
			if r.Status != models.MessageStatusAnswered && len(r.Answers) == 0 {
				continue
			}
			if text != "" && !hasMatchingAnswer(r.Answers, text) {
				continue
			}
			seen[phone] = struct{}{}
		}
	}
	return len(seen)
}

func hasMatchingAnswer(answers []models.Answer, text string) bool {
	for _, a := range answers {
		if strings.EqualFold(strings.TrimSpace(a.MessageText), text) {
			return true
		}
	}
	return false
}

func countViews(campaigns []*models.Campaign) int {
	seen := make(map[string]struct{})
	for _, c := range campaigns {
		for _, r := range c.Results {
			phone := strings.TrimSpace(r.PhoneNumber)
			if phone == "" || r.ReadDateTime == nil {
				continue
			}
			seen[phone] = struct{}{}
		}
	}
	return len(seen)
}

// countErrors counts result entries, not phone numbers.
func countErrors(campaigns []*models.Campaign) int {
	n := 0
	for _, c := range campaigns {
		for _, r := range c.Results {
			if !r.Success || r.Status == models.MessageStatusFailed {
				n++
			}
		}
	}
	return n
}

// cacheKey scopes the request digest by the project's generation, which the
// dispatcher bumps after every persisted campaign. An empty key disables the
// cache for this request.
func (e *MetricsEngine) cacheKey(ctx context.Context, projectID string, specs []models.MetricSpec, filters models.FilterSet) string {
	if e.cache == nil {
		return ""
	}
	gen, err := e.cache.Generation(ctx, projectID)
	if err != nil {
		e.logger.Warn().Err(err).Msg("metrics cache generation unavailable")
		return ""
	}
	body, err := json.Marshal(models.MetricsRequest{Metrics: specs, Filters: filters})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(body)
	return fmt.Sprintf("metrics:%s:%d:%s", projectID, gen, hex.EncodeToString(sum[:]))
}

func (e *MetricsEngine) cached(ctx context.Context, key string) (map[string]int, bool) {
	if key == "" {
		return nil, false
	}
	value, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn().Err(err).Msg("metrics cache read failed")
		return nil, false
	}
	return value, ok
}

func (e *MetricsEngine) remember(ctx context.Context, key string, value map[string]int) {
	if key == "" {
		return
	}
	if err := e.cache.Set(ctx, key, value, e.cacheTTL); err != nil {
		e.logger.Warn().Err(err).Msg("metrics cache write failed")
	}
}
