package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
)

const (
	defaultProviderTimeout = 15 * time.Second
	persistTimeout         = 10 * time.Second

	RoutingKeyCampaignDispatched = "campaign.dispatched"
)

// Dispatcher fans one send request out to every recipient and records the
// outcome as a single campaign.
type Dispatcher struct {
	store       interfaces.CampaignRepository
	provider    interfaces.MessageProvider
	events      interfaces.EventPublisher
	metrics     interfaces.MetricsCache
	logger      zerolog.Logger
	callTimeout time.Duration

	now   func() time.Time
	newID func() string
}

// NewDispatcher builds a dispatcher. events and metrics may be nil.
func NewDispatcher(
	store interfaces.CampaignRepository,
	provider interfaces.MessageProvider,
	events interfaces.EventPublisher,
	metrics interfaces.MetricsCache,
	logger zerolog.Logger,
	callTimeout time.Duration,
) *Dispatcher {
	if callTimeout <= 0 {
		callTimeout = defaultProviderTimeout
	}
	return &Dispatcher{
		store:       store,
		provider:    provider,
		events:      events,
		metrics:     metrics,
		logger:      logger.With().Str("component", "dispatcher").Logger(),
		callTimeout: callTimeout,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

func validateDispatch(req models.DispatchRequest) error {
	if strings.TrimSpace(req.TemplateName) == "" {
		return interfaces.NewValidationError("templateName is required")
	}
	if strings.TrimSpace(req.Language) == "" {
		return interfaces.NewValidationError("language is required")
	}
	for i, r := range req.Recipients {
		if strings.TrimSpace(r.PhoneNumber) == "" {
			return interfaces.NewValidationError("recipients[%d].phoneNumber is required", i)
		}
	}
	return nil
}

// Dispatch sends to all recipients in one concurrent wave, waits for every
// call to settle and persists the resulting campaign. Per-recipient failures
// and persistence failures never fail the call; the latter is reported via
// DispatchResult.Persisted. Only an invalid request returns an error.
//
// Cancelling ctx fails the sends still in flight. The campaign is persisted
// regardless, since accepted messages were delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, projectID string, req models.DispatchRequest) (*models.DispatchResult, error) {
	if err := validateDispatch(req); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { dispatchDurationHist.Observe(time.Since(start).Seconds()) }()

	results := make([]models.MessageResult, len(req.Recipients))
	g, gctx := errgroup.WithContext(ctx)
	for i, recipient := range req.Recipients {
		g.Go(func() error {
			results[i] = d.sendOne(gctx, req, recipient)
			return nil
		})
	}
	_ = g.Wait()

	campaign := d.buildCampaign(req, results)
	result := &models.DispatchResult{Campaign: campaign}

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := d.store.EnsureAndInsert(persistCtx, projectID, campaign); err != nil {
		dispatchPersistFailuresCounter.Inc()
		d.logger.Warn().Err(err).
			Str("project_id", projectID).
			Str("campaign_id", campaign.ID).
			Int("total", campaign.Total).
			Msg("campaign dispatched but not persisted")
		result.PersistError = err.Error()
		return result, nil
	}
	result.Persisted = true

	d.logger.Info().
		Str("project_id", projectID).
		Str("campaign_id", campaign.ID).
		Int("total", campaign.Total).
		Int("success", campaign.Success).
		Int("failed", campaign.Failed).
		Msg("campaign dispatched")

	if d.metrics != nil {
		if err := d.metrics.Invalidate(persistCtx, projectID); err != nil {
			d.logger.Warn().Err(err).Str("project_id", projectID).Msg("failed to invalidate metrics cache")
		}
	}
	d.publishDispatched(persistCtx, projectID, campaign)
	return result, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, req models.DispatchRequest, recipient models.Recipient) models.MessageResult {
	phone := strings.TrimSpace(recipient.PhoneNumber)
	callCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	defer cancel()

	messageID, err := d.provider.Send(callCtx, interfaces.SendRequest{
		To:           phone,
		From:         req.FromPhoneNumber,
		TemplateName: req.TemplateName,
		LanguageCode: req.Language,
		Parameters:   recipient.Variables,
	})
	if err != nil {
		dispatchMessagesCounter.WithLabelValues(models.MessageStatusFailed).Inc()
		d.logger.Debug().Err(err).Str("phone_number", phone).Msg("send failed")
		return models.MessageResult{
			PhoneNumber: phone,
			Status:      models.MessageStatusFailed,
			Success:     false,
			Error:       resultError(err),
		}
	}

	dispatchMessagesCounter.WithLabelValues(models.MessageStatusSent).Inc()
	sentAt := d.now()
	return models.MessageResult{
		PhoneNumber:  phone,
		MessageID:    messageID,
		Status:       models.MessageStatusSent,
		Success:      true,
		SentDateTime: &sentAt,
	}
}

func resultError(err error) *models.ResultError {
	var perr *interfaces.ProviderError
	if errors.As(err, &perr) {
		return &models.ResultError{Code: perr.Code, Message: perr.Message, Payload: perr.Payload}
	}
	return &models.ResultError{Message: err.Error()}
}

func (d *Dispatcher) buildCampaign(req models.DispatchRequest, results []models.MessageResult) *models.Campaign {
	name := strings.TrimSpace(req.CampaignName)
	if name == "" {
		name = req.TemplateName
	}
	campaign := &models.Campaign{
		ID:              d.newID(),
		CampaignName:    name,
		TemplateName:    req.TemplateName,
		Language:        req.Language,
		FromPhoneNumber: req.FromPhoneNumber,
		DateTime:        d.now(),
		Total:           len(results),
		Results:         results,
	}
	for _, r := range results {
		if r.Success {
			campaign.Success++
		} else {
			campaign.Failed++
		}
	}
	return campaign
}

func (d *Dispatcher) publishDispatched(ctx context.Context, projectID string, c *models.Campaign) {
	if d.events == nil {
		return
	}
	event := models.CampaignDispatchedEvent{
		ProjectID:    projectID,
		CampaignID:   c.ID,
		CampaignName: c.CampaignName,
		TemplateName: c.TemplateName,
		Total:        c.Total,
		Success:      c.Success,
		Failed:       c.Failed,
		DateTime:     c.DateTime,
	}
	if err := d.events.Publish(ctx, RoutingKeyCampaignDispatched, event); err != nil {
		d.logger.Warn().Err(err).Str("campaign_id", c.ID).Msg("failed to publish dispatch event")
	}
}
