// internal/interfaces/campaign_repository.go
package interfaces

import (
	"context"
	"time"

	"campaignhub/internal/models"
)

// CampaignFilter is the predicate form of a models.FilterSet.
type CampaignFilter struct {
	CampaignID      string
	CampaignName    string
	TemplateName    string
	FromPhoneNumber string
	From            time.Time
	To              time.Time
}

// NewCampaignFilter translates a FilterSet into store predicates. The end of
// the date range is widened to the end of its day.
func NewCampaignFilter(fs models.FilterSet) (CampaignFilter, error) {
	filter := CampaignFilter{
		CampaignID:      fs.CampaignID,
		CampaignName:    fs.CampaignName,
		TemplateName:    fs.TemplateName,
		FromPhoneNumber: fs.FromPhoneNumber,
	}
	if len(fs.DateRange) == 0 {
		return filter, nil
	}
	if len(fs.DateRange) != 2 {
		return CampaignFilter{}, NewValidationError("dateRange must contain exactly two instants, got %d", len(fs.DateRange))
	}
	start, end := fs.DateRange[0], EndOfDay(fs.DateRange[1])
	if end.Before(start) {
		return CampaignFilter{}, NewValidationError("dateRange end is before start")
	}
	filter.From = start
	filter.To = end
	return filter, nil
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// CampaignRepository persists campaigns in one namespace per project.
type CampaignRepository interface {
	EnsureAndInsert(ctx context.Context, projectID string, campaign *models.Campaign) error
	Find(ctx context.Context, projectID string, filter CampaignFilter) ([]*models.Campaign, error)
	Count(ctx context.Context, projectID string, filter CampaignFilter) (int, error)
	GetByID(ctx context.Context, projectID string, id string) (*models.Campaign, error)
}
