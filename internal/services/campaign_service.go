package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
)

// ErrExportDisabled is returned by Export when no bucket is configured.
var ErrExportDisabled = errors.New("campaign export is not configured")

// objectUploader is the subset of *manager.Uploader used for exports.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// CampaignService serves read access to the campaign history and its
// export to object storage.
type CampaignService struct {
	store    interfaces.CampaignRepository
	uploader objectUploader
	bucket   string
	logger   zerolog.Logger
	now      func() time.Time
}

// NewCampaignService builds the service. s3Client may be nil, which
// disables Export.
func NewCampaignService(store interfaces.CampaignRepository, s3Client *s3.Client, bucket string, logger zerolog.Logger) *CampaignService {
	svc := &CampaignService{
		store:  store,
		bucket: bucket,
		logger: logger.With().Str("component", "campaigns").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	if s3Client != nil && bucket != "" {
		svc.uploader = manager.NewUploader(s3Client)
	}
	return svc
}

func (s *CampaignService) List(ctx context.Context, projectID string, filters models.FilterSet) ([]*models.Campaign, error) {
	filter, err := interfaces.NewCampaignFilter(filters)
	if err != nil {
		return nil, err
	}
	campaigns, err := s.store.Find(ctx, projectID, filter)
	if err != nil {
		return nil, passTagged("find campaigns", err)
	}
	return campaigns, nil
}

func (s *CampaignService) Get(ctx context.Context, projectID string, campaignID string) (*models.Campaign, error) {
	campaign, err := s.store.GetByID(ctx, projectID, campaignID)
	if err != nil {
		return nil, passTagged("get campaign", err)
	}
	return campaign, nil
}

// ExportKey is the object key an export written at t is stored under.
func ExportKey(projectID string, t time.Time) string {
	return fmt.Sprintf("exports/%s/campaigns-%s.json", projectID, t.UTC().Format("20060102T150405Z"))
}

// Export writes every campaign matching filters as one JSON array object.
func (s *CampaignService) Export(ctx context.Context, projectID string, filters models.FilterSet) (*models.CampaignExport, error) {
	if s.uploader == nil {
		return nil, ErrExportDisabled
	}
	campaigns, err := s.List(ctx, projectID, filters)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(campaigns)
	if err != nil {
		return nil, &interfaces.InternalError{Op: "encode export", Err: err}
	}

	key := ExportKey(projectID, s.now())
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, &interfaces.InternalError{Op: "upload export", Err: err}
	}

	s.logger.Info().
		Str("project_id", projectID).
		Str("key", key).
		Int("count", len(campaigns)).
		Msg("campaigns exported")
	return &models.CampaignExport{Bucket: s.bucket, Key: key, Count: len(campaigns)}, nil
}
