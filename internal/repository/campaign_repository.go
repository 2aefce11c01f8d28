package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/lib/pq"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
)

const (
	campaignTablePrefix = "campaigns_"
	dateTimeIndexSuffix = "_date_time_idx"
	maxIdentifierLength = 63

	// Table names leave room for the index suffix so neither identifier is
	// truncated by Postgres.
	maxTableNameLength = maxIdentifierLength - len(dateTimeIndexSuffix)
	tableHashLength    = 8

	pqUndefinedTable = "42P01"
)

var projectIdentChars = regexp.MustCompile(`[^a-z0-9_]+`)

// createCampaignTable carries the structural schema check for a project's
// campaign table. %[1]s is the quoted table, %[2]s the quoted index name.
const createCampaignTable = `
	CREATE TABLE IF NOT EXISTS %[1]s (
		id TEXT PRIMARY KEY,
		campaign_name TEXT NOT NULL,
		template_name TEXT NOT NULL CHECK (template_name <> ''),
		language TEXT NOT NULL,
		from_phone_number TEXT NOT NULL,
		date_time TIMESTAMPTZ NOT NULL,
		total INTEGER NOT NULL CHECK (total >= 0),
		success INTEGER NOT NULL CHECK (success >= 0),
		failed INTEGER NOT NULL CHECK (failed >= 0),
		results JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (success + failed = total),
		CHECK (jsonb_typeof(results) = 'array' AND jsonb_array_length(results) = total)
	);
	CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (date_time DESC);
`

const campaignColumns = `
	id, campaign_name, template_name, language, from_phone_number,
	date_time, total, success, failed, results
`

type campaignRepository struct {
	db *sql.DB

	mu      sync.Mutex
	ensured map[string]bool
}

func NewCampaignRepository(db *sql.DB) interfaces.CampaignRepository {
	return &campaignRepository{db: db, ensured: make(map[string]bool)}
}

// CampaignTableName maps a project id onto its campaign table name. Names
// that would exceed the identifier limit are cut and suffixed with a hash of
// the full project id, so long ids sharing a prefix get distinct tables.
func CampaignTableName(projectID string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(projectID))
	s = projectIdentChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "", interfaces.NewValidationError("project id %q cannot name a campaign table", projectID)
	}
	name := campaignTablePrefix + s
	if len(name) > maxTableNameLength {
		sum := sha256.Sum256([]byte(projectID))
		name = name[:maxTableNameLength-tableHashLength-1] + "_" + hex.EncodeToString(sum[:])[:tableHashLength]
	}
	return name, nil
}

func (r *campaignRepository) ensureTable(ctx context.Context, table string) error {
	r.mu.Lock()
	done := r.ensured[table]
	r.mu.Unlock()
	if done {
		return nil
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = $1
		)`, table).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check campaign table %s: %w", table, err)
	}

	if !exists {
		stmt := fmt.Sprintf(createCampaignTable, pq.QuoteIdentifier(table), pq.QuoteIdentifier(table+dateTimeIndexSuffix))
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create campaign table %s: %w", table, err)
		}
	}

	r.mu.Lock()
	r.ensured[table] = true
	r.mu.Unlock()
	return nil
}

func (r *campaignRepository) EnsureAndInsert(ctx context.Context, projectID string, campaign *models.Campaign) error {
	if err := campaign.Validate(); err != nil {
		return &interfaces.ValidationError{Message: "invalid campaign: " + err.Error()}
	}
	table, err := CampaignTableName(projectID)
	if err != nil {
		return err
	}
	if err := r.ensureTable(ctx, table); err != nil {
		return err
	}

	results := campaign.Results
	if results == nil {
		results = []models.MessageResult{}
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, campaign_name, template_name, language, from_phone_number,
			date_time, total, success, failed, results
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, pq.QuoteIdentifier(table))

	_, err = r.db.ExecContext(ctx, query,
		campaign.ID,
		campaign.CampaignName,
		campaign.TemplateName,
		campaign.Language,
		campaign.FromPhoneNumber,
		campaign.DateTime,
		campaign.Total,
		campaign.Success,
		campaign.Failed,
		resultsJSON,
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func buildCampaignWhere(filter interfaces.CampaignFilter) (string, []interface{}) {
	var args []interface{}
	var whereClauses []string
	argPos := 1

	add := func(clause string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf(clause, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.CampaignID != "" {
		add("id = $%d", filter.CampaignID)
	}
	if filter.CampaignName != "" {
		add("campaign_name = $%d", filter.CampaignName)
	}
	if filter.TemplateName != "" {
		add("template_name = $%d", filter.TemplateName)
	}
	if filter.FromPhoneNumber != "" {
		add("from_phone_number = $%d", filter.FromPhoneNumber)
	}
	if !filter.From.IsZero() {
		add("date_time >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("date_time <= $%d", filter.To)
	}

	if len(whereClauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(whereClauses, " AND "), args
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable
}

// Find returns every campaign of the project matching filter, newest first.
// A project that never dispatched has no table and yields no campaigns.
func (r *campaignRepository) Find(ctx context.Context, projectID string, filter interfaces.CampaignFilter) ([]*models.Campaign, error) {
	table, err := CampaignTableName(projectID)
	if err != nil {
		return nil, err
	}

	where, args := buildCampaignWhere(filter)
	query := "SELECT " + campaignColumns + " FROM " + pq.QuoteIdentifier(table) + where + " ORDER BY date_time DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if isUndefinedTable(err) {
			return []*models.Campaign{}, nil
		}
		return nil, fmt.Errorf("find campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *campaignRepository) Count(ctx context.Context, projectID string, filter interfaces.CampaignFilter) (int, error) {
	table, err := CampaignTableName(projectID)
	if err != nil {
		return 0, err
	}

	where, args := buildCampaignWhere(filter)
	var count int
	err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+pq.QuoteIdentifier(table)+where, args...).Scan(&count)
	if err != nil {
		if isUndefinedTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count campaigns: %w", err)
	}
	return count, nil
}

func (r *campaignRepository) GetByID(ctx context.Context, projectID string, id string) (*models.Campaign, error) {
	table, err := CampaignTableName(projectID)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + campaignColumns + " FROM " + pq.QuoteIdentifier(table) + " WHERE id = $1"
	campaign, err := scanCampaign(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUndefinedTable(err) {
			return nil, &interfaces.NotFoundError{Resource: "campaign", ID: id}
		}
		return nil, err
	}
	return campaign, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	var campaign models.Campaign
	var resultsJSON []byte
	if err := row.Scan(
		&campaign.ID,
		&campaign.CampaignName,
		&campaign.TemplateName,
		&campaign.Language,
		&campaign.FromPhoneNumber,
		&campaign.DateTime,
		&campaign.Total,
		&campaign.Success,
		&campaign.Failed,
		&resultsJSON,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resultsJSON, &campaign.Results); err != nil {
		return nil, fmt.Errorf("unmarshal results of campaign %s: %w", campaign.ID, err)
	}
	return &campaign, nil
}
