package models

import "time"

const (
	ReportTypeNumber = "number"
	ReportTypePie    = "pie"
	ReportTypeBar    = "bar"

	DefaultReportSize = "medium"
)

// Report is one visualization inside a dashboard. Positions across a
// dashboard's reports always form the set 1..N.
type Report struct {
	ID       string       `json:"id"`
	Position int          `json:"position"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Size     string       `json:"size"`
	Metrics  []MetricSpec `json:"metrics"`
	Filters  FilterSet    `json:"filters"`
}

// ReportInput is a report as supplied by a caller. Position and ID are
// optional.
type ReportInput struct {
	ID       string       `json:"id,omitempty"`
	Position *int         `json:"position,omitempty"`
	Name     string       `json:"name" validate:"required"`
	Type     string       `json:"type" validate:"required,oneof=number pie bar"`
	Size     string       `json:"size,omitempty"`
	Metrics  []MetricSpec `json:"metrics" validate:"required,min=1,dive"`
	Filters  FilterSet    `json:"filters"`
}

type Dashboard struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Reports   []Report  `json:"reports"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateDashboardRequest struct {
	Name    string        `json:"name"`
	Reports []ReportInput `json:"reports"`
}

// UpdateDashboardRequest replaces the whole report list. Version, when set,
// must match the stored version.
type UpdateDashboardRequest struct {
	Name    *string       `json:"name,omitempty"`
	Reports []ReportInput `json:"reports"`
	Version *int          `json:"version,omitempty"`
}
