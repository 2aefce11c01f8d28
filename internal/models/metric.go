package models

import "time"

const (
	MetricMessagesSent   = "messagesSent"
	MetricCampaignsTotal = "campaignsTotal"
	MetricReplies        = "replies"
	MetricViews          = "views"
	MetricErrors         = "errors"
)

// IsMetricType reports whether t is part of the metric vocabulary shared by
// the metrics engine and report validation.
func IsMetricType(t string) bool {
	switch t {
	case MetricMessagesSent, MetricCampaignsTotal, MetricReplies, MetricViews, MetricErrors:
		return true
	}
	return false
}

type MetricFilter struct {
	Text string `json:"text,omitempty"`
}

type MetricSpec struct {
	Type   string        `json:"type" validate:"required,oneof=messagesSent campaignsTotal replies views errors"`
	Filter *MetricFilter `json:"filter,omitempty"`
}

// FilterSet narrows the campaigns a metric or report looks at. All present
// fields are ANDed. DateRange, when present, holds exactly [start, end].
type FilterSet struct {
	DateRange       []time.Time `json:"dateRange,omitempty"`
	CampaignID      string      `json:"campaignId,omitempty"`
	CampaignName    string      `json:"campaignName,omitempty"`
	TemplateName    string      `json:"templateName,omitempty"`
	FromPhoneNumber string      `json:"fromPhoneNumber,omitempty"`
}

type MetricsRequest struct {
	Metrics []MetricSpec `json:"metrics"`
	Filters FilterSet    `json:"filters"`
}
