// internal/models/campaign.go
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	MessageStatusSent     = "sent"
	MessageStatusFailed   = "failed"
	MessageStatusAnswered = "answered"
)

// Answer is an inbound reply correlated to an outbound message.
type Answer struct {
	MessageID       string     `json:"messageId"`
	MessageText     string     `json:"messageText"`
	MessageType     string     `json:"messageType"`
	MessageDateTime *time.Time `json:"messageDateTime,omitempty"`
}

// ResultError carries the provider error payload for a failed send.
type ResultError struct {
	Code    int             `json:"code,omitempty"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type MessageResult struct {
	PhoneNumber       string       `json:"phoneNumber"`
	MessageID         string       `json:"messageId,omitempty"`
	Status            string       `json:"status"`
	Success           bool         `json:"success"`
	Error             *ResultError `json:"error,omitempty"`
	SentDateTime      *time.Time   `json:"sentDateTime,omitempty"`
	DeliveredDateTime *time.Time   `json:"deliveredDateTime,omitempty"`
	ReadDateTime      *time.Time   `json:"readDateTime,omitempty"`
	Answers           []Answer     `json:"answers,omitempty"`
}

// Campaign is one dispatch batch. It is written once and never mutated.
type Campaign struct {
	ID              string          `json:"id"`
	CampaignName    string          `json:"campaignName"`
	TemplateName    string          `json:"templateName"`
	Language        string          `json:"language"`
	FromPhoneNumber string          `json:"fromPhoneNumber"`
	DateTime        time.Time       `json:"dateTime"`
	Total           int             `json:"total"`
	Success         int             `json:"success"`
	Failed          int             `json:"failed"`
	Results         []MessageResult `json:"results"`
}

// Validate checks the structural invariants a campaign record must hold
// before it is persisted.
func (c *Campaign) Validate() error {
	var problems []string
	if c.ID == "" {
		problems = append(problems, "id is required")
	}
	if c.TemplateName == "" {
		problems = append(problems, "templateName is required")
	}
	if c.DateTime.IsZero() {
		problems = append(problems, "dateTime is required")
	}
	if c.Total != len(c.Results) {
		problems = append(problems, fmt.Sprintf("total %d does not match %d results", c.Total, len(c.Results)))
	}
	if c.Success+c.Failed != c.Total {
		problems = append(problems, "success + failed must equal total")
	}
	succeeded := 0
	for i, r := range c.Results {
		if strings.TrimSpace(r.PhoneNumber) == "" {
			problems = append(problems, fmt.Sprintf("results[%d].phoneNumber is required", i))
		}
		if r.Success {
			succeeded++
		}
	}
	if succeeded != c.Success {
		problems = append(problems, "success does not match successful results")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Recipient is one addressee of a dispatch together with the ordered
// template variables for that addressee.
type Recipient struct {
	PhoneNumber string   `json:"phoneNumber" validate:"required"`
	Variables   []string `json:"variables"`
}

type DispatchRequest struct {
	CampaignName    string      `json:"campaignName"`
	TemplateName    string      `json:"templateName" validate:"required"`
	Language        string      `json:"language" validate:"required"`
	FromPhoneNumber string      `json:"fromPhoneNumber" validate:"required"`
	Recipients      []Recipient `json:"recipients" validate:"required,min=1,dive"`
}

// DispatchResult is returned for every dispatch. Persisted is false when the
// campaign record could not be written; the campaign is still returned.
type DispatchResult struct {
	Campaign     *Campaign `json:"campaign"`
	Persisted    bool      `json:"persisted"`
	PersistError string    `json:"persistError,omitempty"`
}

// CampaignDispatchedEvent is published after a campaign is persisted.
type CampaignDispatchedEvent struct {
	ProjectID    string    `json:"projectId"`
	CampaignID   string    `json:"campaignId"`
	CampaignName string    `json:"campaignName"`
	TemplateName string    `json:"templateName"`
	Total        int       `json:"total"`
	Success      int       `json:"success"`
	Failed       int       `json:"failed"`
	DateTime     time.Time `json:"dateTime"`
}

type CampaignExport struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Count  int    `json:"count"`
}
