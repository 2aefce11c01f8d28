package interfaces

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SendRequest is one templated message to one recipient.
type SendRequest struct {
	To           string
	From         string
	TemplateName string
	LanguageCode string
	Parameters   []string
}

// MessageProvider sends a templated message and returns the provider's
// message id.
type MessageProvider interface {
	Send(ctx context.Context, req SendRequest) (string, error)
}

// ProviderError is a rejection reported by the messaging provider.
type ProviderError struct {
	StatusCode int
	Code       int
	Message    string
	Payload    json.RawMessage
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("provider error %d (http %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error (http %d): %s", e.StatusCode, e.Message)
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// MetricsCache stores computed metric maps by request key. Keys embed the
// project's generation; Invalidate bumps it so entries computed before a new
// campaign was persisted are never served again.
type MetricsCache interface {
	Get(ctx context.Context, key string) (map[string]int, bool, error)
	Set(ctx context.Context, key string, value map[string]int, ttl time.Duration) error
	Generation(ctx context.Context, projectID string) (int64, error)
	Invalidate(ctx context.Context, projectID string) error
}
