package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"campaignhub/internal/interfaces"
)

// WhatsAppClient sends template messages through the WhatsApp Cloud API.
type WhatsAppClient struct {
	baseURL       string
	token         string
	phoneNumberID string
	httpClient    *http.Client
	logger        zerolog.Logger
}

var _ interfaces.MessageProvider = (*WhatsAppClient)(nil)

func NewWhatsAppClient(baseURL, token, phoneNumberID string, logger zerolog.Logger) *WhatsAppClient {
	return &WhatsAppClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		phoneNumberID: phoneNumberID,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        logger.With().Str("provider", "whatsapp").Logger(),
	}
}

type waTemplateMessage struct {
	MessagingProduct string     `json:"messaging_product"`
	RecipientType    string     `json:"recipient_type"`
	To               string     `json:"to"`
	Type             string     `json:"type"`
	Template         waTemplate `json:"template"`
}

type waTemplate struct {
	Name       string        `json:"name"`
	Language   waLanguage    `json:"language"`
	Components []waComponent `json:"components,omitempty"`
}

type waLanguage struct {
	Code string `json:"code"`
}

type waComponent struct {
	Type       string        `json:"type"`
	Parameters []waParameter `json:"parameters"`
}

type waParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type waSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type waErrorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		Subcode   int    `json:"error_subcode"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

func buildTemplateMessage(req interfaces.SendRequest) waTemplateMessage {
	msg := waTemplateMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               req.To,
		Type:             "template",
		Template: waTemplate{
			Name:     req.TemplateName,
			Language: waLanguage{Code: req.LanguageCode},
		},
	}
	if len(req.Parameters) > 0 {
		params := make([]waParameter, len(req.Parameters))
		for i, p := range req.Parameters {
			params[i] = waParameter{Type: "text", Text: p}
		}
		msg.Template.Components = []waComponent{{Type: "body", Parameters: params}}
	}
	return msg
}

// Send posts one template message. req.From selects the sending phone number
// id; the client default is used when it is empty.
func (c *WhatsAppClient) Send(ctx context.Context, req interfaces.SendRequest) (string, error) {
	sender := strings.TrimSpace(req.From)
	if sender == "" {
		sender = c.phoneNumberID
	}
	if c.baseURL == "" || sender == "" {
		return "", errors.New("whatsapp baseURL and phone number id are required")
	}

	b, err := json.Marshal(buildTemplateMessage(req))
	if err != nil {
		return "", fmt.Errorf("marshal whatsapp message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+sender+"/messages", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read whatsapp response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		perr := &interfaces.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
		var waErr waErrorResponse
		if json.Unmarshal(body, &waErr) == nil && waErr.Error.Message != "" {
			perr.Code = waErr.Error.Code
			perr.Message = waErr.Error.Message
		}
		if json.Valid(body) {
			perr.Payload = json.RawMessage(body)
		}
		c.logger.Debug().Str("to", req.To).Int("status", resp.StatusCode).Int("code", perr.Code).Msg("whatsapp send rejected")
		return "", perr
	}

	var out waSendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("whatsapp send: invalid json: %w", err)
	}
	if len(out.Messages) == 0 || out.Messages[0].ID == "" {
		return "", errors.New("whatsapp send response did not include a message id")
	}
	return out.Messages[0].ID, nil
}
