// Package whatsapp delivers order notifications to the store admin
// through the WhatsApp Cloud API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanikapatil01/chakali-store/internal/logger"
)

const (
	ReasonMissingConfig = "missing_config"
	ReasonAPIError      = "api_error"

	defaultAPIBase  = "https://graph.facebook.com/v21.0"
	sendAttempts    = 2
	retryDelay      = 700 * time.Millisecond
	defaultDocName  = "order.pdf"
	defaultDocCapt  = "Order PDF attached"
	maxDetailsBytes = 2048
)

// Outcome reports what happened to a notification attempt. Delivery is
// best effort: callers inspect the outcome, they never get an error.
type Outcome struct {
	OK      bool     `json:"ok"`
	Reason  string   `json:"reason,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Details string   `json:"details,omitempty"`
}

// Message carries the text body and the optional document attachment
// of one admin notification.
type Message struct {
	Text            string
	DocumentURL     string
	DocumentName    string
	DocumentCaption string
}

type Dispatcher struct {
	client      *http.Client
	apiBase     string
	adminNumber string
	phoneID     string
	accessToken string
	sleep       func(time.Duration)
}

func NewDispatcher(adminNumber, phoneID, accessToken string) *Dispatcher {
	return &Dispatcher{
		client:      &http.Client{Timeout: 15 * time.Second},
		apiBase:     defaultAPIBase,
		adminNumber: adminNumber,
		phoneID:     phoneID,
		accessToken: accessToken,
		sleep:       time.Sleep,
	}
}

// Configured reports whether every credential needed to reach the Cloud
// API is present.
func (d *Dispatcher) Configured() bool {
	return len(d.missingConfig()) == 0
}

func (d *Dispatcher) missingConfig() []string {
	var missing []string
	if d.adminNumber == "" {
		missing = append(missing, "ADMIN_WHATSAPP_NUMBER/WHATSAPP_ADMIN_NUMBER")
	}
	if d.phoneID == "" {
		missing = append(missing, "WA_PHONE_NUMBER_ID/WHATSAPP_PHONE_NUMBER_ID")
	}
	if d.accessToken == "" {
		missing = append(missing, "WA_ACCESS_TOKEN/WHATSAPP_ACCESS_TOKEN")
	}
	return missing
}

// AdminNumber exposes the configured destination for surfaces that
// render a direct chat link.
func (d *Dispatcher) AdminNumber() string {
	return d.adminNumber
}

// StatusReport summarizes credential presence for the dashboard.
type StatusReport struct {
	Configured bool     `json:"configured"`
	Number     string   `json:"number"`
	Missing    []string `json:"missing,omitempty"`
}

func (d *Dispatcher) Status() StatusReport {
	var missing []string
	if d.adminNumber == "" {
		missing = append(missing, "ADMIN_WHATSAPP_NUMBER")
	}
	if d.phoneID == "" {
		missing = append(missing, "WA_PHONE_NUMBER_ID")
	}
	if d.accessToken == "" {
		missing = append(missing, "WA_ACCESS_TOKEN")
	}
	return StatusReport{
		Configured: len(missing) == 0,
		Number:     d.adminNumber,
		Missing:    missing,
	}
}

// ChatLink builds a wa.me link that opens a chat with the admin number
// prefilled with messageText. Empty when no admin number is configured.
func (d *Dispatcher) ChatLink(messageText string) string {
	if d.adminNumber == "" {
		return ""
	}
	return "https://wa.me/" + d.adminNumber + "?text=" + url.QueryEscape(messageText)
}

// Notify sends the document first when one is attached, then the text
// body. A document failure short-circuits: the text is not attempted.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) Outcome {
	if missing := d.missingConfig(); len(missing) > 0 {
		logger.FromCtx(ctx).Info("whatsapp credentials missing, skipping notification",
			zap.String("layer", "whatsapp"),
			zap.String("method", "Notify"),
			zap.Strings("missing", missing))
		return Outcome{OK: false, Reason: ReasonMissingConfig, Missing: missing}
	}

	text := strings.TrimSpace(msg.Text)
	docURL := strings.TrimSpace(msg.DocumentURL)
	docName := strings.TrimSpace(msg.DocumentName)
	if docName == "" {
		docName = defaultDocName
	}
	docCaption := strings.TrimSpace(msg.DocumentCaption)
	if docCaption == "" {
		docCaption = defaultDocCapt
	}

	if docURL != "" {
		payload := map[string]any{
			"messaging_product": "whatsapp",
			"to":                d.adminNumber,
			"type":              "document",
			"document": map[string]string{
				"link":     docURL,
				"filename": docName,
				"caption":  docCaption,
			},
		}
		if out := d.send(ctx, payload); !out.OK {
			return out
		}
	}

	if text != "" {
		payload := map[string]any{
			"messaging_product": "whatsapp",
			"to":                d.adminNumber,
			"type":              "text",
			"text":              map[string]string{"body": text},
		}
		return d.send(ctx, payload)
	}

	return Outcome{OK: true}
}

func (d *Dispatcher) send(ctx context.Context, payload map[string]any) Outcome {
	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{OK: false, Reason: ReasonAPIError, Details: err.Error()}
	}
	endpoint := fmt.Sprintf("%s/%s/messages", d.apiBase, d.phoneID)

	var details string
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		details = d.post(ctx, endpoint, body)
		if details == "" {
			return Outcome{OK: true}
		}
		logger.FromCtx(ctx).Error("whatsapp send failed",
			zap.String("layer", "whatsapp"),
			zap.String("method", "send"),
			zap.Int("attempt", attempt),
			zap.String("details", details))
		if attempt < sendAttempts {
			d.sleep(retryDelay)
		}
	}
	return Outcome{OK: false, Reason: ReasonAPIError, Details: details}
}

// post performs one API call and returns empty on success or the
// failure details otherwise.
func (d *Dispatcher) post(ctx context.Context, endpoint string, body []byte) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err.Error()
	}
	req.Header.Set("Authorization", "Bearer "+d.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err.Error()
	}
	defer resp.Body.Close()

	// Anything outside 2xx is a failed send, redirects included.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetailsBytes))
		details := strings.TrimSpace(string(data))
		if details == "" {
			details = resp.Status
		}
		return details
	}
	return ""
}
