package paypal

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrConfigInvalid    = errors.New("paypal config invalid")
	ErrAuthFailed       = errors.New("paypal auth failed")
	ErrRequestFailed    = errors.New("paypal request failed")
	ErrResponseInvalid  = errors.New("paypal response invalid")
	ErrSignatureInvalid = errors.New("paypal webhook signature invalid")
	ErrRefundFailed     = errors.New("paypal refund failed")
)

const (
	defaultBaseURL   = "https://api-m.paypal.com"
	defaultTimeout   = 15 * time.Second
	captureCompleted = "COMPLETED"
	capturePending   = "PENDING"
	captureDeclined  = "DECLINED"
)

// Config holds the provider credentials.
type Config struct {
	BaseURL       string
	ClientID      string
	ClientSecret  string
	WebhookID     string
	WebhookSecret string
	Timeout       time.Duration
}

// ValidateConfig checks required credential fields.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return ErrConfigInvalid
	}
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return fmt.Errorf("%w: client credentials missing", ErrConfigInvalid)
	}
	return nil
}

func (c *Config) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return defaultBaseURL
	}
	return base
}

func (c *Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

// CreateInput describes a provider order to create.
type CreateInput struct {
	OrderNumber string
	Amount      string
	Currency    string
	Description string
	ReturnURL   string
	CancelURL   string
}

// CreateResult is the created provider order.
type CreateResult struct {
	ProviderOrderID string
	ApproveURL      string
	Raw             map[string]interface{}
}

// CaptureResult is the outcome of a capture call.
type CaptureResult struct {
	ProviderOrderID string
	CaptureID       string
	Status          string
	Amount          string
	Currency        string
	Raw             map[string]interface{}
}

// RefundResult is the outcome of a refund call.
type RefundResult struct {
	RefundID string
	Status   string
	Raw      map[string]interface{}
}

// CreateOrder creates a provider order for the given amount.
func CreateOrder(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	token, err := getAccessToken(ctx, cfg)
	if err != nil {
		return nil, err
	}
	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"reference_id": input.OrderNumber,
				"description":  input.Description,
				"amount": map[string]string{
					"currency_code": strings.ToUpper(strings.TrimSpace(input.Currency)),
					"value":         strings.TrimSpace(input.Amount),
				},
			},
		},
		"application_context": map[string]string{
			"return_url": input.ReturnURL,
			"cancel_url": input.CancelURL,
		},
	}
	body, _ := json.Marshal(payload)
	respBody, statusCode, err := doJSONRequest(ctx, cfg, http.MethodPost, "/v2/checkout/orders", token, body)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: create order status %d", ErrRequestFailed, statusCode)
	}
	raw := map[string]interface{}{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, ErrResponseInvalid
	}
	result := &CreateResult{
		ProviderOrderID: readString(raw, "id"),
		ApproveURL:      extractLinkByRel(raw, "approve"),
		Raw:             raw,
	}
	if result.ProviderOrderID == "" {
		return nil, ErrResponseInvalid
	}
	return result, nil
}

// CaptureOrder captures an approved provider order.
func CaptureOrder(ctx context.Context, cfg *Config, providerOrderID string) (*CaptureResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	providerOrderID = strings.TrimSpace(providerOrderID)
	if providerOrderID == "" {
		return nil, ErrRequestFailed
	}
	token, err := getAccessToken(ctx, cfg)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(providerOrderID))
	respBody, statusCode, err := doJSONRequest(ctx, cfg, http.MethodPost, endpoint, token, []byte("{}"))
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: capture status %d", ErrRequestFailed, statusCode)
	}
	raw := map[string]interface{}{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, ErrResponseInvalid
	}
	result := &CaptureResult{
		ProviderOrderID: readString(raw, "id"),
		Status:          readString(raw, "status"),
		Raw:             raw,
	}
	for _, unit := range readArray(raw, "purchase_units") {
		unitMap, ok := unit.(map[string]interface{})
		if !ok {
			continue
		}
		for _, capture := range readArray(unitMap, "payments", "captures") {
			captureMap, ok := capture.(map[string]interface{})
			if !ok {
				continue
			}
			result.CaptureID = readString(captureMap, "id")
			result.Amount = readString(captureMap, "amount", "value")
			result.Currency = readString(captureMap, "amount", "currency_code")
			if result.Status == "" {
				result.Status = readString(captureMap, "status")
			}
			break
		}
	}
	return result, nil
}

// RefundCapture refunds a completed capture in full.
func RefundCapture(ctx context.Context, cfg *Config, captureID string) (*RefundResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	captureID = strings.TrimSpace(captureID)
	if captureID == "" {
		return nil, ErrRefundFailed
	}
	token, err := getAccessToken(ctx, cfg)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("/v2/payments/captures/%s/refund", url.PathEscape(captureID))
	respBody, statusCode, err := doJSONRequest(ctx, cfg, http.MethodPost, endpoint, token, []byte("{}"))
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: refund status %d", ErrRefundFailed, statusCode)
	}
	raw := map[string]interface{}{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, ErrResponseInvalid
	}
	result := &RefundResult{
		RefundID: readString(raw, "id"),
		Status:   readString(raw, "status"),
		Raw:      raw,
	}
	if result.RefundID == "" {
		return nil, ErrRefundFailed
	}
	return result, nil
}

// WebhookEvent is a parsed provider webhook payload.
type WebhookEvent struct {
	ID        string
	EventType string
	Resource  map[string]interface{}
	Raw       map[string]interface{}
}

// ParseWebhookEvent decodes the webhook body.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	raw := map[string]interface{}{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ErrResponseInvalid
	}
	event := &WebhookEvent{
		ID:        readString(raw, "id"),
		EventType: strings.ToUpper(strings.TrimSpace(readString(raw, "event_type"))),
		Raw:       raw,
	}
	if resource, ok := raw["resource"].(map[string]interface{}); ok {
		event.Resource = resource
	}
	if event.EventType == "" {
		return nil, ErrResponseInvalid
	}
	return event, nil
}

// RelatedOrderID extracts the provider order id the event belongs to.
func (e *WebhookEvent) RelatedOrderID() string {
	if e == nil || e.Resource == nil {
		return ""
	}
	// Order-level events carry the id directly; capture events reference the
	// order through supplementary_data.
	if id := readString(e.Resource, "supplementary_data", "related_ids", "order_id"); id != "" {
		return id
	}
	if strings.HasPrefix(e.EventType, "CHECKOUT.ORDER.") {
		return readString(e.Resource, "id")
	}
	return ""
}

// CaptureAmount returns the captured value and currency, when present.
func (e *WebhookEvent) CaptureAmount() (string, string) {
	if e == nil || e.Resource == nil {
		return "", ""
	}
	value := strings.TrimSpace(readString(e.Resource, "amount", "value"))
	currency := strings.TrimSpace(readString(e.Resource, "amount", "currency_code"))
	return value, currency
}

// ResourceStatus returns the resource's status field.
func (e *WebhookEvent) ResourceStatus() string {
	if e == nil || e.Resource == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(readString(e.Resource, "status")))
}

// SignatureHeaders are the transmission headers sent with every webhook.
type SignatureHeaders struct {
	TransmissionID   string
	TransmissionTime string
	TransmissionSig  string
}

// ReadSignatureHeaders pulls the transmission headers from a request header
// set.
func ReadSignatureHeaders(h http.Header) SignatureHeaders {
	return SignatureHeaders{
		TransmissionID:   strings.TrimSpace(h.Get("Paypal-Transmission-Id")),
		TransmissionTime: strings.TrimSpace(h.Get("Paypal-Transmission-Time")),
		TransmissionSig:  strings.TrimSpace(h.Get("Paypal-Transmission-Sig")),
	}
}

// VerifyWebhookSignature checks the webhook HMAC signature. The signature is
// HMAC-SHA256 over "transmissionID|transmissionTime|webhookID|crc32(body)"
// keyed with the shared webhook secret, base64 encoded. Comparison is
// constant time.
func VerifyWebhookSignature(cfg *Config, headers SignatureHeaders, body []byte) error {
	if cfg == nil || strings.TrimSpace(cfg.WebhookSecret) == "" || strings.TrimSpace(cfg.WebhookID) == "" {
		return ErrConfigInvalid
	}
	if headers.TransmissionID == "" || headers.TransmissionTime == "" || headers.TransmissionSig == "" {
		return ErrSignatureInvalid
	}
	expected := ComputeWebhookSignature(cfg.WebhookSecret, cfg.WebhookID, headers.TransmissionID, headers.TransmissionTime, body)
	if !hmac.Equal([]byte(expected), []byte(headers.TransmissionSig)) {
		return ErrSignatureInvalid
	}
	return nil
}

// ComputeWebhookSignature builds the expected signature value.
func ComputeWebhookSignature(secret, webhookID, transmissionID, transmissionTime string, body []byte) string {
	message := fmt.Sprintf("%s|%s|%s|%d", transmissionID, transmissionTime, webhookID, crc32.ChecksumIEEE(body))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ToPaymentOutcome maps a webhook event to a local payment outcome. The
// second return is false for events the reconciliation flow ignores.
func ToPaymentOutcome(eventType, resourceStatus string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(eventType)) {
	case "PAYMENT.CAPTURE.COMPLETED":
		// The capture resource carries its own status; trust it over the
		// event name when they disagree.
		switch resourceStatus {
		case "DECLINED", "FAILED":
			return "failed", true
		case "PENDING":
			return "pending", true
		}
		return "paid", true
	case "PAYMENT.CAPTURE.DENIED":
		return "failed", true
	case "PAYMENT.CAPTURE.PENDING":
		return "pending", true
	case "CHECKOUT.ORDER.APPROVED":
		// Approval alone does not move money; the capture event does.
		return "pending", true
	default:
		return "", false
	}
}

func getAccessToken(ctx context.Context, cfg *Config) (string, error) {
	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.baseURL()+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token status %d", ErrAuthFailed, resp.StatusCode)
	}
	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil || strings.TrimSpace(token.AccessToken) == "" {
		return "", ErrAuthFailed
	}
	return token.AccessToken, nil
}

func doJSONRequest(ctx context.Context, cfg *Config, method, endpoint, token string, body []byte) ([]byte, int, error) {
	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, cfg.baseURL()+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	return respBody, resp.StatusCode, nil
}

func withTimeout(ctx context.Context, cfg *Config) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, cfg.timeout())
}

func extractLinkByRel(raw map[string]interface{}, rel string) string {
	for _, link := range readArray(raw, "links") {
		linkMap, ok := link.(map[string]interface{})
		if !ok {
			continue
		}
		if strings.EqualFold(readString(linkMap, "rel"), rel) {
			return readString(linkMap, "href")
		}
	}
	return ""
}

func readString(raw map[string]interface{}, path ...string) string {
	current := raw
	for i, key := range path {
		value, ok := current[key]
		if !ok {
			return ""
		}
		if i == len(path)-1 {
			text, ok := value.(string)
			if !ok {
				return ""
			}
			return text
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return ""
		}
		current = next
	}
	return ""
}

func readArray(raw map[string]interface{}, path ...string) []interface{} {
	current := raw
	for i, key := range path {
		value, ok := current[key]
		if !ok {
			return nil
		}
		if i == len(path)-1 {
			arr, ok := value.([]interface{})
			if !ok {
				return nil
			}
			return arr
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}
