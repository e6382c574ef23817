// Package provider is the authenticated HTTP client to the external
// payment-provider API. Reference data reads use the public key; intent
// registration uses the secret key, which must never leave the backend.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nitropay-io/nitropay-go/pkg/logger"
	"github.com/nitropay-io/nitropay-go/pkg/metrics"
	"github.com/nitropay-io/nitropay-go/pkg/models"
)

const apiKeyHeader = "X-Api-Key"

// Client is a payment-provider API client.
type Client struct {
	baseURL    string
	publicKey  string
	secretKey  string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a provider client. The secret key may be empty for
// read-only (browser-equivalent) usage; RegisterIntent then fails upstream
// with an authentication error rather than ever falling back to the public key.
func NewClient(baseURL, publicKey, secretKey string, log logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		publicKey:  publicKey,
		secretKey:  secretKey,
		httpClient: createHTTPClient(),
		logger:     log,
	}
}

// RegisterIntentResponse is the provider's reply to an intent registration.
// The provider assigns the escrow vault the payment must go to; the raw body
// is kept so the merchant API can forward the full provider record.
type RegisterIntentResponse struct {
	VaultAddress string          `json:"vaultAddress"`
	Raw          json.RawMessage `json:"-"`
}

// ListChains fetches the chains the provider accepts payments on.
func (c *Client) ListChains(ctx context.Context) ([]models.SupportedChain, error) {
	var out []models.SupportedChain
	if err := c.get(ctx, "/payment/supported-chains", "list_chains", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTokens fetches the tokens the provider supports on a chain.
func (c *Client) ListTokens(ctx context.Context, chainID int) ([]models.SupportedToken, error) {
	var out []models.SupportedToken
	path := fmt.Sprintf("/payment/%d/supported-tokens", chainID)
	if err := c.get(ctx, path, "list_tokens", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterIntent registers a freshly minted intent with the provider using
// the secret credential and returns the provider-assigned vault address.
func (c *Client) RegisterIntent(ctx context.Context, intent models.PaymentIntent) (*RegisterIntentResponse, error) {
	payload, err := json.Marshal(intent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode intent: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment/intent", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.secretKey)

	body, err := c.do(req, "register_intent")
	if err != nil {
		return nil, err
	}

	resp := &RegisterIntentResponse{Raw: body}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %v, body: %s", err, string(body))
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path, operation string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set(apiKeyHeader, c.publicKey)

	body, err := c.do(req, operation)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode provider response: %v, body: %s", err, string(body))
	}
	return nil
}

// do executes the request and maps the response to the error taxonomy:
// transport failures to ErrUnavailable, 401 to ErrUnauthorized, any other
// non-2xx to *APIError with the upstream body.
func (c *Client) do(req *http.Request, operation string) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(operation, "transport").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Error("Failed to close response body: %v", closeErr)
		}
	}()

	// Read the response body regardless of status code
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.ProviderErrors.WithLabelValues(operation, "unauthorized").Inc()
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ProviderErrors.WithLabelValues(operation, "upstream").Inc()
		return nil, &APIError{Status: resp.StatusCode, Body: string(bodyBytes)}
	}
	return bodyBytes, nil
}

// Helper function to create an HTTP client with timeouts
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
