// Package issuer mints payment intents and registers them with the payment
// provider. It is the only component holding the provider's secret credential
// and therefore runs merchant-side, never in the browser.
package issuer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nitropay-io/nitropay-go/pkg/logger"
	"github.com/nitropay-io/nitropay-go/pkg/metrics"
	"github.com/nitropay-io/nitropay-go/pkg/models"
	"github.com/nitropay-io/nitropay-go/pkg/provider"
)

// ErrInvalidRequest is returned when the checkout request is missing or
// malformed before any provider call is made.
var ErrInvalidRequest = errors.New("invalid request")

// DefaultExpiresInMinutes is the expiry window applied when the checkout
// request does not specify one.
const DefaultExpiresInMinutes = 15

// Gateway is the slice of the provider client the issuer needs.
type Gateway interface {
	RegisterIntent(ctx context.Context, intent models.PaymentIntent) (*provider.RegisterIntentResponse, error)
}

// CreateIntentRequest is a validated-on-entry checkout request. Amount is a
// decimal string already expressed in the token's base units.
type CreateIntentRequest struct {
	Amount           string
	Token            string
	ChainID          int
	ExpiresInMinutes int
}

// CreateIntentResult is the canonical intent record merged with the
// provider-assigned vault address, plus the raw provider response so callers
// can forward it unchanged.
type CreateIntentResult struct {
	Intent   models.PaymentIntent `json:"intent"`
	Provider json.RawMessage      `json:"provider"`
}

// Issuer validates checkout requests and registers fresh intents.
type Issuer struct {
	gateway Gateway
	logger  logger.Logger
	now     func() time.Time
}

// New creates an issuer backed by the given provider gateway.
func New(gateway Gateway, log logger.Logger) *Issuer {
	return &Issuer{
		gateway: gateway,
		logger:  log,
		now:     time.Now,
	}
}

// CreateIntent mints a new intent and registers it with the provider.
// Each call creates a distinct intent with a fresh random id; the operation
// is deliberately not idempotent, every checkout attempt gets its own intent.
func (i *Issuer) CreateIntent(ctx context.Context, req CreateIntentRequest) (*CreateIntentResult, error) {
	amount, err := validateRequest(req)
	if err != nil {
		metrics.IntentsCreated.WithLabelValues(strconv.Itoa(req.ChainID), "rejected").Inc()
		return nil, err
	}

	id, err := models.NewIntentID()
	if err != nil {
		return nil, err
	}

	expiresIn := req.ExpiresInMinutes
	if expiresIn == 0 {
		expiresIn = DefaultExpiresInMinutes
	}

	intent := models.PaymentIntent{
		ID:       id,
		Amount:   amount,
		Token:    req.Token,
		ChainID:  req.ChainID,
		Status:   models.StatusPending,
		ExpireAt: i.now().Add(time.Duration(expiresIn) * time.Minute).UTC(),
	}

	i.logger.InfoWithChain(req.ChainID, "Registering intent %s (token: %s, amount: %s, expires in %dm)",
		intent.ID.Hex(), intent.Token, intent.Amount, expiresIn)

	resp, err := i.gateway.RegisterIntent(ctx, intent)
	if err != nil {
		metrics.IntentsCreated.WithLabelValues(strconv.Itoa(req.ChainID), "failed").Inc()
		i.logger.ErrorWithChain(req.ChainID, "Intent %s registration failed: %v", intent.ID.Hex(), err)
		return nil, err
	}

	intent.VaultAddress = resp.VaultAddress
	metrics.IntentsCreated.WithLabelValues(strconv.Itoa(req.ChainID), "created").Inc()
	i.logger.InfoWithChain(req.ChainID, "Intent %s registered, vault %s", intent.ID.Hex(), intent.VaultAddress)

	return &CreateIntentResult{Intent: intent, Provider: resp.Raw}, nil
}

// validateRequest enforces the intent invariants before anything leaves the
// process: positive integer base-unit amount, well-formed 0x token address,
// positive chain id.
func validateRequest(req CreateIntentRequest) (*models.BaseAmount, error) {
	if req.Amount == "" || req.Token == "" || req.ChainID == 0 {
		return nil, fmt.Errorf("%w: amount, token and chainId are required", ErrInvalidRequest)
	}
	amount, err := models.ParseBaseAmount(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !isTokenAddress(req.Token) {
		return nil, fmt.Errorf("%w: token %q is not a 0x-prefixed 20-byte address", ErrInvalidRequest, req.Token)
	}
	if req.ChainID < 0 {
		return nil, fmt.Errorf("%w: chainId must be positive", ErrInvalidRequest)
	}
	if req.ExpiresInMinutes < 0 {
		return nil, fmt.Errorf("%w: expiresInMinutes must be positive", ErrInvalidRequest)
	}
	return amount, nil
}

func isTokenAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && len(s) == 42 && common.IsHexAddress(s)
}
