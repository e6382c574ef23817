package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// IntentStatus is the lifecycle state of a payment intent. Transitions are
// forward-only: once an intent leaves pending it never returns.
type IntentStatus string

const (
	StatusPending   IntentStatus = "pending"
	StatusSucceeded IntentStatus = "succeeded"
	StatusFailed    IntentStatus = "failed"
	StatusCancelled IntentStatus = "cancelled"
	StatusExpired   IntentStatus = "expired"
)

// Terminal reports whether the status is a final state.
func (s IntentStatus) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal forward
// transition. The only legal moves are pending -> terminal; terminal states
// never change and nothing goes back to pending.
func (s IntentStatus) CanTransition(next IntentStatus) bool {
	return s == StatusPending && next.Terminal()
}

// PaymentIntent is a provider-registered record of an intended payment.
// The id, amount, token and chain are fixed at creation; the vault address
// is assigned by the provider at registration and immutable afterwards.
type PaymentIntent struct {
	ID           common.Hash  `json:"id"`
	Amount       *BaseAmount  `json:"amount"`
	Token        string       `json:"token"`
	ChainID      int          `json:"chainId"`
	Status       IntentStatus `json:"status"`
	ExpireAt     time.Time    `json:"expireAt"`
	VaultAddress string       `json:"vaultAddress,omitempty"`
}

// NewIntentID generates a fresh 32-byte intent identifier from a
// cryptographically secure random source.
func NewIntentID() (common.Hash, error) {
	var id common.Hash
	if _, err := rand.Read(id[:]); err != nil {
		return common.Hash{}, fmt.Errorf("failed to generate intent id: %v", err)
	}
	return id, nil
}

// SupportedChain is reference data fetched from the provider: a chain the
// provider accepts payments on, with the tokens it supports there.
type SupportedChain struct {
	NetworkID int              `json:"networkId"`
	Name      string           `json:"name"`
	Tokens    []SupportedToken `json:"tokens"`
}

// SupportedToken carries the on-chain address and decimal precision needed to
// convert a human-entered decimal amount into base units.
type SupportedToken struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	LogoURL  string `json:"logoUrl,omitempty"`
}
