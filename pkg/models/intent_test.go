package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntentID(t *testing.T) {
	seen := make(map[common.Hash]bool)
	for i := 0; i < 100; i++ {
		id, err := NewIntentID()
		require.NoError(t, err)
		assert.NotEqual(t, common.Hash{}, id)
		assert.False(t, seen[id], "intent id %s generated twice", id.Hex())
		seen[id] = true
	}
}

func TestIntentIDHexFormat(t *testing.T) {
	id, err := NewIntentID()
	require.NoError(t, err)

	hex := id.Hex()
	assert.Len(t, hex, 66)
	assert.Equal(t, "0x", hex[:2])
}

func TestIntentStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	for _, s := range []IntentStatus{StatusSucceeded, StatusFailed, StatusCancelled, StatusExpired} {
		assert.True(t, s.Terminal(), "status %s", s)
	}
}

func TestIntentStatusTransitions(t *testing.T) {
	terminal := []IntentStatus{StatusSucceeded, StatusFailed, StatusCancelled, StatusExpired}

	for _, next := range terminal {
		assert.True(t, StatusPending.CanTransition(next), "pending -> %s", next)
	}

	// Terminal states never move, not even back to pending.
	for _, from := range terminal {
		assert.False(t, from.CanTransition(StatusPending), "%s -> pending", from)
		for _, next := range terminal {
			assert.False(t, from.CanTransition(next), "%s -> %s", from, next)
		}
	}

	assert.False(t, StatusPending.CanTransition(StatusPending))
}

func TestPaymentIntentJSONRoundTrip(t *testing.T) {
	id, err := NewIntentID()
	require.NoError(t, err)

	amount, err := ParseBaseAmount("2500000000000000000")
	require.NoError(t, err)

	intent := PaymentIntent{
		ID:           id,
		Amount:       amount,
		Token:        "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		ChainID:      8453,
		Status:       StatusPending,
		ExpireAt:     time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second),
		VaultAddress: "0x1111111111111111111111111111111111111111",
	}

	data, err := json.Marshal(intent)
	require.NoError(t, err)

	var decoded PaymentIntent
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, intent.ID, decoded.ID)
	assert.Equal(t, intent.Amount.String(), decoded.Amount.String())
	assert.Equal(t, intent.Token, decoded.Token)
	assert.Equal(t, intent.ChainID, decoded.ChainID)
	assert.Equal(t, intent.Status, decoded.Status)
	assert.True(t, intent.ExpireAt.Equal(decoded.ExpireAt))
	assert.Equal(t, intent.VaultAddress, decoded.VaultAddress)
}

func TestPaymentIntentAmountNeverFloat(t *testing.T) {
	amount, err := ParseBaseAmount("999999999999999999999999999")
	require.NoError(t, err)

	intent := PaymentIntent{Amount: amount, Status: StatusPending}
	data, err := json.Marshal(intent)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"amount":"999999999999999999999999999"`)
}
