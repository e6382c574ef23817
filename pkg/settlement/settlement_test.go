package settlement

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitropay-io/nitropay-go/pkg/contracts"
	"github.com/nitropay-io/nitropay-go/pkg/metrics"
	"github.com/nitropay-io/nitropay-go/pkg/models"
	"github.com/nitropay-io/nitropay-go/pkg/wallet"
)

var (
	testAccount = common.HexToAddress("0xabababababababababababababababababababab")
	testToken   = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
	testVault   = "0x2222222222222222222222222222222222222222"
)

func testIntent(t *testing.T, chainID int) models.PaymentIntent {
	t.Helper()
	id, err := models.NewIntentID()
	require.NoError(t, err)
	return models.PaymentIntent{
		ID:           id,
		Amount:       models.NewBaseAmount(big.NewInt(1500000)),
		Token:        testToken,
		ChainID:      chainID,
		Status:       models.StatusPending,
		ExpireAt:     time.Now().Add(15 * time.Minute).UTC(),
		VaultAddress: testVault,
	}
}

func TestSettle(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)

	var steps []Step
	orchestrator := New(w, WithStepFunc(func(step Step) {
		steps = append(steps, step)
	}))

	intent := testIntent(t, 8453)
	receipt, err := orchestrator.Settle(context.Background(), intent)
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())

	// Exactly two transactions, approval before payment.
	assert.Equal(t, []string{"approve", "pay"}, w.SubmittedMethods())

	assert.Equal(t, []Step{
		StepConnected,
		StepNetworkVerified,
		StepApproved,
		StepPaid,
		StepConfirmed,
	}, steps)

	// Approval targets the token contract and grants the vault exactly the
	// intent amount; payment targets the vault with the intent id.
	require.Len(t, w.Calls, 2)
	approve, pay := w.Calls[0], w.Calls[1]

	assert.Equal(t, common.HexToAddress(testToken), approve.To)
	require.Len(t, approve.Args, 2)
	assert.Equal(t, common.HexToAddress(testVault), approve.Args[0])
	assert.Equal(t, big.NewInt(1500000), approve.Args[1])

	assert.Equal(t, common.HexToAddress(testVault), pay.To)
	require.Len(t, pay.Args, 3)
	assert.Equal(t, [32]byte(intent.ID), pay.Args[0])
	assert.Equal(t, common.HexToAddress(testToken), pay.Args[1])
	assert.Equal(t, big.NewInt(1500000), pay.Args[2])
}

func TestSettleWalletNotConnected(t *testing.T) {
	w := wallet.NewFakeWallet(8453) // no accounts

	_, err := New(w).Settle(context.Background(), testIntent(t, 8453))
	assert.True(t, errors.Is(err, ErrWalletNotConnected))

	// Connection is checked before anything touches the network.
	assert.Zero(t, w.ChainIDReads)
	assert.Empty(t, w.Calls)
}

func TestSettleWrongNetwork(t *testing.T) {
	w := wallet.NewFakeWallet(137, testAccount)

	_, err := New(w).Settle(context.Background(), testIntent(t, 8453))

	var wrongNet *WrongNetworkError
	require.True(t, errors.As(err, &wrongNet))
	assert.Equal(t, int64(8453), wrongNet.Want)
	assert.Equal(t, int64(137), wrongNet.Got)

	// No transaction is ever broadcast on the wrong chain.
	assert.Empty(t, w.Calls)
}

func TestSettleNetworkSwitchAfterApproval(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)
	// First read passes, the user then switches their wallet to mainnet.
	w.ChainIDs = []int64{8453, 1}

	_, err := New(w).Settle(context.Background(), testIntent(t, 8453))

	var wrongNet *WrongNetworkError
	require.True(t, errors.As(err, &wrongNet))
	assert.Equal(t, int64(1), wrongNet.Got)

	// The approval went out, the payment did not.
	assert.Equal(t, []string{"approve"}, w.SubmittedMethods())
}

func TestSettleApprovalRejected(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)
	w.SubmitErrs["approve"] = errors.New("user rejected the request")

	_, err := New(w).Settle(context.Background(), testIntent(t, 8453))

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepApproved, stepErr.Step)
	assert.True(t, errors.Is(err, ErrApprovalFailed))
	assert.Empty(t, w.SubmittedMethods())
}

func TestSettleApprovalReverted(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)
	w.RevertMethods["approve"] = true

	_, err := New(w).Settle(context.Background(), testIntent(t, 8453))

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepApproved, stepErr.Step)
	assert.True(t, errors.Is(err, ErrApprovalFailed))

	// A failed approval never broadcasts a payment.
	assert.Equal(t, []string{"approve"}, w.SubmittedMethods())
}

func TestSettlePayRejected(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)
	w.SubmitErrs["pay"] = errors.New("user rejected the request")

	_, err := New(w).Settle(context.Background(), testIntent(t, 8453))

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepPaid, stepErr.Step)
	assert.True(t, errors.Is(err, ErrPaymentFailed))

	// The allowance stands even though the payment never went out.
	assert.Equal(t, []string{"approve"}, w.SubmittedMethods())
}

func TestSettlePayReverted(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)
	w.RevertMethods["pay"] = true

	_, err := New(w).Settle(context.Background(), testIntent(t, 8453))

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepConfirmed, stepErr.Step)
	assert.True(t, errors.Is(err, ErrPaymentFailed))
	assert.Equal(t, []string{"approve", "pay"}, w.SubmittedMethods())
}

func TestSettleSkipsApprovalWhenAllowanceCovers(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)
	w.ReadResults["allowance"] = []interface{}{big.NewInt(2000000)}

	var steps []Step
	orchestrator := New(w, WithStepFunc(func(step Step) {
		steps = append(steps, step)
	}))

	receipt, err := orchestrator.Settle(context.Background(), testIntent(t, 8453))
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())

	// The standing allowance covers the amount, so only pay goes out, but
	// the step sequence still reports the approved state.
	assert.Equal(t, []string{"pay"}, w.SubmittedMethods())
	assert.Contains(t, steps, StepApproved)

	// The allowance was read for the connected account against the vault.
	require.Len(t, w.Reads, 1)
	assert.Equal(t, "allowance", w.Reads[0].Method)
	assert.Equal(t, testAccount, w.Reads[0].Args[0])
	assert.Equal(t, common.HexToAddress(testVault), w.Reads[0].Args[1])
}

func TestSettleApprovesWhenAllowanceInsufficient(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)
	w.ReadResults["allowance"] = []interface{}{big.NewInt(100)}

	_, err := New(w).Settle(context.Background(), testIntent(t, 8453))
	require.NoError(t, err)
	assert.Equal(t, []string{"approve", "pay"}, w.SubmittedMethods())
}

func TestSettleApprovesWhenAllowanceReadFails(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)
	w.ReadErrs["allowance"] = errors.New("execution reverted")

	_, err := New(w).Settle(context.Background(), testIntent(t, 8453))
	require.NoError(t, err)
	assert.Equal(t, []string{"approve", "pay"}, w.SubmittedMethods())
}

// paymentReceivedLog builds the log the escrow emits on a successful pay.
func paymentReceivedLog(t *testing.T, vault common.Address, intentID common.Hash, token, payer common.Address, amount *big.Int) types.Log {
	t.Helper()
	parsed, err := contracts.PaymentEscrowParsedABI()
	require.NoError(t, err)
	return types.Log{
		Address: vault,
		Topics: []common.Hash{
			parsed.Events["PaymentReceived"].ID,
			intentID,
			common.BytesToHash(token.Bytes()),
			common.BytesToHash(payer.Bytes()),
		},
		Data: common.BigToHash(amount).Bytes(),
	}
}

func TestSettleAcceptsMatchingPaymentEvent(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)
	intent := testIntent(t, 8453)
	w.LogsForMethod["pay"] = []types.Log{paymentReceivedLog(t,
		common.HexToAddress(testVault), intent.ID, common.HexToAddress(testToken), testAccount, big.NewInt(1500000))}

	receipt, err := New(w).Settle(context.Background(), intent)
	require.NoError(t, err)
	require.Len(t, receipt.Logs, 1)
}

func TestSettleRejectsMismatchedPaymentEvent(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)
	intent := testIntent(t, 8453)

	otherID, err := models.NewIntentID()
	require.NoError(t, err)
	w.LogsForMethod["pay"] = []types.Log{paymentReceivedLog(t,
		common.HexToAddress(testVault), otherID, common.HexToAddress(testToken), testAccount, big.NewInt(1500000))}

	_, err = New(w).Settle(context.Background(), intent)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepConfirmed, stepErr.Step)
	assert.True(t, errors.Is(err, ErrPaymentFailed))
}

func TestSettleRecordsDurationOnFailure(t *testing.T) {
	before := testutil.CollectAndCount(metrics.SettlementDuration)

	// Wallet on mainnet, intent on Arbitrum: fails before any broadcast.
	w := wallet.NewFakeWallet(1, testAccount)
	_, err := New(w).Settle(context.Background(), testIntent(t, 42161))
	require.Error(t, err)

	// The failed outcome still lands in the duration histogram.
	after := testutil.CollectAndCount(metrics.SettlementDuration)
	assert.Greater(t, after, before)
}

func TestSettleExpiredIntent(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)

	intent := testIntent(t, 8453)
	intent.ExpireAt = time.Now().Add(-time.Minute).UTC()

	_, err := New(w).Settle(context.Background(), intent)
	assert.True(t, errors.Is(err, ErrIntentExpired))
	assert.Empty(t, w.Calls)
}

func TestSettleMissingVault(t *testing.T) {
	w := wallet.NewFakeWallet(8453, testAccount)

	intent := testIntent(t, 8453)
	intent.VaultAddress = ""

	_, err := New(w).Settle(context.Background(), intent)
	assert.Error(t, err)
	assert.Zero(t, w.ChainIDReads)
}

func TestStepNames(t *testing.T) {
	assert.Equal(t, "not_connected", StepNotConnected.String())
	assert.Equal(t, "connected", StepConnected.String())
	assert.Equal(t, "network_verified", StepNetworkVerified.String())
	assert.Equal(t, "approved", StepApproved.String())
	assert.Equal(t, "paid", StepPaid.String())
	assert.Equal(t, "confirmed", StepConfirmed.String())
	assert.Equal(t, "unknown", Step(99).String())
}
