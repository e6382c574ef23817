// Package settlement drives the on-chain settlement of a payment intent:
// verify the wallet and network, approve the escrow allowance, then invoke
// the escrow pay function and wait for confirmation.
package settlement

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/nitropay-io/nitropay-go/pkg/contracts"
	"github.com/nitropay-io/nitropay-go/pkg/logger"
	"github.com/nitropay-io/nitropay-go/pkg/metrics"
	"github.com/nitropay-io/nitropay-go/pkg/models"
	"github.com/nitropay-io/nitropay-go/pkg/wallet"
)

// Orchestrator runs the settlement sequence for one intent at a time. It is
// stateless between settlements; concurrent checkouts use separate wallets
// and do not share anything through it.
type Orchestrator struct {
	wallet wallet.Wallet
	logger logger.Logger
	onStep StepFunc
	now    func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for settlement progress.
func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) { o.logger = log }
}

// WithStepFunc registers an observer called as each step is entered.
func WithStepFunc(fn StepFunc) Option {
	return func(o *Orchestrator) { o.onStep = fn }
}

// New creates an orchestrator bound to a wallet.
func New(w wallet.Wallet, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		wallet: w,
		logger: &logger.EmptyLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Settle runs the full sequence for the intent and returns the receipt of
// the confirmed pay transaction. No step is retried internally; on failure
// the caller may rerun the whole flow, which mints a fresh approval and is
// safe to repeat.
func (o *Orchestrator) Settle(ctx context.Context, intent models.PaymentIntent) (*wallet.Receipt, error) {
	start := time.Now()

	receipt, err := o.settle(ctx, intent)

	status := "ok"
	if err != nil {
		status = "failed"
	}
	metrics.SettlementDuration.WithLabelValues(strconv.Itoa(intent.ChainID), status).Observe(time.Since(start).Seconds())

	return receipt, err
}

func (o *Orchestrator) settle(ctx context.Context, intent models.PaymentIntent) (*wallet.Receipt, error) {
	if intent.Amount == nil || intent.Amount.BigInt().Sign() <= 0 {
		return nil, fmt.Errorf("intent has no positive amount")
	}
	if intent.VaultAddress == "" {
		return nil, fmt.Errorf("intent has no vault address; was it registered?")
	}

	// Connection check comes first: a disconnected wallet must fail before
	// any network read.
	accounts, err := o.wallet.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet accounts: %v", err)
	}
	if len(accounts) == 0 {
		o.fail(StepNotConnected)
		return nil, ErrWalletNotConnected
	}
	o.enter(StepConnected)

	if err := o.verifyNetwork(ctx, intent.ChainID); err != nil {
		o.fail(StepConnected)
		return nil, err
	}
	if expireAt := intent.ExpireAt; !expireAt.IsZero() && o.now().After(expireAt) {
		o.fail(StepConnected)
		return nil, fmt.Errorf("%w: intent expired at %s", ErrIntentExpired, expireAt.Format(time.RFC3339))
	}
	o.enter(StepNetworkVerified)

	token := common.HexToAddress(intent.Token)
	vault := common.HexToAddress(intent.VaultAddress)
	amount := intent.Amount.BigInt()

	erc20ABI, err := contracts.ERC20ParsedABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %v", err)
	}

	// A standing allowance that already covers the amount makes the approve
	// transaction redundant; a failed read just falls back to approving.
	if allowance := o.currentAllowance(ctx, erc20ABI, token, accounts[0], vault, intent.ChainID); allowance != nil && allowance.Cmp(amount) >= 0 {
		o.logger.InfoWithChain(intent.ChainID, "Allowance %s already covers intent %s, skipping approval",
			allowance.String(), intent.ID.Hex())
	} else {
		o.logger.InfoWithChain(intent.ChainID, "Approving %s base units of %s for vault %s (intent %s)",
			amount.String(), token.Hex(), vault.Hex(), intent.ID.Hex())

		approveCall := wallet.ContractCall{
			To:     token,
			ABI:    erc20ABI,
			Method: "approve",
			Args:   []interface{}{vault, amount},
		}
		if _, err := o.submitAndConfirm(ctx, approveCall); err != nil {
			o.fail(StepApproved)
			return nil, &StepError{Step: StepApproved, Err: fmt.Errorf("%w: %v", ErrApprovalFailed, err)}
		}
	}
	o.enter(StepApproved)

	// The wallet's active chain is re-read here: a user switching networks
	// between the two transactions must not cause a pay on the wrong chain.
	if err := o.verifyNetwork(ctx, intent.ChainID); err != nil {
		o.fail(StepApproved)
		return nil, err
	}

	escrowABI, err := contracts.PaymentEscrowParsedABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse escrow ABI: %v", err)
	}

	o.logger.InfoWithChain(intent.ChainID, "Paying intent %s through vault %s", intent.ID.Hex(), vault.Hex())

	payCall := wallet.ContractCall{
		To:     vault,
		ABI:    escrowABI,
		Method: "pay",
		Args:   []interface{}{[32]byte(intent.ID), token, amount},
	}
	txHash, err := o.wallet.SubmitContractCall(ctx, payCall)
	if err != nil {
		o.fail(StepPaid)
		return nil, &StepError{Step: StepPaid, Err: fmt.Errorf("%w: %v", ErrPaymentFailed, err)}
	}
	o.enter(StepPaid)

	receipt, err := o.wallet.WaitForReceipt(ctx, txHash)
	if err != nil {
		o.fail(StepConfirmed)
		return nil, &StepError{Step: StepConfirmed, Err: fmt.Errorf("%w: %v", ErrPaymentFailed, err)}
	}
	if !receipt.Succeeded() {
		o.fail(StepConfirmed)
		return nil, &StepError{
			Step: StepConfirmed,
			Err:  fmt.Errorf("%w: transaction %s reverted", ErrPaymentFailed, receipt.TxHash.Hex()),
		}
	}
	if err := o.verifyPaymentEvent(receipt, intent, vault); err != nil {
		o.fail(StepConfirmed)
		return nil, &StepError{Step: StepConfirmed, Err: err}
	}
	o.enter(StepConfirmed)

	o.logger.InfoWithChain(intent.ChainID, "Intent %s settled in block %d (tx: %s, gas used: %d)",
		intent.ID.Hex(), receipt.BlockNumber, receipt.TxHash.Hex(), receipt.GasUsed)
	return receipt, nil
}

// verifyNetwork reads the wallet's active chain and rejects a mismatch
// before anything is broadcast on it.
func (o *Orchestrator) verifyNetwork(ctx context.Context, want int) error {
	got, err := o.wallet.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to read wallet chain id: %v", err)
	}
	if got != int64(want) {
		return &WrongNetworkError{Want: int64(want), Got: got}
	}
	return nil
}

// currentAllowance reads the vault's standing allowance for the connected
// account. A nil return means the read failed or came back malformed; the
// caller then mints a fresh approval.
func (o *Orchestrator) currentAllowance(ctx context.Context, erc20ABI abi.ABI, token, owner, vault common.Address, chainID int) *big.Int {
	out, err := o.wallet.CallContract(ctx, wallet.ContractCall{
		To:     token,
		ABI:    erc20ABI,
		Method: "allowance",
		Args:   []interface{}{owner, vault},
	})
	if err != nil {
		o.logger.DebugWithChain(chainID, "Allowance read failed, proceeding with approval: %v", err)
		return nil
	}
	if len(out) != 1 {
		return nil
	}
	allowance, ok := out[0].(*big.Int)
	if !ok {
		return nil
	}
	return allowance
}

// verifyPaymentEvent checks the PaymentReceived log the escrow emits on a
// successful pay. A receipt without the event is tolerated; an event settling
// a different intent id is not.
func (o *Orchestrator) verifyPaymentEvent(receipt *wallet.Receipt, intent models.PaymentIntent, vault common.Address) error {
	filterer, err := contracts.NewPaymentEscrowFilterer(vault, nil)
	if err != nil {
		return nil
	}

	for _, l := range receipt.Logs {
		if l.Address != vault {
			continue
		}
		event, err := filterer.ParsePaymentReceived(l)
		if err != nil {
			continue
		}
		if event.IntentId != [32]byte(intent.ID) {
			return fmt.Errorf("%w: escrow emitted PaymentReceived for intent %s, expected %s",
				ErrPaymentFailed, common.Hash(event.IntentId).Hex(), intent.ID.Hex())
		}
		o.logger.InfoWithChain(intent.ChainID, "PaymentReceived from %s for intent %s (amount %s)",
			event.Payer.Hex(), intent.ID.Hex(), event.Amount.String())
		return nil
	}
	return nil
}

// submitAndConfirm broadcasts a call and blocks until its receipt confirms a
// non-reverted execution.
func (o *Orchestrator) submitAndConfirm(ctx context.Context, call wallet.ContractCall) (*wallet.Receipt, error) {
	txHash, err := o.wallet.SubmitContractCall(ctx, call)
	if err != nil {
		return nil, err
	}
	receipt, err := o.wallet.WaitForReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if !receipt.Succeeded() {
		return nil, fmt.Errorf("transaction %s reverted", receipt.TxHash.Hex())
	}
	return receipt, nil
}

func (o *Orchestrator) enter(step Step) {
	metrics.SettlementSteps.WithLabelValues(step.String(), "ok").Inc()
	if o.onStep != nil {
		o.onStep(step)
	}
}

func (o *Orchestrator) fail(step Step) {
	metrics.SettlementSteps.WithLabelValues(step.String(), "failed").Inc()
}
