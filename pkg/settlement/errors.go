package settlement

import (
	"errors"
	"fmt"
)

var (
	// ErrWalletNotConnected is returned when the wallet reports no connected
	// accounts. Nothing has been read from the network at that point.
	ErrWalletNotConnected = errors.New("wallet not connected")

	// ErrIntentExpired is returned when the intent's expiry has passed before
	// any transaction was broadcast.
	ErrIntentExpired = errors.New("intent expired")

	// ErrApprovalFailed marks a rejected or reverted approve transaction.
	ErrApprovalFailed = errors.New("approval failed")

	// ErrPaymentFailed marks a rejected or reverted pay transaction. The
	// approval granted before it is not revoked; only a follow-up zero
	// approval by the account holder can undo it.
	ErrPaymentFailed = errors.New("payment failed")
)

// WrongNetworkError is returned when the wallet's active chain does not match
// the intent's chain. No transaction is ever submitted in that state.
type WrongNetworkError struct {
	Want int64
	Got  int64
}

func (e *WrongNetworkError) Error() string {
	return fmt.Sprintf("wrong network: wallet is on chain %d, intent requires chain %d", e.Got, e.Want)
}

// StepError is a failure after a transaction was broadcast. Step names how
// far the sequence got, so callers can tell an unpaid approval apart from an
// unconfirmed payment.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("settlement failed at step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
