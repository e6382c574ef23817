// Package wallet abstracts the connected wallet a settlement runs against:
// which accounts are connected, which chain is active, and the ability to
// submit a signed contract call and await its confirmation.
package wallet

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ContractCall describes a single state-changing contract invocation.
type ContractCall struct {
	To     common.Address
	ABI    abi.ABI
	Method string
	Args   []interface{}
}

// ReceiptStatusSuccessful is the receipt status of a transaction that was
// included and did not revert.
const ReceiptStatusSuccessful = uint64(1)

// Receipt is the confirmation record of a submitted transaction.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Status      uint64
	Logs        []types.Log
}

// Succeeded reports whether the transaction was confirmed without reverting.
func (r *Receipt) Succeeded() bool {
	return r != nil && r.Status == ReceiptStatusSuccessful
}

// Wallet is the capability surface a settlement needs.
type Wallet interface {
	// Accounts returns the currently connected accounts; empty means the
	// wallet is not connected.
	Accounts(ctx context.Context) ([]common.Address, error)

	// ChainID returns the wallet's currently active chain.
	ChainID(ctx context.Context) (int64, error)

	// CallContract executes a read-only contract call and returns its
	// unpacked outputs.
	CallContract(ctx context.Context, call ContractCall) ([]interface{}, error)

	// SubmitContractCall signs and broadcasts the call, returning its
	// transaction hash without waiting for inclusion.
	SubmitContractCall(ctx context.Context, call ContractCall) (common.Hash, error)

	// WaitForReceipt blocks until the transaction is confirmed.
	WaitForReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error)
}
