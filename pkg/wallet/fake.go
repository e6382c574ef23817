package wallet

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// FakeWallet is an in-memory Wallet for tests. Transaction hashes are derived
// deterministically from the method name and submission order; every
// interaction is recorded so tests can assert exactly which transactions were
// (or were not) broadcast.
type FakeWallet struct {
	mu sync.Mutex

	// ConnectedAccounts is what Accounts reports; empty means not connected.
	ConnectedAccounts []common.Address

	// ChainIDs is consumed one value per ChainID call, the last value
	// repeating. This lets tests simulate a mid-flow network switch.
	ChainIDs []int64

	// SubmitErrs maps a method name to an error returned on submission.
	SubmitErrs map[string]error

	// RevertMethods marks methods whose receipts come back reverted.
	RevertMethods map[string]bool

	// ReadResults maps a read method name to the outputs CallContract
	// returns; unconfigured methods fail.
	ReadResults map[string][]interface{}

	// ReadErrs maps a read method name to an error returned instead.
	ReadErrs map[string]error

	// LogsForMethod attaches logs to the receipt of a submitted method.
	LogsForMethod map[string][]types.Log

	// Recorded state.
	Calls        []ContractCall
	Reads        []ContractCall
	ChainIDReads int

	receipts map[common.Hash]*Receipt
}

var _ Wallet = (*FakeWallet)(nil)

// NewFakeWallet creates a connected fake wallet on the given chain.
func NewFakeWallet(chainID int64, accounts ...common.Address) *FakeWallet {
	return &FakeWallet{
		ConnectedAccounts: accounts,
		ChainIDs:          []int64{chainID},
		SubmitErrs:        make(map[string]error),
		RevertMethods:     make(map[string]bool),
		ReadResults:       make(map[string][]interface{}),
		ReadErrs:          make(map[string]error),
		LogsForMethod:     make(map[string][]types.Log),
		receipts:          make(map[common.Hash]*Receipt),
	}
}

func (w *FakeWallet) Accounts(_ context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ConnectedAccounts, nil
}

func (w *FakeWallet) ChainID(_ context.Context) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.ChainIDs) == 0 {
		return 0, fmt.Errorf("no chain configured")
	}
	id := w.ChainIDs[0]
	if len(w.ChainIDs) > 1 {
		w.ChainIDs = w.ChainIDs[1:]
	}
	w.ChainIDReads++
	return id, nil
}

func (w *FakeWallet) CallContract(_ context.Context, call ContractCall) ([]interface{}, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Reads = append(w.Reads, call)

	if err := w.ReadErrs[call.Method]; err != nil {
		return nil, err
	}
	out, exists := w.ReadResults[call.Method]
	if !exists {
		return nil, fmt.Errorf("no read result configured for %s", call.Method)
	}
	return out, nil
}

func (w *FakeWallet) SubmitContractCall(_ context.Context, call ContractCall) (common.Hash, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.SubmitErrs[call.Method]; err != nil {
		return common.Hash{}, err
	}

	w.Calls = append(w.Calls, call)

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%d", call.Method, len(w.Calls))))
	hash := common.BytesToHash(sum[:])

	status := ReceiptStatusSuccessful
	if w.RevertMethods[call.Method] {
		status = 0
	}
	w.receipts[hash] = &Receipt{
		TxHash:      hash,
		BlockNumber: uint64(len(w.Calls)),
		GasUsed:     21000,
		Status:      status,
		Logs:        w.LogsForMethod[call.Method],
	}
	return hash, nil
}

func (w *FakeWallet) WaitForReceipt(_ context.Context, txHash common.Hash) (*Receipt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	receipt, exists := w.receipts[txHash]
	if !exists {
		return nil, fmt.Errorf("unknown transaction %s", txHash.Hex())
	}
	return receipt, nil
}

// SubmittedMethods returns the method names broadcast, in order.
func (w *FakeWallet) SubmittedMethods() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	methods := make([]string, len(w.Calls))
	for i, call := range w.Calls {
		methods[i] = call.Method
	}
	return methods
}
