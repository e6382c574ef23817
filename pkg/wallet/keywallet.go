package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// receiptPollInterval is how often a pending transaction is re-checked while
// waiting for confirmation.
const receiptPollInterval = 2 * time.Second

// KeyWallet is a Wallet backed by a raw private key and a JSON-RPC endpoint.
// It signs locally and broadcasts through ethclient, the server-side
// equivalent of a browser wallet for CLI and test settlements.
type KeyWallet struct {
	client  *ethclient.Client
	auth    *bind.TransactOpts
	address common.Address
	chainID int64
}

// NewKeyWallet connects to the RPC endpoint and derives the signing account
// from the hex-encoded private key.
func NewKeyWallet(ctx context.Context, rpcURL, privateKeyHex string) (*KeyWallet, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to client: %v", err)
	}

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %v", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %v", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %v", err)
	}

	return &KeyWallet{
		client:  client,
		auth:    auth,
		address: auth.From,
		chainID: chainID.Int64(),
	}, nil
}

var _ Wallet = (*KeyWallet)(nil)

// Accounts returns the single account the key controls.
func (w *KeyWallet) Accounts(_ context.Context) ([]common.Address, error) {
	return []common.Address{w.address}, nil
}

// ChainID returns the chain the wallet connected to at dial time.
func (w *KeyWallet) ChainID(_ context.Context) (int64, error) {
	return w.chainID, nil
}

// CallContract executes a read-only contract call.
func (w *KeyWallet) CallContract(ctx context.Context, call ContractCall) ([]interface{}, error) {
	contract := bind.NewBoundContract(call.To, call.ABI, w.client, w.client, w.client)

	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, call.Method, call.Args...); err != nil {
		return nil, fmt.Errorf("failed to call %s: %v", call.Method, err)
	}
	return out, nil
}

// SubmitContractCall signs and broadcasts a contract write.
func (w *KeyWallet) SubmitContractCall(ctx context.Context, call ContractCall) (common.Hash, error) {
	contract := bind.NewBoundContract(call.To, call.ABI, w.client, w.client, w.client)

	opts := *w.auth
	opts.Context = ctx

	tx, err := contract.Transact(&opts, call.Method, call.Args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to submit %s transaction: %v", call.Method, err)
	}
	return tx.Hash(), nil
}

// WaitForReceipt polls for the transaction receipt until it is mined or the
// context is cancelled.
func (w *KeyWallet) WaitForReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := w.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			logs := make([]types.Log, 0, len(receipt.Logs))
			for _, l := range receipt.Logs {
				logs = append(logs, *l)
			}
			return &Receipt{
				TxHash:      receipt.TxHash,
				BlockNumber: receipt.BlockNumber.Uint64(),
				GasUsed:     receipt.GasUsed,
				Status:      receipt.Status,
				Logs:        logs,
			}, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to fetch receipt for %s: %v", txHash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Client exposes the underlying RPC client for read paths that need direct
// contract access, such as event filtering.
func (w *KeyWallet) Client() *ethclient.Client {
	return w.client
}

// Close releases the underlying RPC connection.
func (w *KeyWallet) Close() {
	w.client.Close()
}
