// Package chains resolves a numeric chain identifier to chain metadata.
// It is a pure lookup: no mutable state, no network access.
package chains

import (
	"errors"
	"fmt"
	"os"
)

// ErrUnsupportedChain is returned when no known chain matches the id.
var ErrUnsupportedChain = errors.New("unsupported chain")

// Chain describes a supported blockchain network.
type Chain struct {
	ID           int
	Name         string
	NativeSymbol string
	RPCURL       string
}

const (
	EthereumMainnetChainID  = 1
	SepoliaChainID          = 11155111
	PolygonMainnetChainID   = 137
	ArbitrumMainnetChainID  = 42161
	BaseMainnetChainID      = 8453
	BSCMainnetChainID       = 56
	AvalancheMainnetChainID = 43114

	DefaultEthereumRPCURL  = "https://eth.llamarpc.com"
	DefaultSepoliaRPCURL   = "https://rpc.sepolia.org"
	DefaultPolygonRPCURL   = "https://polygon-rpc.com"
	DefaultArbitrumRPCURL  = "https://arb1.arbitrum.io/rpc"
	DefaultBaseRPCURL      = "https://mainnet.base.org"
	DefaultBSCRPCURL       = "https://bsc-dataseed.bnbchain.org"
	DefaultAvalancheRPCURL = "https://avalanche-c-chain-rpc.publicnode.com"
)

// registry maps chain ids to their metadata. RPC endpoints can be overridden
// per chain with a {NAME}_RPC_URL environment variable.
var registry = map[int]Chain{
	EthereumMainnetChainID:  {ID: EthereumMainnetChainID, Name: "ETHEREUM", NativeSymbol: "ETH", RPCURL: DefaultEthereumRPCURL},
	SepoliaChainID:          {ID: SepoliaChainID, Name: "SEPOLIA", NativeSymbol: "ETH", RPCURL: DefaultSepoliaRPCURL},
	PolygonMainnetChainID:   {ID: PolygonMainnetChainID, Name: "POLYGON", NativeSymbol: "POL", RPCURL: DefaultPolygonRPCURL},
	ArbitrumMainnetChainID:  {ID: ArbitrumMainnetChainID, Name: "ARBITRUM", NativeSymbol: "ETH", RPCURL: DefaultArbitrumRPCURL},
	BaseMainnetChainID:      {ID: BaseMainnetChainID, Name: "BASE", NativeSymbol: "ETH", RPCURL: DefaultBaseRPCURL},
	BSCMainnetChainID:       {ID: BSCMainnetChainID, Name: "BSC", NativeSymbol: "BNB", RPCURL: DefaultBSCRPCURL},
	AvalancheMainnetChainID: {ID: AvalancheMainnetChainID, Name: "AVALANCHE", NativeSymbol: "AVAX", RPCURL: DefaultAvalancheRPCURL},
}

// Resolve returns the metadata for a chain id, with the RPC endpoint taken
// from the environment when overridden.
func Resolve(chainID int) (Chain, error) {
	chain, exists := registry[chainID]
	if !exists {
		return Chain{}, fmt.Errorf("%w: %d", ErrUnsupportedChain, chainID)
	}
	if rpc := os.Getenv(chain.Name + "_RPC_URL"); rpc != "" {
		chain.RPCURL = rpc
	}
	return chain, nil
}

// IsSupported reports whether the chain id is known.
func IsSupported(chainID int) bool {
	_, exists := registry[chainID]
	return exists
}

// Name returns the name of the chain for a given chain id, or an empty string
// when the id is unknown.
func Name(chainID int) string {
	return registry[chainID].Name
}
