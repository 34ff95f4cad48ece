package domain

import "fmt"

// ChainID is the numeric EVM chain identifier (EIP-155).
type ChainID uint64

const (
	ChainIDEthereum ChainID = 1
	ChainIDOptimism ChainID = 10
	ChainIDPolygon  ChainID = 137
	ChainIDArbitrum ChainID = 42161
	ChainIDSepolia  ChainID = 11155111
)

// ChainIDToName maps ChainID to its human-readable network name.
var ChainIDToName = map[ChainID]string{
	ChainIDEthereum: "Ethereum Mainnet",
	ChainIDSepolia:  "Sepolia Testnet",
	ChainIDOptimism: "Optimism",
	ChainIDPolygon:  "Polygon",
	ChainIDArbitrum: "Arbitrum One",
}

// Name returns the network name for the chain, or a placeholder for
// unknown chain IDs.
func (c ChainID) Name() string {
	if name, ok := ChainIDToName[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (chain ID %d)", uint64(c))
}

func (c ChainID) String() string {
	return fmt.Sprintf("%d", uint64(c))
}
