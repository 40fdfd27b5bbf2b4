package port

import (
	"context"

	"minting_dapp/internal/domain/entity"
)

// NetworkConfigSource loads the dapp configuration and the contract descriptor.
type NetworkConfigSource interface {
	// LoadNetworkConfig fetches config.json and abi.json and merges them.
	LoadNetworkConfig(ctx context.Context) (entity.NetworkConfig, error)
}
