package port

import "minting_dapp/internal/domain/entity"

// ContractBinder constructs the client and contract handles on top of a wallet provider.
type ContractBinder interface {
	// NewClient binds a contract-call client to the provider as its transport.
	NewClient(provider WalletProvider) (entity.ClientHandle, error)

	// NewContract binds the descriptor and address to a previously created client.
	NewContract(descriptor entity.ContractDescriptor, address string, client entity.ClientHandle) (entity.ContractHandle, error)
}
