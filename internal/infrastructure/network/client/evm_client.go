package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"minting_dapp/internal/app/port"
	"minting_dapp/internal/domain/entity"
)

const totalSupplyMethod = "totalSupply"

// ErrClientClosed is returned by calls made through a released client.
var ErrClientClosed = errors.New("contract client closed")

// ContractBinder implements port.ContractBinder with go-ethereum bound contracts
// that use the wallet provider as their transport.
type ContractBinder struct{}

// NewContractBinder creates a new ContractBinder.
func NewContractBinder() *ContractBinder {
	return &ContractBinder{}
}

// NewClient wraps the provider in a contract caller.
func (b *ContractBinder) NewClient(provider port.WalletProvider) (entity.ClientHandle, error) {
	if provider == nil {
		return nil, errors.New("nil wallet provider")
	}
	return &providerCaller{provider: provider}, nil
}

// NewContract parses the ABI document and binds it to address on the given client.
func (b *ContractBinder) NewContract(descriptor entity.ContractDescriptor, address string, client entity.ClientHandle) (entity.ContractHandle, error) {
	caller, ok := client.(*providerCaller)
	if !ok {
		return nil, fmt.Errorf("unsupported client handle %T", client)
	}
	if descriptor.IsEmpty() {
		return nil, errors.New("empty contract ABI")
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid contract address %q", address)
	}

	parsed, err := abi.JSON(bytes.NewReader(descriptor.Raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}
	if _, ok := parsed.Methods[totalSupplyMethod]; !ok {
		return nil, fmt.Errorf("contract ABI has no %s method", totalSupplyMethod)
	}

	addr := common.HexToAddress(address)
	return &NFTContract{
		address: addr,
		bound:   bind.NewBoundContract(addr, parsed, caller, nil, nil),
	}, nil
}

// NFTContract is the read-only handle to the minting contract.
type NFTContract struct {
	address common.Address
	bound   *bind.BoundContract
}

func (c *NFTContract) Address() string {
	return c.address.Hex()
}

// TotalSupply calls totalSupply() at the latest block.
func (c *NFTContract) TotalSupply(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, totalSupplyMethod); err != nil {
		return nil, fmt.Errorf("%s call on %s failed: %w", totalSupplyMethod, c.address.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", totalSupplyMethod)
	}
	supply, ok := abi.ConvertType(out[0], new(big.Int)).(*big.Int)
	if !ok || supply == nil {
		return nil, fmt.Errorf("%s returned unexpected type %T", totalSupplyMethod, out[0])
	}
	return supply, nil
}

// providerCaller implements bind.ContractCaller over port.WalletProvider requests.
type providerCaller struct {
	provider port.WalletProvider
	closed   atomic.Bool
}

func (c *providerCaller) Close() {
	c.closed.Store(true)
}

func (c *providerCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	var code hexutil.Bytes
	if err := c.provider.Request(ctx, &code, "eth_getCode", contract, toBlockNumArg(blockNumber)); err != nil {
		return nil, err
	}
	return code, nil
}

func (c *providerCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	var out hexutil.Bytes
	if err := c.provider.Request(ctx, &out, "eth_call", toCallArg(call), toBlockNumArg(blockNumber)); err != nil {
		return nil, err
	}
	return out, nil
}

func toCallArg(msg ethereum.CallMsg) map[string]interface{} {
	arg := map[string]interface{}{
		"data": hexutil.Bytes(msg.Data),
	}
	if msg.To != nil {
		arg["to"] = msg.To
	}
	if msg.From != (common.Address{}) {
		arg["from"] = msg.From
	}
	return arg
}

func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	return hexutil.EncodeBig(number)
}
