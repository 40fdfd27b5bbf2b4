package entity

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ContractDescriptor is the raw ABI document of the minting contract as served by /config/abi.json.
type ContractDescriptor struct {
	Raw json.RawMessage `json:"-"`
}

// IsEmpty reports whether no ABI document was loaded.
func (d ContractDescriptor) IsEmpty() bool {
	return len(d.Raw) == 0
}

// NetworkConfig holds the dapp configuration the connection flow validates against.
// This structure is loaded once from /config/config.json and never mutated afterwards.
type NetworkConfig struct {
	RequiredNetworkID   int64              `json:"requiredNetworkId"`
	RequiredNetworkName string             `json:"requiredNetworkName"`
	NetworkSymbol       string             `json:"networkSymbol"`
	ContractAddress     string             `json:"contractAddress"`
	ContractABI         ContractDescriptor `json:"-"`

	// Display metadata consumed by the UI layer only.
	NFTName         string `json:"nftName,omitempty"`
	Symbol          string `json:"symbol,omitempty"`
	MaxSupply       int64  `json:"maxSupply,omitempty"`
	WeiCost         string `json:"weiCost,omitempty"`
	DisplayCost     string `json:"displayCost,omitempty"`
	GasLimit        int64  `json:"gasLimit,omitempty"`
	ScanLink        string `json:"scanLink,omitempty"`
	MarketplaceName string `json:"marketplaceName,omitempty"`
	MarketplaceLink string `json:"marketplaceLink,omitempty"`
	ShowBackground  bool   `json:"showBackground"`
}

// MatchesNetwork compares a provider network identifier (net_version result) with the required one.
// Provider identifiers are decimal strings; anything unparsable never matches.
func (c NetworkConfig) MatchesNetwork(networkID string) bool {
	id, err := strconv.ParseInt(strings.TrimSpace(networkID), 10, 64)
	if err != nil {
		return false
	}
	return id == c.RequiredNetworkID
}
