package entity

import jsoniter "github.com/json-iterator/go"

// RemoteConfigDocument is the dapp configuration as served by /config/config.json.
type RemoteConfigDocument struct {
	ContractAddress string          `json:"CONTRACT_ADDRESS"`
	ScanLink        string          `json:"SCAN_LINK"`
	Network         RemoteNetwork   `json:"NETWORK"`
	NFTName         string          `json:"NFT_NAME"`
	Symbol          string          `json:"SYMBOL"`
	MaxSupply       int64           `json:"MAX_SUPPLY"`
	WeiCost         jsoniter.Number `json:"WEI_COST"` // may exceed int64
	DisplayCost     jsoniter.Number `json:"DISPLAY_COST"`
	GasLimit        int64           `json:"GAS_LIMIT"`
	Marketplace     string          `json:"MARKETPLACE"`
	MarketplaceLink string          `json:"MARKETPLACE_LINK"`
	ShowBackground  bool            `json:"SHOW_BACKGROUND"`
}

// RemoteNetwork describes the network the contract is deployed on.
type RemoteNetwork struct {
	Name   string `json:"NAME"`
	Symbol string `json:"SYMBOL"`
	ID     int64  `json:"ID"`
}
