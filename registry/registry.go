// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"sort"

	"github.com/luxfi/geth/common"
)

// ============================================================================
// PRECOMPILE ADDRESS SCHEME
// ============================================================================
//
// DEX/Markets precompiles live on the LP-9xxx page and use trailing-significant
// addresses: the address ends with the LP number.
//
//   LP-9016 → 0x0000000000000000000000000000000000009016 (FeeTakingRouter)

const (
	// FeeRouterAddress is the fee-taking swap router (LP-9016)
	FeeRouterAddress = "0x0000000000000000000000000000000000009016"
)

// PrecompileInfo describes a precompile for tooling
type PrecompileInfo struct {
	Address     string
	Name        string
	Description string
	BaseGas     uint64
	LPRange     string
}

// AllPrecompiles lists every precompile served by this module
var AllPrecompiles = []PrecompileInfo{
	{FeeRouterAddress, "FEE_ROUTER", "Fee-taking swap router over whitelisted DEX routers", 25000, "LP-9016"},
}

// GetPrecompileAddress returns the address for a precompile by name
func GetPrecompileAddress(name string) common.Address {
	for _, p := range AllPrecompiles {
		if p.Name == name {
			return common.HexToAddress(p.Address)
		}
	}
	return common.Address{}
}

// DEXRouter is a well-known third-party DEX router on a network.
type DEXRouter struct {
	Name    string
	Address common.Address
}

// knownRouters are the routers suggested for whitelisting after activation.
var knownRouters = map[string][]DEXRouter{
	"ethereum": {
		{Name: "Uniswap V2", Address: common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")},
		{Name: "Sushiswap", Address: common.HexToAddress("0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F")},
	},
	"sepolia": {
		{Name: "Uniswap V2", Address: common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")},
	},
	"polygon": {
		{Name: "Quickswap", Address: common.HexToAddress("0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff")},
		{Name: "Sushiswap", Address: common.HexToAddress("0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506")},
	},
	"amoy": {
		{Name: "Quickswap", Address: common.HexToAddress("0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff")},
	},
	"bsc": {
		{Name: "PancakeSwap V2", Address: common.HexToAddress("0x10ED43C718714eb63d5aA57B78B54704E256024E")},
	},
	"bscTestnet": {
		{Name: "PancakeSwap V2", Address: common.HexToAddress("0xD99D1c33F9fC3444f8101754aBC46c52416550D1")},
	},
}

// KnownRouters returns the well-known DEX routers for [network]. Unknown
// networks have none.
func KnownRouters(network string) []DEXRouter {
	routers, ok := knownRouters[network]
	if !ok {
		return nil
	}
	result := make([]DEXRouter, len(routers))
	copy(result, routers)
	return result
}

// Networks returns the networks with known routers, sorted.
func Networks() []string {
	networks := make([]string, 0, len(knownRouters))
	for name := range knownRouters {
		networks = append(networks, name)
	}
	sort.Strings(networks)
	return networks
}
