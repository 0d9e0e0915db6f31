// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package erc20 encodes ERC-20 (EIP-20) calls and performs safe token
// transfers from inside a precompile.
//
// Function selectors:
//
//	balanceOf(address)  → 0x70a08231
//	allowance(a,a)      → 0xdd62ed3e
//	transfer(a,u256)    → 0xa9059cbb
//	approve(a,u256)     → 0x095ea7b3
//	transferFrom(a,a,u) → 0x23b872dd
package erc20

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/swaplaunch/precompile/contract"
)

const rawABI = `[
	{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":false,"name":"value","type":"uint256"}]},
	{"type":"event","name":"Approval","anonymous":false,"inputs":[{"indexed":true,"name":"owner","type":"address"},{"indexed":true,"name":"spender","type":"address"},{"indexed":false,"name":"value","type":"uint256"}]}
]`

// ABI is the parsed ERC-20 interface.
var ABI = contract.ParseABI(rawABI)

func PackBalanceOf(account common.Address) ([]byte, error) {
	return ABI.Pack("balanceOf", account)
}

func PackAllowance(owner, spender common.Address) ([]byte, error) {
	return ABI.Pack("allowance", owner, spender)
}

func PackTransfer(to common.Address, value *big.Int) ([]byte, error) {
	return ABI.Pack("transfer", to, value)
}

func PackApprove(spender common.Address, value *big.Int) ([]byte, error) {
	return ABI.Pack("approve", spender, value)
}

func PackTransferFrom(from, to common.Address, value *big.Int) ([]byte, error) {
	return ABI.Pack("transferFrom", from, to, value)
}

// UnpackAmount decodes a single uint256 return value (balanceOf, allowance, totalSupply).
func UnpackAmount(method string, ret []byte) (*big.Int, error) {
	out, err := ABI.Unpack(method, ret)
	if err != nil {
		return nil, err
	}
	amount, ok := out[0].(*big.Int)
	if !ok {
		return nil, ErrBadReturnData
	}
	return amount, nil
}
