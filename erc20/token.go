// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package erc20

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/swaplaunch/precompile/contract"
)

var (
	ErrTransferFailed = errors.New("erc20: transfer failed")
	ErrApproveFailed  = errors.New("erc20: approve failed")
	ErrBalanceQuery   = errors.New("erc20: balance query failed")
	ErrNoCode         = errors.New("erc20: token has no code")
	ErrBadReturnData  = errors.New("erc20: malformed return data")
)

// Token issues ERC-20 calls to [Address] on behalf of [self].
type Token struct {
	state   contract.AccessibleState
	self    common.Address
	Address common.Address
}

// New binds the token at [token] to a precompile executing at [self].
func New(state contract.AccessibleState, self common.Address, token common.Address) *Token {
	return &Token{state: state, self: self, Address: token}
}

// BalanceOf returns the token balance of [account].
func (t *Token) BalanceOf(account common.Address, gas uint64) (*uint256.Int, uint64, error) {
	input, err := PackBalanceOf(account)
	if err != nil {
		return nil, gas, err
	}
	ret, gas, err := t.call(input, gas)
	if err != nil {
		return nil, gas, fmt.Errorf("%w: %w", ErrBalanceQuery, err)
	}
	amount, err := UnpackAmount("balanceOf", ret)
	if err != nil {
		return nil, gas, fmt.Errorf("%w: %w", ErrBalanceQuery, err)
	}
	balance, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, gas, ErrBadReturnData
	}
	return balance, gas, nil
}

// SafeTransfer moves [amount] from [self] to [to].
func (t *Token) SafeTransfer(to common.Address, amount *uint256.Int, gas uint64) (uint64, error) {
	input, err := PackTransfer(to, amount.ToBig())
	if err != nil {
		return gas, err
	}
	return t.callOptionalReturn("transfer", input, gas, ErrTransferFailed)
}

// SafeTransferFrom moves [amount] from [from] to [to] using the allowance
// [from] granted to [self].
func (t *Token) SafeTransferFrom(from, to common.Address, amount *uint256.Int, gas uint64) (uint64, error) {
	input, err := PackTransferFrom(from, to, amount.ToBig())
	if err != nil {
		return gas, err
	}
	return t.callOptionalReturn("transferFrom", input, gas, ErrTransferFailed)
}

// Approve sets the allowance of [spender] over the tokens held by [self].
func (t *Token) Approve(spender common.Address, amount *uint256.Int, gas uint64) (uint64, error) {
	input, err := PackApprove(spender, amount.ToBig())
	if err != nil {
		return gas, err
	}
	return t.callOptionalReturn("approve", input, gas, ErrApproveFailed)
}

func (t *Token) call(input []byte, gas uint64) ([]byte, uint64, error) {
	return t.state.Call(t.self, t.Address, input, gas, new(uint256.Int))
}

// callOptionalReturn treats a missing return value as success, so tokens that
// predate EIP-20's bool return still work. A call to an account without code
// also returns nothing and is rejected.
func (t *Token) callOptionalReturn(method string, input []byte, gas uint64, failure error) (uint64, error) {
	ret, gas, err := t.call(input, gas)
	if err != nil {
		return gas, fmt.Errorf("%w: %w", failure, err)
	}
	if len(ret) == 0 {
		if len(t.state.GetStateDB().GetCode(t.Address)) == 0 {
			return gas, fmt.Errorf("%w: %s", ErrNoCode, t.Address.Hex())
		}
		return gas, nil
	}
	out, err := ABI.Unpack(method, ret)
	if err != nil {
		return gas, fmt.Errorf("%w: %w", failure, err)
	}
	if ok, _ := out[0].(bool); !ok {
		return gas, failure
	}
	return gas, nil
}
