// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package feerouter implements the FeeTakingRouter precompile. Swaps are
// delegated to owner-whitelisted DEX routers and a basis-point fee is skimmed
// from the measured output before the rest is paid to the trader.
package feerouter

import (
	_ "embed"
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/swaplaunch/precompile/contract"
	"github.com/swaplaunch/precompile/registry"
)

var _ contract.StatefulPrecompiledContract = (*feeRouter)(nil)

// ContractAddress is where the FeeTakingRouter lives.
var ContractAddress = common.HexToAddress(registry.FeeRouterAddress)

// RawABI is the Solidity ABI of the FeeTakingRouter.
//
//go:embed contract.abi
var RawABI string

// FeeRouterABI is the parsed ABI of the FeeTakingRouter.
var FeeRouterABI = contract.ParseABI(RawABI)

// Fee bounds, in basis points
const (
	DefaultFeeBps uint64 = 20  // 0.2%
	MaxFeeBps     uint64 = 100 // 1%
	BasisPoints   uint64 = 10000
)

// Gas costs
const (
	GasStateRead  uint64 = 200
	GasStateWrite uint64 = 5000
	GasEmitEvent  uint64 = 1500
	GasQuoteFee   uint64 = 300
	GasSwapBase   uint64 = 25000 // excludes the nested token and router calls
)

// Errors
var (
	ErrNotOwner            = errors.New("caller is not the owner")
	ErrInvalidFeeRecipient = errors.New("invalid fee recipient")
	ErrInvalidRecipient    = errors.New("invalid recipient")
	ErrInvalidOwner        = errors.New("invalid owner")
	ErrInvalidRouter       = errors.New("invalid router")
	ErrInvalidToken        = errors.New("invalid token pair")
	ErrFeeTooHigh          = errors.New("fee too high")
	ErrRouterNotAllowed    = errors.New("router not allowed")
	ErrInvalidAmount       = errors.New("invalid sell amount")
	ErrTransferFailed      = errors.New("token transfer failed")
	ErrSwapExecutionFailed = errors.New("swap execution failed")
	ErrSlippageExceeded    = errors.New("slippage exceeded")
	ErrInvalidInput        = errors.New("invalid input")
	ErrReentrantCall       = errors.New("reentrant swap")
)

// FeeRouterPrecompile is the singleton instance
var FeeRouterPrecompile = &feeRouter{}

type feeRouter struct{}

// Run dispatches [input] to the method addressed by its selector.
func (r *feeRouter) Run(
	accessibleState contract.AccessibleState,
	caller common.Address,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	method, data, err := FeeRouterABI.MethodBySelector(input)
	if err != nil {
		return nil, suppliedGas, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	args, err := FeeRouterABI.UnpackInput(method.Name, data, false)
	if err != nil {
		return nil, suppliedGas, fmt.Errorf("%w: %s: %v", ErrInvalidInput, method.Name, err)
	}

	stateDB := accessibleState.GetStateDB()

	switch method.Name {
	// Owner functions
	case "updateFee":
		return r.updateFee(accessibleState, caller, args, suppliedGas, readOnly)
	case "updateFeeRecipient":
		return r.updateFeeRecipient(accessibleState, caller, args, suppliedGas, readOnly)
	case "setRouterAllowed":
		return r.setRouterAllowed(accessibleState, caller, args, suppliedGas, readOnly)
	case "transferOwnership":
		return r.transferOwnership(accessibleState, caller, args, suppliedGas, readOnly)

	case "swapViaRouter":
		return r.swapViaRouter(accessibleState, caller, args, suppliedGas, readOnly)

	// View functions
	case "owner":
		return r.readAddress(method.Name, GetOwner(stateDB), suppliedGas)
	case "feeRecipient":
		return r.readAddress(method.Name, GetFeeRecipient(stateDB), suppliedGas)
	case "feeBps":
		return r.readOutput(method.Name, suppliedGas, GasStateRead, new(big.Int).SetUint64(GetFeeBps(stateDB)))
	case "allowedRouters":
		router, ok := args[0].(common.Address)
		if !ok {
			return nil, suppliedGas, ErrInvalidInput
		}
		return r.readOutput(method.Name, suppliedGas, GasStateRead, IsRouterAllowed(stateDB, router))
	case "quoteFee":
		return r.quoteFee(stateDB, args, suppliedGas)

	default:
		return nil, suppliedGas, fmt.Errorf("%w: unsupported method %s", ErrInvalidInput, method.Name)
	}
}

// Owner functions

func (r *feeRouter) updateFee(
	accessibleState contract.AccessibleState,
	caller common.Address,
	args []interface{},
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	stateDB := accessibleState.GetStateDB()
	remainingGas, err := r.onlyOwner(stateDB, caller, suppliedGas, readOnly)
	if err != nil {
		return nil, remainingGas, err
	}

	newFee, ok := args[0].(*big.Int)
	if !ok {
		return nil, remainingGas, ErrInvalidInput
	}
	if !newFee.IsUint64() || newFee.Uint64() > MaxFeeBps {
		return nil, remainingGas, ErrFeeTooHigh
	}

	oldFee := GetFeeBps(stateDB)
	setFeeBps(stateDB, newFee.Uint64())

	remainingGas, err = emitEvent(accessibleState, remainingGas, "FeeUpdated", new(big.Int).SetUint64(oldFee), newFee)
	if err != nil {
		return nil, remainingGas, err
	}
	logger.Debug("fee updated", "old", oldFee, "new", newFee.Uint64())
	return nil, remainingGas, nil
}

func (r *feeRouter) updateFeeRecipient(
	accessibleState contract.AccessibleState,
	caller common.Address,
	args []interface{},
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	stateDB := accessibleState.GetStateDB()
	remainingGas, err := r.onlyOwner(stateDB, caller, suppliedGas, readOnly)
	if err != nil {
		return nil, remainingGas, err
	}

	newRecipient, ok := args[0].(common.Address)
	if !ok {
		return nil, remainingGas, ErrInvalidInput
	}
	if newRecipient == (common.Address{}) {
		return nil, remainingGas, ErrInvalidRecipient
	}

	oldRecipient := GetFeeRecipient(stateDB)
	setFeeRecipient(stateDB, newRecipient)

	remainingGas, err = emitEvent(accessibleState, remainingGas, "FeeRecipientUpdated", oldRecipient, newRecipient)
	if err != nil {
		return nil, remainingGas, err
	}
	logger.Debug("fee recipient updated", "old", oldRecipient, "new", newRecipient)
	return nil, remainingGas, nil
}

func (r *feeRouter) setRouterAllowed(
	accessibleState contract.AccessibleState,
	caller common.Address,
	args []interface{},
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	stateDB := accessibleState.GetStateDB()
	remainingGas, err := r.onlyOwner(stateDB, caller, suppliedGas, readOnly)
	if err != nil {
		return nil, remainingGas, err
	}

	router, ok := args[0].(common.Address)
	if !ok {
		return nil, remainingGas, ErrInvalidInput
	}
	allowed, ok := args[1].(bool)
	if !ok {
		return nil, remainingGas, ErrInvalidInput
	}
	if router == (common.Address{}) {
		return nil, remainingGas, ErrInvalidRouter
	}

	setRouterAllowed(stateDB, router, allowed)

	remainingGas, err = emitEvent(accessibleState, remainingGas, "RouterWhitelisted", router, allowed)
	if err != nil {
		return nil, remainingGas, err
	}
	logger.Debug("router whitelist updated", "router", router, "allowed", allowed)
	return nil, remainingGas, nil
}

func (r *feeRouter) transferOwnership(
	accessibleState contract.AccessibleState,
	caller common.Address,
	args []interface{},
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	stateDB := accessibleState.GetStateDB()
	remainingGas, err := r.onlyOwner(stateDB, caller, suppliedGas, readOnly)
	if err != nil {
		return nil, remainingGas, err
	}

	newOwner, ok := args[0].(common.Address)
	if !ok {
		return nil, remainingGas, ErrInvalidInput
	}
	if newOwner == (common.Address{}) {
		return nil, remainingGas, ErrInvalidOwner
	}

	setOwner(stateDB, newOwner)

	remainingGas, err = emitEvent(accessibleState, remainingGas, "OwnershipTransferred", caller, newOwner)
	if err != nil {
		return nil, remainingGas, err
	}
	logger.Debug("ownership transferred", "previous", caller, "new", newOwner)
	return nil, remainingGas, nil
}

// onlyOwner charges a state write and rejects static calls and callers other
// than the owner.
func (r *feeRouter) onlyOwner(
	stateDB contract.StateDB,
	caller common.Address,
	suppliedGas uint64,
	readOnly bool,
) (uint64, error) {
	if readOnly {
		return suppliedGas, contract.ErrWriteProtection
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasStateWrite)
	if err != nil {
		return 0, err
	}
	if GetOwner(stateDB) != caller {
		return remainingGas, ErrNotOwner
	}
	return remainingGas, nil
}

// View functions

func (r *feeRouter) readAddress(method string, addr common.Address, suppliedGas uint64) ([]byte, uint64, error) {
	return r.readOutput(method, suppliedGas, GasStateRead, addr)
}

func (r *feeRouter) readOutput(method string, suppliedGas uint64, cost uint64, values ...interface{}) ([]byte, uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, cost)
	if err != nil {
		return nil, 0, err
	}
	ret, err := FeeRouterABI.PackOutput(method, values...)
	if err != nil {
		return nil, remainingGas, err
	}
	return ret, remainingGas, nil
}

func (r *feeRouter) quoteFee(stateDB contract.StateDB, args []interface{}, suppliedGas uint64) ([]byte, uint64, error) {
	amount, ok := args[0].(*big.Int)
	if !ok {
		return nil, suppliedGas, ErrInvalidInput
	}
	fee, net := CalculateFeeBig(amount, GetFeeBps(stateDB))
	return r.readOutput("quoteFee", suppliedGas, GasStateRead+GasQuoteFee, fee, net)
}
