// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package feerouter

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/swaplaunch/precompile/contract"
	"github.com/swaplaunch/precompile/erc20"
)

// SwapRequest holds the arguments of swapViaRouter.
type SwapRequest struct {
	Router               common.Address
	SellToken            common.Address
	BuyToken             common.Address
	SellAmount           *big.Int
	SwapCallData         []byte
	MinBuyAmountAfterFee *big.Int
}

// SwapResult is the outcome of a settled swap.
type SwapResult struct {
	Received *uint256.Int // buy tokens the router delivered
	Fee      *uint256.Int
	Net      *uint256.Int
}

func unpackSwapRequest(args []interface{}) (*SwapRequest, error) {
	if len(args) != 6 {
		return nil, ErrInvalidInput
	}
	req := new(SwapRequest)
	var ok bool
	if req.Router, ok = args[0].(common.Address); !ok {
		return nil, ErrInvalidInput
	}
	if req.SellToken, ok = args[1].(common.Address); !ok {
		return nil, ErrInvalidInput
	}
	if req.BuyToken, ok = args[2].(common.Address); !ok {
		return nil, ErrInvalidInput
	}
	if req.SellAmount, ok = args[3].(*big.Int); !ok {
		return nil, ErrInvalidInput
	}
	if req.SwapCallData, ok = args[4].([]byte); !ok {
		return nil, ErrInvalidInput
	}
	if req.MinBuyAmountAfterFee, ok = args[5].(*big.Int); !ok {
		return nil, ErrInvalidInput
	}
	return req, nil
}

func (r *feeRouter) swapViaRouter(
	accessibleState contract.AccessibleState,
	caller common.Address,
	args []interface{},
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, contract.ErrWriteProtection
	}
	remainingGas, err := contract.DeductGas(suppliedGas, GasSwapBase)
	if err != nil {
		return nil, 0, err
	}

	req, err := unpackSwapRequest(args)
	if err != nil {
		return nil, remainingGas, err
	}

	// Reentrancy guard
	stateDB := accessibleState.GetStateDB()
	if isLocked(stateDB) {
		return nil, remainingGas, ErrReentrantCall
	}
	setLocked(stateDB, true)
	defer setLocked(stateDB, false)

	result, remainingGas, err := settleSwap(accessibleState, caller, req, remainingGas)
	if err != nil {
		logger.Debug("swap reverted",
			"user", caller,
			"router", req.Router,
			"sellToken", req.SellToken,
			"buyToken", req.BuyToken,
			"err", err,
		)
		return nil, remainingGas, err
	}

	remainingGas, err = emitEvent(accessibleState, remainingGas, "SwapExecuted",
		caller,
		req.SellToken,
		req.BuyToken,
		req.SellAmount,
		result.Received.ToBig(),
		result.Fee.ToBig(),
	)
	if err != nil {
		return nil, remainingGas, err
	}

	logger.Debug("swap executed",
		"user", caller,
		"router", req.Router,
		"sellAmount", req.SellAmount,
		"received", result.Received,
		"fee", result.Fee,
	)

	ret, err := FeeRouterABI.PackOutput("swapViaRouter", result.Net.ToBig())
	if err != nil {
		return nil, remainingGas, err
	}
	return ret, remainingGas, nil
}

// settleSwap pulls the sell tokens from [caller], delegates the swap to the
// router and pays out the measured output minus the fee. Any error leaves the
// caller's environment to revert everything done so far.
func settleSwap(
	accessibleState contract.AccessibleState,
	caller common.Address,
	req *SwapRequest,
	gas uint64,
) (*SwapResult, uint64, error) {
	stateDB := accessibleState.GetStateDB()

	if !IsRouterAllowed(stateDB, req.Router) {
		return nil, gas, ErrRouterNotAllowed
	}
	sellAmount, overflow := uint256.FromBig(req.SellAmount)
	if overflow || sellAmount.IsZero() {
		return nil, gas, ErrInvalidAmount
	}
	if req.SellToken == req.BuyToken || req.SellToken == (common.Address{}) || req.BuyToken == (common.Address{}) {
		return nil, gas, ErrInvalidToken
	}
	minNet, overflow := uint256.FromBig(req.MinBuyAmountAfterFee)
	if overflow {
		return nil, gas, ErrInvalidInput
	}

	sell := erc20.New(accessibleState, ContractAddress, req.SellToken)
	buy := erc20.New(accessibleState, ContractAddress, req.BuyToken)

	// Pull the sell tokens into custody
	sellBefore, gas, err := sell.BalanceOf(ContractAddress, gas)
	if err != nil {
		return nil, gas, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	gas, err = sell.SafeTransferFrom(caller, ContractAddress, sellAmount, gas)
	if err != nil {
		return nil, gas, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	// Delegate the swap
	buyBefore, gas, err := buy.BalanceOf(ContractAddress, gas)
	if err != nil {
		return nil, gas, fmt.Errorf("%w: %w", ErrSwapExecutionFailed, err)
	}
	gas, err = sell.Approve(req.Router, sellAmount, gas)
	if err != nil {
		return nil, gas, fmt.Errorf("%w: %w", ErrSwapExecutionFailed, err)
	}
	ret, gas, err := accessibleState.Call(ContractAddress, req.Router, req.SwapCallData, gas, new(uint256.Int))
	if err != nil {
		return nil, gas, fmt.Errorf("%w: %w", ErrSwapExecutionFailed, err)
	}
	if len(ret) == 0 {
		return nil, gas, fmt.Errorf("%w: router returned no data", ErrSwapExecutionFailed)
	}
	gas, err = sell.Approve(req.Router, new(uint256.Int), gas)
	if err != nil {
		return nil, gas, fmt.Errorf("%w: %w", ErrSwapExecutionFailed, err)
	}

	// Measure what actually arrived; the router's return value is not trusted
	buyAfter, gas, err := buy.BalanceOf(ContractAddress, gas)
	if err != nil {
		return nil, gas, fmt.Errorf("%w: %w", ErrSwapExecutionFailed, err)
	}
	if buyAfter.Lt(buyBefore) {
		return nil, gas, fmt.Errorf("%w: buy balance decreased", ErrSwapExecutionFailed)
	}
	received := new(uint256.Int).Sub(buyAfter, buyBefore)

	fee, net := CalculateFee(received, GetFeeBps(stateDB))
	if net.Lt(minNet) {
		return nil, gas, fmt.Errorf("%w: got %s, want at least %s", ErrSlippageExceeded, net, minNet)
	}

	// Pay out
	if !fee.IsZero() {
		gas, err = buy.SafeTransfer(GetFeeRecipient(stateDB), fee, gas)
		if err != nil {
			return nil, gas, fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
	}
	if !net.IsZero() {
		gas, err = buy.SafeTransfer(caller, net, gas)
		if err != nil {
			return nil, gas, fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
	}

	// Sell tokens the router left unspent go back to the trader
	sellAfter, gas, err := sell.BalanceOf(ContractAddress, gas)
	if err != nil {
		return nil, gas, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if sellAfter.Gt(sellBefore) {
		refund := new(uint256.Int).Sub(sellAfter, sellBefore)
		gas, err = sell.SafeTransfer(caller, refund, gas)
		if err != nil {
			return nil, gas, fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
	}

	return &SwapResult{Received: received, Fee: fee, Net: net}, gas, nil
}
