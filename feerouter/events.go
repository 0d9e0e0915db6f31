// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package feerouter

import (
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"

	"github.com/swaplaunch/precompile/contract"
)

// SwapExecutedEvent is the decoded form of a SwapExecuted log.
type SwapExecutedEvent struct {
	User       common.Address
	SellToken  common.Address
	BuyToken   common.Address
	SellAmount *big.Int
	BuyAmount  *big.Int
	Fee        *big.Int
}

func emitEvent(accessibleState contract.AccessibleState, suppliedGas uint64, name string, args ...interface{}) (uint64, error) {
	remainingGas, err := contract.DeductGas(suppliedGas, GasEmitEvent)
	if err != nil {
		return 0, err
	}
	topics, data, err := FeeRouterABI.PackEvent(name, args...)
	if err != nil {
		return remainingGas, err
	}

	log := &types.Log{
		Address: ContractAddress,
		Topics:  topics,
		Data:    data,
	}
	if number := accessibleState.GetBlockContext().Number(); number != nil {
		log.BlockNumber = number.Uint64()
	}
	accessibleState.GetStateDB().AddLog(log)

	return remainingGas, nil
}

// UnpackSwapExecutedEvent decodes a SwapExecuted log emitted by the router.
func UnpackSwapExecutedEvent(log *types.Log) (*SwapExecutedEvent, error) {
	event := FeeRouterABI.Events["SwapExecuted"]
	if len(log.Topics) != 4 || log.Topics[0] != event.ID {
		return nil, fmt.Errorf("%w: not a SwapExecuted log", ErrInvalidInput)
	}
	values, err := FeeRouterABI.UnpackEvent("SwapExecuted", log.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("%w: expected 3 data fields, got %d", ErrInvalidInput, len(values))
	}

	out := &SwapExecutedEvent{
		User:      common.BytesToAddress(log.Topics[1].Bytes()),
		SellToken: common.BytesToAddress(log.Topics[2].Bytes()),
		BuyToken:  common.BytesToAddress(log.Topics[3].Bytes()),
	}
	var ok bool
	if out.SellAmount, ok = values[0].(*big.Int); !ok {
		return nil, ErrInvalidInput
	}
	if out.BuyAmount, ok = values[1].(*big.Int); !ok {
		return nil, ErrInvalidInput
	}
	if out.Fee, ok = values[2].(*big.Int); !ok {
		return nil, ErrInvalidInput
	}
	return out, nil
}
