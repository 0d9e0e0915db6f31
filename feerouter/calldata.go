// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package feerouter

import (
	"math/big"

	"github.com/luxfi/geth/common"
)

// Calldata builders for every router method, selector included.

func PackUpdateFee(newFeeBps uint64) ([]byte, error) {
	return FeeRouterABI.Pack("updateFee", new(big.Int).SetUint64(newFeeBps))
}

func PackUpdateFeeRecipient(newRecipient common.Address) ([]byte, error) {
	return FeeRouterABI.Pack("updateFeeRecipient", newRecipient)
}

func PackSetRouterAllowed(router common.Address, allowed bool) ([]byte, error) {
	return FeeRouterABI.Pack("setRouterAllowed", router, allowed)
}

func PackTransferOwnership(newOwner common.Address) ([]byte, error) {
	return FeeRouterABI.Pack("transferOwnership", newOwner)
}

// PackSwapViaRouter encodes [req]; nil amounts encode as zero.
func PackSwapViaRouter(req SwapRequest) ([]byte, error) {
	return FeeRouterABI.Pack("swapViaRouter",
		req.Router,
		req.SellToken,
		req.BuyToken,
		orZero(req.SellAmount),
		req.SwapCallData,
		orZero(req.MinBuyAmountAfterFee),
	)
}

func PackOwner() ([]byte, error) {
	return FeeRouterABI.Pack("owner")
}

func PackFeeRecipient() ([]byte, error) {
	return FeeRouterABI.Pack("feeRecipient")
}

func PackFeeBps() ([]byte, error) {
	return FeeRouterABI.Pack("feeBps")
}

func PackAllowedRouters(router common.Address) ([]byte, error) {
	return FeeRouterABI.Pack("allowedRouters", router)
}

func PackQuoteFee(amount *big.Int) ([]byte, error) {
	return FeeRouterABI.Pack("quoteFee", orZero(amount))
}

// UnpackSwapViaRouterOutput decodes the net amount returned by swapViaRouter.
func UnpackSwapViaRouterOutput(ret []byte) (*big.Int, error) {
	out, err := FeeRouterABI.Unpack("swapViaRouter", ret)
	if err != nil {
		return nil, err
	}
	net, ok := out[0].(*big.Int)
	if !ok {
		return nil, ErrInvalidInput
	}
	return net, nil
}

// UnpackQuoteFeeOutput decodes the fee and net amount returned by quoteFee.
func UnpackQuoteFeeOutput(ret []byte) (fee *big.Int, net *big.Int, err error) {
	out, err := FeeRouterABI.Unpack("quoteFee", ret)
	if err != nil {
		return nil, nil, err
	}
	fee, ok := out[0].(*big.Int)
	if !ok {
		return nil, nil, ErrInvalidInput
	}
	net, ok = out[1].(*big.Int)
	if !ok {
		return nil, nil, ErrInvalidInput
	}
	return fee, net, nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
