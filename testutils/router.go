// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/swaplaunch/precompile/contract"
	"github.com/swaplaunch/precompile/erc20"
)

// GasRouterSwap is charged by the simulated router on top of the token calls it makes.
const GasRouterSwap uint64 = 40_000

// RouterMode selects how a simulated router behaves.
type RouterMode int

const (
	// RouterHonest delivers the quoted output and reports it.
	RouterHonest RouterMode = iota
	// RouterRevert fails every swap.
	RouterRevert
	// RouterSilent swaps but returns no data.
	RouterSilent
	// RouterMisreport delivers less than it reports.
	RouterMisreport
)

var (
	ErrRouterReverted  = errors.New("router: execution reverted")
	ErrInvalidPath     = errors.New("router: invalid path")
	ErrExpired         = errors.New("router: expired")
	ErrInsufficientOut = errors.New("router: insufficient output amount")
)

const routerABIJSON = `[
	{"type":"function","name":"swapExactTokensForTokens","stateMutability":"nonpayable",
	 "inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],
	 "outputs":[{"name":"amounts","type":"uint256[]"}]}
]`

// RouterABI is the Uniswap V2 style swap entry point served by Router.
var RouterABI = contract.ParseABI(routerABIJSON)

// PackSwap builds swapExactTokensForTokens calldata, the payload an off-chain
// quote API hands to the caller.
func PackSwap(amountIn, amountOutMin *big.Int, tokenIn, tokenOut, to common.Address, deadline uint64) []byte {
	input, err := RouterABI.Pack("swapExactTokensForTokens", amountIn, amountOutMin, []common.Address{tokenIn, tokenOut}, to, new(big.Int).SetUint64(deadline))
	if err != nil {
		panic(err)
	}
	return input
}

// Router is a simulated DEX router that swaps at a fixed rate out of its own
// reserves: amountOut = amountIn * RateNum / RateDen.
type Router struct {
	RateNum uint64
	RateDen uint64
	Mode    RouterMode
	// Shortfall is withheld from the delivered output in RouterMisreport mode.
	Shortfall uint64
	// ReenterInput, when set, is sent to ReenterTarget before the swap runs,
	// modelling a router that calls back into its caller.
	ReenterTarget common.Address
	ReenterInput  []byte
}

func (r *Router) quote(amountIn *uint256.Int) *uint256.Int {
	out := new(uint256.Int).Mul(amountIn, uint256.NewInt(r.RateNum))
	return out.Div(out, uint256.NewInt(r.RateDen))
}

func (r *Router) Run(env *Env, caller common.Address, self common.Address, input []byte, gas uint64, readOnly bool) ([]byte, uint64, error) {
	remaining, err := contract.DeductGas(gas, GasRouterSwap)
	if err != nil {
		return nil, 0, err
	}
	if readOnly {
		return nil, remaining, contract.ErrWriteProtection
	}
	if r.Mode == RouterRevert {
		return nil, remaining, ErrRouterReverted
	}

	method, data, err := RouterABI.MethodBySelector(input)
	if err != nil {
		return nil, remaining, err
	}
	args, err := method.Inputs.Unpack(data)
	if err != nil {
		return nil, remaining, err
	}
	amountIn := uint256.MustFromBig(args[0].(*big.Int))
	amountOutMin := uint256.MustFromBig(args[1].(*big.Int))
	path := args[2].([]common.Address)
	to := args[3].(common.Address)
	deadline := args[4].(*big.Int)

	if len(path) != 2 {
		return nil, remaining, ErrInvalidPath
	}
	if deadline.Uint64() < env.Block.Time {
		return nil, remaining, ErrExpired
	}

	if len(r.ReenterInput) > 0 {
		if _, remaining, err = env.Call(self, r.ReenterTarget, r.ReenterInput, remaining, nil); err != nil {
			return nil, remaining, fmt.Errorf("router: reenter: %w", err)
		}
	}

	amountOut := r.quote(amountIn)
	if amountOut.Lt(amountOutMin) {
		return nil, remaining, ErrInsufficientOut
	}

	tokenIn := erc20.New(env, self, path[0])
	if remaining, err = tokenIn.SafeTransferFrom(caller, self, amountIn, remaining); err != nil {
		return nil, remaining, fmt.Errorf("router: pull input: %w", err)
	}

	delivered := amountOut
	if r.Mode == RouterMisreport {
		delivered = new(uint256.Int).Sub(amountOut, uint256.NewInt(r.Shortfall))
	}
	tokenOut := erc20.New(env, self, path[1])
	if remaining, err = tokenOut.SafeTransfer(to, delivered, remaining); err != nil {
		return nil, remaining, fmt.Errorf("router: send output: %w", err)
	}

	if r.Mode == RouterSilent {
		return nil, remaining, nil
	}
	ret, err := method.Outputs.Pack([]*big.Int{amountIn.ToBig(), amountOut.ToBig()})
	return ret, remaining, err
}
