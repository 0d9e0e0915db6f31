// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package feerouter

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/swaplaunch/precompile/testutils"
)

var (
	ownerAddr     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	recipientAddr = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	userAddr      = common.HexToAddress("0x00000000000000000000000000000000000000c3")
	strangerAddr  = common.HexToAddress("0x00000000000000000000000000000000000000d4")

	tokenA     = common.HexToAddress("0x000000000000000000000000000000000000aaaa")
	tokenB     = common.HexToAddress("0x000000000000000000000000000000000000bbbb")
	routerAddr = common.HexToAddress("0x0000000000000000000000000000000000007777")
	rogueAddr  = common.HexToAddress("0x0000000000000000000000000000000000006666")
)

const (
	testGas        uint64 = 2_000_000
	userBalance    uint64 = 10_000
	routerReserves uint64 = 1_000_000
)

func init() {
	SetLogger(log.NewTestLogger(log.InfoLevel))
}

type fixture struct {
	t      *testing.T
	env    *testutils.Env
	router *testutils.Router
}

// newFixture activates the router with [feeBps] and whitelists a router that
// pays one B for every two A.
func newFixture(t *testing.T, feeBps uint64) *fixture {
	t.Helper()

	env := testutils.NewEnv()
	env.DeployPrecompile(ContractAddress, FeeRouterPrecompile)

	cfg := NewConfig(nil, ownerAddr, recipientAddr)
	cfg.FeeBps = &feeBps
	cfg.AllowedRouters = []common.Address{routerAddr}
	require.NoError(t, Module.Configure(nil, cfg, env.State, env.Block))

	env.DeployToken(tokenA, &testutils.Token{})
	env.DeployToken(tokenB, &testutils.Token{})

	router := &testutils.Router{RateNum: 1, RateDen: 2}
	env.Deploy(routerAddr, router)
	env.Deploy(rogueAddr, &testutils.Router{RateNum: 1, RateDen: 2})

	env.Mint(tokenB, routerAddr, uint256.NewInt(routerReserves))
	env.Mint(tokenB, rogueAddr, uint256.NewInt(routerReserves))
	env.Mint(tokenA, userAddr, uint256.NewInt(userBalance))
	env.SetAllowance(tokenA, userAddr, ContractAddress, uint256.NewInt(userBalance))

	return &fixture{t: t, env: env, router: router}
}

func (f *fixture) execute(caller common.Address, input []byte) ([]byte, error) {
	ret, _, err := f.env.Execute(caller, ContractAddress, input, testGas)
	return ret, err
}

// mustPack fails the test when building calldata fails.
func (f *fixture) mustPack(input []byte, err error) []byte {
	f.t.Helper()
	require.NoError(f.t, err)
	return input
}

// swapCallData is what a quote API would hand out for selling [amountIn] A
// through [router] with the output sent back to the fee router.
func (f *fixture) swapCallData(amountIn uint64) []byte {
	return testutils.PackSwap(
		new(big.Int).SetUint64(amountIn),
		new(big.Int),
		tokenA,
		tokenB,
		ContractAddress,
		f.env.Block.Time+60,
	)
}

func (f *fixture) swap(router common.Address, sellAmount, minNet uint64, callData []byte) ([]byte, error) {
	return f.execute(userAddr, f.mustPack(PackSwapViaRouter(SwapRequest{
		Router:               router,
		SellToken:            tokenA,
		BuyToken:             tokenB,
		SellAmount:           new(big.Int).SetUint64(sellAmount),
		SwapCallData:         callData,
		MinBuyAmountAfterFee: new(big.Int).SetUint64(minNet),
	})))
}

func (f *fixture) balance(token, account common.Address) uint64 {
	return f.env.TokenBalance(token, account).Uint64()
}

// routerState captures every owner-controlled value.
type routerState struct {
	owner        common.Address
	feeRecipient common.Address
	feeBps       uint64
	routers      map[common.Address]bool
	locked       bool
}

func (f *fixture) snapshot() routerState {
	return routerState{
		owner:        GetOwner(f.env.State),
		feeRecipient: GetFeeRecipient(f.env.State),
		feeBps:       GetFeeBps(f.env.State),
		routers: map[common.Address]bool{
			routerAddr:   IsRouterAllowed(f.env.State, routerAddr),
			rogueAddr:    IsRouterAllowed(f.env.State, rogueAddr),
			strangerAddr: IsRouterAllowed(f.env.State, strangerAddr),
		},
		locked: isLocked(f.env.State),
	}
}

func lastLog(t *testing.T, f *fixture) *types.Log {
	t.Helper()
	logs := f.env.State.Logs()
	require.NotEmpty(t, logs)
	return logs[len(logs)-1]
}

// routerLogs returns the logs emitted by the fee router itself.
func routerLogs(f *fixture) []*types.Log {
	var out []*types.Log
	for _, l := range f.env.State.Logs() {
		if l.Address == ContractAddress {
			out = append(out, l)
		}
	}
	return out
}
