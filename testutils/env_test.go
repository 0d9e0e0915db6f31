// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/stretchr/testify/require"

	"github.com/swaplaunch/precompile/contract"
)

var errBoom = errors.New("boom")

// writer stores a marker and then fails when Fail is set.
type writer struct {
	Fail bool
}

func (w *writer) Run(env *Env, caller common.Address, self common.Address, input []byte, gas uint64, readOnly bool) ([]byte, uint64, error) {
	if readOnly {
		return nil, gas, contract.ErrWriteProtection
	}
	env.State.SetState(self, common.Hash{1}, common.Hash{2})
	env.State.AddLog(&types.Log{Address: self})
	if w.Fail {
		return nil, gas, errBoom
	}
	return []byte{1}, gas - 1, nil
}

func TestSnapshotRevert(t *testing.T) {
	state := NewStateDB()
	addr := common.Address{9}

	state.SetState(addr, common.Hash{1}, common.Hash{1})
	snap := state.Snapshot()
	state.SetState(addr, common.Hash{1}, common.Hash{2})
	state.AddBalance(addr, uint256.NewInt(5), 0)
	state.AddLog(&types.Log{Address: addr})

	state.RevertToSnapshot(snap)
	require.Equal(t, common.Hash{1}, state.GetState(addr, common.Hash{1}))
	require.True(t, state.GetBalance(addr).IsZero())
	require.Empty(t, state.Logs())
}

func TestExecuteIsAtomic(t *testing.T) {
	env := NewEnv()
	addr := common.Address{7}

	env.Deploy(addr, &writer{Fail: true})
	_, _, err := env.Execute(common.Address{1}, addr, nil, 100)
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, common.Hash{}, env.State.GetState(addr, common.Hash{1}))
	require.Empty(t, env.State.Logs())

	env.Deploy(addr, &writer{})
	ret, remaining, err := env.Execute(common.Address{1}, addr, nil, 100)
	require.NoError(t, err)
	require.Equal(t, []byte{1}, ret)
	require.Equal(t, uint64(99), remaining)
	require.Equal(t, common.Hash{2}, env.State.GetState(addr, common.Hash{1}))
	require.Len(t, env.State.Logs(), 1)
}

func TestStaticCall(t *testing.T) {
	env := NewEnv()
	addr := common.Address{7}
	env.Deploy(addr, &writer{})

	_, _, err := env.StaticCall(common.Address{1}, addr, nil, 100)
	require.ErrorIs(t, err, contract.ErrWriteProtection)
}

func TestCallWithoutCode(t *testing.T) {
	env := NewEnv()
	ret, remaining, err := env.Execute(common.Address{1}, common.Address{2}, []byte{1, 2, 3}, 100)
	require.NoError(t, err)
	require.Nil(t, ret)
	require.Equal(t, uint64(100), remaining)

	_, _, err = env.Call(common.Address{1}, common.Address{2}, nil, 100, uint256.NewInt(1))
	require.ErrorIs(t, err, ErrValueTransfer)
}

func TestRouter(t *testing.T) {
	env := NewEnv()
	tokenIn, tokenOut := common.Address{0xa}, common.Address{0xb}
	trader, routerAddr := common.Address{0x1}, common.Address{0x2}

	env.DeployToken(tokenIn, &Token{})
	env.DeployToken(tokenOut, &Token{})
	env.Deploy(routerAddr, &Router{RateNum: 3, RateDen: 1})
	env.Mint(tokenIn, trader, uint256.NewInt(100))
	env.Mint(tokenOut, routerAddr, uint256.NewInt(1000))
	env.SetAllowance(tokenIn, trader, routerAddr, uint256.NewInt(100))

	input := PackSwap(uint256.NewInt(100).ToBig(), uint256.NewInt(300).ToBig(), tokenIn, tokenOut, trader, env.Block.Time)
	ret, _, err := env.Execute(trader, routerAddr, input, 1_000_000)
	require.NoError(t, err)
	require.NotEmpty(t, ret)
	require.Equal(t, uint64(300), env.TokenBalance(tokenOut, trader).Uint64())
	require.Equal(t, uint64(100), env.TokenBalance(tokenIn, routerAddr).Uint64())

	// the deadline has passed
	input = PackSwap(uint256.NewInt(1).ToBig(), uint256.NewInt(0).ToBig(), tokenIn, tokenOut, trader, env.Block.Time-1)
	_, _, err = env.Execute(trader, routerAddr, input, 1_000_000)
	require.ErrorIs(t, err, ErrExpired)
}
