// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/swaplaunch/precompile/contract"
)

var (
	_ contract.AccessibleState = (*Env)(nil)
	_ contract.BlockContext    = (*BlockContext)(nil)
)

// ErrValueTransfer is returned when a call carries value; simulated
// contracts are not payable.
var ErrValueTransfer = errors.New("value transfer not supported")

// Contract is a simulated contract living at [self].
type Contract interface {
	Run(env *Env, caller common.Address, self common.Address, input []byte, gas uint64, readOnly bool) ([]byte, uint64, error)
}

// BlockContext is a fixed block.
type BlockContext struct {
	BlockNumber *big.Int
	Time        uint64
}

func (b *BlockContext) Number() *big.Int  { return b.BlockNumber }
func (b *BlockContext) Timestamp() uint64 { return b.Time }

// Env is an execution environment where every call is atomic: a call that
// returns an error leaves no trace in the StateDB.
type Env struct {
	State     *StateDB
	Block     *BlockContext
	contracts map[common.Address]Contract
	readOnly  bool
}

func NewEnv() *Env {
	return &Env{
		State:     NewStateDB(),
		Block:     &BlockContext{BlockNumber: big.NewInt(1), Time: 1_700_000_000},
		contracts: make(map[common.Address]Contract),
	}
}

func (e *Env) GetStateDB() contract.StateDB {
	return e.State
}

func (e *Env) GetBlockContext() contract.BlockContext {
	return e.Block
}

// Deploy installs a simulated contract at [addr].
func (e *Env) Deploy(addr common.Address, c Contract) {
	e.contracts[addr] = c
	e.State.SetCode(addr, []byte{0xfe})
}

// DeployPrecompile installs a stateful precompile at [addr].
func (e *Env) DeployPrecompile(addr common.Address, p contract.StatefulPrecompiledContract) {
	e.Deploy(addr, &precompile{p})
}

// Call implements contract.AccessibleState. Nested calls made while a static
// call is executing are static as well.
func (e *Env) Call(caller common.Address, addr common.Address, input []byte, gas uint64, value *uint256.Int) ([]byte, uint64, error) {
	return e.call(caller, addr, input, gas, value, e.readOnly)
}

// Execute runs a top-level message call from [caller] to [addr].
func (e *Env) Execute(caller common.Address, addr common.Address, input []byte, gas uint64) ([]byte, uint64, error) {
	return e.call(caller, addr, input, gas, nil, false)
}

// StaticCall runs a read-only top-level message call.
func (e *Env) StaticCall(caller common.Address, addr common.Address, input []byte, gas uint64) ([]byte, uint64, error) {
	return e.call(caller, addr, input, gas, nil, true)
}

func (e *Env) call(caller, addr common.Address, input []byte, gas uint64, value *uint256.Int, readOnly bool) ([]byte, uint64, error) {
	if value != nil && !value.IsZero() {
		return nil, gas, ErrValueTransfer
	}
	c, ok := e.contracts[addr]
	if !ok {
		// a call to an account without code succeeds and returns nothing
		return nil, gas, nil
	}

	prevReadOnly := e.readOnly
	e.readOnly = readOnly
	defer func() { e.readOnly = prevReadOnly }()

	snapshot := e.State.Snapshot()
	ret, remaining, err := c.Run(e, caller, addr, input, gas, readOnly)
	if err != nil {
		e.State.RevertToSnapshot(snapshot)
		return nil, remaining, err
	}
	return ret, remaining, nil
}

type precompile struct {
	contract.StatefulPrecompiledContract
}

func (p *precompile) Run(env *Env, caller, self common.Address, input []byte, gas uint64, readOnly bool) ([]byte, uint64, error) {
	return p.StatefulPrecompiledContract.Run(env, caller, self, input, gas, readOnly)
}
