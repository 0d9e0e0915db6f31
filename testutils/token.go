// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"

	"github.com/swaplaunch/precompile/contract"
	"github.com/swaplaunch/precompile/erc20"
)

// GasTokenCall is charged for every call into a simulated token.
const GasTokenCall uint64 = 30_000

var (
	ErrInsufficientBalance   = errors.New("ERC20: transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("ERC20: insufficient allowance")
	ErrTransferToZero        = errors.New("ERC20: transfer to the zero address")
	ErrPaused                = errors.New("ERC20: token transfer while paused")
)

var (
	balancesSlot    = common.BigToHash(big.NewInt(0))
	allowancesSlot  = common.BigToHash(big.NewInt(1))
	totalSupplySlot = common.BigToHash(big.NewInt(2))
)

// Token is a simulated ERC-20 token. Balances and allowances live in the
// StateDB, so they are reverted together with everything else.
type Token struct {
	// NoReturn makes transfer, transferFrom and approve return no data, like
	// tokens that predate the bool return value.
	NoReturn bool
	// ReturnFalse makes failing transfers return false instead of reverting.
	ReturnFalse bool
	// Paused rejects every transfer regardless of balances and allowances.
	Paused bool
}

func balanceSlot(account common.Address) common.Hash {
	return common.BytesToHash(crypto.Keccak256(common.LeftPadBytes(account.Bytes(), 32), balancesSlot.Bytes()))
}

func allowanceSlot(owner, spender common.Address) common.Hash {
	inner := crypto.Keccak256(common.LeftPadBytes(owner.Bytes(), 32), allowancesSlot.Bytes())
	return common.BytesToHash(crypto.Keccak256(common.LeftPadBytes(spender.Bytes(), 32), inner))
}

func readAmount(state contract.StateDB, addr common.Address, slot common.Hash) *uint256.Int {
	val := state.GetState(addr, slot)
	return new(uint256.Int).SetBytes(val.Bytes())
}

func writeAmount(state contract.StateDB, addr common.Address, slot common.Hash, amount *uint256.Int) {
	state.SetState(addr, slot, common.Hash(amount.Bytes32()))
}

// DeployToken installs a simulated token at [addr].
func (e *Env) DeployToken(addr common.Address, token *Token) {
	e.Deploy(addr, token)
}

// Mint credits [amount] of [token] to [to] without going through a call.
func (e *Env) Mint(token common.Address, to common.Address, amount *uint256.Int) {
	bal := readAmount(e.State, token, balanceSlot(to))
	writeAmount(e.State, token, balanceSlot(to), new(uint256.Int).Add(bal, amount))
	supply := readAmount(e.State, token, totalSupplySlot)
	writeAmount(e.State, token, totalSupplySlot, new(uint256.Int).Add(supply, amount))
}

// TokenBalance reads the balance of [account] directly from storage.
func (e *Env) TokenBalance(token common.Address, account common.Address) *uint256.Int {
	return readAmount(e.State, token, balanceSlot(account))
}

// TokenAllowance reads the allowance [owner] granted [spender] directly from storage.
func (e *Env) TokenAllowance(token common.Address, owner, spender common.Address) *uint256.Int {
	return readAmount(e.State, token, allowanceSlot(owner, spender))
}

// SetAllowance sets an allowance directly, as if [owner] had called approve.
func (e *Env) SetAllowance(token common.Address, owner, spender common.Address, amount *uint256.Int) {
	writeAmount(e.State, token, allowanceSlot(owner, spender), amount)
}

func (t *Token) Run(env *Env, caller common.Address, self common.Address, input []byte, gas uint64, readOnly bool) ([]byte, uint64, error) {
	remaining, err := contract.DeductGas(gas, GasTokenCall)
	if err != nil {
		return nil, 0, err
	}
	method, data, err := erc20.ABI.MethodBySelector(input)
	if err != nil {
		return nil, remaining, err
	}
	args, err := method.Inputs.Unpack(data)
	if err != nil {
		return nil, remaining, err
	}

	state := env.State
	switch method.Name {
	case "totalSupply":
		ret, err := method.Outputs.Pack(readAmount(state, self, totalSupplySlot).ToBig())
		return ret, remaining, err
	case "balanceOf":
		ret, err := method.Outputs.Pack(readAmount(state, self, balanceSlot(args[0].(common.Address))).ToBig())
		return ret, remaining, err
	case "allowance":
		owner, spender := args[0].(common.Address), args[1].(common.Address)
		ret, err := method.Outputs.Pack(readAmount(state, self, allowanceSlot(owner, spender)).ToBig())
		return ret, remaining, err
	case "name", "symbol":
		ret, err := method.Outputs.Pack("SIM")
		return ret, remaining, err
	case "decimals":
		ret, err := method.Outputs.Pack(uint8(18))
		return ret, remaining, err
	}

	if readOnly {
		return nil, remaining, contract.ErrWriteProtection
	}

	switch method.Name {
	case "transfer":
		to, amount := args[0].(common.Address), uint256.MustFromBig(args[1].(*big.Int))
		if t.Paused {
			err = ErrPaused
			break
		}
		err = t.move(env, self, caller, to, amount)
	case "transferFrom":
		from, to, amount := args[0].(common.Address), args[1].(common.Address), uint256.MustFromBig(args[2].(*big.Int))
		if t.Paused {
			err = ErrPaused
			break
		}
		allowed := readAmount(state, self, allowanceSlot(from, caller))
		if allowed.Lt(amount) {
			err = ErrInsufficientAllowance
			break
		}
		if err = t.move(env, self, from, to, amount); err == nil {
			writeAmount(state, self, allowanceSlot(from, caller), new(uint256.Int).Sub(allowed, amount))
		}
	case "approve":
		spender, amount := args[0].(common.Address), uint256.MustFromBig(args[1].(*big.Int))
		writeAmount(state, self, allowanceSlot(caller, spender), amount)
		err = t.emit(env, self, "Approval", caller, spender, amount)
	default:
		return nil, remaining, fmt.Errorf("unsupported method %s", method.Name)
	}

	if err != nil {
		if t.ReturnFalse && !errors.Is(err, contract.ErrOutOfGas) {
			ret, packErr := method.Outputs.Pack(false)
			return ret, remaining, packErr
		}
		return nil, remaining, err
	}
	if t.NoReturn {
		return nil, remaining, nil
	}
	ret, err := method.Outputs.Pack(true)
	return ret, remaining, err
}

func (t *Token) move(env *Env, self, from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrTransferToZero
	}
	state := env.State
	fromBal := readAmount(state, self, balanceSlot(from))
	if fromBal.Lt(amount) {
		return ErrInsufficientBalance
	}
	writeAmount(state, self, balanceSlot(from), new(uint256.Int).Sub(fromBal, amount))
	toBal := readAmount(state, self, balanceSlot(to))
	writeAmount(state, self, balanceSlot(to), new(uint256.Int).Add(toBal, amount))
	return t.emit(env, self, "Transfer", from, to, amount)
}

func (t *Token) emit(env *Env, self common.Address, name string, a, b common.Address, amount *uint256.Int) error {
	topics, data, err := erc20.ABI.PackEvent(name, a, b, amount.ToBig())
	if err != nil {
		return err
	}
	env.State.AddLog(&types.Log{
		Address:     self,
		Topics:      topics,
		Data:        data,
		BlockNumber: env.Block.BlockNumber.Uint64(),
	})
	return nil
}
