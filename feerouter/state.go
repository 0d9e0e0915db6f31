// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package feerouter

import (
	"encoding/binary"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"

	"github.com/swaplaunch/precompile/contract"
)

// Storage slot keys (keccak256 of descriptive strings)
var (
	OwnerSlot          = slotKey("feerouter.owner")
	FeeRecipientSlot   = slotKey("feerouter.feeRecipient")
	FeeBpsSlot         = slotKey("feerouter.feeBps")
	AllowedRoutersSlot = slotKey("feerouter.allowedRouters")
	LockedSlot         = slotKey("feerouter.locked")
)

func slotKey(name string) common.Hash {
	return common.BytesToHash(crypto.Keccak256([]byte(name)))
}

// routerSlot is the slot of allowedRouters[router], laid out like a Solidity
// mapping: keccak256(pad32(router) ++ base).
func routerSlot(router common.Address) common.Hash {
	return common.BytesToHash(crypto.Keccak256(common.LeftPadBytes(router.Bytes(), 32), AllowedRoutersSlot.Bytes()))
}

// GetOwner returns the account allowed to administer the router.
func GetOwner(stateDB contract.StateDB) common.Address {
	return getStateAddress(stateDB, OwnerSlot)
}

// GetFeeRecipient returns the account receiving skimmed fees.
func GetFeeRecipient(stateDB contract.StateDB) common.Address {
	return getStateAddress(stateDB, FeeRecipientSlot)
}

// GetFeeBps returns the fee applied to swap output, in basis points.
func GetFeeBps(stateDB contract.StateDB) uint64 {
	val := stateDB.GetState(ContractAddress, FeeBpsSlot)
	return binary.BigEndian.Uint64(val[24:])
}

// IsRouterAllowed reports whether swaps may be delegated to [router].
func IsRouterAllowed(stateDB contract.StateDB, router common.Address) bool {
	val := stateDB.GetState(ContractAddress, routerSlot(router))
	return val[31] != 0
}

// isLocked reports whether a swap is in progress.
func isLocked(stateDB contract.StateDB) bool {
	val := stateDB.GetState(ContractAddress, LockedSlot)
	return val[31] != 0
}

func setLocked(stateDB contract.StateDB, locked bool) {
	var val common.Hash
	if locked {
		val[31] = 1
	}
	stateDB.SetState(ContractAddress, LockedSlot, val)
}

func setOwner(stateDB contract.StateDB, owner common.Address) {
	setStateAddress(stateDB, OwnerSlot, owner)
}

func setFeeRecipient(stateDB contract.StateDB, recipient common.Address) {
	setStateAddress(stateDB, FeeRecipientSlot, recipient)
}

func setFeeBps(stateDB contract.StateDB, bps uint64) {
	var val common.Hash
	binary.BigEndian.PutUint64(val[24:], bps)
	stateDB.SetState(ContractAddress, FeeBpsSlot, val)
}

func setRouterAllowed(stateDB contract.StateDB, router common.Address, allowed bool) {
	var val common.Hash
	if allowed {
		val[31] = 1
	}
	stateDB.SetState(ContractAddress, routerSlot(router), val)
}

func getStateAddress(stateDB contract.StateDB, slot common.Hash) common.Address {
	val := stateDB.GetState(ContractAddress, slot)
	return common.BytesToAddress(val[12:])
}

func setStateAddress(stateDB contract.StateDB, slot common.Hash, addr common.Address) {
	var val common.Hash
	copy(val[12:], addr.Bytes())
	stateDB.SetState(ContractAddress, slot, val)
}
