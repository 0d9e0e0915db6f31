// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package testutils provides an in-memory execution environment for
// precompile tests: a snapshotting StateDB, simulated ERC-20 tokens and DEX
// routers, and atomic message calls.
package testutils

import (
	"maps"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"
	"github.com/luxfi/geth/core/types"

	"github.com/swaplaunch/precompile/contract"
)

var _ contract.StateDB = (*StateDB)(nil)

type worldState struct {
	storage  map[common.Address]map[common.Hash]common.Hash
	balances map[common.Address]*uint256.Int
	nonces   map[common.Address]uint64
	code     map[common.Address][]byte
	accounts map[common.Address]struct{}
	logs     []*types.Log
}

func newWorldState() *worldState {
	return &worldState{
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
		balances: make(map[common.Address]*uint256.Int),
		nonces:   make(map[common.Address]uint64),
		code:     make(map[common.Address][]byte),
		accounts: make(map[common.Address]struct{}),
		logs:     make([]*types.Log, 0),
	}
}

func (w *worldState) copy() *worldState {
	cpy := &worldState{
		storage:  make(map[common.Address]map[common.Hash]common.Hash, len(w.storage)),
		balances: make(map[common.Address]*uint256.Int, len(w.balances)),
		nonces:   maps.Clone(w.nonces),
		code:     maps.Clone(w.code),
		accounts: maps.Clone(w.accounts),
		logs:     append([]*types.Log(nil), w.logs...),
	}
	for addr, slots := range w.storage {
		cpy.storage[addr] = maps.Clone(slots)
	}
	for addr, bal := range w.balances {
		cpy.balances[addr] = bal.Clone()
	}
	return cpy
}

// StateDB is a contract.StateDB whose snapshots are full copies of the world
// state. Fine for tests, far too slow for anything else.
type StateDB struct {
	*worldState
	snapshots []*worldState
	txHash    common.Hash
}

func NewStateDB() *StateDB {
	return &StateDB{worldState: newWorldState()}
}

func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if s.storage[addr] == nil {
		return common.Hash{}
	}
	return s.storage[addr][key]
}

func (s *StateDB) SetState(addr common.Address, key, value common.Hash) common.Hash {
	if s.storage[addr] == nil {
		s.storage[addr] = make(map[common.Hash]common.Hash)
	}
	prev := s.storage[addr][key]
	s.storage[addr][key] = value
	return prev
}

func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	if bal, ok := s.balances[addr]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	prev := s.GetBalance(addr)
	s.balances[addr] = new(uint256.Int).Add(prev, amount)
	return *prev
}

func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	prev := s.GetBalance(addr)
	s.balances[addr] = new(uint256.Int).Sub(prev, amount)
	return *prev
}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	return s.nonces[addr]
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64, _ tracing.NonceChangeReason) {
	s.nonces[addr] = nonce
}

func (s *StateDB) GetCode(addr common.Address) []byte {
	return s.code[addr]
}

// SetCode installs [code] at [addr]. Simulated contracts only need it to be
// non-empty.
func (s *StateDB) SetCode(addr common.Address, code []byte) {
	s.code[addr] = code
	s.accounts[addr] = struct{}{}
}

func (s *StateDB) CreateAccount(addr common.Address) {
	s.accounts[addr] = struct{}{}
}

func (s *StateDB) Exist(addr common.Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

func (s *StateDB) AddLog(log *types.Log) {
	log.TxHash = s.txHash
	log.Index = uint(len(s.logs))
	s.logs = append(s.logs, log)
}

func (s *StateDB) Logs() []*types.Log {
	return s.logs
}

func (s *StateDB) SetTxHash(hash common.Hash) {
	s.txHash = hash
}

func (s *StateDB) TxHash() common.Hash {
	return s.txHash
}

func (s *StateDB) Snapshot() int {
	s.snapshots = append(s.snapshots, s.worldState.copy())
	return len(s.snapshots) - 1
}

func (s *StateDB) RevertToSnapshot(id int) {
	if id < 0 || id >= len(s.snapshots) {
		panic("revert to unknown snapshot")
	}
	s.worldState = s.snapshots[id]
	s.snapshots = s.snapshots[:id]
}
