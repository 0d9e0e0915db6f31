// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package feerouter

import (
	"math/big"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/swaplaunch/precompile/contract"
)

func (f *fixture) view(input []byte) []interface{} {
	f.t.Helper()
	method, _, err := FeeRouterABI.MethodBySelector(input)
	require.NoError(f.t, err)
	ret, _, err := f.env.StaticCall(strangerAddr, ContractAddress, input, testGas)
	require.NoError(f.t, err)
	out, err := FeeRouterABI.Unpack(method.Name, ret)
	require.NoError(f.t, err)
	return out
}

func TestViews(t *testing.T) {
	f := newFixture(t, DefaultFeeBps)

	require.Equal(t, ownerAddr, f.view(f.mustPack(PackOwner()))[0])
	require.Equal(t, recipientAddr, f.view(f.mustPack(PackFeeRecipient()))[0])
	require.Equal(t, int64(20), f.view(f.mustPack(PackFeeBps()))[0].(*big.Int).Int64())
	require.Equal(t, true, f.view(f.mustPack(PackAllowedRouters(routerAddr)))[0])
	require.Equal(t, false, f.view(f.mustPack(PackAllowedRouters(rogueAddr)))[0])

	ret, _, err := f.env.StaticCall(userAddr, ContractAddress, f.mustPack(PackQuoteFee(big.NewInt(1000))), testGas)
	require.NoError(t, err)
	fee, net, err := UnpackQuoteFeeOutput(ret)
	require.NoError(t, err)
	require.Equal(t, int64(2), fee.Int64())
	require.Equal(t, int64(998), net.Int64())
}

func TestUpdateFee(t *testing.T) {
	tests := []struct {
		name    string
		caller  common.Address
		newFee  uint64
		wantErr error
	}{
		{"owner sets max", ownerAddr, MaxFeeBps, nil},
		{"owner sets zero", ownerAddr, 0, nil},
		{"owner sets half percent", ownerAddr, 50, nil},
		{"above max", ownerAddr, MaxFeeBps + 1, ErrFeeTooHigh},
		{"far above max", ownerAddr, BasisPoints, ErrFeeTooHigh},
		{"not owner", strangerAddr, 50, ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DefaultFeeBps)
			before := f.snapshot()

			_, err := f.execute(tt.caller, f.mustPack(PackUpdateFee(tt.newFee)))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, before, f.snapshot())
				require.Empty(t, routerLogs(f))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.newFee, GetFeeBps(f.env.State))

			log := lastLog(t, f)
			require.Equal(t, FeeRouterABI.Events["FeeUpdated"].ID, log.Topics[0])
			values, err := FeeRouterABI.UnpackEvent("FeeUpdated", log.Data)
			require.NoError(t, err)
			require.Equal(t, int64(DefaultFeeBps), values[0].(*big.Int).Int64())
			require.Equal(t, tt.newFee, values[1].(*big.Int).Uint64())
		})
	}
}

func TestUpdateFeeOversizedValue(t *testing.T) {
	f := newFixture(t, DefaultFeeBps)

	// 2^64 must not wrap around to a valid fee
	huge := new(big.Int).Lsh(big.NewInt(1), 64)
	input, err := FeeRouterABI.Pack("updateFee", huge)
	require.NoError(t, err)

	_, err = f.execute(ownerAddr, input)
	require.ErrorIs(t, err, ErrFeeTooHigh)
	require.Equal(t, DefaultFeeBps, GetFeeBps(f.env.State))
}

func TestUpdateFeeRecipient(t *testing.T) {
	newRecipient := common.HexToAddress("0x00000000000000000000000000000000000000e5")

	tests := []struct {
		name      string
		caller    common.Address
		recipient common.Address
		wantErr   error
	}{
		{"owner", ownerAddr, newRecipient, nil},
		{"zero recipient", ownerAddr, common.Address{}, ErrInvalidRecipient},
		{"not owner", strangerAddr, newRecipient, ErrNotOwner},
		{"old recipient", recipientAddr, newRecipient, ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DefaultFeeBps)
			before := f.snapshot()

			_, err := f.execute(tt.caller, f.mustPack(PackUpdateFeeRecipient(tt.recipient)))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, before, f.snapshot())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.recipient, GetFeeRecipient(f.env.State))

			log := lastLog(t, f)
			require.Len(t, log.Topics, 3)
			require.Equal(t, FeeRouterABI.Events["FeeRecipientUpdated"].ID, log.Topics[0])
			require.Equal(t, recipientAddr, common.BytesToAddress(log.Topics[1].Bytes()))
			require.Equal(t, tt.recipient, common.BytesToAddress(log.Topics[2].Bytes()))

			// later swaps pay the new recipient
			_, err = f.swap(routerAddr, 1000, 0, f.swapCallData(1000))
			require.NoError(t, err)
			require.Equal(t, uint64(1), f.balance(tokenB, tt.recipient))
			require.Zero(t, f.balance(tokenB, recipientAddr))
		})
	}
}

func TestSetRouterAllowed(t *testing.T) {
	tests := []struct {
		name    string
		caller  common.Address
		router  common.Address
		allowed bool
		wantErr error
	}{
		{"allow", ownerAddr, rogueAddr, true, nil},
		{"disallow", ownerAddr, routerAddr, false, nil},
		{"allow twice", ownerAddr, routerAddr, true, nil},
		{"disallow unknown", ownerAddr, strangerAddr, false, nil},
		{"zero router", ownerAddr, common.Address{}, true, ErrInvalidRouter},
		{"zero router removal", ownerAddr, common.Address{}, false, ErrInvalidRouter},
		{"not owner", strangerAddr, rogueAddr, true, ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DefaultFeeBps)
			before := f.snapshot()

			_, err := f.execute(tt.caller, f.mustPack(PackSetRouterAllowed(tt.router, tt.allowed)))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, before, f.snapshot())
				require.False(t, IsRouterAllowed(f.env.State, common.Address{}))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.allowed, IsRouterAllowed(f.env.State, tt.router))

			log := lastLog(t, f)
			require.Len(t, log.Topics, 2)
			require.Equal(t, FeeRouterABI.Events["RouterWhitelisted"].ID, log.Topics[0])
			require.Equal(t, tt.router, common.BytesToAddress(log.Topics[1].Bytes()))
			values, err := FeeRouterABI.UnpackEvent("RouterWhitelisted", log.Data)
			require.NoError(t, err)
			require.Equal(t, tt.allowed, values[0])
		})
	}
}

func TestTransferOwnership(t *testing.T) {
	newOwner := common.HexToAddress("0x00000000000000000000000000000000000000f6")

	t.Run("hands over every owner operation", func(t *testing.T) {
		f := newFixture(t, DefaultFeeBps)

		_, err := f.execute(ownerAddr, f.mustPack(PackTransferOwnership(newOwner)))
		require.NoError(t, err)
		require.Equal(t, newOwner, GetOwner(f.env.State))

		log := lastLog(t, f)
		require.Equal(t, FeeRouterABI.Events["OwnershipTransferred"].ID, log.Topics[0])
		require.Equal(t, ownerAddr, common.BytesToAddress(log.Topics[1].Bytes()))
		require.Equal(t, newOwner, common.BytesToAddress(log.Topics[2].Bytes()))

		_, err = f.execute(ownerAddr, f.mustPack(PackUpdateFee(50)))
		require.ErrorIs(t, err, ErrNotOwner)

		_, err = f.execute(newOwner, f.mustPack(PackUpdateFee(50)))
		require.NoError(t, err)
		require.Equal(t, uint64(50), GetFeeBps(f.env.State))
	})

	t.Run("zero owner", func(t *testing.T) {
		f := newFixture(t, DefaultFeeBps)
		_, err := f.execute(ownerAddr, f.mustPack(PackTransferOwnership(common.Address{})))
		require.ErrorIs(t, err, ErrInvalidOwner)
		require.Equal(t, ownerAddr, GetOwner(f.env.State))
	})

	t.Run("not owner", func(t *testing.T) {
		f := newFixture(t, DefaultFeeBps)
		before := f.snapshot()
		_, err := f.execute(strangerAddr, f.mustPack(PackTransferOwnership(strangerAddr)))
		require.ErrorIs(t, err, ErrNotOwner)
		require.Equal(t, before, f.snapshot())
	})
}

func TestOwnerOperationsReadOnly(t *testing.T) {
	f := newFixture(t, DefaultFeeBps)
	before := f.snapshot()

	inputs := [][]byte{
		f.mustPack(PackUpdateFee(50)),
		f.mustPack(PackUpdateFeeRecipient(strangerAddr)),
		f.mustPack(PackSetRouterAllowed(rogueAddr, true)),
		f.mustPack(PackTransferOwnership(strangerAddr)),
	}
	for _, input := range inputs {
		_, _, err := f.env.StaticCall(ownerAddr, ContractAddress, input, testGas)
		require.ErrorIs(t, err, contract.ErrWriteProtection)
	}
	require.Equal(t, before, f.snapshot())
}

func TestInvalidInput(t *testing.T) {
	f := newFixture(t, DefaultFeeBps)
	quote := f.mustPack(PackQuoteFee(big.NewInt(1)))

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"short selector", []byte{0x01, 0x02}},
		{"unknown selector", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"truncated arguments", quote[:20]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.execute(ownerAddr, tt.input)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGasAccounting(t *testing.T) {
	f := newFixture(t, DefaultFeeBps)

	input := f.mustPack(PackFeeBps())
	_, remaining, err := f.env.StaticCall(userAddr, ContractAddress, input, GasStateRead)
	require.NoError(t, err)
	require.Zero(t, remaining)

	_, remaining, err = f.env.StaticCall(userAddr, ContractAddress, input, GasStateRead-1)
	require.ErrorIs(t, err, contract.ErrOutOfGas)
	require.Zero(t, remaining)

	input = f.mustPack(PackUpdateFee(50))
	_, remaining, err = f.env.Execute(ownerAddr, ContractAddress, input, GasStateWrite+GasEmitEvent)
	require.NoError(t, err)
	require.Zero(t, remaining)

	// the write is charged but the event can't be paid for
	_, _, err = f.env.Execute(ownerAddr, ContractAddress, f.mustPack(PackUpdateFee(60)), GasStateWrite)
	require.ErrorIs(t, err, contract.ErrOutOfGas)
	require.Equal(t, uint64(50), GetFeeBps(f.env.State))
}
