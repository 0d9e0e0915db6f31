// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modules

import (
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

func TestReservedAddress(t *testing.T) {
	tests := []struct {
		name     string
		address  common.Address
		expected bool
	}{
		{"dex legacy start", common.HexToAddress("0x0400000000000000000000000000000000000000"), true},
		{"dex legacy end", common.HexToAddress("0x04000000000000000000000000000000000000ff"), true},
		{"lp-9016", common.HexToAddress("0x0000000000000000000000000000000000009016"), true},
		{"just past lp-9xxx", common.HexToAddress("0x000000000000000000000000000000000000a000"), false},
		{"ecrecover", common.HexToAddress("0x0000000000000000000000000000000000000001"), false},
		{"regular account", common.HexToAddress("0x9011E888251AB053B7bD1cdB598Db4f9DEd94714"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ReservedAddress(tt.address))
		})
	}
}

func TestRegisterModule(t *testing.T) {
	saved := registeredModules
	t.Cleanup(func() { registeredModules = saved })
	registeredModules = make([]Module, 0)

	high := Module{ConfigKey: "high", Address: common.HexToAddress("0x0000000000000000000000000000000000009ff0")}
	low := Module{ConfigKey: "low", Address: common.HexToAddress("0x0000000000000000000000000000000000009001")}

	require.NoError(t, RegisterModule(high))
	require.NoError(t, RegisterModule(low))

	// iteration order follows the address, not registration order
	mods := RegisteredModules()
	require.Len(t, mods, 2)
	require.Equal(t, "low", mods[0].ConfigKey)
	require.Equal(t, "high", mods[1].ConfigKey)

	got, ok := GetPrecompileModule("high")
	require.True(t, ok)
	require.Equal(t, high.Address, got.Address)

	got, ok = GetPrecompileModuleByAddress(low.Address)
	require.True(t, ok)
	require.Equal(t, "low", got.ConfigKey)

	_, ok = GetPrecompileModule("missing")
	require.False(t, ok)

	// duplicate key
	err := RegisterModule(Module{ConfigKey: "high", Address: common.HexToAddress("0x0000000000000000000000000000000000009002")})
	require.ErrorContains(t, err, "already used")

	// duplicate address
	err = RegisterModule(Module{ConfigKey: "other", Address: low.Address})
	require.ErrorContains(t, err, "already used")

	// outside reserved ranges
	err = RegisterModule(Module{ConfigKey: "outside", Address: common.HexToAddress("0x1234")})
	require.ErrorContains(t, err, "not in a reserved range")

	err = RegisterModule(Module{ConfigKey: "blackhole", Address: BlackholeAddr})
	require.ErrorContains(t, err, "blackhole")
}
