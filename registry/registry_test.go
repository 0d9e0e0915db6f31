// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

func TestGetPrecompileAddress(t *testing.T) {
	require.Equal(t, common.HexToAddress(FeeRouterAddress), GetPrecompileAddress("FEE_ROUTER"))
	require.Equal(t, common.Address{}, GetPrecompileAddress("UNKNOWN"))
}

func TestKnownRouters(t *testing.T) {
	for _, network := range Networks() {
		routers := KnownRouters(network)
		require.NotEmpty(t, routers, network)
		for _, r := range routers {
			require.NotEqual(t, common.Address{}, r.Address, "%s/%s", network, r.Name)
		}
	}

	require.Nil(t, KnownRouters("mars"))

	// callers get a copy
	routers := KnownRouters("ethereum")
	routers[0].Name = "changed"
	require.Equal(t, "Uniswap V2", KnownRouters("ethereum")[0].Name)
}

func TestNetworksSorted(t *testing.T) {
	networks := Networks()
	require.Equal(t, []string{"amoy", "bsc", "bscTestnet", "ethereum", "polygon", "sepolia"}, networks)
}
