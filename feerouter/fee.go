// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package feerouter

import (
	"math/big"

	"github.com/holiman/uint256"
)

// CalculateFee splits [amount] into the fee at [feeBps] and the remainder
// owed to the trader. The fee rounds down, so the trader keeps the dust.
func CalculateFee(amount *uint256.Int, feeBps uint64) (fee *uint256.Int, net *uint256.Int) {
	if amount.IsZero() || feeBps == 0 {
		return uint256.NewInt(0), amount.Clone()
	}

	// amount * feeBps can exceed 256 bits; the quotient never does
	fee, _ = new(uint256.Int).MulDivOverflow(amount, uint256.NewInt(feeBps), uint256.NewInt(BasisPoints))
	net = new(uint256.Int).Sub(amount, fee)

	return fee, net
}

// CalculateFeeBig is CalculateFee over big.Int, for tooling and reporting.
func CalculateFeeBig(amount *big.Int, feeBps uint64) (fee *big.Int, net *big.Int) {
	if amount.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0)
	}

	fee = new(big.Int).Mul(amount, new(big.Int).SetUint64(feeBps))
	fee = fee.Div(fee, new(big.Int).SetUint64(BasisPoints))
	net = new(big.Int).Sub(amount, fee)

	return fee, net
}
