// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package feetier previews the platform fee for a trade from its USD value.
// Larger trades fall into cheaper tiers. Every tier is capped at the fee the
// on-chain router accepts, and amounts in token units are split with the
// same round-down rule the router applies.
package feetier

import (
	"errors"
	"fmt"
	"math/big"

	"cosmossdk.io/math"

	"github.com/swaplaunch/precompile/feerouter"
)

const (
	// FallbackTierID marks quotes made without a USD valuation.
	FallbackTierID = "FALLBACK"
	// FallbackFeeBps applies when the trade can't be valued.
	FallbackFeeBps uint64 = 30

	QuoteVersion         = "v1-tiered"
	FallbackQuoteVersion = "v1-tiered-fallback"
)

var ErrNegativeAmount = errors.New("feetier: amount cannot be negative")

// NextTier tells the trader how much more volume unlocks a cheaper fee.
type NextTier struct {
	ID              string
	FeeBps          uint64
	ThresholdUSD    math.LegacyDec
	AmountNeededUSD math.LegacyDec
}

// Quote is the fee preview for a single trade. FeeUSD and AmountUSD are nil
// for fallback quotes.
type Quote struct {
	TierID    string
	FeeBps    uint64
	FeeUSD    math.LegacyDec
	AmountUSD math.LegacyDec
	Capped    bool
	Next      *NextTier
	Notes     string
	Version   string
}

// Calculator maps trade values onto a tier schedule.
type Calculator struct {
	tiers []Tier
}

// NewCalculator validates [tiers] and returns a calculator using them.
func NewCalculator(tiers []Tier) (*Calculator, error) {
	if err := ValidateTiers(tiers); err != nil {
		return nil, err
	}
	return &Calculator{tiers: append([]Tier(nil), tiers...)}, nil
}

// Default returns a calculator over DefaultTiers.
func Default() *Calculator {
	return &Calculator{tiers: DefaultTiers()}
}

// Tiers returns a copy of the schedule.
func (c *Calculator) Tiers() []Tier {
	return append([]Tier(nil), c.tiers...)
}

// Calculate quotes the fee for a trade worth [amountUSD]. The fee is rounded
// to cents, half to even.
func (c *Calculator) Calculate(amountUSD math.LegacyDec) (*Quote, error) {
	if amountUSD.IsNil() {
		return nil, fmt.Errorf("%w: missing amount", ErrNegativeAmount)
	}
	if amountUSD.IsNegative() {
		return nil, ErrNegativeAmount
	}

	// a gap in a hand-written schedule falls through to the last tier
	idx := len(c.tiers) - 1
	for i, tier := range c.tiers {
		if tier.contains(amountUSD) {
			idx = i
			break
		}
	}
	tier := c.tiers[idx]

	quote := &Quote{
		TierID:    tier.ID,
		FeeBps:    tier.FeeBps,
		AmountUSD: roundCents(amountUSD),
		Version:   QuoteVersion,
	}
	if quote.FeeBps > feerouter.MaxFeeBps {
		quote.FeeBps = feerouter.MaxFeeBps
		quote.Capped = true
		quote.Notes = fmt.Sprintf("Fee capped at %s%% (safety limit)", bpsToPercent(feerouter.MaxFeeBps))
	} else {
		quote.Notes = fmt.Sprintf("Tiered platform fee applied: %s%%", bpsToPercent(quote.FeeBps))
	}

	fee := amountUSD.MulInt64(int64(quote.FeeBps)).QuoInt64(int64(feerouter.BasisPoints))
	quote.FeeUSD = roundCents(fee)

	if idx < len(c.tiers)-1 {
		next := c.tiers[idx+1]
		needed := next.MinUSD.Sub(amountUSD)
		if needed.IsPositive() {
			quote.Next = &NextTier{
				ID:              next.ID,
				FeeBps:          next.FeeBps,
				ThresholdUSD:    next.MinUSD,
				AmountNeededUSD: roundCents(needed),
			}
		}
	}

	return quote, nil
}

// Fallback quotes the flat fee used when the trade has no USD valuation.
func Fallback(reason string) *Quote {
	return &Quote{
		TierID:  FallbackTierID,
		FeeBps:  FallbackFeeBps,
		Notes:   fmt.Sprintf("%s. Using fallback fee: %s%%", reason, bpsToPercent(FallbackFeeBps)),
		Version: FallbackQuoteVersion,
	}
}

// ApplyFee splits [amount] smallest units into the net amount and the fee at
// [feeBps]. The fee rounds down.
func ApplyFee(amount math.Int, feeBps uint64) (net math.Int, fee math.Int) {
	fee = amount.Mul(math.NewIntFromUint64(feeBps)).Quo(math.NewIntFromUint64(feerouter.BasisPoints))
	return amount.Sub(fee), fee
}

// NetAmount is the amount left after the quoted fee.
func NetAmount(amount math.Int, quote *Quote) math.Int {
	net, _ := ApplyFee(amount, quote.FeeBps)
	return net
}

func roundCents(v math.LegacyDec) math.LegacyDec {
	cents := v.MulInt64(100).RoundInt()
	return math.LegacyNewDecFromInt(cents).QuoInt64(100)
}

// FormatUSD renders a dollar amount rounded to cents, e.g. "1234.50".
func FormatUSD(v math.LegacyDec) string {
	cents := v.MulInt64(100).RoundInt().BigInt()
	sign := ""
	if cents.Sign() < 0 {
		sign = "-"
		cents.Neg(cents)
	}
	dollars, rem := new(big.Int).QuoRem(cents, big.NewInt(100), new(big.Int))
	return fmt.Sprintf("%s%s.%02d", sign, dollars, rem.Int64())
}

// bpsToPercent renders 35 as "0.35".
func bpsToPercent(bps uint64) string {
	return fmt.Sprintf("%d.%02d", bps/100, bps%100)
}
