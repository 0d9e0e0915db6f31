// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package feetier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
)

// EnvTiersConfig names the environment variable holding a JSON tier table.
const EnvTiersConfig = "FEE_TIERS_CONFIG"

var (
	ErrNoTiers      = errors.New("feetier: no tiers configured")
	ErrInvalidTier  = errors.New("feetier: invalid tier")
	ErrTierOrdering = errors.New("feetier: tiers must be ascending and contiguous")
)

// Tier charges FeeBps on trades worth at least MinUSD and less than MaxUSD.
// A nil MaxUSD leaves the tier open-ended.
type Tier struct {
	ID     string
	MinUSD math.LegacyDec
	MaxUSD math.LegacyDec
	FeeBps uint64
}

// Bounded reports whether the tier has an upper limit.
func (t Tier) Bounded() bool {
	return !t.MaxUSD.IsNil()
}

func (t Tier) contains(amount math.LegacyDec) bool {
	if amount.LT(t.MinUSD) {
		return false
	}
	return !t.Bounded() || amount.LT(t.MaxUSD)
}

// DefaultTiers returns the standard schedule: larger trades pay less.
func DefaultTiers() []Tier {
	return []Tier{
		{ID: "T1_0_1k", MinUSD: usd(0), MaxUSD: usd(1_000), FeeBps: 35},
		{ID: "T2_1k_5k", MinUSD: usd(1_000), MaxUSD: usd(5_000), FeeBps: 30},
		{ID: "T3_5k_10k", MinUSD: usd(5_000), MaxUSD: usd(10_000), FeeBps: 25},
		{ID: "T4_10k_50k", MinUSD: usd(10_000), MaxUSD: usd(50_000), FeeBps: 20},
		{ID: "T5_50k_100k", MinUSD: usd(50_000), MaxUSD: usd(100_000), FeeBps: 15},
		{ID: "T6_100k_plus", MinUSD: usd(100_000), FeeBps: 10},
	}
}

func usd(v int64) math.LegacyDec {
	return math.LegacyNewDec(v)
}

// tierJSON is the wire form of a tier: dollar bounds and a fee in percent.
// A missing or zero max marks the open-ended top tier.
type tierJSON struct {
	ID  string      `json:"id"`
	Min json.Number `json:"min"`
	Max json.Number `json:"max,omitempty"`
	Fee json.Number `json:"fee"`
}

// ParseTiers decodes a JSON tier table such as
//
//	[{"id":"T1","min":0,"max":1000,"fee":0.35},{"id":"T2","min":1000,"fee":0.30}]
func ParseTiers(data []byte) ([]Tier, error) {
	var raw []tierJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTier, err)
	}

	tiers := make([]Tier, 0, len(raw))
	for i, r := range raw {
		tier, err := r.tier()
		if err != nil {
			return nil, fmt.Errorf("tier %d: %w", i, err)
		}
		tiers = append(tiers, tier)
	}
	if err := ValidateTiers(tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r tierJSON) tier() (Tier, error) {
	if r.ID == "" {
		return Tier{}, fmt.Errorf("%w: missing id", ErrInvalidTier)
	}
	minUSD, err := decFromNumber(r.Min)
	if err != nil {
		return Tier{}, fmt.Errorf("%w: min: %w", ErrInvalidTier, err)
	}
	feePercent, err := decFromNumber(r.Fee)
	if err != nil {
		return Tier{}, fmt.Errorf("%w: fee: %w", ErrInvalidTier, err)
	}
	if feePercent.IsNegative() {
		return Tier{}, fmt.Errorf("%w: negative fee", ErrInvalidTier)
	}

	tier := Tier{
		ID:     r.ID,
		MinUSD: minUSD,
		FeeBps: uint64(feePercent.MulInt64(100).RoundInt64()),
	}
	if r.Max != "" {
		maxUSD, err := decFromNumber(r.Max)
		if err != nil {
			return Tier{}, fmt.Errorf("%w: max: %w", ErrInvalidTier, err)
		}
		if !maxUSD.IsZero() {
			tier.MaxUSD = maxUSD
		}
	}
	return tier, nil
}

// decFromNumber accepts plain and exponent notation.
func decFromNumber(n json.Number) (math.LegacyDec, error) {
	if n == "" {
		return math.LegacyZeroDec(), nil
	}
	if dec, err := math.LegacyNewDecFromStr(n.String()); err == nil {
		return dec, nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return math.LegacyNewDecFromStr(strconv.FormatFloat(f, 'f', -1, 64))
}

// ValidateTiers checks that the tiers cover one ascending, gap-free range and
// that only the last tier is open-ended.
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return ErrNoTiers
	}
	for i, tier := range tiers {
		if tier.MinUSD.IsNegative() {
			return fmt.Errorf("%w: %s has a negative minimum", ErrInvalidTier, tier.ID)
		}
		last := i == len(tiers)-1
		if !tier.Bounded() {
			if !last {
				return fmt.Errorf("%w: %s is open-ended but not last", ErrTierOrdering, tier.ID)
			}
			continue
		}
		if !tier.MaxUSD.GT(tier.MinUSD) {
			return fmt.Errorf("%w: %s has max <= min", ErrInvalidTier, tier.ID)
		}
		if !last && !tiers[i+1].MinUSD.Equal(tier.MaxUSD) {
			return fmt.Errorf("%w: %s ends at %s but %s starts at %s",
				ErrTierOrdering, tier.ID, tier.MaxUSD, tiers[i+1].ID, tiers[i+1].MinUSD)
		}
	}
	return nil
}
