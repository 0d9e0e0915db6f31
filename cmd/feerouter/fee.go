// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"cosmossdk.io/math"
	"github.com/luxfi/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/swaplaunch/precompile/feerouter"
	"github.com/swaplaunch/precompile/feetier"
)

const (
	FlagBps         = "bps"
	FlagTiersConfig = "tiers-config"
	FlagTiered      = "tiered"
)

func feeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fee <amount>",
		Short: "Split a swap output into fee and net amount",
		Long: `Split a swap output, in smallest token units, the way swapViaRouter does:
the fee is amount * bps / 10000 rounded down.

Example:
  feerouter fee 1000000 --bps 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("amount", args[0])
			if err != nil {
				return err
			}
			bps := v.GetUint64(FlagBps)
			if bps > feerouter.MaxFeeBps {
				return fmt.Errorf("%w: %d > %d", feerouter.ErrFeeTooHigh, bps, feerouter.MaxFeeBps)
			}

			fee, net := feerouter.CalculateFeeBig(amount, bps)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "amount: %s\n", amount)
			fmt.Fprintf(out, "feeBps: %d\n", bps)
			fmt.Fprintf(out, "fee:    %s\n", fee)
			fmt.Fprintf(out, "net:    %s\n", net)
			return nil
		},
	}

	cmd.Flags().Uint64(FlagBps, feerouter.DefaultFeeBps, "Fee in basis points")

	return cmd
}

func tierCmd(v *viper.Viper, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tier <usd>",
		Short: "Preview the tiered platform fee for a trade worth <usd>",
		Long: `Preview the tiered platform fee for a trade worth <usd> dollars.

The tier table defaults to the standard schedule. Override it with
--tiers-config (inline JSON or a file path) or FEE_TIERS_CONFIG:
  [{"id":"T1","min":0,"max":1000,"fee":0.35},{"id":"T2","min":1000,"fee":0.30}]

Example:
  feerouter tier 2500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !v.GetBool(FlagTiered) {
				printQuote(cmd, feetier.Fallback("Tiered fees disabled"))
				return nil
			}

			amount, err := math.LegacyNewDecFromStr(args[0])
			if err != nil {
				return fmt.Errorf("usd: %w", err)
			}
			calc, err := loadCalculator(v, logger)
			if err != nil {
				return err
			}
			quote, err := calc.Calculate(amount)
			if err != nil {
				return err
			}
			printQuote(cmd, quote)
			if quote.Next != nil {
				fmt.Fprintf(out, "next:   %s at %d bps, $%s more (from $%s)\n",
					quote.Next.ID, quote.Next.FeeBps, feetier.FormatUSD(quote.Next.AmountNeededUSD), feetier.FormatUSD(quote.Next.ThresholdUSD))
			}
			return nil
		},
	}

	cmd.Flags().String(FlagTiersConfig, "", "Tier table as JSON or a path to a JSON file")
	cmd.Flags().Bool(FlagTiered, true, "Use tiered fees; when false the fallback fee is quoted")
	if err := v.BindEnv(FlagTiersConfig, EnvPrefix+"_TIERS_CONFIG", feetier.EnvTiersConfig); err != nil {
		panic(err)
	}

	return cmd
}

// loadCalculator uses the configured tier table, falling back to the default
// schedule with a warning when it can't be parsed.
func loadCalculator(v *viper.Viper, logger log.Logger) (*feetier.Calculator, error) {
	raw := v.GetString(FlagTiersConfig)
	if raw == "" {
		return feetier.Default(), nil
	}

	data := []byte(raw)
	if raw[0] != '[' {
		fileData, err := os.ReadFile(raw)
		if err != nil {
			return nil, fmt.Errorf("reading tiers config: %w", err)
		}
		data = fileData
	}

	tiers, err := feetier.ParseTiers(data)
	if err != nil {
		logger.Warn("invalid tiers config, using defaults", "err", err)
		return feetier.Default(), nil
	}
	return feetier.NewCalculator(tiers)
}

func printQuote(cmd *cobra.Command, quote *feetier.Quote) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tier:   %s\n", quote.TierID)
	fmt.Fprintf(out, "feeBps: %d\n", quote.FeeBps)
	if !quote.FeeUSD.IsNil() {
		fmt.Fprintf(out, "feeUSD: %s\n", feetier.FormatUSD(quote.FeeUSD))
	}
	fmt.Fprintf(out, "notes:  %s\n", quote.Notes)
}
