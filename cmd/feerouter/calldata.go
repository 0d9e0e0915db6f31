// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/swaplaunch/precompile/feerouter"
)

const (
	FlagRouter       = "router"
	FlagSellToken    = "sell-token"
	FlagBuyToken     = "buy-token"
	FlagSellAmount   = "sell-amount"
	FlagSwapData     = "swap-data"
	FlagMinBuyAmount = "min-buy-amount"
)

func calldataCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calldata",
		Short: "Encode calldata for a router method",
	}

	cmd.AddCommand(
		encodeCmd("update-fee <bps>", "Encode updateFee", func(args []string) ([]byte, error) {
			bps, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bps: %w", err)
			}
			if bps > feerouter.MaxFeeBps {
				return nil, fmt.Errorf("%w: %d > %d", feerouter.ErrFeeTooHigh, bps, feerouter.MaxFeeBps)
			}
			return feerouter.PackUpdateFee(bps)
		}),
		encodeCmd("update-fee-recipient <address>", "Encode updateFeeRecipient", func(args []string) ([]byte, error) {
			recipient, err := requireAddress("recipient", args[0])
			if err != nil {
				return nil, err
			}
			return feerouter.PackUpdateFeeRecipient(recipient)
		}),
		encodeCmd("set-router-allowed <router> <true|false>", "Encode setRouterAllowed", func(args []string) ([]byte, error) {
			router, err := requireAddress("router", args[0])
			if err != nil {
				return nil, err
			}
			allowed, err := strconv.ParseBool(args[1])
			if err != nil {
				return nil, fmt.Errorf("allowed: %w", err)
			}
			return feerouter.PackSetRouterAllowed(router, allowed)
		}),
		encodeCmd("transfer-ownership <address>", "Encode transferOwnership", func(args []string) ([]byte, error) {
			owner, err := requireAddress("owner", args[0])
			if err != nil {
				return nil, err
			}
			return feerouter.PackTransferOwnership(owner)
		}),
		swapCalldataCmd(v),
	)
	return cmd
}

// encodeCmd builds a subcommand whose positional arguments are turned into
// calldata by [pack].
func encodeCmd(use, short string, pack func(args []string) ([]byte, error)) *cobra.Command {
	nargs := len(strings.Fields(use)) - 1
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := pack(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(input))
			return nil
		},
	}
}

func swapCalldataCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Encode swapViaRouter",
		Long: `Encode swapViaRouter around the swap payload returned by a quote API.

Example:
  feerouter calldata swap --router 0xdef1... --sell-token 0xa0b8... --buy-token 0xc02a... \
    --sell-amount 1000000 --swap-data 0x415565b0... --min-buy-amount 990`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildSwapRequest(v)
			if err != nil {
				return err
			}
			input, err := feerouter.PackSwapViaRouter(*req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(input))
			return nil
		},
	}

	cmd.Flags().String(FlagRouter, "", "Whitelisted DEX router")
	cmd.Flags().String(FlagSellToken, "", "Token sold")
	cmd.Flags().String(FlagBuyToken, "", "Token bought")
	cmd.Flags().String(FlagSellAmount, "", "Amount sold, in smallest units")
	cmd.Flags().String(FlagSwapData, "0x", "Router calldata, hex")
	cmd.Flags().String(FlagMinBuyAmount, "0", "Minimum net amount after the fee, in smallest units")

	return cmd
}

func buildSwapRequest(v *viper.Viper) (*feerouter.SwapRequest, error) {
	req := new(feerouter.SwapRequest)
	var err error
	if req.Router, err = requireAddress(FlagRouter, v.GetString(FlagRouter)); err != nil {
		return nil, err
	}
	if req.SellToken, err = requireAddress(FlagSellToken, v.GetString(FlagSellToken)); err != nil {
		return nil, err
	}
	if req.BuyToken, err = requireAddress(FlagBuyToken, v.GetString(FlagBuyToken)); err != nil {
		return nil, err
	}
	if req.SellAmount, err = parseAmount(FlagSellAmount, v.GetString(FlagSellAmount)); err != nil {
		return nil, err
	}
	if req.SellAmount.Sign() == 0 {
		return nil, feerouter.ErrInvalidAmount
	}
	if req.MinBuyAmountAfterFee, err = parseAmount(FlagMinBuyAmount, v.GetString(FlagMinBuyAmount)); err != nil {
		return nil, err
	}
	if req.SwapCallData, err = hexutil.Decode(v.GetString(FlagSwapData)); err != nil {
		return nil, fmt.Errorf("--%s: %w", FlagSwapData, err)
	}
	return req, nil
}

func requireAddress(name, raw string) (common.Address, error) {
	addr, err := parseAddress(name, raw)
	if err != nil {
		return common.Address{}, err
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("--%s: address required", name)
	}
	return addr, nil
}

// parseAmount reads a non-negative decimal integer of up to 256 bits.
func parseAmount(name, raw string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 || amount.BitLen() > 256 {
		return nil, fmt.Errorf("--%s: %q is not a valid amount", name, raw)
	}
	return amount, nil
}
