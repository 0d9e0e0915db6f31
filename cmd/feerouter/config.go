// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/swaplaunch/precompile/feerouter"
	"github.com/swaplaunch/precompile/registry"
)

const (
	FlagNetwork          = "network"
	FlagOwner            = "owner"
	FlagFeeRecipient     = "fee-recipient"
	FlagFeeBps           = "fee-bps"
	FlagAllowRouter      = "allow-router"
	FlagWithKnownRouters = "with-known-routers"
	FlagTimestamp        = "timestamp"
)

func configCmd(v *viper.Viper, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the precompile activation config",
		Long: `Print the upgrade config that activates the FeeTakingRouter.

The config is validated exactly like activation: a zero fee recipient or
owner, a fee above 1% or a zero router address is rejected.

Example:
  feerouter config --owner 0xabc... --fee-recipient 0xdef... --network ethereum --with-known-routers`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(v)
			if err != nil {
				return err
			}
			if err := cfg.Verify(nil); err != nil {
				return err
			}

			out, err := json.MarshalIndent(map[string]*feerouter.Config{feerouter.ConfigKey: cfg}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			logger.Info("activation config generated",
				"owner", cfg.Owner,
				"feeRecipient", cfg.FeeRecipient,
				"routers", len(cfg.AllowedRouters),
			)
			return nil
		},
	}

	cmd.Flags().String(FlagNetwork, "", "Network whose well-known routers are whitelisted ("+fmt.Sprint(registry.Networks())+")")
	cmd.Flags().String(FlagOwner, "", "Owner of the router")
	cmd.Flags().String(FlagFeeRecipient, "", "Account receiving the fees")
	cmd.Flags().Uint64(FlagFeeBps, feerouter.DefaultFeeBps, "Fee in basis points")
	cmd.Flags().StringSlice(FlagAllowRouter, nil, "Additional router to whitelist (repeatable)")
	cmd.Flags().Bool(FlagWithKnownRouters, false, "Whitelist the well-known routers of --network")
	cmd.Flags().Uint64(FlagTimestamp, 0, "Activation timestamp (0 activates at genesis)")

	return cmd
}

func buildConfig(v *viper.Viper) (*feerouter.Config, error) {
	owner, err := parseAddress(FlagOwner, v.GetString(FlagOwner))
	if err != nil {
		return nil, err
	}
	recipient, err := parseAddress(FlagFeeRecipient, v.GetString(FlagFeeRecipient))
	if err != nil {
		return nil, err
	}

	var timestamp *uint64
	if ts := v.GetUint64(FlagTimestamp); ts != 0 {
		timestamp = &ts
	}
	cfg := feerouter.NewConfig(timestamp, owner, recipient)

	feeBps := v.GetUint64(FlagFeeBps)
	cfg.FeeBps = &feeBps

	seen := make(map[common.Address]bool)
	addRouter := func(router common.Address) {
		if !seen[router] {
			seen[router] = true
			cfg.AllowedRouters = append(cfg.AllowedRouters, router)
		}
	}

	if v.GetBool(FlagWithKnownRouters) {
		network := v.GetString(FlagNetwork)
		known := registry.KnownRouters(network)
		if len(known) == 0 {
			return nil, fmt.Errorf("no known routers for network %q", network)
		}
		for _, router := range known {
			addRouter(router.Address)
		}
	}
	for _, raw := range v.GetStringSlice(FlagAllowRouter) {
		router, err := parseAddress(FlagAllowRouter, raw)
		if err != nil {
			return nil, err
		}
		addRouter(router)
	}

	return cfg, nil
}

// parseAddress accepts an empty string as the zero address so that
// validation reports the domain error rather than a parse error.
func parseAddress(name, raw string) (common.Address, error) {
	if raw == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("--%s: %q is not a hex address", name, raw)
	}
	return common.HexToAddress(raw), nil
}
