// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command feerouter is the operator tool for the FeeTakingRouter precompile:
// it emits activation configs, encodes calldata and previews fees.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/luxfi/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "FEEROUTER"

	FlagConfigFile = "config-file"
)

func main() {
	if err := newRootCmd(log.Root()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(logger log.Logger) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "feerouter",
		Short: "Operator tool for the FeeTakingRouter precompile",
		Long: `Operator tool for the FeeTakingRouter precompile.

Every flag can also be set through a FEEROUTER_* environment variable
(e.g. FEEROUTER_FEE_RECIPIENT) or a config file passed with -f.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cmd)
		},
	}
	rootCmd.PersistentFlags().StringP(FlagConfigFile, "f", "", "Path to a config file (json, yaml or toml)")

	rootCmd.AddCommand(
		configCmd(v, logger),
		calldataCmd(v),
		feeCmd(v),
		tierCmd(v, logger),
	)
	return rootCmd
}

// loadConfig layers the config file and environment under the flags of the
// command being run.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString(FlagConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return nil
}
