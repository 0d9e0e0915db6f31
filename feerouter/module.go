// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package feerouter

import (
	"fmt"
	"slices"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/swaplaunch/precompile/contract"
	"github.com/swaplaunch/precompile/modules"
	"github.com/swaplaunch/precompile/precompileconfig"
)

var _ contract.Configurator = (*configurator)(nil)
var _ precompileconfig.Config = (*Config)(nil)

// ConfigKey is the key used in json config files to specify this precompile config.
const ConfigKey = "feeRouterConfig"

// Module is the precompile module
var Module = modules.Module{
	ConfigKey:    ConfigKey,
	Address:      ContractAddress,
	Contract:     FeeRouterPrecompile,
	Configurator: &configurator{},
}

var logger log.Logger = log.Root()

// SetLogger replaces the logger used by the precompile.
func SetLogger(l log.Logger) {
	logger = l
}

type configurator struct{}

func init() {
	if err := modules.RegisterModule(Module); err != nil {
		panic(err)
	}
}

func (*configurator) MakeConfig() precompileconfig.Config {
	return new(Config)
}

// Configure activates the router: it is the constructor. The config is
// verified before any slot is written.
func (*configurator) Configure(
	chainConfig precompileconfig.ChainConfig,
	cfg precompileconfig.Config,
	state contract.StateDB,
	blockContext contract.ConfigurationBlockContext,
) error {
	config, ok := cfg.(*Config)
	if !ok {
		return fmt.Errorf("expected config type %T, got %T: %v", &Config{}, cfg, cfg)
	}
	if err := config.Verify(chainConfig); err != nil {
		return err
	}

	setOwner(state, config.Owner)
	setFeeRecipient(state, config.FeeRecipient)
	setFeeBps(state, config.feeBps())
	for _, router := range config.AllowedRouters {
		setRouterAllowed(state, router, true)
	}

	logger.Info("fee router configured",
		"owner", config.Owner,
		"feeRecipient", config.FeeRecipient,
		"feeBps", config.feeBps(),
		"routers", len(config.AllowedRouters),
	)
	return nil
}

// Config implements the precompileconfig.Config interface
type Config struct {
	Upgrade        precompileconfig.Upgrade `json:"upgrade,omitempty"`
	Owner          common.Address           `json:"owner"`
	FeeRecipient   common.Address           `json:"feeRecipient"`
	FeeBps         *uint64                  `json:"feeBps,omitempty"`
	AllowedRouters []common.Address         `json:"allowedRouters,omitempty"`
}

// NewConfig returns a config activating the router at [blockTimestamp] with
// the default fee and an empty whitelist.
func NewConfig(blockTimestamp *uint64, owner, feeRecipient common.Address) *Config {
	return &Config{
		Upgrade:      precompileconfig.Upgrade{BlockTimestamp: blockTimestamp},
		Owner:        owner,
		FeeRecipient: feeRecipient,
	}
}

// NewDisableConfig returns a config that deactivates the router at [blockTimestamp].
func NewDisableConfig(blockTimestamp *uint64) *Config {
	return &Config{
		Upgrade: precompileconfig.Upgrade{
			BlockTimestamp: blockTimestamp,
			Disable:        true,
		},
	}
}

func (c *Config) Key() string {
	return ConfigKey
}

func (c *Config) Timestamp() *uint64 {
	return c.Upgrade.Timestamp()
}

func (c *Config) IsDisabled() bool {
	return c.Upgrade.Disable
}

func (c *Config) Equal(cfg precompileconfig.Config) bool {
	other, ok := cfg.(*Config)
	if !ok {
		return false
	}
	return c.Upgrade.Equal(&other.Upgrade) &&
		c.Owner == other.Owner &&
		c.FeeRecipient == other.FeeRecipient &&
		c.feeBps() == other.feeBps() &&
		slices.Equal(c.AllowedRouters, other.AllowedRouters)
}

func (c *Config) Verify(chainConfig precompileconfig.ChainConfig) error {
	if c.Upgrade.Disable {
		return nil
	}
	if c.FeeRecipient == (common.Address{}) {
		return ErrInvalidFeeRecipient
	}
	if c.Owner == (common.Address{}) {
		return ErrInvalidOwner
	}
	if c.feeBps() > MaxFeeBps {
		return fmt.Errorf("%w: %d > %d", ErrFeeTooHigh, c.feeBps(), MaxFeeBps)
	}
	for i, router := range c.AllowedRouters {
		if router == (common.Address{}) {
			return fmt.Errorf("%w: allowedRouters[%d] is zero", ErrInvalidRouter, i)
		}
	}
	return nil
}

func (c *Config) feeBps() uint64 {
	if c.FeeBps == nil {
		return DefaultFeeBps
	}
	return *c.FeeBps
}
