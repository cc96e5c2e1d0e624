// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial ledger state: roles, reviewers and token allocations.
package genesis

import (
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sapienio/stakevault/builtin/params"
	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/builtin/staker"
	"github.com/sapienio/stakevault/builtin/token"
	"github.com/sapienio/stakevault/review"
	"github.com/sapienio/stakevault/state"
	"github.com/sapienio/stakevault/vault"
)

var slotGenesisID = vault.BytesToBytes32([]byte("genesis-id"))

// Roles of the genesis file. An unset penalty authority defaults to the review processor.
type Roles struct {
	Admin            vault.Address  `yaml:"admin"`
	Treasury         vault.Address  `yaml:"treasury"`
	PenaltyAuthority *vault.Address `yaml:"penaltyAuthority,omitempty"`
}

// Allocation mints tokens to an account. Tokens is in whole tokens, Amount in base units; both add up.
type Allocation struct {
	Address vault.Address `yaml:"address"`
	Tokens  uint64        `yaml:"tokens,omitempty"`
	Amount  string        `yaml:"amount,omitempty"`
}

// Config is the yaml genesis file.
type Config struct {
	ChainID     uint64          `yaml:"chainId"`
	LaunchTime  uint64          `yaml:"launchTime"`
	Roles       Roles           `yaml:"roles"`
	Reviewers   []vault.Address `yaml:"reviewers"`
	Allocations []Allocation    `yaml:"allocations"`
}

// Genesis is a validated genesis config.
type Genesis struct {
	name   string
	id     vault.Bytes32
	config Config
}

// New validates cfg and computes its id.
func New(name string, cfg *Config) (*Genesis, error) {
	if cfg.ChainID == 0 {
		return nil, errors.New("chainId must not be 0")
	}
	if cfg.Roles.Admin.IsZero() {
		return nil, errors.New("admin role is required")
	}
	if cfg.Roles.Treasury.IsZero() {
		return nil, errors.New("treasury role is required")
	}
	if vault.IsBuiltin(cfg.Roles.Treasury) {
		return nil, errors.New("treasury must not be a builtin address")
	}
	for _, r := range cfg.Reviewers {
		if r.IsZero() {
			return nil, errors.New("zero reviewer address")
		}
	}

	supply := new(uint256.Int)
	for i, alloc := range cfg.Allocations {
		if vault.IsBuiltin(alloc.Address) {
			return nil, errors.Errorf("allocation %d: builtin address %v", i, alloc.Address)
		}
		amount, err := alloc.amount()
		if err != nil {
			return nil, errors.Wrapf(err, "allocation %d", i)
		}
		if _, overflow := supply.AddOverflow(supply, amount); overflow {
			return nil, errors.New("total allocation overflows")
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return &Genesis{
		name:   name,
		id:     vault.Blake2b([]byte(name), data),
		config: *cfg,
	}, nil
}

// LoadFile reads a yaml genesis file.
func LoadFile(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return New("custom", &cfg)
}

func (a *Allocation) amount() (*uint256.Int, error) {
	amount := new(uint256.Int)
	if a.Amount != "" {
		v, err := uint256.FromDecimal(a.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid amount %q", a.Amount)
		}
		amount.Set(v)
	}
	if a.Tokens > 0 {
		if _, overflow := amount.AddOverflow(amount, vault.Tokens(a.Tokens)); overflow {
			return nil, errors.New("amount overflows")
		}
	}
	if amount.IsZero() {
		return nil, errors.New("zero allocation")
	}
	return amount, nil
}

func (g *Genesis) ID() vault.Bytes32 { return g.id }

func (g *Genesis) Name() string { return g.name }

func (g *Genesis) ChainID() uint64 { return g.config.ChainID }

func (g *Genesis) LaunchTime() uint64 { return g.config.LaunchTime }

func (g *Genesis) Config() Config { return g.config }

// Apply writes the genesis state and stamps the genesis id.
func (g *Genesis) Apply(st *state.State) error {
	p := params.New(vault.ParamsAddress, st)
	p.Set(params.KeyAdmin, g.config.Roles.Admin)
	p.Set(params.KeyTreasury, g.config.Roles.Treasury)
	authority := vault.ReviewAddress
	if g.config.Roles.PenaltyAuthority != nil {
		authority = *g.config.Roles.PenaltyAuthority
	}
	p.Set(params.KeyPenaltyAuthority, authority)

	tok := token.New(vault.TokenAddress, st)
	for _, alloc := range g.config.Allocations {
		amount, err := alloc.amount()
		if err != nil {
			return err
		}
		if err := tok.Mint(alloc.Address, amount); err != nil {
			return errors.Wrapf(err, "mint to %v", alloc.Address)
		}
	}

	processor := review.NewProcessor(vault.ReviewAddress, st, nil, nil)
	for _, r := range g.config.Reviewers {
		if _, err := processor.AddReviewer(r); err != nil {
			return err
		}
	}

	if err := staker.New(vault.StakerAddress, st, tok, p).Initialize(); err != nil {
		return err
	}
	return solidity.NewRaw[vault.Bytes32](solidity.NewContext(vault.ParamsAddress, st), slotGenesisID).Upsert(g.id)
}

// StoredID returns the genesis id stamped in st, zero if none.
func StoredID(st *state.State) (vault.Bytes32, error) {
	return solidity.NewRaw[vault.Bytes32](solidity.NewContext(vault.ParamsAddress, st), slotGenesisID).Get()
}
