// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/sapienio/stakevault/vault"
)

// DevChainID is the chain id of the development network.
const DevChainID uint64 = 0xdef1

// DevAccount account for development.
type DevAccount struct {
	Address    vault.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns the accounts funded by the development genesis.
// Account 0 is the admin, 1 the treasury and 2 the reviewer.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{vault.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// NewDevnet create genesis for the development network.
func NewDevnet() *Genesis {
	accs := DevAccounts()

	cfg := &Config{
		ChainID:    DevChainID,
		LaunchTime: 1_735_689_600,
		Roles: Roles{
			Admin:    accs[0].Address,
			Treasury: accs[1].Address,
		},
		Reviewers: []vault.Address{accs[2].Address},
	}
	for _, acc := range accs[3:] {
		cfg.Allocations = append(cfg.Allocations, Allocation{Address: acc.Address, Tokens: 1_000_000})
	}

	gen, err := New("devnet", cfg)
	if err != nil {
		panic(err)
	}
	return gen
}
