// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/vault"
)

var (
	slotTotalStaked  = vault.BytesToBytes32([]byte(("total-staked")))
	slotTotalPenalty = vault.BytesToBytes32([]byte(("total-penalty")))
)

// Service manages contract-wide staking totals.
// The staked total always equals the sum of the positions' totals.
type Service struct {
	totalStaked  *solidity.Uint256
	totalPenalty *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		totalStaked:  solidity.NewUint256(sctx, slotTotalStaked),
		totalPenalty: solidity.NewUint256(sctx, slotTotalPenalty),
	}
}

// TotalStaked returns the ledger-wide staked amount.
func (s *Service) TotalStaked() (*uint256.Int, error) {
	return s.totalStaked.Get()
}

// TotalPenalty returns the amount ever routed to the treasury by early exits and penalties.
func (s *Service) TotalPenalty() (*uint256.Int, error) {
	return s.totalPenalty.Get()
}

func (s *Service) AddStake(amount *uint256.Int) error {
	return s.totalStaked.Add(amount)
}

func (s *Service) RemoveStake(amount *uint256.Int) error {
	return s.totalStaked.Sub(amount)
}

// RecordPenalty accounts amount routed to the treasury.
func (s *Service) RecordPenalty(amount *uint256.Int) error {
	return s.totalPenalty.Add(amount)
}

// Reset overwrites the staked total, used when the aggregate is recomputed from the positions.
func (s *Service) Reset(total *uint256.Int) {
	s.totalStaked.Set(total)
}
