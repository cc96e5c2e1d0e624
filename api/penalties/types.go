// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package penalties

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/review"
	"github.com/sapienio/stakevault/vault"
)

// Decision is a reviewer signed penalty decision.
type Decision struct {
	ID        vault.Bytes32         `json:"id"`
	Account   vault.Address         `json:"account"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Expiry    uint64                `json:"expiry"`
	Signature hexutil.Bytes         `json:"signature"`
}

type Penalty struct {
	Requested *math.HexOrDecimal256 `json:"requested"`
	Seized    *math.HexOrDecimal256 `json:"seized"`
	Remaining *math.HexOrDecimal256 `json:"remaining"`
	Status    string                `json:"status"`
}

type Outcome struct {
	ID       vault.Bytes32  `json:"id"`
	Account  vault.Address  `json:"account"`
	Reviewer *vault.Address `json:"reviewer,omitempty"`
	Status   string         `json:"status"`
	Reason   string         `json:"reason,omitempty"`
	Penalty  *Penalty       `json:"penalty,omitempty"`
}

func convertOutcome(o *review.Outcome) *Outcome {
	out := &Outcome{
		ID:      o.ID,
		Account: o.Account,
		Status:  string(o.Status),
		Reason:  o.Reason,
	}
	if !o.Reviewer.IsZero() {
		reviewer := o.Reviewer
		out.Reviewer = &reviewer
	}
	if o.Penalty != nil {
		out.Penalty = &Penalty{
			Requested: utils.Amount(o.Penalty.Requested),
			Seized:    utils.Amount(o.Penalty.Seized),
			Remaining: utils.Amount(o.Penalty.Remaining),
			Status:    o.Penalty.Status.String(),
		}
	}
	return out
}
