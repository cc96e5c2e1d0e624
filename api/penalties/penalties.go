// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package penalties

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/ledger"
	"github.com/sapienio/stakevault/review"
)

type Penalties struct {
	ledger   *ledger.Ledger
	maxBatch int
}

func New(ledger *ledger.Ledger, maxBatch int) *Penalties {
	return &Penalties{
		ledger,
		maxBatch,
	}
}

// handleProcess applies a batch of signed decisions in order. Rejected decisions are
// reported per item, so the batch itself only fails on malformed input.
func (p *Penalties) handleProcess(w http.ResponseWriter, req *http.Request) error {
	var batch []*Decision
	if err := utils.ParseJSON(req.Body, &batch); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(batch) == 0 {
		return utils.BadRequest(errors.New("body: empty batch"))
	}
	if len(batch) > p.maxBatch {
		return utils.Forbidden(fmt.Errorf("batch size exceeds the maximum allowed value of %d", p.maxBatch))
	}

	decisions := make([]*review.SignedDecision, 0, len(batch))
	for i, d := range batch {
		if d == nil {
			return utils.BadRequest(fmt.Errorf("body[%d]: null not allowed", i))
		}
		amount, err := utils.ParseAmount(d.Amount)
		if err != nil {
			return utils.BadRequest(errors.WithMessagef(err, "body[%d].amount", i))
		}
		decisions = append(decisions, &review.SignedDecision{
			Decision: review.Decision{
				ID:      d.ID,
				Account: d.Account,
				Amount:  amount,
				Expiry:  d.Expiry,
			},
			Signature: d.Signature,
		})
	}

	outcomes, err := p.ledger.ProcessDecisions(decisions)
	if err != nil {
		return err
	}
	list := make([]*Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		list = append(list, convertOutcome(o))
	}
	return utils.WriteJSON(w, list)
}

func (p *Penalties) handleGetReviewers(w http.ResponseWriter, _ *http.Request) error {
	reviewers, err := p.ledger.Reviewers()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, reviewers)
}

func (p *Penalties) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /penalties").
		HandlerFunc(utils.WrapHandlerFunc(p.handleProcess))
	sub.Path("/reviewers").
		Methods(http.MethodGet).
		Name("GET /penalties/reviewers").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetReviewers))
}
