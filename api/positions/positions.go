// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package positions

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/builtin/staker/position"
	"github.com/sapienio/stakevault/ledger"
	"github.com/sapienio/stakevault/vault"
)

type Positions struct {
	ledger  *ledger.Ledger
	limit   uint64
	opsMode bool
}

// New creates the positions API. Holder operations are mounted only in ops mode,
// where the path address is trusted as the caller.
func New(ledger *ledger.Ledger, limit uint64, opsMode bool) *Positions {
	return &Positions{
		ledger,
		limit,
		opsMode,
	}
}

func (p *Positions) handleGetPositions(w http.ResponseWriter, req *http.Request) error {
	offset, err := utils.Uint64Query(req, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := utils.Uint64Query(req, "limit", p.limit)
	if err != nil {
		return err
	}
	if limit == 0 || limit > p.limit {
		return utils.Forbidden(fmt.Errorf("limit must be between 1 and %d", p.limit))
	}

	views, err := p.ledger.Positions(offset, limit)
	if err != nil {
		return err
	}
	list := make([]*Position, 0, len(views))
	for _, v := range views {
		list = append(list, convertPosition(v))
	}
	return utils.WriteJSON(w, list)
}

func (p *Positions) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	view, err := p.ledger.Position(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPosition(view))
}

type operation func(holder vault.Address, body *OpRequest) (*position.Position, error)

func (p *Positions) amountOp(fn func(vault.Address, *uint256.Int) (*position.Position, error)) operation {
	return func(holder vault.Address, body *OpRequest) (*position.Position, error) {
		amount, err := utils.ParseAmount(body.Amount)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "amount"))
		}
		return fn(holder, amount)
	}
}

func (p *Positions) operations() map[string]operation {
	return map[string]operation{
		"stake": func(holder vault.Address, body *OpRequest) (*position.Position, error) {
			amount, err := utils.ParseAmount(body.Amount)
			if err != nil {
				return nil, utils.BadRequest(errors.WithMessage(err, "amount"))
			}
			return p.ledger.Stake(holder, amount, body.Lockup)
		},
		"increase-amount": p.amountOp(p.ledger.IncreaseAmount),
		"increase-lockup": func(holder vault.Address, body *OpRequest) (*position.Position, error) {
			return p.ledger.IncreaseLockup(holder, body.Lockup)
		},
		"initiate-unstake": p.amountOp(p.ledger.InitiateUnstake),
		"unstake":          p.amountOp(p.ledger.Unstake),
		"early-unstake":    p.amountOp(p.ledger.EarlyUnstake),
	}
}

func (p *Positions) handleOperation(op operation) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		addr, err := utils.AddressVar(req)
		if err != nil {
			return err
		}
		var body OpRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if _, err := op(addr, &body); err != nil {
			return err
		}
		view, err := p.ledger.Position(addr)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, convertPosition(view))
	}
}

func (p *Positions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /positions").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPositions))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /positions/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPosition))

	if !p.opsMode {
		return
	}
	for name, op := range p.operations() {
		sub.Path("/{address}/" + name).
			Methods(http.MethodPost).
			Name("POST /positions/{address}/" + name).
			HandlerFunc(utils.WrapHandlerFunc(p.handleOperation(op)))
	}
}
