// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/ledger"
	"github.com/sapienio/stakevault/vault"
)

type Account struct {
	Address vault.Address         `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type MintRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Tokens struct {
	ledger  *ledger.Ledger
	opsMode bool
}

func New(ledger *ledger.Ledger, opsMode bool) *Tokens {
	return &Tokens{
		ledger,
		opsMode,
	}
}

func (t *Tokens) account(w http.ResponseWriter, addr vault.Address) error {
	bal, err := t.ledger.Balance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Address: addr, Balance: utils.Amount(bal)})
}

func (t *Tokens) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	return t.account(w, addr)
}

func (t *Tokens) handleMint(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	var body MintRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	if err := t.ledger.Mint(addr, amount); err != nil {
		return err
	}
	return t.account(w, addr)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAccount))

	if t.opsMode {
		sub.Path("/{address}/mint").
			Methods(http.MethodPost).
			Name("POST /tokens/{address}/mint").
			HandlerFunc(utils.WrapHandlerFunc(t.handleMint))
	}
}
