// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/ledger"
	"github.com/sapienio/stakevault/vault"
)

type PauseRequest struct {
	Caller vault.Address `json:"caller"`
}

type PauseStatus struct {
	Paused bool `json:"paused"`
}

// Pause exposes the emergency pause. The caller must hold the admin role.
type Pause struct {
	ledger *ledger.Ledger
}

func NewPause(ledger *ledger.Ledger) *Pause {
	return &Pause{ledger}
}

func (p *Pause) status(w http.ResponseWriter) error {
	stats, err := p.ledger.Stats()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &PauseStatus{Paused: stats.Paused})
}

func (p *Pause) handler(fn func(vault.Address) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req PauseRequest
		if err := utils.ParseJSON(r.Body, &req); err != nil {
			return utils.BadRequest(err)
		}
		if err := fn(req.Caller); err != nil {
			return err
		}
		logger.Info("pause state changed", "caller", req.Caller, "path", r.URL.Path)
		return p.status(w)
	}
}

func (p *Pause) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/paused").
		Methods(http.MethodGet).
		Name("get-paused").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return p.status(w)
		}))
	sub.Path("/pause").
		Methods(http.MethodPost).
		Name("post-pause").
		HandlerFunc(utils.WrapHandlerFunc(p.handler(p.ledger.Pause)))
	sub.Path("/unpause").
		Methods(http.MethodPost).
		Name("post-unpause").
		HandlerFunc(utils.WrapHandlerFunc(p.handler(p.ledger.Unpause)))
}
