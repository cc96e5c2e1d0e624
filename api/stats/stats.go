// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stats

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"golang.org/x/sync/singleflight"

	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/ledger"
	"github.com/sapienio/stakevault/vault"
)

type Roles struct {
	Admin            vault.Address `json:"admin"`
	Treasury         vault.Address `json:"treasury"`
	PenaltyAuthority vault.Address `json:"penaltyAuthority"`
}

type Stats struct {
	GenesisID     vault.Bytes32         `json:"genesisId"`
	ChainID       uint64                `json:"chainId"`
	TotalStaked   *math.HexOrDecimal256 `json:"totalStaked"`
	TotalPenalty  *math.HexOrDecimal256 `json:"totalPenalty"`
	Custody       *math.HexOrDecimal256 `json:"custody"`
	TotalSupply   *math.HexOrDecimal256 `json:"totalSupply"`
	Holders       uint64                `json:"holders"`
	Paused        bool                  `json:"paused"`
	SchemaVersion uint64                `json:"schemaVersion"`
	Roles         *Roles                `json:"roles"`
	Time          uint64                `json:"time"`
}

type StatsAPI struct {
	ledger *ledger.Ledger
	// concurrent pollers share one ledger read
	group singleflight.Group
}

func New(ledger *ledger.Ledger) *StatsAPI {
	return &StatsAPI{ledger: ledger}
}

func (s *StatsAPI) load() (*Stats, error) {
	v, err, _ := s.group.Do("stats", func() (any, error) {
		return s.read()
	})
	if err != nil {
		return nil, err
	}
	return v.(*Stats), nil
}

func (s *StatsAPI) read() (*Stats, error) {
	st, err := s.ledger.Stats()
	if err != nil {
		return nil, err
	}
	roles, err := s.ledger.Roles()
	if err != nil {
		return nil, err
	}
	gen := s.ledger.Genesis()
	return &Stats{
		GenesisID:     gen.ID(),
		ChainID:       gen.ChainID(),
		TotalStaked:   utils.Amount(st.TotalStaked),
		TotalPenalty:  utils.Amount(st.TotalPenalty),
		Custody:       utils.Amount(st.Custody),
		TotalSupply:   utils.Amount(st.TotalSupply),
		Holders:       st.Holders,
		Paused:        st.Paused,
		SchemaVersion: st.SchemaVersion,
		Roles: &Roles{
			Admin:            roles.Admin,
			Treasury:         roles.Treasury,
			PenaltyAuthority: roles.PenaltyAuthority,
		},
		Time: st.Time,
	}, nil
}

func (s *StatsAPI) handleGetStats(w http.ResponseWriter, _ *http.Request) error {
	stats, err := s.load()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, stats)
}

func (s *StatsAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /stats").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStats))
}
