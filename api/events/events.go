// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/eventdb"
	"github.com/sapienio/stakevault/vault"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

// parseFilter reads account, kind (comma separated), from, to, order, offset and limit.
func (e *Events) parseFilter(req *http.Request) (*eventdb.Filter, error) {
	query := req.URL.Query()
	filter := &eventdb.Filter{Order: eventdb.ASC}

	if s := query.Get("account"); s != "" {
		addr, err := vault.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "account"))
		}
		filter.Account = &addr
	}
	if s := query.Get("kind"); s != "" {
		for _, kind := range strings.Split(s, ",") {
			if kind = strings.TrimSpace(kind); kind != "" {
				filter.Kinds = append(filter.Kinds, kind)
			}
		}
	}

	from, err := utils.Uint64Query(req, "from", 0)
	if err != nil {
		return nil, err
	}
	to, err := utils.Uint64Query(req, "to", 0)
	if err != nil {
		return nil, err
	}
	if query.Has("from") || query.Has("to") {
		if query.Has("to") && to < from {
			return nil, utils.BadRequest(errors.New("to must be greater than or equal to from"))
		}
		filter.Range = &eventdb.Range{From: from, To: to}
	}

	switch order := eventdb.Order(strings.ToLower(query.Get("order"))); order {
	case "", eventdb.ASC:
	case eventdb.DESC:
		filter.Order = eventdb.DESC
	default:
		return nil, utils.BadRequest(fmt.Errorf("order: unsupported value %q", order))
	}

	offset, err := utils.Uint64Query(req, "offset", 0)
	if err != nil {
		return nil, err
	}
	limit, err := utils.Uint64Query(req, "limit", e.limit)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		return nil, utils.BadRequest(errors.New("limit must be greater than zero"))
	}
	if limit > e.limit {
		return nil, utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	filter.Options = &eventdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	if e.db == nil {
		return utils.NotFound(errors.New("event log is disabled"))
	}
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	events, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	list := make([]*Event, 0, len(events))
	for _, ev := range events {
		list = append(list, ConvertEvent(ev))
	}
	return utils.WriteJSON(w, list)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
