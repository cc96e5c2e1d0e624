// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the operator endpoints. It is meant to listen on a local address only.
package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/sapienio/stakevault/ledger"
)

func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool, ledger *ledger.Ledger) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	NewLogLevel(logLevel).Mount(sub, "/loglevel")
	NewAPILogs(apiLogs).Mount(sub, "/apilogs")
	NewPause(ledger).Mount(sub, "/ledger")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
