// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/sapienio/stakevault/api/events"
	"github.com/sapienio/stakevault/api/middleware"
	"github.com/sapienio/stakevault/api/penalties"
	"github.com/sapienio/stakevault/api/positions"
	"github.com/sapienio/stakevault/api/stats"
	"github.com/sapienio/stakevault/api/subscriptions"
	"github.com/sapienio/stakevault/api/tokens"
	"github.com/sapienio/stakevault/ledger"
	"github.com/sapienio/stakevault/log"
	"github.com/sapienio/stakevault/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	OpsMode              bool
	PositionsLimit       uint64
	EventsLimit          uint64
	BacklogLimit         uint64
	PenaltyBatchLimit    int
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
}

func (o *Options) defaults() {
	if o.PositionsLimit == 0 {
		o.PositionsLimit = 100
	}
	if o.EventsLimit == 0 {
		o.EventsLimit = 1000
	}
	if o.BacklogLimit == 0 {
		o.BacklogLimit = 100
	}
	if o.PenaltyBatchLimit == 0 {
		o.PenaltyBatchLimit = 256
	}
	if o.EnableReqLogger == nil {
		o.EnableReqLogger = &atomic.Bool{}
	}
}

// New return api router
func New(l *ledger.Ledger, opts Options) (http.HandlerFunc, func()) {
	opts.defaults()

	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	positions.New(l, opts.PositionsLimit, opts.OpsMode).
		Mount(router, "/positions")
	penalties.New(l, opts.PenaltyBatchLimit).
		Mount(router, "/penalties")
	stats.New(l).
		Mount(router, "/stats")
	tokens.New(l, opts.OpsMode).
		Mount(router, "/tokens")
	events.New(l.EventDB(), opts.EventsLimit).
		Mount(router, "/events")
	subs := subscriptions.New(l.Feed(), l.EventDB(), origins, opts.BacklogLimit)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Path("/metrics").
			Methods(http.MethodGet).
			Name("GET /metrics").
			Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)(handler)
	handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	logger.Debug("api routes mounted", "opsMode", opts.OpsMode, "metrics", opts.EnableMetrics)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
