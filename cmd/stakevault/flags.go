// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sapienio/stakevault/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a YAML genesis file (devnet genesis if not set)",
	}
	memDBFlag = cli.BoolFlag{
		Name:  "mem-db",
		Usage: "keep the ledger in memory, nothing is persisted",
	}
	cacheFlag = cli.Uint64Flag{
		Name:  "cache",
		Usage: "megabytes of ram allocated to the ledger database cache",
		Value: 512,
	}

	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiOpsModeFlag = cli.BoolFlag{
		Name:  "api-ops-mode",
		Usage: "enable the state changing endpoints (stake, unstake, mint ...); callers are trusted",
	}
	apiPositionsLimitFlag = cli.Uint64Flag{
		Name:  "api-positions-limit",
		Value: 100,
		Usage: "limit the number of positions returned by /positions API",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	apiBacklogLimitFlag = cli.Uint64Flag{
		Name:  "api-backlog-limit",
		Value: 100,
		Usage: "limit the events replayed to a subscription resuming from an old position",
	}
	apiPenaltyBatchLimitFlag = cli.Uint64Flag{
		Name:  "api-penalty-batch-limit",
		Value: 256,
		Usage: "limit the decisions accepted by one /penalties request",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Usage: "only log requests slower than this many milliseconds (0 logs all of them)",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "always log requests answered with a 5xx status",
	}

	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}

	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}

	skipNTPFlag = cli.BoolFlag{
		Name:  "skip-ntp",
		Usage: "do not check the local clock against pool.ntp.org",
	}

	// sign-decision flags
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "hex encoded reviewer private key",
	}
	keyFileFlag = cli.StringFlag{
		Name:  "key-file",
		Usage: "file holding the hex encoded reviewer private key",
	}
	decisionIDFlag = cli.StringFlag{
		Name:  "id",
		Usage: "decision id (32 bytes hex, random if not set)",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "address of the penalized account",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "penalty amount in base units (decimal or 0x hex)",
	}
	expiryFlag = cli.Uint64Flag{
		Name:  "expiry",
		Usage: "unix time after which the decision is rejected",
	}
	ttlFlag = cli.Uint64Flag{
		Name:  "ttl",
		Value: 3600,
		Usage: "seconds from now until the decision expires, used when --expiry is not set",
	}
)
