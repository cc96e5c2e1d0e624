// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sapienio/stakevault/api"
	"github.com/sapienio/stakevault/ledger"
	"github.com/sapienio/stakevault/log"
	"github.com/sapienio/stakevault/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "StakeVault",
		Usage:     "Time-locked staking ledger",
		Copyright: "2025 Sapienio <https://sapienio.com/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			memDBFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiOpsModeFlag,
			apiPositionsLimitFlag,
			apiEventsLimitFlag,
			apiBacklogLimitFlag,
			apiPenaltyBatchLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			skipNTPFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "migrate",
				Usage: "upgrade the ledger storage to the current schema",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					cacheFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: migrateAction,
			},
			{
				Name:  "check",
				Usage: "verify that positions, aggregate stake and token custody agree",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					cacheFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: checkAction,
			},
			{
				Name:  "sign-decision",
				Usage: "sign a penalty decision with a reviewer key and print it as JSON",
				Flags: []cli.Flag{
					genesisFlag,
					keyFlag,
					keyFileFlag,
					decisionIDFlag,
					accountFlag,
					amountFlag,
					expiryFlag,
					ttlFlag,
				},
				Action: signDecisionAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	var (
		instanceDir string
		st          *stores
	)
	if ctx.Bool(memDBFlag.Name) {
		instanceDir = "Memory"
		st, err = openMemStores()
	} else {
		if instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		st, err = openStores(ctx, instanceDir, false)
	}
	if err != nil {
		return err
	}
	defer st.Close()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	l, err := ledger.New(st.main, st.events, gene, ledger.Options{})
	if err != nil {
		return errors.Wrap(err, "open ledger")
	}

	if !ctx.Bool(skipNTPFlag.Name) {
		go checkClockOffset()
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, l)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	batchLimit, err := readIntFromUInt64Flag(ctx.Uint64(apiPenaltyBatchLimitFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse api-penalty-batch-limit flag")
	}

	apiHandler, apiCloser := api.New(l, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		OpsMode:              ctx.Bool(apiOpsModeFlag.Name),
		PositionsLimit:       ctx.Uint64(apiPositionsLimitFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		BacklogLimit:         ctx.Uint64(apiBacklogLimitFlag.Name),
		PenaltyBatchLimit:    batchLimit,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	defer func() { logger.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser, err := startAPIServer(ctx, apiHandler, gene.ID())
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(gene, l, instanceDir, apiURL, metricsURL, adminURL, ctx.Bool(apiOpsModeFlag.Name))
	if ctx.String(genesisFlag.Name) == "" {
		printDevAccounts()
	}

	<-exitSignal.Done()
	return nil
}

func migrateAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	if _, err := initLogger(ctx); err != nil {
		return err
	}
	l, st, err := openLedger(ctx, false)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Println(">> Migrating staker storage <<")
	bar := newProgressBar()
	report, err := l.Migrate(bar.update)
	bar.finish()
	if err != nil {
		return errors.Wrap(err, "migrate")
	}
	fmt.Printf("schema %d -> %d, migrated %d, repaired %d, dropped %d, total staked %v\n",
		report.From, report.To, report.Migrated, report.Repaired, report.Dropped, report.Total)

	if report.From != report.To {
		logger.Info("compacting main database...")
		if err := st.main.Compact(); err != nil {
			return err
		}
	}
	return nil
}

func checkAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	if _, err := initLogger(ctx); err != nil {
		return err
	}
	l, st, err := openLedger(ctx, true)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := l.CheckConservation(); err != nil {
		return errors.Wrap(err, "conservation check failed")
	}
	stats, err := l.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("ok: %d holders, total staked %v, custody %v, supply %v\n",
		stats.Holders, stats.TotalStaked, stats.Custody, stats.TotalSupply)

	if dbStats, err := st.main.Stats(); err != nil {
		logger.Warn("failed to read database stats", "err", err)
	} else {
		fmt.Printf("main database: %d bytes in %d tables\n", dbStats.LevelSizes.Sum(), dbStats.OpenedTablesCount)
	}
	return nil
}

func signDecisionAction(ctx *cli.Context) error {
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	key, err := loadReviewerKey(ctx.String(keyFlag.Name), ctx.String(keyFileFlag.Name), keyPrompt())
	if err != nil {
		return err
	}
	decision, err := parseDecision(decisionArgsFrom(ctx), uint64(time.Now().Unix()))
	if err != nil {
		return err
	}

	signed, err := signDecision(key, gene, decision)
	if err != nil {
		return err
	}
	out, err := encodeDecision(signed)
	if err != nil {
		return err
	}
	fmt.Println(strings.TrimSpace(string(out)))
	return nil
}
