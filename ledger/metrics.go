// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/sapienio/stakevault/metrics"

var (
	metricOpCount      = metrics.LazyLoadCounterVec("ledger_ops_count", []string{"op", "status"})
	metricOpDuration   = metrics.LazyLoadHistogramVec("ledger_op_duration_ms", []string{"op"}, metrics.BucketOps)
	metricEventCount   = metrics.LazyLoadCounter("ledger_events_count")
	metricPenaltyCount = metrics.LazyLoadCounter("ledger_penalties_count")
	metricHolders      = metrics.LazyLoadGauge("ledger_holders")
)
