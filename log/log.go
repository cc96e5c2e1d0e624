// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides leveled, structured loggers for the stakevault packages.
// Handlers filter on a *slog.LevelVar, so the level can be switched at runtime.
package log

import (
	"context"
	"log/slog"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Levels.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Legacy verbosity levels accepted on the command line.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Logger is the logging interface used across the module.
type Logger = ethlog.Logger

type rootHolder struct{ Logger }

var root atomic.Value

func init() {
	root.Store(rootHolder{ethlog.NewLogger(ethlog.DiscardHandler())})
}

// Root returns the root logger.
func Root() Logger {
	return root.Load().(rootHolder).Logger
}

// SetDefault replaces the root logger. Loggers created by WithContext pick up
// the new root on their next call.
func SetDefault(l Logger) {
	root.Store(rootHolder{l})
}

// NewLogger creates a logger on top of the given handler.
func NewLogger(h slog.Handler) Logger {
	return ethlog.NewLogger(h)
}

// WithContext returns a logger carrying the given key/value context.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

// FromLegacyLevel converts a 0..5 verbosity into a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	return ethlog.FromLegacyLevel(lvl)
}

// contextLogger resolves the root lazily, so package level loggers declared
// before SetDefault still end up on the configured handler.
type contextLogger struct {
	ctx []any
}

func (l *contextLogger) logger() Logger {
	return Root().With(l.ctx...)
}

func (l *contextLogger) With(ctx ...any) ethlog.Logger {
	return &contextLogger{ctx: append(append([]any{}, l.ctx...), ctx...)}
}

func (l *contextLogger) New(ctx ...any) ethlog.Logger {
	return l.With(ctx...)
}

func (l *contextLogger) Log(level slog.Level, msg string, ctx ...any) {
	l.logger().Log(level, msg, ctx...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) { l.logger().Trace(msg, ctx...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { l.logger().Debug(msg, ctx...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { l.logger().Info(msg, ctx...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { l.logger().Warn(msg, ctx...) }
func (l *contextLogger) Error(msg string, ctx ...any) { l.logger().Error(msg, ctx...) }
func (l *contextLogger) Crit(msg string, ctx ...any)  { l.logger().Crit(msg, ctx...) }

func (l *contextLogger) Write(level slog.Level, msg string, attrs ...any) {
	l.logger().Write(level, msg, attrs...)
}

func (l *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.logger().Enabled(ctx, level)
}

func (l *contextLogger) Handler() slog.Handler {
	return l.logger().Handler()
}
