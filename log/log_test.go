// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsRoot(t *testing.T) {
	logger := WithContext("pkg", "test")

	old := Root()
	defer SetDefault(old)

	var level slog.LevelVar
	level.Set(FromLegacyLevel(LegacyLevelDebug))
	buf := &bytes.Buffer{}
	SetDefault(NewLogger(JSONHandler(buf, &level)))

	logger.Info("staked", "amount", 42)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "staked", record["msg"])
	assert.Equal(t, "test", record["pkg"])
	assert.Equal(t, float64(42), record["amount"])
}

func TestLevelFilter(t *testing.T) {
	old := Root()
	defer SetDefault(old)

	var level slog.LevelVar
	level.Set(FromLegacyLevel(LegacyLevelWarn))
	buf := &bytes.Buffer{}
	SetDefault(NewLogger(JSONHandler(buf, &level)))

	logger := WithContext("pkg", "test").With("sub", "x")
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), `"sub":"x"`)
}

func TestLevelSwitch(t *testing.T) {
	tests := []struct {
		name    string
		handler func(buf *bytes.Buffer, level *slog.LevelVar) slog.Handler
	}{
		{"json", func(buf *bytes.Buffer, level *slog.LevelVar) slog.Handler { return JSONHandler(buf, level) }},
		{"terminal", func(buf *bytes.Buffer, level *slog.LevelVar) slog.Handler { return TerminalHandler(buf, level, false) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var level slog.LevelVar
			level.Set(LevelInfo)
			buf := &bytes.Buffer{}
			logger := NewLogger(tt.handler(buf, &level)).With("pkg", "test")

			logger.Debug("before switch")
			assert.Zero(t, buf.Len())

			level.Set(LevelDebug)
			logger.Debug("after switch")
			assert.Contains(t, buf.String(), "after switch")
			assert.NotContains(t, buf.String(), "before switch")

			buf.Reset()
			level.Set(LevelError)
			logger.Warn("muted")
			assert.Zero(t, buf.Len())
		})
	}
}

func TestJSONHandlerFormatsAmounts(t *testing.T) {
	var level slog.LevelVar
	buf := &bytes.Buffer{}
	logger := NewLogger(JSONHandler(buf, &level))

	logger.Info("staked", "amount", uint256.NewInt(5000))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "5000", record["amount"])
	assert.Equal(t, "info", record["lvl"])
	assert.Contains(t, record, "t")
}
