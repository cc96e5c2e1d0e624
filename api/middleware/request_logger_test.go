// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapienio/stakevault/log"
)

func TestRequestLoggerMiddleware(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	}
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		threshold time.Duration
		log5xx    bool
		status    int
		shouldLog bool
	}{
		{"enabled", ok, true, 0, false, http.StatusOK, true},
		{"disabled", ok, false, 0, false, http.StatusOK, false},
		{
			"slow request",
			func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(15 * time.Millisecond)
				ok(w, r)
			},
			false, 5 * time.Millisecond, false, http.StatusOK, true,
		},
		{"fast request", ok, false, time.Second, false, http.StatusOK, false},
		{
			"server error",
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			false, 0, true, http.StatusInternalServerError, true,
		},
		{
			"client error",
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusConflict)
			},
			false, 0, true, http.StatusConflict, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				buf   bytes.Buffer
				level slog.LevelVar
			)
			logger := log.NewLogger(log.JSONHandler(&buf, &level))
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(logger, &enabled, tt.threshold, tt.log5xx)(tt.handler)
			req := httptest.NewRequest(http.MethodPost, "http://example.com/positions", strings.NewReader(`{"amount":"0x1"}`))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			id := rr.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, id)

			if !tt.shouldLog {
				assert.Empty(t, buf.String())
				return
			}
			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, "API Request", record["msg"])
			assert.Equal(t, id, record["RequestID"])
			assert.Equal(t, "http://example.com/positions", record["URI"])
			assert.Equal(t, http.MethodPost, record["Method"])
			assert.Equal(t, float64(tt.status), record["Status"])
			assert.Equal(t, `{"amount":"0x1"}`, record["Body"])
		})
	}
}

func TestRequestLoggerMiddleware_KeepsRequestID(t *testing.T) {
	var enabled atomic.Bool
	logger := log.NewLogger(log.DiscardHandler())
	handler := RequestLoggerMiddleware(logger, &enabled, 0, false)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "abc", rr.Header().Get(RequestIDHeader))
}
