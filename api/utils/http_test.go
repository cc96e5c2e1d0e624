// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapienio/stakevault/builtin/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("amount: missing")), http.StatusBadRequest, "amount: missing"},
		{"forbidden", Forbidden(errors.New("limit")), http.StatusForbidden, "limit"},
		{"status only", HTTPError(nil, http.StatusTeapot), http.StatusTeapot, ""},
		{"validation revert", reverts.New(reverts.Validation, "too small"), http.StatusBadRequest, "too small"},
		{"state revert", reverts.New(reverts.State, "still locked"), http.StatusConflict, "still locked"},
		{"wrapped revert", pkgerrors.WithMessage(reverts.New(reverts.Unauthorized, "nope"), "pause"), http.StatusForbidden, "pause: nope"},
		{"invariant revert", reverts.New(reverts.Invariant, "broken"), http.StatusInternalServerError, "broken"},
		{"plain error", errors.New("disk"), http.StatusInternalServerError, "disk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.body, strings.TrimSpace(rr.Body.String()))
		})
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(reverts.Overflow))
	assert.Equal(t, http.StatusBadRequest, StatusOf(reverts.Insufficient))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(reverts.Kind(42)))
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount((*math.HexOrDecimal256)(big.NewInt(1000)))
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1000), amount)

	_, err = ParseAmount(nil)
	assert.Error(t, err)
	_, err = ParseAmount((*math.HexOrDecimal256)(big.NewInt(-1)))
	assert.Error(t, err)
	_, err = ParseAmount((*math.HexOrDecimal256)(new(big.Int).Lsh(big.NewInt(1), 256)))
	assert.Error(t, err)

	assert.Nil(t, Amount(nil))
	assert.Equal(t, big.NewInt(7), (*big.Int)(Amount(uint256.NewInt(7))))
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}
