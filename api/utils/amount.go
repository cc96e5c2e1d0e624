// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/vault"
)

// Amount converts a ledger amount into its JSON form. nil stays nil.
func Amount(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}

// ParseAmount converts a request amount into a ledger amount.
func ParseAmount(v *math.HexOrDecimal256) (*uint256.Int, error) {
	if v == nil {
		return nil, errors.New("missing")
	}
	b := (*big.Int)(v)
	if b.Sign() < 0 {
		return nil, errors.New("negative")
	}
	amount, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("overflows 256 bits")
	}
	return amount, nil
}

// AddressVar reads the address path variable.
func AddressVar(req *http.Request) (vault.Address, error) {
	addr, err := vault.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return vault.Address{}, BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

// Uint64Query reads an optional unsigned query parameter.
func Uint64Query(req *http.Request, name string, def uint64) (uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}
