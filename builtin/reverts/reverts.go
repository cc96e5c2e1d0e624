// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was rejected.
type Kind uint8

const (
	// Validation covers bad input, rejected before any mutation.
	Validation Kind = iota + 1
	// State covers operations attempted in the wrong lockup or cooldown state.
	State
	// Overflow covers inputs too large for the position's current weight.
	Overflow
	// Insufficient covers amounts exceeding the available balance.
	Insufficient
	// Unauthorized covers callers lacking the required role.
	Unauthorized
	// Invariant covers a computation that would break a record invariant.
	Invariant
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case State:
		return "state"
	case Overflow:
		return "overflow"
	case Insufficient:
		return "insufficient"
	case Unauthorized:
		return "unauthorized"
	case Invariant:
		return "invariant"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	if errors.As(e, &ve) {
		return ve != nil
	}
	return false
}

// KindOf returns the kind of the revert wrapped in err.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) && ve != nil {
		return ve.kind, true
	}
	return 0, false
}
