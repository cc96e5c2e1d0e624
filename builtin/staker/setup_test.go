// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapienio/stakevault/builtin/params"
	"github.com/sapienio/stakevault/builtin/staker/position"
	"github.com/sapienio/stakevault/builtin/token"
	"github.com/sapienio/stakevault/lvldb"
	"github.com/sapienio/stakevault/state"
	"github.com/sapienio/stakevault/vault"
)

const t0 = uint64(1_700_000_000)

var (
	admin     = vault.BytesToAddress([]byte("admin"))
	treasury  = vault.BytesToAddress([]byte("treasury"))
	authority = vault.BytesToAddress([]byte("authority"))
	alice     = vault.BytesToAddress([]byte("alice"))
	bob       = vault.BytesToAddress([]byte("bob"))
)

type testEnv struct {
	state  *state.State
	token  *token.Token
	staker *Staker
}

// newTestStaker returns an initialized staker with funded holders.
func newTestStaker(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	p := params.New(vault.ParamsAddress, st)
	p.Set(params.KeyAdmin, admin)
	p.Set(params.KeyTreasury, treasury)
	p.Set(params.KeyPenaltyAuthority, authority)

	tok := token.New(vault.TokenAddress, st)
	require.NoError(t, tok.Mint(alice, vault.Tokens(1_000_000)))
	require.NoError(t, tok.Mint(bob, vault.Tokens(1_000_000)))

	staker := New(vault.StakerAddress, st, tok, p)
	require.NoError(t, staker.Initialize())

	return &testEnv{state: st, token: tok, staker: staker}
}

func (e *testEnv) balance(t *testing.T, addr vault.Address) *uint256.Int {
	bal, err := e.token.BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	staker *Staker

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(staker *Staker) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), staker: staker}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(addr vault.Address, amount *uint256.Int, lockup, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		p, err := st.staker.Stake(addr, amount, lockup, now)
		if err != nil {
			t.Fatalf("failed to stake for %s: %v", addr, err)
		}
		t.Logf("staked %s for %s, multiplier %d", amount.Dec(), addr, p.Multiplier)
	})
}

func (st *TestSequence) IncreaseAmount(addr vault.Address, amount *uint256.Int, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.staker.IncreaseAmount(addr, amount, now); err != nil {
			t.Fatalf("failed to increase amount for %s: %v", addr, err)
		}
	})
}

func (st *TestSequence) InitiateUnstake(addr vault.Address, amount *uint256.Int, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.staker.InitiateUnstake(addr, amount, now); err != nil {
			t.Fatalf("failed to initiate unstake for %s: %v", addr, err)
		}
		t.Logf("cooldown initiated for %s", addr)
	})
}

func (st *TestSequence) Unstake(addr vault.Address, amount *uint256.Int, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.staker.Unstake(addr, amount, now); err != nil {
			t.Fatalf("failed to unstake for %s: %v", addr, err)
		}
		t.Logf("unstaked %s for %s", amount.Dec(), addr)
	})
}

func (st *TestSequence) EarlyUnstake(addr vault.Address, amount *uint256.Int, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.staker.EarlyUnstake(addr, amount, now); err != nil {
			t.Fatalf("failed to early unstake for %s: %v", addr, err)
		}
	})
}

func (st *TestSequence) Penalize(addr vault.Address, amount *uint256.Int, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		res, err := st.staker.ProcessPenalty(authority, addr, amount, now)
		if err != nil {
			t.Fatalf("failed to penalize %s: %v", addr, err)
		}
		t.Logf("penalized %s: seized %s (%s)", addr, res.Seized.Dec(), res.Status)
	})
}

func (st *TestSequence) Conserved() *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staker.CheckConservation(); err != nil {
			t.Fatalf("conservation broken: %v", err)
		}
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}

	t.Logf("All test functions executed successfully")
}

type PositionAssertions struct {
	staker *Staker
	addr   vault.Address
	now    uint64

	state      *position.State
	total      *uint256.Int
	cooldown   *uint256.Int
	multiplier *uint64
	lockup     *uint64
}

func AssertPosition(staker *Staker, addr vault.Address, now uint64) *PositionAssertions {
	return &PositionAssertions{staker: staker, addr: addr, now: now}
}

func (pa *PositionAssertions) State(expected position.State) *PositionAssertions {
	pa.state = &expected
	return pa
}

func (pa *PositionAssertions) Total(expected *uint256.Int) *PositionAssertions {
	pa.total = expected
	return pa
}

func (pa *PositionAssertions) Cooldown(expected *uint256.Int) *PositionAssertions {
	pa.cooldown = expected
	return pa
}

func (pa *PositionAssertions) Multiplier(expected uint64) *PositionAssertions {
	pa.multiplier = &expected
	return pa
}

func (pa *PositionAssertions) Lockup(expected uint64) *PositionAssertions {
	pa.lockup = &expected
	return pa
}

func (pa *PositionAssertions) Assert(t *testing.T) {
	p, err := pa.staker.GetPosition(pa.addr)
	require.NoError(t, err, "failed to get position %s", pa.addr)

	if pa.state != nil {
		assert.Equal(t, *pa.state, p.State(pa.now), "position %s state mismatch", pa.addr)
	}
	if pa.total != nil {
		assert.Equal(t, pa.total, p.TotalStaked, "position %s total mismatch", pa.addr)
	}
	if pa.cooldown != nil {
		assert.Equal(t, pa.cooldown, p.CooldownAmount, "position %s cooldown mismatch", pa.addr)
	}
	if pa.multiplier != nil {
		assert.Equal(t, *pa.multiplier, p.Multiplier, "position %s multiplier mismatch", pa.addr)
	}
	if pa.lockup != nil {
		assert.Equal(t, *pa.lockup, p.EffectiveLockup, "position %s lockup mismatch", pa.addr)
	}
	assert.NoError(t, p.Validate(), "position %s invalid", pa.addr)
}
