// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapienio/stakevault/builtin/staker"
	"github.com/sapienio/stakevault/builtin/staker/position"
	"github.com/sapienio/stakevault/eventdb"
	"github.com/sapienio/stakevault/genesis"
	"github.com/sapienio/stakevault/lvldb"
	"github.com/sapienio/stakevault/review"
	"github.com/sapienio/stakevault/test/datagen"
	"github.com/sapienio/stakevault/vault"
)

type testClock struct{ t atomic.Uint64 }

func (c *testClock) now() uint64      { return c.t.Load() }
func (c *testClock) set(t uint64)     { c.t.Store(t) }
func (c *testClock) advance(d uint64) { c.t.Add(d) }

type testLedger struct {
	*Ledger
	db     *lvldb.LevelDB
	events *eventdb.EventDB
	clock  *testClock
}

func newTestLedger(t *testing.T) *testLedger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	clock := &testClock{}
	gen := genesis.NewDevnet()
	clock.set(gen.LaunchTime() + vault.Day)

	l, err := New(db, events, gen, Options{Clock: clock.now})
	require.NoError(t, err)
	return &testLedger{l, db, events, clock}
}

func holder(i int) vault.Address {
	return genesis.DevAccounts()[3+i].Address
}

func TestLedger_Genesis(t *testing.T) {
	l := newTestLedger(t)

	roles, err := l.Roles()
	require.NoError(t, err)
	assert.Equal(t, genesis.DevAccounts()[0].Address, roles.Admin)
	assert.Equal(t, vault.ReviewAddress, roles.PenaltyAuthority)

	bal, err := l.Balance(holder(0))
	require.NoError(t, err)
	assert.Equal(t, vault.Tokens(1_000_000), bal)

	reviewers, err := l.Reviewers()
	require.NoError(t, err)
	assert.Equal(t, []vault.Address{genesis.DevAccounts()[2].Address}, reviewers)

	// reopening with the same genesis succeeds, another genesis is refused
	_, err = New(l.db, nil, genesis.NewDevnet(), Options{Clock: l.clock.now})
	require.NoError(t, err)

	other, err := genesis.New("other", &genesis.Config{
		ChainID: 99,
		Roles:   genesis.Roles{Admin: datagen.RandAddress(), Treasury: datagen.RandAddress()},
	})
	require.NoError(t, err)
	_, err = New(l.db, nil, other, Options{})
	assert.ErrorIs(t, err, ErrGenesisMismatch)
}

func TestLedger_Lifecycle(t *testing.T) {
	l := newTestLedger(t)
	alice := holder(0)

	p, err := l.Stake(alice, vault.Tokens(2000), vault.LockupPeriod30Days)
	require.NoError(t, err)
	assert.Equal(t, vault.Tokens(2000), p.TotalStaked)

	view, err := l.Position(alice)
	require.NoError(t, err)
	assert.Equal(t, position.StateLocked, view.State)
	assert.Equal(t, vault.Tokens(2000), view.Locked)
	assert.Equal(t, vault.Tokens(1600), view.EarlyUnstakeValue)
	assert.Equal(t, p.UnlockTime(), view.UnlockTime)

	l.clock.advance(vault.LockupPeriod30Days)
	_, err = l.InitiateUnstake(alice, vault.Tokens(2000))
	require.NoError(t, err)

	view, err = l.Position(alice)
	require.NoError(t, err)
	assert.Equal(t, position.StateCooldown, view.State)
	assert.Equal(t, vault.Tokens(2000), view.PendingCooldown)

	_, err = l.Unstake(alice, vault.Tokens(2000))
	assert.ErrorIs(t, err, staker.ErrCooldownNotElapsed)

	l.clock.advance(vault.CooldownPeriod)
	_, err = l.Unstake(alice, vault.Tokens(2000))
	require.NoError(t, err)

	view, err = l.Position(alice)
	require.NoError(t, err)
	assert.Equal(t, position.StateEmpty, view.State)
	require.NoError(t, l.CheckConservation())

	events, err := l.events.Filter(context.Background(), &eventdb.Filter{Account: &alice})
	require.NoError(t, err)
	kinds := make([]string, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []string{
		string(staker.EventStakeChanged),
		string(staker.EventCooldownInitiated),
		string(staker.EventStakeChanged),
		string(staker.EventUnstaked),
		string(staker.EventStakeChanged),
	}, kinds)

	fed, missed := l.Feed().Since(0)
	assert.False(t, missed)
	assert.Len(t, fed, 5)
	assert.Equal(t, events[4].Seq, l.Feed().LastSeq())
}

func TestLedger_FailedOperationDoesNotCommit(t *testing.T) {
	l := newTestLedger(t)
	alice := holder(0)

	_, err := l.Stake(alice, vault.Tokens(2_000_000), vault.LockupPeriod30Days)
	require.Error(t, err)

	stats, err := l.Stats()
	require.NoError(t, err)
	assert.True(t, stats.TotalStaked.IsZero())
	assert.Zero(t, stats.Holders)
	assert.Zero(t, l.Feed().LastSeq())

	bal, err := l.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, vault.Tokens(1_000_000), bal)
}

func TestLedger_MonotonicClock(t *testing.T) {
	l := newTestLedger(t)
	alice := holder(0)
	start := l.clock.now()

	_, err := l.Stake(alice, vault.Tokens(1000), vault.LockupPeriod30Days)
	require.NoError(t, err)

	// clock jumps back
	l.clock.set(start - 10*vault.Day)
	assert.Equal(t, start, l.Now())

	p, err := l.IncreaseAmount(alice, vault.Tokens(1000))
	require.NoError(t, err)
	assert.Equal(t, start, p.LastUpdateTime)

	// the guard survives a restart
	reopened, err := New(l.db, nil, genesis.NewDevnet(), Options{Clock: l.clock.now})
	require.NoError(t, err)
	assert.Equal(t, start, reopened.Now())
}

func TestLedger_Mint(t *testing.T) {
	l := newTestLedger(t)
	to := datagen.RandAddress()

	require.NoError(t, l.Mint(to, vault.Tokens(5)))
	bal, err := l.Balance(to)
	require.NoError(t, err)
	assert.Equal(t, vault.Tokens(5), bal)

	assert.ErrorIs(t, l.Mint(vault.StakerAddress, vault.Tokens(5)), ErrBuiltinAddress)
	require.NoError(t, l.CheckConservation())
}

func TestLedger_CustodyCannotStake(t *testing.T) {
	l := newTestLedger(t)
	alice := holder(0)

	_, err := l.Stake(alice, vault.Tokens(5000), vault.LockupPeriod365Days)
	require.NoError(t, err)

	_, err = l.Stake(vault.StakerAddress, vault.Tokens(5000), vault.LockupPeriod365Days)
	assert.ErrorIs(t, err, staker.ErrBuiltinHolder)
	_, err = l.EarlyUnstake(vault.StakerAddress, vault.Tokens(5000))
	assert.ErrorIs(t, err, staker.ErrBuiltinHolder)

	custody, err := l.Balance(vault.StakerAddress)
	require.NoError(t, err)
	assert.Equal(t, vault.Tokens(5000), custody)
	require.NoError(t, l.CheckConservation())
}

func TestLedger_PauseAndPenalty(t *testing.T) {
	l := newTestLedger(t)
	admin := genesis.DevAccounts()[0].Address
	alice := holder(0)

	_, err := l.Stake(alice, vault.Tokens(3000), vault.LockupPeriod180Days)
	require.NoError(t, err)

	require.NoError(t, l.Pause(admin))
	_, err = l.Stake(alice, vault.Tokens(1000), vault.LockupPeriod30Days)
	assert.ErrorIs(t, err, staker.ErrPaused)

	// direct penalties need the authority, which is the review processor on devnet
	_, err = l.ProcessPenalty(admin, alice, vault.Tokens(1))
	assert.ErrorIs(t, err, staker.ErrUnauthorized)

	reviewer := review.NewSigner(genesis.DevAccounts()[2].PrivateKey, l.Domain())
	signed, err := reviewer.Sign(&review.Decision{
		ID:      datagen.RandomHash(),
		Account: alice,
		Amount:  vault.Tokens(500),
		Expiry:  l.Now() + vault.Day,
	})
	require.NoError(t, err)

	outcomes, err := l.ProcessDecisions([]*review.SignedDecision{signed, signed})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, review.StatusApplied, outcomes[0].Status)
	assert.Equal(t, review.StatusReplayed, outcomes[1].Status)

	require.NoError(t, l.Unpause(admin))

	stats, err := l.Stats()
	require.NoError(t, err)
	assert.Equal(t, vault.Tokens(2500), stats.TotalStaked)
	assert.Equal(t, vault.Tokens(500), stats.TotalPenalty)
	assert.Equal(t, stats.TotalStaked, stats.Custody)
	assert.False(t, stats.Paused)
	assert.Equal(t, staker.SchemaVersion, stats.SchemaVersion)
	assert.Equal(t, uint64(1), stats.Holders)

	treasury, err := l.Balance(genesis.DevAccounts()[1].Address)
	require.NoError(t, err)
	assert.Equal(t, vault.Tokens(500), treasury)
}

func TestLedger_Positions(t *testing.T) {
	l := newTestLedger(t)
	for i := range 3 {
		_, err := l.Stake(holder(i), vault.Tokens(uint64(1000*(i+1))), vault.LockupPeriod90Days)
		require.NoError(t, err)
	}

	all, err := l.Positions(0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := l.Positions(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, all[1].Holder, page[0].Holder)

	none, err := l.Positions(5, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLedger_ConcurrentWriters(t *testing.T) {
	l := newTestLedger(t)
	alice, bob := holder(0), holder(1)

	var wg sync.WaitGroup
	for range 10 {
		for _, h := range []vault.Address{alice, bob} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := l.Stake(h, vault.Tokens(1000), vault.LockupPeriod30Days)
				assert.NoError(t, err)
			}()
		}
	}
	wg.Wait()

	stats, err := l.Stats()
	require.NoError(t, err)
	assert.Equal(t, vault.Tokens(20_000), stats.TotalStaked)
	require.NoError(t, l.CheckConservation())
}

func TestLedger_Migrate(t *testing.T) {
	l := newTestLedger(t)

	report, err := l.Migrate(nil)
	require.NoError(t, err)
	assert.Equal(t, staker.SchemaVersion, report.From)
	assert.Equal(t, new(uint256.Int), report.Total)
}
