// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger serves the staking ledger over a persistent store.
//
// Writers are serialized. Every operation runs against a fresh state over the store
// and its changes are committed in one batch only when it succeeds.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/builtin/params"
	"github.com/sapienio/stakevault/builtin/reverts"
	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/builtin/staker"
	"github.com/sapienio/stakevault/builtin/staker/position"
	"github.com/sapienio/stakevault/builtin/token"
	"github.com/sapienio/stakevault/eventdb"
	"github.com/sapienio/stakevault/genesis"
	"github.com/sapienio/stakevault/kv"
	"github.com/sapienio/stakevault/log"
	"github.com/sapienio/stakevault/review"
	"github.com/sapienio/stakevault/state"
	"github.com/sapienio/stakevault/vault"
)

var (
	logger = log.WithContext("pkg", "ledger")

	slotLastCommitTime = vault.BytesToBytes32([]byte("last-commit-time"))

	ErrGenesisMismatch = errors.New("store was created from a different genesis")
	ErrBuiltinAddress  = reverts.New(reverts.Validation, "builtin address not allowed")
)

// Clock returns the current unix time in seconds.
type Clock func() uint64

func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

type Options struct {
	Clock             Clock
	SignerCacheSize   int
	FeedCapacity      int
	EventWriteTimeout time.Duration
}

// Ledger owns the store and serializes writers.
type Ledger struct {
	db       kv.Store
	events   *eventdb.EventDB
	genesis  *genesis.Genesis
	verifier *review.Verifier
	clock    Clock
	feed     *Feed
	timeout  time.Duration

	mu       sync.RWMutex
	lastTime uint64
}

// runtime binds the builtins to one state.
type runtime struct {
	state     *state.State
	token     *token.Token
	params    *params.Params
	staker    *staker.Staker
	processor *review.Processor
	lastTime  *solidity.Raw[uint64]
}

// New opens the ledger on db, applying gen if db is empty. events may be nil.
func New(db kv.Store, events *eventdb.EventDB, gen *genesis.Genesis, opts Options) (*Ledger, error) {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.SignerCacheSize <= 0 {
		opts.SignerCacheSize = 1024
	}
	if opts.FeedCapacity <= 0 {
		opts.FeedCapacity = 1024
	}
	if opts.EventWriteTimeout <= 0 {
		opts.EventWriteTimeout = 5 * time.Second
	}

	verifier, err := review.NewVerifier(review.NewDomain(gen.ChainID(), vault.ReviewAddress), opts.SignerCacheSize)
	if err != nil {
		return nil, err
	}

	var lastSeq uint64
	if events != nil {
		if lastSeq, err = events.LastSeq(context.Background()); err != nil {
			return nil, errors.Wrap(err, "read event log")
		}
	}

	l := &Ledger{
		db:       db,
		events:   events,
		genesis:  gen,
		verifier: verifier,
		clock:    opts.Clock,
		feed:     NewFeed(opts.FeedCapacity, lastSeq),
		timeout:  opts.EventWriteTimeout,
	}
	if err := l.init(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) init() error {
	r := l.newRuntime()
	id, err := genesis.StoredID(r.state)
	if err != nil {
		return err
	}
	switch {
	case id.IsZero():
		if err := l.genesis.Apply(r.state); err != nil {
			return errors.Wrap(err, "apply genesis")
		}
		if err := r.lastTime.Upsert(l.genesis.LaunchTime()); err != nil {
			return err
		}
		if _, err := r.state.Stage().Commit(); err != nil {
			return errors.Wrap(err, "commit genesis")
		}
		logger.Info("genesis applied", "name", l.genesis.Name(), "id", l.genesis.ID(), "chainId", l.genesis.ChainID())
	case id != l.genesis.ID():
		return ErrGenesisMismatch
	}

	r = l.newRuntime()
	last, err := r.lastTime.Get()
	if err != nil {
		return err
	}
	l.lastTime = last
	return nil
}

func (l *Ledger) newRuntime() *runtime {
	st := state.New(l.db)
	tok := token.New(vault.TokenAddress, st)
	p := params.New(vault.ParamsAddress, st)
	stk := staker.New(vault.StakerAddress, st, tok, p)
	return &runtime{
		state:     st,
		token:     tok,
		params:    p,
		staker:    stk,
		processor: review.NewProcessor(vault.ReviewAddress, st, stk, l.verifier),
		lastTime:  solidity.NewRaw[uint64](solidity.NewContext(vault.ParamsAddress, st), slotLastCommitTime),
	}
}

// now never goes below the time of the last commit.
func (l *Ledger) now() uint64 {
	now := l.clock()
	if now < l.lastTime {
		return l.lastTime
	}
	return now
}

// write runs fn as one operation and commits it if fn succeeds.
func (l *Ledger) write(op string, fn func(r *runtime, now uint64) error) (err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			if reverts.IsRevertErr(err) {
				status = "revert"
			}
		}
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": status})
		metricOpDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	r := l.newRuntime()
	if err := fn(r, now); err != nil {
		return err
	}
	if err := r.lastTime.Upsert(now); err != nil {
		return err
	}
	stage := r.state.Stage()
	hash, err := stage.Commit()
	if err != nil {
		return errors.Wrap(err, "commit")
	}
	l.lastTime = now
	logger.Debug("committed", "op", op, "changes", stage.Len(), "hash", hash)

	l.publish(r.staker.Events())
	l.updateGauges(r)
	return nil
}

// read runs fn against a consistent view of the store.
func (l *Ledger) read(fn func(r *runtime, now uint64) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn(l.newRuntime(), l.now())
}

func (l *Ledger) publish(events []staker.Event) {
	if len(events) == 0 {
		return
	}
	records := make([]*eventdb.Event, 0, len(events))
	for _, ev := range events {
		records = append(records, &eventdb.Event{
			Kind:        string(ev.Kind),
			Account:     ev.Account,
			Amount:      ev.Amount,
			Penalty:     ev.Penalty,
			TotalStaked: ev.TotalStaked,
			Multiplier:  ev.Multiplier,
			Lockup:      ev.Lockup,
			Time:        ev.Time,
		})
	}
	if l.events != nil {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		if err := l.events.Insert(ctx, records); err != nil {
			// the state is committed, the log only misses these records
			logger.Error("failed to write event log", "err", err, "count", len(records))
			for _, rec := range records {
				rec.Seq = 0
			}
		}
	}
	l.feed.Publish(records)
	metricEventCount().Add(int64(len(records)))
}

func (l *Ledger) updateGauges(r *runtime) {
	if holders, err := r.staker.HolderCount(); err == nil {
		metricHolders().Set(int64(holders))
	}
}

// Genesis returns the genesis the ledger was created from.
func (l *Ledger) Genesis() *genesis.Genesis { return l.genesis }

// Domain returns the review domain decisions must be signed for.
func (l *Ledger) Domain() review.Domain { return l.verifier.Domain() }

// Feed returns the live event feed.
func (l *Ledger) Feed() *Feed { return l.feed }

// EventDB returns the event log, nil if disabled.
func (l *Ledger) EventDB() *eventdb.EventDB { return l.events }

// Now returns the time the next operation would run at.
func (l *Ledger) Now() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.now()
}

//
// Holder operations
//

func (l *Ledger) Stake(holder vault.Address, amount *uint256.Int, lockup uint64) (p *position.Position, err error) {
	err = l.write("stake", func(r *runtime, now uint64) error {
		p, err = r.staker.Stake(holder, amount, lockup, now)
		return err
	})
	return
}

func (l *Ledger) IncreaseAmount(holder vault.Address, amount *uint256.Int) (p *position.Position, err error) {
	err = l.write("increase_amount", func(r *runtime, now uint64) error {
		p, err = r.staker.IncreaseAmount(holder, amount, now)
		return err
	})
	return
}

func (l *Ledger) IncreaseLockup(holder vault.Address, extra uint64) (p *position.Position, err error) {
	err = l.write("increase_lockup", func(r *runtime, now uint64) error {
		p, err = r.staker.IncreaseLockup(holder, extra, now)
		return err
	})
	return
}

func (l *Ledger) InitiateUnstake(holder vault.Address, amount *uint256.Int) (p *position.Position, err error) {
	err = l.write("initiate_unstake", func(r *runtime, now uint64) error {
		p, err = r.staker.InitiateUnstake(holder, amount, now)
		return err
	})
	return
}

func (l *Ledger) Unstake(holder vault.Address, amount *uint256.Int) (p *position.Position, err error) {
	err = l.write("unstake", func(r *runtime, now uint64) error {
		p, err = r.staker.Unstake(holder, amount, now)
		return err
	})
	return
}

func (l *Ledger) EarlyUnstake(holder vault.Address, amount *uint256.Int) (p *position.Position, err error) {
	err = l.write("early_unstake", func(r *runtime, now uint64) error {
		p, err = r.staker.EarlyUnstake(holder, amount, now)
		return err
	})
	return
}

//
// Privileged operations
//

func (l *Ledger) Pause(caller vault.Address) error {
	return l.write("pause", func(r *runtime, now uint64) error {
		return r.staker.Pause(caller, now)
	})
}

func (l *Ledger) Unpause(caller vault.Address) error {
	return l.write("unpause", func(r *runtime, now uint64) error {
		return r.staker.Unpause(caller, now)
	})
}

// ProcessPenalty applies a penalty directly as caller, which must hold the penalty authority role.
func (l *Ledger) ProcessPenalty(caller, account vault.Address, amount *uint256.Int) (res *staker.PenaltyResult, err error) {
	err = l.write("penalty", func(r *runtime, now uint64) error {
		res, err = r.staker.ProcessPenalty(caller, account, amount, now)
		return err
	})
	if err == nil && !res.Seized.IsZero() {
		metricPenaltyCount().Add(1)
	}
	return
}

// ProcessDecisions applies a batch of signed review decisions in one commit.
func (l *Ledger) ProcessDecisions(decisions []*review.SignedDecision) (outcomes []*review.Outcome, err error) {
	err = l.write("decisions", func(r *runtime, now uint64) error {
		outcomes, err = r.processor.Process(decisions, now)
		return err
	})
	return
}

// Mint credits tokens to a holder account.
func (l *Ledger) Mint(to vault.Address, amount *uint256.Int) error {
	if vault.IsBuiltin(to) {
		return ErrBuiltinAddress
	}
	return l.write("mint", func(r *runtime, _ uint64) error {
		return r.token.Mint(to, amount)
	})
}

// Migrate upgrades the staker storage to the current schema.
func (l *Ledger) Migrate(progress func(done, total uint64)) (report *staker.MigrationReport, err error) {
	err = l.write("migrate", func(r *runtime, now uint64) error {
		report, err = r.staker.Migrate(now, progress)
		return err
	})
	return
}

//
// Queries
//

func (l *Ledger) Position(holder vault.Address) (v *PositionView, err error) {
	err = l.read(func(r *runtime, now uint64) error {
		p, err := r.staker.GetPosition(holder)
		if err != nil {
			return err
		}
		v = newPositionView(holder, p, now, earlyPayout)
		return nil
	})
	return
}

// Positions lists active positions, visiting at most limit holders after skipping offset.
func (l *Ledger) Positions(offset, limit uint64) (views []*PositionView, err error) {
	err = l.read(func(r *runtime, now uint64) error {
		var i uint64
		return r.staker.Positions(func(holder vault.Address, p *position.Position) bool {
			defer func() { i++ }()
			if i < offset {
				return true
			}
			if limit > 0 && uint64(len(views)) >= limit {
				return false
			}
			views = append(views, newPositionView(holder, p, now, earlyPayout))
			return true
		})
	})
	return
}

func (l *Ledger) Stats() (s *Stats, err error) {
	err = l.read(func(r *runtime, now uint64) error {
		s = &Stats{Time: now}
		if s.TotalStaked, err = r.staker.TotalStaked(); err != nil {
			return err
		}
		if s.TotalPenalty, err = r.staker.TotalPenalty(); err != nil {
			return err
		}
		if s.Custody, err = r.staker.CustodyBalance(); err != nil {
			return err
		}
		if s.TotalSupply, err = r.token.TotalSupply(); err != nil {
			return err
		}
		if s.Holders, err = r.staker.HolderCount(); err != nil {
			return err
		}
		if s.Paused, err = r.staker.IsPaused(); err != nil {
			return err
		}
		s.SchemaVersion, err = r.staker.SchemaVersion()
		return err
	})
	return
}

func (l *Ledger) Balance(addr vault.Address) (bal *uint256.Int, err error) {
	err = l.read(func(r *runtime, _ uint64) error {
		bal, err = r.token.BalanceOf(addr)
		return err
	})
	return
}

func (l *Ledger) Roles() (roles *staker.Roles, err error) {
	err = l.read(func(r *runtime, _ uint64) error {
		roles, err = r.staker.Roles()
		return err
	})
	return
}

func (l *Ledger) Reviewers() (list []vault.Address, err error) {
	err = l.read(func(r *runtime, _ uint64) error {
		list, err = r.processor.Reviewers()
		return err
	})
	return
}

// CheckConservation verifies that positions, aggregate and custody agree.
func (l *Ledger) CheckConservation() error {
	return l.read(func(r *runtime, _ uint64) error {
		return r.staker.CheckConservation()
	})
}

func earlyPayout(amount *uint256.Int) *uint256.Int {
	payout, _ := staker.EarlyUnstakeSplit(amount)
	return payout
}
