// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package review

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/builtin/reverts"
	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/builtin/staker"
	"github.com/sapienio/stakevault/log"
	"github.com/sapienio/stakevault/state"
	"github.com/sapienio/stakevault/vault"
)

var (
	slotReviewers = vault.BytesToBytes32([]byte("reviewers"))
	slotProcessed = vault.BytesToBytes32([]byte("processed"))

	logger = log.WithContext("pkg", "review")
)

// Status is the outcome of one decision in a batch.
type Status string

const (
	StatusApplied         Status = "applied"
	StatusNoStake         Status = "no-stake"
	StatusBadSignature    Status = "bad-signature"
	StatusUnknownReviewer Status = "unknown-reviewer"
	StatusExpired         Status = "expired"
	StatusReplayed        Status = "replayed"
	StatusRejected        Status = "rejected"
)

// Outcome reports how a decision was handled.
type Outcome struct {
	ID       vault.Bytes32
	Account  vault.Address
	Reviewer vault.Address
	Status   Status
	Reason   string
	Penalty  *staker.PenaltyResult
}

// Penalizer applies penalties on behalf of the penalty authority.
type Penalizer interface {
	ProcessPenalty(caller, account vault.Address, requested *uint256.Int, now uint64) (*staker.PenaltyResult, error)
}

// Processor binder of the review registry. It holds the reviewer set and the record of consumed decisions,
// and calls the penalizer with its own address as the caller.
type Processor struct {
	addr      vault.Address
	state     *state.State
	penalizer Penalizer
	verifier  *Verifier
	reviewers *solidity.AddressSet
	processed *solidity.Mapping[vault.Bytes32, bool]
}

func NewProcessor(addr vault.Address, state *state.State, penalizer Penalizer, verifier *Verifier) *Processor {
	sctx := solidity.NewContext(addr, state)
	return &Processor{
		addr:      addr,
		state:     state,
		penalizer: penalizer,
		verifier:  verifier,
		reviewers: solidity.NewAddressSet(sctx, slotReviewers),
		processed: solidity.NewMapping[vault.Bytes32, bool](sctx, slotProcessed),
	}
}

// Address returns the caller address presented to the penalizer.
func (p *Processor) Address() vault.Address {
	return p.addr
}

// AddReviewer registers a reviewer. It returns false if already registered.
func (p *Processor) AddReviewer(reviewer vault.Address) (bool, error) {
	if reviewer.IsZero() {
		return false, errors.New("zero reviewer address")
	}
	return p.reviewers.Add(reviewer)
}

// RemoveReviewer unregisters a reviewer. It returns false if not registered.
func (p *Processor) RemoveReviewer(reviewer vault.Address) (bool, error) {
	return p.reviewers.Remove(reviewer)
}

func (p *Processor) IsReviewer(addr vault.Address) (bool, error) {
	return p.reviewers.Contains(addr)
}

// Reviewers lists the registered reviewers.
func (p *Processor) Reviewers() ([]vault.Address, error) {
	var list []vault.Address
	err := p.reviewers.Iterate(func(addr vault.Address) (bool, error) {
		list = append(list, addr)
		return true, nil
	})
	return list, err
}

// IsProcessed reports whether the decision id was already consumed.
func (p *Processor) IsProcessed(id vault.Bytes32) (bool, error) {
	return p.processed.Get(id)
}

// Process handles a batch of decisions in order. A decision that cannot be applied yields an outcome
// and never stops the batch; only storage failures are returned as errors.
func (p *Processor) Process(decisions []*SignedDecision, now uint64) ([]*Outcome, error) {
	outcomes := make([]*Outcome, 0, len(decisions))
	for _, d := range decisions {
		outcome, err := p.process(d, now)
		if err != nil {
			return nil, errors.Wrapf(err, "process decision %v", d.ID)
		}
		logger.Debug("decision processed", "id", d.ID, "account", d.Account, "status", outcome.Status)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (p *Processor) process(d *SignedDecision, now uint64) (*Outcome, error) {
	outcome := &Outcome{ID: d.ID, Account: d.Account}

	reviewer, err := p.verifier.Recover(d)
	if err != nil {
		outcome.Status, outcome.Reason = StatusBadSignature, err.Error()
		return outcome, nil
	}
	outcome.Reviewer = reviewer

	ok, err := p.reviewers.Contains(reviewer)
	if err != nil {
		return nil, err
	}
	if !ok {
		outcome.Status = StatusUnknownReviewer
		return outcome, nil
	}
	if now > d.Expiry {
		outcome.Status = StatusExpired
		return outcome, nil
	}
	done, err := p.processed.Get(d.ID)
	if err != nil {
		return nil, err
	}
	if done {
		outcome.Status = StatusReplayed
		return outcome, nil
	}

	revision := p.state.NewCheckpoint()
	res, err := p.penalizer.ProcessPenalty(p.addr, d.Account, d.Amount, now)
	if err != nil {
		p.state.RevertTo(revision)
		if reverts.IsRevertErr(err) {
			outcome.Status, outcome.Reason = StatusRejected, err.Error()
			return outcome, nil
		}
		return nil, err
	}
	if err := p.processed.Set(d.ID, true); err != nil {
		p.state.RevertTo(revision)
		return nil, err
	}

	outcome.Penalty = res
	outcome.Status = StatusApplied
	if res.Status == staker.PenaltyNone {
		outcome.Status = StatusNoStake
	}
	return outcome, nil
}
