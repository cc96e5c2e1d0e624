// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/builtin/staker/position"
	"github.com/sapienio/stakevault/vault"
)

// positionV1 is the record layout of schema version 1, before LastUpdateTime was tracked.
type positionV1 struct {
	TotalStaked       *uint256.Int
	WeightedStartTime uint64
	EffectiveLockup   uint64
	Multiplier        uint64
	CooldownAmount    *uint256.Int
	CooldownStart     uint64
}

// MigrationReport summarizes a Migrate run.
type MigrationReport struct {
	From     uint64
	To       uint64
	Migrated uint64       // records rewritten in the current layout
	Repaired uint64       // records whose multiplier was invalid and got recomputed
	Dropped  uint64       // zero-total records removed
	Total    *uint256.Int // recomputed aggregate
}

// Migrate rewrites version 1 records into the current layout. Running it on an up to date store is a no-op.
// progress, if not nil, is called after each record.
func (s *Staker) Migrate(now uint64, progress func(done, total uint64)) (*MigrationReport, error) {
	var report *MigrationReport
	err := s.atomic(func() error {
		version, err := s.storage.SchemaVersion()
		if err != nil {
			return err
		}
		if version == SchemaVersion {
			total, err := s.TotalStaked()
			if err != nil {
				return err
			}
			report = &MigrationReport{From: version, To: version, Total: total}
			return nil
		}
		if version != 1 {
			return errors.Errorf("unsupported schema version %d", version)
		}

		var holders []vault.Address
		if err := s.storage.holders.Iterate(func(addr vault.Address) (bool, error) {
			holders = append(holders, addr)
			return true, nil
		}); err != nil {
			return err
		}

		legacy := solidity.NewMapping[vault.Address, *positionV1](s.storage.context, slotPositions)
		report = &MigrationReport{From: version, To: SchemaVersion, Total: new(uint256.Int)}

		for i, holder := range holders {
			old, err := legacy.Get(holder)
			if err != nil {
				return errors.Wrapf(err, "decode legacy position %v", holder)
			}
			upgraded := upgradePosition(old, now)
			if upgraded.IsEmpty() {
				report.Dropped++
				logger.Debug("dropping zombie position", "holder", holder)
			} else {
				if old.Multiplier != upgraded.Multiplier {
					report.Repaired++
					logger.Debug("repaired multiplier", "holder", holder, "from", old.Multiplier, "to", upgraded.Multiplier)
				}
				report.Migrated++
				report.Total.Add(report.Total, upgraded.TotalStaked)
			}
			if err := s.storage.SetPosition(holder, upgraded); err != nil {
				return errors.Wrapf(err, "migrate position %v", holder)
			}
			if progress != nil {
				progress(uint64(i+1), uint64(len(holders)))
			}
		}

		s.globalStatsService.Reset(report.Total)
		if err := s.storage.SetSchemaVersion(SchemaVersion); err != nil {
			return err
		}

		logger.Info("migrated staker storage", "from", report.From, "to", report.To,
			"migrated", report.Migrated, "repaired", report.Repaired, "dropped", report.Dropped)
		s.emit(Event{Kind: EventMigrated, TotalStaked: report.Total.Clone(), Time: now})
		return nil
	})
	return report, err
}

func upgradePosition(old *positionV1, now uint64) *position.Position {
	if old.TotalStaked == nil || old.TotalStaked.IsZero() {
		return position.Empty()
	}
	p := &position.Position{
		TotalStaked:       old.TotalStaked.Clone(),
		WeightedStartTime: old.WeightedStartTime,
		EffectiveLockup:   old.EffectiveLockup,
		Multiplier:        old.Multiplier,
		CooldownAmount:    new(uint256.Int),
		CooldownStart:     old.CooldownStart,
		LastUpdateTime:    now,
	}
	if old.CooldownAmount != nil {
		p.CooldownAmount.Set(old.CooldownAmount)
	}
	if p.CooldownAmount.Gt(p.TotalStaked) {
		p.CooldownAmount.Set(p.TotalStaked)
	}
	if p.CooldownAmount.IsZero() {
		p.CooldownStart = 0
	}
	if p.EffectiveLockup > vault.MaxLockupPeriod {
		p.EffectiveLockup = vault.MaxLockupPeriod
	}
	if p.Multiplier < vault.MinMultiplier || p.Multiplier > vault.MaxMultiplier {
		p.Multiplier = recompute(p)
	}
	return p
}
