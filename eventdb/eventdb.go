// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists committed ledger events in sqlite.
package eventdb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/sapienio/stakevault/vault"
)

const insertEvent = "INSERT INTO event(kind, account, amount, penalty, totalStaked, multiplier, lockup, time) VALUES(?,?,?,?,?,?,?,?)"

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// an in-memory database lives as long as its connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Insert appends events in one transaction and assigns their sequence numbers.
func (db *EventDB) Insert(ctx context.Context, events []*Event) (err error) {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertEvent)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		res, err := stmt.ExecContext(ctx,
			ev.Kind,
			ev.Account.Bytes(),
			amountValue(ev.Amount),
			amountValue(ev.Penalty),
			amountValue(ev.TotalStaked),
			ev.Multiplier,
			ev.Lockup,
			ev.Time,
		)
		if err != nil {
			return err
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return err
		}
		ev.Seq = uint64(seq)
	}
	return tx.Commit()
}

// Filter returns events matching filter. A nil filter returns all events in ascending order.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ? "
	}
	if len(filter.Kinds) > 0 {
		stmt += " AND kind IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filter.Kinds)), ",") + ") "
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND time >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND time <= ? "
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

// Since returns at most limit events with a sequence number above seq, in ascending order.
func (db *EventDB) Since(ctx context.Context, seq uint64, limit uint64) ([]*Event, error) {
	return db.queryEvents(ctx, "SELECT * FROM event WHERE seq > ? ORDER BY seq ASC limit ?", seq, limit)
}

// LastSeq returns the sequence number of the newest event, zero if none.
func (db *EventDB) LastSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq.Int64), nil
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq         uint64
			kind        string
			account     []byte
			amount      []byte
			penalty     []byte
			totalStaked []byte
			multiplier  uint64
			lockup      uint64
			time        uint64
		)
		if err := rows.Scan(
			&seq,
			&kind,
			&account,
			&amount,
			&penalty,
			&totalStaked,
			&multiplier,
			&lockup,
			&time,
		); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			Seq:         seq,
			Kind:        kind,
			Account:     vault.BytesToAddress(account),
			Amount:      new(uint256.Int).SetBytes(amount),
			Penalty:     new(uint256.Int).SetBytes(penalty),
			TotalStaked: new(uint256.Int).SetBytes(totalStaked),
			Multiplier:  multiplier,
			Lockup:      lockup,
			Time:        time,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func amountValue(v *uint256.Int) []byte {
	if v == nil || v.IsZero() {
		return nil
	}
	return v.Bytes()
}
