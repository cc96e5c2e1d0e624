// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"sync"

	"github.com/sapienio/stakevault/co"
	"github.com/sapienio/stakevault/eventdb"
)

// Feed keeps the most recent committed events and wakes subscribers on every publish.
type Feed struct {
	mu       sync.RWMutex
	buf      []*eventdb.Event
	capacity int
	seq      uint64
	bcast    co.Broadcaster
}

func NewFeed(capacity int, lastSeq uint64) *Feed {
	if capacity <= 0 {
		capacity = 1
	}
	return &Feed{capacity: capacity, seq: lastSeq}
}

// Publish appends events. Events without a sequence number get the next one.
func (f *Feed) Publish(events []*eventdb.Event) {
	if len(events) == 0 {
		return
	}
	f.mu.Lock()
	for _, ev := range events {
		if ev.Seq == 0 {
			ev.Seq = f.seq + 1
		}
		f.seq = ev.Seq
		f.buf = append(f.buf, ev)
	}
	if over := len(f.buf) - f.capacity; over > 0 {
		f.buf = append(f.buf[:0:0], f.buf[over:]...)
	}
	f.mu.Unlock()

	f.bcast.Broadcast()
}

// Since returns buffered events after cursor. missed is true when events after cursor
// already fell out of the buffer.
func (f *Feed) Since(cursor uint64) (events []*eventdb.Event, missed bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.buf) > 0 && f.buf[0].Seq > cursor+1 {
		missed = true
	}
	for _, ev := range f.buf {
		if ev.Seq > cursor {
			events = append(events, ev)
		}
	}
	return events, missed
}

// LastSeq returns the sequence number of the last published event.
func (f *Feed) LastSeq() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.seq
}

// NewWaiter returns a waiter woken on the next publish.
func (f *Feed) NewWaiter() co.Waiter {
	return f.bcast.NewWaiter()
}
