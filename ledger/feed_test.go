// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sapienio/stakevault/eventdb"
)

func TestFeed(t *testing.T) {
	f := NewFeed(3, 10)
	assert.Equal(t, uint64(10), f.LastSeq())

	w := f.NewWaiter()
	f.Publish([]*eventdb.Event{{Kind: "a"}, {Kind: "b"}})

	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}

	events, missed := f.Since(10)
	assert.False(t, missed)
	assert.Len(t, events, 2)
	assert.Equal(t, uint64(11), events[0].Seq)
	assert.Equal(t, uint64(12), events[1].Seq)

	f.Publish([]*eventdb.Event{{Seq: 20, Kind: "c"}, {Kind: "d"}})
	assert.Equal(t, uint64(21), f.LastSeq())

	events, missed = f.Since(10)
	assert.True(t, missed, "event 11 fell out of the buffer")
	assert.Len(t, events, 3)

	events, missed = f.Since(20)
	assert.False(t, missed)
	assert.Len(t, events, 1)

	events, _ = f.Since(21)
	assert.Empty(t, events)

	f.Publish(nil)
	assert.Equal(t, uint64(21), f.LastSeq())
}
