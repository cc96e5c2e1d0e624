// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sapienio/stakevault/co"
)

func TestGoes(t *testing.T) {
	var goes co.Goes
	n := make(chan int, 3)
	for i := range 3 {
		goes.Go(func() { n <- i })
	}
	goes.GoErr(func() error { return nil })
	goes.GoErr(func() error { return errors.New("boom") })

	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("routines did not exit")
	}
	goes.Wait()
	assert.Len(t, n, 3)
	assert.EqualError(t, goes.Err(), "boom")
}

func TestBroadcaster_BroadcastBeforeWait(t *testing.T) {
	var b co.Broadcaster
	b.Broadcast()

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, b.NewWaiter())
	}

	var n int
	for _, w := range ws {
		select {
		case <-w.C():
		default:
			n++
		}
	}
	assert.Equal(t, 10, n)
}

func TestBroadcaster_BroadcastAfterWait(t *testing.T) {
	var b co.Broadcaster

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, b.NewWaiter())
	}

	b.Broadcast()

	for _, w := range ws {
		<-w.C()
	}
}

func TestBroadcaster_Repeated(t *testing.T) {
	var b co.Broadcaster
	w := b.NewWaiter()

	b.Broadcast()
	<-w.C()

	select {
	case <-w.C():
		t.Fatal("second wait must block until the next broadcast")
	default:
	}

	b.Broadcast()
	<-w.C()
}
