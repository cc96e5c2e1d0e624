// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides channel to wait for.
type Waiter interface {
	C() <-chan struct{}
}

// Broadcaster wakes every waiter on each Broadcast. Unlike sync.Cond it is channel based,
// so waiting can be combined with other cases in a select.
type Broadcaster struct {
	l  sync.Mutex
	ch chan struct{}
}

func (b *Broadcaster) init() {
	if b.ch == nil {
		b.ch = make(chan struct{})
	}
}

// Broadcast wakes all goroutines that are waiting on b.
func (b *Broadcaster) Broadcast() {
	b.l.Lock()
	defer b.l.Unlock()

	b.init()
	close(b.ch)
	b.ch = make(chan struct{})
}

// NewWaiter create a Waiter object for acquiring channel to wait for.
// After each wake up, C returns the channel of the next broadcast.
func (b *Broadcaster) NewWaiter() Waiter {
	b.l.Lock()
	b.init()
	ref := b.ch
	b.l.Unlock()

	return waiterFunc(func() (ch <-chan struct{}) {
		ch = ref

		b.l.Lock()
		ref = b.ch
		b.l.Unlock()

		return
	})
}

type waiterFunc func() <-chan struct{}

func (w waiterFunc) C() <-chan struct{} {
	return w()
}
