// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bflb

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Waker resumes a waiting goroutine. Wake must not block, and must be
// safe to call after the waiter has gone away.
type Waker interface {
	Wake()
}

// SignalWaker is a Waker backed by a channel with room for one wake.
type SignalWaker struct {
	c chan struct{}
}

func NewSignalWaker() *SignalWaker {
	return &SignalWaker{c: make(chan struct{}, 1)}
}

// Wake posts a wake. If one is already pending it is a no-op.
func (w *SignalWaker) Wake() {
	select {
	case w.c <- struct{}{}:
	default:
	}
}

// C returns the channel receiving wakes.
func (w *SignalWaker) C() <-chan struct{} {
	return w.c
}

// waiter boxes a Waker so a slot can be compared and swapped by identity.
type waiter struct {
	w Waker
}

// State is the per pad waker table serviced by the GPIO interrupt.
// Each slot holds at most one waker; registering replaces the previous one.
type State struct {
	g     *GLB
	slots [maxPads]atomic.Pointer[waiter]
}

// NewState creates an empty waker table for the pads of g.
// OnInterrupt must be connected to the GPIO interrupt of the same GLB.
func NewState(g *GLB) *State {
	return &State{g: g}
}

// Register stores w in the slot of pad n, replacing any earlier waker.
func (s *State) Register(n int, w Waker) {
	s.register(n, w)
}

func (s *State) register(n int, w Waker) *waiter {
	if n < 0 || n >= s.g.chip.pads {
		wiring("io%d is not present on %s", n, s.g.chip.name)
	}
	b := &waiter{w}
	s.slots[n].Store(b)
	return b
}

// deregister empties the slot of pad n if it still holds b.
func (s *State) deregister(n int, b *waiter) {
	s.slots[n].CompareAndSwap(b, nil)
}

// Pending reports whether a waker is registered for pad n.
func (s *State) Pending(n int) bool {
	return s.slots[n].Load() != nil
}

// OnInterrupt services the GPIO interrupt. Pads are visited in order;
// every pad with its interrupt state set has its waker taken and woken,
// then its interrupt cleared. The interrupt is cleared even when no
// waker is registered, so a wake with nobody waiting is lost.
func (s *State) OnInterrupt() {
	r := s.g.regs
	for n := 0; n < s.g.chip.pads; n++ {
		if !r.intPending(n) {
			continue
		}
		if b := s.slots[n].Swap(nil); b != nil {
			b.w.Wake()
		}
		r.clearInt(n)
	}
}

// AsyncInput is an input pad whose level can be waited for.
type AsyncInput[P PullState] struct {
	in Input[P]
	s  *State
}

// IntoAsync binds the input to the waker table s.
func (p Input[P]) IntoAsync(s *State) *AsyncInput[P] {
	if s.g != p.owner() {
		wiring("io%d belongs to a different GLB than the waker table", p.n)
	}
	p.MaskInterrupt()
	return &AsyncInput[P]{in: p, s: s}
}

// Free returns the input pad. Its interrupt is left masked.
func (a *AsyncInput[P]) Free() Input[P] {
	return a.in
}

// IsHigh reads the pad level.
func (a *AsyncInput[P]) IsHigh() bool {
	return a.in.IsHigh()
}

// WaitForHigh returns once the pad is high, or with the context's error.
func (a *AsyncInput[P]) WaitForHigh(ctx context.Context) error {
	return a.waitLevel(ctx, SyncHighLevel, true)
}

// WaitForLow returns once the pad is low, or with the context's error.
func (a *AsyncInput[P]) WaitForLow(ctx context.Context) error {
	return a.waitLevel(ctx, SyncLowLevel, false)
}

// WaitForRisingEdge is not supported.
func (a *AsyncInput[P]) WaitForRisingEdge(ctx context.Context) error {
	return fmt.Errorf("io%d rising edge: %w", a.in.n, ErrUnsupported)
}

// WaitForFallingEdge is not supported.
func (a *AsyncInput[P]) WaitForFallingEdge(ctx context.Context) error {
	return fmt.Errorf("io%d falling edge: %w", a.in.n, ErrUnsupported)
}

// WaitForAnyEdge is not supported.
func (a *AsyncInput[P]) WaitForAnyEdge(ctx context.Context) error {
	return fmt.Errorf("io%d any edge: %w", a.in.n, ErrUnsupported)
}

// waitLevel arms a level interrupt and sleeps until the live level
// matches. The level is checked again after registering so an interrupt
// taken between the check and the registration is not missed.
func (a *AsyncInput[P]) waitLevel(ctx context.Context, m InterruptMode, high bool) error {
	in := a.in
	in.SetInterruptMode(m)
	in.UnmaskInterrupt()
	defer in.MaskInterrupt()
	w := NewSignalWaker()
	for {
		if in.IsHigh() == high {
			return nil
		}
		b := a.s.register(in.n, w)
		if in.IsHigh() == high {
			a.s.deregister(in.n, b)
			return nil
		}
		select {
		case <-w.C():
		case <-ctx.Done():
			a.s.deregister(in.n, b)
			return ctx.Err()
		}
	}
}
