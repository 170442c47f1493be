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
	"maps"
	"sync"
	"sync/atomic"
	"testing"
)

// simBus models the GLB registers the package touches. Interrupt state
// bits are owned by the simulated hardware: writes cannot set them, and
// the clear bits of either layout reset them.
type simBus struct {
	mu   sync.Mutex
	gen  generation
	regs map[uintptr]uint32
}

func newSimBus(gen generation) *simBus {
	return &simBus{gen: gen, regs: make(map[uintptr]uint32)}
}

func (b *simBus) Load32(offs uintptr) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regs[offs]
}

func (b *simBus) Store32(offs uintptr, v uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.gen {
	case glbV1:
		switch offs {
		case rV1IntState:
			return
		case rV1IntClear:
			b.regs[rV1IntState] &^= v
		}
	case glbV2:
		if offs >= rV2GpioConfig && offs < rV2GpioConfig+maxPads*4 {
			v = v&^gcIntState | b.regs[offs]&gcIntState
			if v&gcIntClear != 0 {
				v &^= gcIntState
			}
		}
	}
	b.regs[offs] = v
}

// raise sets the interrupt state of pad n.
func (b *simBus) raise(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen == glbV1 {
		b.regs[rV1IntState] |= 1 << n
	} else {
		b.regs[rV2GpioConfig+uintptr(n)*4] |= gcIntState
	}
}

// drive sets the level seen on input pad n.
func (b *simBus) drive(n int, high bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := uintptr(rV1InputValue)
	if b.gen == glbV2 {
		r = rV2GpioInput + uintptr(n>>5)*4
	}
	b.regs[r] = setBit(b.regs[r], 1<<(n&0x1F), high)
}

func (b *simBus) snapshot() map[uintptr]uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.regs)
}

func newTestGLB(t *testing.T, chip Chip) (*GLB, *simBus) {
	t.Helper()
	bus := newSimBus(chips[chip].gen)
	g, err := NewGLB(bus, chip, nil)
	if err != nil {
		t.Fatalf("NewGLB: %v", err)
	}
	return g, bus
}

// countWaker counts its wakes.
type countWaker struct {
	n atomic.Int32
}

func (w *countWaker) Wake() {
	w.n.Add(1)
}

func mustPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", what)
		}
	}()
	f()
}
