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
	"fmt"
)

// Pin is a pad in one of the roles defined by this package.
// It cannot be implemented outside the package.
type Pin interface {
	Index() int
	core() pad
}

// pad is the identity shared by every role: the GLB owning it and its index.
type pad struct {
	g *GLB
	n int
}

// Index returns the pad number.
func (p pad) Index() int {
	return p.n
}

func (p pad) String() string {
	return fmt.Sprintf("io%d", p.n)
}

func (p pad) core() pad {
	return p
}

func (p pad) regs() layout {
	if p.g == nil {
		wiring("io%d is not present on this chip", p.n)
	}
	return p.g.regs
}

// Roles. Each is produced by a transition and consumes the previous
// role; a value must not be used after it has been transitioned.
type (
	// Disabled is a pad with no function, the state of every pad from Pads.
	Disabled struct{ pad }
	// Input is a GPIO input with pull state P.
	Input[P PullState] struct{ pad }
	// Output is a GPIO output with pull state P.
	Output[P PullState] struct{ pad }
	// Uart is a pad routed to a UART signal multiplexer.
	Uart struct{ pad }
	// MmUart is a pad routed to the multimedia UART; its signal is fixed by the pad number.
	MmUart struct{ pad }
	Spi[I SpiIndex] struct{ pad }
	Pwm[I PwmIndex] struct{ pad }
	I2c[I I2cIndex] struct{ pad }
	Jtag            struct{ pad }
)

// IsHigh reads the pad level.
func (p Input[P]) IsHigh() bool {
	return p.regs().level(p.n)
}

func (p Input[P]) IsLow() bool {
	return !p.IsHigh()
}

// Get reads the pad level.
func (p Input[P]) Get() bool {
	return p.IsHigh()
}

func (p Input[P]) EnableSchmitt() {
	p.regs().setSchmitt(p.n, true)
}

func (p Input[P]) DisableSchmitt() {
	p.regs().setSchmitt(p.n, false)
}

// HasInterrupt reports whether the pad interrupt is pending.
func (p Input[P]) HasInterrupt() bool {
	return p.regs().intPending(p.n)
}

func (p Input[P]) ClearInterrupt() {
	p.regs().clearInt(p.n)
}

func (p Input[P]) MaskInterrupt() {
	p.regs().maskInt(p.n, true)
}

func (p Input[P]) UnmaskInterrupt() {
	p.regs().maskInt(p.n, false)
}

func (p Input[P]) InterruptMode() InterruptMode {
	return p.regs().intMode(p.n)
}

// SetInterruptMode selects the interrupt condition. Modes the chip
// generation lacks panic.
func (p Input[P]) SetInterruptMode(m InterruptMode) {
	p.regs().setIntMode(p.n, m)
}

// High drives the pad high.
func (p Output[P]) High() {
	p.regs().setLevel(p.n, true)
}

// Low drives the pad low.
func (p Output[P]) Low() {
	p.regs().setLevel(p.n, false)
}

// Set drives the pad to the level given.
func (p Output[P]) Set(high bool) {
	p.regs().setLevel(p.n, high)
}

func (p Output[P]) Drive() Drive {
	return p.regs().drive(p.n)
}

func (p Output[P]) SetDrive(d Drive) {
	p.regs().setDrive(p.n, d)
}

// Signal returns the UART signal multiplexer hard wired to the pad.
func (p Uart) Signal() int {
	return p.n % p.owner().chip.signals
}

// owner returns the GLB of the pad, panicking for pads the chip lacks.
func (p pad) owner() *GLB {
	p.regs()
	return p.g
}
