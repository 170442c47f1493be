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

const (
	// GLB v1 register offsets
	rV1UartSigSel   = 0x0C0 // 8 signals, 4 bits each
	rV1GpioConfig   = 0x100 // two pads per word
	rV1InputValue   = 0x180
	rV1OutputValue  = 0x188
	rV1OutputEnable = 0x190
	rV1IntMask      = 0x1A0
	rV1IntState     = 0x1A8
	rV1IntClear     = 0x1B0
	rV1IntMode      = 0x1C0 // two pads per word
)

// PackedConfig is a GLB v1 configuration word holding two pads.
// Pad N lives in word N>>1, in the half selected by N&1.
type PackedConfig uint32

// Bits within one 16 bit half.
const (
	pcInputEnable = 1 << 0
	pcSchmitt     = 1 << 1
	pcDrive       = 0x3 << 2
	pcPullUp      = 1 << 4
	pcPullDown    = 1 << 5
	pcFunction    = 0x1F << 8

	pcIntMode = 0x7 // interrupt mode words use the same halves
)

func half(i int) uint {
	return uint(i&1) * 16
}

func (c PackedConfig) InputEnabled(i int) bool {
	return uint32(c)&(pcInputEnable<<half(i)) != 0
}

func (c PackedConfig) SetInputEnable(i int, on bool) PackedConfig {
	return PackedConfig(setBit(uint32(c), pcInputEnable<<half(i), on))
}

func (c PackedConfig) Schmitt(i int) bool {
	return uint32(c)&(pcSchmitt<<half(i)) != 0
}

func (c PackedConfig) SetSchmitt(i int, on bool) PackedConfig {
	return PackedConfig(setBit(uint32(c), pcSchmitt<<half(i), on))
}

func (c PackedConfig) Drive(i int) Drive {
	sh := half(i)
	return field[Drive](uint32(c), pcDrive<<sh, sh+2)
}

func (c PackedConfig) SetDrive(i int, d Drive) PackedConfig {
	sh := half(i)
	return PackedConfig(setField(uint32(c), pcDrive<<sh, sh+2, d))
}

func (c PackedConfig) Bias(i int) Bias {
	sh := half(i)
	switch {
	case uint32(c)&(pcPullUp<<sh) != 0:
		return BiasPullUp
	case uint32(c)&(pcPullDown<<sh) != 0:
		return BiasPullDown
	}
	return BiasNone
}

func (c PackedConfig) SetBias(i int, b Bias) PackedConfig {
	sh := half(i)
	v := setBit(uint32(c), pcPullUp<<sh, b == BiasPullUp)
	return PackedConfig(setBit(v, pcPullDown<<sh, b == BiasPullDown))
}

func (c PackedConfig) Function(i int) uint32 {
	sh := half(i)
	return field[uint32](uint32(c), pcFunction<<sh, sh+8)
}

func (c PackedConfig) SetFunction(i int, code uint32) PackedConfig {
	sh := half(i)
	return PackedConfig(setField(uint32(c), pcFunction<<sh, sh+8, code))
}

// The v1 interrupt mode field is three bits wide: 0-3 synchronous, 4-7 asynchronous.
func encodeV1Mode(m InterruptMode) uint32 {
	switch {
	case m <= SyncHighLevel:
		return uint32(m)
	case m >= AsyncFallingEdge && m <= AsyncHighLevel:
		return uint32(m-AsyncFallingEdge) + 4
	}
	wiring("interrupt mode %d not available on GLB v1", m)
	return 0
}

func decodeV1Mode(v uint32) InterruptMode {
	if v < 4 {
		return InterruptMode(v)
	}
	return AsyncFallingEdge + InterruptMode(v-4)
}

// layoutV1 drives the GLB of the BL602 and BL702. Every register is
// shared between pads, so all writes are read-modify-write under the GLB lock.
type layoutV1 struct {
	g *GLB
}

func (l layoutV1) cfg(n int) uintptr {
	return rV1GpioConfig + uintptr(n>>1)*4
}

func (l layoutV1) update(n int, f func(c PackedConfig) PackedConfig) {
	l.g.modify(l.cfg(n), func(v uint32) uint32 {
		return uint32(f(PackedConfig(v)))
	})
}

func (l layoutV1) setBitOf(r uintptr, n int, on bool) {
	l.g.modify(r, func(v uint32) uint32 {
		return setBit(v, 1<<n, on)
	})
}

func (l layoutV1) code(f Function) (uint32, bool) {
	c, ok := v1Functions[f]
	return c, ok
}

func (l layoutV1) apply(n int, p policy, code uint32) {
	i := n & 1
	l.update(n, func(c PackedConfig) PackedConfig {
		c = c.SetFunction(i, code).
			SetInputEnable(i, p.ie).
			SetBias(i, p.bias)
		switch p.schmitt {
		case enable:
			c = c.SetSchmitt(i, true)
		case disable:
			c = c.SetSchmitt(i, false)
		}
		if p.drive0 {
			c = c.SetDrive(i, Drive0)
		}
		return c
	})
	// Output enable is a separate register, owned by the GPIO function.
	if p.fn == FnGpio {
		l.setBitOf(rV1OutputEnable, n, p.oe)
	}
}

func (l layoutV1) level(n int) bool {
	return l.g.bus.Load32(rV1InputValue)&(1<<n) != 0
}

func (l layoutV1) setLevel(n int, high bool) {
	l.setBitOf(rV1OutputValue, n, high)
}

func (l layoutV1) setSchmitt(n int, on bool) {
	l.update(n, func(c PackedConfig) PackedConfig { return c.SetSchmitt(n&1, on) })
}

func (l layoutV1) drive(n int) Drive {
	return PackedConfig(l.g.bus.Load32(l.cfg(n))).Drive(n & 1)
}

func (l layoutV1) setDrive(n int, d Drive) {
	l.update(n, func(c PackedConfig) PackedConfig { return c.SetDrive(n&1, d) })
}

func (l layoutV1) intMode(n int) InterruptMode {
	sh := half(n)
	return decodeV1Mode(field[uint32](l.g.bus.Load32(rV1IntMode+uintptr(n>>1)*4), pcIntMode<<sh, sh))
}

func (l layoutV1) setIntMode(n int, m InterruptMode) {
	sh := half(n)
	v := encodeV1Mode(m)
	l.g.modify(rV1IntMode+uintptr(n>>1)*4, func(r uint32) uint32 {
		return setField(r, pcIntMode<<sh, sh, v)
	})
}

func (l layoutV1) intPending(n int) bool {
	return l.g.bus.Load32(rV1IntState)&(1<<n) != 0
}

// clearInt pulses the pad's clear bit. The clear register holds
// only pulse bits, so it is written without reading it first.
func (l layoutV1) clearInt(n int) {
	l.g.bus.Store32(rV1IntClear, 1<<n)
	l.g.bus.Store32(rV1IntClear, 0)
}

func (l layoutV1) maskInt(n int, masked bool) {
	l.setBitOf(rV1IntMask, n, masked)
}

func (l layoutV1) selectSignal(s int, code uint32) {
	sh := uint(s * 4)
	l.g.modify(rV1UartSigSel, func(v uint32) uint32 {
		return setField(v, 0xF<<sh, sh, code)
	})
}

func (l layoutV1) signal(s int) uint32 {
	sh := uint(s * 4)
	return field[uint32](l.g.bus.Load32(rV1UartSigSel), 0xF<<sh, sh)
}
