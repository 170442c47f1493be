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
	// GLB v2 register offsets
	rV2UartCfg0   = 0x150
	rV2UartSig0   = 0x154 // signals 0-7
	rV2UartSig1   = 0x158 // signals 8-11
	rV2GpioConfig = 0x8C4 // one word per pad
	rV2GpioInput  = 0xAC4
	rV2GpioOutput = 0xAE4
	rV2GpioSet    = 0xAEC
	rV2GpioClear  = 0xAF4
)

// GpioConfig is the GLB v2 per-pad configuration word.
type GpioConfig uint32

const (
	gcInputEnable = 1 << 0
	gcSchmitt     = 1 << 1
	gcDrive       = 0x3 << 2
	gcPull        = 0x3 << 4
	gcOutEnable   = 1 << 6
	gcFunction    = 0x1F << 8
	gcIntMode     = 0xF << 16
	gcIntClear    = 1 << 20
	gcIntState    = 1 << 21
	gcIntMask     = 1 << 22
	gcOutput      = 1 << 24
	gcSet         = 1 << 25
	gcClear       = 1 << 26
	gcInput       = 1 << 28
	gcMode        = 0x3 << 30

	shDrive    = 2
	shPull     = 4
	shFunction = 8
	shIntMode  = 16
	shMode     = 30
)

// GpioConfigReset is the value of a pad configuration word after reset.
const GpioConfigReset GpioConfig = 0x00400B02

func (c GpioConfig) InputEnabled() bool { return c&gcInputEnable != 0 }

func (c GpioConfig) SetInputEnable(on bool) GpioConfig {
	return GpioConfig(setBit(uint32(c), gcInputEnable, on))
}

func (c GpioConfig) Schmitt() bool { return c&gcSchmitt != 0 }

func (c GpioConfig) SetSchmitt(on bool) GpioConfig {
	return GpioConfig(setBit(uint32(c), gcSchmitt, on))
}

func (c GpioConfig) Drive() Drive { return field[Drive](uint32(c), gcDrive, shDrive) }

func (c GpioConfig) SetDrive(d Drive) GpioConfig {
	return GpioConfig(setField(uint32(c), gcDrive, shDrive, d))
}

func (c GpioConfig) Bias() Bias { return field[Bias](uint32(c), gcPull, shPull) }

func (c GpioConfig) SetBias(b Bias) GpioConfig {
	return GpioConfig(setField(uint32(c), gcPull, shPull, b))
}

func (c GpioConfig) OutputEnabled() bool { return c&gcOutEnable != 0 }

func (c GpioConfig) SetOutputEnable(on bool) GpioConfig {
	return GpioConfig(setBit(uint32(c), gcOutEnable, on))
}

// Function returns the raw function select code.
func (c GpioConfig) Function() uint32 { return field[uint32](uint32(c), gcFunction, shFunction) }

func (c GpioConfig) SetFunction(code uint32) GpioConfig {
	return GpioConfig(setField(uint32(c), gcFunction, shFunction, code))
}

func (c GpioConfig) InterruptMode() InterruptMode {
	return field[InterruptMode](uint32(c), gcIntMode, shIntMode)
}

func (c GpioConfig) SetInterruptMode(m InterruptMode) GpioConfig {
	return GpioConfig(setField(uint32(c), gcIntMode, shIntMode, m))
}

// HasInterrupt reports the read-only interrupt state bit.
func (c GpioConfig) HasInterrupt() bool { return c&gcIntState != 0 }

func (c GpioConfig) SetInterruptClear(on bool) GpioConfig {
	return GpioConfig(setBit(uint32(c), gcIntClear, on))
}

func (c GpioConfig) InterruptMasked() bool { return c&gcIntMask != 0 }

func (c GpioConfig) SetInterruptMask(on bool) GpioConfig {
	return GpioConfig(setBit(uint32(c), gcIntMask, on))
}

func (c GpioConfig) OutputMode() OutputMode { return field[OutputMode](uint32(c), gcMode, shMode) }

func (c GpioConfig) SetOutputMode(m OutputMode) GpioConfig {
	return GpioConfig(setField(uint32(c), gcMode, shMode, m))
}

// Input returns the sampled pad level.
func (c GpioConfig) Input() bool { return c&gcInput != 0 }

// layoutV2 drives the GLB of the BL808 and BL616.
type layoutV2 struct {
	g *GLB
}

func (l layoutV2) cfg(n int) uintptr {
	return rV2GpioConfig + uintptr(n)*4
}

func (l layoutV2) read(n int) GpioConfig {
	return GpioConfig(l.g.bus.Load32(l.cfg(n)))
}

func (l layoutV2) write(n int, c GpioConfig) {
	l.g.bus.Store32(l.cfg(n), uint32(c))
}

// update is a locked read-modify-write of the config word of pad n.
// The interrupt service writes the same word, so every change goes
// through the GLB lock.
func (l layoutV2) update(n int, f func(GpioConfig) GpioConfig) {
	l.g.modify(l.cfg(n), func(v uint32) uint32 {
		return uint32(f(GpioConfig(v)))
	})
}

func (l layoutV2) code(f Function) (uint32, bool) {
	c, ok := v2Functions[f]
	return c, ok
}

func (l layoutV2) apply(n int, p policy, code uint32) {
	l.update(n, func(c GpioConfig) GpioConfig {
		return p.configure(c, code)
	})
}

func (p policy) configure(c GpioConfig, code uint32) GpioConfig {
	c = c.SetFunction(code).
		SetInputEnable(p.ie).
		SetOutputEnable(p.oe).
		SetBias(p.bias)
	switch p.schmitt {
	case enable:
		c = c.SetSchmitt(true)
	case disable:
		c = c.SetSchmitt(false)
	}
	if p.drive0 {
		c = c.SetDrive(Drive0)
	}
	if p.fn == FnGpio && p.oe {
		c = c.SetOutputMode(OutputSetClear)
	}
	return c
}

func (l layoutV2) level(n int) bool {
	return l.g.bus.Load32(rV2GpioInput+uintptr(n>>5)*4)&(1<<(n&0x1F)) != 0
}

func (l layoutV2) setLevel(n int, high bool) {
	r := uintptr(rV2GpioClear)
	if high {
		r = rV2GpioSet
	}
	l.g.bus.Store32(r+uintptr(n>>5)*4, 1<<(n&0x1F))
}

func (l layoutV2) setSchmitt(n int, on bool) {
	l.update(n, func(c GpioConfig) GpioConfig { return c.SetSchmitt(on) })
}

func (l layoutV2) drive(n int) Drive {
	return l.read(n).Drive()
}

func (l layoutV2) setDrive(n int, d Drive) {
	l.update(n, func(c GpioConfig) GpioConfig { return c.SetDrive(d) })
}

func (l layoutV2) intMode(n int) InterruptMode {
	return l.read(n).InterruptMode()
}

func (l layoutV2) setIntMode(n int, m InterruptMode) {
	l.update(n, func(c GpioConfig) GpioConfig { return c.SetInterruptMode(m) })
}

func (l layoutV2) intPending(n int) bool {
	return l.read(n).HasInterrupt()
}

// clearInt pulses the clear bit of the pad. Both writes are made under
// the GLB lock so a concurrent mask or mode change is not overwritten.
func (l layoutV2) clearInt(n int) {
	l.g.mu.Lock()
	defer l.g.mu.Unlock()
	c := l.read(n)
	l.write(n, c.SetInterruptClear(true))
	l.write(n, c.SetInterruptClear(false))
}

func (l layoutV2) maskInt(n int, masked bool) {
	l.update(n, func(c GpioConfig) GpioConfig { return c.SetInterruptMask(masked) })
}

func (l layoutV2) selectSignal(s int, code uint32) {
	r := uintptr(rV2UartSig0)
	if s >= 8 {
		r = rV2UartSig1
		s -= 8
	}
	sh := uint(s * 4)
	l.g.modify(r, func(v uint32) uint32 {
		return setField(v, 0xF<<sh, sh, code)
	})
}

func (l layoutV2) signal(s int) uint32 {
	r := uintptr(rV2UartSig0)
	if s >= 8 {
		r = rV2UartSig1
		s -= 8
	}
	sh := uint(s * 4)
	return field[uint32](l.g.bus.Load32(r), 0xF<<sh, sh)
}
