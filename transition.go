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
	"log/slog"
)

type toggle uint8

const (
	leave toggle = iota
	enable
	disable
)

// policy is the pad configuration a role requires.
type policy struct {
	fn      Function
	ie      bool
	oe      bool
	schmitt toggle
	bias    Bias
	drive0  bool // Reset the drive strength to Drive0
}

func inputPolicy(b Bias) policy {
	return policy{fn: FnGpio, ie: true, bias: b}
}

func outputPolicy(b Bias) policy {
	return policy{fn: FnGpio, oe: true, bias: b, drive0: true}
}

// Uart, MmUart, Spi and I2c pads are bidirectional with a pull up.
func peripheralPolicy(f Function) policy {
	return policy{fn: f, ie: true, oe: true, schmitt: enable, bias: BiasPullUp, drive0: true}
}

// into reconfigures the pad. The configuration word is read, the fields
// of this pad changed and the word written back once.
func (p pad) into(pol policy) pad {
	r := p.regs()
	code := p.g.function(pol.fn)
	r.apply(p.n, pol, code)
	p.g.trace("pad", slog.Int("io", p.n), slog.String("function", pol.fn.String()), slog.Uint64("code", uint64(code)))
	return p
}

func (p pad) IntoFloatingInput() Input[Floating] {
	return Input[Floating]{p.into(inputPolicy(BiasNone))}
}

func (p pad) IntoPullUpInput() Input[PullUp] {
	return Input[PullUp]{p.into(inputPolicy(BiasPullUp))}
}

func (p pad) IntoPullDownInput() Input[PullDown] {
	return Input[PullDown]{p.into(inputPolicy(BiasPullDown))}
}

func (p pad) IntoFloatingOutput() Output[Floating] {
	return Output[Floating]{p.into(outputPolicy(BiasNone))}
}

func (p pad) IntoPullUpOutput() Output[PullUp] {
	return Output[PullUp]{p.into(outputPolicy(BiasPullUp))}
}

func (p pad) IntoPullDownOutput() Output[PullDown] {
	return Output[PullDown]{p.into(outputPolicy(BiasPullDown))}
}

// IntoUart routes the pad to its UART signal multiplexer.
func (p pad) IntoUart() Uart {
	return Uart{p.into(peripheralPolicy(FnUart))}
}

// IntoMmUart routes the pad to the multimedia UART. GLB v1 chips have none.
func (p pad) IntoMmUart() MmUart {
	return MmUart{p.into(peripheralPolicy(FnMmUart))}
}

func (p pad) IntoJtag() Jtag {
	return Jtag{p.into(policy{fn: FnJtag, ie: true, schmitt: enable, bias: BiasNone})}
}

// IntoDisabled returns the pad to GPIO with input, output and pulls off.
func (p pad) IntoDisabled() Disabled {
	return Disabled{p.into(policy{fn: FnGpio, bias: BiasNone})}
}

// IntoSpi moves a pad into the role of SPI controller I.
func IntoSpi[I SpiIndex](p Pin) Spi[I] {
	var i I
	return Spi[I]{p.core().into(peripheralPolicy(i.spiFunction()))}
}

// IntoI2c moves a pad into the role of I2C controller I.
func IntoI2c[I I2cIndex](p Pin) I2c[I] {
	var i I
	return I2c[I]{p.core().into(peripheralPolicy(i.i2cFunction()))}
}

// IntoPwm moves a pad into an output of PWM controller I with the pull given.
func IntoPwm[I PwmIndex](p Pin, b Bias) Pwm[I] {
	var i I
	return Pwm[I]{p.core().into(policy{fn: i.pwmFunction(), oe: true, schmitt: enable, bias: b, drive0: true})}
}
