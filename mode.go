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

// Function is a pad alternate function, independent of the chip generation.
// The value written to the function select field comes from the layout.
type Function uint8

const (
	FnGpio Function = iota
	FnUart
	FnMmUart
	FnSpi0
	FnSpi1
	FnI2c0
	FnI2c1
	FnI2c2
	FnI2c3
	FnPwm0
	FnPwm1
	FnJtag
)

var fnNames = [...]string{
	FnGpio:   "gpio",
	FnUart:   "uart",
	FnMmUart: "mm_uart",
	FnSpi0:   "spi0",
	FnSpi1:   "spi1",
	FnI2c0:   "i2c0",
	FnI2c1:   "i2c1",
	FnI2c2:   "i2c2",
	FnI2c3:   "i2c3",
	FnPwm0:   "pwm0",
	FnPwm1:   "pwm1",
	FnJtag:   "jtag",
}

func (f Function) String() string {
	if int(f) < len(fnNames) {
		return fnNames[f]
	}
	return "unknown"
}

// Function select codes per generation. A missing entry means the
// function does not exist on that generation.
var (
	v1Functions = map[Function]uint32{
		FnSpi0: 4,
		FnI2c0: 6,
		FnUart: 7,
		FnPwm0: 8,
		FnGpio: 11,
		FnJtag: 14,
	}
	v2Functions = map[Function]uint32{
		FnSpi0:   1,
		FnI2c0:   5,
		FnI2c1:   6,
		FnUart:   7,
		FnGpio:   11,
		FnPwm0:   16,
		FnPwm1:   17,
		FnSpi1:   18,
		FnI2c2:   19,
		FnI2c3:   20,
		FnMmUart: 21,
		FnJtag:   27,
	}
)

// Bias is the pad pull resistor setting.
type Bias uint8

const (
	BiasNone Bias = iota
	BiasPullUp
	BiasPullDown
)

// Drive is the pad output drive strength.
type Drive uint8

const (
	Drive0 Drive = iota
	Drive1
	Drive2
	Drive3
)

// InterruptMode selects the condition raising a pad interrupt.
// Synchronous modes are sampled by the GLB clock.
type InterruptMode uint8

const (
	SyncFallingEdge  InterruptMode = 0
	SyncRisingEdge   InterruptMode = 1
	SyncLowLevel     InterruptMode = 2
	SyncHighLevel    InterruptMode = 3
	SyncBothEdges    InterruptMode = 4 // GLB v2 only
	AsyncFallingEdge InterruptMode = 8
	AsyncRisingEdge  InterruptMode = 9
	AsyncLowLevel    InterruptMode = 10
	AsyncHighLevel   InterruptMode = 11
)

// OutputMode selects how a GLB v2 pad output is driven.
type OutputMode uint8

const (
	OutputValue    OutputMode = 0 // written through the output value register
	OutputSetClear OutputMode = 1 // written through the set and clear registers
)

// PullState is the pull resistor tag of an Input or Output pad.
type PullState interface {
	bias() Bias
}

type (
	Floating struct{}
	PullUp   struct{}
	PullDown struct{}
)

func (Floating) bias() Bias { return BiasNone }
func (PullUp) bias() Bias   { return BiasPullUp }
func (PullDown) bias() Bias { return BiasPullDown }

// SpiIndex selects one of the SPI controllers.
type SpiIndex interface {
	spiFunction() Function
}

type (
	SPI0 struct{}
	SPI1 struct{}
)

func (SPI0) spiFunction() Function { return FnSpi0 }
func (SPI1) spiFunction() Function { return FnSpi1 }

// PwmIndex selects one of the PWM controllers.
type PwmIndex interface {
	pwmFunction() Function
}

type (
	PWM0 struct{}
	PWM1 struct{}
)

func (PWM0) pwmFunction() Function { return FnPwm0 }
func (PWM1) pwmFunction() Function { return FnPwm1 }

// I2cIndex selects one of the I2C controllers.
type I2cIndex interface {
	i2cFunction() Function
}

type (
	I2C0 struct{}
	I2C1 struct{}
	I2C2 struct{}
	I2C3 struct{}
)

func (I2C0) i2cFunction() Function { return FnI2c0 }
func (I2C1) i2cFunction() Function { return FnI2c1 }
func (I2C2) i2cFunction() Function { return FnI2c2 }
func (I2C3) i2cFunction() Function { return FnI2c3 }

// UartIndex selects a UART controller, including the multimedia UART.
type UartIndex interface {
	// Port returns the controller number; the multimedia UART is 3.
	Port() int
}

// MuxUart is a UART reachable through the signal multiplexers.
type MuxUart interface {
	UartIndex
	muxBase() uint32
}

type (
	UART0  struct{}
	UART1  struct{}
	UART2  struct{}
	MMUART struct{}
)

func (UART0) Port() int  { return 0 }
func (UART1) Port() int  { return 1 }
func (UART2) Port() int  { return 2 }
func (MMUART) Port() int { return 3 }

func (UART0) muxBase() uint32 { return 0 }
func (UART1) muxBase() uint32 { return 4 }
func (UART2) muxBase() uint32 { return 8 }
