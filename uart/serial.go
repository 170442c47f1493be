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

package uart

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/aamcrae/bflb"
	"tinygo.org/x/drivers"
)

var (
	ErrBaudrate   = errors.New("uart: baudrate not reachable from the clock")
	ErrDataBits   = errors.New("uart: data bits must be 5 to 8")
	ErrNoReceiver = errors.New("uart: pads have no receive line")
)

type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// StopBits values are the hardware encoding.
type StopBits int

const (
	StopHalf StopBits = iota
	Stop1
	Stop1Half
	Stop2
)

// Config is the serial framing.
type Config struct {
	Baudrate uint32
	DataBits int
	Parity   Parity
	StopBits StopBits
}

// DefaultConfig is 115200 baud, 8 data bits, no parity and one stop bit.
var DefaultConfig = Config{Baudrate: 115200, DataBits: 8, Parity: ParityNone, StopBits: Stop1}

// Serial is a polled UART using the pads P.
type Serial[U bflb.UartIndex, P Pads[U]] struct {
	inst Instance[U]
	pads P
	caps Capability
}

var _ drivers.UART = (*Serial[bflb.UART0, TxRx[bflb.UART0]])(nil)

// Freerun configures UART U for polled operation with the lines the pads
// provide. clock is the UART source clock in Hz.
func Freerun[U bflb.UartIndex, P Pads[U]](inst Instance[U], cfg Config, pads P, clock uint32) (*Serial[U, P], error) {
	if cfg.Baudrate == 0 {
		return nil, fmt.Errorf("0 baud: %w", ErrBaudrate)
	}
	period := (clock + cfg.Baudrate/2) / cfg.Baudrate
	if period < 1 || period > 1<<16 {
		return nil, fmt.Errorf("%d baud from %d Hz: %w", cfg.Baudrate, clock, ErrBaudrate)
	}
	if cfg.DataBits < 5 || cfg.DataBits > 8 {
		return nil, fmt.Errorf("%d: %w", cfg.DataBits, ErrDataBits)
	}
	caps := pads.Capabilities()
	frame := uint32(cfg.DataBits-1) << shDataBits
	switch cfg.Parity {
	case ParityOdd:
		frame |= cfgParity | cfgParityOdd
	case ParityEven:
		frame |= cfgParity
	}
	tx := frame | cfgFreerun | (uint32(cfg.StopBits)<<shStopBits)&cfgStopBits
	if caps.TXD {
		tx |= cfgEnable
	}
	if caps.CTS {
		tx |= cfgCts
	}
	rx := frame
	if caps.RXD {
		rx |= cfgEnable
	}
	inst.bus.Store32(rTxConfig, 0)
	inst.bus.Store32(rRxConfig, 0)
	inst.bus.Store32(rBitPeriod, (period-1)<<16|(period-1))
	inst.modify(rSwMode, func(v uint32) uint32 {
		if caps.RTS {
			return v &^ swRtsMode
		}
		return v
	})
	inst.modify(rFifoConfig0, func(v uint32) uint32 {
		return v | fifoTxClear | fifoRxClear
	})
	inst.bus.Store32(rTxConfig, tx)
	inst.bus.Store32(rRxConfig, rx)
	return &Serial[U, P]{inst: inst, pads: pads, caps: caps}, nil
}

// Capabilities returns the lines in use.
func (s *Serial[U, P]) Capabilities() Capability {
	return s.caps
}

func (s *Serial[U, P]) Write(p []byte) (int, error) {
	return s.inst.write(p), nil
}

func (s *Serial[U, P]) WriteByte(b byte) error {
	s.inst.write([]byte{b})
	return nil
}

// Flush waits until the transmit FIFO is empty.
func (s *Serial[U, P]) Flush() error {
	s.inst.flush()
	return nil
}

// Read waits for at least one byte and returns what has been received.
func (s *Serial[U, P]) Read(p []byte) (int, error) {
	if !s.caps.RXD {
		return 0, ErrNoReceiver
	}
	return s.inst.read(p), nil
}

func (s *Serial[U, P]) ReadByte() (byte, error) {
	var b [1]byte
	_, err := s.Read(b[:])
	return b[0], err
}

// Buffered returns the number of bytes waiting in the receive FIFO.
func (s *Serial[U, P]) Buffered() int {
	if !s.caps.RXD {
		return 0
	}
	return s.inst.rxCount()
}

// Free disables the UART and returns the register block and the pads.
func (s *Serial[U, P]) Free() (Instance[U], P) {
	s.inst.modify(rTxConfig, func(v uint32) uint32 { return v &^ cfgEnable })
	s.inst.modify(rRxConfig, func(v uint32) uint32 { return v &^ cfgEnable })
	return s.inst, s.pads
}

// Split divides the serial into a transmit half and a receive half.
// Both halves address the same register block; each owns the pads of
// its direction. The Serial must not be used afterwards.
func Split[U bflb.UartIndex, P SplitPads[U]](s *Serial[U, P]) (*Transmit[U], *Receive[U]) {
	tx, rx := s.pads.splitPins()
	return &Transmit[U]{inst: s.inst, pins: tx}, &Receive[U]{inst: s.inst, pins: rx}
}

// Transmit is the transmit half of a split Serial.
type Transmit[U bflb.UartIndex] struct {
	inst Instance[U]
	pins []bflb.Pin
}

func (t *Transmit[U]) Write(p []byte) (int, error) {
	return t.inst.write(p), nil
}

func (t *Transmit[U]) WriteByte(b byte) error {
	t.inst.write([]byte{b})
	return nil
}

// Flush waits until the transmit FIFO is empty.
func (t *Transmit[U]) Flush() error {
	t.inst.flush()
	return nil
}

// Pins returns the pads owned by the transmitter.
func (t *Transmit[U]) Pins() []bflb.Pin {
	return t.pins
}

// Receive is the receive half of a split Serial.
type Receive[U bflb.UartIndex] struct {
	inst Instance[U]
	pins []bflb.Pin
}

// Read waits for at least one byte and returns what has been received.
func (r *Receive[U]) Read(p []byte) (int, error) {
	return r.inst.read(p), nil
}

func (r *Receive[U]) ReadByte() (byte, error) {
	var b [1]byte
	r.inst.read(b[:])
	return b[0], nil
}

func (r *Receive[U]) Buffered() int {
	return r.inst.rxCount()
}

// Pins returns the pads owned by the receiver.
func (r *Receive[U]) Pins() []bflb.Pin {
	return r.pins
}

// write blocks until every byte is in the transmit FIFO.
func (i Instance[U]) write(p []byte) int {
	for _, b := range p {
		for i.txCount() == 0 {
			runtime.Gosched()
		}
		i.bus.Store32(rFifoWrite, uint32(b))
	}
	return len(p)
}

func (i Instance[U]) flush() {
	for i.txCount() < fifoDepth {
		runtime.Gosched()
	}
}

// read blocks until one byte is available, then drains up to len(p) bytes.
func (i Instance[U]) read(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	n := i.rxCount()
	for n == 0 {
		runtime.Gosched()
		n = i.rxCount()
	}
	if n > len(p) {
		n = len(p)
	}
	for k := 0; k < n; k++ {
		p[k] = byte(i.bus.Load32(rFifoRead))
	}
	return n
}
