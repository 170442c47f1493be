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

package spi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/aamcrae/bflb"
	"tinygo.org/x/drivers"
)

// Register offsets
const (
	rConfig      = 0x00
	rBusBusy     = 0x08
	rPeriod      = 0x10
	rFifoConfig0 = 0x80
	rFifoConfig1 = 0x84
	rFifoWrite   = 0x88
	rFifoRead    = 0x8C
)

const (
	cfgMaster = 1 << 0
	cfgCpol   = 1 << 4
	cfgCpha   = 1 << 5

	busBusy = 1 << 0

	fifoTxClear = 1 << 2
	fifoRxClear = 1 << 3
	fifoTxCount = 0x3F
	fifoRxCount = 0x3F << 8
)

var (
	ErrFrequency = errors.New("spi: frequency not reachable from the clock")
	ErrNoMiso    = errors.New("spi: pads have no MISO line")
)

// Mode is the clock polarity (bit 1) and phase (bit 0).
type Mode uint8

const (
	Mode0 Mode = iota
	Mode1
	Mode2
	Mode3
)

// Config is the bus timing. Clock is the SPI source clock in Hz.
type Config struct {
	Frequency uint32
	Clock     uint32
}

var bases = map[bflb.Chip][2]uintptr{
	bflb.BL602: {0x4000A200},
	bflb.BL702: {0x4000A200},
	bflb.BL808: {0x2000A200, 0x30008000},
	bflb.BL616: {0x2000A200},
}

const pageSize = 0x1000

// Instance is the register block of SPI controller I.
type Instance[I bflb.SpiIndex] struct {
	bus bflb.Bus
	win *bflb.Window
}

func NewInstance[I bflb.SpiIndex](bus bflb.Bus) Instance[I] {
	return Instance[I]{bus: bus}
}

// Map maps the register block of SPI controller I from /dev/mem.
func Map[I bflb.SpiIndex](chip bflb.Chip) (Instance[I], error) {
	n := 0
	if _, ok := any(*new(I)).(bflb.SPI1); ok {
		n = 1
	}
	b, ok := bases[chip]
	if !ok || b[n] == 0 {
		return Instance[I]{}, fmt.Errorf("spi%d on %s: %w", n, chip, bflb.ErrUnsupported)
	}
	page := b[n] &^ (pageSize - 1)
	w, err := bflb.Map(page, pageSize)
	if err != nil {
		return Instance[I]{}, err
	}
	return Instance[I]{bus: bflb.Offset(w, b[n]-page), win: w}, nil
}

func (i Instance[I]) Close() error {
	if i.win == nil {
		return nil
	}
	return i.win.Close()
}

// Master is a polled SPI master using the pads P.
type Master[I bflb.SpiIndex, P Pads[I]] struct {
	inst Instance[I]
	pads P
	caps Capability
}

var _ drivers.SPI = (*Master[bflb.SPI0, Full[bflb.SPI0]])(nil)

// New configures controller I as a master with 8 bit frames.
func New[I bflb.SpiIndex, P Pads[I]](inst Instance[I], pads P, mode Mode, cfg Config) (*Master[I, P], error) {
	if cfg.Frequency == 0 {
		return nil, fmt.Errorf("0 Hz: %w", ErrFrequency)
	}
	// Each half of a bit is one data phase.
	phase := (cfg.Clock/cfg.Frequency + 1) / 2
	if phase < 1 || phase > 256 {
		return nil, fmt.Errorf("%d Hz from %d Hz: %w", cfg.Frequency, cfg.Clock, ErrFrequency)
	}
	p := phase - 1
	inst.bus.Store32(rConfig, 0)
	inst.bus.Store32(rPeriod, p|p<<8|p<<16|p<<24)
	inst.bus.Store32(rFifoConfig0, inst.bus.Load32(rFifoConfig0)|fifoTxClear|fifoRxClear)
	c := uint32(cfgMaster)
	if mode&2 != 0 {
		c |= cfgCpol
	}
	if mode&1 != 0 {
		c |= cfgCpha
	}
	inst.bus.Store32(rConfig, c)
	return &Master[I, P]{inst: inst, pads: pads, caps: pads.Capabilities()}, nil
}

func (m *Master[I, P]) Capabilities() Capability {
	return m.caps
}

// Tx writes w and reads into r; the longer of the two sets the length.
// Missing write bytes are sent as zero.
func (m *Master[I, P]) Tx(w, r []byte) error {
	if len(r) > 0 && !m.caps.MISO {
		return ErrNoMiso
	}
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	for k := 0; k < n; k++ {
		var b byte
		if k < len(w) {
			b = w[k]
		}
		v := m.exchange(b)
		if k < len(r) {
			r[k] = v
		}
	}
	return nil
}

// Transfer exchanges one byte.
func (m *Master[I, P]) Transfer(b byte) (byte, error) {
	return m.exchange(b), nil
}

func (m *Master[I, P]) exchange(b byte) byte {
	bus := m.inst.bus
	for bus.Load32(rFifoConfig1)&fifoTxCount == 0 {
		runtime.Gosched()
	}
	bus.Store32(rFifoWrite, uint32(b))
	// Every frame shifts one byte in, even without a MISO line.
	for bus.Load32(rFifoConfig1)&fifoRxCount == 0 {
		runtime.Gosched()
	}
	return byte(bus.Load32(rFifoRead))
}

// Free waits for the bus to go idle, disables the controller and returns
// the register block and the pads.
func (m *Master[I, P]) Free() (Instance[I], P) {
	for m.inst.bus.Load32(rBusBusy)&busBusy != 0 {
		runtime.Gosched()
	}
	m.inst.bus.Store32(rConfig, m.inst.bus.Load32(rConfig)&^cfgMaster)
	return m.inst, m.pads
}
