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
	"fmt"

	"github.com/aamcrae/bflb"
)

// Register offsets
const (
	rTxConfig    = 0x00
	rRxConfig    = 0x04
	rBitPeriod   = 0x08
	rSwMode      = 0x0C
	rFifoConfig0 = 0x80
	rFifoConfig1 = 0x84
	rFifoWrite   = 0x88
	rFifoRead    = 0x8C
)

// Transmit and receive configuration bits
const (
	cfgEnable    = 1 << 0
	cfgCts       = 1 << 1 // transmit only
	cfgFreerun   = 1 << 2 // transmit only
	cfgParity    = 1 << 4
	cfgParityOdd = 1 << 5
	cfgDataBits  = 0x7 << 8
	cfgStopBits  = 0x3 << 11 // transmit only

	shDataBits = 8
	shStopBits = 11
)

const (
	swRtsMode = 1 << 2 // RTS driven by software instead of the receiver

	fifoTxClear = 1 << 2
	fifoRxClear = 1 << 3
	fifoTxCount = 0x3F
	fifoRxCount = 0x3F << 8

	fifoDepth = 32
)

// Block addresses
var bases = map[bflb.Chip][4]uintptr{
	bflb.BL602: {0x4000A000, 0x4000A100},
	bflb.BL702: {0x4000A000, 0x4000A100},
	bflb.BL808: {0x2000A000, 0x2000A100, 0x2000AA00, 0x30002000},
	bflb.BL616: {0x2000A000, 0x2000A100},
}

const pageSize = 0x1000

// Instance is the register block of UART U.
type Instance[U bflb.UartIndex] struct {
	bus bflb.Bus
	win *bflb.Window
}

// NewInstance wraps the register block of UART U reached through bus.
func NewInstance[U bflb.UartIndex](bus bflb.Bus) Instance[U] {
	return Instance[U]{bus: bus}
}

// Map maps the register block of UART U of the chip from /dev/mem.
func Map[U bflb.UartIndex](chip bflb.Chip) (Instance[U], error) {
	var u U
	b, ok := bases[chip]
	if !ok || b[u.Port()] == 0 {
		return Instance[U]{}, fmt.Errorf("uart%d on %s: %w", u.Port(), chip, bflb.ErrUnsupported)
	}
	addr := b[u.Port()]
	page := addr &^ (pageSize - 1)
	w, err := bflb.Map(page, pageSize)
	if err != nil {
		return Instance[U]{}, err
	}
	return Instance[U]{bus: bflb.Offset(w, addr-page), win: w}, nil
}

// Close unmaps the block if it was mapped by Map.
func (i Instance[U]) Close() error {
	if i.win == nil {
		return nil
	}
	return i.win.Close()
}

func (i Instance[U]) txCount() int {
	return int(i.bus.Load32(rFifoConfig1) & fifoTxCount)
}

func (i Instance[U]) rxCount() int {
	return int(i.bus.Load32(rFifoConfig1)&fifoRxCount) >> 8
}

func (i Instance[U]) modify(offs uintptr, f func(uint32) uint32) {
	i.bus.Store32(offs, f(i.bus.Load32(offs)))
}
