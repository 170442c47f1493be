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

// Capability lists the UART lines a group of pads provides.
type Capability struct {
	RTS, CTS, TXD, RXD bool
}

func (c Capability) String() string {
	s := ""
	for _, l := range []struct {
		on   bool
		name string
	}{{c.RTS, "rts"}, {c.CTS, "cts"}, {c.TXD, "txd"}, {c.RXD, "rxd"}} {
		if l.on {
			if s != "" {
				s += ","
			}
			s += l.name
		}
	}
	return s
}

// Pads is a group of pads wired to UART U. The set of shapes is closed:
// TxOnly, TxRx, TxCts, Full and, for the multimedia UART, MmTx, MmTxRx and MmFull.
type Pads[U bflb.UartIndex] interface {
	Capabilities() Capability
	uart(U)
}

// SplitPads is a group of pads with both a transmit and a receive line.
type SplitPads[U bflb.UartIndex] interface {
	Pads[U]
	// splitPins partitions the pads between the transmit and receive halves.
	splitPins() (tx, rx []bflb.Pin)
}

// Routed is a Uart pad paired with the signal multiplexer it is wired to.
type Routed[S bflb.MuxSignal] struct {
	pin bflb.Uart
	sig S
}

// Route pairs a pad with its signal multiplexer. Pad N is wired to
// multiplexer N modulo the number of multiplexers; any other pairing panics.
func Route[S bflb.MuxSignal](pin bflb.Uart, sig S) Routed[S] {
	if pin.Signal() != sig.Index() {
		wiring("io%d is wired to sig%d, not sig%d", pin.Index(), pin.Signal(), sig.Index())
	}
	return Routed[S]{pin, sig}
}

// Pin returns the pad of the pair.
func (r Routed[S]) Pin() bflb.Uart {
	return r.pin
}

// Signal returns the multiplexer of the pair.
func (r Routed[S]) Signal() S {
	return r.sig
}

func wiring(format string, args ...any) {
	panic(fmt.Sprintf("bflb: "+format, args...))
}

// TxOnly is a transmit line.
type TxOnly[U bflb.MuxUart] struct {
	tx Routed[bflb.TxdSignal[U]]
}

func NewTxOnly[U bflb.MuxUart](tx Routed[bflb.TxdSignal[U]]) TxOnly[U] {
	return TxOnly[U]{tx}
}

func (TxOnly[U]) Capabilities() Capability { return Capability{TXD: true} }
func (TxOnly[U]) uart(U)                   {}

// Tx returns the transmit pair.
func (p TxOnly[U]) Tx() Routed[bflb.TxdSignal[U]] { return p.tx }

// TxRx is a transmit and a receive line.
type TxRx[U bflb.MuxUart] struct {
	tx Routed[bflb.TxdSignal[U]]
	rx Routed[bflb.RxdSignal[U]]
}

func NewTxRx[U bflb.MuxUart](tx Routed[bflb.TxdSignal[U]], rx Routed[bflb.RxdSignal[U]]) TxRx[U] {
	return TxRx[U]{tx, rx}
}

func (TxRx[U]) Capabilities() Capability { return Capability{TXD: true, RXD: true} }
func (TxRx[U]) uart(U)                   {}

func (p TxRx[U]) splitPins() (tx, rx []bflb.Pin) {
	return []bflb.Pin{p.tx.pin}, []bflb.Pin{p.rx.pin}
}

// Tx returns the transmit pair.
func (p TxRx[U]) Tx() Routed[bflb.TxdSignal[U]] { return p.tx }

// Rx returns the receive pair.
func (p TxRx[U]) Rx() Routed[bflb.RxdSignal[U]] { return p.rx }

// TxCts is a transmit line with clear to send flow control.
type TxCts[U bflb.MuxUart] struct {
	tx  Routed[bflb.TxdSignal[U]]
	cts Routed[bflb.CtsSignal[U]]
}

func NewTxCts[U bflb.MuxUart](tx Routed[bflb.TxdSignal[U]], cts Routed[bflb.CtsSignal[U]]) TxCts[U] {
	return TxCts[U]{tx, cts}
}

func (TxCts[U]) Capabilities() Capability { return Capability{CTS: true, TXD: true} }
func (TxCts[U]) uart(U)                   {}

// Full has both data lines and both flow control lines.
type Full[U bflb.MuxUart] struct {
	tx  Routed[bflb.TxdSignal[U]]
	rx  Routed[bflb.RxdSignal[U]]
	rts Routed[bflb.RtsSignal[U]]
	cts Routed[bflb.CtsSignal[U]]
}

func NewFull[U bflb.MuxUart](tx Routed[bflb.TxdSignal[U]], rx Routed[bflb.RxdSignal[U]],
	rts Routed[bflb.RtsSignal[U]], cts Routed[bflb.CtsSignal[U]]) Full[U] {
	return Full[U]{tx, rx, rts, cts}
}

func (Full[U]) Capabilities() Capability {
	return Capability{RTS: true, CTS: true, TXD: true, RXD: true}
}
func (Full[U]) uart(U) {}

// The transmitter owns CTS, the receiver RTS.
func (p Full[U]) splitPins() (tx, rx []bflb.Pin) {
	return []bflb.Pin{p.tx.pin, p.cts.pin}, []bflb.Pin{p.rx.pin, p.rts.pin}
}

// Multimedia UART pads carry a fixed line chosen by the pad number modulo 4.
const (
	mmTxd = 0
	mmRxd = 1
	mmCts = 2
	mmRts = 3
)

var mmNames = [4]string{"txd", "rxd", "cts", "rts"}

func mmCheck(p bflb.MmUart, line int) {
	if p.Index()%4 != line {
		wiring("io%d carries mm_uart %s, not %s", p.Index(), mmNames[p.Index()%4], mmNames[line])
	}
}

// MmTx is a multimedia UART transmit line.
type MmTx struct {
	tx bflb.MmUart
}

func NewMmTx(tx bflb.MmUart) MmTx {
	mmCheck(tx, mmTxd)
	return MmTx{tx}
}

func (MmTx) Capabilities() Capability { return Capability{TXD: true} }
func (MmTx) uart(bflb.MMUART)         {}

// MmTxRx is a multimedia UART transmit and receive line.
type MmTxRx struct {
	tx, rx bflb.MmUart
}

func NewMmTxRx(tx, rx bflb.MmUart) MmTxRx {
	mmCheck(tx, mmTxd)
	mmCheck(rx, mmRxd)
	return MmTxRx{tx, rx}
}

func (MmTxRx) Capabilities() Capability { return Capability{TXD: true, RXD: true} }
func (MmTxRx) uart(bflb.MMUART)         {}

func (p MmTxRx) splitPins() (tx, rx []bflb.Pin) {
	return []bflb.Pin{p.tx}, []bflb.Pin{p.rx}
}

// MmFull is the multimedia UART with both flow control lines.
type MmFull struct {
	tx, rx, cts, rts bflb.MmUart
}

func NewMmFull(tx, rx, cts, rts bflb.MmUart) MmFull {
	mmCheck(tx, mmTxd)
	mmCheck(rx, mmRxd)
	mmCheck(cts, mmCts)
	mmCheck(rts, mmRts)
	return MmFull{tx, rx, cts, rts}
}

func (MmFull) Capabilities() Capability {
	return Capability{RTS: true, CTS: true, TXD: true, RXD: true}
}
func (MmFull) uart(bflb.MMUART) {}

func (p MmFull) splitPins() (tx, rx []bflb.Pin) {
	return []bflb.Pin{p.tx, p.cts}, []bflb.Pin{p.rx, p.rts}
}
