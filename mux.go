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
	"log/slog"
)

// Signal selector values within one UART's group of four.
const (
	selRts = 0
	selCts = 1
	selTxd = 2
	selRxd = 3
)

// MuxSignal is a UART signal multiplexer in any role.
// It cannot be implemented outside the package.
type MuxSignal interface {
	Index() int
	sigCore() muxSignal
}

// muxSignal is a UART signal multiplexer. Pad N in the Uart role is
// connected to multiplexer N modulo the number of multiplexers; the
// multiplexer selects which UART line the pad carries.
type muxSignal struct {
	g *GLB
	n int
}

// Index returns the multiplexer number.
func (s muxSignal) Index() int {
	return s.n
}

func (s muxSignal) String() string {
	return fmt.Sprintf("sig%d", s.n)
}

func (s muxSignal) sigCore() muxSignal {
	return s
}

// route writes the selector of the multiplexer.
func (s muxSignal) route(u MuxUart, sel uint32) muxSignal {
	if s.g == nil {
		wiring("sig%d is not present on this chip", s.n)
	}
	if s.g.chip.gen == glbV1 && u.Port() > 1 {
		wiring("UART%d is not available on %s", u.Port(), s.g.chip.name)
	}
	code := u.muxBase() + sel
	s.g.regs.selectSignal(s.n, code)
	s.g.trace("signal", slog.Int("sig", s.n), slog.Int("uart", u.Port()), slog.Uint64("code", uint64(code)))
	return s
}

type (
	// Signal is a multiplexer that has not been assigned a UART line.
	Signal struct{ muxSignal }
	// TxdSignal carries the transmit line of UART U.
	TxdSignal[U MuxUart] struct{ muxSignal }
	// RxdSignal carries the receive line of UART U.
	RxdSignal[U MuxUart] struct{ muxSignal }
	// RtsSignal carries the request to send line of UART U.
	RtsSignal[U MuxUart] struct{ muxSignal }
	// CtsSignal carries the clear to send line of UART U.
	CtsSignal[U MuxUart] struct{ muxSignal }
)

// IntoTxd assigns the multiplexer to the transmit line of UART U.
func IntoTxd[U MuxUart](s MuxSignal) TxdSignal[U] {
	var u U
	return TxdSignal[U]{s.sigCore().route(u, selTxd)}
}

// IntoRxd assigns the multiplexer to the receive line of UART U.
func IntoRxd[U MuxUart](s MuxSignal) RxdSignal[U] {
	var u U
	return RxdSignal[U]{s.sigCore().route(u, selRxd)}
}

// IntoRts assigns the multiplexer to the request to send line of UART U.
func IntoRts[U MuxUart](s MuxSignal) RtsSignal[U] {
	var u U
	return RtsSignal[U]{s.sigCore().route(u, selRts)}
}

// IntoCts assigns the multiplexer to the clear to send line of UART U.
func IntoCts[U MuxUart](s MuxSignal) CtsSignal[U] {
	var u U
	return CtsSignal[U]{s.sigCore().route(u, selCts)}
}

// IntoUnassigned returns the multiplexer to the unassigned state.
// The selector keeps its last value.
func (s muxSignal) IntoUnassigned() Signal {
	return Signal{s}
}
