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

// Pads holds every pad of the chip in the Disabled role, and the
// UART signal multiplexers. Pads the chip does not bond out are left
// without a GLB; transitioning one panics.
//
// Role values are plain values and can be copied. After a transition the
// caller must drop the previous value, including the field of Pads it came
// from: the old value still addresses the pad and would reconfigure it
// behind the new role's back.
type Pads struct {
	IO0  Disabled
	IO1  Disabled
	IO2  Disabled
	IO3  Disabled
	IO4  Disabled
	IO5  Disabled
	IO6  Disabled
	IO7  Disabled
	IO8  Disabled
	IO9  Disabled
	IO10 Disabled
	IO11 Disabled
	IO12 Disabled
	IO13 Disabled
	IO14 Disabled
	IO15 Disabled
	IO16 Disabled
	IO17 Disabled
	IO18 Disabled
	IO19 Disabled
	IO20 Disabled
	IO21 Disabled
	IO22 Disabled
	IO23 Disabled
	IO24 Disabled
	IO25 Disabled
	IO26 Disabled
	IO27 Disabled
	IO28 Disabled
	IO29 Disabled
	IO30 Disabled
	IO31 Disabled
	IO32 Disabled
	IO33 Disabled
	IO34 Disabled
	IO35 Disabled
	IO36 Disabled
	IO37 Disabled
	IO38 Disabled
	IO39 Disabled
	IO40 Disabled
	IO41 Disabled
	IO42 Disabled
	IO43 Disabled
	IO44 Disabled
	IO45 Disabled

	UartMuxes UartMuxes
}

// UartMuxes are the unconfigured UART signal multiplexers. GLB v1
// chips have eight, GLB v2 chips twelve.
type UartMuxes struct {
	Sig0  Signal
	Sig1  Signal
	Sig2  Signal
	Sig3  Signal
	Sig4  Signal
	Sig5  Signal
	Sig6  Signal
	Sig7  Signal
	Sig8  Signal
	Sig9  Signal
	Sig10 Signal
	Sig11 Signal
}

func newPads(g *GLB) *Pads {
	p := new(Pads)
	io := [maxPads]*Disabled{
		&p.IO0, &p.IO1, &p.IO2, &p.IO3,
		&p.IO4, &p.IO5, &p.IO6, &p.IO7,
		&p.IO8, &p.IO9, &p.IO10, &p.IO11,
		&p.IO12, &p.IO13, &p.IO14, &p.IO15,
		&p.IO16, &p.IO17, &p.IO18, &p.IO19,
		&p.IO20, &p.IO21, &p.IO22, &p.IO23,
		&p.IO24, &p.IO25, &p.IO26, &p.IO27,
		&p.IO28, &p.IO29, &p.IO30, &p.IO31,
		&p.IO32, &p.IO33, &p.IO34, &p.IO35,
		&p.IO36, &p.IO37, &p.IO38, &p.IO39,
		&p.IO40, &p.IO41, &p.IO42, &p.IO43,
		&p.IO44, &p.IO45,
	}
	for n := range io {
		*io[n] = Disabled{pad{n: n}}
		if n < g.chip.pads {
			io[n].g = g
		}
	}
	sig := [maxSignals]*Signal{
		&p.UartMuxes.Sig0, &p.UartMuxes.Sig1, &p.UartMuxes.Sig2, &p.UartMuxes.Sig3,
		&p.UartMuxes.Sig4, &p.UartMuxes.Sig5, &p.UartMuxes.Sig6, &p.UartMuxes.Sig7,
		&p.UartMuxes.Sig8, &p.UartMuxes.Sig9, &p.UartMuxes.Sig10, &p.UartMuxes.Sig11,
	}
	for n := range sig {
		*sig[n] = Signal{muxSignal{n: n}}
		if n < g.chip.signals {
			sig[n].g = g
		}
	}
	return p
}
