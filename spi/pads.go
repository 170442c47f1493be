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
	"fmt"

	"github.com/aamcrae/bflb"
)

// The line an SPI pad carries is fixed by the pad number modulo 4.
const (
	lineCs = iota
	lineMosi
	lineMiso
	lineClk
)

var lineNames = [4]string{"cs", "mosi", "miso", "clk"}

// Capability lists the SPI lines a group of pads provides. CLK is always present.
type Capability struct {
	MOSI, MISO, CS bool
}

// Pads is a group of pads wired to SPI controller I: Full, WriteOnly or NoCs.
type Pads[I bflb.SpiIndex] interface {
	Capabilities() Capability
	spi(I)
}

func check[I bflb.SpiIndex](p bflb.Spi[I], line int) {
	if p.Index()%4 != line {
		panic(fmt.Sprintf("bflb: io%d carries spi %s, not %s", p.Index(), lineNames[p.Index()%4], lineNames[line]))
	}
}

// Full has clock, both data lines and chip select.
type Full[I bflb.SpiIndex] struct {
	clk, mosi, miso, cs bflb.Spi[I]
}

func NewFull[I bflb.SpiIndex](clk, mosi, miso, cs bflb.Spi[I]) Full[I] {
	check(clk, lineClk)
	check(mosi, lineMosi)
	check(miso, lineMiso)
	check(cs, lineCs)
	return Full[I]{clk, mosi, miso, cs}
}

func (Full[I]) Capabilities() Capability { return Capability{MOSI: true, MISO: true, CS: true} }
func (Full[I]) spi(I)                    {}

// WriteOnly has no MISO line, for displays and similar sinks.
type WriteOnly[I bflb.SpiIndex] struct {
	clk, mosi, cs bflb.Spi[I]
}

func NewWriteOnly[I bflb.SpiIndex](clk, mosi, cs bflb.Spi[I]) WriteOnly[I] {
	check(clk, lineClk)
	check(mosi, lineMosi)
	check(cs, lineCs)
	return WriteOnly[I]{clk, mosi, cs}
}

func (WriteOnly[I]) Capabilities() Capability { return Capability{MOSI: true, CS: true} }
func (WriteOnly[I]) spi(I)                    {}

// NoCs leaves chip select to the caller, usually a GPIO output.
type NoCs[I bflb.SpiIndex] struct {
	clk, mosi, miso bflb.Spi[I]
}

func NewNoCs[I bflb.SpiIndex](clk, mosi, miso bflb.Spi[I]) NoCs[I] {
	check(clk, lineClk)
	check(mosi, lineMosi)
	check(miso, lineMiso)
	return NoCs[I]{clk, mosi, miso}
}

func (NoCs[I]) Capabilities() Capability { return Capability{MOSI: true, MISO: true} }
func (NoCs[I]) spi(I)                    {}
