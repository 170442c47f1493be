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

const (
	maxPads    = 46     // Largest pad count of any supported chip
	maxSignals = 12     // Largest number of UART signal multiplexers
	glbSize    = 0x1000 // Size of the GLB register window
)

// Chip identifies a Bouffalo Lab part.
type Chip int

const (
	BL602 Chip = iota
	BL702
	BL808
	BL616
)

// generation selects the GLB register layout.
type generation int

const (
	glbV1 generation = iota + 1 // two pads per config register, separate enable/interrupt registers
	glbV2                       // one config register per pad, set/clear output registers
)

type chipInfo struct {
	name    string
	gen     generation
	base    uintptr // Physical address of the GLB block
	pads    int     // Number of pads bonded out
	signals int     // Number of UART signal multiplexers
}

var chips = map[Chip]chipInfo{
	BL602: {"BL602", glbV1, 0x40000000, 23, 8},
	BL702: {"BL702", glbV1, 0x40000000, 32, 8},
	BL808: {"BL808", glbV2, 0x20000000, 46, 12},
	BL616: {"BL616", glbV2, 0x20000000, 35, 12},
}

func (c Chip) String() string {
	if ci, ok := chips[c]; ok {
		return ci.name
	}
	return "unknown"
}

// Config describes how the GLB register block is reached.
// A configuration is built through chained methods e.g:
//
//	cfg := bflb.NewConfig().Chip(bflb.BL702).UIO(1)
//	g, err := bflb.Open(cfg)
type Config struct {
	chip   Chip
	uio    int // UIO device number, or -1 to map /dev/mem
	logger *slog.Logger
}

// The default config.
// The default is a BL808 with the GLB mapped through /dev/mem and no logging.
// It may be modified before the GLB is opened e.g
// bflb.DefaultConfig.Chip(bflb.BL616)
var DefaultConfig *Config

func init() {
	DefaultConfig = NewConfig()
}

// NewConfig creates a Config for a BL808 accessed through /dev/mem.
func NewConfig() *Config {
	c := new(Config)
	c.chip = BL808
	c.uio = -1
	return c
}

// Chip selects the part. The chip decides the register layout,
// the GLB base address and the number of pads.
func (c *Config) Chip(chip Chip) *Config {
	c.chip = chip
	return c
}

// DevMem maps the GLB from /dev/mem at the chip's base address.
func (c *Config) DevMem() *Config {
	c.uio = -1
	return c
}

// UIO maps the GLB through /dev/uioN. The first memory map of the
// device must cover the GLB block.
func (c *Config) UIO(n int) *Config {
	c.uio = n
	return c
}

// Logger sets the structured logger. A nil logger disables logging.
func (c *Config) Logger(l *slog.Logger) *Config {
	c.logger = l
	return c
}
