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
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

const levelTrace = slog.LevelDebug - 1

// layout is the generation specific access to the GLB registers.
type layout interface {
	code(f Function) (uint32, bool)
	apply(n int, p policy, code uint32)
	level(n int) bool
	setLevel(n int, high bool)
	setSchmitt(n int, on bool)
	drive(n int) Drive
	setDrive(n int, d Drive)
	intMode(n int) InterruptMode
	setIntMode(n int, m InterruptMode)
	intPending(n int) bool
	clearInt(n int)
	maskInt(n int, masked bool)
	selectSignal(s int, code uint32)
	signal(s int) uint32
}

// GLB is the global register block of a Bouffalo chip. It owns the pads
// and the UART signal multiplexers.
type GLB struct {
	bus     Bus
	win     *Window // Set when the GLB was mapped by Open
	chip    chipInfo
	regs    layout
	mu      sync.Mutex // Serialises read-modify-write of shared registers and of v2 config words
	given   atomic.Bool
	logger  *slog.Logger
	traceOn bool
}

// Single instance of an opened GLB.
var glb atomic.Pointer[GLB]

// Open maps the GLB register block described by the configuration.
// Only one GLB may be open at a time.
func Open(cfg *Config) (*GLB, error) {
	if glb.Load() != nil {
		return nil, ErrAlreadyOpen
	}
	ci, ok := chips[cfg.chip]
	if !ok {
		return nil, fmt.Errorf("chip %d: %w", cfg.chip, ErrUnknownChip)
	}
	var (
		w   *Window
		err error
	)
	if cfg.uio >= 0 {
		var base uintptr
		w, base, err = MapUIO(cfg.uio)
		if err == nil && base != ci.base {
			w.Close()
			err = fmt.Errorf("uio%d maps 0x%08x, %s GLB is at 0x%08x", cfg.uio, base, ci.name, ci.base)
		}
	} else {
		w, err = Map(ci.base, glbSize)
	}
	if err != nil {
		return nil, err
	}
	g := newGLB(w, ci, cfg.logger)
	g.win = w
	if !glb.CompareAndSwap(nil, g) {
		w.Close()
		return nil, ErrAlreadyOpen
	}
	g.info("GLB opened", slog.String("chip", ci.name), slog.Int("uio", cfg.uio))
	return g, nil
}

// NewGLB builds a GLB over an arbitrary register bus, such as a statically
// mapped block on bare metal or a simulated bus in tests.
// It does not count as the opened instance.
func NewGLB(bus Bus, chip Chip, logger *slog.Logger) (*GLB, error) {
	ci, ok := chips[chip]
	if !ok {
		return nil, fmt.Errorf("chip %d: %w", chip, ErrUnknownChip)
	}
	return newGLB(bus, ci, logger), nil
}

func newGLB(bus Bus, ci chipInfo, logger *slog.Logger) *GLB {
	g := &GLB{bus: bus, chip: ci, logger: logger}
	g.traceOn = logger != nil && logger.Handler().Enabled(context.Background(), levelTrace)
	switch ci.gen {
	case glbV1:
		g.regs = layoutV1{g}
	default:
		g.regs = layoutV2{g}
	}
	return g
}

// Close releases the register window. Pads handed out by the GLB
// must not be used afterwards.
func (g *GLB) Close() error {
	if g.win == nil {
		return nil
	}
	glb.CompareAndSwap(g, nil)
	g.info("GLB closed")
	return g.win.Close()
}

// Description returns a string describing the chip and register layout.
func (g *GLB) Description() string {
	return fmt.Sprintf("%s GLB v%d at 0x%08x, %d pads, %d UART signals",
		g.chip.name, g.chip.gen, g.chip.base, g.chip.pads, g.chip.signals)
}

// NumPads returns the number of pads of the chip.
func (g *GLB) NumPads() int {
	return g.chip.pads
}

// Pads hands out every pad in the Disabled role together with the UART
// signal multiplexers. The pads can be taken only once; a second call panics.
func (g *GLB) Pads() *Pads {
	if g.given.Swap(true) {
		wiring("pads of %s already taken", g.chip.name)
	}
	g.debug("pads taken", slog.Int("pads", g.chip.pads), slog.Int("signals", g.chip.signals))
	return newPads(g)
}

// function returns the select code of f, panicking if the chip lacks it.
func (g *GLB) function(f Function) uint32 {
	c, ok := g.regs.code(f)
	if !ok {
		wiring("function %s not available on %s", f, g.chip.name)
	}
	return c
}

// modify is a read-modify-write of a register shared between pads.
func (g *GLB) modify(offs uintptr, f func(uint32) uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	modify(g.bus, offs, f)
}

func (g *GLB) logerr(msg string, attrs ...slog.Attr) {
	g.logattrs(slog.LevelError, msg, attrs...)
}

func (g *GLB) info(msg string, attrs ...slog.Attr) {
	g.logattrs(slog.LevelInfo, msg, attrs...)
}

func (g *GLB) debug(msg string, attrs ...slog.Attr) {
	g.logattrs(slog.LevelDebug, msg, attrs...)
}

func (g *GLB) trace(msg string, attrs ...slog.Attr) {
	if g.traceOn {
		g.logattrs(levelTrace, msg, attrs...)
	}
}

func (g *GLB) logattrs(level slog.Level, msg string, attrs ...slog.Attr) {
	if g.logger != nil {
		g.logger.LogAttrs(context.Background(), level, msg, attrs...)
	}
}
