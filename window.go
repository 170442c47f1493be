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
	"sync/atomic"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Bus is the register access primitive used by every peripheral in this module.
// Offsets are byte offsets from the start of the peripheral's register block.
type Bus interface {
	Load32(offs uintptr) uint32
	Store32(offs uintptr, v uint32)
}

// Window is a Bus over a range of memory, usually a memory mapped peripheral.
type Window struct {
	mem   []byte
	unmap func([]byte) error
}

// NewWindow wraps mem as a register window. The slice must be 4 byte aligned.
func NewWindow(mem []byte) *Window {
	return &Window{mem: mem}
}

// Size returns the length of the window in bytes.
func (w *Window) Size() int {
	return len(w.mem)
}

// Load32 reads one 32 bit register.
func (w *Window) Load32(offs uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&w.mem[offs])))
}

// Store32 writes one 32 bit register.
func (w *Window) Store32(offs uintptr, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&w.mem[offs])), v)
}

// Close releases the mapping, if the window was created by Map or MapUIO.
func (w *Window) Close() error {
	if w.unmap == nil || w.mem == nil {
		return nil
	}
	err := w.unmap(w.mem)
	w.mem = nil
	return err
}

type offsetBus struct {
	b    Bus
	base uintptr
}

func (o offsetBus) Load32(offs uintptr) uint32     { return o.b.Load32(o.base + offs) }
func (o offsetBus) Store32(offs uintptr, v uint32) { o.b.Store32(o.base+offs, v) }

// Offset returns a Bus addressing b from base onwards, for register
// blocks that do not start on a page boundary.
func Offset(b Bus, base uintptr) Bus {
	return offsetBus{b, base}
}

// modify performs a read-modify-write of one register.
func modify(b Bus, offs uintptr, f func(uint32) uint32) {
	b.Store32(offs, f(b.Load32(offs)))
}

// field extracts the value under mask, shifted down to bit 0.
func field[T constraints.Unsigned](reg uint32, mask uint32, shift uint) T {
	return T((reg & mask) >> shift)
}

// setField replaces the bits under mask with v shifted into place.
func setField[T constraints.Unsigned](reg uint32, mask uint32, shift uint, v T) uint32 {
	return reg&^mask | (uint32(v)<<shift)&mask
}

// setBit sets or clears the bits of mask.
func setBit(reg uint32, mask uint32, on bool) uint32 {
	if on {
		return reg | mask
	}
	return reg &^ mask
}
