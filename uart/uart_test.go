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
	"bytes"
	"errors"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/aamcrae/bflb"
	"tinygo.org/x/drivers"
)

// regBus is a plain register file.
type regBus struct {
	mu   sync.Mutex
	regs map[uintptr]uint32
}

func newRegBus() *regBus {
	return &regBus{regs: make(map[uintptr]uint32)}
}

func (b *regBus) Load32(offs uintptr) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regs[offs]
}

func (b *regBus) Store32(offs uintptr, v uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.regs[offs] = v
}

// fifoBus models a UART whose transmit FIFO never fills and whose
// transmitted bytes are looped back into the receive FIFO.
type fifoBus struct {
	regBus
	sent []byte
	rx   []byte
}

func newFifoBus() *fifoBus {
	return &fifoBus{regBus: regBus{regs: make(map[uintptr]uint32)}}
}

func (b *fifoBus) Load32(offs uintptr) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch offs {
	case rFifoConfig1:
		return uint32(len(b.rx))<<8 | fifoDepth
	case rFifoRead:
		v := b.rx[0]
		b.rx = b.rx[1:]
		return uint32(v)
	}
	return b.regs[offs]
}

func (b *fifoBus) Store32(offs uintptr, v uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offs == rFifoWrite {
		b.sent = append(b.sent, byte(v))
		b.rx = append(b.rx, byte(v))
		return
	}
	b.regs[offs] = v
}

func testPads(t *testing.T, chip bflb.Chip) *bflb.Pads {
	t.Helper()
	g, err := bflb.NewGLB(newRegBus(), chip, nil)
	if err != nil {
		t.Fatalf("NewGLB: %v", err)
	}
	return g.Pads()
}

func mustPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", what)
		}
	}()
	f()
}

func TestCapabilities(t *testing.T) {
	p := testPads(t, bflb.BL808)
	m := &p.UartMuxes
	rts := Route(p.IO0.IntoUart(), bflb.IntoRts[bflb.UART1](m.Sig0))
	cts := Route(p.IO1.IntoUart(), bflb.IntoCts[bflb.UART1](m.Sig1))
	tx := Route(p.IO2.IntoUart(), bflb.IntoTxd[bflb.UART1](m.Sig2))
	rx := Route(p.IO3.IntoUart(), bflb.IntoRxd[bflb.UART1](m.Sig3))
	mm := []bflb.MmUart{p.IO4.IntoMmUart(), p.IO5.IntoMmUart(), p.IO6.IntoMmUart(), p.IO7.IntoMmUart()}

	for _, c := range []struct {
		name string
		got  Capability
		want Capability
	}{
		{"TxOnly", NewTxOnly(tx).Capabilities(), Capability{TXD: true}},
		{"TxRx", NewTxRx(tx, rx).Capabilities(), Capability{TXD: true, RXD: true}},
		{"TxCts", NewTxCts(tx, cts).Capabilities(), Capability{CTS: true, TXD: true}},
		{"Full", NewFull(tx, rx, rts, cts).Capabilities(), Capability{true, true, true, true}},
		{"MmTx", NewMmTx(mm[0]).Capabilities(), Capability{TXD: true}},
		{"MmTxRx", NewMmTxRx(mm[0], mm[1]).Capabilities(), Capability{TXD: true, RXD: true}},
		{"MmFull", NewMmFull(mm[0], mm[1], mm[2], mm[3]).Capabilities(), Capability{true, true, true, true}},
	} {
		if c.got != c.want {
			t.Errorf("%s: got %s, want %s", c.name, c.got, c.want)
		}
	}
	if s := (Capability{RTS: true, RXD: true}).String(); s != "rts,rxd" {
		t.Errorf("String: got %q", s)
	}
}

func TestRouteMismatch(t *testing.T) {
	p := testPads(t, bflb.BL808)
	pin := p.IO14.IntoUart()
	sig := bflb.IntoTxd[bflb.UART0](p.UartMuxes.Sig3)
	mustPanic(t, "io14 with sig3", func() { Route(pin, sig) })
	// Pad 14 wraps around to multiplexer 2.
	r := Route(pin, bflb.IntoTxd[bflb.UART0](p.UartMuxes.Sig2))
	if r.Pin().Index() != 14 || r.Signal().Index() != 2 {
		t.Errorf("route: io%d sig%d", r.Pin().Index(), r.Signal().Index())
	}
}

func TestMmPadCheck(t *testing.T) {
	p := testPads(t, bflb.BL808)
	mustPanic(t, "mm tx on io5", func() { NewMmTx(p.IO5.IntoMmUart()) })
	mustPanic(t, "mm rx on io8", func() { NewMmTxRx(p.IO4.IntoMmUart(), p.IO8.IntoMmUart()) })
}

func TestSerialSplit(t *testing.T) {
	p := testPads(t, bflb.BL808)
	tx := Route(p.IO14.IntoUart(), bflb.IntoTxd[bflb.UART0](p.UartMuxes.Sig2))
	rx := Route(p.IO15.IntoUart(), bflb.IntoRxd[bflb.UART0](p.UartMuxes.Sig3))
	bus := newFifoBus()
	s, err := Freerun(NewInstance[bflb.UART0](bus), DefaultConfig, NewTxRx(tx, rx), 40_000_000)
	if err != nil {
		t.Fatalf("Freerun: %v", err)
	}
	if c := s.Capabilities(); c != (Capability{TXD: true, RXD: true}) {
		t.Errorf("capabilities: got %s", c)
	}
	msg := []byte("hello")
	if n, err := s.Write(msg); n != len(msg) || err != nil {
		t.Fatalf("Write: %d, %v", n, err)
	}
	if s.Buffered() != len(msg) {
		t.Errorf("buffered: got %d, want %d", s.Buffered(), len(msg))
	}
	buf := make([]byte, 16)
	n, err := s.Read(buf)
	if err != nil || !bytes.Equal(buf[:n], msg) {
		t.Errorf("Read: %q, %v", buf[:n], err)
	}

	txh, rxh := Split(s)
	tp, rp := txh.Pins(), rxh.Pins()
	if len(tp) != 1 || len(rp) != 1 || tp[0].Index() != 14 || rp[0].Index() != 15 {
		t.Errorf("split pins: tx %v rx %v", tp, rp)
	}
	if _, ok := any(rxh).(io.Writer); ok {
		t.Errorf("receive half can write")
	}
	if _, ok := any(txh).(io.Reader); ok {
		t.Errorf("transmit half can read")
	}
	if err := txh.WriteByte('x'); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if b, err := rxh.ReadByte(); b != 'x' || err != nil {
		t.Errorf("ReadByte: %q, %v", b, err)
	}
	if err := txh.Flush(); err != nil {
		t.Errorf("Flush: %v", err)
	}
	if string(bus.sent) != "hellox" {
		t.Errorf("sent: got %q", bus.sent)
	}
}

func TestFullSplit(t *testing.T) {
	p := testPads(t, bflb.BL808)
	m := &p.UartMuxes
	full := NewFull(
		Route(p.IO2.IntoUart(), bflb.IntoTxd[bflb.UART1](m.Sig2)),
		Route(p.IO3.IntoUart(), bflb.IntoRxd[bflb.UART1](m.Sig3)),
		Route(p.IO0.IntoUart(), bflb.IntoRts[bflb.UART1](m.Sig0)),
		Route(p.IO1.IntoUart(), bflb.IntoCts[bflb.UART1](m.Sig1)),
	)
	s, err := Freerun(NewInstance[bflb.UART1](newFifoBus()), DefaultConfig, full, 40_000_000)
	if err != nil {
		t.Fatalf("Freerun: %v", err)
	}
	txh, rxh := Split(s)
	idx := func(pins []bflb.Pin) []int {
		var n []int
		for _, p := range pins {
			n = append(n, p.Index())
		}
		return n
	}
	if got := idx(txh.Pins()); !slices.Equal(got, []int{2, 1}) {
		t.Errorf("tx pins: got %v, want [2 1]", got)
	}
	if got := idx(rxh.Pins()); !slices.Equal(got, []int{3, 0}) {
		t.Errorf("rx pins: got %v, want [3 0]", got)
	}
}

func TestFreerunRegisters(t *testing.T) {
	p := testPads(t, bflb.BL808)
	m := &p.UartMuxes
	full := NewFull(
		Route(p.IO2.IntoUart(), bflb.IntoTxd[bflb.UART0](m.Sig2)),
		Route(p.IO3.IntoUart(), bflb.IntoRxd[bflb.UART0](m.Sig3)),
		Route(p.IO0.IntoUart(), bflb.IntoRts[bflb.UART0](m.Sig0)),
		Route(p.IO1.IntoUart(), bflb.IntoCts[bflb.UART0](m.Sig1)),
	)
	bus := newFifoBus()
	bus.regs[rSwMode] = swRtsMode
	cfg := Config{Baudrate: 2_000_000, DataBits: 7, Parity: ParityOdd, StopBits: Stop2}
	s, err := Freerun(NewInstance[bflb.UART0](bus), cfg, full, 40_000_000)
	if err != nil {
		t.Fatalf("Freerun: %v", err)
	}
	if v := bus.Load32(rBitPeriod); v != 19|19<<16 {
		t.Errorf("bit period: got 0x%08x, want 0x%08x", v, 19|19<<16)
	}
	wantTx := uint32(6<<shDataBits | cfgParity | cfgParityOdd | cfgFreerun | 3<<shStopBits | cfgEnable | cfgCts)
	if v := bus.Load32(rTxConfig); v != wantTx {
		t.Errorf("tx config: got 0x%08x, want 0x%08x", v, wantTx)
	}
	wantRx := uint32(6<<shDataBits | cfgParity | cfgParityOdd | cfgEnable)
	if v := bus.Load32(rRxConfig); v != wantRx {
		t.Errorf("rx config: got 0x%08x, want 0x%08x", v, wantRx)
	}
	if bus.Load32(rSwMode)&swRtsMode != 0 {
		t.Errorf("rts left in software mode")
	}
	if v := bus.Load32(rFifoConfig0); v&(fifoTxClear|fifoRxClear) != fifoTxClear|fifoRxClear {
		t.Errorf("fifos not cleared: 0x%08x", v)
	}
	inst, _ := s.Free()
	if inst.bus.Load32(rTxConfig)&cfgEnable != 0 || inst.bus.Load32(rRxConfig)&cfgEnable != 0 {
		t.Errorf("Free left the uart enabled")
	}
}

func TestTxOnly(t *testing.T) {
	p := testPads(t, bflb.BL702)
	tx := NewTxOnly(Route(p.IO6.IntoUart(), bflb.IntoTxd[bflb.UART0](p.UartMuxes.Sig6)))
	bus := newFifoBus()
	s, err := Freerun(NewInstance[bflb.UART0](bus), DefaultConfig, tx, 40_000_000)
	if err != nil {
		t.Fatalf("Freerun: %v", err)
	}
	if bus.Load32(rRxConfig)&cfgEnable != 0 {
		t.Errorf("receiver enabled without a receive pad")
	}
	if _, err := s.Read(make([]byte, 1)); !errors.Is(err, ErrNoReceiver) {
		t.Errorf("Read: got %v, want %v", err, ErrNoReceiver)
	}
	if s.Buffered() != 0 {
		t.Errorf("Buffered: got %d", s.Buffered())
	}
}

func TestFreerunErrors(t *testing.T) {
	p := testPads(t, bflb.BL808)
	mm := NewMmTx(p.IO8.IntoMmUart())
	inst := NewInstance[bflb.MMUART](newFifoBus())
	for _, c := range []struct {
		cfg   Config
		clock uint32
		want  error
	}{
		{Config{Baudrate: 0, DataBits: 8}, 40_000_000, ErrBaudrate},
		{Config{Baudrate: 300, DataBits: 8}, 40_000_000, ErrBaudrate},
		{Config{Baudrate: 4_000_000, DataBits: 8}, 1_000_000, ErrBaudrate},
		{Config{Baudrate: 9600, DataBits: 9}, 40_000_000, ErrDataBits},
	} {
		if _, err := Freerun(inst, c.cfg, mm, c.clock); !errors.Is(err, c.want) {
			t.Errorf("%+v at %d Hz: got %v, want %v", c.cfg, c.clock, err, c.want)
		}
	}
	if _, err := Freerun(inst, DefaultConfig, mm, 40_000_000); err != nil {
		t.Errorf("mm uart: %v", err)
	}
}

func TestDrain(t *testing.T) {
	p := testPads(t, bflb.BL808)
	pads := NewTxRx(
		Route(p.IO14.IntoUart(), bflb.IntoTxd[bflb.UART0](p.UartMuxes.Sig2)),
		Route(p.IO15.IntoUart(), bflb.IntoRxd[bflb.UART0](p.UartMuxes.Sig3)),
	)
	s, err := Freerun(NewInstance[bflb.UART0](newFifoBus()), DefaultConfig, pads, 40_000_000)
	if err != nil {
		t.Fatalf("Freerun: %v", err)
	}
	var u drivers.UART = s
	buf := make([]byte, 2)
	if n, err := Drain(u, buf); n != 0 || err != nil {
		t.Errorf("empty drain: %d, %v", n, err)
	}
	if _, err := u.Write([]byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	n, err := Drain(u, buf)
	if err != nil || string(buf[:n]) != "ab" {
		t.Errorf("Drain: %q, %v", buf[:n], err)
	}
	if u.Buffered() != 1 {
		t.Errorf("Buffered: got %d, want 1", u.Buffered())
	}

	tx := NewTxOnly(Route(p.IO2.IntoUart(), bflb.IntoTxd[bflb.UART1](p.UartMuxes.Sig2)))
	bus := newFifoBus()
	to, err := Freerun(NewInstance[bflb.UART1](bus), DefaultConfig, tx, 40_000_000)
	if err != nil {
		t.Fatalf("Freerun: %v", err)
	}
	to.Write([]byte("x"))
	// Looped back bytes are invisible without a receive line.
	if n, err := Drain(to, buf); n != 0 || err != nil {
		t.Errorf("transmit only drain: %d, %v", n, err)
	}
}
