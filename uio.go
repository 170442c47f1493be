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
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const drvUioBase = "/dev/uio%d"

// Serve delivers the GPIO interrupt of UIO device n to OnInterrupt until
// ctx is cancelled or the device fails.
func (s *State) Serve(ctx context.Context, n int) error {
	f, err := os.OpenFile(fmt.Sprintf(drvUioBase, n), os.O_RDWR|os.O_SYNC, 0660)
	if err != nil {
		return err
	}
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			// Closing the device unblocks the pending read.
			f.Close()
		case <-stop:
			f.Close()
		}
	}()
	return s.ServeDevice(ctx, f)
}

// ServeDevice runs the UIO interrupt protocol over dev. Writing a 32 bit 1
// enables the interrupt; each 32 bit read returns the interrupt count once
// the interrupt has fired, after which the kernel leaves it disabled.
func (s *State) ServeDevice(ctx context.Context, dev io.ReadWriter) error {
	b := make([]byte, 4)
	var last uint32
	for {
		binary.NativeEndian.PutUint32(b, 1)
		if _, err := dev.Write(b); err != nil {
			return s.serveErr(ctx, "enable", err)
		}
		if _, err := io.ReadFull(dev, b); err != nil {
			return s.serveErr(ctx, "read", err)
		}
		count := binary.NativeEndian.Uint32(b)
		if last != 0 && count-last > 1 {
			s.g.trace("gpio interrupts coalesced", slog.Uint64("count", uint64(count)), slog.Uint64("missed", uint64(count-last-1)))
		}
		last = count
		s.OnInterrupt()
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (s *State) serveErr(ctx context.Context, op string, err error) error {
	// Assume the device was closed because the context ended.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.g.logerr("uio "+op, slog.String("err", err.Error()))
	return fmt.Errorf("uio %s: %w", op, err)
}
