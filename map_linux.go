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

//go:build linux

package bflb

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Device paths.
const (
	drvDevMem  = "/dev/mem"
	drvUioAddr = "/sys/class/uio/uio%d/maps/map0/addr"
	drvUioSize = "/sys/class/uio/uio%d/maps/map0/size"
)

// Map maps size bytes of physical memory starting at base through /dev/mem.
// base must be page aligned.
func Map(base uintptr, size int) (*Window, error) {
	f, err := os.OpenFile(drvDevMem, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	// The mapping stays valid after the file is closed.
	defer f.Close()
	mem, err := unix.Mmap(int(f.Fd()), int64(base), size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%s at 0x%08x: %w", drvDevMem, base, err)
	}
	return &Window{mem: mem, unmap: unix.Munmap}, nil
}

// MapUIO maps the first memory region of UIO device n. It returns the
// window and the physical address the region starts at.
func MapUIO(n int) (*Window, uintptr, error) {
	base, err := readDriverValue(fmt.Sprintf(drvUioAddr, n))
	if err != nil {
		return nil, 0, err
	}
	size, err := readDriverValue(fmt.Sprintf(drvUioSize, n))
	if err != nil {
		return nil, 0, err
	}
	dev := fmt.Sprintf(drvUioBase, n)
	f, err := os.OpenFile(dev, os.O_RDWR|os.O_SYNC, 0660)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", dev, err)
	}
	return &Window{mem: mem, unmap: unix.Munmap}, uintptr(base), nil
}

// readDriverValue opens and reads a string from a device file and decodes
// the string as an integer. This is used to retrieve the UIO map
// parameters exported by the kernel.
func readDriverValue(s string) (int, error) {
	var val int
	f, err := os.Open(s)
	if err != nil {
		return -1, err
	}
	defer f.Close()
	n, err := fmt.Fscanf(f, "%v", &val)
	if err != nil {
		return -1, fmt.Errorf("%s: %v", s, err)
	}
	if n != 1 {
		return -1, fmt.Errorf("%s: no value found", s)
	}
	return val, nil
}
