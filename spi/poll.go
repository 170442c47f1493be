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
	"errors"

	"tinygo.org/x/drivers"
)

var ErrNoResponse = errors.New("spi: no response from device")

// Clock sends n idle bytes, giving the device clock cycles with
// nothing to do, as SD cards need before their first command.
func Clock(bus drivers.SPI, idle byte, n int) error {
	for i := 0; i < n; i++ {
		if _, err := bus.Transfer(idle); err != nil {
			return err
		}
	}
	return nil
}

// Poll sends idle bytes until the device answers with a different byte,
// for at most tries bytes.
func Poll(bus drivers.SPI, idle byte, tries int) (byte, error) {
	for i := 0; i < tries; i++ {
		b, err := bus.Transfer(idle)
		if err != nil {
			return 0, err
		}
		if b != idle {
			return b, nil
		}
	}
	return 0, ErrNoResponse
}
