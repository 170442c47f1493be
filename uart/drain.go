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
	"tinygo.org/x/drivers"
)

// Drain reads the bytes u already holds into p without waiting for more.
// It returns the number of bytes read.
func Drain(u drivers.UART, p []byte) (int, error) {
	n := u.Buffered()
	if n > len(p) {
		n = len(p)
	}
	if n == 0 {
		return 0, nil
	}
	return u.Read(p[:n])
}
