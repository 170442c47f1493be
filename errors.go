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
	"errors"
	"fmt"
)

var (
	ErrAlreadyOpen = errors.New("bflb: GLB already open; must close it first")
	ErrUnsupported = errors.New("bflb: operation not supported")
	ErrUnknownChip = errors.New("bflb: unknown chip")
)

// wiring panics for pad and signal combinations that cannot work on the
// hardware. These are programming errors, not runtime conditions.
func wiring(format string, args ...any) {
	panic(fmt.Sprintf("bflb: "+format, args...))
}
