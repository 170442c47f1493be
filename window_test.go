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
	"testing"
)

func TestWindow(t *testing.T) {
	mem := make([]byte, 64)
	w := NewWindow(mem)
	if w.Size() != 64 {
		t.Fatalf("size: got %d, want 64", w.Size())
	}
	w.Store32(8, 0xDEADBEEF)
	if v := w.Load32(8); v != 0xDEADBEEF {
		t.Errorf("load: got 0x%08x", v)
	}
	o := Offset(w, 0x20)
	o.Store32(4, 0x12345678)
	if v := w.Load32(0x24); v != 0x12345678 {
		t.Errorf("offset store: got 0x%08x", v)
	}
	if v := o.Load32(4); v != 0x12345678 {
		t.Errorf("offset load: got 0x%08x", v)
	}
	if err := w.Close(); err != nil {
		t.Errorf("close of unmapped window: %v", err)
	}
}

func TestFields(t *testing.T) {
	v := setField[uint8](0xFFFFFFFF, 0xF<<8, 8, 2)
	if v != 0xFFFFF2FF {
		t.Errorf("setField: got 0x%08x", v)
	}
	if f := field[uint8](v, 0xF<<8, 8); f != 2 {
		t.Errorf("field: got %d", f)
	}
	if v := setBit(0, 1<<3, true); v != 8 {
		t.Errorf("setBit on: got %d", v)
	}
	if v := setBit(0xFF, 1<<3, false); v != 0xF7 {
		t.Errorf("setBit off: got 0x%x", v)
	}
}
