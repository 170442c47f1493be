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

/*

Package bflb manages the pads of Bouffalo Lab chips (BL602, BL702, BL808, BL616)
through the global register block (GLB).

Every pad is handed out once, by GLB.Pads, in the Disabled role. A pad changes role
through a transition such as IntoFloatingOutput or IntoUart, which writes the pad's
configuration and returns a value of the new role type. The old value must not be used
again; role values can be copied, so the caller drops the previous value itself.
Operations exist only on the roles they apply to: an Input can be read, an Output can
be driven.

UART pads are connected to the UART controllers through signal multiplexers; pad N
always reaches multiplexer N modulo the number of multiplexers (8 on the BL602 and
BL702, 12 on the BL808 and BL616). The uart and spi sub-packages group pads into the
shapes a peripheral supports.

The GPIO interrupt is serviced by State.OnInterrupt, which wakes goroutines blocked in
AsyncInput.WaitForHigh or WaitForLow. On Linux, State.Serve delivers the interrupt from
a UIO device.

The GLB is reached through a Bus. Open maps it from /dev/mem or a UIO device;
NewGLB accepts any Bus, such as a statically mapped window on bare metal.

*/
package bflb
