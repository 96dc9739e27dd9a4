// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package irsend

// Samsung32 timings in microseconds
const (
	SamsungCarrier     uint32 = 38000
	SamsungUnit        uint32 = 560
	SamsungHeaderMark         = 8 * SamsungUnit
	SamsungHeaderSpace        = 8 * SamsungUnit
	SamsungBitMark            = SamsungUnit
	SamsungOneSpace           = 3 * SamsungUnit
	SamsungZeroSpace          = SamsungUnit
	SamsungBits               = 32

	// SamsungRepeatPeriod is the start-to-start distance of repeated frames
	SamsungRepeatPeriod uint32 = 110000
)

// SamsungFrame packs address and command into the 32 bits sent LSB first.
// A command that fits in one byte is followed by its inverse.
func SamsungFrame(address, command uint16) uint32 {
	frame := uint32(address)
	if command&0xFF00 == 0 {
		c := uint32(command & 0xFF)
		frame |= c<<16 | (^c&0xFF)<<24
	} else {
		frame |= uint32(command) << 16
	}
	return frame
}

// EncodeSamsung returns alternating pulse/space durations for one frame plus
// the requested number of repeats. The sequence starts and ends with a pulse.
func EncodeSamsung(address, command uint16, repeats uint8) []uint32 {
	frame := SamsungFrame(address, command)
	one := encodeFrame(frame)

	out := make([]uint32, 0, len(one)*(int(repeats)+1)+int(repeats))
	out = append(out, one...)
	for i := 0; i < int(repeats); i++ {
		gap := uint32(0)
		if d := duration(one); d < SamsungRepeatPeriod {
			gap = SamsungRepeatPeriod - d
		}
		out = append(out, gap)
		out = append(out, one...)
	}
	return out
}

func encodeFrame(frame uint32) []uint32 {
	out := make([]uint32, 0, 2+2*SamsungBits+1)
	out = append(out, SamsungHeaderMark, SamsungHeaderSpace)
	for i := 0; i < SamsungBits; i++ {
		out = append(out, SamsungBitMark)
		if frame&(1<<uint(i)) != 0 {
			out = append(out, SamsungOneSpace)
		} else {
			out = append(out, SamsungZeroSpace)
		}
	}
	// stop bit
	return append(out, SamsungBitMark)
}

func duration(pulses []uint32) uint32 {
	var total uint32
	for _, p := range pulses {
		total += p
	}
	return total
}
