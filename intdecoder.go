// Copyright 2026 肖其顿 (XIAO QI DUN)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jbig2

// intPrefixRow is one row of the arithmetic integer decoder's prefix tree
// (ISO/IEC 14492:2001 Annex A.3): after reading this many leading 1-bits
// (and a terminating 0, except for the last row), decode this many further
// value bits and add offset to get the magnitude.
type intPrefixRow struct {
	bits   int
	offset int32
}

var intPrefixTable = [...]intPrefixRow{
	{2, 0}, {4, 4}, {6, 20}, {8, 84}, {12, 340}, {32, 4436},
}

// intCtxSize is the size of the CX table IntDecoder needs: prev walks a
// 9-bit path (1..511) through the sign bit, the prefix bits, and the low
// value bits.
const intCtxSize = 512

// IntDecoder decodes signed integers on top of an ArithDecoder using the
// standard prefix tree of Annex A.3. Each instance owns one CX table sized
// for the full prev path space; JBIG2 assigns one IntDecoder per semantic
// integer field (e.g. one for region width deltas, a different one for
// symbol counts).
type IntDecoder struct {
	cx CX
}

// NewIntDecoder allocates a fresh IntDecoder with its own zeroed context
// table.
func NewIntDecoder() *IntDecoder {
	return &IntDecoder{cx: NewCX(intCtxSize)}
}

// Decode returns the next signed integer, and ok=false if the value decoded
// to the out-of-band sentinel (sign bit set, magnitude zero) that JBIG2
// uses to signal end-of-list in some higher-level segments.
func (d *IntDecoder) Decode(ad *ArithDecoder) (value int32, ok bool) {
	prev := 1
	sign := ad.Decode(d.cx, prev)
	prev = (prev << 1) | sign

	row := len(intPrefixTable) - 1
	for depth := 0; depth < len(intPrefixTable)-1; depth++ {
		bit := ad.Decode(d.cx, prev)
		prev = (prev << 1) | bit
		if bit == 0 {
			row = depth
			break
		}
	}

	var v int32
	for i := 0; i < intPrefixTable[row].bits; i++ {
		bit := ad.Decode(d.cx, prev)
		prev = (prev << 1) | bit
		if prev >= 256 {
			prev = (prev & 511) | 256
		}
		v = (v << 1) | int32(bit)
	}

	magnitude := intPrefixTable[row].offset + v
	if sign == 1 {
		if magnitude == 0 {
			return 0, false
		}
		return -magnitude, true
	}
	return magnitude, true
}

// IaidDecoder decodes symbol IDs of a fixed bit width using the same
// prefix-path convention as IntDecoder but without a sign or prefix tree:
// exactly symCodeLen bits, each under a distinct context.
type IaidDecoder struct {
	cx         CX
	symCodeLen uint8
}

// NewIaidDecoder allocates an IaidDecoder for symbol codes of the given
// bit width.
func NewIaidDecoder(symCodeLen uint8) *IaidDecoder {
	return &IaidDecoder{cx: NewCX(1 << symCodeLen), symCodeLen: symCodeLen}
}

// Decode returns the next symbol ID, in 0..(1<<symCodeLen)-1.
func (d *IaidDecoder) Decode(ad *ArithDecoder) uint32 {
	prev := 1
	for i := uint8(0); i < d.symCodeLen; i++ {
		bit := ad.Decode(d.cx, prev)
		prev = (prev << 1) | bit
	}
	return uint32(prev) - (uint32(1) << d.symCodeLen)
}
