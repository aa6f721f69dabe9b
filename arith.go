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

// initialA is the arithmetic decoder's interval width at the start of every
// region, and the renormalization threshold: A must always stay in
// [initialA, 2*initialA).
const initialA = 0x8000

// qeEntry is one row of the MQ-coder probability estimation table
// (ISO/IEC 14492:2001 Annex E, Table E.1): the LPS probability estimate,
// the two next-state indices, and the flag that swaps the meaning of MPS
// on an LPS transition out of states 0, 6 and 14.
type qeEntry struct {
	qe    uint16
	nmps  uint8
	nlps  uint8
	swtch bool
}

// qeTable is the 47-row constant table every CX state index selects into.
var qeTable = [...]qeEntry{
	{0x5601, 1, 1, true}, {0x3401, 2, 6, false}, {0x1801, 3, 9, false},
	{0x0AC1, 4, 12, false}, {0x0521, 5, 29, false}, {0x0221, 38, 33, false},
	{0x5601, 7, 6, true}, {0x5401, 8, 14, false}, {0x4801, 9, 14, false},
	{0x3801, 10, 14, false}, {0x3001, 11, 17, false}, {0x2401, 12, 18, false},
	{0x1C01, 13, 20, false}, {0x1601, 29, 21, false}, {0x5601, 15, 14, true},
	{0x5401, 16, 14, false}, {0x5101, 17, 15, false}, {0x4801, 18, 16, false},
	{0x3801, 19, 17, false}, {0x3401, 20, 18, false}, {0x3001, 21, 19, false},
	{0x2801, 22, 19, false}, {0x2401, 23, 20, false}, {0x2201, 24, 21, false},
	{0x1C01, 25, 22, false}, {0x1801, 26, 23, false}, {0x1601, 27, 24, false},
	{0x1401, 28, 25, false}, {0x1201, 29, 26, false}, {0x1101, 30, 27, false},
	{0x0AC1, 31, 28, false}, {0x09C1, 32, 29, false}, {0x08A1, 33, 30, false},
	{0x0521, 34, 31, false}, {0x0441, 35, 32, false}, {0x02A1, 36, 33, false},
	{0x0221, 37, 34, false}, {0x0141, 38, 35, false}, {0x0111, 39, 36, false},
	{0x0085, 40, 37, false}, {0x0049, 41, 38, false}, {0x0025, 42, 39, false},
	{0x0015, 43, 40, false}, {0x0009, 44, 41, false}, {0x0005, 45, 42, false},
	{0x0001, 45, 43, false}, {0x5601, 46, 46, false},
}

// ArithDecoder is the MQ-coder arithmetic entropy decoder of ISO/IEC
// 14492:2001 Annex E: it decodes one bit at a time under a caller-supplied
// context, driving its adaptive state entirely from the QE table.
type ArithDecoder struct {
	stream   *BitStream
	b        byte
	c        uint32
	a        uint32
	ct       uint32
	complete bool
}

// NewArithDecoder primes an arithmetic decoder from stream's current
// position: reads one byte into B, sets C = (B^0xff)<<16, refills CT via
// byteIn, then shifts C left by 7 and biases CT by -7, per Annex E.3.5's
// INITDEC. C is kept complemented throughout: byteIn adds 0xff00-(B<<8)
// rather than B<<8, and Decode compares C's high half against A-QE.
func NewArithDecoder(stream *BitStream) *ArithDecoder {
	ad := &ArithDecoder{stream: stream, a: initialA}
	ad.b = stream.currentByteArith()
	ad.c = uint32(ad.b^0xff) << 16
	ad.byteIn()
	ad.c <<= 7
	ad.ct -= 7
	return ad
}

// Decode returns one bit under the context at cx[index], updating cx's
// state and the decoder's A/C/CT registers in place. A and C hold
// 0x8000 <= A < 0x10000 and CT >= 0 both before and after this call.
//
// This follows Annex E.3.2's DECODE procedure: the "MPS path" and "LPS
// path" each pick, via conditional exchange, whether the *decoded bit* and
// the *state transition table* (NMPS vs NLPS) diverge from the path's own
// name. The exchange is what makes the coder's probability estimate track
// reality even when A momentarily undershoots QE.
func (ad *ArithDecoder) Decode(cx CX, index int) int {
	mps := cx.mps(index)
	qe := qeTable[cx.state(index)]
	ad.a -= uint32(qe.qe)

	if (ad.c >> 16) < ad.a {
		if ad.a&initialA != 0 {
			return boolToInt(mps)
		}
		var d int
		if ad.a < uint32(qe.qe) {
			d = boolToInt(!mps)
			cx.toNLPS(index, qe, mps)
		} else {
			d = boolToInt(mps)
			cx.toNMPS(index, qe, mps)
		}
		ad.renormalize()
		return d
	}

	ad.c -= ad.a << 16
	var d int
	if ad.a < uint32(qe.qe) {
		d = boolToInt(mps)
		cx.toNMPS(index, qe, mps)
	} else {
		d = boolToInt(!mps)
		cx.toNLPS(index, qe, mps)
	}
	ad.a = uint32(qe.qe)
	ad.renormalize()
	return d
}

// IsComplete reports whether the decoder has consumed the last real byte of
// its stream and is now synthesizing trailing 0xFF marker bytes, per Annex
// E.2.4's end-of-data convention. Running out of data is not reported as an
// error; the region decoders in this package do not consult IsComplete and
// keep decoding against the synthesized bytes.
func (ad *ArithDecoder) IsComplete() bool { return ad.complete }

// byteIn implements Annex E.2.4's BYTEIN procedure, including the
// byte-stuffing rule: a data 0xFF is always followed by a byte < 0x90; a
// following byte >= 0x90 is a marker and must not be consumed.
func (ad *ArithDecoder) byteIn() {
	if ad.b == 0xff {
		b1 := ad.stream.nextByteArith()
		if b1 > 0x8f {
			ad.ct = 8
		} else {
			ad.stream.Advance(1)
			ad.b = b1
			ad.c += 0xfe00 - uint32(ad.b)<<9
			ad.ct = 7
		}
	} else {
		ad.stream.Advance(1)
		ad.b = ad.stream.currentByteArith()
		ad.c += 0xff00 - uint32(ad.b)<<8
		ad.ct = 8
	}
	if !ad.stream.InBounds() {
		ad.complete = true
	}
}

// renormalize implements Annex E.2.3's RENORMD loop.
func (ad *ArithDecoder) renormalize() {
	for {
		if ad.ct == 0 {
			ad.byteIn()
		}
		ad.a <<= 1
		ad.c <<= 1
		ad.ct--
		if ad.a&initialA != 0 {
			break
		}
	}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
