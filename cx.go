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

// CX is context memory for the arithmetic decoder: a fixed-length array of
// bytes, each packing a 6-bit QE-table state index (bits 1-6) and a 1-bit
// MPS flag (bit 0), per ISO/IEC 14492:2001 Annex E. Values therefore always
// lie in 0..127. A freshly allocated CX is all zeros, the initial state for
// every context.
type CX []byte

// NewCX allocates a zero-initialized context table of the given size.
// Typical sizes seen on the wire are 1 (singleton contexts), 512 (the
// arithmetic integer decoder's prefix-tree path space), and 2^10-2^18
// (generic-region neighborhood contexts).
func NewCX(size int) CX {
	return make(CX, size)
}

// Get returns the packed state at i, in 0..127. It panics with
// ErrIndexOutOfBounds wrapped information if i is out of range, matching
// spec.md's fail-fast IndexOutOfBounds error kind.
func (cx CX) Get(i int) uint8 {
	if i < 0 || i >= len(cx) {
		panic(&DecodeError{Kind: ErrIndexOutOfBounds, Msg: "cx index out of range"})
	}
	return cx[i]
}

// Set writes the packed state at i. Only the low 7 bits of v are kept.
func (cx CX) Set(i int, v uint8) {
	if i < 0 || i >= len(cx) {
		panic(&DecodeError{Kind: ErrIndexOutOfBounds, Msg: "cx index out of range"})
	}
	cx[i] = v & 0x7f
}

func (cx CX) mps(i int) bool {
	return cx.Get(i)&1 != 0
}

func (cx CX) state(i int) uint8 {
	return cx.Get(i) >> 1
}

func (cx CX) setState(i int, state uint8, mps bool) {
	v := state << 1
	if mps {
		v |= 1
	}
	cx.Set(i, v)
}

// toNMPS transitions the context at i to qe's NMPS state, keeping mps
// unchanged; qe's switch flag is not consulted, since it only applies to
// LPS transitions (toNLPS).
func (cx CX) toNMPS(i int, qe qeEntry, mps bool) {
	cx.setState(i, qe.nmps, mps)
}

// toNLPS transitions the context at i to qe's NLPS state, flipping the MPS
// sense when qe's switch flag is set. This is the mechanism that lets
// states 0, 6 and 14 recover from an initial wrong guess about which symbol is
// more probable.
func (cx CX) toNLPS(i int, qe qeEntry, mps bool) {
	if qe.swtch {
		mps = !mps
	}
	cx.setState(i, qe.nlps, mps)
}
