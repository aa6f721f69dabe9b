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

import "testing"

func oneByteBitmap(v byte) *Bitmap {
	b := NewBitmap(8, 1)
	b.data[0] = v
	return b
}

func TestBlitSingleByteTable(t *testing.T) {
	cases := []struct {
		name string
		op   CombineOp
		want byte
	}{
		{"OR", CombineOr, 0x0F},
		{"AND", CombineAnd, 0x08},
		{"XOR", CombineXor, 0x07},
		{"XNOR", CombineXnor, 0xF8},
		{"REPLACE", CombineReplace, 0x0D},
		{"NOT", CombineNot, 0xF2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := oneByteBitmap(0x0D)
			dst := oneByteBitmap(0x0A)
			Blit(src, 0, 0, dst, tc.op)
			if dst.data[0] != tc.want {
				t.Fatalf("%s: got 0x%02X, want 0x%02X", tc.name, dst.data[0], tc.want)
			}
		})
	}
}

func TestBlitClippingOutsideDestLeavesUnchanged(t *testing.T) {
	src := NewBitmap(8, 8)
	src.Fill(true)
	dst := NewBitmap(8, 8)
	before := append([]byte(nil), dst.data...)
	Blit(src, 100, 100, dst, CombineOr)
	for i := range dst.data {
		if dst.data[i] != before[i] {
			t.Fatalf("byte %d changed: got 0x%02X want 0x%02X", i, dst.data[i], before[i])
		}
	}
}

func TestBlitIdempotenceReplace(t *testing.T) {
	src := NewBitmap(17, 5)
	for y := int32(0); y < 5; y++ {
		for x := int32(0); x < 17; x++ {
			src.SetPixel(x, y, int((x+y)%2))
		}
	}
	dst := NewBitmap(17, 5)
	Blit(src, 0, 0, dst, CombineReplace)
	back := NewBitmap(17, 5)
	Blit(dst, 0, 0, back, CombineReplace)
	for y := int32(0); y < 5; y++ {
		for x := int32(0); x < 17; x++ {
			if src.GetPixel(x, y) != back.GetPixel(x, y) {
				t.Fatalf("pixel (%d,%d): got %d want %d", x, y, back.GetPixel(x, y), src.GetPixel(x, y))
			}
		}
	}
}

func TestBlitOperatorAlgebra(t *testing.T) {
	src := oneByteBitmap(0x5A)
	dst := oneByteBitmap(0xC3)
	original := dst.data[0]

	xored := oneByteBitmap(dst.data[0])
	Blit(src, 0, 0, xored, CombineXor)
	Blit(src, 0, 0, xored, CombineXor)
	if xored.data[0] != original {
		t.Fatalf("XOR(XOR(dst,src),src): got 0x%02X want 0x%02X", xored.data[0], original)
	}

	orDst := oneByteBitmap(original)
	Blit(src, 0, 0, orDst, CombineOr)
	andDst := oneByteBitmap(original)
	Blit(src, 0, 0, andDst, CombineAnd)
	if orDst.data[0]|andDst.data[0] != orDst.data[0] {
		t.Fatalf("OR | AND != OR: OR=0x%02X AND=0x%02X", orDst.data[0], andDst.data[0])
	}

	replaced := oneByteBitmap(original)
	Blit(src, 0, 0, replaced, CombineReplace)
	if replaced.data[0] != src.data[0] {
		t.Fatalf("REPLACE: got 0x%02X want 0x%02X", replaced.data[0], src.data[0])
	}

	notted := oneByteBitmap(original)
	Blit(src, 0, 0, notted, CombineNot)
	twice := oneByteBitmap(original)
	Blit(notted, 0, 0, twice, CombineNot)
	if twice.data[0] != src.data[0] {
		t.Fatalf("NOT twice: got 0x%02X want 0x%02X", twice.data[0], src.data[0])
	}
}

// TestBlitShiftReplaceScan is spec.md's shift-replace scan: a 128-pixel wide
// pattern source replacing into a wider destination at every horizontal
// offset in [-8, 8] must land byte-for-byte where a plain bit shift of the
// source predicts.
func TestBlitShiftReplaceScan(t *testing.T) {
	src := NewBitmap(128, 1)
	for i := range src.data {
		if i%2 == 0 {
			src.data[i] = 0xAA
		} else {
			src.data[i] = 0x55
		}
	}

	for dx := int32(-8); dx <= 8; dx++ {
		dst := NewBitmap(134, 2)
		Blit(src, dx, 0, dst, CombineReplace)

		want := NewBitmap(134, 1)
		for x := int32(0); x < 128; x++ {
			want.SetPixel(x+dx, 0, src.GetPixel(x, 0))
		}
		for i := range want.data {
			if dst.data[i] != want.data[i] {
				t.Fatalf("dx=%d byte %d: got 0x%02X want 0x%02X", dx, i, dst.data[i], want.data[i])
			}
		}
	}
}
