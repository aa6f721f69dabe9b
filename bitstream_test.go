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

func TestBitStreamReadBitMSBFirst(t *testing.T) {
	s := NewBitStream([]byte{0b10110010})
	want := []uint32{1, 0, 1, 1, 0, 0, 1, 0}
	for i, w := range want {
		bit, err := s.ReadBit()
		if err != nil {
			t.Fatalf("bit %d: unexpected error: %v", i, err)
		}
		if bit != w {
			t.Fatalf("bit %d: got %d want %d", i, bit, w)
		}
	}
	if _, err := s.ReadBit(); err == nil {
		t.Fatal("expected error reading past end of stream")
	}
}

func TestBitStreamReadBitsAcrossByteBoundary(t *testing.T) {
	s := NewBitStream([]byte{0xFF, 0x00})
	v, err := s.ReadBits(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 12 bits starting at the MSB of 0xFF,0x00 = 1111 1111 0000 = 0xFF0.
	if v != 0xFF0 {
		t.Fatalf("got 0x%03X, want 0x%03X", v, 0xFF0)
	}
}

func TestBitStreamReadByteUnaligned(t *testing.T) {
	s := NewBitStream([]byte{0xF0, 0x0F})
	if _, err := s.ReadBits(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := s.ReadByte()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x00 {
		t.Fatalf("got 0x%02X, want 0x00", v)
	}
}

func TestBitStreamReadUint32AlignsFirst(t *testing.T) {
	s := NewBitStream([]byte{0xFF, 0x00, 0x00, 0x00, 0x2A})
	if _, err := s.ReadBits(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := s.ReadUint32()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x0000002A {
		t.Fatalf("got 0x%08X, want 0x0000002A", v)
	}
}

func TestBitStreamReadUint32InsufficientData(t *testing.T) {
	s := NewBitStream([]byte{0x00, 0x00})
	if _, err := s.ReadUint32(); err == nil {
		t.Fatal("expected error for insufficient data")
	}
}

func TestBitStreamSeekClampsToBounds(t *testing.T) {
	s := NewBitStream(make([]byte, 4))
	s.Seek(-5)
	if s.Position() != 0 {
		t.Fatalf("Seek(-5): Position = %d, want 0", s.Position())
	}
	s.Seek(100)
	if s.Position() != 4 {
		t.Fatalf("Seek(100): Position = %d, want 4", s.Position())
	}
}

func TestBitStreamAdvanceIsRelative(t *testing.T) {
	s := NewBitStream(make([]byte, 10))
	s.Advance(3)
	s.Advance(4)
	if s.Position() != 7 {
		t.Fatalf("Position = %d, want 7", s.Position())
	}
}

func TestBitStreamRemainingAndInBounds(t *testing.T) {
	s := NewBitStream(make([]byte, 3))
	if s.Remaining() != 3 || !s.InBounds() {
		t.Fatal("fresh stream: Remaining should be 3 and InBounds true")
	}
	s.Advance(3)
	if s.Remaining() != 0 || s.InBounds() {
		t.Fatal("exhausted stream: Remaining should be 0 and InBounds false")
	}
}

func TestBitStreamRestReturnsUnreadTail(t *testing.T) {
	s := NewBitStream([]byte{1, 2, 3, 4})
	s.Advance(2)
	rest := s.Rest()
	if len(rest) != 2 || rest[0] != 3 || rest[1] != 4 {
		t.Fatalf("Rest() = %v, want [3 4]", rest)
	}
	s.Advance(2)
	if s.Rest() != nil {
		t.Fatal("Rest() at end of stream should be nil")
	}
}

func TestBitStreamCurrentAndNextByteArithPastEnd(t *testing.T) {
	s := NewBitStream([]byte{0x42})
	if s.currentByteArith() != 0x42 {
		t.Fatal("currentByteArith should return the real byte in bounds")
	}
	if s.nextByteArith() != 0xFF {
		t.Fatal("nextByteArith past the last byte should synthesize 0xFF")
	}
	s.Advance(1)
	if s.currentByteArith() != 0xFF {
		t.Fatal("currentByteArith past end of stream should synthesize 0xFF")
	}
}
