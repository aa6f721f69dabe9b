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

// BitStream presents an in-memory byte slice as a seekable bit stream,
// MSB-first within each byte. It backs both the arithmetic decoder (which
// needs single-byte lookahead/pushback for byte-stuffing) and the
// segment/page driver (which reads byte- and bit-aligned header fields).
type BitStream struct {
	data    []byte
	byteIdx uint32
	bitIdx  uint32
}

// NewBitStream wraps data for bit-level reading starting at offset 0.
func NewBitStream(data []byte) *BitStream {
	return &BitStream{data: data}
}

// ReadBit consumes the next bit, MSB-first.
func (b *BitStream) ReadBit() (uint32, error) {
	if !b.InBounds() {
		return 0, newDecodeErrorAt(ErrEndOfStream, "read bit past end of stream", int64(b.byteIdx))
	}
	v := uint32((b.data[b.byteIdx] >> (7 - b.bitIdx)) & 1)
	b.advance()
	return v, nil
}

// ReadBits reads n bits (1 <= n <= 32), big-endian within the stream, and
// returns them right-aligned.
func (b *BitStream) ReadBits(n uint32) (uint32, error) {
	var result uint32
	for i := uint32(0); i < n; i++ {
		bit, err := b.ReadBit()
		if err != nil {
			return 0, err
		}
		result = (result << 1) | bit
	}
	return result, nil
}

// ReadByte reads one byte-aligned or unaligned byte, MSB-first.
func (b *BitStream) ReadByte() (byte, error) {
	if b.bitIdx == 0 {
		if !b.InBounds() {
			return 0, newDecodeErrorAt(ErrEndOfStream, "read byte past end of stream", int64(b.byteIdx))
		}
		v := b.data[b.byteIdx]
		b.byteIdx++
		return v, nil
	}
	v, err := b.ReadBits(8)
	return byte(v), err
}

// ReadUint32 reads a 4-byte big-endian integer, byte-aligned.
func (b *BitStream) ReadUint32() (uint32, error) {
	b.AlignByte()
	if uint64(b.byteIdx)+4 > uint64(len(b.data)) {
		return 0, newDecodeErrorAt(ErrEndOfStream, "insufficient data for uint32", int64(b.byteIdx))
	}
	v := uint32(b.data[b.byteIdx])<<24 | uint32(b.data[b.byteIdx+1])<<16 |
		uint32(b.data[b.byteIdx+2])<<8 | uint32(b.data[b.byteIdx+3])
	b.byteIdx += 4
	return v, nil
}

// ReadUint16 reads a 2-byte big-endian integer, byte-aligned.
func (b *BitStream) ReadUint16() (uint16, error) {
	b.AlignByte()
	if uint64(b.byteIdx)+2 > uint64(len(b.data)) {
		return 0, newDecodeErrorAt(ErrEndOfStream, "insufficient data for uint16", int64(b.byteIdx))
	}
	v := uint16(b.data[b.byteIdx])<<8 | uint16(b.data[b.byteIdx+1])
	b.byteIdx += 2
	return v, nil
}

// ReadInt8 reads one signed byte, byte-aligned.
func (b *BitStream) ReadInt8() (int8, error) {
	v, err := b.ReadByte()
	return int8(v), err
}

// AlignByte advances to the start of the next byte if mid-byte.
func (b *BitStream) AlignByte() {
	if b.bitIdx != 0 {
		b.byteIdx++
		b.bitIdx = 0
	}
}

// Position returns the current byte offset (position() in spec.md's terms).
func (b *BitStream) Position() int64 { return int64(b.byteIdx) }

// Seek moves to a byte offset, clamped to the stream length.
func (b *BitStream) Seek(offset int64) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(b.data)) {
		offset = int64(len(b.data))
	}
	b.byteIdx = uint32(offset)
	b.bitIdx = 0
}

// Advance moves the byte offset forward by delta bytes, clamped to length.
func (b *BitStream) Advance(delta int64) {
	b.Seek(int64(b.byteIdx) + delta)
}

// Length returns the total number of bytes in the stream.
func (b *BitStream) Length() int64 { return int64(len(b.data)) }

// Remaining returns the number of unread bytes.
func (b *BitStream) Remaining() int64 {
	if int64(b.byteIdx) >= int64(len(b.data)) {
		return 0
	}
	return int64(len(b.data)) - int64(b.byteIdx)
}

// InBounds reports whether the current byte offset still refers to real
// data (used by callers that treat exhaustion as "read as 0xFF" rather
// than a hard failure, e.g. the arithmetic decoder past end of segment).
func (b *BitStream) InBounds() bool {
	return b.byteIdx < uint32(len(b.data))
}

// Rest returns the unread tail of the stream, for handing off to a
// collaborator like an MMR decoder that consumes its own framing.
func (b *BitStream) Rest() []byte {
	if b.byteIdx >= uint32(len(b.data)) {
		return nil
	}
	return b.data[b.byteIdx:]
}

// currentByteArith returns the byte at the current position, or 0xFF past
// the end of the stream. This is the convention the arithmetic decoder's
// byteIn relies on so that a truncated stream reads as an endless run of
// markers rather than panicking.
func (b *BitStream) currentByteArith() byte {
	if b.InBounds() {
		return b.data[b.byteIdx]
	}
	return 0xFF
}

// nextByteArith is currentByteArith one byte ahead, used to look past a
// 0xFF without yet consuming it.
func (b *BitStream) nextByteArith() byte {
	if uint64(b.byteIdx)+1 < uint64(len(b.data)) {
		return b.data[b.byteIdx+1]
	}
	return 0xFF
}

func (b *BitStream) advance() {
	if b.bitIdx == 7 {
		b.byteIdx++
		b.bitIdx = 0
	} else {
		b.bitIdx++
	}
}
