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

// CombineOp selects the logical operator Blit uses to merge a source byte
// into a destination byte. The first five values match the JBIG2 wire
// encoding for a region's external combination operator; Not has no wire
// code and is an internal extension that writes the inverted source,
// ignoring the destination's previous value.
type CombineOp int

const (
	CombineOr CombineOp = iota
	CombineAnd
	CombineXor
	CombineXnor
	CombineReplace
	CombineNot
)

// trimByte keeps only the bits of value that are 1 in both (0xff>>left) and
// (0xff<<right); used to build head/tail masks limited on both sides.
func trimByte(value, left, right int) int {
	return (0xff >> uint(left)) & (0xff << uint(right)) & value
}

// Blit composes src onto dst at (dstX, dstY) using op, clipping to dst's
// bounds. Coordinates and sizes are pixels; a src or dst rectangle that
// ends up empty after clipping leaves dst untouched.
func Blit(src *Bitmap, dstX, dstY int32, dst *Bitmap, op CombineOp) {
	if src == nil || dst == nil {
		return
	}
	srcX, srcY := int32(0), int32(0)
	srcW, srcH := src.width, src.height

	if dstX < 0 {
		srcW += dstX
		srcX -= dstX
		dstX = 0
	}
	if dstY < 0 {
		srcH += dstY
		srcY -= dstY
		dstY = 0
	}

	srcW = min32(srcW, dst.width-dstX)
	if srcW <= 0 {
		return
	}
	srcH = min32(srcH, dst.height-dstY)
	if srcH <= 0 {
		return
	}

	shiftLeft := int(srcX % 8)
	shiftRight := int(dstX % 8)
	srcOffset := int(srcX/8) + int(srcY)*int(src.stride)
	dstOffset := int(dstX/8) + int(dstY)*int(dst.stride)

	headBits := min(8-shiftRight, int(srcW))
	fullBytes := (int(srcW) - headBits) / 8
	tailBits := (int(srcW) - headBits) % 8

	headMask := trimByte(0xff, shiftRight, 8-headBits-shiftRight)
	tailMask := trimByte(0xff, 0, 8-tailBits)

	shiftDelta := shiftRight - shiftLeft
	preShift := 0
	if shiftLeft > shiftRight {
		shiftDelta += 8
		if 8-shiftLeft < headBits {
			preShift = -1
		} else {
			preShift = 1
		}
	}

	params := blitParams{
		srcData: src.data, srcOffset: srcOffset, srcStride: int(src.stride),
		dstData: dst.data, dstOffset: dstOffset, dstStride: int(dst.stride),
		height: int(srcH), shiftDelta: shiftDelta, preShift: preShift,
		fullBytes: fullBytes, tailBits: tailBits, headMask: headMask, tailMask: tailMask,
	}
	switch op {
	case CombineOr:
		blitOr(params)
	case CombineAnd:
		blitAnd(params)
	case CombineXor:
		blitXor(params)
	case CombineXnor:
		blitXnor(params)
	case CombineReplace:
		blitReplace(params)
	case CombineNot:
		blitNot(params)
	}
}

type blitParams struct {
	srcData             []byte
	srcOffset, srcStride int
	dstData             []byte
	dstOffset, dstStride int
	height              int
	shiftDelta, preShift int
	fullBytes, tailBits int
	headMask, tailMask  int
}

// loadReg reads the first shift-register byte (plus a pre-shift byte, if
// needed) from src starting at in, returning the register value and the
// advanced read cursor.
func loadReg(p blitParams, in int) (int, int) {
	reg := int(p.srcData[in])
	in++
	if p.preShift != 0 {
		reg <<= 8
		if p.preShift < 0 {
			reg |= int(p.srcData[in])
			in++
		}
	}
	return reg, in
}

func blitOr(p blitParams) {
	srcRow, dstRow := p.srcOffset, p.dstOffset
	for h := 0; h < p.height; h++ {
		in, out := srcRow, dstRow
		reg, in := loadReg(p, in)
		p.dstData[out] |= byte(p.headMask & (reg >> uint(p.shiftDelta)))
		if p.shiftDelta == 0 {
			for c := 0; c < p.fullBytes; c++ {
				out++
				p.dstData[out] |= p.srcData[in]
				in++
			}
		} else {
			for c := 0; c < p.fullBytes; c++ {
				reg = reg<<8 | int(p.srcData[in])
				in++
				out++
				p.dstData[out] |= byte(reg >> uint(p.shiftDelta))
			}
		}
		if p.tailBits != 0 {
			if p.shiftDelta >= p.tailBits {
				reg = reg << 8
			} else {
				reg = reg<<8 | int(p.srcData[in])
				in++
			}
			out++
			p.dstData[out] |= byte(p.tailMask & (reg >> uint(p.shiftDelta)))
		}
		srcRow += p.srcStride
		dstRow += p.dstStride
	}
}

func blitAnd(p blitParams) {
	headMask := ^p.headMask
	tailMask := ^p.tailMask
	srcRow, dstRow := p.srcOffset, p.dstOffset
	for h := 0; h < p.height; h++ {
		in, out := srcRow, dstRow
		reg, in := loadReg(p, in)
		p.dstData[out] &= byte(headMask | (reg >> uint(p.shiftDelta)))
		if p.shiftDelta == 0 {
			for c := 0; c < p.fullBytes; c++ {
				out++
				p.dstData[out] &= p.srcData[in]
				in++
			}
		} else {
			for c := 0; c < p.fullBytes; c++ {
				reg = reg<<8 | int(p.srcData[in])
				in++
				out++
				p.dstData[out] &= byte(reg >> uint(p.shiftDelta))
			}
		}
		if p.tailBits != 0 {
			if p.shiftDelta >= p.tailBits {
				reg = reg << 8
			} else {
				reg = reg<<8 | int(p.srcData[in])
				in++
			}
			out++
			p.dstData[out] &= byte(tailMask | (reg >> uint(p.shiftDelta)))
		}
		srcRow += p.srcStride
		dstRow += p.dstStride
	}
}

func blitXor(p blitParams) {
	srcRow, dstRow := p.srcOffset, p.dstOffset
	for h := 0; h < p.height; h++ {
		in, out := srcRow, dstRow
		reg, in := loadReg(p, in)
		p.dstData[out] ^= byte(p.headMask & (reg >> uint(p.shiftDelta)))
		if p.shiftDelta == 0 {
			for c := 0; c < p.fullBytes; c++ {
				out++
				p.dstData[out] ^= p.srcData[in]
				in++
			}
		} else {
			for c := 0; c < p.fullBytes; c++ {
				reg = reg<<8 | int(p.srcData[in])
				in++
				out++
				p.dstData[out] ^= byte(reg >> uint(p.shiftDelta))
			}
		}
		if p.tailBits != 0 {
			if p.shiftDelta >= p.tailBits {
				reg = reg << 8
			} else {
				reg = reg<<8 | int(p.srcData[in])
				in++
			}
			out++
			p.dstData[out] ^= byte(p.tailMask & (reg >> uint(p.shiftDelta)))
		}
		srcRow += p.srcStride
		dstRow += p.dstStride
	}
}

func blitXnor(p blitParams) {
	srcRow, dstRow := p.srcOffset, p.dstOffset
	for h := 0; h < p.height; h++ {
		in, out := srcRow, dstRow
		reg, in := loadReg(p, in)
		d := int(p.dstData[out])
		p.dstData[out] = byte((^p.headMask & d) | (p.headMask & ^(d ^ (reg >> uint(p.shiftDelta)))))
		if p.shiftDelta == 0 {
			for c := 0; c < p.fullBytes; c++ {
				out++
				p.dstData[out] = byte(^(int(p.dstData[out]) ^ int(p.srcData[in])))
				in++
			}
		} else {
			for c := 0; c < p.fullBytes; c++ {
				reg = reg<<8 | int(p.srcData[in])
				in++
				out++
				p.dstData[out] = byte(^(int(p.dstData[out]) ^ (reg >> uint(p.shiftDelta))))
			}
		}
		if p.tailBits != 0 {
			if p.shiftDelta >= p.tailBits {
				reg = reg << 8
			} else {
				reg = reg<<8 | int(p.srcData[in])
				in++
			}
			out++
			d := int(p.dstData[out])
			p.dstData[out] = byte((^p.tailMask & d) | (p.tailMask & ^(d ^ (reg >> uint(p.shiftDelta)))))
		}
		srcRow += p.srcStride
		dstRow += p.dstStride
	}
}

func blitReplace(p blitParams) {
	srcRow, dstRow := p.srcOffset, p.dstOffset
	for h := 0; h < p.height; h++ {
		in, out := srcRow, dstRow
		reg, in := loadReg(p, in)
		d := int(p.dstData[out])
		p.dstData[out] = byte((^p.headMask & d) | (p.headMask & (reg >> uint(p.shiftDelta))))
		if p.shiftDelta == 0 {
			copy(p.dstData[out+1:out+1+p.fullBytes], p.srcData[in:in+p.fullBytes])
			in += p.fullBytes
			out += p.fullBytes
		} else {
			for c := 0; c < p.fullBytes; c++ {
				reg = reg<<8 | int(p.srcData[in])
				in++
				out++
				p.dstData[out] = byte(reg >> uint(p.shiftDelta))
			}
		}
		if p.tailBits != 0 {
			if p.shiftDelta >= p.tailBits {
				reg = reg << 8
			} else {
				reg = reg<<8 | int(p.srcData[in])
				in++
			}
			out++
			d := int(p.dstData[out])
			p.dstData[out] = byte((^p.tailMask & d) | (p.tailMask & (reg >> uint(p.shiftDelta))))
		}
		srcRow += p.srcStride
		dstRow += p.dstStride
	}
}

// blitNot is an unofficial extension that copies the source inverted. The
// MMR decoders in this package invert their planes directly and do not use it.
func blitNot(p blitParams) {
	srcRow, dstRow := p.srcOffset, p.dstOffset
	for h := 0; h < p.height; h++ {
		in, out := srcRow, dstRow
		reg, in := loadReg(p, in)
		d := int(p.dstData[out])
		p.dstData[out] = byte((^p.headMask & d) | (p.headMask & ^(reg >> uint(p.shiftDelta))))
		if p.shiftDelta == 0 {
			for c := 0; c < p.fullBytes; c++ {
				out++
				p.dstData[out] = byte(^int(p.srcData[in]))
				in++
			}
		} else {
			for c := 0; c < p.fullBytes; c++ {
				reg = reg<<8 | int(p.srcData[in])
				in++
				out++
				p.dstData[out] = byte(^(reg >> uint(p.shiftDelta)))
			}
		}
		if p.tailBits != 0 {
			if p.shiftDelta >= p.tailBits {
				reg = reg << 8
			} else {
				reg = reg<<8 | int(p.srcData[in])
				in++
			}
			out++
			d := int(p.dstData[out])
			p.dstData[out] = byte((^p.tailMask & d) | (p.tailMask & ^(reg >> uint(p.shiftDelta))))
		}
		srcRow += p.srcStride
		dstRow += p.dstStride
	}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
