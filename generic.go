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

// tpgdContext is the fixed context index each template decodes its
// typical-prediction flag under (ISO/IEC 14492:2001 Annex 6.2.5.7),
// indexed by template id 0-2; template 3 uses its own constant below.
var tpgdContext = [3]int{0x9b25, 0x0795, 0x00e5}

// twoRowsAgoMask/oneRowAgoMask/curRowMask bound the sliding context windows
// decodeGenericTemplate keeps for the two rows above the current pixel, one
// set per template (0, 1, 2).
var (
	twoRowsAgoMask = [3]uint32{0x0007, 0x000f, 0x0007}
	oneRowAgoMask  = [3]uint32{0x001f, 0x001f, 0x000f}
	curRowMask     = [3]uint32{0x000f, 0x0007, 0x0003}
)

// GenericRegionParams configures the generic-region decoder (ISO/IEC
// 14492:2001 §6.2): pixel dimensions, one of the four fixed causal
// neighborhood templates, the adaptive-pixel offsets that override part of
// that neighborhood, and the typical-prediction / skip-bitmap options.
type GenericRegionParams struct {
	Width, Height uint32
	Template      uint8
	TPGDON        bool
	UseSkip       bool
	Skip          *Bitmap
	// AT holds up to four (x, y) adaptive-pixel offsets. Template 0 uses
	// all four pairs (AT[0..3]); templates 1-3 use only AT[0].
	AT [4][2]int8
}

// DecodeGenericArith decodes a generic region arithmetically, driving ad
// under context table cx (sized 1<<16 for template 0, 1<<13 for template 1,
// 1<<10 for templates 2 and 3, per spec.md's CX sizing guidance).
func DecodeGenericArith(p GenericRegionParams, ad *ArithDecoder, cx CX) (*Bitmap, error) {
	if p.Template > 3 {
		return nil, newDecodeError(ErrInvalidHeaderValue, "generic region template must be 0-3")
	}
	img := NewBitmap(int32(p.Width), int32(p.Height))
	if img == nil {
		return nil, newDecodeError(ErrInvalidHeaderValue, "generic region has non-positive dimensions")
	}
	if p.Template == 3 {
		return img, decodeGenericTemplate3(p, img, ad, cx)
	}
	return img, decodeGenericTemplate(p, img, ad, cx, int(p.Template))
}

// DecodeGenericMMR decodes a generic region via an external MMR
// collaborator. MMR planes arrive with 1=white, the opposite of JBIG2's
// 1=foreground convention, so every byte is inverted before returning.
func DecodeGenericMMR(p GenericRegionParams, src MMRSource) (*Bitmap, error) {
	img := NewBitmap(int32(p.Width), int32(p.Height))
	if img == nil {
		return nil, newDecodeError(ErrInvalidHeaderValue, "generic region has non-positive dimensions")
	}
	if err := src.Decode(img); err != nil {
		return nil, err
	}
	for i := range img.data {
		img.data[i] = ^img.data[i]
	}
	return img, nil
}

// decodeGenericTemplate implements templates 0, 1 and 2, which share one
// context-packing shape differing only by neighborhood width (shift) and
// which AT pixels exist. It mirrors the row-major, causal-neighborhood
// procedure of spec.md §4.6, maintaining three small sliding windows
// (the two rows above, and the bits already decided in the current row)
// instead of re-fetching every neighbor pixel by coordinate each time.
func decodeGenericTemplate(p GenericRegionParams, img *Bitmap, ad *ArithDecoder, cx CX, template int) error {
	mod2 := int32(template % 2)
	div2 := int32(template / 2)
	shift := uint(4 - template)
	ltp := 0
	for y := int32(0); y < img.height; y++ {
		if p.TPGDON {
			bit := ad.Decode(cx, tpgdContext[template])
			if bit != 0 {
				ltp ^= 1
			}
			if ltp == 1 {
				img.CopyLine(y, y-1)
				continue
			}
		}

		row2 := uint32(img.GetPixel(1+mod2, y-2))
		row2 |= uint32(img.GetPixel(mod2, y-2)) << 1
		if template == 1 {
			row2 |= uint32(img.GetPixel(0, y-2)) << 2
		}
		row1 := uint32(img.GetPixel(2-div2, y-1))
		row1 |= uint32(img.GetPixel(1-div2, y-1)) << 1
		if template < 2 {
			row1 |= uint32(img.GetPixel(0, y-1)) << 2
		}
		row0 := uint32(0)

		for x := int32(0); x < img.width; x++ {
			bit := 0
			skip := p.UseSkip && p.Skip != nil && p.Skip.GetPixel(x, y) != 0
			if !skip {
				context := row0
				context |= uint32(img.GetPixel(x+int32(p.AT[0][0]), y+int32(p.AT[0][1]))) << shift
				context |= row1 << (shift + 1)
				context |= row2 << twoRowsAgoShift(template)
				if template == 0 {
					context |= uint32(img.GetPixel(x+int32(p.AT[1][0]), y+int32(p.AT[1][1]))) << 10
					context |= uint32(img.GetPixel(x+int32(p.AT[2][0]), y+int32(p.AT[2][1]))) << 11
					context |= uint32(img.GetPixel(x+int32(p.AT[3][0]), y+int32(p.AT[3][1]))) << 15
				}
				bit = ad.Decode(cx, int(context))
			}
			if bit != 0 {
				img.SetPixel(x, y, bit)
			}
			row2 = ((row2 << 1) | uint32(img.GetPixel(x+2+mod2, y-2))) & twoRowsAgoMask[template]
			row1 = ((row1 << 1) | uint32(img.GetPixel(x+3-div2, y-1))) & oneRowAgoMask[template]
			row0 = ((row0 << 1) | uint32(bit)) & curRowMask[template]
		}
	}
	return nil
}

// twoRowsAgoShift is the bit position row2's window lands at within the
// context word; it equals shiftC9 in the reference layout (0x000c, 0x0009,
// 0x0007 for templates 0-2, expressed here as a shift amount rather than a
// magic mask since row2 is already reduced to its own small window).
func twoRowsAgoShift(template int) uint {
	return [3]uint{12, 9, 7}[template]
}

// decodeGenericTemplate3 implements template 3, the smallest neighborhood
// (10 pixels across a single row above plus the current row), which the
// standard treats separately because it drops the second row above the
// pixel entirely.
func decodeGenericTemplate3(p GenericRegionParams, img *Bitmap, ad *ArithDecoder, cx CX) error {
	const tpgdCtx3 = 0x0195
	ltp := 0
	for y := int32(0); y < img.height; y++ {
		if p.TPGDON {
			bit := ad.Decode(cx, tpgdCtx3)
			if bit != 0 {
				ltp ^= 1
			}
			if ltp == 1 {
				img.CopyLine(y, y-1)
				continue
			}
		}

		row1 := uint32(img.GetPixel(1, y-1))
		row1 |= uint32(img.GetPixel(0, y-1)) << 1
		row0 := uint32(0)

		for x := int32(0); x < img.width; x++ {
			bit := 0
			skip := p.UseSkip && p.Skip != nil && p.Skip.GetPixel(x, y) != 0
			if !skip {
				context := row0
				context |= uint32(img.GetPixel(x+int32(p.AT[0][0]), y+int32(p.AT[0][1]))) << 4
				context |= row1 << 5
				bit = ad.Decode(cx, int(context))
			}
			if bit != 0 {
				img.SetPixel(x, y, bit)
			}
			row1 = ((row1 << 1) | uint32(img.GetPixel(x+2, y-1))) & 0x1f
			row0 = ((row0 << 1) | uint32(bit)) & 0x0f
		}
	}
	return nil
}
