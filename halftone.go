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

// HalftoneRegionParams configures halftone-region decoding (ISO/IEC
// 14492:2001 §6.6): the grid geometry that places each pattern cell, the
// template and skip-bitmap options that feed the underlying gray-scale
// bit-plane decoding, and the region's own bitmap size, default pixel and
// composition operator.
type HalftoneRegionParams struct {
	MMR          bool
	Template     uint8
	EnableSkip   bool
	DefaultPixel bool
	CombOp       CombineOp

	RegionWidth, RegionHeight uint32

	GridWidth, GridHeight uint32
	GridX, GridY          int32
	// RegionStepX/Y are the grid's fixed-point (1/256 pixel) step vector
	// components (HRX/HRY in the standard's notation).
	RegionStepX, RegionStepY uint16
}

// gridCell returns the fixed-point-resolved pixel offset of grid cell
// (m, n)'s pattern origin, per §6.6.5.2's placement formula. GridX/GridY
// already appear inside this sum before the shift; callers additionally add
// GridX/GridY again, unscaled, to the result before blitting, mirroring the
// reference decoder's own placement arithmetic (see the ledger entry for
// this file). The two products are accumulated in 64-bit before the
// fixed-point shift to avoid overflow on large grids, and the shift is Go's
// arithmetic (sign-preserving) right shift on a signed value, matching the
// standard's floor-toward-negative-infinity intent.
func (p HalftoneRegionParams) gridCell(m, n uint32) (x, y int32) {
	mi, ni := int64(m), int64(n)
	x = int32((int64(p.GridX) + mi*int64(p.RegionStepY) + ni*int64(p.RegionStepX)) >> 8)
	y = int32((int64(p.GridY) + mi*int64(p.RegionStepX) - ni*int64(p.RegionStepY)) >> 8)
	return x, y
}

// buildSkip precomputes, for EnableSkip, which grid cells can never overlap
// the region bitmap and so need no bit-plane decoding work.
func (p HalftoneRegionParams) buildSkip(patW, patH int32) *Bitmap {
	if !p.EnableSkip {
		return nil
	}
	skip := NewBitmap(int32(p.GridWidth), int32(p.GridHeight))
	for m := uint32(0); m < p.GridHeight; m++ {
		for n := uint32(0); n < p.GridWidth; n++ {
			x, y := p.gridCell(m, n)
			x += p.GridX
			y += p.GridY
			if x+patW <= 0 || x >= int32(p.RegionWidth) || y+patH <= 0 || y >= int32(p.RegionHeight) {
				skip.SetPixel(int32(n), int32(m), 1)
			}
		}
	}
	return skip
}

// validate reports ErrInvalidHeaderValue for a region or grid with a
// non-positive dimension, the case NewBitmap refuses rather than allocating.
func (p HalftoneRegionParams) validate() error {
	if p.RegionWidth == 0 || p.RegionHeight == 0 {
		return newDecodeError(ErrInvalidHeaderValue, "halftone region has non-positive dimensions")
	}
	if p.GridWidth == 0 || p.GridHeight == 0 {
		return newDecodeError(ErrInvalidHeaderValue, "halftone region grid has non-positive dimensions")
	}
	return nil
}

// planeCount returns how many Gray-coded bit planes a halftone region with
// numPatterns candidate patterns decodes, per §C.5's GSPLANES procedure. A
// single-pattern dictionary needs zero bits to select it, so every grid
// cell trivially uses pattern 0 with no plane decoded at all.
func planeCount(numPatterns uint32) int {
	if numPatterns <= 1 {
		return 0
	}
	bpp := 1
	for uint32(1)<<uint(bpp) < numPatterns {
		bpp++
	}
	return bpp
}

func (p HalftoneRegionParams) genericParams(skip *Bitmap) GenericRegionParams {
	gp := GenericRegionParams{
		Width:      p.GridWidth,
		Height:     p.GridHeight,
		Template:   p.Template,
		UseSkip:    p.EnableSkip,
		Skip:       skip,
		TPGDON:     false,
	}
	if p.Template <= 1 {
		gp.AT[0] = [2]int8{3, -1}
	} else {
		gp.AT[0] = [2]int8{2, -1}
	}
	if p.Template == 0 {
		gp.AT[1] = [2]int8{-3, -1}
		gp.AT[2] = [2]int8{2, -2}
		gp.AT[3] = [2]int8{-2, -2}
	}
	return gp
}

// DecodeHalftoneArith decodes a halftone region arithmetically against a
// previously decoded pattern dictionary.
func DecodeHalftoneArith(p HalftoneRegionParams, patterns *PatternDict, ad *ArithDecoder, cx CX) (*Bitmap, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	bpp := planeCount(uint32(len(patterns.Patterns)))
	if bpp == 0 {
		return p.render(nil, patterns)
	}

	patW, patH := int32(0), int32(0)
	if len(patterns.Patterns) > 0 && patterns.Patterns[0] != nil {
		patW, patH = patterns.Patterns[0].Width(), patterns.Patterns[0].Height()
	}
	skip := p.buildSkip(patW, patH)
	gp := p.genericParams(skip)

	planes := make([]*Bitmap, bpp)
	for i := bpp - 1; i >= 0; i-- {
		plane, err := DecodeGenericArith(gp, ad, cx)
		if err != nil {
			return nil, err
		}
		if i < bpp-1 {
			Blit(planes[i+1], 0, 0, plane, CombineXor)
		}
		planes[i] = plane
	}
	return p.render(planes, patterns)
}

// DecodeHalftoneMMR decodes a halftone region from MMR-coded bit planes,
// each supplied by a fresh call to newPlane.
func DecodeHalftoneMMR(p HalftoneRegionParams, patterns *PatternDict, newPlane func() (MMRSource, error)) (*Bitmap, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	bpp := planeCount(uint32(len(patterns.Patterns)))
	if bpp == 0 {
		return p.render(nil, patterns)
	}
	planes := make([]*Bitmap, bpp)
	for i := bpp - 1; i >= 0; i-- {
		src, err := newPlane()
		if err != nil {
			return nil, err
		}
		plane, err := DecodeGenericMMR(GenericRegionParams{Width: p.GridWidth, Height: p.GridHeight}, src)
		if err != nil {
			return nil, err
		}
		if i < bpp-1 {
			Blit(planes[i+1], 0, 0, plane, CombineXor)
		}
		planes[i] = plane
	}
	return p.render(planes, patterns)
}

func (p HalftoneRegionParams) render(planes []*Bitmap, patterns *PatternDict) (*Bitmap, error) {
	region := NewBitmap(int32(p.RegionWidth), int32(p.RegionHeight))
	region.Fill(p.DefaultPixel)
	maxIndex := uint32(len(patterns.Patterns)) - 1
	for m := uint32(0); m < p.GridHeight; m++ {
		for n := uint32(0); n < p.GridWidth; n++ {
			gray := uint32(0)
			for i, plane := range planes {
				gray |= uint32(plane.GetPixel(int32(n), int32(m))) << uint(i)
			}
			if gray > maxIndex {
				return nil, newDecodeError(ErrIndexOutOfBounds, "halftone gray value has no pattern")
			}
			pattern := patterns.Patterns[gray]
			if pattern == nil {
				continue
			}
			x, y := p.gridCell(m, n)
			Blit(pattern, x+p.GridX, y+p.GridY, region, p.CombOp)
		}
	}
	return region, nil
}
