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

// PatternDict holds the fixed-size pattern bitmaps a pattern-dictionary
// segment (ISO/IEC 14492:2001 §6.7) decodes, indexed by gray-code value.
type PatternDict struct {
	Patterns []*Bitmap
}

// PatternDictParams configures pattern-dictionary decoding: MMR selects the
// MMR/arithmetic collective-bitmap coding, Template and the derived AT
// pixels match the fixed layout the standard mandates for this segment
// type, and MaxGrayLevel (GRAYMAX) is one less than the pattern count.
type PatternDictParams struct {
	MMR                         bool
	Template                    uint8
	PatternWidth, PatternHeight uint8
	MaxGrayLevel                uint32
}

// collectiveParams builds the generic-region parameters for the single
// collective bitmap a pattern dictionary decodes before slicing it into
// individual patterns, per §6.7.5's fixed AT-pixel assignment.
func (p PatternDictParams) collectiveParams() GenericRegionParams {
	gp := GenericRegionParams{
		Width:    (p.MaxGrayLevel + 1) * uint32(p.PatternWidth),
		Height:   uint32(p.PatternHeight),
		Template: p.Template,
	}
	gp.AT[0] = [2]int8{-int8(p.PatternWidth), 0}
	if p.Template == 0 {
		gp.AT[1] = [2]int8{-3, -1}
		gp.AT[2] = [2]int8{2, -2}
		gp.AT[3] = [2]int8{-2, -2}
	}
	return gp
}

func (p PatternDictParams) slice(collective *Bitmap) *PatternDict {
	dict := &PatternDict{Patterns: make([]*Bitmap, p.MaxGrayLevel+1)}
	w := int32(p.PatternWidth)
	h := int32(p.PatternHeight)
	for gray := uint32(0); gray <= p.MaxGrayLevel; gray++ {
		dict.Patterns[gray] = collective.SubImage(int32(gray)*w, 0, w, h)
	}
	return dict
}

// DecodePatternDictArith decodes a pattern dictionary arithmetically.
func DecodePatternDictArith(p PatternDictParams, ad *ArithDecoder, cx CX) (*PatternDict, error) {
	collective, err := DecodeGenericArith(p.collectiveParams(), ad, cx)
	if err != nil {
		return nil, err
	}
	return p.slice(collective), nil
}

// DecodePatternDictMMR decodes a pattern dictionary from an MMR-coded
// collective bitmap, applying the same 1=white inversion DecodeGenericMMR
// does for any other MMR-coded region.
func DecodePatternDictMMR(p PatternDictParams, src MMRSource) (*PatternDict, error) {
	collective, err := DecodeGenericMMR(p.collectiveParams(), src)
	if err != nil {
		return nil, err
	}
	return p.slice(collective), nil
}
