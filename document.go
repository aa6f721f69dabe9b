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

// segmentType is the low 6 bits of a segment header's flags byte (ISO/IEC
// 14492:2001 §7.2.6), naming what the segment's data holds.
type segmentType uint8

const (
	segSymbolDict                                segmentType = 0
	segTextRegionIntermediate                    segmentType = 4
	segTextRegionImmediate                       segmentType = 6
	segTextRegionImmediateLossless                segmentType = 7
	segPatternDict                               segmentType = 16
	segHalftoneRegionIntermediate                segmentType = 20
	segHalftoneRegionImmediate                   segmentType = 22
	segHalftoneRegionImmediateLossless           segmentType = 23
	segGenericRegionIntermediate                 segmentType = 36
	segGenericRegionImmediate                    segmentType = 38
	segGenericRegionImmediateLossless            segmentType = 39
	segGenericRefinementRegionIntermediate       segmentType = 40
	segGenericRefinementRegionImmediate          segmentType = 42
	segGenericRefinementRegionImmediateLossless  segmentType = 43
	segPageInfo                                  segmentType = 48
	segEndOfPage                                 segmentType = 49
	segEndOfStripe                               segmentType = 50
	segEndOfFile                                 segmentType = 51
	segProfiles                                  segmentType = 52
	segTable                                     segmentType = 53
	segExtension                                 segmentType = 62
)

const unknownDataLength = 0xFFFFFFFF

// segmentHeader is one parsed segment header (§7.2), stripped down to the
// fields the driver needs to reach and dispatch on the segment's data.
type segmentHeader struct {
	Number          uint32
	Type            segmentType
	ReferredTo      []uint32
	PageAssociation uint32
	DataLength      uint32
}

func readSegmentHeader(s *BitStream) (segmentHeader, error) {
	var h segmentHeader
	num, err := s.ReadUint32()
	if err != nil {
		return h, err
	}
	h.Number = num

	flags, err := s.ReadByte()
	if err != nil {
		return h, err
	}
	h.Type = segmentType(flags & 0x3f)
	pageAssocIsFour := flags&0x40 != 0

	rtsByte, err := peekByte(s)
	if err != nil {
		return h, err
	}
	var refCount uint32
	if rtsByte>>5 == 7 {
		count, err := s.ReadUint32()
		if err != nil {
			return h, err
		}
		refCount = count & 0x1fffffff
		retainBytes := (refCount + 1 + 7) / 8
		s.Advance(int64(retainBytes))
	} else {
		b, err := s.ReadByte()
		if err != nil {
			return h, err
		}
		refCount = uint32(b >> 5)
	}

	refSize := 1
	if h.Number > 65536 {
		refSize = 4
	} else if h.Number > 256 {
		refSize = 2
	}
	h.ReferredTo = make([]uint32, refCount)
	for i := range h.ReferredTo {
		switch refSize {
		case 1:
			b, err := s.ReadByte()
			if err != nil {
				return h, err
			}
			h.ReferredTo[i] = uint32(b)
		case 2:
			v, err := s.ReadUint16()
			if err != nil {
				return h, err
			}
			h.ReferredTo[i] = uint32(v)
		default:
			v, err := s.ReadUint32()
			if err != nil {
				return h, err
			}
			h.ReferredTo[i] = v
		}
	}

	if pageAssocIsFour {
		v, err := s.ReadUint32()
		if err != nil {
			return h, err
		}
		h.PageAssociation = v
	} else {
		b, err := s.ReadByte()
		if err != nil {
			return h, err
		}
		h.PageAssociation = uint32(b)
	}

	length, err := s.ReadUint32()
	if err != nil {
		return h, err
	}
	h.DataLength = length
	return h, nil
}

// peekByte reads the next byte without consuming it.
func peekByte(s *BitStream) (byte, error) {
	pos := s.Position()
	b, err := s.ReadByte()
	s.Seek(pos)
	return b, err
}

// regionSegmentInfo is a region segment's common header (§7.4.1), plus the
// raw flags byte needed to derive its combination operator.
type regionSegmentInfo struct {
	Info  RegionInfo
	Flags byte
}

func readRegionInfo(s *BitStream) (regionSegmentInfo, error) {
	var ri regionSegmentInfo
	w, err := s.ReadUint32()
	if err != nil {
		return ri, err
	}
	h, err := s.ReadUint32()
	if err != nil {
		return ri, err
	}
	x, err := s.ReadUint32()
	if err != nil {
		return ri, err
	}
	y, err := s.ReadUint32()
	if err != nil {
		return ri, err
	}
	flags, err := s.ReadByte()
	if err != nil {
		return ri, err
	}
	ri.Info = RegionInfo{
		Width: int32(w), Height: int32(h), X: int32(x), Y: int32(y),
		CombOp: combOpFromFlags(flags),
	}
	ri.Flags = flags
	return ri, nil
}

func combOpFromFlags(flags byte) CombineOp {
	if flags&0x07 == 4 {
		return CombineReplace
	}
	return CombineOp(flags & 0x03)
}

// Document drives a JBIG2 embedded segment stream (§7.4) to a single decoded
// page bitmap. It supports the segment types spec.md scopes in: page info,
// pattern dictionaries, generic regions and halftone regions, arithmetic or
// MMR coded. Symbol dictionaries, text regions, generic refinement regions
// and Huffman tables are out of scope and reported via ErrUnsupportedSegment.
type Document struct {
	page             *Bitmap
	pageDefaultPixel bool
	pageStriped      bool
	maxStripeSize    uint16
	patternDicts     map[uint32]*PatternDict
}

// NewDocument returns an empty decoding driver.
func NewDocument() *Document {
	return &Document{patternDicts: make(map[uint32]*PatternDict)}
}

// Decode drives stream to completion (an end-of-file segment or exhaustion)
// and returns the final page bitmap.
func (d *Document) Decode(data []byte) (*Bitmap, error) {
	stream := NewBitStream(data)
	for stream.Remaining() > 0 {
		hdr, err := readSegmentHeader(stream)
		if err != nil {
			return nil, err
		}
		if hdr.DataLength == unknownDataLength {
			return nil, newDecodeError(ErrUnsupportedSegment, "unknown-length segment data is not supported")
		}
		dataStart := stream.Position()

		switch hdr.Type {
		case segPageInfo:
			if err := d.parsePageInfo(stream); err != nil {
				return nil, err
			}
		case segPatternDict:
			if err := d.parsePatternDict(stream, hdr); err != nil {
				return nil, err
			}
		case segHalftoneRegionIntermediate, segHalftoneRegionImmediate, segHalftoneRegionImmediateLossless:
			if err := d.parseHalftoneRegion(stream, hdr); err != nil {
				return nil, err
			}
		case segGenericRegionIntermediate, segGenericRegionImmediate, segGenericRegionImmediateLossless:
			if err := d.parseGenericRegion(stream, hdr); err != nil {
				return nil, err
			}
		case segEndOfPage:
			// nothing to do; a following page-info segment (unsupported
			// multi-page streams aside) would start a new page.
		case segEndOfFile:
			return d.page, nil
		case segEndOfStripe, segProfiles, segExtension:
			// no page-visible effect; skipped below by data length.
		case segSymbolDict, segTextRegionIntermediate, segTextRegionImmediate, segTextRegionImmediateLossless,
			segGenericRefinementRegionIntermediate, segGenericRefinementRegionImmediate, segGenericRefinementRegionImmediateLossless,
			segTable:
			return nil, newDecodeError(ErrUnsupportedSegment, "unsupported segment type")
		}

		// Segment parsers may stop short of DataLength (arithmetic streams
		// leave a trailing FF AC marker unread, region data may pad to a
		// byte boundary); the next header always starts at the declared end.
		stream.Seek(dataStart + int64(hdr.DataLength))
	}
	return d.page, nil
}

func (d *Document) parsePageInfo(s *BitStream) error {
	width, err := s.ReadUint32()
	if err != nil {
		return err
	}
	height, err := s.ReadUint32()
	if err != nil {
		return err
	}
	if _, err := s.ReadUint32(); err != nil { // X resolution, unused
		return err
	}
	if _, err := s.ReadUint32(); err != nil { // Y resolution, unused
		return err
	}
	flags, err := s.ReadByte()
	if err != nil {
		return err
	}
	striping, err := s.ReadUint16()
	if err != nil {
		return err
	}
	d.pageDefaultPixel = flags&0x04 != 0
	d.pageStriped = striping&0x8000 != 0
	d.maxStripeSize = striping & 0x7fff

	if height == unknownDataLength {
		height = uint32(d.maxStripeSize)
	}
	page := NewBitmap(int32(width), int32(height))
	if page == nil {
		return newDecodeError(ErrInvalidHeaderValue, "page has non-positive dimensions")
	}
	page.Fill(d.pageDefaultPixel)
	d.page = page
	return nil
}

func (d *Document) growPageForStripe(ri RegionInfo) {
	if d.page == nil || !d.pageStriped {
		return
	}
	newHeight := ri.Y + ri.Height
	if newHeight > d.page.Height() {
		d.page.Expand(newHeight, d.pageDefaultPixel)
	}
}

func (d *Document) parsePatternDict(s *BitStream, hdr segmentHeader) error {
	flags, err := s.ReadByte()
	if err != nil {
		return err
	}
	pw, err := s.ReadByte()
	if err != nil {
		return err
	}
	ph, err := s.ReadByte()
	if err != nil {
		return err
	}
	grayMax, err := s.ReadUint32()
	if err != nil {
		return err
	}

	params := PatternDictParams{
		MMR:           flags&0x01 != 0,
		Template:      (flags >> 1) & 0x03,
		PatternWidth:  pw,
		PatternHeight: ph,
		MaxGrayLevel:  grayMax,
	}

	var dict *PatternDict
	if params.MMR {
		s.AlignByte()
		gp := params.collectiveParams()
		dict, err = DecodePatternDictMMR(params, NewMMRPlane(s, int(gp.Width), int(gp.Height)))
	} else {
		cx := NewCX(genericContextSize(params.Template))
		ad := NewArithDecoder(s)
		dict, err = DecodePatternDictArith(params, ad, cx)
	}
	if err != nil {
		return err
	}
	d.patternDicts[hdr.Number] = dict
	return nil
}

func genericContextSize(template uint8) int {
	switch template {
	case 0:
		return 1 << 16
	case 1:
		return 1 << 13
	default:
		return 1 << 10
	}
}

func (d *Document) parseHalftoneRegion(s *BitStream, hdr segmentHeader) error {
	ri, err := readRegionInfo(s)
	if err != nil {
		return err
	}
	flags, err := s.ReadByte()
	if err != nil {
		return err
	}
	gw, err := s.ReadUint32()
	if err != nil {
		return err
	}
	gh, err := s.ReadUint32()
	if err != nil {
		return err
	}
	gxRaw, err := s.ReadUint32()
	if err != nil {
		return err
	}
	gyRaw, err := s.ReadUint32()
	if err != nil {
		return err
	}
	rx, err := s.ReadUint16()
	if err != nil {
		return err
	}
	ry, err := s.ReadUint16()
	if err != nil {
		return err
	}

	if len(hdr.ReferredTo) != 1 {
		return newDecodeError(ErrCorruptedStream, "halftone region must refer to exactly one pattern dictionary")
	}
	patterns, ok := d.patternDicts[hdr.ReferredTo[0]]
	if !ok || len(patterns.Patterns) == 0 {
		return newDecodeError(ErrCorruptedStream, "halftone region refers to an unknown pattern dictionary")
	}

	params := HalftoneRegionParams{
		MMR:          flags&0x01 != 0,
		Template:     (flags >> 1) & 0x03,
		EnableSkip:   (flags>>3)&0x01 != 0,
		CombOp:       CombineOp((flags >> 4) & 0x07),
		DefaultPixel: (flags>>7)&0x01 != 0,
		RegionWidth:  uint32(ri.Info.Width),
		RegionHeight: uint32(ri.Info.Height),
		GridWidth:    gw,
		GridHeight:   gh,
		GridX:        int32(gxRaw),
		GridY:        int32(gyRaw),
		RegionStepX:  rx,
		RegionStepY:  ry,
	}

	var region *Bitmap
	if params.MMR {
		s.AlignByte()
		region, err = DecodeHalftoneMMR(params, patterns, func() (MMRSource, error) {
			return NewMMRPlane(s, int(gw), int(gh)), nil
		})
	} else {
		cx := NewCX(genericContextSize(params.Template))
		ad := NewArithDecoder(s)
		region, err = DecodeHalftoneArith(params, patterns, ad, cx)
	}
	if err != nil {
		return err
	}

	if hdr.Type != segHalftoneRegionIntermediate {
		d.growPageForStripe(ri.Info)
		Blit(region, ri.Info.X, ri.Info.Y, d.page, ri.Info.CombOp)
	}
	return nil
}

func (d *Document) parseGenericRegion(s *BitStream, hdr segmentHeader) error {
	ri, err := readRegionInfo(s)
	if err != nil {
		return err
	}
	flags, err := s.ReadByte()
	if err != nil {
		return err
	}
	params := GenericRegionParams{
		Width:    uint32(ri.Info.Width),
		Height:   uint32(ri.Info.Height),
		Template: (flags >> 1) & 0x03,
		TPGDON:   (flags>>3)&0x01 != 0,
	}
	mmr := flags&0x01 != 0
	if !mmr {
		atCount := 2
		if params.Template == 0 {
			atCount = 8
		}
		for i := 0; i < atCount/2; i++ {
			x, err := s.ReadInt8()
			if err != nil {
				return err
			}
			y, err := s.ReadInt8()
			if err != nil {
				return err
			}
			params.AT[i] = [2]int8{int8(x), int8(y)}
		}
	}

	var region *Bitmap
	if mmr {
		region, err = DecodeGenericMMR(params, NewMMRPlane(s, int(params.Width), int(params.Height)))
	} else {
		cx := NewCX(genericContextSize(params.Template))
		ad := NewArithDecoder(s)
		region, err = DecodeGenericArith(params, ad, cx)
	}
	if err != nil {
		return err
	}

	if hdr.Type != segGenericRegionIntermediate {
		d.growPageForStripe(ri.Info)
		Blit(region, ri.Info.X, ri.Info.Y, d.page, ri.Info.CombOp)
	}
	return nil
}
