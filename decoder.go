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

// Package jbig2 decodes bi-level images coded per ISO/IEC 14492:2001, the
// JBIG2 standard, for the subset of segment types (generic regions,
// halftone regions, pattern dictionaries) that arithmetic-coded PDF and
// fax-style embedding actually use.
package jbig2

import (
	"bytes"
	"compress/zlib"
	"image"
	"image/color"
	"io"
)

var jbig2FileSignature = []byte{0x97, 0x4A, 0x42, 0x32, 0x0D, 0x0A, 0x1A, 0x0A}

// Decoder decodes a JBIG2 stream one page at a time.
type Decoder struct {
	data []byte
	done bool
}

// NewDecoder reads all of r and prepares it for decoding. It accepts three
// container shapes: an embedded JBIG2 stream with no file header (the form
// PDF's JBIG2Decode filter and this package's tests use), a stream carrying
// the full JBIG2 file header (§D.4), and an SWF/CWS movie whose DEFINEBITS
// tag holds an embedded stream.
func NewDecoder(r io.Reader) (*Decoder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data, err = unwrapContainer(data)
	if err != nil {
		return nil, err
	}
	return &Decoder{data: stripFileHeader(data)}, nil
}

// unwrapContainer strips an SWF/CWS wrapper if present, leaving either a raw
// JBIG2 stream or data unchanged if it isn't SWF at all.
func unwrapContainer(data []byte) ([]byte, error) {
	if len(data) < 8 || data[0] != 'C' || data[1] != 'W' || data[2] != 'S' {
		return data, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(data[8:]))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	if idx := bytes.Index(decompressed, jbig2FileSignature); idx != -1 {
		return decompressed[idx:], nil
	}
	return decompressed, nil
}

// stripFileHeader removes the JBIG2 file header (§D.4.1: an 8-byte
// signature, one flags byte, and an optional 4-byte page count) when
// present, leaving the embedded segment stream Document.Decode expects.
// Random-access organization and non-default page association sizes in the
// file header are not supported; embedded streams (no header at all) are
// the common case and pass through untouched.
func stripFileHeader(data []byte) []byte {
	if len(data) < 9 || !bytes.HasPrefix(data, jbig2FileSignature) {
		return data
	}
	flags := data[8]
	offset := 9
	if flags&0x02 == 0 {
		offset += 4 // known page count field present
	}
	if offset > len(data) {
		return data
	}
	return data[offset:]
}

// Decode returns the single page this stream encodes. Calling it again
// after a successful decode returns io.EOF, matching image/... decoder
// conventions for a one-shot Reader-backed source; JBIG2's multi-page file
// organization is out of scope.
func (d *Decoder) Decode() (image.Image, error) {
	if d.done {
		return nil, io.EOF
	}
	d.done = true
	doc := NewDocument()
	page, err := doc.Decode(d.data)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, newDecodeError(ErrCorruptedStream, "stream produced no page")
	}
	return page.toGoImage(), nil
}

// DecodeAll decodes every page in the stream. Since multi-page files are
// out of scope, this returns at most one image.
func (d *Decoder) DecodeAll() ([]image.Image, error) {
	img, err := d.Decode()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []image.Image{img}, nil
}

// Decode decodes the first page found in r.
func Decode(r io.Reader) (image.Image, error) {
	dec, err := NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return dec.Decode()
}

// DecodeConfig reports the first page's dimensions without decoding its
// pixels, by parsing only the page-info segment.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	data, err = unwrapContainer(data)
	if err != nil {
		return image.Config{}, err
	}
	data = stripFileHeader(data)

	stream := NewBitStream(data)
	for stream.Remaining() > 0 {
		hdr, err := readSegmentHeader(stream)
		if err != nil {
			return image.Config{}, err
		}
		if hdr.Type != segPageInfo {
			if hdr.DataLength == unknownDataLength {
				break
			}
			stream.Advance(int64(hdr.DataLength))
			continue
		}
		width, err := stream.ReadUint32()
		if err != nil {
			return image.Config{}, err
		}
		height, err := stream.ReadUint32()
		if err != nil {
			return image.Config{}, err
		}
		return image.Config{ColorModel: color.GrayModel, Width: int(width), Height: int(height)}, nil
	}
	return image.Config{}, newDecodeError(ErrCorruptedStream, "no page information segment found")
}

func init() {
	image.RegisterFormat("jbig2", string(jbig2FileSignature), Decode, DecodeConfig)
}

// toGoImage renders b as a stdlib grayscale image: JBIG2 foreground (1)
// maps to black, background (0) to white.
func (b *Bitmap) toGoImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, int(b.width), int(b.height)))
	for y := int32(0); y < b.height; y++ {
		for x := int32(0); x < b.width; x++ {
			v := color.Gray{Y: 255}
			if b.GetPixel(x, y) != 0 {
				v = color.Gray{Y: 0}
			}
			img.SetGray(int(x), int(y), v)
		}
	}
	return img
}
