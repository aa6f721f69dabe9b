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

// Package mmr wraps golang.org/x/image/ccitt to decode the MMR (T.6, ITU-T
// Group 4) planes JBIG2 generic regions, halftone regions and pattern
// dictionaries may use in place of arithmetic coding.
package mmr

import (
	"bytes"
	"io"

	"golang.org/x/image/ccitt"
)

// Reader decodes one T.6-coded plane from a byte slice into a caller-owned,
// packed 1-bpp raster. It tracks how many bytes of the input it actually
// consumed so a caller chaining several MMR planes back to back (as
// halftone regions do) can advance past exactly the right amount of data.
type Reader struct {
	data     []byte
	width    int
	height   int
	consumed int64
}

// NewReader prepares a decoder for a width x height plane read from the
// front of data. data may contain trailing bytes belonging to later
// segments or planes; only what CCITT actually consumes is read.
func NewReader(data []byte, width, height int) *Reader {
	return &Reader{data: data, width: width, height: height}
}

// Decode fills dst, a packed 1-bpp raster with the given stride in bytes,
// MSB-first, CCITT's native 1=white convention (callers invert to JBIG2's
// 1=foreground convention themselves).
func (r *Reader) Decode(dst []byte, stride int) error {
	reader := bytes.NewReader(r.data)
	opts := &ccitt.Options{Invert: false}
	decoder := ccitt.NewReader(reader, ccitt.MSB, ccitt.Group4, r.width, r.height, opts)

	rowBytes := (r.width + 7) / 8
	buf := make([]byte, rowBytes)
	for y := 0; y < r.height; y++ {
		if _, err := io.ReadFull(decoder, buf); err != nil {
			return err
		}
		start := y * stride
		copy(dst[start:start+rowBytes], buf)
	}
	r.consumed = int64(len(r.data)) - int64(reader.Len())
	return nil
}

// Consumed returns how many bytes of the input Decode read, valid only
// after a successful Decode call.
func (r *Reader) Consumed() int64 { return r.consumed }
