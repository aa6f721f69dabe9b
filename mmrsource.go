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

import "github.com/xiaoqidun/gojbig2/internal/mmr"

// mmrPlane adapts internal/mmr.Reader to MMRSource, byte-aligning stream
// before handing it the raw remaining bytes and advancing stream past
// whatever CCITT actually consumed once it's done.
type mmrPlane struct {
	stream *BitStream
	width  int
	height int
}

// NewMMRPlane returns an MMRSource that decodes one width x height T.6
// plane from stream's current position, advancing stream past the coded
// data once decoded.
func NewMMRPlane(stream *BitStream, width, height int) MMRSource {
	return &mmrPlane{stream: stream, width: width, height: height}
}

func (p *mmrPlane) Decode(dst *Bitmap) error {
	p.stream.AlignByte()
	data := p.stream.Rest()
	if data == nil {
		return newDecodeError(ErrEndOfStream, "insufficient data for mmr decode")
	}
	reader := mmr.NewReader(data, p.width, p.height)
	if err := reader.Decode(dst.data, int(dst.stride)); err != nil {
		return newDecodeError(ErrCorruptedStream, "mmr decode failed: "+err.Error())
	}
	p.stream.Advance(reader.Consumed())
	return nil
}
