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

// RegionInfo is the common region-segment header every generic and
// halftone region carries: placement on the page and the operator used to
// compose the decoded region onto it.
type RegionInfo struct {
	Width, Height int32
	X, Y          int32
	CombOp        CombineOp
}

// MMRSource decodes one plane of MMR (T.6/Group 4) coded data into dst.
// MMR itself is an out-of-scope external collaborator (spec.md §1); the
// generic-region, halftone-region and pattern-dictionary decoders each
// accept an MMRSource rather than implementing T.6, so the core stays
// agnostic to which CCITT implementation backs it. internal/mmr supplies
// the one production implementation, wrapping golang.org/x/image/ccitt.
type MMRSource interface {
	Decode(dst *Bitmap) error
}
