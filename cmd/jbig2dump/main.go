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

// Command jbig2dump decodes a JBIG2 stream to a PNG file, for inspecting
// what this package's decoder produced.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/xiaoqidun/gojbig2"
)

func main() {
	inputFile := flag.String("input", "", "input JBIG2 file (embedded stream, file-format stream, or SWF/CWS movie)")
	outputFile := flag.String("output", "", "output PNG file (defaults to the input name with .png)")
	flag.Parse()

	if *inputFile == "" {
		log.Fatal("input file is required; use -input")
	}

	in, err := os.Open(*inputFile)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer in.Close()

	img, err := jbig2.Decode(in)
	if err != nil {
		log.Fatalf("decode: %v", err)
	}

	output := *outputFile
	if output == "" {
		ext := filepath.Ext(*inputFile)
		output = (*inputFile)[:len(*inputFile)-len(ext)] + ".png"
	}
	out, err := os.Create(output)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		log.Fatalf("encode png: %v", err)
	}

	bounds := img.Bounds()
	fmt.Printf("decoded %s -> %s (%dx%d)\n", *inputFile, output, bounds.Dx(), bounds.Dy())
}
