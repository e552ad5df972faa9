// Copyright 2022 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2022 Charles University, Faculty of Arts,
//                Institute of the Czech National Corpus
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

package datrie

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// magic identifies the doublearray container file.
const magic uint32 = 0x4c444947 // "LDIG"

// WriteTo serializes base, check, value (as 32-bit signed integers) and
// the code point map to w in the doublearray container format described
// by the model directory layout.
func (d *DoubleArray) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64

	hdr := []uint32{magic, 1, uint32(len(d.base))}
	for _, v := range hdr {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return written, fmt.Errorf("%w: writing doublearray header", err)
		}
		written += 4
	}

	for _, arr := range [][]int{d.base, d.check, d.value} {
		for _, v := range arr {
			if err := binary.Write(bw, binary.LittleEndian, int32(v)); err != nil {
				return written, fmt.Errorf("%w: writing doublearray body", err)
			}
			written += 4
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(d.codeOf))); err != nil {
		return written, fmt.Errorf("%w: writing code map length", err)
	}
	written += 4
	for r, code := range d.codeOf {
		if err := binary.Write(bw, binary.LittleEndian, int32(r)); err != nil {
			return written, fmt.Errorf("%w: writing code map entry", err)
		}
		if err := binary.Write(bw, binary.LittleEndian, int32(code)); err != nil {
			return written, fmt.Errorf("%w: writing code map entry", err)
		}
		written += 8
	}
	return written, bw.Flush()
}

// Load reads a doublearray container previously written by WriteTo.
func Load(r io.Reader) (*DoubleArray, error) {
	br := bufio.NewReader(r)

	var gotMagic, version, n uint32
	for _, dst := range []*uint32{&gotMagic, &version, &n} {
		if err := binary.Read(br, binary.LittleEndian, dst); err != nil {
			return nil, fmt.Errorf("%w: reading doublearray header", err)
		}
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("not a doublearray container: bad magic")
	}
	if version != 1 {
		return nil, fmt.Errorf("unsupported doublearray version %d", version)
	}

	d := &DoubleArray{
		base:  make([]int, n),
		check: make([]int, n),
		value: make([]int, n),
	}
	for _, arr := range [][]int{d.base, d.check, d.value} {
		for i := range arr {
			var v int32
			if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("%w: reading doublearray body", err)
			}
			arr[i] = int(v)
		}
	}

	var mapLen uint32
	if err := binary.Read(br, binary.LittleEndian, &mapLen); err != nil {
		return nil, fmt.Errorf("%w: reading code map length", err)
	}
	d.codeOf = make(map[rune]int, mapLen)
	for i := uint32(0); i < mapLen; i++ {
		var r, code int32
		if err := binary.Read(br, binary.LittleEndian, &r); err != nil {
			return nil, fmt.Errorf("%w: reading code map entry", err)
		}
		if err := binary.Read(br, binary.LittleEndian, &code); err != nil {
			return nil, fmt.Errorf("%w: reading code map entry", err)
		}
		d.codeOf[rune(r)] = int(code)
	}
	return d, nil
}

// LoadFile opens path and loads a doublearray container from it.
func LoadFile(path string) (*DoubleArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening doublearray file", err)
	}
	defer f.Close()
	return Load(f)
}

// WriteFile writes d's doublearray container to path, creating or
// truncating it.
func (d *DoubleArray) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating doublearray file", err)
	}
	defer f.Close()
	_, err = d.WriteTo(f)
	return err
}
