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

package model

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// parametersMagic identifies the "parameters" file format: a small
// self-describing header (magic, rows, cols) followed by a dense
// row-major matrix of little-endian float64s.
const parametersMagic uint32 = 0x4c444750 // "LDGP"

// Parameters is a dense M (feature) x K (label) weight matrix, row
// order equal to feature id order, column order equal to label index.
type Parameters struct {
	Rows int
	Cols int
	Data []float64
}

// NewParameters allocates a zero-valued rows x cols matrix.
func NewParameters(rows, cols int) *Parameters {
	return &Parameters{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns W[id, k].
func (p *Parameters) At(id, k int) float64 {
	return p.Data[id*p.Cols+k]
}

// Set assigns W[id, k] = v.
func (p *Parameters) Set(id, k int, v float64) {
	p.Data[id*p.Cols+k] = v
}

// Row returns the K weights for feature id, as a slice sharing
// storage with the matrix.
func (p *Parameters) Row(id int) []float64 {
	return p.Data[id*p.Cols : (id+1)*p.Cols]
}

// LoadParameters reads the "parameters" file written by WriteTo.
func LoadParameters(path string) (*Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parameters file: %w", err)
	}
	defer f.Close()
	return readParameters(f)
}

func readParameters(r io.Reader) (*Parameters, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("failed to read parameters header: %w", err)
	}
	magic := binary.LittleEndian.Uint32(header[0:4])
	if magic != parametersMagic {
		return nil, fmt.Errorf("parameters file has wrong magic %#x", magic)
	}
	rows := int(binary.LittleEndian.Uint32(header[4:8]))
	cols := int(binary.LittleEndian.Uint32(header[8:12]))

	buf := make([]byte, rows*cols*8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("failed to read parameters body: %w", err)
	}
	data := make([]float64, rows*cols)
	for i := range data {
		bits := binary.LittleEndian.Uint64(buf[i*8 : i*8+8])
		data[i] = math.Float64frombits(bits)
	}
	return &Parameters{Rows: rows, Cols: cols, Data: data}, nil
}

// WriteFile writes p to path using the "parameters" container format.
func (p *Parameters) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parameters file: %w", err)
	}
	defer f.Close()
	return p.WriteTo(f)
}

// WriteTo writes the header and body to w.
func (p *Parameters) WriteTo(w io.Writer) error {
	var header [12]byte
	binary.LittleEndian.PutUint32(header[0:4], parametersMagic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(p.Rows))
	binary.LittleEndian.PutUint32(header[8:12], uint32(p.Cols))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write parameters header: %w", err)
	}

	buf := make([]byte, len(p.Data)*8)
	for i, v := range p.Data {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], math.Float64bits(v))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write parameters body: %w", err)
	}
	return nil
}
