// Copyright 2025 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2025 Charles University, Faculty of Arts,
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

// Package corpus scans one or more "<label>\t<text>" corpus files into
// normalized records for training and detection.
package corpus

import (
	"bufio"
	"fmt"
	"os"

	"github.com/shuyo/ldig/normalize"
)

// Record is one normalized corpus line, ready for the extractor or
// the scorer.
type Record struct {
	normalize.Result
	File string
}

// Scanner wraps multiple corpus files and provides a unified scanning
// interface, normalizing every line as it is read.
type Scanner struct {
	filePaths    []string
	currentIndex int
	currentFile  *os.File
	scanner      *bufio.Scanner
	err          error
	current      Record
}

// NewScanner creates a scanner that reads through filePaths
// sequentially, normalizing each line.
func NewScanner(filePaths ...string) (*Scanner, error) {
	if len(filePaths) == 0 {
		return nil, fmt.Errorf("at least one corpus file required")
	}

	s := &Scanner{
		filePaths:    filePaths,
		currentIndex: -1,
	}
	if !s.openNextFile() {
		return nil, s.err
	}
	return s, nil
}

func (s *Scanner) openNextFile() bool {
	if s.currentFile != nil {
		s.currentFile.Close()
		s.currentFile = nil
		s.scanner = nil
	}
	s.currentIndex++
	if s.currentIndex >= len(s.filePaths) {
		return false
	}

	file, err := os.Open(s.filePaths[s.currentIndex])
	if err != nil {
		s.err = fmt.Errorf("failed to open corpus file: %w", err)
		return false
	}
	s.currentFile = file
	buf := bufio.NewScanner(file)
	buf.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.scanner = buf
	return true
}

// Scan advances to the next normalized line, returning false when
// every file is exhausted or an error occurred.
func (s *Scanner) Scan() bool {
	if s.scanner == nil {
		return false
	}
	if s.scanner.Scan() {
		s.current = Record{
			Result: normalize.Line(s.scanner.Text()),
			File:   s.filePaths[s.currentIndex],
		}
		return true
	}
	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("failed to read corpus file: %w", err)
		return false
	}
	return s.openNextFile() && s.Scan()
}

// Record returns the most recently scanned line.
func (s *Scanner) Record() Record { return s.current }

// Err returns the first error encountered during scanning.
func (s *Scanner) Err() error { return s.err }

// Close closes any open file handle.
func (s *Scanner) Close() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		s.scanner = nil
		return err
	}
	return nil
}

// ExtractNormalizedText writes every normalized text body of path,
// one per line, to a scratch file and returns its path. The extractor
// binary consumes whole files, so initialization hands it normalized
// text rather than raw corpus lines.
func ExtractNormalizedText(path string) (string, error) {
	scanner, err := NewScanner(path)
	if err != nil {
		return "", err
	}
	defer scanner.Close()

	out, err := os.CreateTemp("", "ldig-normalized-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create normalized text file: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(w, scanner.Record().Normalized); err != nil {
			return "", fmt.Errorf("failed to write normalized text file: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush normalized text file: %w", err)
	}
	return out.Name(), nil
}
