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

// Package model reads and writes the on-disk layout of a trained
// engine: the sorted feature list, the label table, the dense
// parameter matrix, and the double-array container built over the
// feature list.
package model

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// FeatureCount pairs a feature string with the corpus frequency it was
// admitted at. Order in a features file is lexicographic by Feature;
// that order defines feature ids.
type FeatureCount struct {
	Feature string
	Freq    int
}

// LoadFeatures reads the "features" file: one "<substring>\t<freq>\n"
// line per feature, sorted lexicographically. A malformed line or an
// out-of-order entry is an error, since feature id assignment and the
// double-array build both assume strict lexicographic order.
func LoadFeatures(path string) ([]FeatureCount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open features file: %w", err)
	}
	defer f.Close()

	var ans []FeatureCount
	prev := ""
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed features file at line %d: missing tab separator", lineNo)
		}
		freq, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed features file at line %d: invalid frequency %q", lineNo, parts[1])
		}
		if parts[0] <= prev && lineNo > 1 {
			return nil, fmt.Errorf("malformed features file at line %d: feature %q is out of order", lineNo, parts[0])
		}
		prev = parts[0]
		ans = append(ans, FeatureCount{Feature: parts[0], Freq: freq})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read features file: %w", err)
	}
	return ans, nil
}

// WriteFeatures writes fc to path in the canonical sorted order.
func WriteFeatures(path string, fc []FeatureCount) error {
	sorted := make([]FeatureCount, len(fc))
	copy(sorted, fc)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Feature < sorted[j].Feature })

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create features file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, c := range sorted {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", c.Feature, c.Freq); err != nil {
			return fmt.Errorf("failed to write features file: %w", err)
		}
	}
	return w.Flush()
}

// Strings returns just the sorted feature substrings, the shape
// datrie.Build requires.
func Strings(fc []FeatureCount) []string {
	ans := make([]string, len(fc))
	for i, c := range fc {
		ans[i] = c.Feature
	}
	return ans
}
