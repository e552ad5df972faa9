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
	"fmt"
	"os"
	"sort"

	"github.com/bytedance/sonic"

	"github.com/shuyo/ldig/errs"
)

// Labels is an ordered, deduplicated set of language labels. Its
// position in the slice is the label's column index in the parameter
// matrix.
type Labels struct {
	names []string
	index map[string]int
}

// NewLabels builds a Labels table from an arbitrary set of names,
// sorting and deduplicating them.
func NewLabels(names []string) Labels {
	seen := make(map[string]bool, len(names))
	uniq := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			uniq = append(uniq, n)
		}
	}
	sort.Strings(uniq)
	idx := make(map[string]int, len(uniq))
	for i, n := range uniq {
		idx[n] = i
	}
	return Labels{names: uniq, index: idx}
}

// Len returns the number of labels (K in the parameter matrix).
func (l Labels) Len() int { return len(l.names) }

// Name returns the label at column k.
func (l Labels) Name(k int) string { return l.names[k] }

// Names returns the full sorted label list.
func (l Labels) Names() []string {
	ans := make([]string, len(l.names))
	copy(ans, l.names)
	return ans
}

// Index returns the column index of label, or ErrUnknownLabel if it
// is not part of the table.
func (l Labels) Index(label string) (int, error) {
	k, ok := l.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownLabel, label)
	}
	return k, nil
}

// LoadLabels reads the "labels" file, a JSON array of label strings.
func LoadLabels(path string) (Labels, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Labels{}, fmt.Errorf("failed to open labels file: %w", err)
	}
	var names []string
	if err := sonic.Unmarshal(raw, &names); err != nil {
		return Labels{}, fmt.Errorf("failed to parse labels file: %w", err)
	}
	return NewLabels(names), nil
}

// WriteLabels writes l to path as a sorted JSON array.
func WriteLabels(path string, l Labels) error {
	raw, err := sonic.Marshal(l.Names())
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write labels file: %w", err)
	}
	return nil
}
