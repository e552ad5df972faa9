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

// Extract scans every starting position of text and walks the trie as
// far as the input allows, counting an occurrence for every feature id
// encountered along the way (not only the longest match at each start
// position). The returned map is keyed by feature id.
func (d *DoubleArray) Extract(text string) map[int]int {
	runes := []rune(text)
	counts := make(map[int]int)
	for p := range runes {
		idx := 1
		for q := p; q < len(runes); q++ {
			next, ok := d.step(idx, runes[q])
			if !ok {
				break
			}
			idx = next
			if id, ok := d.terminal(idx); ok {
				counts[id]++
			}
			if d.base[idx] < 0 {
				// idx is a pure leaf; no further children to walk.
				break
			}
		}
	}
	return counts
}
