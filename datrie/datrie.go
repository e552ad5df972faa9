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

// Package datrie implements a double array trie over a fixed alphabet of
// UTF-8 code points. It stores a sorted, deduplicated set of feature
// strings and maps each one to a dense integer id assigned by sorted
// order. The structure supports exact lookup and streaming extraction of
// every feature that occurs as a substring of a longer string.
package datrie

import (
	"fmt"
	"sort"

	"github.com/shuyo/ldig/errs"
)

// endCode is the reserved alphabet code used to mark a node that is both
// an exact match and a branching point for longer features sharing its
// prefix. Real code points are assigned codes starting at 1.
const endCode = 0

// DoubleArray is a packed trie over a sorted feature set. base, check and
// value are parallel arrays; index 0 is never used, the root always
// lives at index 1.
type DoubleArray struct {
	base  []int
	check []int
	value []int

	// codeOf maps a code point to its alphabet code (>=1). Code points
	// not present in the training feature set have no entry.
	codeOf map[rune]int
}

// N reports the highest slot index in use (the guard slot at index 0 is
// not counted).
func (d *DoubleArray) N() int {
	return len(d.base) - 1
}

// grow extends the arrays so that index idx is valid.
func (d *DoubleArray) grow(idx int) {
	if idx < len(d.base) {
		return
	}
	newLen := len(d.base) * 2
	if newLen <= idx {
		newLen = idx + 1
	}
	base := make([]int, newLen)
	check := make([]int, newLen)
	value := make([]int, newLen)
	copy(base, d.base)
	copy(check, d.check)
	copy(value, d.value)
	d.base, d.check, d.value = base, check, value
}

// free reports whether slot idx is available for use as a child slot.
func (d *DoubleArray) free(idx int) bool {
	if idx < 1 {
		return false
	}
	if idx >= len(d.check) {
		return true
	}
	return d.check[idx] == 0
}

// group is a set of features sharing a common prefix, to be attached as
// children of a single trie node.
type group struct {
	nodeIndex int
	prefixLen int
	ids       []int // indices into the sorted feature slice
}

// Build constructs a double array trie over features, which must already
// be sorted in strictly increasing lexicographic order with no
// duplicates and no empty string. The feature at features[i] is assigned
// id i. Build returns errs.ErrInvalidFeatureSet if the precondition is
// violated.
func Build(features []string) (*DoubleArray, error) {
	if !sort.StringsAreSorted(features) {
		return nil, fmt.Errorf("%w: feature list is not sorted", errs.ErrInvalidFeatureSet)
	}
	for i, f := range features {
		if len(f) == 0 {
			return nil, fmt.Errorf("%w: empty feature at index %d", errs.ErrInvalidFeatureSet, i)
		}
		if i > 0 && f == features[i-1] {
			return nil, fmt.Errorf("%w: duplicate feature %q", errs.ErrInvalidFeatureSet, f)
		}
	}

	runes := make([][]rune, len(features))
	for i, f := range features {
		runes[i] = []rune(f)
	}

	d := &DoubleArray{
		base:   make([]int, 4),
		check:  make([]int, 4),
		value:  make([]int, 4),
		codeOf: make(map[rune]int),
	}
	nextCode := 1
	for _, rs := range runes {
		for _, r := range rs {
			if _, ok := d.codeOf[r]; !ok {
				d.codeOf[r] = nextCode
				nextCode++
			}
		}
	}

	d.grow(1)
	d.check[1] = -1 // root has no parent

	queue := []group{{nodeIndex: 1, prefixLen: 0, ids: allIndices(len(features))}}
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]
		d.expand(g, runes, &queue)
	}
	d.trim()
	return d, nil
}

// trim shrinks base/check/value down to the highest slot actually used by
// the build (root's parent marker or a child's check pointer), so N()
// reports the reference slot count rather than whatever power-of-two grow
// last landed on.
func (d *DoubleArray) trim() {
	last := 0
	for i := len(d.check) - 1; i >= 1; i-- {
		if d.check[i] != 0 {
			last = i
			break
		}
	}
	newLen := last + 1
	d.base = d.base[:newLen]
	d.check = d.check[:newLen]
	d.value = d.value[:newLen]
}

func allIndices(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// expand partitions the features in g by the next code point after
// g.prefixLen, assigns a base offset for g.nodeIndex that places every
// resulting child in a free slot, and enqueues each child group.
func (d *DoubleArray) expand(g group, runes [][]rune, queue *[]group) {
	// partition ids by code at position prefixLen; an id whose rune
	// slice is exactly prefixLen long is the exact-match / end marker.
	byCode := make(map[int][]int)
	for _, id := range g.ids {
		if len(runes[id]) == g.prefixLen {
			byCode[endCode] = append(byCode[endCode], id)
			continue
		}
		code := d.codeOf[runes[id][g.prefixLen]]
		byCode[code] = append(byCode[code], id)
	}

	codes := make([]int, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	sort.Ints(codes)

	// A node with a single exact-match id and no sibling codes is a
	// plain leaf: it is terminal directly, no base offset is needed.
	if len(codes) == 1 && codes[0] == endCode {
		id := byCode[endCode][0]
		d.base[g.nodeIndex] = -(id + 1)
		d.value[g.nodeIndex] = id
		return
	}

	base := d.chooseBase(codes)
	d.base[g.nodeIndex] = base
	for _, code := range codes {
		slot := base + code
		d.grow(slot)
		d.check[slot] = g.nodeIndex
		ids := byCode[code]
		if code == endCode {
			// endCode groups always carry exactly one id: the feature
			// that terminates at this node's prefix.
			id := ids[0]
			d.base[slot] = -(id + 1)
			d.value[slot] = id
			continue
		}
		*queue = append(*queue, group{nodeIndex: slot, prefixLen: g.prefixLen + 1, ids: ids})
	}
}

// chooseBase returns the smallest positive base such that base+code
// is a free, in-range slot for every code in codes.
func (d *DoubleArray) chooseBase(codes []int) int {
	for base := 1; ; base++ {
		ok := true
		seen := make(map[int]bool, len(codes))
		for _, code := range codes {
			slot := base + code
			if !d.free(slot) || seen[slot] {
				ok = false
				break
			}
			seen[slot] = true
		}
		if ok {
			return base
		}
	}
}

// terminal reports whether node idx represents the end of some feature,
// either directly (a leaf node) or via an end-of-string child, and
// returns that feature's id.
func (d *DoubleArray) terminal(idx int) (id int, ok bool) {
	if idx < 1 || idx >= len(d.base) {
		return 0, false
	}
	if d.base[idx] < 0 {
		return d.value[idx], true
	}
	slot := d.base[idx] + endCode
	if slot < 1 || slot >= len(d.check) {
		return 0, false
	}
	if d.check[slot] != idx {
		return 0, false
	}
	if d.base[slot] >= 0 {
		return 0, false
	}
	return d.value[slot], true
}

// step advances from node idx along code point r, returning the child
// node index and whether the transition exists.
func (d *DoubleArray) step(idx int, r rune) (int, bool) {
	if idx < 1 || idx >= len(d.base) || d.base[idx] < 0 {
		return 0, false
	}
	code, ok := d.codeOf[r]
	if !ok {
		return 0, false
	}
	slot := d.base[idx] + code
	if slot < 1 || slot >= len(d.check) || d.check[slot] != idx {
		return 0, false
	}
	return slot, true
}

// Get looks up s and reports its assigned id, or false if s is not in
// the feature set the trie was built from.
func (d *DoubleArray) Get(s string) (int, bool) {
	idx := 1
	for _, r := range s {
		next, ok := d.step(idx, r)
		if !ok {
			return 0, false
		}
		idx = next
	}
	return d.terminal(idx)
}
