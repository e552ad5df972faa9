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

package extractor

import "sort"

const sentinel = ''

// AdmissionConf configures the feature admission filter applied to
// candidate-stage output before a substring becomes a trained
// feature.
type AdmissionConf struct {
	// LowerBoundFreq is the minimum accumulated count a substring
	// must reach across every extractor run to be admitted.
	LowerBoundFreq int
	// NgramBound caps a substring's length in code points; 0 means
	// unbounded.
	NgramBound int
}

// Admit reports whether substring s with accumulated count c passes
// every part of the admission predicate.
func Admit(conf AdmissionConf, s string, c int) bool {
	if c < conf.LowerBoundFreq {
		return false
	}
	runes := []rune(s)
	if conf.NgramBound > 0 && len(runes) > conf.NgramBound {
		return false
	}
	if !validSentinelPlacement(runes) {
		return false
	}
	if !hasLatinish(runes) {
		return false
	}
	return true
}

// validSentinelPlacement rejects a substring where the sentinel
// U+0001 appears anywhere other than the first or last position, or
// where both endpoints are sentinels.
func validSentinelPlacement(runes []rune) bool {
	if len(runes) == 0 {
		return true
	}
	if runes[0] == sentinel && runes[len(runes)-1] == sentinel {
		return false
	}
	for i := 1; i < len(runes)-1; i++ {
		if runes[i] == sentinel {
			return false
		}
	}
	return true
}

// hasLatinish reports whether runes contains at least one code point
// in the Latin-ish ranges the admission filter requires.
func hasLatinish(runes []rune) bool {
	for _, r := range runes {
		if isLatinish(r) {
			return true
		}
	}
	return false
}

func isLatinish(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r >= '¡' && r <= '£':
		return true
	case r >= '¿' && r <= 'ɏ':
		return true
	case r >= 'Ḁ' && r <= 'ỿ':
		return true
	}
	return false
}

// FilterCandidates applies Admit to every candidate and returns the
// admitted (substring, count) pairs, sorted lexicographically for
// direct use as a features file.
func FilterCandidates(conf AdmissionConf, candidates map[string]int64) []AdmittedFeature {
	var ans []AdmittedFeature
	for s, c := range candidates {
		if Admit(conf, s, int(c)) {
			ans = append(ans, AdmittedFeature{Feature: s, Freq: int(c)})
		}
	}
	sortAdmitted(ans)
	return ans
}

// AdmittedFeature is a substring that survived the admission filter.
type AdmittedFeature struct {
	Feature string
	Freq    int
}

func sortAdmitted(fs []AdmittedFeature) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].Feature < fs[j].Feature })
}
