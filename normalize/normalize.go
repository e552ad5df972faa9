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

// Package normalize turns a raw corpus line into the canonical form the
// feature extractor and scorer operate on: a label, a normalized text,
// and the original text as read.
package normalize

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

// Result is the outcome of normalizing one corpus line.
type Result struct {
	Label      string
	Normalized string
	Original   string
}

var (
	reLabelPrefix  = regexp.MustCompile(`^([-A-Za-z]+)\t(.*)$`)
	reDashes       = regexp.MustCompile(`[\x{2010}-\x{2015}]`)
	reDigitRun     = regexp.MustCompile(`[0-9]+`)
	reOutOfRange   = regexp.MustCompile(`[^\x{0020}-\x{007e}\x{00a1}-\x{024f}\x{0300}-\x{036f}\x{1e00}-\x{1eff}]+`)
	reMultiSpace   = regexp.MustCompile(` {2,}`)
)

// Line normalizes a single raw corpus line. If the line begins with a
// "<label>\t" prefix whose label matches [-A-Za-z]+, that prefix is
// stripped and returned as Label; otherwise Label is empty.
func Line(raw string) Result {
	original := raw
	label := ""
	body := raw
	if m := reLabelPrefix.FindStringSubmatch(raw); m != nil {
		label = m[1]
		body = m[2]
	}

	s := html.UnescapeString(body)
	s = reDashes.ReplaceAllString(s, "-")
	s = reDigitRun.ReplaceAllString(s, "0")
	s = reOutOfRange.ReplaceAllString(s, " ")
	s = strings.TrimSpace(reMultiSpace.ReplaceAllString(s, " "))

	s = stripTwitterArtifacts(s)
	s = strings.TrimSpace(reMultiSpace.ReplaceAllString(s, " "))

	runes := []rune(s)
	runes = composeVietnamese(runes)
	runes = lowerTurkishSafe(runes)
	runes = foldRomanianLike(runes)
	runes = collapseRepeats(runes)

	return Result{Label: label, Normalized: string(runes), Original: original}
}

// lowerTurkishSafe lowercases every rune except the ASCII capital 'I',
// which in Turkish does not lowercase to 'i' (that pairing is owned by
// the dotted İ/i pair). Leaving 'I' untouched keeps the downstream
// feature set shared with ASCII-centric corpora undistorted by a
// language-specific lowering rule that would otherwise apply globally.
func lowerTurkishSafe(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		if r == 'I' {
			out[i] = r
			continue
		}
		out[i] = unicode.ToLower(r)
	}
	return out
}

// foldRomanianLike maps the comma-below forms of s and t, frequently
// confused with their cedilla forms in legacy encodings, onto the
// cedilla forms used by the rest of the feature set.
func foldRomanianLike(runes []rune) []rune {
	for i, r := range runes {
		switch r {
		case 'ș':
			runes[i] = 'ş'
		case 'ț':
			runes[i] = 'ţ'
		}
	}
	return runes
}

// isLatinCont reports whether r is one of the lowercase Latin letters
// (ASCII a-z or Latin-1 Supplement à-ÿ) that runs of three or
// more collapse to two instead of one, mirroring re_latin_cont.
func isLatinCont(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'à' && r <= 'ÿ')
}

// collapseRepeats collapses runs of identical consecutive runes: a run
// of three or more lowercase Latin letters (re_latin_cont) reduces to
// two, preserving doubled letters like "coffee"; a run of two or more
// of anything else (re_symbol_cont) reduces to one.
func collapseRepeats(runes []rune) []rune {
	out := make([]rune, 0, len(runes))
	i := 0
	for i < len(runes) {
		j := i
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		n := j - i
		if isLatinCont(runes[i]) {
			if n > 2 {
				n = 2
			}
		} else {
			n = 1
		}
		for k := 0; k < n; k++ {
			out = append(out, runes[i])
		}
		i = j
	}
	return out
}
