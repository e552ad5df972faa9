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

package normalize

import "regexp"

var (
	reURLMentionHashtag = regexp.MustCompile(`(@|#|https?://)\S+`)
	reFacemark          = regexp.MustCompile(`(^| )[:;][()DOPop]($| )`)
	reRetweetMarker     = regexp.MustCompile(`(^| )RT[ :]`)
	reTrailingVia       = regexp.MustCompile(` via *$`)
)

// stripTwitterArtifacts removes URLs, @mentions, #hashtags, ASCII
// facemarks, RT markers at the start or after a space, repeated "laugh"
// units (e.g. "hahaha")
// and a trailing "via" attribution, the way short social-media text
// commonly needs scrubbing before it can be treated as running prose.
func stripTwitterArtifacts(s string) string {
	s = reURLMentionHashtag.ReplaceAllString(s, "")
	s = reFacemark.ReplaceAllString(s, " ")
	// RT markers can sit back-to-back ("RT RT RT ..."); each pass can
	// only remove every other one because consecutive matches share the
	// separating space, so repeat until a pass leaves the text unchanged.
	for {
		next := reRetweetMarker.ReplaceAllString(s, " ")
		if next == s {
			break
		}
		s = next
	}
	s = string(collapseLaughs([]rune(s)))
	s = reTrailingVia.ReplaceAllString(s, "")
	return s
}

// isLaughFirst and isLaughSecond define the two-rune "laugh" unit
// recognized by collapseLaughs: a consonant from {h, j} followed by a
// vowel-like letter (e.g. "haha", "jeje").
func isLaughFirst(r rune) bool {
	switch r {
	case 'h', 'H', 'j', 'J':
		return true
	}
	return false
}

func isLaughSecond(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'A', 'E', 'I', 'O':
		return true
	}
	return false
}

// collapseLaughs finds a "laugh" that starts with a consonant-vowel
// pair such as "ha" or "je" and continues with two or more groups of
// that consonant followed by that vowel, where each group may repeat
// either letter ("haha", "hahha", "hahaaa"). The whole run, up to its
// last vowel, becomes exactly two repetitions of the pair; surrounding
// text is left untouched.
func collapseLaughs(runes []rune) []rune {
	out := make([]rune, 0, len(runes))
	i := 0
	for i < len(runes) {
		if i+1 < len(runes) && isLaughFirst(runes[i]) && isLaughSecond(runes[i+1]) {
			unit := [2]rune{runes[i], runes[i+1]}
			reps, j := 0, i+1
			for k := i + 1; k < len(runes) && (runes[k] == unit[0] || runes[k] == unit[1]); k++ {
				if runes[k] == unit[1] && runes[k-1] == unit[0] {
					reps++
				}
				if runes[k] == unit[1] {
					j = k + 1
				}
			}
			if reps >= 2 {
				out = append(out, unit[0], unit[1], unit[0], unit[1])
				i = j
				continue
			}
		}
		out = append(out, runes[i])
		i++
	}
	return out
}
