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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineStripsRepeatedRetweetMarkers(t *testing.T) {
	r := Line("RT RT RT RT RT I'm a Superwoman")
	assert.Equal(t, "I'm a superwoman", r.Normalized)
}

func TestLineCollapsesRepeatedLaughter(t *testing.T) {
	cases := map[string]string{
		"ahahahah":               "ahahah",
		"hahha":                  "haha",
		"ahahahahhahahhahahaaaa": "ahaha",
	}
	for input, want := range cases {
		assert.Equal(t, want, Line(input).Normalized, input)
	}
}

func TestLineTurkishSafeLowering(t *testing.T) {
	cases := map[string]string{
		"I":  "I",
		"İ":  "i",
		"Iı": "Iı",
		"Iİ": "Ii",
	}
	for input, want := range cases {
		assert.Equal(t, want, Line(input).Normalized, input)
	}
}

func TestLineStripsLabelPrefix(t *testing.T) {
	r := Line("en\tHello world")
	assert.Equal(t, "en", r.Label)
	assert.Equal(t, "hello world", r.Normalized)
	assert.Equal(t, "en\tHello world", r.Original)
}

func TestLineWithoutLabelPrefixHasEmptyLabel(t *testing.T) {
	r := Line("Hello world")
	assert.Equal(t, "", r.Label)
	assert.Equal(t, "hello world", r.Normalized)
}

func TestLineIsIdempotent(t *testing.T) {
	inputs := []string{
		"RT RT RT RT RT I'm a Superwoman",
		"ahahahahhahahhahahaaaa",
		"en\tHello    world!! via ",
		"Nguyẽ̃n Vàn An",
	}
	for _, in := range inputs {
		once := Line(in).Normalized
		twice := Line(once).Normalized
		assert.Equal(t, once, twice, in)
	}
}

func TestLineComposesVietnamese(t *testing.T) {
	r := Line("Hò Chí Minh")
	assert.Equal(t, "hò chí minh", r.Normalized)
}

func TestLineFoldsDigitsAndDashes(t *testing.T) {
	r := Line("room ‒ 101 costs 42 dollars")
	assert.Equal(t, "room - 0 costs 0 dollars", r.Normalized)
}

func TestLineDecodesHTMLEntities(t *testing.T) {
	r := Line("Tom &amp; Jerry")
	assert.Equal(t, "tom & jerry", r.Normalized)
}
