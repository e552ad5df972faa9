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

// vietnameseBases are the Latin letters (and Latin-Extended
// circumflex/breve/horn forms) that combine with the five Vietnamese
// tone marks below into a single precomposed code point.
var vietnameseBases = []rune{
	'A', 'E', 'I', 'O', 'U', 'Y', 'a', 'e', 'i', 'o', 'u', 'y',
	'Â', 'Ê', 'Ô', 'â', 'ê', 'ô',
	'Ă', 'ă', 'Ơ', 'ơ', 'Ư', 'ư',
}

// combiningMarks are the five Vietnamese tone diacritics recognized in
// decomposed (base letter + combining mark) form: grave, acute, tilde,
// hook above, dot below.
var combiningMarks = []rune{'̀', '́', '̃', '̉', '̣'}

// vietnameseCompose maps "<base><combining mark>" two-rune sequences to
// their single precomposed code point, covering every combination that
// occurs in Vietnamese orthography.
var vietnameseCompose = map[[2]rune]rune{
	{'A', '̀'}: 'À', {'E', '̀'}: 'È', {'I', '̀'}: 'Ì', {'O', '̀'}: 'Ò',
	{'U', '̀'}: 'Ù', {'Y', '̀'}: 'Ỳ', {'a', '̀'}: 'à', {'e', '̀'}: 'è',
	{'i', '̀'}: 'ì', {'o', '̀'}: 'ò', {'u', '̀'}: 'ù', {'y', '̀'}: 'ỳ',
	{'Â', '̀'}: 'Ầ', {'Ê', '̀'}: 'Ề', {'Ô', '̀'}: 'Ồ', {'â', '̀'}: 'ầ',
	{'ê', '̀'}: 'ề', {'ô', '̀'}: 'ồ', {'Ă', '̀'}: 'Ằ', {'ă', '̀'}: 'ằ',
	{'Ơ', '̀'}: 'Ờ', {'ơ', '̀'}: 'ờ', {'Ư', '̀'}: 'Ừ', {'ư', '̀'}: 'ừ',

	{'A', '́'}: 'Á', {'E', '́'}: 'É', {'I', '́'}: 'Í', {'O', '́'}: 'Ó',
	{'U', '́'}: 'Ú', {'Y', '́'}: 'Ý', {'a', '́'}: 'á', {'e', '́'}: 'é',
	{'i', '́'}: 'í', {'o', '́'}: 'ó', {'u', '́'}: 'ú', {'y', '́'}: 'ý',
	{'Â', '́'}: 'Ấ', {'Ê', '́'}: 'Ế', {'Ô', '́'}: 'Ố', {'â', '́'}: 'ấ',
	{'ê', '́'}: 'ế', {'ô', '́'}: 'ố', {'Ă', '́'}: 'Ắ', {'ă', '́'}: 'ắ',
	{'Ơ', '́'}: 'Ớ', {'ơ', '́'}: 'ớ', {'Ư', '́'}: 'Ứ', {'ư', '́'}: 'ứ',

	{'A', '̃'}: 'Ã', {'E', '̃'}: 'Ẽ', {'I', '̃'}: 'Ĩ', {'O', '̃'}: 'Õ',
	{'U', '̃'}: 'Ũ', {'Y', '̃'}: 'Ỹ', {'a', '̃'}: 'ã', {'e', '̃'}: 'ẽ',
	{'i', '̃'}: 'ĩ', {'o', '̃'}: 'õ', {'u', '̃'}: 'ũ', {'y', '̃'}: 'ỹ',
	{'Â', '̃'}: 'Ẫ', {'Ê', '̃'}: 'Ễ', {'Ô', '̃'}: 'Ỗ', {'â', '̃'}: 'ẫ',
	{'ê', '̃'}: 'ễ', {'ô', '̃'}: 'ỗ', {'Ă', '̃'}: 'Ẵ', {'ă', '̃'}: 'ẵ',
	{'Ơ', '̃'}: 'Ỡ', {'ơ', '̃'}: 'ỡ', {'Ư', '̃'}: 'Ữ', {'ư', '̃'}: 'ữ',

	{'A', '̉'}: 'Ả', {'E', '̉'}: 'Ẻ', {'I', '̉'}: 'Ỉ', {'O', '̉'}: 'Ỏ',
	{'U', '̉'}: 'Ủ', {'Y', '̉'}: 'Ỷ', {'a', '̉'}: 'ả', {'e', '̉'}: 'ẻ',
	{'i', '̉'}: 'ỉ', {'o', '̉'}: 'ỏ', {'u', '̉'}: 'ủ', {'y', '̉'}: 'ỷ',
	{'Â', '̉'}: 'Ẩ', {'Ê', '̉'}: 'Ể', {'Ô', '̉'}: 'Ổ', {'â', '̉'}: 'ẩ',
	{'ê', '̉'}: 'ể', {'ô', '̉'}: 'ổ', {'Ă', '̉'}: 'Ẳ', {'ă', '̉'}: 'ẳ',
	{'Ơ', '̉'}: 'Ở', {'ơ', '̉'}: 'ở', {'Ư', '̉'}: 'Ử', {'ư', '̉'}: 'ử',

	{'A', '̣'}: 'Ạ', {'E', '̣'}: 'Ẹ', {'I', '̣'}: 'Ị', {'O', '̣'}: 'Ọ',
	{'U', '̣'}: 'Ụ', {'Y', '̣'}: 'Ỵ', {'a', '̣'}: 'ạ', {'e', '̣'}: 'ẹ',
	{'i', '̣'}: 'ị', {'o', '̣'}: 'ọ', {'u', '̣'}: 'ụ', {'y', '̣'}: 'ỵ',
	{'Â', '̣'}: 'Ậ', {'Ê', '̣'}: 'Ệ', {'Ô', '̣'}: 'Ộ', {'â', '̣'}: 'ậ',
	{'ê', '̣'}: 'ệ', {'ô', '̣'}: 'ộ', {'Ă', '̣'}: 'Ặ', {'ă', '̣'}: 'ặ',
	{'Ơ', '̣'}: 'Ợ', {'ơ', '̣'}: 'ợ', {'Ư', '̣'}: 'Ự', {'ư', '̣'}: 'ự',
}

func isVietnameseBase(r rune) bool {
	for _, b := range vietnameseBases {
		if b == r {
			return true
		}
	}
	return false
}

func isCombiningMark(r rune) bool {
	for _, m := range combiningMarks {
		if m == r {
			return true
		}
	}
	return false
}

// composeVietnamese rewrites every base-letter-plus-combining-mark pair
// in runes into its precomposed equivalent.
func composeVietnamese(runes []rune) []rune {
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) && isVietnameseBase(runes[i]) && isCombiningMark(runes[i+1]) {
			if composed, ok := vietnameseCompose[[2]rune{runes[i], runes[i+1]}]; ok {
				out = append(out, composed)
				i++
				continue
			}
		}
		out = append(out, runes[i])
	}
	return out
}
