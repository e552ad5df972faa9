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

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuyo/ldig/errs"
)

func TestBuildSingleFeature(t *testing.T) {
	trie, err := Build([]string{"cat"})
	require.NoError(t, err)
	assert.Equal(t, 4, trie.N())

	_, ok := trie.Get("ca")
	assert.False(t, ok)
	_, ok = trie.Get("xxx")
	assert.False(t, ok)

	id, ok := trie.Get("cat")
	require.True(t, ok)
	assert.Equal(t, 0, id)
}

func TestBuildTwoFeatures(t *testing.T) {
	trie, err := Build([]string{"cat", "dog"})
	require.NoError(t, err)
	assert.Equal(t, 7, trie.N())

	_, ok := trie.Get("ca")
	assert.False(t, ok)

	id, ok := trie.Get("cat")
	require.True(t, ok)
	assert.Equal(t, 0, id)

	id, ok = trie.Get("dog")
	require.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestBuildSixFeatures(t *testing.T) {
	trie, err := Build([]string{"ca", "cat", "deer", "dog", "fox", "rat"})
	require.NoError(t, err)
	assert.Equal(t, 17, trie.N())

	_, ok := trie.Get("c")
	assert.False(t, ok)

	cases := map[string]int{"ca": 0, "cat": 1, "deer": 2, "dog": 3}
	for feature, wantID := range cases {
		id, ok := trie.Get(feature)
		require.True(t, ok, feature)
		assert.Equal(t, wantID, id, feature)
	}

	_, ok = trie.Get("xxx")
	assert.False(t, ok)
}

func TestBuildRejectsUnsortedFeatures(t *testing.T) {
	_, err := Build([]string{"cat", "ant"})
	assert.ErrorIs(t, err, errs.ErrInvalidFeatureSet)
}

func TestBuildRejectsDuplicateFeatures(t *testing.T) {
	_, err := Build([]string{"ant", "ant", "cat"})
	assert.ErrorIs(t, err, errs.ErrInvalidFeatureSet)
}

func TestExtract(t *testing.T) {
	trie, err := Build([]string{"ca", "cat", "deer", "dog", "fox", "rat"})
	require.NoError(t, err)

	assert.Empty(t, trie.Extract(""))
	assert.Equal(t, map[int]int{0: 1, 1: 1}, trie.Extract("cat"))
	assert.Equal(t, map[int]int{2: 1, 5: 1}, trie.Extract("deerat"))
}

func TestBuildIsDeterministic(t *testing.T) {
	features := []string{"ca", "cat", "deer", "dog", "fox", "rat"}
	first, err := Build(features)
	require.NoError(t, err)
	second, err := Build(features)
	require.NoError(t, err)

	assert.Equal(t, first.base, second.base)
	assert.Equal(t, first.check, second.check)
	assert.Equal(t, first.value, second.value)
}

func TestRoundTripThroughContainer(t *testing.T) {
	trie, err := Build([]string{"ca", "cat", "deer", "dog", "fox", "rat"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = trie.WriteTo(&buf)
	require.NoError(t, err)

	loaded, err := Load(&buf)
	require.NoError(t, err)

	for feature, wantID := range map[string]int{"ca": 0, "cat": 1, "deer": 2, "dog": 3, "fox": 4, "rat": 5} {
		id, ok := loaded.Get(feature)
		require.True(t, ok, feature)
		assert.Equal(t, wantID, id, feature)
	}
}
