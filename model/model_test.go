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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuyo/ldig/errs"
)

func TestFeaturesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features")
	want := []FeatureCount{{"ca", 10}, {"cat", 9}, {"dog", 8}}

	require.NoError(t, WriteFeatures(path, want))
	got, err := LoadFeatures(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadFeaturesRejectsOutOfOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features")
	require.NoError(t, WriteFeatures(path, []FeatureCount{{"b", 1}}))
	require.NoError(t, appendLine(path, "a\t1\n"))

	_, err := LoadFeatures(path)
	assert.Error(t, err)
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}

func TestLabelsIndexAndUnknown(t *testing.T) {
	l := NewLabels([]string{"en", "cs", "en"})
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, []string{"cs", "en"}, l.Names())

	idx, err := l.Index("en")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = l.Index("xx")
	assert.ErrorIs(t, err, errs.ErrUnknownLabel)
}

func TestLabelsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels")
	want := NewLabels([]string{"en", "cs", "de"})

	require.NoError(t, WriteLabels(path, want))
	got, err := LoadLabels(path)
	require.NoError(t, err)
	assert.Equal(t, want.Names(), got.Names())
}

func TestParametersRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parameters")

	p := NewParameters(3, 2)
	p.Set(0, 0, 1.5)
	p.Set(1, 1, -2.25)
	p.Set(2, 0, 0.001)

	require.NoError(t, p.WriteFile(path))
	loaded, err := LoadParameters(path)
	require.NoError(t, err)

	assert.Equal(t, p.Rows, loaded.Rows)
	assert.Equal(t, p.Cols, loaded.Cols)
	assert.Equal(t, p.Data, loaded.Data)
}

func TestModelSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := &Model{
		Features:   []FeatureCount{{"ca", 10}, {"cat", 9}, {"dog", 8}},
		Labels:     NewLabels([]string{"en", "cs"}),
		Parameters: NewParameters(3, 2),
	}
	m.Parameters.Set(1, 0, 0.5)

	require.NoError(t, m.Save(dir))
	loaded, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, m.Features, loaded.Features)
	assert.Equal(t, m.Labels.Names(), loaded.Labels.Names())
	assert.Equal(t, m.Parameters.Data, loaded.Parameters.Data)

	id, ok := loaded.DA.Get("cat")
	require.True(t, ok)
	assert.Equal(t, 1, id)
}
