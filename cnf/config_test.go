// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University, Faculty of Arts,
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

package cnf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaultsFillsZeroValues(t *testing.T) {
	conf := Conf{}.WithDefaults()
	assert.Equal(t, DfltConfidence, conf.Confidence)
	assert.Equal(t, DfltExtractorTimeout, conf.ExtractorTimeoutS)
	assert.Equal(t, DfltLowerBoundFreq, conf.Init.LowerBoundFreq)
	assert.Equal(t, DfltEta, conf.Learning.Eta)
	assert.Equal(t, DfltFullRegPerEpoch, conf.Learning.FullRegPerEpoch)
}

func TestWithDefaultsPreservesExplicitValues(t *testing.T) {
	conf := Conf{Confidence: 0.9, Init: InitConf{LowerBoundFreq: 3}}.WithDefaults()
	assert.Equal(t, 0.9, conf.Confidence)
	assert.Equal(t, 3, conf.Init.LowerBoundFreq)
}

func TestLoadConfRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")

	raw, err := Dump(Conf{ModelDir: "/tmp/model", Confidence: 0.7})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	loaded, err := LoadConf(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/model", loaded.ModelDir)
	assert.Equal(t, 0.7, loaded.Confidence)
}

func TestLoadConfMissingFile(t *testing.T) {
	_, err := LoadConf("/nonexistent/conf.json")
	assert.Error(t, err)
}
