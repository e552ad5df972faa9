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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmitRejectsBelowFrequency(t *testing.T) {
	conf := AdmissionConf{LowerBoundFreq: 8}
	assert.False(t, Admit(conf, "cat", 7))
	assert.True(t, Admit(conf, "cat", 8))
}

func TestAdmitRejectsOverLongNgram(t *testing.T) {
	conf := AdmissionConf{LowerBoundFreq: 1, NgramBound: 3}
	assert.True(t, Admit(conf, "cat", 1))
	assert.False(t, Admit(conf, "caterpillar", 1))
}

func TestAdmitSentinelPlacement(t *testing.T) {
	conf := AdmissionConf{LowerBoundFreq: 1}
	assert.True(t, Admit(conf, "\x01cat", 1))
	assert.True(t, Admit(conf, "cat\x01", 1))
	assert.False(t, Admit(conf, "\x01cat\x01", 1))
	assert.False(t, Admit(conf, "ca\x01t", 1))
}

func TestAdmitRequiresLatinish(t *testing.T) {
	conf := AdmissionConf{LowerBoundFreq: 1}
	assert.False(t, Admit(conf, "日本語", 1))
	assert.True(t, Admit(conf, "日本語a", 1))
	assert.True(t, Admit(conf, "café", 1))
}

func TestFilterCandidatesSortsOutput(t *testing.T) {
	conf := AdmissionConf{LowerBoundFreq: 1}
	got := FilterCandidates(conf, map[string]int64{"dog": 2, "cat": 3, "日本": 1})
	assert.Equal(t, []AdmittedFeature{{"cat", 3}, {"dog", 2}}, got)
}
