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

package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateMap(cands []Candidate) map[string]int64 {
	ans := make(map[string]int64, len(cands))
	for _, c := range cands {
		ans[c.Substring] = c.Count
	}
	return ans
}

func TestSqliteStageAccumulatesAcrossCalls(t *testing.T) {
	s, err := Open(Conf{Type: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Accumulate(map[string]int64{"the": 3, "cat": 2}))
	require.NoError(t, s.Accumulate(map[string]int64{"the": 4, "dog": 1}))

	cands, err := s.Candidates()
	require.NoError(t, err)

	got := candidateMap(cands)
	assert.Equal(t, int64(7), got["the"])
	assert.Equal(t, int64(2), got["cat"])
	assert.Equal(t, int64(1), got["dog"])
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(Conf{Type: "postgres"})
	assert.Error(t, err)
}

func TestOpenMysqlRequiresDSN(t *testing.T) {
	_, err := Open(Conf{Type: "mysql"})
	assert.Error(t, err)
}
