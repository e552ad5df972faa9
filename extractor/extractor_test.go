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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeExtractor produces a tiny shell script honoring the
// "<input> <output>" contract, so Run can be exercised without a
// real maximum-substring binary.
func writeFakeExtractor(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-extractor.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestRunParsesExtractorOutput(t *testing.T) {
	bin := writeFakeExtractor(t, `printf 'cat\t5\ndog\t3\n' > "$2"
exit 0
`)
	inPath := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(inPath, []byte("irrelevant"), 0o644))

	counts, err := Run(context.Background(), bin, nil, inPath)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"cat": 5, "dog": 3}, counts)
}

func TestRunFailsOnNonZeroExit(t *testing.T) {
	bin := writeFakeExtractor(t, "exit 1\n")
	inPath := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(inPath, []byte("irrelevant"), 0o644))

	_, err := Run(context.Background(), bin, nil, inPath)
	assert.Error(t, err)
}

func TestRunRespectsContextDeadline(t *testing.T) {
	bin := writeFakeExtractor(t, "sleep 5\n")
	inPath := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(inPath, []byte("irrelevant"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Run(ctx, bin, nil, inPath)
	assert.Error(t, err)
}
