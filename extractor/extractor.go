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

// Package extractor drives the external maximum-substring extractor
// binary and applies the feature admission filter to its output.
package extractor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/shuyo/ldig/errs"
)

// Run invokes the extractor binary against inputPath, writing to a
// scratch output file, and returns the raw (substring, count) counts
// it reported. The extractor contract is a child process taking
// "<input> <output>" and writing "<substring>\t<count>\n" lines on
// success, signalled by exit code 0.
func Run(ctx context.Context, binPath string, extraArgs []string, inputPath string) (map[string]int64, error) {
	outFile, err := os.CreateTemp("", "ldig-extract-*.out")
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor output file: %w", err)
	}
	outPath := outFile.Name()
	outFile.Close()
	defer os.Remove(outPath)

	args := append(append([]string{}, extraArgs...), inputPath, outPath)
	cmd := exec.CommandContext(ctx, binPath, args...)
	cmd.Stderr = os.Stderr

	log.Debug().Str("bin", binPath).Strs("args", args).Msg("running max-substring extractor")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrExtractorFailed, err)
	}

	counts, err := readOutput(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrExtractorFailed, err)
	}
	return counts, nil
}

func readOutput(path string) (map[string]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extractor produced no output: %w", err)
	}
	defer f.Close()

	counts := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed extractor output line %q", line)
		}
		n, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed extractor output count in line %q", line)
		}
		counts[parts[0]] += n
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read extractor output: %w", err)
	}
	return counts, nil
}
