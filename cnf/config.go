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

// Package cnf holds the run configuration tunables of this program,
// their defaults, and JSON side-file load/dump helpers.
package cnf

import (
	"os"

	"github.com/bytedance/sonic"

	"github.com/shuyo/ldig/stage"
)

// Default tunables, used whenever a flag is left at its zero value.
const (
	DfltLowerBoundFreq   = 8
	DfltNgramBound       = 0 // 0 means "no bound"
	DfltEta              = 0.1
	DfltFullRegPerEpoch  = 2
	DfltConfidence       = 0.6
	DfltExtractorTimeout = 300 // seconds
)

// InitConf configures an --init run.
type InitConf struct {
	LowerBoundFreq int        `json:"lowerBoundFreq"`
	NgramBound     int        `json:"ngramBound"`
	ExtractorPath  string     `json:"extractorPath"`
	ExtractorArgs  []string   `json:"extractorArgs"`
	Stage          stage.Conf `json:"stage"`
}

// LearningConf configures a --learning run.
type LearningConf struct {
	Eta             float64 `json:"eta"`
	RegConstant     float64 `json:"regConstant"`
	FullRegPerEpoch int     `json:"fullRegPerEpoch"`
}

// Conf is the top-level configuration, grouping the tunables of every
// subcommand. It can be read from a JSON side-file with LoadConf and
// rendered with Dump. The subcommands in main take their settings from
// their own flags; they do not read a side-file or build a Conf.
type Conf struct {
	ModelDir          string       `json:"modelDir"`
	Confidence        float64      `json:"confidence"`
	ExtractorTimeoutS int          `json:"extractorTimeoutSeconds"`
	Verbosity         int          `json:"verbosity"`
	Init              InitConf     `json:"init"`
	Learning          LearningConf `json:"learning"`
}

// WithDefaults returns a copy of c with every zero-valued tunable
// replaced by its documented default.
func (c Conf) WithDefaults() Conf {
	if c.Confidence == 0 {
		c.Confidence = DfltConfidence
	}
	if c.ExtractorTimeoutS == 0 {
		c.ExtractorTimeoutS = DfltExtractorTimeout
	}
	if c.Init.LowerBoundFreq == 0 {
		c.Init.LowerBoundFreq = DfltLowerBoundFreq
	}
	if c.Learning.Eta == 0 {
		c.Learning.Eta = DfltEta
	}
	if c.Learning.FullRegPerEpoch == 0 {
		c.Learning.FullRegPerEpoch = DfltFullRegPerEpoch
	}
	return c
}

// LoadConf reads a JSON side-file into a Conf, the way cnf.LoadConf
// once loaded a VTEConf, using sonic in place of encoding/json.
func LoadConf(confPath string) (*Conf, error) {
	rawData, err := os.ReadFile(confPath)
	if err != nil {
		return nil, err
	}
	var conf Conf
	if err := sonic.Unmarshal(rawData, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Dump renders conf as an indented JSON document, used by the
// dump-conf subcommand to produce a sample side-file.
func Dump(conf Conf) ([]byte, error) {
	return sonic.MarshalIndent(conf, "", "  ")
}
