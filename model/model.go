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
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/shuyo/ldig/datrie"
)

const (
	featuresFile    = "features"
	labelsFile      = "labels"
	parametersFile  = "parameters"
	doubleArrayFile = "doublearray"
)

// Model is the full in-memory state loaded from a model directory:
// the feature table, the label table, the parameter matrix, and the
// double-array trie built over the feature set.
type Model struct {
	Features   []FeatureCount
	Labels     Labels
	Parameters *Parameters
	DA         *datrie.DoubleArray
}

// Load reads every file of a model directory. The double-array
// container is trusted if present; otherwise it is rebuilt from the
// feature list so a hand-edited features file still loads.
func Load(dir string) (*Model, error) {
	features, err := LoadFeatures(filepath.Join(dir, featuresFile))
	if err != nil {
		return nil, err
	}
	labels, err := LoadLabels(filepath.Join(dir, labelsFile))
	if err != nil {
		return nil, err
	}
	params, err := LoadParameters(filepath.Join(dir, parametersFile))
	if err != nil {
		return nil, err
	}
	if params.Rows != len(features) {
		return nil, fmt.Errorf("parameters file has %d rows but features file has %d entries", params.Rows, len(features))
	}
	if params.Cols != labels.Len() {
		return nil, fmt.Errorf("parameters file has %d columns but labels file has %d entries", params.Cols, labels.Len())
	}

	da, err := datrie.LoadFile(filepath.Join(dir, doubleArrayFile))
	if err != nil {
		log.Warn().Err(err).Msg("failed to load double-array container, rebuilding from features")
		da, err = datrie.Build(Strings(features))
		if err != nil {
			return nil, fmt.Errorf("failed to rebuild double-array: %w", err)
		}
	}

	return &Model{Features: features, Labels: labels, Parameters: params, DA: da}, nil
}

// Save writes every file of a model directory, including a freshly
// built double-array container consistent with Features.
func (m *Model) Save(dir string) error {
	if err := WriteFeatures(filepath.Join(dir, featuresFile), m.Features); err != nil {
		return err
	}
	if err := WriteLabels(filepath.Join(dir, labelsFile), m.Labels); err != nil {
		return err
	}
	if err := m.Parameters.WriteFile(filepath.Join(dir, parametersFile)); err != nil {
		return err
	}
	da, err := datrie.Build(Strings(m.Features))
	if err != nil {
		return fmt.Errorf("failed to build double-array for save: %w", err)
	}
	m.DA = da
	if err := da.WriteFile(filepath.Join(dir, doubleArrayFile)); err != nil {
		return err
	}
	return nil
}
