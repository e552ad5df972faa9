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

// Package shrink compacts a trained model by dropping features whose
// parameter row is numerically zero and rebuilding the double-array
// over the surviving feature set.
package shrink

import (
	"fmt"
	"math"

	"github.com/shuyo/ldig/datrie"
	"github.com/shuyo/ldig/model"
)

// sparsityFloor mirrors train.sparsityFloor: a row whose L1 norm does
// not exceed it contributes nothing and is dropped.
const sparsityFloor = 1e-7

// Report summarizes one shrink pass.
type Report struct {
	KeptFeatures    int
	DroppedFeatures int
}

// Shrink compacts m in place: the feature list, parameter matrix and
// double-array are all replaced by their compacted equivalents. No
// external feature id survives a shrink; the parameter matrix and the
// rebuilt double-array are the only remaining authorities on feature
// identity.
func Shrink(m *model.Model) (Report, error) {
	originalRows := m.Parameters.Rows
	keep := make([]bool, originalRows)
	kept := 0
	for id := 0; id < originalRows; id++ {
		var sum float64
		for _, w := range m.Parameters.Row(id) {
			sum += math.Abs(w)
		}
		if sum > sparsityFloor {
			keep[id] = true
			kept++
		}
	}

	newFeatures := make([]model.FeatureCount, 0, kept)
	newParams := model.NewParameters(kept, m.Parameters.Cols)
	row := 0
	for id := 0; id < originalRows; id++ {
		if !keep[id] {
			continue
		}
		newFeatures = append(newFeatures, m.Features[id])
		copy(newParams.Row(row), m.Parameters.Row(id))
		row++
	}

	da, err := datrie.Build(model.Strings(newFeatures))
	if err != nil {
		return Report{}, fmt.Errorf("failed to rebuild double-array after shrink: %w", err)
	}

	m.Features = newFeatures
	m.Parameters = newParams
	m.DA = da

	return Report{KeptFeatures: kept, DroppedFeatures: originalRows - kept}, nil
}
