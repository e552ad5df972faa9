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

package train

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuyo/ldig/model"
)

// toyCorpus builds a two-label ("cat"/"dog") toy corpus: feature 0
// ("cat") is diagnostic of label 0, feature 1 ("dog") of label 1, and
// feature 2 ("the") occurs in both and carries no signal.
func toyCorpus() []Example {
	var examples []Example
	for i := 0; i < 20; i++ {
		examples = append(examples, Example{Events: map[int]int{0: 1, 2: 1}, LabelIndex: 0})
		examples = append(examples, Example{Events: map[int]int{1: 1, 2: 1}, LabelIndex: 1})
	}
	return examples
}

func TestTrainEpochReachesFullAccuracyWithoutRegularization(t *testing.T) {
	params := model.NewParameters(3, 2)
	labels := model.NewLabels([]string{"cat-label", "dog-label"})
	trainer := New(params, labels, Conf{Eta: 0.5})

	examples := toyCorpus()
	rng := rand.New(rand.NewSource(1))

	var report EpochReport
	for epoch := 0; epoch < 30; epoch++ {
		report = trainer.TrainEpoch(examples, rng)
	}
	assert.Equal(t, 1.0, report.Accuracy)
}

func TestTrainEpochWithRegularizationShrinksRelevantFeatures(t *testing.T) {
	params := model.NewParameters(3, 2)
	labels := model.NewLabels([]string{"cat-label", "dog-label"})
	trainer := New(params, labels, Conf{Eta: 0.5, RegConstant: 5.0, FullRegPerEpoch: 2})

	examples := toyCorpus()
	rng := rand.New(rand.NewSource(1))

	prev := trainer.Params.Rows * trainer.Params.Cols // upper bound
	for epoch := 0; epoch < 5; epoch++ {
		report := trainer.TrainEpoch(examples, rng)
		assert.LessOrEqual(t, report.RelevantFeatures, prev)
		prev = report.RelevantFeatures
	}
}

func TestRegularizationDrivesUninformativeFeatureToExactZero(t *testing.T) {
	params := model.NewParameters(3, 2)
	labels := model.NewLabels([]string{"cat-label", "dog-label"})
	trainer := New(params, labels, Conf{Eta: 0.5, RegConstant: 50.0, FullRegPerEpoch: 2})

	examples := toyCorpus()
	rng := rand.New(rand.NewSource(2))
	trainer.TrainEpoch(examples, rng)

	// feature 2 ("the") carries no discriminative signal under a
	// heavy regularization constant and should be driven to exact
	// zero in at least one column.
	row := trainer.Params.Row(2)
	foundZero := false
	for _, w := range row {
		if w == 0 {
			foundZero = true
		}
	}
	assert.True(t, foundZero)
}

func TestBalancedShuffleUpsamplesMinorityLabel(t *testing.T) {
	examples := []Example{
		{LabelIndex: 0}, {LabelIndex: 0}, {LabelIndex: 0}, {LabelIndex: 0},
		{LabelIndex: 1},
	}
	rng := rand.New(rand.NewSource(3))
	order := BalancedShuffle(examples, rng)

	require.Len(t, order, 8) // 4 of label 0, upsampled 4x1 of label 1
	counts := map[int]int{}
	for _, idx := range order {
		counts[examples[idx].LabelIndex]++
	}
	assert.Equal(t, 4, counts[0])
	assert.Equal(t, 4, counts[1])
}
