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

// Package train implements online multiclass logistic regression by
// SGD over a corpus of extracted feature events, with an optional
// cumulative L1 (lazy) regularization schedule.
package train

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/shuyo/ldig/model"
	"github.com/shuyo/ldig/score"
)

// sparsityFloor is the magnitude below which a weight is considered
// zero for relevant-feature counting and shrink eligibility.
const sparsityFloor = 1e-7

// Conf configures one training run.
type Conf struct {
	// Eta is the base learning rate.
	Eta float64
	// RegConstant, when > 0, turns on cumulative L1 regularization.
	RegConstant float64
	// FullRegPerEpoch is how many full-sweep regularization passes
	// (over every feature, not just the ones touched by the current
	// example) to run per epoch. Defaults to 2 when 0.
	FullRegPerEpoch int
}

// Example is one training instance: the feature-id -> count multiset
// produced by the extractor, and the index of its true label.
type Example struct {
	Events     map[int]int
	LabelIndex int
}

// EpochReport summarizes one pass over a shuffled corpus.
type EpochReport struct {
	CorrectByLabel   []int
	TotalByLabel     []int
	Correct          int
	Total            int
	RelevantFeatures int
	Accuracy         float64
}

// Trainer mutates a parameter matrix in place via SGD.
type Trainer struct {
	Params    *model.Parameters
	Labels    model.Labels
	penalties []float64
	conf      Conf
}

// New creates a Trainer over params, allocating the penalty memory
// matrix lazily (it is only needed when regularization is enabled).
func New(params *model.Parameters, labels model.Labels, conf Conf) *Trainer {
	if conf.FullRegPerEpoch <= 0 {
		conf.FullRegPerEpoch = 2
	}
	return &Trainer{Params: params, Labels: labels, conf: conf}
}

// BalancedShuffle upsamples every label's example indices to the
// largest label count by integer replication plus a shuffled partial
// draw of the remainder, then shuffles the concatenation. This gives
// each label near-uniform presentation across one epoch regardless of
// its corpus share.
func BalancedShuffle(examples []Example, rng *rand.Rand) []int {
	byLabel := make(map[int][]int)
	for i, ex := range examples {
		byLabel[ex.LabelIndex] = append(byLabel[ex.LabelIndex], i)
	}

	maxCount := 0
	for _, ids := range byLabel {
		if len(ids) > maxCount {
			maxCount = len(ids)
		}
	}

	labelKeys := make([]int, 0, len(byLabel))
	for k := range byLabel {
		labelKeys = append(labelKeys, k)
	}
	sort.Ints(labelKeys)

	var list []int
	for _, k := range labelKeys {
		ids := byLabel[k]
		n := len(ids)
		if n == 0 || maxCount == 0 {
			continue
		}
		full := maxCount / n
		for i := 0; i < full; i++ {
			list = append(list, ids...)
		}
		remainder := maxCount % n
		shuffled := make([]int, n)
		copy(shuffled, ids)
		rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		list = append(list, shuffled[:remainder]...)
	}
	rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	return list
}

// TrainEpoch runs one balanced-shuffle pass over examples, mutating
// t.Params (and, when regularization is enabled, t.penalties) in
// place, and returns the epoch's accuracy report.
func (t *Trainer) TrainEpoch(examples []Example, rng *rand.Rand) EpochReport {
	order := BalancedShuffle(examples, rng)
	n := len(order)

	report := EpochReport{
		CorrectByLabel: make([]int, t.Labels.Len()),
		TotalByLabel:   make([]int, t.Labels.Len()),
	}
	if n == 0 {
		return report
	}

	regularized := t.conf.RegConstant > 0
	var alpha, uk float64
	if regularized {
		if t.penalties == nil {
			t.penalties = make([]float64, len(t.Params.Data))
		}
		alpha = math.Pow(0.9, -1.0/float64(n))
	}
	wholeRegInterval := n/t.conf.FullRegPerEpoch + 1
	eta := t.conf.Eta

	for m, idx := range order {
		ex := examples[idx]
		raw := make([]float64, t.Labels.Len())
		for id, count := range ex.Events {
			row := t.Params.Row(id)
			c := float64(count)
			for k, w := range row {
				raw[k] += c * w
			}
		}
		y := score.Softmax(raw)
		if y == nil {
			log.Warn().Msg("skipping training example with degenerate softmax input")
			continue
		}

		predicted := argmax(y)
		report.TotalByLabel[ex.LabelIndex]++
		if predicted == ex.LabelIndex {
			report.CorrectByLabel[ex.LabelIndex]++
		}

		if regularized {
			eta *= alpha
			uk += t.conf.RegConstant * eta / float64(n)
		}

		y[ex.LabelIndex] -= 1
		for k := range y {
			y[k] *= eta
		}

		if !regularized {
			for id, count := range ex.Events {
				row := t.Params.Row(id)
				c := float64(count)
				for k := range row {
					row[k] -= y[k] * c
				}
			}
			continue
		}

		fullSweep := (n-m)%wholeRegInterval == 1
		if fullSweep {
			for id := 0; id < t.Params.Rows; id++ {
				if count, ok := ex.Events[id]; ok {
					t.applyGradient(id, y, float64(count))
				}
				t.regularizeRow(id, uk)
			}
		} else {
			for id, count := range ex.Events {
				t.applyGradient(id, y, float64(count))
				t.regularizeRow(id, uk)
			}
		}
	}

	report.Correct, report.Total = 0, 0
	for k := range report.CorrectByLabel {
		report.Correct += report.CorrectByLabel[k]
		report.Total += report.TotalByLabel[k]
	}
	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total)
	}
	report.RelevantFeatures = t.countRelevantFeatures()
	return report
}

func (t *Trainer) applyGradient(id int, y []float64, count float64) {
	row := t.Params.Row(id)
	for k := range row {
		row[k] -= y[k] * count
	}
}

// regularizeRow applies the Tsuruoka-Tsujii clipped-subgradient-with-
// memory update to every column of feature row id, given the current
// cumulative L1 budget uk.
func (t *Trainer) regularizeRow(id int, uk float64) {
	row := t.Params.Row(id)
	penRow := t.penalties[id*t.Params.Cols : (id+1)*t.Params.Cols]
	for k, w := range row {
		q := penRow[k]
		switch {
		case w > 0:
			w1 := w - uk - q
			if w1 > 0 {
				row[k] = w1
				penRow[k] += w1 - w
			} else {
				row[k] = 0
				penRow[k] -= w
			}
		case w < 0:
			w1 := w + uk - q
			if w1 < 0 {
				row[k] = w1
				penRow[k] += w1 - w
			} else {
				row[k] = 0
				penRow[k] -= w
			}
		}
	}
}

func (t *Trainer) countRelevantFeatures() int {
	count := 0
	for id := 0; id < t.Params.Rows; id++ {
		var sum float64
		for _, w := range t.Params.Row(id) {
			sum += math.Abs(w)
		}
		if sum > sparsityFloor {
			count++
		}
	}
	return count
}

func argmax(xs []float64) int {
	best := 0
	for i, v := range xs[1:] {
		if v > xs[best] {
			best = i + 1
		}
	}
	return best
}
