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

// Package score evaluates a normalized input string's posterior over
// labels from a trained parameter matrix and double-array trie.
package score

import (
	"math"

	"github.com/shuyo/ldig/datrie"
	"github.com/shuyo/ldig/errs"
	"github.com/shuyo/ldig/model"
)

// Sentinel marks a word boundary; both the scorer and the trainer
// wrap every input with it before extracting features, so that
// sentinel-anchored features only match at word boundaries.
const Sentinel = '\x01'

// UnknownLabel is reported when the posterior's top probability falls
// below the configured confidence threshold.
const UnknownLabel = ""

// Scorer evaluates the posterior over labels for normalized text.
type Scorer struct {
	DA         *datrie.DoubleArray
	Params     *model.Parameters
	Labels     model.Labels
	Confidence float64
}

// New builds a Scorer from a loaded model.
func New(m *model.Model, confidence float64) *Scorer {
	return &Scorer{DA: m.DA, Params: m.Parameters, Labels: m.Labels, Confidence: confidence}
}

// Events extracts the feature-id -> count multiset for normalizedText,
// wrapping it in sentinels first.
func (s *Scorer) Events(normalizedText string) map[int]int {
	return s.DA.Extract(string(Sentinel) + normalizedText + string(Sentinel))
}

// Score computes s = sum_id count(id) * W[id, :] for the given event
// multiset, the raw (pre-softmax) per-label scores.
func (s *Scorer) Score(events map[int]int) []float64 {
	out := make([]float64, s.Labels.Len())
	for id, count := range events {
		if id < 0 || id >= s.Params.Rows {
			continue
		}
		row := s.Params.Row(id)
		c := float64(count)
		for k, w := range row {
			out[k] += c * w
		}
	}
	return out
}

// Softmax computes the numerically stable softmax of raw scores using
// the standard max-subtraction trick.
func Softmax(raw []float64) []float64 {
	if len(raw) == 0 {
		return nil
	}
	max := raw[0]
	for _, v := range raw[1:] {
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(raw))
	var sum float64
	for i, v := range raw {
		e := math.Exp(v - max)
		out[i] = e
		sum += e
	}
	if sum == 0 || math.IsNaN(sum) {
		return nil
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Posterior returns the softmax posterior over labels for
// normalizedText, or ErrNumericDegeneracy if the raw scores are
// degenerate (all -Inf or NaN).
func (s *Scorer) Posterior(normalizedText string) ([]float64, error) {
	raw := s.Score(s.Events(normalizedText))
	p := Softmax(raw)
	if p == nil {
		return nil, errs.ErrNumericDegeneracy
	}
	return p, nil
}

// Prediction is the outcome of scoring one input.
type Prediction struct {
	Label      string
	Confidence float64
	Unknown    bool
}

// Predict returns the most probable label for normalizedText, or
// Unknown=true when the top probability falls below s.Confidence.
func (s *Scorer) Predict(normalizedText string) (Prediction, error) {
	p, err := s.Posterior(normalizedText)
	if err != nil {
		return Prediction{}, err
	}
	best, bestP := 0, p[0]
	for k, v := range p[1:] {
		if v > bestP {
			best, bestP = k+1, v
		}
	}
	if bestP < s.Confidence {
		return Prediction{Label: UnknownLabel, Confidence: bestP, Unknown: true}, nil
	}
	return Prediction{Label: s.Labels.Name(best), Confidence: bestP}, nil
}

// NegLogLikelihood returns -log p[trueLabelIndex], the per-example
// training/evaluation loss.
func NegLogLikelihood(posterior []float64, trueLabelIndex int) float64 {
	p := posterior[trueLabelIndex]
	if p <= 0 {
		return math.Inf(1)
	}
	return -math.Log(p)
}
