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

// Package errs collects the sentinel error values shared across the
// model, training and detection packages.
package errs

import "errors"

var (
	// ErrInvalidFeatureSet is returned when a feature list handed to the
	// double array builder is not strictly sorted, contains a duplicate,
	// or contains an empty string.
	ErrInvalidFeatureSet = errors.New("invalid feature set")

	// ErrUnknownLabel is returned when a label (for example a training
	// corpus line's label) is not present in the model's label list.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrExtractorFailed is returned when the external max-substring
	// extractor process exits with a non-zero status or produces
	// malformed output.
	ErrExtractorFailed = errors.New("max-substring extractor failed")

	// ErrNumericDegeneracy is returned by the scorer when the softmax
	// over an input's raw label scores is degenerate (NaN or a zero sum).
	ErrNumericDegeneracy = errors.New("numeric degeneracy in softmax")
)
