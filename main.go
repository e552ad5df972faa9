// Copyright 2017 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2017 Charles University, Faculty of Arts,
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

package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shuyo/ldig/cnf"
	"github.com/shuyo/ldig/corpus"
	"github.com/shuyo/ldig/errs"
	"github.com/shuyo/ldig/extractor"
	"github.com/shuyo/ldig/fs"
	"github.com/shuyo/ldig/model"
	"github.com/shuyo/ldig/score"
	"github.com/shuyo/ldig/shrink"
	"github.com/shuyo/ldig/stage"
	"github.com/shuyo/ldig/train"
)

var (
	version   string
	build     string
	gitCommit string
)

func setupLogging(verbosity int) {
	level := zerolog.InfoLevel
	switch {
	case verbosity >= 2:
		level = zerolog.TraceLevel
	case verbosity == 1:
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func usage() {
	fmt.Println("\n+-------------------------------------------------------------+")
	fmt.Println("|  ldig - a short-text language identification engine         |")
	fmt.Printf("|                       version %s                         |\n", version)
	fmt.Println("+-------------------------------------------------------------+")
	fmt.Println("\nUsage:")
	fmt.Println("ldig init -m <model_dir> <corpus...>\n\t(build features + labels from corpus files)")
	fmt.Println("ldig learning -m <model_dir> <corpus...>\n\t(train one epoch over corpus files)")
	fmt.Println("ldig shrink -m <model_dir>\n\t(compact model in place)")
	fmt.Println("ldig debug -m <model_dir> <text...>\n\t(print feature-by-feature contributions)")
	fmt.Println("ldig -m <model_dir> <corpus...>\n\t(default: detect language of corpus lines)")
	fmt.Println("ldig version\n\tshow detailed version information")
	fmt.Println("\nOptions:")
	flag.PrintDefaults()
}

func runInit(ctx context.Context, args []string) {
	fset := flag.NewFlagSet("init", flag.ExitOnError)
	modelDir := fset.String("m", "", "model directory")
	ff := fset.Int("ff", cnf.DfltLowerBoundFreq, "lower-bound feature frequency")
	ngramBound := fset.Int("n", cnf.DfltNgramBound, "ngram length bound (0 = unbounded)")
	extractorPath := fset.String("x", "", "path to the max-substring extractor binary")
	stageType := fset.String("stage", "sqlite", "candidate stage backend (sqlite|mysql)")
	stageDSN := fset.String("stage-dsn", "", "candidate stage DSN (required for mysql)")
	timeoutS := fset.Int("timeout", cnf.DfltExtractorTimeout, "extractor timeout in seconds")
	verbosity := fset.Int("v", 0, "verbosity")
	fset.Usage = func() { fmt.Println("Usage: ldig init -m <model_dir> [options] <corpus...>") }
	fset.Parse(args)
	setupLogging(*verbosity)

	if *modelDir == "" || fset.NArg() == 0 {
		fset.Usage()
		os.Exit(1)
	}
	if err := os.MkdirAll(*modelDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create model directory")
	}

	st, err := stage.Open(stage.Conf{Type: *stageType, DSN: *stageDSN})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open candidate stage")
	}
	defer st.Close()

	for _, corpusFile := range fset.Args() {
		select {
		case <-ctx.Done():
			log.Warn().Msg("stopping init between corpus files")
			return
		default:
		}
		normalizedPath, err := corpus.ExtractNormalizedText(corpusFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", corpusFile).Msg("failed to normalize corpus file")
		}
		timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(*timeoutS)*time.Second)
		counts, err := extractor.Run(timeoutCtx, *extractorPath, nil, normalizedPath)
		cancel()
		os.Remove(normalizedPath)
		if err != nil {
			log.Fatal().Err(err).Str("file", corpusFile).Msg("extractor failed")
		}
		if err := st.Accumulate(counts); err != nil {
			log.Fatal().Err(err).Msg("failed to accumulate candidates")
		}
		log.Info().Str("file", corpusFile).Int("candidates", len(counts)).Msg("processed corpus file")
	}

	candidates, err := st.Candidates()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read candidate stage")
	}
	raw := make(map[string]int64, len(candidates))
	for _, c := range candidates {
		raw[c.Substring] = c.Count
	}
	admitted := extractor.FilterCandidates(extractor.AdmissionConf{LowerBoundFreq: *ff, NgramBound: *ngramBound}, raw)

	features := make([]model.FeatureCount, len(admitted))
	for i, a := range admitted {
		features[i] = model.FeatureCount{Feature: a.Feature, Freq: a.Freq}
	}

	labelSet := collectLabels(fset.Args())
	m := &model.Model{
		Features:   features,
		Labels:     model.NewLabels(labelSet),
		Parameters: model.NewParameters(len(features), len(labelSet)),
	}
	if err := m.Save(*modelDir); err != nil {
		log.Fatal().Err(err).Msg("failed to save model")
	}
	log.Info().Int("features", len(features)).Int("labels", len(labelSet)).Msg("init complete")
}

func collectLabels(corpusFiles []string) []string {
	var labels []string
	sc, err := corpus.NewScanner(corpusFiles...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to scan corpus for labels")
	}
	defer sc.Close()
	seen := make(map[string]bool)
	for sc.Scan() {
		label := sc.Record().Label
		if label != "" && !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	if err := sc.Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to scan corpus for labels")
	}
	return labels
}

func runLearning(ctx context.Context, args []string) {
	fset := flag.NewFlagSet("learning", flag.ExitOnError)
	modelDir := fset.String("m", "", "model directory")
	eta := fset.Float64("e", cnf.DfltEta, "learning rate")
	reg := fset.Float64("r", 0, "regularization constant (0 disables L1)")
	wr := fset.Int("wr", cnf.DfltFullRegPerEpoch, "full regularizations per epoch")
	verbosity := fset.Int("v", 0, "verbosity")
	fset.Usage = func() { fmt.Println("Usage: ldig learning -m <model_dir> [options] <corpus...>") }
	fset.Parse(args)
	setupLogging(*verbosity)

	if *modelDir == "" || fset.NArg() == 0 {
		fset.Usage()
		os.Exit(1)
	}
	requireModelDir(*modelDir)

	m, err := model.Load(*modelDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load model")
	}

	examples, err := buildExamples(m, fset.Args())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build training examples")
	}

	trainer := train.New(m.Parameters, m.Labels, train.Conf{Eta: *eta, RegConstant: *reg, FullRegPerEpoch: *wr})
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	select {
	case <-ctx.Done():
		log.Warn().Msg("stopping before training started")
		return
	default:
	}
	report := trainer.TrainEpoch(examples, rng)

	for k := 0; k < m.Labels.Len(); k++ {
		if report.TotalByLabel[k] > 0 {
			log.Info().
				Str("label", m.Labels.Name(k)).
				Int("correct", report.CorrectByLabel[k]).
				Int("total", report.TotalByLabel[k]).
				Msg("per-label accuracy")
		}
	}
	log.Info().Float64("accuracy", report.Accuracy).Int("relevantFeatures", report.RelevantFeatures).Msg("epoch complete")

	if err := m.Save(*modelDir); err != nil {
		log.Fatal().Err(err).Msg("failed to save model")
	}
}

func buildExamples(m *model.Model, corpusFiles []string) ([]train.Example, error) {
	sc, err := corpus.NewScanner(corpusFiles...)
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	var examples []train.Example
	for sc.Scan() {
		r := sc.Record()
		k, err := m.Labels.Index(r.Label)
		if err != nil {
			log.Warn().Str("label", r.Label).Msg("unknown label in training corpus")
			return nil, fmt.Errorf("%w: %s", errs.ErrUnknownLabel, r.Label)
		}
		events := m.DA.Extract(string(score.Sentinel) + r.Normalized + string(score.Sentinel))
		examples = append(examples, train.Example{Events: events, LabelIndex: k})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return examples, nil
}

func runShrink(args []string) {
	fset := flag.NewFlagSet("shrink", flag.ExitOnError)
	modelDir := fset.String("m", "", "model directory")
	verbosity := fset.Int("v", 0, "verbosity")
	fset.Usage = func() { fmt.Println("Usage: ldig shrink -m <model_dir>") }
	fset.Parse(args)
	setupLogging(*verbosity)

	if *modelDir == "" {
		fset.Usage()
		os.Exit(1)
	}
	requireModelDir(*modelDir)
	m, err := model.Load(*modelDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load model")
	}
	report, err := shrink.Shrink(m)
	if err != nil {
		log.Fatal().Err(err).Msg("shrink failed")
	}
	if err := m.Save(*modelDir); err != nil {
		log.Fatal().Err(err).Msg("failed to save shrunk model")
	}
	log.Info().Int("kept", report.KeptFeatures).Int("dropped", report.DroppedFeatures).Msg("shrink complete")
}

func runDebug(args []string) {
	fset := flag.NewFlagSet("debug", flag.ExitOnError)
	modelDir := fset.String("m", "", "model directory")
	confidence := fset.Float64("c", cnf.DfltConfidence, "confidence threshold")
	verbosity := fset.Int("v", 0, "verbosity")
	fset.Usage = func() { fmt.Println("Usage: ldig debug -m <model_dir> [options] <text...>") }
	fset.Parse(args)
	setupLogging(*verbosity)

	if *modelDir == "" || fset.NArg() == 0 {
		fset.Usage()
		os.Exit(1)
	}
	requireModelDir(*modelDir)
	m, err := model.Load(*modelDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load model")
	}
	scorer := score.New(m, *confidence)

	for _, text := range fset.Args() {
		events := scorer.Events(text)
		fmt.Printf("text: %q\n", text)
		for id, count := range events {
			fmt.Printf("  feature %q (id=%d, count=%d): %v\n", m.Features[id].Feature, id, count, m.Parameters.Row(id))
		}
		pred, err := scorer.Predict(text)
		if err != nil {
			fmt.Printf("  prediction failed: %s\n", err)
			continue
		}
		fmt.Printf("  => %s (confidence=%.4f)\n", pred.Label, pred.Confidence)
	}
}

func runDetect(args []string) {
	fset := flag.NewFlagSet("detect", flag.ExitOnError)
	modelDir := fset.String("m", "", "model directory")
	confidence := fset.Float64("c", cnf.DfltConfidence, "confidence threshold")
	verbosity := fset.Int("v", 0, "verbosity")
	fset.Usage = func() { fmt.Println("Usage: ldig -m <model_dir> [options] <corpus...>") }
	fset.Parse(args)
	setupLogging(*verbosity)

	if *modelDir == "" || fset.NArg() == 0 {
		fset.Usage()
		os.Exit(1)
	}
	requireModelDir(*modelDir)
	m, err := model.Load(*modelDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load model")
	}
	scorer := score.New(m, *confidence)

	sc, err := corpus.NewScanner(fset.Args()...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open corpus")
	}
	defer sc.Close()

	correctByLabel := make(map[string]int)
	totalByLabel := make(map[string]int)
	var totalNLL float64
	var scored int
	warnedLabels := make(map[string]bool)

	for sc.Scan() {
		r := sc.Record()
		pred, err := scorer.Predict(r.Normalized)
		if err != nil {
			log.Warn().Err(err).Msg("skipping line with degenerate score")
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", r.Label, pred.Label, r.Original)

		if r.Label == "" {
			continue
		}
		k, err := m.Labels.Index(r.Label)
		if err != nil {
			if !warnedLabels[r.Label] {
				log.Warn().Str("label", r.Label).Msg("unseen label during detection")
				warnedLabels[r.Label] = true
			}
			continue
		}
		totalByLabel[r.Label]++
		if pred.Label == r.Label {
			correctByLabel[r.Label]++
		}
		posterior, err := scorer.Posterior(r.Normalized)
		if err == nil {
			totalNLL += score.NegLogLikelihood(posterior, k)
			scored++
		}
	}
	if err := sc.Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to read corpus")
	}

	var totalCorrect, totalCount int
	for label, total := range totalByLabel {
		correct := correctByLabel[label]
		totalCorrect += correct
		totalCount += total
		fmt.Printf("> %s = %d / %d = %.2f%%\n", label, correct, total, 100*float64(correct)/float64(total))
	}
	if totalCount > 0 {
		fmt.Printf("> total = %d / %d = %.2f%%\n", totalCorrect, totalCount, 100*float64(totalCorrect)/float64(totalCount))
	}
	if scored > 0 {
		fmt.Printf("> average NLL = %.4f\n", totalNLL/float64(scored))
	}
}

func dumpNewConf() {
	raw, err := cnf.Dump(cnf.Conf{}.WithDefaults())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to dump a new config")
	}
	fmt.Println(string(raw))
}

func main() {
	flag.Usage = usage
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "init":
		runInit(ctx, os.Args[2:])
	case "learning":
		runLearning(ctx, os.Args[2:])
	case "shrink":
		runShrink(os.Args[2:])
	case "debug":
		runDebug(os.Args[2:])
	case "dump-conf":
		dumpNewConf()
	case "version":
		fmt.Printf("ldig %s\nbuild date: %s\nlast commit: %s\n", version, build, gitCommit)
	default:
		runDetect(os.Args[1:])
	}
}

// requireModelDir exits the process with a clear message if dir does
// not exist, rather than letting model.Load fail on a missing-file
// error that reads the same as a corrupt model.
func requireModelDir(dir string) {
	if !fs.IsDir(dir) {
		log.Fatal().Str("dir", dir).Msg("model directory does not exist")
	}
}
