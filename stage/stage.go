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

// Package stage accumulates extractor output (substring, count) pairs
// across multiple corpus files ahead of the admission filter. It is
// init-local: opened at the start of an --init run, drained once at
// the end to produce the aggregated candidate list, then torn down.
package stage

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Conf selects and configures a candidate-stage backend, the same way
// db.Conf selects between sqlite and mysql for the teacher's schema.
type Conf struct {
	Type string `json:"type"`
	Path string `json:"path"`
	DSN  string `json:"dsn"`
}

// Candidate is one (substring, accumulated count) pair read back out
// of the stage once all corpus files have been extracted.
type Candidate struct {
	Substring string
	Count     int64
}

// Stage accumulates extractor output before the admission filter runs.
type Stage interface {
	// Accumulate merges counts into the stage, adding to any existing
	// count already recorded for a substring.
	Accumulate(counts map[string]int64) error

	// Candidates returns every (substring, count) pair recorded so far.
	Candidates() ([]Candidate, error)

	// Close releases the backing store. For sqlite this also removes
	// the on-disk database file, since the stage is init-local.
	Close() error
}

// Open opens the backend named by conf.Type, defaulting to sqlite.
func Open(conf Conf) (Stage, error) {
	switch conf.Type {
	case "", "sqlite":
		return openSqlite(conf)
	case "mysql":
		return openMysql(conf)
	default:
		return nil, fmt.Errorf("unknown candidate stage type %q", conf.Type)
	}
}

func prepareSchema(db *sql.DB) error {
	_, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS candidate (
			substring TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0
		)`,
	)
	if err != nil {
		return fmt.Errorf("failed to create candidate table: %w", err)
	}
	log.Debug().Msg("prepared candidate stage schema")
	return nil
}
