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

package stage

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	_ "github.com/mattn/go-sqlite3" // load the driver
)

type sqliteStage struct {
	db   *sql.DB
	path string
}

func openSqlite(conf Conf) (Stage, error) {
	path := conf.Path
	if path == "" {
		f, err := os.CreateTemp("", "ldig-stage-*.sqlite")
		if err != nil {
			return nil, fmt.Errorf("failed to create temporary candidate stage: %w", err)
		}
		path = f.Name()
		f.Close()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open candidate stage: %w", err)
	}
	// a ":memory:" database is private to a single connection; cap the
	// pool at one so accumulation across calls lands in the same db
	db.SetMaxOpenConns(1)
	if err := prepareSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("path", path).Msg("opened sqlite candidate stage")
	return &sqliteStage{db: db, path: path}, nil
}

func (s *sqliteStage) Accumulate(counts map[string]int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin candidate stage transaction: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO candidate (substring, count) VALUES (?, ?)
		 ON CONFLICT(substring) DO UPDATE SET count = count + excluded.count`,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare candidate upsert: %w", err)
	}
	defer stmt.Close()

	for substring, count := range counts {
		if _, err := stmt.Exec(substring, count); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to accumulate candidate %q: %w", substring, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit candidate stage transaction: %w", err)
	}
	return nil
}

func (s *sqliteStage) Candidates() ([]Candidate, error) {
	rows, err := s.db.Query("SELECT substring, count FROM candidate")
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var ans []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.Substring, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		ans = append(ans, c)
	}
	return ans, rows.Err()
}

func (s *sqliteStage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close candidate stage: %w", err)
	}
	if s.path != "" {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("failed to remove candidate stage file")
		}
	}
	return nil
}
