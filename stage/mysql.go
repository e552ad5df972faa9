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

	"github.com/rs/zerolog/log"

	_ "github.com/go-sql-driver/mysql" // load the driver
)

type mysqlStage struct {
	db *sql.DB
}

func openMysql(conf Conf) (Stage, error) {
	if conf.DSN == "" {
		return nil, fmt.Errorf("mysql candidate stage requires a DSN")
	}
	db, err := sql.Open("mysql", conf.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open candidate stage: %w", err)
	}
	if err := prepareMysqlSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Msg("opened mysql candidate stage")
	return &mysqlStage{db: db}, nil
}

func prepareMysqlSchema(db *sql.DB) error {
	_, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS candidate (
			substring VARCHAR(255) PRIMARY KEY,
			count BIGINT NOT NULL DEFAULT 0
		)`,
	)
	if err != nil {
		return fmt.Errorf("failed to create candidate table: %w", err)
	}
	return nil
}

func (s *mysqlStage) Accumulate(counts map[string]int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin candidate stage transaction: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO candidate (substring, count) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE count = count + VALUES(count)`,
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

func (s *mysqlStage) Candidates() ([]Candidate, error) {
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

func (s *mysqlStage) Close() error {
	_, err := s.db.Exec("DROP TABLE IF EXISTS candidate")
	if err != nil {
		log.Warn().Err(err).Msg("failed to drop candidate table")
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close candidate stage: %w", err)
	}
	return nil
}
