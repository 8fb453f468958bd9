/*
Copyright (c) Healthy Moms Action, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package metadb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// RunRecord is one row of the de-identification audit trail.
type RunRecord struct {
	RunID            string
	AuditID          string
	StartedAt        time.Time
	K                int
	QuasiIdentifiers []string
	InputFile        string
	OutputFile       string
	InputRows        int
	OutputRows       int
	SuppressedRows   int
	ClassSizes       map[string]int
}

func (m *MetaDB) InsertRunRecord(run *RunRecord) error {
	classSizes, err := json.Marshal(run.ClassSizes)
	if err != nil {
		return fmt.Errorf("error while marshalling class sizes :%w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s
		(run_id, audit_id, started_at, k, quasi_identifiers, input_file, output_file, input_rows, output_rows, suppressed_rows, class_sizes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, RUN_HISTORY_TABLE_NAME)
	_, err = m.db.Exec(query,
		run.RunID, run.AuditID, run.StartedAt.Unix(), run.K,
		strings.Join(run.QuasiIdentifiers, ","),
		run.InputFile, run.OutputFile,
		run.InputRows, run.OutputRows, run.SuppressedRows,
		string(classSizes))
	if err != nil {
		return fmt.Errorf("error while running query on meta db - %s :%w", query, err)
	}
	log.Infof("recorded de-identification run %s in meta db", run.RunID)
	return nil
}

func (m *MetaDB) GetRunHistory() ([]*RunRecord, error) {
	query := fmt.Sprintf(`SELECT run_id, audit_id, started_at, k, quasi_identifiers,
		input_file, output_file, input_rows, output_rows, suppressed_rows, class_sizes
		FROM %s ORDER BY started_at ASC`, RUN_HISTORY_TABLE_NAME)
	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error while running query on meta db - %s :%w", query, err)
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		run, err := scanRunRecord(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (m *MetaDB) GetLatestRun() (*RunRecord, error) {
	query := fmt.Sprintf(`SELECT run_id, audit_id, started_at, k, quasi_identifiers,
		input_file, output_file, input_rows, output_rows, suppressed_rows, class_sizes
		FROM %s ORDER BY started_at DESC LIMIT 1`, RUN_HISTORY_TABLE_NAME)
	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error while running query on meta db - %s :%w", query, err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, nil
	}
	return scanRunRecord(rows)
}

func scanRunRecord(rows *sql.Rows) (*RunRecord, error) {
	var run RunRecord
	var startedAt int64
	var quasiIdentifiers, classSizes string
	err := rows.Scan(&run.RunID, &run.AuditID, &startedAt, &run.K, &quasiIdentifiers,
		&run.InputFile, &run.OutputFile, &run.InputRows, &run.OutputRows, &run.SuppressedRows,
		&classSizes)
	if err != nil {
		return nil, fmt.Errorf("error while scanning run history row :%w", err)
	}
	run.StartedAt = time.Unix(startedAt, 0)
	if quasiIdentifiers != "" {
		run.QuasiIdentifiers = strings.Split(quasiIdentifiers, ",")
	}
	if classSizes != "" {
		if err := json.Unmarshal([]byte(classSizes), &run.ClassSizes); err != nil {
			return nil, fmt.Errorf("error while unmarshalling class sizes :%w", err)
		}
	}
	return &run, nil
}
