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
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetaDB(t *testing.T) *MetaDB {
	t.Helper()
	workspaceDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workspaceDir, "metainfo"), 0755))
	require.NoError(t, CreateAndInitMetaDBIfRequired(workspaceDir))
	// second call must be a no-op
	require.NoError(t, CreateAndInitMetaDBIfRequired(workspaceDir))

	metaDB, err := NewMetaDB(workspaceDir)
	require.NoError(t, err)
	t.Cleanup(func() { metaDB.Close() })
	return metaDB
}

func sampleRun(runID string, startedAt time.Time) *RunRecord {
	return &RunRecord{
		RunID:            runID,
		AuditID:          "SEC-DOC-1A2B3C",
		StartedAt:        startedAt,
		K:                3,
		QuasiIdentifiers: []string{"Age", "ZIP_Code", "Gender"},
		InputFile:        "/tmp/raw.csv",
		OutputFile:       "/tmp/deidentified.csv",
		InputRows:        10,
		OutputRows:       8,
		SuppressedRows:   2,
		ClassSizes:       map[string]int{"40s / 100** / F": 4, "30s / 100** / M": 4},
	}
}

func TestInsertAndGetRunHistory(t *testing.T) {
	metaDB := newTestMetaDB(t)
	base := time.Now().Truncate(time.Second)

	require.NoError(t, metaDB.InsertRunRecord(sampleRun("run-1", base.Add(-time.Hour))))
	require.NoError(t, metaDB.InsertRunRecord(sampleRun("run-2", base)))

	runs, err := metaDB.GetRunHistory()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// ordered oldest first
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Equal(t, "run-2", runs[1].RunID)

	run := runs[1]
	assert.Equal(t, "SEC-DOC-1A2B3C", run.AuditID)
	assert.Equal(t, 3, run.K)
	assert.Equal(t, []string{"Age", "ZIP_Code", "Gender"}, run.QuasiIdentifiers)
	assert.Equal(t, 10, run.InputRows)
	assert.Equal(t, 8, run.OutputRows)
	assert.Equal(t, 2, run.SuppressedRows)
	assert.Equal(t, map[string]int{"40s / 100** / F": 4, "30s / 100** / M": 4}, run.ClassSizes)
	assert.True(t, run.StartedAt.Equal(base))
}

func TestGetLatestRun(t *testing.T) {
	metaDB := newTestMetaDB(t)

	latest, err := metaDB.GetLatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest)

	base := time.Now().Truncate(time.Second)
	require.NoError(t, metaDB.InsertRunRecord(sampleRun("run-1", base.Add(-time.Hour))))
	require.NoError(t, metaDB.InsertRunRecord(sampleRun("run-2", base)))

	latest, err = metaDB.GetLatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "run-2", latest.RunID)
}

func TestEmptyQuasiIdentifiersRoundTrip(t *testing.T) {
	metaDB := newTestMetaDB(t)
	run := sampleRun("run-1", time.Now())
	run.QuasiIdentifiers = nil
	run.ClassSizes = nil
	require.NoError(t, metaDB.InsertRunRecord(run))

	latest, err := metaDB.GetLatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest.QuasiIdentifiers)
	assert.Nil(t, latest.ClassSizes)
}
