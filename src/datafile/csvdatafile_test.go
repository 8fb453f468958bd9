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
package datafile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthymoms/hma-deidentifier/src/dataset"
)

func TestLoadCSVParsesTypedValues(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "raw.csv")
	content := "Patient_ID,Age,ZIP_Code,Treatment_Cost\nPID-1001,45,90210,1234.56\nPID-1002,52,33101,980\n"
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))

	ds, err := LoadCSV(filePath, ',')
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"Patient_ID", "Age", "ZIP_Code", "Treatment_Cost"}, ds.Attributes)

	rec := ds.Records[0]
	assert.Equal(t, dataset.KindString, rec["Patient_ID"].Kind())
	assert.Equal(t, dataset.KindInt, rec["Age"].Kind())
	assert.Equal(t, dataset.KindFloat, rec["Treatment_Cost"].Kind())
}

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ds := dataset.SyntheticClinical(10)

	filePath := filepath.Join(dir, "data.csv")
	require.NoError(t, WriteCSV(ds, filePath, ','))

	loaded, err := LoadCSV(filePath, ',')
	require.NoError(t, err)
	require.Equal(t, ds.Len(), loaded.Len())
	assert.Equal(t, ds.Attributes, loaded.Attributes)
	for i, rec := range ds.Records {
		for _, attr := range ds.Attributes {
			assert.Equal(t, rec[attr].String(), loaded.Records[i][attr].String(),
				"row %d attr %s", i, attr)
		}
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"), ',')
	assert.Error(t, err)
}

func TestDescriptorRoundTrip(t *testing.T) {
	workspaceDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workspaceDir, "metainfo"), 0755))

	d := &Descriptor{
		FileFormat:   "csv",
		Delimiter:    ",",
		HasHeader:    true,
		FilePath:     "deidentified.csv",
		RowCount:     8,
		WorkspaceDir: workspaceDir,
	}
	require.NoError(t, d.Save())

	loaded, err := OpenDescriptor(workspaceDir)
	require.NoError(t, err)
	assert.Equal(t, "csv", loaded.FileFormat)
	assert.Equal(t, int64(8), loaded.RowCount)
	// relative path is anchored at the workspace data dir
	assert.Equal(t, filepath.Join(workspaceDir, "data", "deidentified.csv"), loaded.FilePath)
}
