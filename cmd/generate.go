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
package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/healthymoms/hma-deidentifier/src/datafile"
	"github.com/healthymoms/hma-deidentifier/src/dataset"
	"github.com/healthymoms/hma-deidentifier/src/utils"
)

var generateRows int

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic raw clinical dataset into the workspace for demos and testing.",

	PreRun: func(cmd *cobra.Command, args []string) {
		validateWorkspaceDirFlag()
		if generateRows < 1 {
			utils.ErrExit("ERROR: --rows must be >= 1, got %d", generateRows)
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		exitIfError(runGenerateCmd())
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	registerCommonGlobalFlags(generateCmd)

	generateCmd.Flags().IntVar(&generateRows, "rows", 10,
		"number of synthetic patient records to generate")
}

func runGenerateCmd() error {
	initWorkspaceDirLayout()

	ds := dataset.SyntheticClinical(generateRows)
	rawFilePath := filepath.Join(workspaceDir, "data", "raw.csv")
	if err := datafile.WriteCSV(ds, rawFilePath, ','); err != nil {
		return err
	}

	descriptor := &datafile.Descriptor{
		FileFormat:   "csv",
		Delimiter:    ",",
		HasHeader:    true,
		FilePath:     rawFilePath,
		RowCount:     int64(ds.Len()),
		WorkspaceDir: workspaceDir,
	}
	if err := descriptor.Save(); err != nil {
		return err
	}

	utils.PrintAndLog("Generated %d synthetic patient records at %q.", ds.Len(), rawFilePath)
	return nil
}
