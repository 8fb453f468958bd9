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
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/healthymoms/hma-deidentifier/src/datafile"
	"github.com/healthymoms/hma-deidentifier/src/deid"
	"github.com/healthymoms/hma-deidentifier/src/metadb"
	"github.com/healthymoms/hma-deidentifier/src/utils"
)

var (
	inputFilePath      string
	outputFilePath     string
	privacyConfigPath  string
	flagK              int
	flagSalt           string
	flagQuasiIdentList string
)

var deidentifyCmd = &cobra.Command{
	Use:   "deidentify",
	Short: "De-identify a CSV dataset and write the processed dataset back to the workspace.",
	Long: `Runs the de-identification pipeline over the input CSV: direct identifiers are removed or replaced with
salted one-way pseudonyms, quasi-identifiers are generalized (age decades, ZIP prefixes), and any record whose
generalized quasi-identifier combination occurs fewer than k times is suppressed. The run is recorded in the
workspace audit database.`,

	PreRun: func(cmd *cobra.Command, args []string) {
		validateWorkspaceDirFlag()
		if inputFilePath == "" {
			utils.ErrExit(`ERROR: required flag "input" not set`)
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		exitIfError(runDeidentifyCmd(cmd))
	},
}

func init() {
	rootCmd.AddCommand(deidentifyCmd)
	registerCommonGlobalFlags(deidentifyCmd)

	deidentifyCmd.Flags().StringVarP(&inputFilePath, "input", "i", "",
		"path of the raw CSV file to de-identify")
	deidentifyCmd.Flags().StringVarP(&outputFilePath, "output", "o", "",
		"path of the de-identified CSV file (default <workspace-dir>/data/deidentified.csv)")
	deidentifyCmd.Flags().StringVarP(&privacyConfigPath, "config", "c", "",
		"path of the YAML privacy config (k, salt, identifier policies)")
	deidentifyCmd.Flags().IntVarP(&flagK, "k-anonymity", "k", 0,
		"k-anonymity level: every retained record shares its quasi-identifier combination with at least k-1 others")
	deidentifyCmd.Flags().StringVarP(&flagSalt, "salt", "s", "",
		"salt for the one-way identifier transform (changing it re-keys every pseudonym)")
	deidentifyCmd.Flags().StringVar(&flagQuasiIdentList, "quasi-identifiers", "",
		"comma separated attributes that define the k-anonymity equivalence classes (may be empty)")
}

func runDeidentifyCmd(cmd *cobra.Command) error {
	initWorkspaceDirLayout()
	startTime := time.Now()

	settings, err := loadPrivacySettings(privacyConfigPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, settings)

	cfg, err := settings.ToDeidConfig()
	if err != nil {
		return err
	}
	pipeline, err := deid.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ds, err := datafile.LoadCSV(inputFilePath, ',')
	if err != nil {
		return err
	}
	utils.PrintAndLog("Loaded %d records from %q.", ds.Len(), inputFilePath)

	result, err := pipeline.Run(ds)
	if err != nil {
		return err
	}

	if outputFilePath == "" {
		outputFilePath = filepath.Join(workspaceDir, "data", "deidentified.csv")
	}
	if err := datafile.WriteCSV(result.Dataset, outputFilePath, ','); err != nil {
		return err
	}

	descriptor := &datafile.Descriptor{
		FileFormat:   "csv",
		Delimiter:    ",",
		HasHeader:    true,
		FilePath:     outputFilePath,
		RowCount:     int64(result.OutputRows),
		WorkspaceDir: workspaceDir,
	}
	if err := descriptor.Save(); err != nil {
		return err
	}
	if err := saveSettingsSnapshot(workspaceDir, settings); err != nil {
		return err
	}

	if err := recordRun(settings, result, startTime); err != nil {
		return err
	}

	utils.PrintAndLog("De-identified dataset written to %q.", outputFilePath)
	if result.SuppressedRows > 0 {
		color.Yellow("%d of %d records suppressed to maintain k=%d anonymity (%.0f%% retained).",
			result.SuppressedRows, result.InputRows, settings.K, result.RetentionPct())
	} else {
		color.Green("Privacy requirements met for all %d records.", result.OutputRows)
	}
	return nil
}

// applyFlagOverrides lets the command line override individual knobs of the
// loaded settings file.
func applyFlagOverrides(cmd *cobra.Command, settings *PrivacySettings) {
	if cmd.Flags().Changed("k-anonymity") {
		settings.K = flagK
	}
	if cmd.Flags().Changed("salt") {
		settings.Salt = flagSalt
	}
	if cmd.Flags().Changed("quasi-identifiers") {
		settings.QuasiIdentifiers = nil
		for _, attr := range strings.Split(flagQuasiIdentList, ",") {
			if attr = strings.TrimSpace(attr); attr != "" {
				settings.QuasiIdentifiers = append(settings.QuasiIdentifiers, attr)
			}
		}
	}
}

func recordRun(settings *PrivacySettings, result *deid.Result, startTime time.Time) error {
	err := metadb.CreateAndInitMetaDBIfRequired(workspaceDir)
	if err != nil {
		return fmt.Errorf("init meta db: %w", err)
	}
	metaDB, err := metadb.NewMetaDB(workspaceDir)
	if err != nil {
		return err
	}
	defer metaDB.Close()

	return metaDB.InsertRunRecord(&metadb.RunRecord{
		RunID:            uuid.New().String(),
		AuditID:          settings.AuditID(),
		StartedAt:        startTime,
		K:                settings.K,
		QuasiIdentifiers: settings.QuasiIdentifiers,
		InputFile:        inputFilePath,
		OutputFile:       outputFilePath,
		InputRows:        result.InputRows,
		OutputRows:       result.OutputRows,
		SuppressedRows:   result.SuppressedRows,
		ClassSizes:       result.ClassSizes,
	})
}
