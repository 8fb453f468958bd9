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
	"os"
	"path/filepath"
	"strings"

	"github.com/nightlyone/lockfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/healthymoms/hma-deidentifier/src/config"
	"github.com/healthymoms/hma-deidentifier/src/utils"
)

var (
	cfgFile      string
	workspaceDir string
	lockFile     lockfile.Lockfile
)

var rootCmd = &cobra.Command{
	Use:   "hma-deidentifier",
	Short: "A CLI tool to de-identify tabular clinical datasets using hashing, generalization and k-anonymity",
	Long: `A CLI tool that transitions raw clinical data containing PII into a de-identified, research-ready dataset.
Direct identifiers are dropped or replaced with salted one-way pseudonyms, quasi-identifiers are generalized
into coarser categories, and records that remain distinguishable within a group smaller than k are suppressed.`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if config.LogLevel != "" {
			if err := config.ValidateLogLevel(); err != nil {
				utils.ErrExit("%v", err)
			}
		}
		if workspaceDir != "" && utils.FileOrFolderExists(workspaceDir) {
			if cmd.Use != "version" && cmd.Use != "report" {
				lockWorkspaceDir()
			}
			InitLogging(workspaceDir, cmd.Use == "version", cmd.Use)
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			os.Exit(0)
		}
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if workspaceDir != "" && utils.FileOrFolderExists(workspaceDir) && cmd.Use != "version" && cmd.Use != "report" {
			unlockWorkspaceDir()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func registerCommonGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&workspaceDir, "workspace-dir", "w", "",
		"workspace directory used to keep the input/output data, audit database, and logs")

	cmd.PersistentFlags().StringVarP(&config.LogLevel, "log-level", "l", "info",
		"log level for the workspace log file (trace, debug, info, warn, error, fatal, panic)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".hma-deidentifier" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hma-deidentifier")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func validateWorkspaceDirFlag() {
	if workspaceDir == "" {
		utils.ErrExit(`ERROR: required flag "workspace-dir" not set`)
	}
	if !utils.FileOrFolderExists(workspaceDir) {
		utils.ErrExit("workspace-dir %q doesn't exists.\n", workspaceDir)
	} else if workspaceDir == "." {
		fmt.Println("Note: Using current working directory as workspace directory")
	} else {
		workspaceDir = strings.TrimRight(workspaceDir, "/")
	}
}

// initWorkspaceDirLayout creates the data/metainfo/logs subdirs on first use.
func initWorkspaceDirLayout() {
	for _, subdir := range []string{"data", "metainfo", "logs"} {
		err := os.MkdirAll(filepath.Join(workspaceDir, subdir), 0755)
		if err != nil {
			utils.ErrExit("creating workspace subdirectory %q: %v", subdir, err)
		}
	}
}

func lockWorkspaceDir() {
	lockFilePath, err := filepath.Abs(filepath.Join(workspaceDir, ".lockfile.lck"))
	if err != nil {
		utils.ErrExit("Failed to get absolute path for lockfile: %v\n", err)
	}
	lockFile, err = lockfile.New(lockFilePath)
	if err != nil {
		utils.ErrExit("Failed to create lockfile %q: %v\n", lockFilePath, err)
	}
	err = lockFile.TryLock()
	if err != nil {
		utils.ErrExit("Another hma-deidentifier process is running in workspace-dir %q: %v\n", workspaceDir, err)
	}
}

func unlockWorkspaceDir() {
	err := lockFile.Unlock()
	if err != nil {
		utils.PrintAndLog("Unable to unlock %q: %v", lockFile, err)
	}
}

func exitIfError(err error) {
	if err != nil {
		utils.ErrExit("error: %s", err)
	}
}
