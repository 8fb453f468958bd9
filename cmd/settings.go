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
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/healthymoms/hma-deidentifier/src/deid"
	"github.com/healthymoms/hma-deidentifier/src/utils/jsonfile"
)

const SETTINGS_SNAPSHOT_PATH = "metainfo/privacySettings.json"

// PrivacySettings is the file/flag-facing form of the de-identification
// configuration. Defaults mirror the standard HMA clinical demo schema.
type PrivacySettings struct {
	K int `mapstructure:"k" json:"k"`

	// Salt is kept out of the JSON snapshot; only its AuditID fingerprint
	// is recorded.
	Salt string `mapstructure:"salt" json:"-"`

	QuasiIdentifiers  []string                           `mapstructure:"quasi-identifiers" json:"quasi-identifiers"`
	DirectIdentifiers map[string]string                  `mapstructure:"direct-identifiers" json:"direct-identifiers"`
	Generalization    map[string]deid.GeneralizationSpec `mapstructure:"generalization" json:"generalization"`
}

func defaultPrivacySettings() *PrivacySettings {
	return &PrivacySettings{
		K:                2,
		Salt:             "HMA-2026-SECURE",
		QuasiIdentifiers: []string{"Age", "ZIP_Code", "Gender"},
		DirectIdentifiers: map[string]string{
			"Patient_Name": string(deid.RedactRemove),
			"Patient_ID":   string(deid.RedactHash),
		},
		Generalization: map[string]deid.GeneralizationSpec{
			"Age":      {Policy: deid.POLICY_BIN, Width: 10},
			"ZIP_Code": {Policy: deid.POLICY_PREFIX, Length: 3},
		},
	}
}

// loadPrivacySettings reads the settings file if given, otherwise starts
// from defaults; command-line flags override either.
func loadPrivacySettings(configPath string) (*PrivacySettings, error) {
	settings := defaultPrivacySettings()
	if configPath == "" {
		return settings, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read privacy config %q: %w", configPath, err)
	}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("parse privacy config %q: %w", configPath, err)
	}
	return settings, nil
}

// ToDeidConfig converts the settings into the core pipeline configuration.
func (s *PrivacySettings) ToDeidConfig() (*deid.Config, error) {
	directIdentifiers := make(map[string]deid.RedactionPolicy, len(s.DirectIdentifiers))
	for attr, policy := range s.DirectIdentifiers {
		parsed, err := deid.ParseRedactionPolicy(policy)
		if err != nil {
			return nil, fmt.Errorf("direct identifier %q: %w", attr, err)
		}
		directIdentifiers[attr] = parsed
	}
	return &deid.Config{
		K:                 s.K,
		Salt:              s.Salt,
		QuasiIdentifiers:  s.QuasiIdentifiers,
		DirectIdentifiers: directIdentifiers,
		Generalization:    s.Generalization,
	}, nil
}

// AuditID derives the stable audit tag shown in governance reports. It is a
// label on the salt generation, not a secrecy boundary, so a short md5
// fingerprint is enough.
func (s *PrivacySettings) AuditID() string {
	sum := md5.Sum([]byte(s.Salt))
	return "SEC-DOC-" + strings.ToUpper(hex.EncodeToString(sum[:])[:6])
}

// saveSettingsSnapshot records the resolved settings of the last run in the
// workspace so reports can show what configuration produced the output.
func saveSettingsSnapshot(workspaceDir string, settings *PrivacySettings) error {
	snapshot := jsonfile.NewJsonFile[PrivacySettings](filepath.Join(workspaceDir, SETTINGS_SNAPSHOT_PATH))
	return snapshot.Create(settings)
}
