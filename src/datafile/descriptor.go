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
	"fmt"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"

	"github.com/healthymoms/hma-deidentifier/src/config"
	"github.com/healthymoms/hma-deidentifier/src/utils/jsonfile"
)

const DESCRIPTOR_PATH = "metainfo/datasetDescriptor.json"

// Descriptor records how the last dataset file written into the workspace
// should be read back: format, delimiter, header presence and row count.
type Descriptor struct {
	FileFormat   string `json:"FileFormat"`
	Delimiter    string `json:"Delimiter"`
	HasHeader    bool   `json:"HasHeader"`
	FilePath     string `json:"FilePath"`
	RowCount     int64  `json:"RowCount"`
	WorkspaceDir string `json:"-"`
}

func descriptorFile(workspaceDir string) *jsonfile.JsonFile[Descriptor] {
	return jsonfile.NewJsonFile[Descriptor](filepath.Join(workspaceDir, DESCRIPTOR_PATH))
}

func OpenDescriptor(workspaceDir string) (*Descriptor, error) {
	d, err := descriptorFile(workspaceDir).Read()
	if err != nil {
		return nil, fmt.Errorf("load dataset descriptor: %w", err)
	}
	d.WorkspaceDir = workspaceDir
	// Relative paths in the JSON are anchored at the workspace data dir.
	if !filepath.IsAbs(d.FilePath) {
		d.FilePath = filepath.Join(workspaceDir, "data", d.FilePath)
	}
	if config.IsLogLevelDebugOrBelow() {
		log.Debugf("parsed dataset descriptor: %v", spew.Sdump(d))
	}
	return d, nil
}

func (d *Descriptor) Save() error {
	log.Infof("storing dataset descriptor under %q", d.WorkspaceDir)
	err := descriptorFile(d.WorkspaceDir).Create(d)
	if err != nil {
		return fmt.Errorf("save dataset descriptor: %w", err)
	}
	return nil
}
