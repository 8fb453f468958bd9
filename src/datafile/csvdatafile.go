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
	"encoding/csv"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/healthymoms/hma-deidentifier/src/dataset"
)

// LoadCSV reads a delimited file with a header row into a dataset. Cell
// values are parsed into their narrowest kind (int, float, string).
func LoadCSV(filePath string, delimiter rune) (*dataset.Dataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open data file %q: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %q: %w", filePath, err)
	}

	ds := dataset.NewDataset(header)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read data file %q: %w", filePath, err)
		}
		rec := make(dataset.Record, len(header))
		for i, attr := range header {
			rec[attr] = dataset.ParseValue(row[i])
		}
		if err := ds.AddRecord(rec); err != nil {
			return nil, fmt.Errorf("data file %q: %w", filePath, err)
		}
	}
	log.Infof("loaded %d records with %d attributes from %q", ds.Len(), len(ds.Attributes), filePath)
	return ds, nil
}

// WriteCSV writes ds to filePath with a header row, preserving the
// dataset's attribute order.
func WriteCSV(ds *dataset.Dataset, filePath string, delimiter rune) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create data file %q: %w", filePath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = delimiter
	if err := writer.Write(ds.Attributes); err != nil {
		return fmt.Errorf("write header to %q: %w", filePath, err)
	}
	row := make([]string, len(ds.Attributes))
	for _, rec := range ds.Records {
		for i, attr := range ds.Attributes {
			row[i] = rec[attr].String()
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record to %q: %w", filePath, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush data file %q: %w", filePath, err)
	}
	log.Infof("wrote %d records to %q", ds.Len(), filePath)
	return nil
}
