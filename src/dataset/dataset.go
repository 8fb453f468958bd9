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
package dataset

import (
	"fmt"

	"github.com/samber/lo"
)

// Record maps attribute name to cell value. Column order lives on the
// Dataset; all records of a dataset share its attribute set.
type Record map[string]Value

func (r Record) Clone() Record {
	clone := make(Record, len(r))
	for attr, val := range r {
		clone[attr] = val
	}
	return clone
}

// Dataset is an ordered sequence of records over a fixed attribute list.
type Dataset struct {
	Attributes []string
	Records    []Record
}

func NewDataset(attributes []string) *Dataset {
	return &Dataset{
		Attributes: attributes,
	}
}

func (ds *Dataset) Len() int {
	return len(ds.Records)
}

func (ds *Dataset) HasAttribute(attr string) bool {
	return lo.Contains(ds.Attributes, attr)
}

// MissingAttributes returns the subset of attrs absent from the dataset
// schema, preserving the order of attrs.
func (ds *Dataset) MissingAttributes(attrs []string) []string {
	return lo.Filter(attrs, func(attr string, _ int) bool {
		return !ds.HasAttribute(attr)
	})
}

func (ds *Dataset) AddRecord(rec Record) error {
	if len(rec) != len(ds.Attributes) {
		return fmt.Errorf("record has %d attributes, dataset schema has %d", len(rec), len(ds.Attributes))
	}
	for _, attr := range ds.Attributes {
		if _, ok := rec[attr]; !ok {
			return fmt.Errorf("record is missing attribute %q", attr)
		}
	}
	ds.Records = append(ds.Records, rec)
	return nil
}

// WithoutAttribute returns a new dataset with attr dropped from the schema
// and from every record. The receiver is not modified.
func (ds *Dataset) WithoutAttribute(attr string) *Dataset {
	out := NewDataset(lo.Without(ds.Attributes, attr))
	for _, rec := range ds.Records {
		clone := rec.Clone()
		delete(clone, attr)
		out.Records = append(out.Records, clone)
	}
	return out
}

// DistinctValues returns the number of distinct rendered values of attr.
func (ds *Dataset) DistinctValues(attr string) int {
	seen := make(map[string]bool)
	for _, rec := range ds.Records {
		seen[rec[attr].String()] = true
	}
	return len(seen)
}
