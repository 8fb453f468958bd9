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
package deid

import (
	"strings"

	"github.com/healthymoms/hma-deidentifier/src/dataset"
)

// IMPLICIT_CLASS_KEY is the equivalence-class key used when no
// quasi-identifiers are selected and the whole dataset forms one class.
const IMPLICIT_CLASS_KEY = "(all records)"

// EnforcementStats describes the outcome of one k-anonymity pass.
type EnforcementStats struct {
	InputRows      int
	OutputRows     int
	SuppressedRows int
	// ClassSizes maps each equivalence-class label (the rendered
	// quasi-identifier tuple, for reports and the audit trail) to its
	// pre-suppression cardinality. Grouping itself never runs on these
	// labels.
	ClassSizes map[string]int
}

// Enforcer suppresses whole records whose generalized quasi-identifier
// tuple occurs fewer than K times. Records are never split, merged, or
// value-altered here; the retained records keep their input order.
type Enforcer struct {
	K                int
	QuasiIdentifiers []string
}

func NewEnforcer(k int, quasiIdentifiers []string) *Enforcer {
	return &Enforcer{K: k, QuasiIdentifiers: quasiIdentifiers}
}

func (e *Enforcer) Validate(ds *dataset.Dataset) error {
	for _, attr := range e.QuasiIdentifiers {
		if !ds.HasAttribute(attr) {
			return &SchemaError{Attribute: attr, Stage: "k-anonymity enforcement"}
		}
	}
	return nil
}

// classKey is the grouping key of a record's quasi-identifier tuple. The
// values are joined with NUL so a separator occurring inside a value cannot
// make two distinct tuples collide into one class.
func (e *Enforcer) classKey(rec dataset.Record) string {
	if len(e.QuasiIdentifiers) == 0 {
		// Degenerate case: with no quasi-identifiers selected every record
		// shares one implicit class, so the dataset is retained or
		// suppressed as a whole depending on its total size vs K.
		return IMPLICIT_CLASS_KEY
	}
	parts := make([]string, len(e.QuasiIdentifiers))
	for i, attr := range e.QuasiIdentifiers {
		parts[i] = rec[attr].String()
	}
	return strings.Join(parts, "\x00")
}

// classLabel renders the tuple for reports and the audit trail. Never used
// for grouping.
func (e *Enforcer) classLabel(rec dataset.Record) string {
	if len(e.QuasiIdentifiers) == 0 {
		return IMPLICIT_CLASS_KEY
	}
	parts := make([]string, len(e.QuasiIdentifiers))
	for i, attr := range e.QuasiIdentifiers {
		parts[i] = rec[attr].String()
	}
	return strings.Join(parts, " / ")
}

// Apply needs a full counting pass before any suppression decision can be
// made, so it buffers class sizes first and filters second.
func (e *Enforcer) Apply(ds *dataset.Dataset) (*dataset.Dataset, *EnforcementStats, error) {
	if err := e.Validate(ds); err != nil {
		return nil, nil, err
	}

	classSizes := make(map[string]int)
	classLabels := make(map[string]string)
	for _, rec := range ds.Records {
		key := e.classKey(rec)
		classSizes[key]++
		if _, ok := classLabels[key]; !ok {
			classLabels[key] = e.classLabel(rec)
		}
	}

	out := dataset.NewDataset(ds.Attributes)
	for _, rec := range ds.Records {
		if classSizes[e.classKey(rec)] >= e.K {
			out.Records = append(out.Records, rec.Clone())
		}
	}

	labelSizes := make(map[string]int, len(classSizes))
	for key, size := range classSizes {
		labelSizes[classLabels[key]] += size
	}

	stats := &EnforcementStats{
		InputRows:      ds.Len(),
		OutputRows:     out.Len(),
		SuppressedRows: ds.Len() - out.Len(),
		ClassSizes:     labelSizes,
	}
	return out, stats, nil
}
