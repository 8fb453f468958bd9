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
	"fmt"

	"github.com/healthymoms/hma-deidentifier/src/dataset"
)

// MeanByCategory averages a numeric attribute per distinct value of a
// category attribute. The report command uses it to show that clinical
// trends (mean treatment cost per diagnosis) survive de-identification.
func MeanByCategory(ds *dataset.Dataset, categoryAttr, numericAttr string) (map[string]float64, error) {
	if !ds.HasAttribute(categoryAttr) {
		return nil, &SchemaError{Attribute: categoryAttr, Stage: "utility analysis"}
	}
	if !ds.HasAttribute(numericAttr) {
		return nil, &SchemaError{Attribute: numericAttr, Stage: "utility analysis"}
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range ds.Records {
		if !rec[numericAttr].IsNumeric() {
			return nil, fmt.Errorf("attribute %q: non-numeric value %q in utility analysis",
				numericAttr, rec[numericAttr].String())
		}
		f, _ := rec[numericAttr].Float()
		cat := rec[categoryAttr].String()
		sums[cat] += f
		counts[cat]++
	}

	means := make(map[string]float64, len(sums))
	for cat, sum := range sums {
		means[cat] = sum / float64(counts[cat])
	}
	return means, nil
}
