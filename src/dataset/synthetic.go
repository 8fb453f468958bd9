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
	"math"
	"math/rand"
)

// SYNTHETIC_SEED keeps demo datasets reproducible across runs.
const SYNTHETIC_SEED = 42

var syntheticNames = []string{
	"John Smith", "Maria Garcia", "Robert Chen", "Sarah Johnson", "Michael Brown",
	"Emma Wilson", "David Miller", "Lisa Anderson", "James Taylor", "Ana Martinez",
}

var syntheticAges = []int64{23, 25, 31, 34, 45, 47, 52, 58, 61, 64}

var syntheticZIPCodes = []string{
	"12345", "12347", "12401", "12402", "54321", "54322", "90210", "90211", "33101", "33105",
}

var syntheticDiagnoses = []string{
	"Hypertension", "Diabetes", "Asthma", "Hypertension", "Diabetes",
	"Asthma", "Hypertension", "Hypertension", "Diabetes", "Asthma",
}

// SyntheticClinical generates the demo "dirty" clinical dataset: raw PII
// (patient name and ID), high resolution quasi-identifiers (age, ZIP,
// gender) and clinical attributes. The first ten rows reproduce the
// standard HMA demo patients; additional rows are drawn from the same
// pools with the seeded source.
func SyntheticClinical(rows int) *Dataset {
	rng := rand.New(rand.NewSource(SYNTHETIC_SEED))
	ds := NewDataset([]string{
		"Patient_Name", "Patient_ID", "Age", "ZIP_Code", "Gender", "Diagnosis", "Treatment_Cost",
	})
	for i := 0; i < rows; i++ {
		name := syntheticNames[i%len(syntheticNames)]
		age := syntheticAges[i%len(syntheticAges)]
		zip := syntheticZIPCodes[i%len(syntheticZIPCodes)]
		diagnosis := syntheticDiagnoses[i%len(syntheticDiagnoses)]
		if i >= len(syntheticNames) {
			name = fmt.Sprintf("%s %d", name, i/len(syntheticNames)+1)
			age = 20 + int64(rng.Intn(50))
		}
		gender := "M"
		if i%2 == 1 {
			gender = "F"
		}
		cost := math.Round((500+rng.Float64()*4500)*100) / 100

		rec := Record{
			"Patient_Name":   NewStringValue(name),
			"Patient_ID":     NewStringValue(fmt.Sprintf("PID-%d", 1000+rng.Intn(9000))),
			"Age":            NewIntValue(age),
			"ZIP_Code":       NewStringValue(zip),
			"Gender":         NewStringValue(gender),
			"Diagnosis":      NewStringValue(diagnosis),
			"Treatment_Cost": NewFloatValue(cost),
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds
}
