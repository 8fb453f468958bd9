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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValueInfersNarrowestKind(t *testing.T) {
	assert.Equal(t, KindInt, ParseValue("42").Kind())
	assert.Equal(t, KindFloat, ParseValue("42.5").Kind())
	assert.Equal(t, KindString, ParseValue("12401A").Kind())
	assert.Equal(t, KindString, ParseValue("").Kind())

	v := ParseValue("-17")
	f, ok := v.Float()
	require.True(t, ok)
	assert.Equal(t, float64(-17), f)
}

func TestValueIsNumeric(t *testing.T) {
	assert.True(t, NewIntValue(42).IsNumeric())
	assert.True(t, NewFloatValue(42.5).IsNumeric())
	assert.False(t, NewStringValue("42nd").IsNumeric())
}

func TestValueStringRendering(t *testing.T) {
	assert.Equal(t, "42", NewIntValue(42).String())
	assert.Equal(t, "1234.5", NewFloatValue(1234.5).String())
	assert.Equal(t, "90210", NewStringValue("90210").String())
	// no trailing zero noise on round floats
	assert.Equal(t, "1500", NewFloatValue(1500).String())
}

func TestAddRecordRejectsSchemaMismatch(t *testing.T) {
	ds := NewDataset([]string{"Age", "Gender"})
	err := ds.AddRecord(Record{"Age": NewIntValue(40)})
	assert.Error(t, err)

	err = ds.AddRecord(Record{"Age": NewIntValue(40), "Zip": NewStringValue("12345")})
	assert.Error(t, err)

	err = ds.AddRecord(Record{"Age": NewIntValue(40), "Gender": NewStringValue("F")})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestWithoutAttributeDoesNotMutateReceiver(t *testing.T) {
	ds := NewDataset([]string{"Name", "Age"})
	require.NoError(t, ds.AddRecord(Record{"Name": NewStringValue("John Smith"), "Age": NewIntValue(45)}))

	out := ds.WithoutAttribute("Name")
	assert.Equal(t, []string{"Age"}, out.Attributes)
	assert.NotContains(t, out.Records[0], "Name")

	// original untouched
	assert.Equal(t, []string{"Name", "Age"}, ds.Attributes)
	assert.Contains(t, ds.Records[0], "Name")
}

func TestMissingAttributes(t *testing.T) {
	ds := NewDataset([]string{"Age", "Gender"})
	assert.Empty(t, ds.MissingAttributes([]string{"Age", "Gender"}))
	assert.Equal(t, []string{"ZIP_Code", "Name"}, ds.MissingAttributes([]string{"ZIP_Code", "Age", "Name"}))
}

func TestDistinctValues(t *testing.T) {
	ds := NewDataset([]string{"Gender"})
	for _, g := range []string{"M", "F", "M", "M"} {
		require.NoError(t, ds.AddRecord(Record{"Gender": NewStringValue(g)}))
	}
	assert.Equal(t, 2, ds.DistinctValues("Gender"))
}

func TestSyntheticClinicalIsReproducible(t *testing.T) {
	a := SyntheticClinical(10)
	b := SyntheticClinical(10)
	require.Equal(t, a.Len(), b.Len())
	for i := range a.Records {
		assert.Equal(t, a.Records[i], b.Records[i])
	}
	assert.Equal(t, "John Smith", a.Records[0]["Patient_Name"].String())
	assert.True(t, a.HasAttribute("Treatment_Cost"))
}
