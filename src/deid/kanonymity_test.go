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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthymoms/hma-deidentifier/src/dataset"
)

// generalizedDataset builds 10 records forming three equivalence classes
// over (Age, ZIP_Code, Gender) with sizes {4, 4, 2}.
func generalizedDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.NewDataset([]string{"ID", "Age", "ZIP_Code", "Gender"})
	classes := []struct {
		age, zip, gender string
		size             int
	}{
		{"20s", "123**", "M", 4},
		{"40s", "543**", "F", 4},
		{"60s", "902**", "M", 2},
	}
	id := 0
	for _, class := range classes {
		for i := 0; i < class.size; i++ {
			id++
			require.NoError(t, ds.AddRecord(dataset.Record{
				"ID":       dataset.NewIntValue(int64(id)),
				"Age":      dataset.NewStringValue(class.age),
				"ZIP_Code": dataset.NewStringValue(class.zip),
				"Gender":   dataset.NewStringValue(class.gender),
			}))
		}
	}
	return ds
}

func TestEnforcerSuppressesSmallClasses(t *testing.T) {
	ds := generalizedDataset(t)
	enforcer := NewEnforcer(3, []string{"Age", "ZIP_Code", "Gender"})

	out, stats, err := enforcer.Apply(ds)
	require.NoError(t, err)

	assert.Equal(t, 8, out.Len())
	assert.Equal(t, 2, stats.SuppressedRows)
	assert.Equal(t, 10, stats.InputRows)
	assert.Equal(t, map[string]int{
		"20s / 123** / M": 4,
		"40s / 543** / F": 4,
		"60s / 902** / M": 2,
	}, stats.ClassSizes)

	// the size-2 class is gone entirely
	for _, rec := range out.Records {
		assert.NotEqual(t, "60s", rec["Age"].String())
	}
}

func TestEnforcerKOneSuppressesNothing(t *testing.T) {
	ds := generalizedDataset(t)
	out, stats, err := NewEnforcer(1, []string{"Age", "ZIP_Code", "Gender"}).Apply(ds)
	require.NoError(t, err)
	assert.Equal(t, ds.Len(), out.Len())
	assert.Equal(t, 0, stats.SuppressedRows)
}

func TestEnforcerSuppressionMonotonicInK(t *testing.T) {
	ds := generalizedDataset(t)
	prev := -1
	for k := 1; k <= 6; k++ {
		_, stats, err := NewEnforcer(k, []string{"Age", "ZIP_Code", "Gender"}).Apply(ds)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stats.SuppressedRows, prev, "k=%d", k)
		prev = stats.SuppressedRows
	}
}

func TestEnforcerPostCondition(t *testing.T) {
	ds := generalizedDataset(t)
	k := 3
	enforcer := NewEnforcer(k, []string{"Age", "ZIP_Code", "Gender"})
	out, _, err := enforcer.Apply(ds)
	require.NoError(t, err)

	// every retained tuple occurs at least k times among retained records
	counts := make(map[string]int)
	for _, rec := range out.Records {
		key := fmt.Sprintf("%s|%s|%s", rec["Age"].String(), rec["ZIP_Code"].String(), rec["Gender"].String())
		counts[key]++
	}
	for key, n := range counts {
		assert.GreaterOrEqual(t, n, k, "tuple %s", key)
	}
}

func TestEnforcerPreservesInputOrder(t *testing.T) {
	ds := generalizedDataset(t)
	out, _, err := NewEnforcer(3, []string{"Age", "ZIP_Code", "Gender"}).Apply(ds)
	require.NoError(t, err)

	var prev int64 = 0
	for _, rec := range out.Records {
		id, ok := rec["ID"].Float()
		require.True(t, ok)
		assert.Greater(t, int64(id), prev)
		prev = int64(id)
	}
}

func TestEnforcerEmptyQuasiIdentifierSet(t *testing.T) {
	ds := generalizedDataset(t) // 10 records

	// all-or-nothing: 10 >= 2, everything retained
	out, stats, err := NewEnforcer(2, nil).Apply(ds)
	require.NoError(t, err)
	assert.Equal(t, 10, out.Len())
	assert.Equal(t, 0, stats.SuppressedRows)
	assert.Equal(t, map[string]int{IMPLICIT_CLASS_KEY: 10}, stats.ClassSizes)

	// single record below k: everything suppressed
	single := dataset.NewDataset([]string{"ID"})
	require.NoError(t, single.AddRecord(dataset.Record{"ID": dataset.NewIntValue(1)}))
	out, stats, err = NewEnforcer(2, nil).Apply(single)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 1, stats.SuppressedRows)
}

func TestEnforcerSeparatorInValuesDoesNotMergeClasses(t *testing.T) {
	ds := dataset.NewDataset([]string{"A", "B"})
	require.NoError(t, ds.AddRecord(dataset.Record{
		"A": dataset.NewStringValue("x / y"),
		"B": dataset.NewStringValue("z"),
	}))
	require.NoError(t, ds.AddRecord(dataset.Record{
		"A": dataset.NewStringValue("x"),
		"B": dataset.NewStringValue("y / z"),
	}))

	// Both tuples render identically with the display separator, but they
	// are distinct and each occurs once, so k=2 must suppress them both.
	out, stats, err := NewEnforcer(2, []string{"A", "B"}).Apply(ds)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 2, stats.SuppressedRows)
	assert.Equal(t, map[string]int{"x / y / z": 2}, stats.ClassSizes)
}

func TestEnforcerMissingAttributeIsSchemaError(t *testing.T) {
	ds := generalizedDataset(t)
	_, _, err := NewEnforcer(2, []string{"Age", "Occupation"}).Apply(ds)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "Occupation", schemaErr.Attribute)
}
