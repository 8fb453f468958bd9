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
	"strconv"
)

type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a tagged scalar cell value. Modelling the kind explicitly makes
// generalization-policy type mismatches a checked condition instead of a
// runtime surprise.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
}

func NewStringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

func NewIntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func NewFloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// ParseValue infers the narrowest kind for a raw cell: int, then float,
// falling back to string.
func ParseValue(raw string) Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return NewIntValue(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return NewFloatValue(f)
	}
	return NewStringValue(raw)
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Float returns the numeric value of an int or float Value.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// String renders the value the way it is written to output files.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return v.s
	}
}
