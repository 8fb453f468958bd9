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
	"math"
	"strings"

	"github.com/healthymoms/hma-deidentifier/src/dataset"
)

const (
	POLICY_BIN    = "bin"
	POLICY_PREFIX = "prefix"

	PREFIX_MASK = "**"
)

// ValueGeneralizer coarsens a single cell value. Every implementation must
// be deterministic and many-to-one over its input domain.
type ValueGeneralizer interface {
	Generalize(attr string, v dataset.Value) (dataset.Value, error)
	Policy() string
}

// BinGeneralizer maps a numeric value to the label of its
// floor(v/width)*width bucket: "40s" for ages 40-49 at width 10, a
// "lo-hi" range label for other widths.
type BinGeneralizer struct {
	Width int
}

func (g *BinGeneralizer) Policy() string {
	return POLICY_BIN
}

func (g *BinGeneralizer) Generalize(attr string, v dataset.Value) (dataset.Value, error) {
	f, ok := v.Float()
	if !ok {
		return dataset.Value{}, &ValueError{Attribute: attr, Value: v, Policy: POLICY_BIN}
	}
	lower := int64(math.Floor(f/float64(g.Width))) * int64(g.Width)
	if g.Width == 10 {
		// decade label: ages 40-49 become "40s"
		return dataset.NewStringValue(fmt.Sprintf("%ds", lower)), nil
	}
	return dataset.NewStringValue(fmt.Sprintf("%d-%d", lower, lower+int64(g.Width)-1)), nil
}

// PrefixGeneralizer keeps the leading Length characters of a fixed-format
// code and masks the rest: "12345" -> "123**" at length 3. Values already
// carrying the mask are passed through unchanged, which makes the mapping
// idempotent on its own output domain.
type PrefixGeneralizer struct {
	Length int
}

func (g *PrefixGeneralizer) Policy() string {
	return POLICY_PREFIX
}

func (g *PrefixGeneralizer) Generalize(attr string, v dataset.Value) (dataset.Value, error) {
	s := v.String()
	if strings.HasSuffix(s, PREFIX_MASK) && len(s) <= g.Length+len(PREFIX_MASK) {
		return dataset.NewStringValue(s), nil
	}
	if len(s) > g.Length {
		s = s[:g.Length]
	}
	return dataset.NewStringValue(s + PREFIX_MASK), nil
}

// GeneralizationSpec is the serializable form of a generalization policy,
// as written in the privacy config file.
type GeneralizationSpec struct {
	Policy string `mapstructure:"policy" json:"policy"`
	Width  int    `mapstructure:"width" json:"width,omitempty"`
	Length int    `mapstructure:"length" json:"length,omitempty"`
}

func BuildGeneralizers(specs map[string]GeneralizationSpec) (map[string]ValueGeneralizer, error) {
	generalizers := make(map[string]ValueGeneralizer, len(specs))
	for attr, spec := range specs {
		switch spec.Policy {
		case POLICY_BIN:
			if spec.Width <= 0 {
				return nil, fmt.Errorf("attribute %q: bin width must be positive, got %d", attr, spec.Width)
			}
			generalizers[attr] = &BinGeneralizer{Width: spec.Width}
		case POLICY_PREFIX:
			if spec.Length <= 0 {
				return nil, fmt.Errorf("attribute %q: prefix length must be positive, got %d", attr, spec.Length)
			}
			generalizers[attr] = &PrefixGeneralizer{Length: spec.Length}
		default:
			return nil, fmt.Errorf("attribute %q: unknown generalization policy %q", attr, spec.Policy)
		}
	}
	return generalizers, nil
}

// Generalizer applies the configured per-attribute coarsening to every
// record, producing a new dataset.
type Generalizer struct {
	generalizers map[string]ValueGeneralizer
}

func NewGeneralizer(generalizers map[string]ValueGeneralizer) *Generalizer {
	return &Generalizer{generalizers: generalizers}
}

func (g *Generalizer) Validate(ds *dataset.Dataset) error {
	for attr := range g.generalizers {
		if !ds.HasAttribute(attr) {
			return &SchemaError{Attribute: attr, Stage: "quasi-identifier generalization"}
		}
	}
	return nil
}

func (g *Generalizer) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := g.Validate(ds); err != nil {
		return nil, err
	}

	out := dataset.NewDataset(ds.Attributes)
	for _, rec := range ds.Records {
		clone := rec.Clone()
		for attr, vg := range g.generalizers {
			coarse, err := vg.Generalize(attr, rec[attr])
			if err != nil {
				return nil, err
			}
			clone[attr] = coarse
		}
		out.Records = append(out.Records, clone)
	}
	return out, nil
}
