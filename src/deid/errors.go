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

// SchemaError reports a configured attribute that is absent from the input
// schema. It is raised during pipeline validation, before any transform
// runs, because partially redacted PII must never be emitted.
type SchemaError struct {
	Attribute string
	Stage     string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: configured attribute %q not present in input schema", e.Stage, e.Attribute)
}

// ValueError reports a cell value incompatible with the generalization
// policy configured for its attribute. The whole run fails; no partially
// generalized dataset is emitted.
type ValueError struct {
	Attribute string
	Value     dataset.Value
	Policy    string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("attribute %q: value %q (%s) is not valid for %s generalization",
		e.Attribute, e.Value.String(), e.Value.Kind(), e.Policy)
}
