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

	log "github.com/sirupsen/logrus"

	"github.com/healthymoms/hma-deidentifier/src/dataset"
)

// Config is the full caller-supplied de-identification configuration.
type Config struct {
	// K is the minimum equivalence-class size a record needs to survive
	// suppression. Must be >= 1.
	K int

	// Salt feeds the one-way identifier transform. Not a managed secret,
	// but not public either: changing it re-keys every pseudonym.
	Salt string

	// QuasiIdentifiers selects the attributes whose generalized tuple keys
	// the equivalence classes. May be empty (single implicit class).
	QuasiIdentifiers []string

	// DirectIdentifiers maps each direct-identifier attribute to its
	// redaction policy.
	DirectIdentifiers map[string]RedactionPolicy

	// Generalization maps quasi-identifier attributes to their coarsening
	// policies.
	Generalization map[string]GeneralizationSpec
}

func (c *Config) Validate() error {
	if c.K < 1 {
		return fmt.Errorf("k must be >= 1, got %d", c.K)
	}
	for attr, policy := range c.DirectIdentifiers {
		if _, err := ParseRedactionPolicy(string(policy)); err != nil {
			return fmt.Errorf("direct identifier %q: %w", attr, err)
		}
		if policy == RedactHash && c.Salt == "" {
			return fmt.Errorf("direct identifier %q uses the hash policy but no salt is configured", attr)
		}
	}
	return nil
}

// Result is the processed dataset plus its derived statistics.
type Result struct {
	Dataset        *dataset.Dataset
	InputRows      int
	OutputRows     int
	SuppressedRows int
	ClassSizes     map[string]int
}

func (r *Result) RetentionPct() float64 {
	if r.InputRows == 0 {
		return 100
	}
	return float64(r.OutputRows) / float64(r.InputRows) * 100
}

// Pipeline composes the three de-identification stages in fixed order:
// identifier redaction, quasi-identifier generalization, k-anonymity
// enforcement. Data flows strictly forward; each stage emits a new dataset.
type Pipeline struct {
	cfg         *Config
	redactor    *Redactor
	generalizer *Generalizer
	enforcer    *Enforcer
}

func NewPipeline(cfg *Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid de-identification config: %w", err)
	}
	generalizers, err := BuildGeneralizers(cfg.Generalization)
	if err != nil {
		return nil, fmt.Errorf("invalid generalization config: %w", err)
	}
	return &Pipeline{
		cfg:         cfg,
		redactor:    NewRedactor(cfg.DirectIdentifiers, cfg.Salt),
		generalizer: NewGeneralizer(generalizers),
		enforcer:    NewEnforcer(cfg.K, cfg.QuasiIdentifiers),
	}, nil
}

// validate runs every schema check against the raw input before any
// transform executes. A redaction must never run if a later stage is going
// to abort: that would leave the caller holding a partially de-identified
// table.
func (p *Pipeline) validate(ds *dataset.Dataset) error {
	if err := p.redactor.Validate(ds); err != nil {
		return err
	}
	if err := p.generalizer.Validate(ds); err != nil {
		return err
	}
	return p.enforcer.Validate(ds)
}

// Run executes the pipeline once over ds and returns the processed dataset
// with its suppression statistics. ds is never mutated; the computation is
// pure, so a failed run can simply be retried after fixing input or config.
func (p *Pipeline) Run(ds *dataset.Dataset) (*Result, error) {
	if err := p.validate(ds); err != nil {
		return nil, err
	}

	redacted, err := p.redactor.Apply(ds)
	if err != nil {
		return nil, fmt.Errorf("identifier redaction: %w", err)
	}
	log.Infof("redacted %d direct identifier attribute(s) over %d records",
		len(p.cfg.DirectIdentifiers), redacted.Len())

	generalized, err := p.generalizer.Apply(redacted)
	if err != nil {
		return nil, fmt.Errorf("quasi-identifier generalization: %w", err)
	}
	log.Infof("generalized %d quasi-identifier attribute(s)", len(p.cfg.Generalization))

	processed, stats, err := p.enforcer.Apply(generalized)
	if err != nil {
		return nil, fmt.Errorf("k-anonymity enforcement: %w", err)
	}
	log.Infof("k-anonymity (k=%d) over %v: %d of %d records retained, %d suppressed",
		p.cfg.K, p.cfg.QuasiIdentifiers, stats.OutputRows, stats.InputRows, stats.SuppressedRows)

	return &Result{
		Dataset:        processed,
		InputRows:      stats.InputRows,
		OutputRows:     stats.OutputRows,
		SuppressedRows: stats.SuppressedRows,
		ClassSizes:     stats.ClassSizes,
	}, nil
}
