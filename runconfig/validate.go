package runconfig

import (
	"fmt"
	"strings"

	"github.com/productscience/monorange/logging"
	"github.com/productscience/monorange/runconfig/schema"
)

// Validated is a document that passed the registry, with defaults applied.
type Validated struct {
	Config   Config
	Warnings []schema.Warning
	doc      *Document
}

func (v *Validated) Document() *Document { return v.doc }

// Validate checks doc against reg. Every violation is reported in one SchemaError.
// Unknown keys only produce warnings.
func Validate(doc *Document, reg *schema.Registry) (*Validated, error) {
	report := reg.Check(doc, doc.Keys())
	for _, w := range report.Warnings {
		logging.Warn("Run config warning", logging.Schema, "key", doc.describe(w.Path), "message", w.Message)
	}
	if !report.OK() {
		positions := make(map[string]Position)
		for _, v := range report.Violations {
			for _, p := range strings.Split(v.Path, "/") {
				if pos, ok := doc.Position(p); ok {
					positions[p] = pos
				}
			}
		}
		err := &SchemaError{Source: doc.Source(), Violations: report.Violations, Positions: positions}
		logging.Error("Run config failed validation", logging.Schema,
			"source", doc.Source(), "violations", len(report.Violations))
		return nil, err
	}

	k := doc.k.Copy()
	for p, def := range reg.Defaults() {
		if k.Exists(p) {
			continue
		}
		if err := k.Set(p, def); err != nil {
			return nil, fmt.Errorf("applying default %s: %w", p, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	for _, p := range doc.Keys() {
		if !strings.HasPrefix(p, "model.") || !strings.HasSuffix(p, "_loss_coef") {
			continue
		}
		if _, registered := reg.Lookup(p); registered {
			continue
		}
		coef, ok := schema.FloatValue(doc, p)
		if !ok {
			continue
		}
		if cfg.Model.ExtraLossCoefs == nil {
			cfg.Model.ExtraLossCoefs = make(map[string]float64)
		}
		cfg.Model.ExtraLossCoefs[strings.TrimPrefix(p, "model.")] = coef
	}

	return &Validated{Config: cfg, Warnings: report.Warnings, doc: doc}, nil
}
