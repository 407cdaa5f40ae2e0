package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/productscience/monorange/runconfig"
	"github.com/productscience/monorange/runconfig/schema"
)

// outcome is everything one load/resolve/validate pass found.
type outcome struct {
	source     string
	doc        *runconfig.Document
	validated  *runconfig.Validated
	mismatches []runconfig.AliasMismatch
	violations []schema.Violation
	warnings   []schema.Warning
	err        error
}

// failed reports whether the config cannot be used.
func (o *outcome) failed() bool { return o.err != nil }

func loadConfig(cmd *cobra.Command, args []string) (*outcome, error) {
	opts, err := loadOptions(cmd)
	if err != nil {
		return nil, err
	}
	o := &outcome{source: configPath(args)}
	reg := schema.Default()

	o.doc, o.err = runconfig.Load(o.source, opts...)
	if o.err != nil {
		return o, nil
	}

	aliasErr := runconfig.ResolveAliases(o.doc, reg)
	var mismatch *runconfig.AliasMismatchError
	if errors.As(aliasErr, &mismatch) {
		o.mismatches = mismatch.Mismatches
	}

	o.validated, o.err = runconfig.Validate(o.doc, reg)
	var schemaErr *runconfig.SchemaError
	if errors.As(o.err, &schemaErr) {
		o.violations = schemaErr.Violations
	}
	if o.validated != nil {
		o.warnings = o.validated.Warnings
	}
	if o.err == nil {
		o.err = aliasErr
	}
	return o, nil
}
