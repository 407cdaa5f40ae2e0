package runconfig

// DONTCOVER

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sdkerrors "cosmossdk.io/errors"

	"github.com/productscience/monorange/runconfig/schema"
)

const Codespace = "monorange"

// run config sentinel errors
var (
	ErrPath          = sdkerrors.Register(Codespace, 1100, "config file missing or unreadable")
	ErrParse         = sdkerrors.Register(Codespace, 1101, "config file is not valid YAML")
	ErrSchema        = sdkerrors.Register(Codespace, 1102, "config violates schema")
	ErrAliasMismatch = sdkerrors.Register(Codespace, 1103, "aliased config keys disagree")
)

type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPath.Error(), e.Path, e.Err)
}

func (e *PathError) Unwrap() []error { return []error{ErrPath, e.Err} }

type ParseError struct {
	Source string
	Line   int
	Err    error
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Source: source, Err: err}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrParse.Error(), e.Source, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// SchemaError carries every violated constraint found in one validation pass.
type SchemaError struct {
	Source     string
	Violations []schema.Violation
	// Positions holds the source location of the violated keys that were written in the file.
	Positions map[string]Position
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d violation(s)", ErrSchema.Error(), len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
		if pos, ok := e.Positions[strings.Split(v.Path, "/")[0]]; ok {
			fmt.Fprintf(&b, " at %s:%s", e.Source, pos)
		}
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// Has reports whether any violation names the key path.
func (e *SchemaError) Has(path string) bool {
	for _, v := range e.Violations {
		for _, p := range strings.Split(v.Path, "/") {
			if p == path {
				return true
			}
		}
	}
	return false
}

type AliasMismatch struct {
	Path        string `json:"path"`
	Source      string `json:"source"`
	Value       any    `json:"value"`
	SourceValue any    `json:"source_value"`
}

func (m AliasMismatch) String() string {
	return fmt.Sprintf("%s = %v, but it aliases %s = %v", m.Path, m.Value, m.Source, m.SourceValue)
}

type AliasMismatchError struct {
	Mismatches []AliasMismatch
}

func (e *AliasMismatchError) Error() string {
	var b strings.Builder
	b.WriteString(ErrAliasMismatch.Error())
	for _, m := range e.Mismatches {
		b.WriteString("\n  ")
		b.WriteString(m.String())
	}
	return b.String()
}

func (e *AliasMismatchError) Unwrap() error { return ErrAliasMismatch }
