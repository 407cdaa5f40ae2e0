package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Values is read access to a parsed document by dotted key path.
type Values interface {
	Get(path string) (any, bool)
}

// MapValues adapts a flat path -> value map.
type MapValues map[string]any

func (m MapValues) Get(p string) (any, bool) {
	v, ok := m[p]
	return v, ok
}

// Violation is one broken constraint. Path is a key path, or several joined by "/"
// for cross-field rules.
type Violation struct {
	Path     string `json:"path"`
	Value    any    `json:"value,omitempty"`
	Expected string `json:"expected"`
	Reason   string `json:"reason"`
}

func (v Violation) String() string {
	if v.Expected == "" {
		return fmt.Sprintf("%s: %s", v.Path, v.Reason)
	}
	return fmt.Sprintf("%s: %s (expected %s)", v.Path, v.Reason, v.Expected)
}

type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (w Warning) String() string { return w.Path + ": " + w.Message }

type Report struct {
	Violations []Violation `json:"violations"`
	Warnings   []Warning   `json:"warnings"`
}

func (r Report) OK() bool { return len(r.Violations) == 0 }

// Check validates the present keys (flattened leaf paths) against the registry. Every
// violation is collected; nothing stops at the first one.
func (r *Registry) Check(v Values, keys []string) Report {
	var report Report

	sectionPresent := make(map[string]bool)
	for _, k := range keys {
		if i := strings.IndexByte(k, '.'); i >= 0 {
			sectionPresent[k[:i]] = true
		}
	}

	for _, s := range r.Sections() {
		if !sectionPresent[s] && r.sectionRequired(s) {
			report.Violations = append(report.Violations, Violation{
				Path:     s,
				Expected: "section " + s,
				Reason:   "missing section",
			})
		}
	}

	for _, f := range r.Fields() {
		if s := f.Section(); s != "" && !sectionPresent[s] && r.sectionRequired(s) {
			continue
		}
		value, ok := v.Get(f.Path)
		if !ok || value == nil {
			if f.Required() {
				report.Violations = append(report.Violations, Violation{
					Path:     f.Path,
					Expected: f.Domain.Describe(),
					Reason:   "missing required key",
				})
			}
			continue
		}
		if err := f.Domain.Check(value); err != nil {
			report.Violations = append(report.Violations, Violation{
				Path:     f.Path,
				Value:    value,
				Expected: f.Domain.Describe(),
				Reason:   err.Error(),
			})
		}
	}

	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	for _, k := range sorted {
		if _, registered := r.fields[k]; registered {
			continue
		}
		d, ok := r.DomainOf(k)
		if !ok {
			report.Warnings = append(report.Warnings, Warning{Path: k, Message: "unknown key, ignored"})
			continue
		}
		value, _ := v.Get(k)
		if err := d.Check(value); err != nil {
			report.Violations = append(report.Violations, Violation{
				Path:     k,
				Value:    value,
				Expected: d.Describe(),
				Reason:   err.Error(),
			})
		}
	}

	for _, rule := range r.rules {
		err := rule.Check(v)
		if err == nil {
			continue
		}
		p := strings.Join(rule.Paths, "/")
		if rule.Severity == SeverityWarning {
			report.Warnings = append(report.Warnings, Warning{Path: p, Message: err.Error()})
			continue
		}
		report.Violations = append(report.Violations, Violation{
			Path:     p,
			Expected: rule.Expected,
			Reason:   err.Error(),
		})
	}
	return report
}

// sectionRequired reports whether any field of the section must be present.
func (r *Registry) sectionRequired(section string) bool {
	for _, f := range r.fields {
		if f.Section() == section && f.Required() {
			return true
		}
	}
	return false
}

// IntValue returns the integer at p when it is present and integral.
func IntValue(v Values, p string) (int64, bool) {
	raw, ok := v.Get(p)
	if !ok || raw == nil {
		return 0, false
	}
	n, err := toInt(raw)
	return n, err == nil
}

func FloatValue(v Values, p string) (float64, bool) {
	raw, ok := v.Get(p)
	if !ok || raw == nil {
		return 0, false
	}
	f, err := toFloat(raw)
	return f, err == nil
}

func BoolValue(v Values, p string) (bool, bool) {
	raw, ok := v.Get(p)
	if !ok || raw == nil {
		return false, false
	}
	switch b := raw.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	}
	return false, false
}

func IntSeqValue(v Values, p string) ([]int64, bool) {
	raw, ok := v.Get(p)
	if !ok {
		return nil, false
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		n, err := toInt(item)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
