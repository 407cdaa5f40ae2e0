package schema

import (
	"fmt"
	"path"
	"strings"
)

// Field is one recognized key. A field with a Default, or marked Optional, may be absent.
type Field struct {
	Path     string
	Domain   Domain
	Default  any
	Optional bool
	Doc      string
}

func (f Field) Section() string {
	if i := strings.IndexByte(f.Path, '.'); i >= 0 {
		return f.Path[:i]
	}
	return ""
}

func (f Field) Required() bool {
	return f.Default == nil && !f.Optional
}

// Group is a set of fields declared relative to a section, so the same parameters can
// be registered under several sections.
type Group struct {
	Name   string
	Fields []Field
}

// Pattern gives a domain to every present key matching Glob (path.Match syntax) that is
// not registered as a Field.
type Pattern struct {
	Glob   string
	Domain Domain
	Doc    string
}

// Link requires Path to hold the same value as Source.
type Link struct {
	Path   string
	Source string
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Rule is a cross-field constraint. Check returns nil when the constraint holds or when
// one of its operands is absent or individually invalid.
type Rule struct {
	Name     string
	Paths    []string
	Expected string
	Severity Severity
	Check    func(v Values) error
}

type Registry struct {
	fields   map[string]Field
	sections map[string]bool
	groups   map[string][]string
	patterns []Pattern
	links    []Link
	rules    []Rule
}

func New() *Registry {
	return &Registry{
		fields:   make(map[string]Field),
		sections: make(map[string]bool),
		groups:   make(map[string][]string),
	}
}

// Register adds or replaces fields.
func (r *Registry) Register(fields ...Field) {
	for _, f := range fields {
		if f.Domain == nil {
			panic(fmt.Sprintf("schema: field %s has no domain", f.Path))
		}
		r.fields[f.Path] = f
		if s := f.Section(); s != "" {
			r.sections[s] = true
		}
	}
}

// RegisterGroup registers every field of g under each of the sections.
func (r *Registry) RegisterGroup(g Group, sections ...string) {
	for _, section := range sections {
		for _, f := range g.Fields {
			f.Path = section + "." + f.Path
			r.Register(f)
		}
		r.groups[g.Name] = append(r.groups[g.Name], section)
	}
}

// GroupSections returns the sections a group was registered under, in order.
func (r *Registry) GroupSections(name string) []string {
	return append([]string(nil), r.groups[name]...)
}

func (r *Registry) RegisterPattern(p Pattern) {
	if _, err := path.Match(p.Glob, ""); err != nil {
		panic(fmt.Sprintf("schema: bad pattern %q: %v", p.Glob, err))
	}
	r.patterns = append(r.patterns, p)
	if i := strings.IndexByte(p.Glob, '.'); i >= 0 {
		r.sections[p.Glob[:i]] = true
	}
}

// Link declares that p must alias source. Enum domains are shared between the two so
// ExtendEnum on either affects both.
func (r *Registry) Link(p, source string) {
	if src, ok := r.fields[source]; ok {
		if dst, ok := r.fields[p]; ok {
			if _, isEnum := src.Domain.(*Enum); isEnum {
				dst.Domain = src.Domain
				r.fields[p] = dst
			}
		}
	}
	r.links = append(r.links, Link{Path: p, Source: source})
}

func (r *Registry) AddRule(rule Rule) {
	r.rules = append(r.rules, rule)
}

// ExtendEnum adds accepted values to an enum-valued field.
func (r *Registry) ExtendEnum(p string, values ...string) error {
	f, ok := r.fields[p]
	if !ok {
		return fmt.Errorf("schema: unknown key %s", p)
	}
	e, ok := f.Domain.(*Enum)
	if !ok {
		return fmt.Errorf("schema: key %s is not an enum (%s)", p, f.Domain.Describe())
	}
	e.Add(values...)
	return nil
}

func (r *Registry) Lookup(p string) (Field, bool) {
	f, ok := r.fields[p]
	return f, ok
}

// DomainOf returns the domain of a registered field or of the first matching pattern.
func (r *Registry) DomainOf(p string) (Domain, bool) {
	if f, ok := r.fields[p]; ok {
		return f.Domain, true
	}
	for _, pat := range r.patterns {
		if ok, _ := path.Match(pat.Glob, p); ok {
			return pat.Domain, true
		}
	}
	return nil, false
}

// Fields returns every registered field sorted by path.
func (r *Registry) Fields() []Field {
	out := make([]Field, 0, len(r.fields))
	for _, p := range sortedKeys(r.fields) {
		out = append(out, r.fields[p])
	}
	return out
}

func (r *Registry) Patterns() []Pattern { return append([]Pattern(nil), r.patterns...) }

func (r *Registry) Links() []Link { return append([]Link(nil), r.links...) }

func (r *Registry) Rules() []Rule { return append([]Rule(nil), r.rules...) }

func (r *Registry) Sections() []string {
	return sortedKeys(r.sections)
}

// Defaults maps every field that has a default to that default.
func (r *Registry) Defaults() map[string]any {
	out := make(map[string]any)
	for p, f := range r.fields {
		if f.Default != nil {
			out[p] = f.Default
		}
	}
	return out
}
