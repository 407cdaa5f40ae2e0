package runconfig

import (
	"fmt"
	"sort"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Position is a 1-based location in the source text.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Document is a parsed run configuration. It is not modified after Load returns.
type Document struct {
	source     string
	k          *koanf.Koanf
	positions  map[string]Position
	anchors    map[string]string // anchor name -> defining key path
	aliases    map[string]string // key path -> path of the anchored value it aliases
	overridden map[string]string // key path -> origin of the override
}

func newDocument(source string, data []byte) (*Document, error) {
	var root yamlv3.Node
	if err := yamlv3.Unmarshal(data, &root); err != nil {
		return nil, newParseError(source, err)
	}
	if root.Kind != yamlv3.DocumentNode || len(root.Content) == 0 {
		return nil, newParseError(source, fmt.Errorf("empty document"))
	}
	top := root.Content[0]
	if top.Kind != yamlv3.MappingNode {
		return nil, newParseError(source, fmt.Errorf("line %d: top level must be a mapping", top.Line))
	}

	doc := &Document{
		source:     source,
		k:          koanf.New("."),
		positions:  make(map[string]Position),
		anchors:    make(map[string]string),
		aliases:    make(map[string]string),
		overridden: make(map[string]string),
	}
	w := walker{doc: doc, anchored: make(map[*yamlv3.Node]string)}
	w.walk("", top)

	if err := doc.k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, newParseError(source, err)
	}
	return doc, nil
}

type walker struct {
	doc      *Document
	anchored map[*yamlv3.Node]string
}

func (w *walker) walk(prefix string, n *yamlv3.Node) {
	if n.Kind != yamlv3.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Value == "<<" {
			continue
		}
		p := key.Value
		if prefix != "" {
			p = prefix + "." + key.Value
		}
		w.doc.positions[p] = Position{Line: key.Line, Column: key.Column}
		if value.Anchor != "" {
			w.anchored[value] = p
			w.doc.anchors[value.Anchor] = p
		}
		if value.Kind == yamlv3.AliasNode && value.Alias != nil {
			if src, ok := w.anchored[value.Alias]; ok {
				w.doc.aliases[p] = src
			}
			continue
		}
		w.walk(p, value)
	}
}

func (d *Document) Source() string { return d.source }

// Get returns the value at a dotted key path.
func (d *Document) Get(path string) (any, bool) {
	if !d.k.Exists(path) {
		return nil, false
	}
	return d.k.Get(path), true
}

// Keys returns every leaf key path in sorted order.
func (d *Document) Keys() []string {
	keys := d.k.Keys()
	sort.Strings(keys)
	return keys
}

// Section returns a copy of one top-level section.
func (d *Document) Section(name string) (map[string]any, bool) {
	if !d.k.Exists(name) {
		return nil, false
	}
	return d.k.Cut(name).Raw(), true
}

// Raw returns a copy of the whole nested mapping.
func (d *Document) Raw() map[string]any { return d.k.Raw() }

// Flat returns a copy of the flattened path -> value mapping.
func (d *Document) Flat() map[string]any { return d.k.All() }

// Position returns where a key was written, if it came from the source text.
func (d *Document) Position(path string) (Position, bool) {
	p, ok := d.positions[path]
	return p, ok
}

// AliasOf returns the key path whose anchored value path was written as an alias of.
func (d *Document) AliasOf(path string) (string, bool) {
	src, ok := d.aliases[path]
	return src, ok
}

// Anchors maps anchor names to the key path that defines them.
func (d *Document) Anchors() map[string]string {
	out := make(map[string]string, len(d.anchors))
	for k, v := range d.anchors {
		out[k] = v
	}
	return out
}

// Overridden returns the origin ("env" or "flag") of an overridden key.
func (d *Document) Overridden(path string) (string, bool) {
	o, ok := d.overridden[path]
	return o, ok
}

// Marshal serializes the document back to YAML. Anchors are written out as plain values.
func (d *Document) Marshal() ([]byte, error) {
	return d.k.Marshal(yaml.Parser())
}

// describe names a key path with its source position for reports.
func (d *Document) describe(path string) string {
	if pos, ok := d.positions[path]; ok {
		return fmt.Sprintf("%s (%s:%s)", path, d.source, pos)
	}
	if origin, ok := d.overridden[path]; ok {
		return fmt.Sprintf("%s (%s override)", path, origin)
	}
	return path
}

func (d *Document) set(path string, value any, origin string) error {
	if err := d.k.Set(path, value); err != nil {
		return err
	}
	d.overridden[path] = origin
	return nil
}

// propagateAliases copies overridden anchor values into the aliases that were not
// overridden themselves, keeping one source of truth.
func (d *Document) propagateAliases() ([]string, error) {
	var updated []string
	for _, p := range sortedStrings(d.aliases) {
		src := d.aliases[p]
		if _, srcOverridden := d.overridden[src]; !srcOverridden {
			continue
		}
		if _, own := d.overridden[p]; own {
			continue
		}
		if err := d.k.Set(p, d.k.Get(src)); err != nil {
			return updated, err
		}
		d.overridden[p] = d.overridden[src]
		updated = append(updated, p)
	}
	return updated, nil
}

func sortedStrings(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
