package runconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/productscience/monorange/logging"
)

const (
	DefaultEnvPrefix = "MONORANGE_"
	// ConfigPathEnv selects the config file. It is never read as a config key.
	ConfigPathEnv = "MONORANGE_CONFIG_PATH"
)

type options struct {
	envPrefix string
	useEnv    bool
	overrides []string
}

type Option func(*options)

// WithEnvPrefix reads overrides from variables starting with prefix instead of MONORANGE_.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

// WithoutEnv disables environment overrides.
func WithoutEnv() Option {
	return func(o *options) { o.useEnv = false }
}

// WithOverrides applies "key=value" pairs after the environment. Values are parsed as YAML
// scalars, so "true" is a boolean and "[1, 2]" a sequence.
func WithOverrides(pairs ...string) Option {
	return func(o *options) { o.overrides = append(o.overrides, pairs...) }
}

func newOptions(opts []Option) options {
	o := options{envPrefix: DefaultEnvPrefix, useEnv: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load reads and parses the run config at path.
func Load(path string, opts ...Option) (*Document, error) {
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, &PathError{Path: path, Err: err}
	}
	return load(path, data, newOptions(opts))
}

// LoadBytes parses an in-memory run config. source names it in errors.
func LoadBytes(source string, data []byte, opts ...Option) (*Document, error) {
	return load(source, data, newOptions(opts))
}

func load(source string, data []byte, o options) (*Document, error) {
	doc, err := newDocument(source, data)
	if err != nil {
		logging.Error("Failed to parse run config", logging.Loader, "source", source, "error", err)
		return nil, err
	}

	if o.useEnv {
		if err := applyEnv(doc, o.envPrefix); err != nil {
			return nil, err
		}
	}
	for _, pair := range o.overrides {
		key, value, err := ParseOverride(pair)
		if err != nil {
			return nil, err
		}
		if err := doc.set(key, value, "flag"); err != nil {
			return nil, fmt.Errorf("applying override %s: %w", key, err)
		}
		logging.Debug("Applied override", logging.Loader, "key", key, "value", value)
	}

	updated, err := doc.propagateAliases()
	if err != nil {
		return nil, err
	}
	for _, p := range updated {
		src, _ := doc.AliasOf(p)
		logging.Info("Alias follows overridden anchor", logging.Loader, "key", p, "anchor", src)
	}

	logging.Info("Loaded run config", logging.Loader, "source", source, "keys", len(doc.Keys()))
	return doc, nil
}

func applyEnv(doc *Document, prefix string) error {
	ek := koanf.New(".")
	err := ek.Load(env.Provider(prefix, ".", func(s string) string {
		if s == ConfigPathEnv {
			return ""
		}
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, prefix)), "__", ".", -1)
	}), nil)
	if err != nil {
		return fmt.Errorf("error loading env: %w", err)
	}

	values := ek.All()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		raw := fmt.Sprint(values[k])
		if err := doc.set(k, parseScalar(raw), "env"); err != nil {
			return fmt.Errorf("applying env override %s: %w", k, err)
		}
		logging.Debug("Applied env override", logging.Loader, "key", k, "value", raw)
	}
	return nil
}

// ParseOverride splits "key=value" and parses value as YAML.
func ParseOverride(pair string) (string, any, error) {
	key, raw, ok := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid override %q: expected key=value", pair)
	}
	return key, parseScalar(raw), nil
}

func parseScalar(raw string) any {
	var v any
	if err := yamlv3.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	return v
}
