package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Domain is the set of values a key accepts.
type Domain interface {
	Check(value any) error
	Describe() string
}

// Int accepts integral values, optionally bounded on either side (inclusive).
type Int struct {
	Min *int64
	Max *int64
}

func AtLeast(min int64) Int { return Int{Min: &min} }

func IntBetween(min, max int64) Int { return Int{Min: &min, Max: &max} }

func (d Int) Check(value any) error {
	n, err := toInt(value)
	if err != nil {
		return err
	}
	if d.Min != nil && n < *d.Min {
		return fmt.Errorf("value %d below minimum %d", n, *d.Min)
	}
	if d.Max != nil && n > *d.Max {
		return fmt.Errorf("value %d above maximum %d", n, *d.Max)
	}
	return nil
}

func (d Int) Describe() string {
	switch {
	case d.Min != nil && d.Max != nil:
		return fmt.Sprintf("integer in [%d, %d]", *d.Min, *d.Max)
	case d.Min != nil:
		return fmt.Sprintf("integer >= %d", *d.Min)
	case d.Max != nil:
		return fmt.Sprintf("integer <= %d", *d.Max)
	}
	return "integer"
}

// Float accepts any number. Bounds are inclusive unless the matching Open flag is set.
type Float struct {
	Name    string
	Min     *float64
	Max     *float64
	MinOpen bool
	MaxOpen bool
}

func Probability() Float {
	return Float{Name: "probability", Min: ptr(0.0), Max: ptr(1.0)}
}

func NonNegative() Float { return Float{Min: ptr(0.0)} }

func Positive() Float { return Float{Min: ptr(0.0), MinOpen: true} }

func FloatBetween(min, max float64, minOpen, maxOpen bool) Float {
	return Float{Min: &min, Max: &max, MinOpen: minOpen, MaxOpen: maxOpen}
}

func (d Float) Check(value any) error {
	f, err := toFloat(value)
	if err != nil {
		return err
	}
	if math.IsNaN(f) {
		return fmt.Errorf("value is NaN")
	}
	below := d.Min != nil && (f < *d.Min || (d.MinOpen && f == *d.Min))
	above := d.Max != nil && (f > *d.Max || (d.MaxOpen && f == *d.Max))
	if below || above {
		return fmt.Errorf("value %v out of range", f)
	}
	return nil
}

func (d Float) Describe() string {
	name := d.Name
	if name == "" {
		name = "number"
	}
	switch {
	case d.Min != nil && d.Max != nil:
		lo, hi := "[", "]"
		if d.MinOpen {
			lo = "("
		}
		if d.MaxOpen {
			hi = ")"
		}
		return fmt.Sprintf("%s in %s%s, %s%s", name, lo, fmtFloat(*d.Min), fmtFloat(*d.Max), hi)
	case d.Min != nil:
		op := ">="
		if d.MinOpen {
			op = ">"
		}
		return fmt.Sprintf("%s %s %s", name, op, fmtFloat(*d.Min))
	case d.Max != nil:
		op := "<="
		if d.MaxOpen {
			op = "<"
		}
		return fmt.Sprintf("%s %s %s", name, op, fmtFloat(*d.Max))
	}
	return name
}

// Enum accepts one of a set of strings. It is shared by pointer so that linked keys
// and ExtendEnum see the same set.
type Enum struct {
	Name   string
	values []string
}

func NewEnum(name string, values ...string) *Enum {
	e := &Enum{Name: name}
	e.Add(values...)
	return e
}

func (e *Enum) Add(values ...string) {
	for _, v := range values {
		if !e.Has(v) {
			e.values = append(e.values, v)
		}
	}
}

func (e *Enum) Has(v string) bool {
	for _, known := range e.values {
		if known == v {
			return true
		}
	}
	return false
}

func (e *Enum) Values() []string {
	return append([]string(nil), e.values...)
}

func (e *Enum) Check(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected a string, got %T", value)
	}
	if !e.Has(s) {
		return fmt.Errorf("unsupported value %q", s)
	}
	return nil
}

func (e *Enum) Describe() string {
	prefix := "one of"
	if e.Name != "" {
		prefix = e.Name + ", one of"
	}
	return fmt.Sprintf("%s [%s]", prefix, strings.Join(e.values, ", "))
}

type Bool struct{}

func (Bool) Check(value any) error {
	switch v := value.(type) {
	case bool:
		return nil
	case string:
		if _, err := strconv.ParseBool(v); err != nil {
			return fmt.Errorf("expected a boolean, got %q", v)
		}
		return nil
	}
	return fmt.Errorf("expected a boolean, got %T", value)
}

func (Bool) Describe() string { return "boolean" }

// String accepts any string; NonEmpty rejects blank ones.
type String struct {
	NonEmpty bool
}

func (d String) Check(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected a string, got %T", value)
	}
	if d.NonEmpty && strings.TrimSpace(s) == "" {
		return fmt.Errorf("empty string")
	}
	return nil
}

func (d String) Describe() string {
	if d.NonEmpty {
		return "non-empty string"
	}
	return "string"
}

// Path accepts a non-empty filesystem path. Existence is not checked: paths are
// resolved by the consumers, often on another machine.
type Path struct{}

func (Path) Check(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected a path string, got %T", value)
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("empty path")
	}
	if strings.ContainsRune(s, 0) {
		return fmt.Errorf("path contains NUL byte")
	}
	return nil
}

func (Path) Describe() string { return "path" }

// Seq accepts a sequence whose elements satisfy Elem.
type Seq struct {
	Elem       Domain
	MinLen     int
	Unique     bool
	Increasing bool
}

func (d Seq) Check(value any) error {
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("expected a sequence, got %T", value)
	}
	if len(items) < d.MinLen {
		return fmt.Errorf("sequence has %d elements, need at least %d", len(items), d.MinLen)
	}
	seen := make(map[string]bool, len(items))
	var prev float64
	for i, item := range items {
		if d.Elem != nil {
			if err := d.Elem.Check(item); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		if d.Unique {
			key := fmt.Sprint(item)
			if seen[key] {
				return fmt.Errorf("duplicate element %v", item)
			}
			seen[key] = true
		}
		if d.Increasing {
			f, err := toFloat(item)
			if err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			if i > 0 && f <= prev {
				return fmt.Errorf("element %d (%v) does not increase on %v", i, item, prev)
			}
			prev = f
		}
	}
	return nil
}

func (d Seq) Describe() string {
	var b strings.Builder
	if d.MinLen > 0 {
		b.WriteString("non-empty ")
	}
	if d.Increasing {
		b.WriteString("strictly increasing ")
	}
	if d.Unique {
		b.WriteString("set")
	} else {
		b.WriteString("sequence")
	}
	if d.Elem != nil {
		b.WriteString(" of ")
		b.WriteString(d.Elem.Describe())
	}
	return b.String()
}

// DeviceList accepts GPU ids written as "0", "0,1,3" or a bare integer.
type DeviceList struct{}

func (DeviceList) Check(value any) error {
	_, err := ParseDeviceList(value)
	return err
}

func (DeviceList) Describe() string { return "comma-separated distinct device indices" }

// ParseDeviceList returns the device indices in written order.
func ParseDeviceList(value any) ([]int, error) {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case int, int64, uint64:
		raw = fmt.Sprint(v)
	default:
		return nil, fmt.Errorf("expected device ids, got %T", value)
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	seen := make(map[int]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		id, err := strconv.Atoi(p)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid device id %q", p)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate device id %d", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func toInt(value any) (int64, error) {
	switch v := value.(type) {
	case bool:
		return 0, fmt.Errorf("expected an integer, got boolean")
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d is out of range", v)
		}
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d is out of range", v)
		}
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", v)
		}
		return n, nil
	}
	n, err := cast.ToInt64E(value)
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %T", value)
	}
	return n, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case bool:
		return 0, fmt.Errorf("expected a number, got boolean")
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", v)
		}
		return f, nil
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
	return f, nil
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func ptr[T any](v T) *T { return &v }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
