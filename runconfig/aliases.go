package runconfig

import (
	"fmt"

	"github.com/productscience/monorange/logging"
	"github.com/productscience/monorange/runconfig/schema"
)

// ResolveAliases checks that every linked key holds the same text, of the same YAML type,
// as its source.
// Links with a missing side are left to Validate.
func ResolveAliases(doc *Document, reg *schema.Registry) error {
	var mismatches []AliasMismatch
	for _, link := range reg.Links() {
		value, ok := doc.Get(link.Path)
		if !ok {
			continue
		}
		source, ok := doc.Get(link.Source)
		if !ok {
			continue
		}
		if !sameScalar(value, source) {
			mismatches = append(mismatches, AliasMismatch{
				Path:        link.Path,
				Source:      link.Source,
				Value:       value,
				SourceValue: source,
			})
			continue
		}
		if anchor, aliased := doc.AliasOf(link.Path); !aliased || anchor != link.Source {
			if _, overridden := doc.Overridden(link.Path); !overridden {
				logging.Warn("Linked key is not written as an alias", logging.Loader,
					"key", doc.describe(link.Path), "source", link.Source)
			}
		}
	}
	if len(mismatches) > 0 {
		return &AliasMismatchError{Mismatches: mismatches}
	}
	return nil
}

// sameScalar compares two parsed values by their YAML text and resolved tag, so 1 and
// '1' differ.
func sameScalar(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b) && scalarTag(a) == scalarTag(b)
}

func scalarTag(v any) string {
	switch v.(type) {
	case nil:
		return "!!null"
	case string:
		return "!!str"
	case bool:
		return "!!bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "!!int"
	case float32, float64:
		return "!!float"
	case []any:
		return "!!seq"
	case map[string]any:
		return "!!map"
	}
	return fmt.Sprintf("%T", v)
}
