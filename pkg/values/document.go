// Package values implements the values document model: loading YAML values
// files, deep-merging user documents over chart defaults, and dot-path access
// into the merged structure.
//
// Merge semantics match the renderer's: user values win at every leaf, maps
// merge recursively, and any non-map value (including lists) replaces the
// default wholesale. List order is preserved because position determines
// manifest array order.
package values

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Document is a parsed values document: a nested mapping of string keys to
// scalars, lists, or nested mappings.
type Document map[string]interface{}

// Load reads and parses a single values file from the given filesystem.
func Load(fs afero.Fs, path string) (Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read values file %s", path)
	}
	return Parse(data)
}

// Parse parses YAML bytes into a Document. An empty input yields an empty
// (non-nil) document; a non-mapping root returns ErrNotAMap.
func Parse(data []byte) (Document, error) {
	var root interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "failed to parse values document")
	}
	if root == nil {
		return Document{}, nil
	}
	m, ok := root.(map[string]interface{})
	if !ok {
		return nil, errors.Wrapf(ErrNotAMap, "got %T", root)
	}
	return Document(m), nil
}

// LoadAll loads each file in order and merges later documents over earlier
// ones, matching the renderer's multiple --values behavior.
func LoadAll(fs afero.Fs, paths []string) (Document, error) {
	merged := Document{}
	for _, path := range paths {
		doc, err := Load(fs, path)
		if err != nil {
			return nil, err
		}
		merged = Merge(merged, doc)
	}
	return merged, nil
}

// Merge deep-merges overlay onto base and returns the result. Neither input
// is modified. Overlay values win at every leaf; an explicit nil in the
// overlay deletes the key, as the renderer does.
func Merge(base, overlay Document) Document {
	out := make(Document, len(base))
	for k, v := range base {
		out[k] = DeepCopy(v)
	}
	for k, v := range overlay {
		if v == nil {
			delete(out, k)
			continue
		}
		if overlayMap, ok := toStringMap(v); ok {
			if baseMap, ok := toStringMap(out[k]); ok {
				out[k] = map[string]interface{}(Merge(baseMap, overlayMap))
				continue
			}
		}
		out[k] = DeepCopy(v)
	}
	return out
}

// toStringMap normalizes map values that may arrive as Document or plain maps.
func toStringMap(v interface{}) (Document, bool) {
	switch m := v.(type) {
	case Document:
		return m, true
	case map[string]interface{}:
		return Document(m), true
	default:
		return nil, false
	}
}

// DeepCopy creates a deep copy of a values structure. It handles nested maps,
// slices, and primitive values.
func DeepCopy(src interface{}) interface{} {
	switch v := src.(type) {
	case Document:
		dst := make(Document, len(v))
		for key, value := range v {
			dst[key] = DeepCopy(value)
		}
		return dst
	case map[string]interface{}:
		dst := make(map[string]interface{}, len(v))
		for key, value := range v {
			dst[key] = DeepCopy(value)
		}
		return dst
	case []interface{}:
		dst := make([]interface{}, len(v))
		for i, value := range v {
			dst[i] = DeepCopy(value)
		}
		return dst
	// Primitive types do not need deep copying
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	default:
		// Any other types are returned as is (rare in YAML structures)
		return v
	}
}

// ToYAML serializes the document to YAML.
func (d Document) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(map[string]interface{}(d))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal values document")
	}
	return data, nil
}
