// Package manifest parses rendered Kubernetes manifest streams and exposes
// the structural queries the render checks need: schema-shape validity of
// every document, object lookup by kind and name, and container environment
// inspection in workload objects.
//
// Parsing is deliberately schemaless (yaml.v3 into generic maps): the checks
// assert manifest shape, not API-server behavior.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoDocuments indicates the rendered stream contained no manifest objects.
var ErrNoDocuments = errors.New("rendered output contains no manifest documents")

// Object is a single decoded manifest document.
type Object struct {
	data map[string]interface{}
}

// Set is an ordered collection of rendered objects.
type Set struct {
	Objects []Object
}

// Parse decodes a multi-document YAML stream into a Set. Empty documents
// (separator-only, comments) are skipped. Documents that decode to something
// other than a mapping are an error.
func Parse(rendered string) (*Set, error) {
	dec := yaml.NewDecoder(strings.NewReader(rendered))
	set := &Set{}
	for i := 0; ; i++ {
		var raw interface{}
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse manifest document %d: %w", i, err)
		}
		if raw == nil {
			continue
		}
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("manifest document %d is not a mapping", i)
		}
		set.Objects = append(set.Objects, Object{data: m})
	}
	return set, nil
}

// APIVersion returns the object's apiVersion, or "" when absent.
func (o Object) APIVersion() string {
	return o.stringAt("apiVersion")
}

// Kind returns the object's kind, or "" when absent.
func (o Object) Kind() string {
	return o.stringAt("kind")
}

// Name returns metadata.name, or "" when absent.
func (o Object) Name() string {
	meta, ok := o.data["metadata"].(map[string]interface{})
	if !ok {
		return ""
	}
	name, _ := meta["name"].(string)
	return name
}

func (o Object) stringAt(key string) string {
	s, _ := o.data[key].(string)
	return s
}

// Find returns every object of the given kind, in stream order.
func (s *Set) Find(kind string) []Object {
	var found []Object
	for _, obj := range s.Objects {
		if obj.Kind() == kind {
			found = append(found, obj)
		}
	}
	return found
}

// FindByName returns the object of the given kind and name, if present.
func (s *Set) FindByName(kind, name string) (Object, bool) {
	for _, obj := range s.Find(kind) {
		if obj.Name() == name {
			return obj, true
		}
	}
	return Object{}, false
}

// ContainerEnvEntry is one env entry of a workload container, with either a
// literal value or the name of the referenced secret.
type ContainerEnvEntry struct {
	Name       string
	Value      string
	SecretName string
	SecretKey  string
}

// ContainerEnv collects the env entries of every container in a workload
// object (Deployment, StatefulSet, or anything with the standard pod template
// shape). A non-workload object yields an empty slice.
func (o Object) ContainerEnv() []ContainerEnvEntry {
	containers := o.podContainers()
	var entries []ContainerEnvEntry
	for _, c := range containers {
		env, ok := c["env"].([]interface{})
		if !ok {
			continue
		}
		for _, rawEntry := range env {
			m, ok := rawEntry.(map[string]interface{})
			if !ok {
				continue
			}
			entry := ContainerEnvEntry{}
			entry.Name, _ = m["name"].(string)
			entry.Value, _ = m["value"].(string)
			if vf, ok := m["valueFrom"].(map[string]interface{}); ok {
				if ref, ok := vf["secretKeyRef"].(map[string]interface{}); ok {
					entry.SecretName, _ = ref["name"].(string)
					entry.SecretKey, _ = ref["key"].(string)
				}
			}
			entries = append(entries, entry)
		}
	}
	return entries
}

// HasEnvVar reports whether any container in the object defines the variable.
func (o Object) HasEnvVar(name string) bool {
	for _, e := range o.ContainerEnv() {
		if e.Name == name {
			return true
		}
	}
	return false
}

func (o Object) podContainers() []map[string]interface{} {
	spec, ok := o.data["spec"].(map[string]interface{})
	if !ok {
		return nil
	}
	tmpl, ok := spec["template"].(map[string]interface{})
	if !ok {
		return nil
	}
	podSpec, ok := tmpl["spec"].(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := podSpec["containers"].([]interface{})
	if !ok {
		return nil
	}
	containers := make([]map[string]interface{}, 0, len(raw))
	for _, c := range raw {
		if m, ok := c.(map[string]interface{}); ok {
			containers = append(containers, m)
		}
	}
	return containers
}
