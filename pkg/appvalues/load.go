package appvalues

import (
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/chartci/chartci/pkg/values"
)

// FromDocument decodes a merged values document into the typed schema.
// Unknown keys are tolerated: the chart may carry subchart sections this
// tool does not model.
func FromDocument(doc values.Document) (*Values, error) {
	data, err := doc.ToYAML()
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML decodes YAML bytes into the typed schema.
func FromYAML(data []byte) (*Values, error) {
	v := &Values{}
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, errors.Wrap(err, "failed to decode application values")
	}
	return v, nil
}
