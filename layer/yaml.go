// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package layer

import (
	"io"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a layer from a YAML mapping of section names to
// mappings of scalar key/value pairs. The document is walked as a node
// tree so declaration order survives and duplicate sections or keys can
// be reported with their line. Values must be scalars; structured
// literals are written as quoted or block scalar strings and parsed
// later by typed access.
func ParseYAML(name string, r io.Reader) (Layer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layer{}, SourceUnavailableError{Source: name, Cause: err}
	}

	var doc yaml.Node
	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return Layer{}, MalformedSourceError{
			Source: name,
			Reason: err.Error(),
		}
	}

	b := newLayerBuilder(name)
	if len(doc.Content) == 0 {
		return b.layer(), nil
	}

	malformed := func(n *yaml.Node, reason string) (Layer, error) {
		return Layer{}, MalformedSourceError{
			Source: name,
			Line:   n.Line,
			Text:   n.Value,
			Reason: reason,
		}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return malformed(root, "top level must be a mapping of sections")
	}

	for i := 0; i < len(root.Content); i += 2 {
		sectionNode := root.Content[i]
		body := root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return malformed(sectionNode, "section body must be a mapping of key/value pairs")
		}

		err := b.addSection(sectionNode.Value)
		if err != nil {
			return malformed(sectionNode, err.Error())
		}

		for j := 0; j < len(body.Content); j += 2 {
			keyNode := body.Content[j]
			valueNode := body.Content[j+1]
			if valueNode.Kind != yaml.ScalarNode {
				return malformed(keyNode, "value must be a scalar")
			}
			err := b.set(sectionNode.Value, keyNode.Value, valueNode.Value)
			if err != nil {
				return malformed(keyNode, err.Error())
			}
		}
	}
	return b.layer(), nil
}
