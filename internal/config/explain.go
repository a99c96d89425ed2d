package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path (for example
// "panel.velocity" or "discrete.threshold") and where it came from. Values
// not set in a file report a zero Source.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	var doc yaml.Node
	if err := doc.Encode(res.Config); err != nil {
		return nil, Source{}, fmt.Errorf("failed to encode config: %w", err)
	}

	node := &doc
	for _, key := range strings.Split(path, ".") {
		next := mappingValue(node, key)
		if next == nil {
			return nil, Source{}, fmt.Errorf("unknown config path %q", path)
		}
		node = next
	}

	var value any
	if err := node.Decode(&value); err != nil {
		return nil, Source{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return value, res.Sources[path], nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// FormatSource renders a Source for display.
func FormatSource(src Source) string {
	if src.File == "" {
		return "default"
	}
	if src.Line > 0 {
		return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
	}
	return "file:" + src.File
}
