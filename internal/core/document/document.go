// Package document implements the comment-bearing YAML settings documents
// the add-on manages: ordered parsing, additive default merging and
// header-prefixed atomic persistence.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is an ordered string-keyed mapping backed by a YAML mapping node.
// Values are scalars, nested mappings or sequences. Key order survives a
// load, merge and save cycle.
type Document struct {
	node *yaml.Node
}

// Header holds the raw comment lines written ahead of a document body.
type Header []string

// New returns an empty document.
func New() *Document {
	return &Document{node: newMapping()}
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// Parse decodes a YAML payload. Empty payloads and payloads whose root is
// not a mapping yield an empty document; only syntax errors fail.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return New(), nil
	}
	top := resolve(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return New(), nil
	}
	return &Document{node: clone(top)}, nil
}

// Len reports the number of top-level keys.
func (d *Document) Len() int {
	if d == nil || d.node == nil {
		return 0
	}
	return len(d.node.Content) / 2
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.Len())
	if d.Len() == 0 {
		return keys
	}
	for i := 0; i+1 < len(d.node.Content); i += 2 {
		keys = append(keys, d.node.Content[i].Value)
	}
	return keys
}

// Has reports whether the dotted path resolves to a value.
func (d *Document) Has(path string) bool {
	_, ok := d.lookup(path)
	return ok
}

// String returns the scalar at path, or def when the path is missing, null
// or not a scalar.
func (d *Document) String(path, def string) string {
	n, ok := d.lookup(path)
	if !ok || n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return def
	}
	return n.Value
}

// Bool returns the boolean at path, or def when the path holds anything
// other than a boolean.
func (d *Document) Bool(path string, def bool) bool {
	n, ok := d.lookup(path)
	if !ok || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return def
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return def
	}
	return b
}

// Set stores value at the dotted path, creating intermediate mappings and
// replacing any non-mapping value found on the way.
func (d *Document) Set(path string, value any) error {
	if d == nil {
		return fmt.Errorf("document: nil receiver")
	}
	if d.node == nil {
		d.node = newMapping()
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("document: invalid path %q", path)
		}
	}
	var encoded yaml.Node
	if err := encoded.Encode(value); err != nil {
		return fmt.Errorf("document: encode %s: %w", path, err)
	}
	current := d.node
	for _, part := range parts[:len(parts)-1] {
		idx := indexOf(current, part)
		if idx < 0 {
			next := newMapping()
			current.Content = append(current.Content, keyNode(part), next)
			current = next
			continue
		}
		if current.Content[idx+1].Kind != yaml.MappingNode {
			current.Content[idx+1] = newMapping()
		}
		current = current.Content[idx+1]
	}
	last := parts[len(parts)-1]
	if idx := indexOf(current, last); idx >= 0 {
		current.Content[idx+1] = clone(&encoded)
		return nil
	}
	current.Content = append(current.Content, keyNode(last), clone(&encoded))
	return nil
}

// Map decodes the whole document into nested Go maps.
func (d *Document) Map() map[string]any {
	out := map[string]any{}
	if d.Len() == 0 {
		return out
	}
	if err := d.node.Decode(&out); err != nil {
		return map[string]any{}
	}
	return out
}

// Clone returns a deep copy that shares no nodes with d.
func (d *Document) Clone() *Document {
	if d == nil || d.node == nil {
		return New()
	}
	return &Document{node: clone(d.node)}
}

// Encode serializes the document in block style with a two-space indent.
// Strings with embedded line breaks use literal block scalars; every other
// scalar falls back to plain style, quoted only where the value needs it.
func (d *Document) Encode() ([]byte, error) {
	node := newMapping()
	if d != nil && d.node != nil {
		node = styled(d.node)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) lookup(path string) (*yaml.Node, bool) {
	if d.Len() == 0 || path == "" {
		return nil, false
	}
	current := d.node
	for _, part := range strings.Split(path, ".") {
		if current.Kind != yaml.MappingNode {
			return nil, false
		}
		idx := indexOf(current, part)
		if idx < 0 {
			return nil, false
		}
		current = current.Content[idx+1]
	}
	return current, true
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

// indexOf returns the content index of key inside mapping m, or -1.
func indexOf(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// clone deep-copies n, expanding aliases and dropping anchors and comments.
func clone(n *yaml.Node) *yaml.Node {
	n = resolve(n)
	c := &yaml.Node{Kind: n.Kind, Style: n.Style, Tag: n.Tag, Value: n.Value}
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = clone(child)
		}
	}
	return c
}

func styled(n *yaml.Node) *yaml.Node {
	c := &yaml.Node{Kind: n.Kind, Tag: n.Tag, Value: n.Value, Style: n.Style & yaml.TaggedStyle}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" && strings.Contains(n.Value, "\n") {
		c.Style |= yaml.LiteralStyle
	}
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = styled(child)
		}
	}
	return c
}
