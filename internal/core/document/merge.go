package document

import "gopkg.in/yaml.v3"

// MergeAdditive copies into target every key of template that target lacks,
// recursing where both sides hold a mapping under the same key. Values
// already in target are never replaced and keys found only in target are
// kept. New keys are appended after target's own keys in template order and
// are deep copies, so later edits to target never reach template.
func MergeAdditive(template, target *Document) {
	if template.Len() == 0 || target == nil {
		return
	}
	if target.node == nil {
		target.node = newMapping()
	}
	mergeMapping(template.node, target.node)
}

func mergeMapping(src, dst *yaml.Node) {
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, val := src.Content[i], resolve(src.Content[i+1])
		idx := indexOfKey(dst, key)
		if idx < 0 {
			dst.Content = append(dst.Content, clone(key), clone(val))
			continue
		}
		existing := dst.Content[idx+1]
		if val.Kind == yaml.MappingNode && existing.Kind == yaml.MappingNode {
			mergeMapping(val, existing)
		}
	}
}

// indexOfKey matches keys by value and resolved tag, so "1" and 1 are
// distinct keys.
func indexOfKey(m *yaml.Node, key *yaml.Node) int {
	key = resolve(key)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := resolve(m.Content[i])
		if k.Value == key.Value && k.ShortTag() == key.ShortTag() {
			return i
		}
	}
	return -1
}
