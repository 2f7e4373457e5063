package document

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// BlockScalarLines returns the 1-based numbers of the lines in data that
// belong to literal or folded block scalars, indicator line included. Lines
// inside a block scalar are content even when they start with '#'. Payloads
// that do not parse yield no lines.
func BlockScalarLines(data []byte) map[int]bool {
	lines := map[int]bool{}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return lines
	}
	text := strings.Split(string(data), "\n")
	collectBlockScalars(&root, text, lines)
	return lines
}

func collectBlockScalars(n *yaml.Node, text []string, lines map[int]bool) {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			collectBlockScalars(c, text, lines)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if isBlockScalar(val) {
				markBlock(val.Line, key.Column-1, text, lines)
				continue
			}
			collectBlockScalars(val, text, lines)
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if isBlockScalar(item) {
				markBlock(item.Line, indentOf(lineAt(text, item.Line)), text, lines)
				continue
			}
			collectBlockScalars(item, text, lines)
		}
	}
}

func isBlockScalar(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0
}

// markBlock marks the indicator line and every following line that is blank
// or indented deeper than parent.
func markBlock(start, parent int, text []string, lines map[int]bool) {
	if start < 1 {
		return
	}
	lines[start] = true
	for l := start + 1; l <= len(text); l++ {
		line := lineAt(text, l)
		if strings.TrimSpace(line) != "" && indentOf(line) <= parent {
			return
		}
		lines[l] = true
	}
}

func lineAt(text []string, l int) string {
	if l < 1 || l > len(text) {
		return ""
	}
	return strings.TrimSuffix(text[l-1], "\r")
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
