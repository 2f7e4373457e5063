// Package placeholders provides a fixed-value stand-in for the host's
// placeholder service.
package placeholders

import (
	"fmt"
	"sort"
	"strings"
)

// Static replaces %name% tokens with fixed values. Unknown tokens are left
// as written.
type Static struct {
	values map[string]string
}

// NewStatic builds a resolver for values. Names are matched
// case-insensitively.
func NewStatic(values map[string]string) *Static {
	s := &Static{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[strings.ToLower(k)] = v
	}
	return s
}

// SetPlaceholders returns text with every known %name% token replaced
func (s *Static) SetPlaceholders(text string) string {
	if len(s.values) == 0 || !strings.Contains(text, "%") {
		return text
	}

	var b strings.Builder
	for {
		start := strings.IndexByte(text, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(text[start+1:], '%')
		if end < 0 {
			break
		}
		name := text[start+1 : start+1+end]
		if v, ok := s.values[strings.ToLower(name)]; ok && name != "" {
			b.WriteString(text[:start])
			b.WriteString(v)
			text = text[start+end+2:]
			continue
		}
		// Not a known token; keep the first '%' and rescan from the second.
		b.WriteString(text[:start+1+end])
		text = text[start+1+end:]
	}
	b.WriteString(text)
	return b.String()
}

// Names lists the known placeholder names in sorted order
func (s *Static) Names() []string {
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParseAssignments parses name=value pairs as given on the command line.
func ParseAssignments(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid placeholder %q (want name=value)", pair)
		}
		values[strings.Trim(name, "%")] = value
	}
	return values, nil
}
