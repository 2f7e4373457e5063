package motd

import (
	"strconv"
	"strings"

	"fyrxlab.net/solvermotd/internal/core/legacy"
)

type styleTag struct {
	name  string
	color byte
	deco  byte
}

var decorationAliases = map[string]byte{
	"bold":          legacy.Bold,
	"b":             legacy.Bold,
	"italic":        legacy.Italic,
	"i":             legacy.Italic,
	"em":            legacy.Italic,
	"underlined":    legacy.Underline,
	"u":             legacy.Underline,
	"strikethrough": legacy.Strikethrough,
	"st":            legacy.Strikethrough,
	"obfuscated":    legacy.Obfuscated,
	"obf":           legacy.Obfuscated,
}

// MiniMessageToLegacy converts MiniMessage-style tags to section-sign text.
// Supported tags: named colours, <color:NAME>, <#RRGGBB> (mapped to the
// nearest legacy colour), decorations and their short forms, <reset>,
// <newline>/<br>, and closing tags. Unknown tags are kept verbatim and
// \< escapes a literal bracket.
func MiniMessageToLegacy(input string) string {
	var (
		out     strings.Builder
		text    strings.Builder
		stack   []styleTag
		emitted legacy.Style
	)
	flush := func() {
		if text.Len() == 0 {
			return
		}
		want := effectiveStyle(stack)
		if want != emitted {
			out.WriteString(transition(emitted, want))
			emitted = want
		}
		out.WriteString(text.String())
		text.Reset()
	}

	for i := 0; i < len(input); i++ {
		c := input[i]
		if c == '\\' && i+1 < len(input) && input[i+1] == '<' {
			text.WriteByte('<')
			i++
			continue
		}
		if c == '<' {
			if end := strings.IndexByte(input[i+1:], '>'); end >= 0 {
				raw := strings.ToLower(strings.TrimSpace(input[i+1 : i+1+end]))
				if raw == "newline" || raw == "br" {
					text.WriteByte('\n')
					i += end + 1
					continue
				}
				if next, ok := applyTag(stack, raw); ok {
					flush()
					stack = next
					i += end + 1
					continue
				}
			}
		}
		text.WriteByte(c)
	}
	flush()
	return out.String()
}

func applyTag(stack []styleTag, raw string) ([]styleTag, bool) {
	if raw == "" {
		return stack, false
	}
	if raw == "reset" {
		return nil, true
	}
	if strings.HasPrefix(raw, "/") {
		name := canonicalName(raw[1:])
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].name == name {
				return stack[:i:i], true
			}
		}
		return stack, false
	}
	tag, ok := parseTag(raw)
	if !ok {
		return stack, false
	}
	next := make([]styleTag, len(stack), len(stack)+1)
	copy(next, stack)
	return append(next, tag), true
}

// canonicalName maps a closing tag onto the name its opening tag was stored
// under, so </b> closes <bold> and </color> closes <color:red>.
func canonicalName(name string) string {
	if code, ok := decorationAliases[name]; ok {
		return "deco:" + string(code)
	}
	switch {
	case name == "color" || name == "colour" || name == "c":
		return "color"
	case strings.HasPrefix(name, "#"), strings.HasPrefix(name, "color:"),
		strings.HasPrefix(name, "colour:"), strings.HasPrefix(name, "c:"):
		return "color"
	}
	if _, ok := legacy.ColorByName(name); ok {
		return "color"
	}
	return name
}

func parseTag(raw string) (styleTag, bool) {
	if code, ok := decorationAliases[raw]; ok {
		return styleTag{name: "deco:" + string(code), deco: code}, true
	}
	value := raw
	for _, prefix := range []string{"color:", "colour:", "c:"} {
		if strings.HasPrefix(raw, prefix) {
			value = strings.TrimPrefix(raw, prefix)
			break
		}
	}
	if c, ok := legacy.ColorByName(value); ok {
		return styleTag{name: "color", color: c.Code}, true
	}
	if rgb, ok := parseHex(value); ok {
		return styleTag{name: "color", color: legacy.Nearest(rgb).Code}, true
	}
	return styleTag{}, false
}

func parseHex(value string) ([3]uint8, bool) {
	if len(value) != 7 || value[0] != '#' {
		return [3]uint8{}, false
	}
	n, err := strconv.ParseUint(value[1:], 16, 32)
	if err != nil {
		return [3]uint8{}, false
	}
	return [3]uint8{uint8(n >> 16), uint8(n >> 8), uint8(n)}, true
}

func effectiveStyle(stack []styleTag) legacy.Style {
	var s legacy.Style
	for _, tag := range stack {
		if tag.color != 0 {
			s.Color = tag.color
			continue
		}
		switch tag.deco {
		case legacy.Bold:
			s.Bold = true
		case legacy.Italic:
			s.Italic = true
		case legacy.Underline:
			s.Underline = true
		case legacy.Strikethrough:
			s.Strikethrough = true
		case legacy.Obfuscated:
			s.Obfuscated = true
		}
	}
	return s
}

// transition emits the codes that move a legacy renderer from one style to
// another. Colour codes reset decorations, so dropping a decoration or
// changing colour restarts from the colour (or reset) code.
func transition(from, to legacy.Style) string {
	var b strings.Builder
	code := func(c byte) {
		b.WriteRune(legacy.SectionSign)
		b.WriteByte(c)
	}
	removed := (from.Bold && !to.Bold) || (from.Italic && !to.Italic) ||
		(from.Underline && !to.Underline) || (from.Strikethrough && !to.Strikethrough) ||
		(from.Obfuscated && !to.Obfuscated)
	fresh := removed || from.Color != to.Color
	if fresh {
		if to.Color != 0 {
			code(to.Color)
		} else {
			code(legacy.Reset)
		}
		from = legacy.Style{Color: to.Color}
	}
	if to.Obfuscated && !from.Obfuscated {
		code(legacy.Obfuscated)
	}
	if to.Bold && !from.Bold {
		code(legacy.Bold)
	}
	if to.Strikethrough && !from.Strikethrough {
		code(legacy.Strikethrough)
	}
	if to.Underline && !from.Underline {
		code(legacy.Underline)
	}
	if to.Italic && !from.Italic {
		code(legacy.Italic)
	}
	return b.String()
}
