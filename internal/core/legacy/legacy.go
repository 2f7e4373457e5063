// Package legacy handles section-sign formatting codes used by status-ping
// banners and chat messages.
package legacy

import (
	"strings"
	"unicode"
)

// SectionSign introduces a formatting code in rendered text.
const SectionSign = '§'

// AltColorChar is the operator-friendly stand-in for SectionSign.
const AltColorChar = '&'

const formattingCodes = "0123456789AaBbCcDdEeFfKkLlMmNnOoRrXx"

// Color is one of the sixteen legacy palette entries.
type Color struct {
	Code byte
	Name string
	Hex  string
	RGB  [3]uint8
}

// Palette lists the legacy colours in code order.
var Palette = []Color{
	{'0', "black", "#000000", [3]uint8{0x00, 0x00, 0x00}},
	{'1', "dark_blue", "#0000AA", [3]uint8{0x00, 0x00, 0xAA}},
	{'2', "dark_green", "#00AA00", [3]uint8{0x00, 0xAA, 0x00}},
	{'3', "dark_aqua", "#00AAAA", [3]uint8{0x00, 0xAA, 0xAA}},
	{'4', "dark_red", "#AA0000", [3]uint8{0xAA, 0x00, 0x00}},
	{'5', "dark_purple", "#AA00AA", [3]uint8{0xAA, 0x00, 0xAA}},
	{'6', "gold", "#FFAA00", [3]uint8{0xFF, 0xAA, 0x00}},
	{'7', "gray", "#AAAAAA", [3]uint8{0xAA, 0xAA, 0xAA}},
	{'8', "dark_gray", "#555555", [3]uint8{0x55, 0x55, 0x55}},
	{'9', "blue", "#5555FF", [3]uint8{0x55, 0x55, 0xFF}},
	{'a', "green", "#55FF55", [3]uint8{0x55, 0xFF, 0x55}},
	{'b', "aqua", "#55FFFF", [3]uint8{0x55, 0xFF, 0xFF}},
	{'c', "red", "#FF5555", [3]uint8{0xFF, 0x55, 0x55}},
	{'d', "light_purple", "#FF55FF", [3]uint8{0xFF, 0x55, 0xFF}},
	{'e', "yellow", "#FFFF55", [3]uint8{0xFF, 0xFF, 0x55}},
	{'f', "white", "#FFFFFF", [3]uint8{0xFF, 0xFF, 0xFF}},
}

// Decoration codes.
const (
	Obfuscated    byte = 'k'
	Bold          byte = 'l'
	Strikethrough byte = 'm'
	Underline     byte = 'n'
	Italic        byte = 'o'
	Reset         byte = 'r'
)

// ColorByCode returns the palette entry for a colour code.
func ColorByCode(code byte) (Color, bool) {
	code = toLower(code)
	for _, c := range Palette {
		if c.Code == code {
			return c, true
		}
	}
	return Color{}, false
}

// ColorByName returns the palette entry with the given name ("grey" variants accepted).
func ColorByName(name string) (Color, bool) {
	name = strings.ReplaceAll(strings.ToLower(name), "grey", "gray")
	for _, c := range Palette {
		if c.Name == name {
			return c, true
		}
	}
	return Color{}, false
}

// Nearest returns the palette colour closest to rgb.
func Nearest(rgb [3]uint8) Color {
	best := Palette[0]
	bestDist := -1
	for _, c := range Palette {
		dr := int(c.RGB[0]) - int(rgb[0])
		dg := int(c.RGB[1]) - int(rgb[1])
		db := int(c.RGB[2]) - int(rgb[2])
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

// Translate replaces alt followed by a valid formatting code with the
// section sign and lower-cases the code. Other occurrences of alt are kept.
func Translate(alt rune, text string) string {
	runes := []rune(text)
	for i := 0; i < len(runes)-1; i++ {
		if runes[i] == alt && strings.ContainsRune(formattingCodes, runes[i+1]) {
			runes[i] = SectionSign
			runes[i+1] = unicode.ToLower(runes[i+1])
		}
	}
	return string(runes)
}

// Untranslate turns every section sign back into the alternate character,
// which is how formatted text is written to plain operator logs.
func Untranslate(text string) string {
	return strings.ReplaceAll(text, string(SectionSign), string(AltColorChar))
}

// Strip removes section-sign codes.
func Strip(text string) string {
	var b strings.Builder
	for _, seg := range Segments(text) {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Style is the formatting active for a run of text.
type Style struct {
	Color         byte
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Obfuscated    bool
}

// Segment is a run of text sharing one Style.
type Segment struct {
	Text  string
	Style Style
}

// Segments splits section-sign formatted text into styled runs. A colour
// code clears decorations, matching how clients render legacy text.
func Segments(text string) []Segment {
	var (
		out     []Segment
		current Style
		buf     strings.Builder
	)
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		out = append(out, Segment{Text: buf.String(), Style: current})
		buf.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != SectionSign || i+1 >= len(runes) || runes[i+1] > unicode.MaxASCII {
			buf.WriteRune(r)
			continue
		}
		code := toLower(byte(runes[i+1]))
		if !strings.ContainsRune(formattingCodes, rune(code)) {
			buf.WriteRune(r)
			continue
		}
		flush()
		i++
		switch code {
		case Reset:
			current = Style{}
		case Bold:
			current.Bold = true
		case Italic:
			current.Italic = true
		case Underline:
			current.Underline = true
		case Strikethrough:
			current.Strikethrough = true
		case Obfuscated:
			current.Obfuscated = true
		case 'x':
			// hex sequences are not rendered; treat as reset
			current = Style{}
		default:
			current = Style{Color: code}
		}
	}
	flush()
	return out
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
