package motd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"fyrxlab.net/solvermotd/internal/core/settings"
)

type spyResolver struct {
	calls []string
}

func (s *spyResolver) SetPlaceholders(text string) string {
	s.calls = append(s.calls, text)
	return strings.ReplaceAll(text, "%server_online%", "12")
}

func TestFormat_LegacyLines(t *testing.T) {
	cfg := settings.Settings{Line1: "&aHello", Line2: "&cWorld"}

	assert.Equal(t, "§aHello\n§cWorld", Format(cfg, nil))
}

func TestFormat_Defaults(t *testing.T) {
	got := Format(settings.Defaults(), nil)

	assert.Equal(t, "§a§lSolver§c§lMOTD §3Plugin §2[1.8 - 1.21] §4❤\n§aSetup your §eConfig.yml §afile!", got)
}

func TestFormat_PlaceholdersDisabledNeverCallsResolver(t *testing.T) {
	spy := &spyResolver{}
	cfg := settings.Settings{UsePlaceholders: false, Line1: "%server_online% online", Line2: "x"}

	got := Format(cfg, spy)

	assert.Empty(t, spy.calls, "resolver must not be invoked when use_papi is false")
	assert.Equal(t, "%server_online% online\nx", got)
}

func TestFormat_PlaceholdersEnabled(t *testing.T) {
	spy := &spyResolver{}
	cfg := settings.Settings{UsePlaceholders: true, Line1: "&e%server_online% online", Line2: "x"}

	got := Format(cfg, spy)

	assert.Equal(t, []string{"&e%server_online% online", "x"}, spy.calls)
	assert.Equal(t, "§e12 online\nx", got)
}

func TestFormat_PlaceholdersEnabledWithoutService(t *testing.T) {
	cfg := settings.Settings{UsePlaceholders: true, Line1: "%server_online%", Line2: ""}

	assert.Equal(t, "%server_online%\n", Format(cfg, nil))
}

func TestFormat_MiniMessage(t *testing.T) {
	cfg := settings.Settings{UseMiniMessage: true, Line1: "<green>Hi", Line2: "<red>There"}

	assert.Equal(t, "§aHi\n§cThere", Format(cfg, nil))
}

func TestMiniMessageToLegacy(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello", want: "hello"},
		{name: "colour_then_close", input: "<red>Hello</red> World", want: "§cHello§r World"},
		{name: "nested_decoration", input: "<bold><gold>Solver</gold> MOTD", want: "§6§lSolver§r§l MOTD"},
		{name: "short_decorations", input: "<b><i>x</i>y</b>z", want: "§l§ox§r§ly§rz"},
		{name: "hex_nearest", input: "<#ff5555>x", want: "§cx"},
		{name: "color_prefix", input: "<color:aqua>x</color>", want: "§bx"},
		{name: "reset", input: "<red>a<reset>b", want: "§ca§rb"},
		{name: "newline", input: "a<newline>b<br>c", want: "a\nb\nc"},
		{name: "unknown_tag_kept", input: "<hover:show_text:'x'>y", want: "<hover:show_text:'x'>y"},
		{name: "unmatched_close_kept", input: "a</red>", want: "a</red>"},
		{name: "escaped_bracket", input: `\<red>x`, want: "<red>x"},
		{name: "unterminated", input: "<red", want: "<red"},
		{name: "unicode_text", input: "<dark_red>❤", want: "§4❤"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MiniMessageToLegacy(tt.input))
		})
	}
}
