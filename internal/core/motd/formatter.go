// Package motd builds the two-line status-ping banner.
package motd

import (
	"fyrxlab.net/solvermotd/internal/core/legacy"
	"fyrxlab.net/solvermotd/internal/core/settings"
)

// Resolver substitutes external placeholders in banner text.
type Resolver interface {
	SetPlaceholders(text string) string
}

// Format renders both banner lines into section-sign text joined by one
// line break. resolver may be nil when no placeholder service is present;
// it is consulted only when the settings enable it.
func Format(cfg settings.Settings, resolver Resolver) string {
	line1, line2 := cfg.Line1, cfg.Line2
	if resolver != nil && cfg.UsePlaceholders {
		line1 = resolver.SetPlaceholders(line1)
		line2 = resolver.SetPlaceholders(line2)
	}
	if cfg.UseMiniMessage {
		return MiniMessageToLegacy(line1 + "\n" + line2)
	}
	return legacy.Translate(legacy.AltColorChar, line1) + "\n" + legacy.Translate(legacy.AltColorChar, line2)
}
