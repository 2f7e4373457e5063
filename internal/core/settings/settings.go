// Package settings exposes the typed view of config.yml and the live
// snapshot shared by the banner and message lookups.
package settings

import "fyrxlab.net/solvermotd/internal/core/document"

// Literal fallbacks used when a key is absent from config.yml.
const (
	DefaultUsePlaceholders = true
	DefaultUseMiniMessage  = false
	DefaultLine1           = "&a&lSolver&c&lMOTD &3Plugin &2[1.8 - 1.21] &4❤"
	DefaultLine2           = "&aSetup your &eConfig.yml &afile!"
)

// Keys recognised in config.yml.
const (
	KeyUsePlaceholders = "use_papi"
	KeyUseMiniMessage  = "use_minimessage"
	KeyLine1           = "motd.line1"
	KeyLine2           = "motd.line2"
)

// Settings is the typed content of config.yml.
type Settings struct {
	UsePlaceholders bool
	UseMiniMessage  bool
	Line1           string
	Line2           string
}

// Defaults returns the settings used before config.yml has been read.
func Defaults() Settings {
	return Settings{
		UsePlaceholders: DefaultUsePlaceholders,
		UseMiniMessage:  DefaultUseMiniMessage,
		Line1:           DefaultLine1,
		Line2:           DefaultLine2,
	}
}

// FromDocument reads settings from a merged config document, substituting
// the literal defaults for missing or mistyped keys.
func FromDocument(doc *document.Document) Settings {
	if doc == nil {
		return Defaults()
	}
	return Settings{
		UsePlaceholders: doc.Bool(KeyUsePlaceholders, DefaultUsePlaceholders),
		UseMiniMessage:  doc.Bool(KeyUseMiniMessage, DefaultUseMiniMessage),
		Line1:           doc.String(KeyLine1, DefaultLine1),
		Line2:           doc.String(KeyLine2, DefaultLine2),
	}
}
