// Package messages resolves display strings from messages.yml.
package messages

import (
	"strings"

	"fyrxlab.net/solvermotd/internal/core/document"
	"fyrxlab.net/solvermotd/internal/core/legacy"
)

// Message keys the add-on sends.
const (
	KeyPrefix             = "prefix"
	KeyHelp               = "help_message"
	KeyReloadNoPermission = "reload_no_permission"
	KeyReloadSuccess      = "reload_success"
	KeyInvalidCommand     = "invalid_command"
	KeyConfigRegenerated  = "config_regenerated"
)

// Catalog is an immutable lookup table built from a merged messages document.
type Catalog struct {
	doc *document.Document
}

// NewCatalog captures a private copy of doc.
func NewCatalog(doc *document.Document) *Catalog {
	return &Catalog{doc: doc.Clone()}
}

// Template returns the raw template stored under key.
func (c *Catalog) Template(key string) (string, bool) {
	if c == nil || !c.doc.Has(key) {
		return "", false
	}
	const missing = "\x00"
	v := c.doc.String(key, missing)
	if v == missing {
		return "", false
	}
	return v, true
}

// Get resolves key into display text. {prefix} is replaced with the prefix
// message and colour codes are translated; replacements are then applied as
// old/new pairs, so substituted values keep any '&' they contain. Missing
// keys resolve to a red "Message not found" line.
func (c *Catalog) Get(key string, replacements ...string) string {
	msg, ok := c.Template(key)
	if !ok {
		msg = "&cMessage not found: " + key
	}
	prefix, _ := c.Template(KeyPrefix)
	msg = legacy.Translate(legacy.AltColorChar, strings.ReplaceAll(msg, "{prefix}", prefix))
	if len(replacements) >= 2 {
		msg = strings.NewReplacer(replacements[:len(replacements)&^1]...).Replace(msg)
	}
	return msg
}

// Plain is Get with colour codes written back as '&', for operator logs.
func (c *Catalog) Plain(key string, replacements ...string) string {
	return legacy.Untranslate(c.Get(key, replacements...))
}
