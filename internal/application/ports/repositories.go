package ports

import "errors"

// ErrTemplateNotFound is returned by a TemplateSource that has no bundled
// template for the requested document.
var ErrTemplateNotFound = errors.New("bundled template not found")

// TemplateSource provides the bundled default documents shipped with the add-on
type TemplateSource interface {
	// Template returns the raw bytes of the named template (e.g. "config.yml").
	// Missing templates are reported with an error wrapping ErrTemplateNotFound.
	Template(name string) ([]byte, error)

	// Names lists available templates
	Names() []string
}
