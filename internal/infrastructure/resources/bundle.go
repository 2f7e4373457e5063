// Package resources ships the default config.yml and messages.yml inside
// the binary.
package resources

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"fyrxlab.net/solvermotd/internal/application/ports"
)

// ErrTemplateNotFound is returned for names with no bundled template.
var ErrTemplateNotFound = ports.ErrTemplateNotFound

//go:embed templates/*.yml
var embedded embed.FS

const templateDir = "templates"

// Bundle serves templates from a file system rooted at the template
// directory.
type Bundle struct {
	fsys fs.FS
}

// NewBundle returns the templates compiled into the binary.
func NewBundle() *Bundle {
	sub, err := fs.Sub(embedded, templateDir)
	if err != nil {
		// templateDir is a literal matched by the embed directive.
		panic(err)
	}
	return &Bundle{fsys: sub}
}

// NewBundleFS serves templates from fsys, e.g. an fstest.MapFS in tests or
// an os.DirFS for operator overrides.
func NewBundleFS(fsys fs.FS) *Bundle {
	return &Bundle{fsys: fsys}
}

// Template returns the raw bytes of the named template
func (b *Bundle) Template(name string) ([]byte, error) {
	if !fs.ValidPath(name) || strings.Contains(name, "/") {
		return nil, fmt.Errorf("template %q: %w", name, ErrTemplateNotFound)
	}
	data, err := fs.ReadFile(b.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("template %q: %w", name, ErrTemplateNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	return data, nil
}

// Names lists the bundled templates in sorted order
func (b *Bundle) Names() []string {
	entries, err := fs.ReadDir(b.fsys, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := path.Ext(e.Name()); ext == ".yml" || ext == ".yaml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
