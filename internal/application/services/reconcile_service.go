package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"fyrxlab.net/solvermotd/internal/application/ports"
	"fyrxlab.net/solvermotd/internal/core/document"
)

// ManagedDocument identifies one reconcilable settings file.
type ManagedDocument struct {
	Name     string // logical name, e.g. "config"
	Path     string // on-disk location
	Template string // bundled template name, e.g. "config.yml"
}

// UpdateFunc receives the merged document before it is persisted.
type UpdateFunc func(doc *document.Document)

// NamedUpdateFunc is an UpdateFunc shared by several documents.
type NamedUpdateFunc func(name string, doc *document.Document)

func (fn NamedUpdateFunc) bind(name string) UpdateFunc {
	if fn == nil {
		return nil
	}
	return func(doc *document.Document) { fn(name, doc) }
}

// ReconcileResult describes one completed reconcile cycle. Document is
// always usable, even when every step failed.
type ReconcileResult struct {
	Name        string
	Path        string
	Document    *document.Document
	Regenerated bool
	Persisted   bool
	Warnings    []error
}

// ReconcileService loads, heals and rewrites managed documents
type ReconcileService struct {
	templates  ports.TemplateSource
	logger     ports.LoggingGateway
	headerMode HeaderMode

	mu           sync.Mutex
	docs         map[string]ManagedDocument
	order        []string
	locks        map[string]*sync.Mutex
	onRegenerate func(file string)
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(templates ports.TemplateSource, logger ports.LoggingGateway, mode HeaderMode, docs ...ManagedDocument) *ReconcileService {
	s := &ReconcileService{
		templates:  templates,
		logger:     logger,
		headerMode: mode,
		docs:       make(map[string]ManagedDocument, len(docs)),
		locks:      make(map[string]*sync.Mutex, len(docs)),
	}
	for _, d := range docs {
		if _, dup := s.docs[d.Name]; !dup {
			s.order = append(s.order, d.Name)
		}
		s.docs[d.Name] = d
		s.locks[d.Name] = &sync.Mutex{}
	}
	return s
}

// OnRegenerate registers the notice emitted when a missing file is seeded
// from its template. file is the base name of the regenerated file.
func (s *ReconcileService) OnRegenerate(fn func(file string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRegenerate = fn
}

// Documents returns the managed documents in declaration order
func (s *ReconcileService) Documents() []ManagedDocument {
	out := make([]ManagedDocument, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.docs[name])
	}
	return out
}

// Document returns the managed document registered under name
func (s *ReconcileService) Document(name string) (ManagedDocument, bool) {
	d, ok := s.docs[name]
	return d, ok
}

// HeaderMode returns the configured header extraction rule
func (s *ReconcileService) HeaderMode() HeaderMode {
	return s.headerMode
}

// EnsureExists seeds the document's file verbatim from its bundled template
// when the file is absent. It reports whether the file was created. A missing
// template leaves the file absent and returns an error wrapping
// ports.ErrTemplateNotFound.
func (s *ReconcileService) EnsureExists(name string) (bool, error) {
	d, ok := s.docs[name]
	if !ok {
		return false, fmt.Errorf("reconcile: unknown document %q", name)
	}
	return s.ensureExists(d)
}

func (s *ReconcileService) ensureExists(d ManagedDocument) (bool, error) {
	if _, err := os.Stat(d.Path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("reconcile: stat %s: %w", d.Path, err)
	}

	data, err := s.templates.Template(d.Template)
	if err != nil {
		return false, fmt.Errorf("reconcile: seed %s: %w", d.Path, err)
	}
	if err := os.MkdirAll(filepath.Dir(d.Path), 0o755); err != nil {
		return false, fmt.Errorf("reconcile: ensure data dir: %w", err)
	}
	if err := os.WriteFile(d.Path, data, 0o644); err != nil {
		return false, fmt.Errorf("reconcile: write %s: %w", d.Path, err)
	}
	return true, nil
}

// Reconcile runs the full cycle for the named document: seed when missing,
// extract the header, load the current content, merge the bundled defaults
// into it, hand it to update and write it back. Failures are logged and
// replaced with empty values; Reconcile itself never fails.
func (s *ReconcileService) Reconcile(name string, update UpdateFunc) ReconcileResult {
	d, ok := s.docs[name]
	if !ok {
		err := fmt.Errorf("reconcile: unknown document %q", name)
		s.logger.LogError(err, "Cannot reconcile unknown document", map[string]interface{}{"document": name})
		result := ReconcileResult{Name: name, Document: document.New(), Warnings: []error{err}}
		if update != nil {
			update(result.Document)
		}
		return result
	}

	lock := s.locks[name]
	lock.Lock()
	defer lock.Unlock()

	result := ReconcileResult{Name: name, Path: d.Path}
	fields := map[string]interface{}{"document": name, "path": d.Path}

	created, err := s.ensureExists(d)
	switch {
	case errors.Is(err, ports.ErrTemplateNotFound):
		s.logger.LogError(err, "Bundled template missing; document was not created", fields)
		result.Warnings = append(result.Warnings, err)
		result.Document = document.New()
		if update != nil {
			update(result.Document)
		}
		return result
	case err != nil:
		s.logger.LogError(err, "Failed to create document from template", fields)
		result.Warnings = append(result.Warnings, err)
	case created:
		result.Regenerated = true
		s.notifyRegenerated(d)
	}

	header, err := ExtractHeader(d.Path, s.headerMode)
	if err != nil {
		s.logger.Log(ports.LogLevelWarn, "Error reading header from "+filepath.Base(d.Path), withError(fields, err))
		result.Warnings = append(result.Warnings, err)
		header = nil
	}

	current, err := document.Load(d.Path)
	if err != nil {
		s.logger.Log(ports.LogLevelWarn, "Error while loading "+filepath.Base(d.Path), withError(fields, err))
		result.Warnings = append(result.Warnings, err)
		current = document.New()
	}

	defaults, err := s.loadTemplate(d)
	if err != nil {
		s.logger.Log(ports.LogLevelWarn, "Error while loading default "+d.Template, withError(fields, err))
		result.Warnings = append(result.Warnings, err)
		defaults = document.New()
	}

	document.MergeAdditive(defaults, current)
	if update != nil {
		update(current)
	}
	result.Document = current

	if err := document.Save(current, d.Path, header); err != nil {
		s.logger.Log(ports.LogLevelWarn, "Error while saving "+filepath.Base(d.Path), withError(fields, err))
		result.Warnings = append(result.Warnings, err)
		return result
	}
	result.Persisted = true

	s.logger.Log(ports.LogLevelDebug, "Document reconciled", map[string]interface{}{
		"document":    name,
		"path":        d.Path,
		"keys":        current.Len(),
		"header":      len(header),
		"regenerated": result.Regenerated,
	})
	return result
}

func (s *ReconcileService) loadTemplate(d ManagedDocument) (*document.Document, error) {
	data, err := s.templates.Template(d.Template)
	if err != nil {
		return nil, err
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, &document.ReadError{Path: d.Template, Op: "parse", Err: err}
	}
	return doc, nil
}

func (s *ReconcileService) notifyRegenerated(d ManagedDocument) {
	s.mu.Lock()
	fn := s.onRegenerate
	s.mu.Unlock()

	file := filepath.Base(d.Path)
	if fn != nil {
		fn(file)
		return
	}
	s.logger.Log(ports.LogLevelInfo, "Regenerated "+file, map[string]interface{}{"document": d.Name, "path": d.Path})
}

func withError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
