package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"

	"fyrxlab.net/solvermotd/internal/application/ports"
	"fyrxlab.net/solvermotd/internal/application/services"
	"fyrxlab.net/solvermotd/internal/core/motd"
	"fyrxlab.net/solvermotd/internal/core/settings"
	"fyrxlab.net/solvermotd/internal/infrastructure/logging"
	"fyrxlab.net/solvermotd/internal/infrastructure/placeholders"
	"fyrxlab.net/solvermotd/internal/infrastructure/resources"
	"fyrxlab.net/solvermotd/internal/interfaces/cli"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	Logger    *logging.ZapGateway
	Templates ports.TemplateSource
	Resolver  motd.Resolver

	// Core services
	Holder     *settings.Holder
	Reconciler *services.ReconcileService
	Plugin     *services.PluginService

	// CLI
	CLIContainer *cli.CLIContainer

	logOutput zapcore.WriteSyncer
	mu        sync.Mutex
}

// NewContainer creates and configures the dependency injection container
func NewContainer() (*Container, error) {
	return NewContainerWithOutput(nil)
}

// NewContainerWithOutput creates a container whose logs go to out instead
// of stderr.
func NewContainerWithOutput(out io.Writer) (*Container, error) {
	c := &Container{Templates: resources.NewBundle()}
	if out != nil {
		c.logOutput = zapcore.AddSync(out)
	}

	logger, err := logging.NewZapGateway(logging.Options{Level: ports.LogLevelInfo, Output: c.logOutput})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.Logger = logger

	c.CLIContainer = &cli.CLIContainer{
		Logger:     c.Logger,
		Initialize: c.Configure,
	}
	return c, nil
}

// Configure wires the services for the parsed command-line options. It is
// called once flags are known, before any command runs.
func (c *Container) Configure(opts cli.Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	level := ports.LogLevelInfo
	if opts.Debug {
		level = ports.LogLevelDebug
	}
	if err := c.Logger.ConfigureLogging(&ports.LoggingConfig{Level: level, Format: opts.LogFormat}); err != nil {
		return err
	}

	mode, err := services.ParseHeaderMode(opts.HeaderMode)
	if err != nil {
		return err
	}

	resolver, err := newResolver(opts)
	if err != nil {
		return err
	}
	c.Resolver = resolver

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = cli.DefaultDataDir
	}

	docs, err := managedDocuments(c.Templates, dataDir)
	if err != nil {
		return err
	}

	c.Holder = settings.NewHolder()
	c.Reconciler = services.NewReconcileService(c.Templates, c.Logger, mode, docs...)
	c.Plugin = services.NewPluginService(c.Reconciler, c.Holder, c.Resolver, c.Logger)

	c.CLIContainer.Options = opts
	c.CLIContainer.Options.DataDir = dataDir
	c.CLIContainer.Reconciler = c.Reconciler
	c.CLIContainer.Plugin = c.Plugin

	fields := map[string]interface{}{
		"data_dir":    dataDir,
		"header_mode": mode.String(),
		"log_format":  opts.LogFormat,
		"documents":   len(docs),
	}
	if static, ok := c.Resolver.(*placeholders.Static); ok {
		fields["placeholders"] = static.Names()
	}
	c.Logger.Log(ports.LogLevelDebug, "Dependency injection container initialized", fields)
	return nil
}

// managedDocuments declares one document per bundled template, named after
// the template without its extension. config and messages must be bundled.
func managedDocuments(templates ports.TemplateSource, dataDir string) ([]services.ManagedDocument, error) {
	var docs []services.ManagedDocument
	declared := make(map[string]bool)
	for _, tmpl := range templates.Names() {
		name := strings.TrimSuffix(tmpl, filepath.Ext(tmpl))
		if declared[name] {
			continue
		}
		declared[name] = true
		docs = append(docs, services.ManagedDocument{Name: name, Path: filepath.Join(dataDir, tmpl), Template: tmpl})
	}
	for _, required := range []string{services.ConfigDocument, services.MessagesDocument} {
		if !declared[required] {
			return nil, fmt.Errorf("no bundled template for %s", required)
		}
	}
	return docs, nil
}

// newResolver returns nil when the placeholder service is switched off.
func newResolver(opts cli.Options) (motd.Resolver, error) {
	if opts.NoPlaceholders {
		return nil, nil
	}
	values, err := placeholders.ParseAssignments(opts.Placeholders)
	if err != nil {
		return nil, err
	}
	return placeholders.NewStatic(values), nil
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	plugin := c.Plugin
	c.mu.Unlock()

	if plugin != nil {
		plugin.Disable()
	}
	if err := c.Logger.Sync(); err != nil && !isInvalidSync(err) {
		return fmt.Errorf("failed to flush logs: %w", err)
	}
	return nil
}

// isInvalidSync reports errors from syncing a terminal, which zap surfaces
// for stderr on most platforms.
func isInvalidSync(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr)
}
