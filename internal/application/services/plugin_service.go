package services

import (
	"sync"
	"sync/atomic"

	"fyrxlab.net/solvermotd/internal/application/commands"
	"fyrxlab.net/solvermotd/internal/application/ports"
	"fyrxlab.net/solvermotd/internal/core/messages"
	"fyrxlab.net/solvermotd/internal/core/motd"
	"fyrxlab.net/solvermotd/internal/core/settings"
)

const (
	// ReloadPermission guards the reload subcommand.
	ReloadPermission = "solvermotd.reload"

	// CommandLabel is the root command registered with the host.
	CommandLabel = "smotd"

	// Managed document names.
	ConfigDocument   = "config"
	MessagesDocument = "messages"
)

// PluginService is the add-on as seen by the host: it answers server-list
// pings and handles the smotd command.
type PluginService struct {
	reconciler *ReconcileService
	holder     *settings.Holder
	resolver   motd.Resolver
	logger     ports.LoggingGateway
	dispatcher *commands.Dispatcher

	placeholders atomic.Bool
	enabled      atomic.Bool

	pendingMu sync.Mutex
	pending   []string
}

// NewPluginService creates the plugin. resolver is the external placeholder
// service and is nil when the host does not provide one.
func NewPluginService(reconciler *ReconcileService, holder *settings.Holder, resolver motd.Resolver, logger ports.LoggingGateway) *PluginService {
	s := &PluginService{
		reconciler: reconciler,
		holder:     holder,
		resolver:   resolver,
		logger:     logger,
	}

	d := commands.NewDispatcher(CommandLabel)
	d.OnEmpty(s.handleHelp)
	d.OnUnknown(s.handleInvalid)
	d.Register("help", s.handleHelp)
	d.Register("reload", s.handleReload)
	s.dispatcher = d

	reconciler.OnRegenerate(s.queueRegenerated)
	return s
}

// Enable loads messages then config, and detects the placeholder service.
func (s *PluginService) Enable() {
	if s.resolver != nil {
		s.placeholders.Store(true)
		s.logger.Log(ports.LogLevelInfo, "Placeholder service found, placeholders enabled", nil)
	} else {
		s.placeholders.Store(false)
		s.logger.Log(ports.LogLevelWarn, "Placeholder service not found, placeholders disabled", nil)
	}

	s.loadMessages(nil)
	s.loadConfig(nil)
	s.flushRegenerated()

	s.enabled.Store(true)
	s.logger.Log(ports.LogLevelInfo, "SolverMOTD enabled", map[string]interface{}{
		"placeholders": s.placeholders.Load(),
		"commands":     s.dispatcher.Names(),
	})
}

// Disable marks the plugin as stopped. Live configuration stays readable.
func (s *PluginService) Disable() {
	if s.enabled.Swap(false) {
		s.logger.Log(ports.LogLevelInfo, "SolverMOTD disabled", nil)
	}
}

// Enabled reports whether Enable has run and Disable has not.
func (s *PluginService) Enabled() bool {
	return s.enabled.Load()
}

// PlaceholdersAvailable reports whether the placeholder service was found
// at enable time.
func (s *PluginService) PlaceholdersAvailable() bool {
	return s.placeholders.Load()
}

// Reload reconciles config then messages and publishes both as live.
func (s *PluginService) Reload() []ReconcileResult {
	return s.ReconcileDocuments(nil, ConfigDocument, MessagesDocument)
}

// ReconcileDocuments reconciles the named documents in order, passing each
// merged document to update before it is saved. Config and messages are
// published as live; other documents are only rewritten.
func (s *PluginService) ReconcileDocuments(update NamedUpdateFunc, names ...string) []ReconcileResult {
	results := make([]ReconcileResult, 0, len(names))
	for _, name := range names {
		switch name {
		case ConfigDocument:
			results = append(results, s.loadConfig(update.bind(name)))
		case MessagesDocument:
			results = append(results, s.loadMessages(update.bind(name)))
		default:
			results = append(results, s.reconciler.Reconcile(name, update.bind(name)))
		}
	}
	s.flushRegenerated()
	return results
}

// Snapshot returns the live configuration
func (s *PluginService) Snapshot() *settings.Snapshot {
	return s.holder.Load()
}

// ReplyText renders the two configured MOTD lines.
func (s *PluginService) ReplyText() string {
	var resolver motd.Resolver
	if s.placeholders.Load() {
		resolver = s.resolver
	}
	return motd.Format(s.holder.Load().Settings, resolver)
}

// OnServerPing writes the banner into the ping's reply text
func (s *PluginService) OnServerPing(ping *ports.ServerPing) {
	if ping == nil {
		return
	}
	ping.MOTD = s.ReplyText()
}

// HandleCommand dispatches a host command. It reports false for labels
// other than CommandLabel.
func (s *PluginService) HandleCommand(sender ports.CommandSender, label string, args []string) bool {
	return s.dispatcher.Dispatch(sender, label, args)
}

func (s *PluginService) handleHelp(sender ports.CommandSender, _ []string) {
	sender.SendMessage(s.catalog().Get(messages.KeyHelp))
}

func (s *PluginService) handleInvalid(sender ports.CommandSender, _ []string) {
	sender.SendMessage(s.catalog().Get(messages.KeyInvalidCommand))
}

func (s *PluginService) handleReload(sender ports.CommandSender, _ []string) {
	if !sender.HasPermission(ReloadPermission) {
		sender.SendMessage(s.catalog().Get(messages.KeyReloadNoPermission, "{permission}", ReloadPermission))
		return
	}

	s.Reload()
	s.logger.Log(ports.LogLevelInfo, "Configuration reloaded", map[string]interface{}{"sender": sender.Name()})
	sender.SendMessage(s.catalog().Get(messages.KeyReloadSuccess))
}

func (s *PluginService) loadConfig(update UpdateFunc) ReconcileResult {
	result := s.reconciler.Reconcile(ConfigDocument, update)
	s.holder.ReplaceSettings(settings.FromDocument(result.Document))
	return result
}

func (s *PluginService) loadMessages(update UpdateFunc) ReconcileResult {
	result := s.reconciler.Reconcile(MessagesDocument, update)
	s.holder.ReplaceMessages(messages.NewCatalog(result.Document))
	return result
}

func (s *PluginService) catalog() *messages.Catalog {
	return s.holder.Load().Messages
}

// Regeneration notices are deferred until the messages they are worded
// with are live.
func (s *PluginService) queueRegenerated(file string) {
	s.pendingMu.Lock()
	s.pending = append(s.pending, file)
	s.pendingMu.Unlock()
}

func (s *PluginService) flushRegenerated() {
	s.pendingMu.Lock()
	files := s.pending
	s.pending = nil
	s.pendingMu.Unlock()

	catalog := s.catalog()
	for _, file := range files {
		s.logger.Log(ports.LogLevelInfo, catalog.Plain(messages.KeyConfigRegenerated, "{file}", file), map[string]interface{}{
			"file": file,
		})
	}
}
