package commands

import (
	"sort"
	"strings"

	"fyrxlab.net/solvermotd/internal/application/ports"
)

// Handler processes one subcommand for sender. args excludes the
// subcommand name itself.
type Handler func(sender ports.CommandSender, args []string)

// Dispatcher routes a root command's first argument to a registered
// subcommand handler. Names are matched case-insensitively.
type Dispatcher struct {
	label    string
	handlers map[string]Handler
	empty    Handler
	fallback Handler
}

// NewDispatcher creates a dispatcher for the root command label
func NewDispatcher(label string) *Dispatcher {
	return &Dispatcher{
		label:    strings.ToLower(label),
		handlers: make(map[string]Handler),
	}
}

// Register binds name to h, replacing any previous binding
func (d *Dispatcher) Register(name string, h Handler) {
	d.handlers[strings.ToLower(name)] = h
}

// OnEmpty sets the handler used when the root command has no arguments
func (d *Dispatcher) OnEmpty(h Handler) {
	d.empty = h
}

// OnUnknown sets the handler used for unregistered subcommands
func (d *Dispatcher) OnUnknown(h Handler) {
	d.fallback = h
}

// Names lists the registered subcommands in sorted order
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the handler matching args. It reports false when label
// does not name this dispatcher's root command, leaving the invocation to
// the host.
func (d *Dispatcher) Dispatch(sender ports.CommandSender, label string, args []string) bool {
	if !strings.EqualFold(label, d.label) {
		return false
	}

	if len(args) == 0 {
		if d.empty != nil {
			d.empty(sender, nil)
		}
		return true
	}

	if h, ok := d.handlers[strings.ToLower(args[0])]; ok {
		h(sender, args[1:])
		return true
	}
	if d.fallback != nil {
		d.fallback(sender, args)
	}
	return true
}
