// Package permissions implements a console command sender backed by a
// static grant list.
package permissions

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Wildcard grants every permission.
const Wildcard = "*"

// ConsoleSender is a CommandSender that holds a fixed set of grants and
// writes messages to an io.Writer.
type ConsoleSender struct {
	name   string
	grants map[string]struct{}
	out    io.Writer

	mu       sync.Mutex
	messages []string
}

// NewConsoleSender creates a sender. out may be nil to only record.
//
// A grant is either an exact permission, Wildcard, or a "prefix.*" pattern
// matching every permission below prefix.
func NewConsoleSender(name string, out io.Writer, grants ...string) *ConsoleSender {
	s := &ConsoleSender{name: name, out: out, grants: make(map[string]struct{}, len(grants))}
	for _, g := range grants {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			s.grants[g] = struct{}{}
		}
	}
	return s
}

// Name identifies the sender in logs
func (s *ConsoleSender) Name() string {
	return s.name
}

// HasPermission reports whether any grant covers permission
func (s *ConsoleSender) HasPermission(permission string) bool {
	permission = strings.ToLower(permission)
	if _, ok := s.grants[Wildcard]; ok {
		return true
	}
	if _, ok := s.grants[permission]; ok {
		return true
	}
	for node := permission; ; {
		i := strings.LastIndexByte(node, '.')
		if i < 0 {
			return false
		}
		node = node[:i]
		if _, ok := s.grants[node+".*"]; ok {
			return true
		}
	}
}

// SendMessage records message and writes it on its own line
func (s *ConsoleSender) SendMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	if s.out != nil {
		fmt.Fprintln(s.out, message)
	}
}

// Messages returns every message sent so far
func (s *ConsoleSender) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}
