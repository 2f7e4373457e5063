package services

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fyrxlab.net/solvermotd/internal/core/document"
)

// CommentMarker starts a comment line in managed documents.
const CommentMarker = "#"

// HeaderMode selects which comment lines survive a reconcile cycle.
type HeaderMode int

const (
	// HeaderAllComments keeps every comment line in the file, in file order.
	// Comments written between keys therefore move to the top of the
	// rewritten file.
	HeaderAllComments HeaderMode = iota

	// HeaderLeadingBlock keeps only the comment lines that precede the first
	// non-blank, non-comment line. Later comments are dropped.
	HeaderLeadingBlock
)

// ParseHeaderMode maps a flag value onto a HeaderMode.
func ParseHeaderMode(value string) (HeaderMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return HeaderAllComments, nil
	case "leading":
		return HeaderLeadingBlock, nil
	default:
		return HeaderAllComments, fmt.Errorf("unknown header mode %q (want all or leading)", value)
	}
}

func (m HeaderMode) String() string {
	if m == HeaderLeadingBlock {
		return "leading"
	}
	return "all"
}

// ExtractHeader collects the comment lines of the file at path according to
// mode. Lines are returned verbatim, without their line terminator. Lines
// inside block scalars are content, not comments, and are never collected.
func ExtractHeader(path string, mode HeaderMode) (document.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &document.ReadError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &document.ReadError{Path: path, Op: "read", Err: err}
	}

	skip := document.BlockScalarLines(data)
	var header document.Header
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if skip[i+1] {
			if mode == HeaderLeadingBlock {
				break
			}
			continue
		}
		if strings.HasPrefix(trimmed, CommentMarker) {
			header = append(header, line)
			continue
		}
		if mode == HeaderLeadingBlock && trimmed != "" {
			break
		}
	}
	return header, nil
}
