package board

import (
	"fmt"
	"strings"
)

// Issue describes one cell that was coerced while parsing a level.
type Issue struct {
	Row, Col int
	Reason   string
}

func (i Issue) String() string {
	return fmt.Sprintf("row %d col %d: %s", i.Row, i.Col, i.Reason)
}

// MalformedLevelError reports cells that were coerced to Empty during parsing.
// It is a warning: the board returned alongside it is complete and playable.
type MalformedLevelError struct {
	Level  string
	Issues []Issue
}

func (e *MalformedLevelError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "board: level %q: %d malformed cell(s)", e.Level, len(e.Issues))
	for i, issue := range e.Issues {
		if i == 3 {
			fmt.Fprintf(&sb, "; and %d more", len(e.Issues)-i)
			break
		}
		sb.WriteString("; ")
		sb.WriteString(issue.String())
	}
	return sb.String()
}

// ConfigurationError means a level cannot be started: its layout or manifest is
// inconsistent with the entities the session needs.
type ConfigurationError struct {
	Level  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("board: level %q: %s", e.Level, e.Reason)
}
