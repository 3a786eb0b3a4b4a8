// Package output renders command results for terminals, pipes and
// machine consumers.
package output

import (
	"fmt"
	"strings"
)

// OutputMode selects how results are rendered.
type OutputMode string //nolint:revive // output.OutputMode reads fine at call sites

// Output modes.
const (
	ModeAuto     OutputMode = "auto"     // text on a TTY, markdown otherwise
	ModeText     OutputMode = "text"     // styled terminal output
	ModeMarkdown OutputMode = "markdown" // plain markdown
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Modes lists every accepted mode, for flag completion and validation.
var Modes = []OutputMode{ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML}

// Mode converts a string to an OutputMode. Unknown or empty values map
// to ModeAuto.
func Mode(s string) OutputMode {
	m, err := ParseMode(s)
	if err != nil {
		return ModeAuto
	}
	return m
}

// ParseMode converts a string to an OutputMode, rejecting unknown values.
// The empty string is ModeAuto.
func ParseMode(s string) (OutputMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeAuto, nil
	}
	if s == "md" {
		return ModeMarkdown, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of auto, text, markdown, json, yaml)", s)
}
