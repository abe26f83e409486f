// Package steps turns free-form instruction text into ordered cooking steps.
package steps

import (
	"fmt"
	"strings"
)

// Step is one non-blank instruction line and its position in the source text.
type Step struct {
	Text string
	Line int
}

// Parse splits text on line breaks, trims each line, and drops blank lines.
// Both \n and \r\n line endings are accepted.
func Parse(text string) []Step {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []Step
	for i, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		out = append(out, Step{Text: t, Line: i + 1})
	}
	return out
}

// Split returns just the step texts of Parse, in order.
func Split(text string) []string {
	parsed := Parse(text)
	if len(parsed) == 0 {
		return nil
	}
	out := make([]string, len(parsed))
	for i, s := range parsed {
		out[i] = s.Text
	}
	return out
}

// Numbered prefixes each instruction with its 1-based step number.
func Numbered(instructions []string) []string {
	out := make([]string, len(instructions))
	for i, s := range instructions {
		out[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return out
}
