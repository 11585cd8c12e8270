// Package report turns loosely formatted model output into named sections.
//
// Generative models are asked to format answers "in clear sections" but the
// exact layout drifts between runs. The parser scans line by line, switches
// sections when a heading keyword appears, and accumulates everything else
// into the active section.
package report

import "strings"

// SplitMode controls how an accumulated section becomes its final value.
type SplitMode int

const (
	// SplitNone joins the lines with the section's separator.
	SplitNone SplitMode = iota
	// SplitLines keeps one list item per accumulated line.
	SplitLines
	// SplitComma joins with spaces then splits items on commas.
	SplitComma
	// SplitHash joins with spaces then splits items on '#'.
	SplitHash
)

// Section describes one heading of a report.
type Section struct {
	Key      string
	Keywords []string
	Join     string
	Split    SplitMode
}

// Spec is an ordered set of sections. Earlier sections win when a line
// matches several heading keywords.
type Spec struct {
	Sections []Section
	// SkipNumbered drops lines that start with a list marker like "1.".
	SkipNumbered bool
}

// Result holds parsed section values. Every key from the spec is present:
// scalar sections default to "" and list sections to an empty slice.
type Result struct {
	Text  map[string]string
	Lists map[string][]string
}

// Parse scans raw model output against the spec. Heading keywords are
// matched case-insensitively as substrings; text before the first heading
// is dropped.
func Parse(raw string, spec Spec) Result {
	result := Result{
		Text:  make(map[string]string),
		Lists: make(map[string][]string),
	}
	for _, s := range spec.Sections {
		if s.Split == SplitNone {
			result.Text[s.Key] = ""
		} else {
			result.Lists[s.Key] = []string{}
		}
	}

	var current *Section
	var acc []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if matched := matchSection(line, spec.Sections); matched != nil {
			if current != nil {
				flush(&result, current, acc)
			}
			current = matched
			acc = nil
			continue
		}

		if current == nil {
			continue
		}
		if spec.SkipNumbered && isNumberedMarker(line) {
			continue
		}
		acc = append(acc, line)
	}

	if current != nil {
		flush(&result, current, acc)
	}
	return result
}

func matchSection(line string, sections []Section) *Section {
	lower := strings.ToLower(line)
	for i := range sections {
		for _, kw := range sections[i].Keywords {
			if strings.Contains(lower, kw) {
				return &sections[i]
			}
		}
	}
	return nil
}

func isNumberedMarker(line string) bool {
	if len(line) < 2 {
		return false
	}
	return line[0] >= '1' && line[0] <= '9' && line[1] == '.'
}

func flush(result *Result, section *Section, acc []string) {
	switch section.Split {
	case SplitNone:
		join := section.Join
		if join == "" {
			join = "\n"
		}
		result.Text[section.Key] = strings.TrimSpace(strings.Join(acc, join))
	case SplitLines:
		items := make([]string, 0, len(acc))
		for _, line := range acc {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		result.Lists[section.Key] = items
	case SplitComma:
		result.Lists[section.Key] = splitItems(strings.Join(acc, " "), ",")
	case SplitHash:
		result.Lists[section.Key] = splitItems(strings.Join(acc, " "), "#")
	}
}

func splitItems(joined, sep string) []string {
	parts := strings.Split(joined, sep)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
