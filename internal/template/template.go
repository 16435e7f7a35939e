// Package template resolves {name} placeholders in prompt content at copy
// time. The stored prompt is never mutated; filling happens on the way out.
package template

import (
	"regexp"
	"strings"
)

// varPattern matches a non-nested {...} span. A placeholder cannot itself
// contain braces, so {a {b} matches only {b}. Empty braces {} match with an
// empty name.
var varPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// ExtractVariables returns placeholder names in first-occurrence order,
// deduplicated, with surrounding whitespace trimmed from each name.
func ExtractVariables(content string) []string {
	matches := varPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// FillTemplate replaces each placeholder whose trimmed value is non-empty.
// Placeholders without a usable value keep their original braced text, so a
// partial fill stays visibly marked. An explicit empty string counts as not
// filled.
func FillTemplate(content string, values map[string]string) string {
	return varPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := strings.TrimSpace(match[1 : len(match)-1])
		value := strings.TrimSpace(values[name])
		if value == "" {
			return match
		}
		return value
	})
}

// HasVariables decides between the fill-template flow and a plain copy.
func HasVariables(content string) bool {
	return varPattern.MatchString(content)
}
