package prompts

import (
	"sort"
	"strings"
)

// Placeholder returns the literal token substituted for name, e.g. "{{RESUME}}".
func Placeholder(name string) string {
	return "{{" + name + "}}"
}

// Render replaces every occurrence of each named placeholder in template with
// its value. Substitution happens in a single pass, so values that happen to
// contain placeholder tokens are not expanded again. Placeholders without a
// substitution are left untouched.
func Render(template string, substitutions map[string]string) string {
	if len(substitutions) == 0 {
		return template
	}

	names := make([]string, 0, len(substitutions))
	for name := range substitutions {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		pairs = append(pairs, Placeholder(name), substitutions[name])
	}

	return strings.NewReplacer(pairs...).Replace(template)
}
