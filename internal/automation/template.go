package automation

import (
	"regexp"
	"strings"
)

// placeholderPattern matches {{key}}, tolerating inner spaces
var placeholderPattern = regexp.MustCompile(`\{\{\s*[^{}\s]+\s*\}\}`)

// Render substitutes every {{key}} in template with values[key]. Keys absent
// from values render as the empty string. Substituted text is never scanned
// again, so a value containing "{{x}}" is inserted as-is.
func Render(template string, values map[string]string) string {
	if !strings.Contains(template, "{{") {
		return template
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.TrimSpace(match[2 : len(match)-2])
		return values[key]
	})
}
