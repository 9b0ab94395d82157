// Package normalize applies deterministic textual fixes to raw model output
// before it is treated as an executable script body.
//
// Every transformation is a pure function from text to text, so heuristics
// can be extended and tested with literal before/after fixtures without
// touching the retry loop.
package normalize

import (
	"strings"
)

// Clean runs the full normalization pipeline: fenced-block extraction,
// sanitization, and import injection.
func Clean(raw string) string {
	return InjectImports(Sanitize(ExtractCode(raw)))
}

// commandPrefixes are shell commands models sometimes embed in their output.
// Lines starting with one of these are dropped.
var commandPrefixes = []string{"pip install", "python ", "python3 "}

// prosePrefixes are chatty lead-ins that mark a line as prose, not code.
// Matched case-insensitively.
var prosePrefixes = []string{"here is", "sure,", "to run"}

// typoFixes corrects symbol misspellings models produce often enough to
// special-case.
var typoFixes = []struct {
	old string
	new string
}{
	{"beautiful_soup", "BeautifulSoup"},
	{"from bs4 import bs4", "import bs4"},
}

// Sanitize removes install/run commands and chatty prose lines, rewrites
// top-level return statements into prints, and applies known typo fixes.
func Sanitize(code string) string {
	lines := strings.Split(code, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if hasAnyPrefix(stripped, commandPrefixes) {
			continue
		}
		if hasAnyPrefix(strings.ToLower(stripped), prosePrefixes) {
			continue
		}
		// A flat script has no function to return from; print instead.
		if strings.HasPrefix(line, "return ") {
			line = "print(" + strings.TrimPrefix(line, "return ") + ")"
		}
		cleaned = append(cleaned, line)
	}

	code = strings.Join(cleaned, "\n")
	for _, fix := range typoFixes {
		code = strings.ReplaceAll(code, fix.old, fix.new)
	}
	return code
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
