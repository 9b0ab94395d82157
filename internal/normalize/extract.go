package normalize

import (
	"regexp"
	"strings"
)

// fencedBlock matches the first fenced code block, with or without a
// language tag. Only its interior is used as the candidate body.
var fencedBlock = regexp.MustCompile("(?s)```(?:python)?(.*?)```")

// ExtractCode returns the interior of the first fenced code block if one is
// present, otherwise the raw text. The result is trimmed either way.
func ExtractCode(raw string) string {
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}
