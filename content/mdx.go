package content

import (
	"bytes"
	"regexp"
)

// esmRegexp matches a top-level MDX import or export statement on a single line.
var esmRegexp = regexp.MustCompile(`^(import|export)\s`)

// StripESM removes top-level MDX import and export lines so the rest of the
// document can be rendered as Markdown. Lines inside fenced code blocks are kept.
func StripESM(body []byte) []byte {
	var (
		out    bytes.Buffer
		fenced bool
	)
	lines := bytes.SplitAfter(body, []byte("\n"))
	for _, line := range lines {
		trimmed := bytes.TrimSpace(line)
		if bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~")) {
			fenced = !fenced
		}
		if !fenced && esmRegexp.Match(line) {
			continue
		}
		out.Write(line)
	}
	return out.Bytes()
}
