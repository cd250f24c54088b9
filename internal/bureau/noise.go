package bureau

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// noiseTokens mark page furniture that the PDF decoder interleaves with the
// payment history grid.
var noiseTokens = []string{
	"TransUnion CIBIL",
	"MEMBER ID",
	"MEMBER REFERENCE",
	"TIME:",
	"CONTROL NUMBER",
	"CONSUMER CIR",
	"CONSUMER:",
}

var noiseFilter = newLineFilter(noiseTokens)

// lineFilter matches lines against a fixed token set, ignoring case.
type lineFilter struct {
	matcher *ahocorasick.Matcher
}

func newLineFilter(tokens []string) *lineFilter {
	lowered := make([]string, len(tokens))
	for i, t := range tokens {
		lowered[i] = strings.ToLower(t)
	}
	return &lineFilter{matcher: ahocorasick.NewStringMatcher(lowered)}
}

func (f *lineFilter) matches(line string) bool {
	return len(f.matcher.MatchThreadSafe([]byte(strings.ToLower(line)))) > 0
}

// StripNoise drops every line (with its newline) that contains a noise token.
func StripNoise(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for text != "" {
		line, rest := text, ""
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, rest = text[:i+1], text[i+1:]
		}
		if !noiseFilter.matches(strings.TrimSuffix(line, "\n")) {
			sb.WriteString(line)
		}
		text = rest
	}
	return sb.String()
}
