package bureau

import (
	"regexp"
	"strings"
)

// gap matches the whitespace between a label and its value. RE2's \s is
// ASCII only, so Unicode separators such as U+00A0 are listed explicitly.
const gap = `[\s\p{Z}]*`

var (
	customerNamePattern = regexp.MustCompile(`CONSUMER:` + gap + `(.+)`)
	reportDatePattern   = regexp.MustCompile(`DATE:` + gap + `(\d{2}-\d{2}-\d{4})`)
	// PDF decoders either keep the registered mark, spell it out, or drop it.
	scorePattern = regexp.MustCompile(`CREDITVISION(?:®|\(R\))?` + gap + `SCORE` + gap + `(\d{3})`)
)

// ExtractScalar returns the first capture of pattern in text, trimmed, or
// sentinel when the pattern does not match.
func ExtractScalar(text string, pattern *regexp.Regexp, sentinel string) string {
	m := pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return sentinel
	}
	return strings.TrimSpace(m[1])
}

// CustomerName returns the consumer named in the report header.
func CustomerName(text string) string {
	return ExtractScalar(text, customerNamePattern, Unknown)
}

// ReportDate returns the report date as printed (DD-MM-YYYY).
func ReportDate(text string) string {
	return ExtractScalar(text, reportDatePattern, Unknown)
}

// Score returns the three digit bureau score.
func Score(text string) string {
	return ExtractScalar(text, scorePattern, NoScore)
}

// ExtractSummary reads the report header fields.
func ExtractSummary(text string, borrowerType BorrowerType) Summary {
	return Summary{
		CustomerName: CustomerName(text),
		Score:        Score(text),
		ReportDate:   ReportDate(text),
		BorrowerType: borrowerType,
	}
}
