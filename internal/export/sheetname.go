package export

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSheetNameLen is Excel's limit on worksheet names, in characters.
const MaxSheetNameLen = 31

// SummarySheet is the name of the cross-report summary worksheet.
const SummarySheet = "Summary"

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// SheetNamer hands out valid, unique worksheet names. Excel compares sheet
// names case-insensitively, so uniqueness is checked on the folded name.
type SheetNamer struct {
	used map[string]bool
}

// NewSheetNamer returns a namer with the given names already taken.
func NewSheetNamer(reserved ...string) *SheetNamer {
	n := &SheetNamer{used: make(map[string]bool)}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = true
	}
	return n
}

// Name sanitizes raw and claims it. A taken name gets a " (2)", " (3)", ...
// suffix, cutting the base so the result stays within MaxSheetNameLen.
func (n *SheetNamer) Name(raw string) string {
	base := strings.Trim(sheetNameReplacer.Replace(raw), "' ")
	if base == "" {
		base = "Sheet"
	}

	name := truncateRunes(base, MaxSheetNameLen)
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, MaxSheetNameLen-utf8.RuneCountInString(suffix)) + suffix
	}
	n.used[strings.ToLower(name)] = true
	return name
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	i := 0
	for pos := range s {
		if i == limit {
			return s[:pos]
		}
		i++
	}
	return s
}
