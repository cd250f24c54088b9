package bureau

import (
	"unicode/utf8"

	"github.com/dgallion1/cirgest/internal/chunker"
)

// ProcessDocument extracts the summary and every account row of one report.
// Serial numbers run 1..N in the order the accounts appear.
func ProcessDocument(doc Document, opts Options) DocumentResult {
	text, truncated := clampText(doc.Text, opts.MaxTextBytes)

	summary := ExtractSummary(text, doc.BorrowerType)

	cfg := chunker.Config{MaxChunks: opts.MaxChunks}
	chunks := chunker.Segment(text, cfg)
	if cfg.MaxChunks > 0 && len(chunks) == cfg.MaxChunks {
		tail := text[chunks[len(chunks)-1].End:]
		if len(chunker.Segment(tail, chunker.Config{MaxChunks: 1})) > 0 {
			truncated = true
		}
	}

	records := make([]AccountRecord, 0, len(chunks))
	for i, c := range chunks {
		max12, max36 := DelinquencyMaxima(c.Text)
		records = append(records, BuildRecord(c.Text, RecordInput{
			CustomerName: summary.CustomerName,
			BorrowerType: doc.BorrowerType,
			SerialNo:     i + 1,
			Max12:        max12,
			Max36:        max36,
		}))
	}

	return DocumentResult{
		SourceID:  doc.SourceID,
		Summary:   summary,
		Records:   records,
		Truncated: truncated,
	}
}

// clampText cuts text to at most limit bytes without splitting a rune.
func clampText(text string, limit int) (string, bool) {
	if limit <= 0 || len(text) <= limit {
		return text, false
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}
