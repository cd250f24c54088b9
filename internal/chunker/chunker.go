package chunker

import (
	"regexp"

	"github.com/dgallion1/cirgest/internal/doctree"
)

// accountBlock matches one tradeline: everything after a STATUS token up to
// the first ACCOUNT DATES or ENQUIRIES: that follows it. The lazy body makes
// whichever end marker comes first win.
var accountBlock = regexp.MustCompile(`(?s)STATUS(.*?)(?:ACCOUNT DATES|ENQUIRIES:)`)

// Config controls segmentation limits.
type Config struct {
	MaxChunks int // Stop after this many chunks. Zero means unlimited.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{}
}

// Segment splits report text into one chunk per account block, in the order
// the blocks appear. Text without any complete block yields no chunks.
func Segment(text string, cfg Config) []doctree.Chunk {
	limit := -1
	if cfg.MaxChunks > 0 {
		limit = cfg.MaxChunks
	}

	locs := accountBlock.FindAllStringSubmatchIndex(text, limit)
	if len(locs) == 0 {
		return nil
	}

	chunks := make([]doctree.Chunk, 0, len(locs))
	for i, loc := range locs {
		start, end := loc[2], loc[3]
		chunks = append(chunks, doctree.Chunk{
			Text:  text[start:end],
			Index: i,
			Start: start,
			End:   end,
		})
	}
	return chunks
}

// Count returns how many account blocks Segment would produce.
func Count(text string, cfg Config) int {
	return len(Segment(text, cfg))
}
