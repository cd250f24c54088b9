package doctree

import "strings"

// DocTree is a decoded source document.
type DocTree struct {
	Title string  // Document title (from metadata or filename)
	Pages []*Page // Pages in source order
}

// Page is the plain text of one source page.
type Page struct {
	Number int    // 1-based page number (0 if the format has no pages)
	Text   string // Decoded text, internal line breaks preserved
}

// Text joins all pages into the raw report text. Page breaks collapse to a
// single newline, so markers split across a page boundary still line up.
func (t *DocTree) Text() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range t.Pages {
		sb.WriteString(p.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Chunk is one tradeline block cut out of a report's text.
type Chunk struct {
	Text  string // Body between the STATUS token and the end marker
	Index int    // Sequence number within document
	Start int    // Byte offset of Text in the document
	End   int    // Byte offset just past Text
}
