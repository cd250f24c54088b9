package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/cirgest/internal/doctree"
)

// TextParser handles plain text dumps. Form feeds, when present, separate
// pages; otherwise the whole file is one page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	tree := &doctree.DocTree{Title: baseTitle(filename)}
	if strings.TrimSpace(text) == "" {
		return tree, nil
	}

	for i, page := range splitPages(text) {
		tree.Pages = append(tree.Pages, &doctree.Page{
			Number: i + 1,
			Text:   strings.TrimSuffix(page, "\n"),
		})
	}
	return tree, nil
}
