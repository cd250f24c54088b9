package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/cirgest/internal/bureau"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

var previewPage = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
th { background: #f3f3f3; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`,
)

// RenderPreview renders the batch as an HTML page: the summary table first,
// then one account table per document. Amounts are shown in rupees.
func RenderPreview(batch bureau.Batch, title string) ([]byte, error) {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", mdEscaper.Replace(title))
	md.WriteString("## " + SummarySheet + "\n\n")
	writeMarkdownTable(&md, bureau.SummaryColumns, summaryCells(batch))

	sheets := WorkbookSheets(batch)
	for i, d := range batch.Documents {
		fmt.Fprintf(&md, "## %s\n\n", mdEscaper.Replace(sheets[i]))
		if d.SourceID != "" {
			fmt.Fprintf(&md, "Source: %s\n\n", mdEscaper.Replace(d.SourceID))
		}
		if d.Truncated {
			md.WriteString("Report text was truncated; some accounts may be missing.\n\n")
		}
		if len(d.Records) == 0 {
			md.WriteString("No accounts found.\n\n")
			continue
		}
		rows := make([][]string, 0, len(d.Records))
		for _, r := range d.Records {
			rows = append(rows, previewCells(r))
		}
		writeMarkdownTable(&md, bureau.AccountColumns, rows)
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(md.String()), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var out bytes.Buffer
	err := previewPage.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return out.Bytes(), nil
}

func summaryCells(batch bureau.Batch) [][]string {
	var rows [][]string
	for _, s := range batch.Summaries() {
		rows = append(rows, s.Row())
	}
	return rows
}

func previewCells(r bureau.AccountRecord) []string {
	row := r.Row()
	cells := make([]string, len(row))
	for i, v := range row {
		s := fmt.Sprint(v)
		if amountColumns[i] {
			s = DisplayINR(s)
		}
		cells[i] = s
	}
	return cells
}

// DisplayINR formats a report amount as rupees, e.g. "1,00,000" -> "₹100,000.00".
// Text that is not an amount is returned unchanged.
func DisplayINR(s string) string {
	d, ok := bureau.ParseAmount(s)
	if !ok {
		return s
	}
	paise := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(paise, money.INR).Display()
}

func writeMarkdownTable(md *strings.Builder, header []string, rows [][]string) {
	writeMarkdownRow(md, header)
	md.WriteString("|")
	for range header {
		md.WriteString(" --- |")
	}
	md.WriteString("\n")
	for _, r := range rows {
		writeMarkdownRow(md, r)
	}
	md.WriteString("\n")
}

func writeMarkdownRow(md *strings.Builder, cells []string) {
	md.WriteString("|")
	for _, c := range cells {
		md.WriteString(" " + mdEscaper.Replace(c) + " |")
	}
	md.WriteString("\n")
}
