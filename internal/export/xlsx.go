// Package export renders extraction results as spreadsheets, CSV and HTML.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/cirgest/internal/bureau"
)

// amountColumns are the AccountColumns indexes holding rupee amounts.
var amountColumns = map[int]bool{7: true, 8: true, 9: true}

const columnWidth = 22

// SheetNameFor is the worksheet name a document's rows are written under,
// before sanitizing: "{customer}_{borrower type}".
func SheetNameFor(d bureau.DocumentResult) string {
	return d.Summary.CustomerName + "_" + string(d.Summary.BorrowerType)
}

// WorkbookSheets returns the worksheet names WriteWorkbook will produce, in
// order: one per document, then the summary sheet.
func WorkbookSheets(batch bureau.Batch) []string {
	namer := NewSheetNamer(SummarySheet)
	names := make([]string, 0, len(batch.Documents)+1)
	for _, d := range batch.Documents {
		names = append(names, namer.Name(SheetNameFor(d)))
	}
	return append(names, SummarySheet)
}

// WriteWorkbook writes one sheet per document in input order, each with the
// account header row, followed by the summary sheet.
func WriteWorkbook(w io.Writer, batch bureau.Batch) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	sheets := WorkbookSheets(batch)
	if err := f.SetSheetName("Sheet1", sheets[0]); err != nil {
		return fmt.Errorf("rename first sheet: %w", err)
	}
	for _, name := range sheets[1:] {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %q: %w", name, err)
		}
	}

	for i, d := range batch.Documents {
		rows := make([][]any, 0, len(d.Records))
		for _, r := range d.Records {
			rows = append(rows, accountCells(r))
		}
		if err := writeTable(f, sheets[i], header, toAny(bureau.AccountColumns), rows); err != nil {
			return err
		}
	}

	summaries := batch.Summaries()
	rows := make([][]any, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, toAny(s.Row()))
	}
	if err := writeTable(f, SummarySheet, header, toAny(bureau.SummaryColumns), rows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("sheet %q header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("sheet %q header style: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, columnWidth); err != nil {
		return fmt.Errorf("sheet %q widths: %w", sheet, err)
	}
	return nil
}

// accountCells is Row() with amounts converted to numbers where they parse.
func accountCells(r bureau.AccountRecord) []any {
	cells := r.Row()
	for i := range cells {
		if !amountColumns[i] {
			continue
		}
		s, _ := cells[i].(string)
		if d, ok := bureau.ParseAmount(s); ok {
			cells[i] = d.InexactFloat64()
		}
	}
	return cells
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
