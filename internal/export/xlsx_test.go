package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/cirgest/internal/bureau"
)

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleBatch()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"JOHN DOE_Applicant",
		"Unknown_Co-Applicant",
		"JOHN DOE_Applicant (2)",
		"Summary",
	}, f.GetSheetList())

	rows, err := f.GetRows("JOHN DOE_Applicant")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, bureau.AccountColumns, rows[0])
	assert.Equal(t, []string{
		"1", "Applicant", "JOHN DOE", "PERSONAL LOAN", "", "05/01/2020", "",
		"100000", "5000", "40000", "Active", "0", "30", "INDIVIDUAL",
	}, rows[1])
	assert.Equal(t, "-1250", rows[2][9])
	assert.Equal(t, "Closed", rows[2][10])

	rows, err = f.GetRows("Unknown_Co-Applicant")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")

	rows, err = f.GetRows("JOHN DOE_Applicant (2)")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "n/a", rows[1][7], "unparseable amounts stay text")

	rows, err = f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		bureau.SummaryColumns,
		{"JOHN DOE", "750", "01-02-2023", "Applicant"},
		{"Unknown", "None", "Unknown", "Co-Applicant"},
		{"JOHN DOE", "748", "01-03-2023", "Applicant"},
	}, rows)
}

func TestWriteWorkbook_NumericAmountCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleBatch()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	typ, err := f.GetCellType("JOHN DOE_Applicant", "H2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
	assert.NotEqual(t, excelize.CellTypeInlineString, typ)
}

func TestWriteWorkbook_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, bureau.Batch{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet}, f.GetSheetList())
	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{bureau.SummaryColumns}, rows)
}

func TestWorkbookSheets_LongNames(t *testing.T) {
	batch := bureau.Batch{Documents: []bureau.DocumentResult{
		{Summary: bureau.Summary{CustomerName: "VENKATA SUBRAMANIAN RAMAKRISHNAN", BorrowerType: bureau.Applicant}},
		{Summary: bureau.Summary{CustomerName: "VENKATA SUBRAMANIAN RAMAKRISHNAN", BorrowerType: bureau.CoApplicant}},
	}}

	got := WorkbookSheets(batch)

	assert.Equal(t, []string{
		"VENKATA SUBRAMANIAN RAMAKRISHNA",
		"VENKATA SUBRAMANIAN RAMAKRI (2)",
		"Summary",
	}, got)
}
