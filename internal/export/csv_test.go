package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/cirgest/internal/bureau"
)

func TestWriteAccountsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAccountsCSV(&buf, sampleBatch()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, append([]string{"Source"}, bureau.AccountColumns...), records[0])
	assert.Equal(t, []string{
		"john.pdf", "1", "Applicant", "JOHN DOE", "PERSONAL LOAN", "", "05/01/2020", "",
		"100000", "5000", "40000", "Active", "0", "30", "INDIVIDUAL",
	}, records[1])
	assert.Equal(t, "john-again.pdf", records[3][0])
	assert.Equal(t, "n/a", records[3][8])
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, sampleBatch()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		bureau.SummaryColumns,
		{"JOHN DOE", "750", "01-02-2023", "Applicant"},
		{"Unknown", "None", "Unknown", "Co-Applicant"},
		{"JOHN DOE", "748", "01-03-2023", "Applicant"},
	}, records)
}
