package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/dgallion1/cirgest/internal/bureau"
)

// accountRow is the CSV shape of an account. Tags mirror bureau.AccountColumns.
type accountRow struct {
	Source             string `csv:"Source"`
	SerialNo           int    `csv:"Sr. No."`
	BorrowerType       string `csv:"Borrower type"`
	Borrower           string `csv:"Borrower"`
	LoanType           string `csv:"Type of loan"`
	Financiers         string `csv:"Financiers"`
	SanctionDate       string `csv:"Sanction date (DD/MM/YYYY)"`
	Seasoning          string `csv:"Seasoning"`
	SanctionedAmount   string `csv:"Sanction amount (INR)/ CC outstanding Amount"`
	MonthlyEMI         string `csv:"Monthly EMI (INR)"`
	CurrentOutstanding string `csv:"Current outstanding (INR)"`
	Status             string `csv:"STATUS"`
	MaxDPD12           int    `csv:"Max DPD in L12 Months"`
	MaxDPD36           int    `csv:"Max DPD in L36 Months"`
	Ownership          string `csv:"Ownership type"`
}

type summaryRow struct {
	CustomerName string `csv:"Customer Name"`
	Score        string `csv:"Score"`
	ReportDate   string `csv:"DATE"`
	BorrowerType string `csv:"Borrower Type"`
}

// WriteAccountsCSV writes every account of the batch, prefixed with the
// source it came from. Amounts are written without digit grouping.
func WriteAccountsCSV(w io.Writer, batch bureau.Batch) error {
	rows := make([]*accountRow, 0, batch.AccountCount())
	for _, d := range batch.Documents {
		for _, r := range d.Records {
			rows = append(rows, &accountRow{
				Source:             d.SourceID,
				SerialNo:           r.SerialNo,
				BorrowerType:       string(r.BorrowerType),
				Borrower:           r.Borrower,
				LoanType:           r.LoanType,
				Financiers:         r.Financiers,
				SanctionDate:       r.SanctionDate,
				Seasoning:          r.Seasoning,
				SanctionedAmount:   bureau.NormalizeAmount(r.SanctionedAmount),
				MonthlyEMI:         bureau.NormalizeAmount(r.MonthlyEMI),
				CurrentOutstanding: bureau.NormalizeAmount(r.CurrentOutstanding),
				Status:             r.Status,
				MaxDPD12:           r.MaxDPD12,
				MaxDPD36:           r.MaxDPD36,
				Ownership:          r.Ownership,
			})
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write accounts csv: %w", err)
	}
	return nil
}

// WriteSummaryCSV writes one summary line per document.
func WriteSummaryCSV(w io.Writer, batch bureau.Batch) error {
	summaries := batch.Summaries()
	rows := make([]*summaryRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, &summaryRow{
			CustomerName: s.CustomerName,
			Score:        s.Score,
			ReportDate:   s.ReportDate,
			BorrowerType: string(s.BorrowerType),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write summary csv: %w", err)
	}
	return nil
}
