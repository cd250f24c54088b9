// Package bureau turns the text of a credit information report into account
// rows and a per-report summary. Extraction is best-effort: anything the text
// does not contain degrades to a sentinel or an empty string, never an error.
package bureau

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// BorrowerType tags a report as belonging to the applicant or a co-applicant.
type BorrowerType string

const (
	Applicant   BorrowerType = "Applicant"
	CoApplicant BorrowerType = "Co-Applicant"
)

// BorrowerTypes lists the accepted tags in display order.
var BorrowerTypes = []BorrowerType{Applicant, CoApplicant}

var ErrUnknownBorrowerType = errors.New("unknown borrower type")

// ParseBorrowerType accepts the tag in any case, with or without the hyphen.
func ParseBorrowerType(s string) (BorrowerType, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	switch b.String() {
	case "applicant":
		return Applicant, nil
	case "coapplicant":
		return CoApplicant, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBorrowerType, s)
}

// Document is one report's decoded text plus the context it was uploaded with.
type Document struct {
	Text         string       `json:"text"`
	BorrowerType BorrowerType `json:"borrower_type"`
	SourceID     string       `json:"source_id"`
}

// Sentinels used when a summary field is absent from the report.
const (
	Unknown = "Unknown"
	NoScore = "None"
)

// SummaryColumns is the header of the cross-report summary table.
var SummaryColumns = []string{"Customer Name", "Score", "DATE", "Borrower Type"}

// Summary is the per-report header row.
type Summary struct {
	CustomerName string       `json:"customer_name"`
	Score        string       `json:"score"`
	ReportDate   string       `json:"report_date"`
	BorrowerType BorrowerType `json:"borrower_type"`
}

// Row returns the summary in SummaryColumns order.
func (s Summary) Row() []string {
	return []string{s.CustomerName, s.Score, s.ReportDate, string(s.BorrowerType)}
}

// Missing names the summary fields that fell back to their sentinel.
func (s Summary) Missing() []string {
	var out []string
	if s.CustomerName == Unknown {
		out = append(out, "customer_name")
	}
	if s.Score == NoScore {
		out = append(out, "score")
	}
	if s.ReportDate == Unknown {
		out = append(out, "report_date")
	}
	return out
}

// Account status values.
const (
	StatusActive = "Active"
	StatusClosed = "Closed"
)

// AccountColumns is the fixed column layout of an account row. Downstream
// sheets are read positionally, so order matters.
var AccountColumns = []string{
	"Sr. No.",
	"Borrower type",
	"Borrower",
	"Type of loan",
	"Financiers",
	"Sanction date (DD/MM/YYYY)",
	"Seasoning",
	"Sanction amount (INR)/ CC outstanding Amount",
	"Monthly EMI (INR)",
	"Current outstanding (INR)",
	"STATUS",
	"Max DPD in L12 Months",
	"Max DPD in L36 Months",
	"Ownership type",
}

// AccountRecord is one tradeline row. The amount fields keep the report text
// ("100,000"); exporters normalise them with ParseAmount.
type AccountRecord struct {
	SerialNo           int          `json:"sr_no"`
	BorrowerType       BorrowerType `json:"borrower_type"`
	Borrower           string       `json:"borrower"`
	LoanType           string       `json:"loan_type"`
	Financiers         string       `json:"financiers"`
	SanctionDate       string       `json:"sanction_date"`
	Seasoning          string       `json:"seasoning"`
	SanctionedAmount   string       `json:"sanctioned_amount"`
	MonthlyEMI         string       `json:"monthly_emi"`
	CurrentOutstanding string       `json:"current_outstanding"`
	Status             string       `json:"status"`
	MaxDPD12           int          `json:"max_dpd_12m"`
	MaxDPD36           int          `json:"max_dpd_36m"`
	Ownership          string       `json:"ownership"`

	// Details holds fields that are extracted but are not output columns.
	Details AccountDetails `json:"details"`
}

// AccountDetails are supplementary tradeline fields.
type AccountDetails struct {
	AccountNumber   string `json:"account_number,omitempty"`
	Opened          string `json:"opened,omitempty"`
	LastPayment     string `json:"last_payment,omitempty"`
	Reported        string `json:"reported_and_certified,omitempty"`
	PmtHistStart    string `json:"pmt_hist_start,omitempty"`
	PmtHistEnd      string `json:"pmt_hist_end,omitempty"`
	RepaymentTenure string `json:"repayment_tenure,omitempty"`
	Closed          string `json:"closed,omitempty"`
}

// Row returns the record in AccountColumns order.
func (r AccountRecord) Row() []any {
	return []any{
		r.SerialNo,
		string(r.BorrowerType),
		r.Borrower,
		r.LoanType,
		r.Financiers,
		r.SanctionDate,
		r.Seasoning,
		r.SanctionedAmount,
		r.MonthlyEMI,
		r.CurrentOutstanding,
		r.Status,
		r.MaxDPD12,
		r.MaxDPD36,
		r.Ownership,
	}
}

// Options bound the work done per document.
type Options struct {
	MaxTextBytes int // Truncate report text beyond this size. Zero means unlimited.
	MaxChunks    int // Stop after this many accounts. Zero means unlimited.
	Workers      int // Documents processed concurrently by ProcessBatch.
}

// DocumentResult is everything extracted from one report.
type DocumentResult struct {
	SourceID  string          `json:"source_id"`
	Summary   Summary         `json:"summary"`
	Records   []AccountRecord `json:"records"`
	Truncated bool            `json:"truncated,omitempty"`
}

// BorrowerKey identifies a report's sheet by customer and borrower type.
type BorrowerKey struct {
	CustomerName string
	BorrowerType BorrowerType
}

// Key returns the (customer, borrower type) pair of the result.
func (d DocumentResult) Key() BorrowerKey {
	return BorrowerKey{CustomerName: d.Summary.CustomerName, BorrowerType: d.Summary.BorrowerType}
}

// Batch is the result of processing several reports, in input order.
type Batch struct {
	Documents []DocumentResult `json:"documents"`
}

// Summaries returns one summary per document, in input order.
func (b Batch) Summaries() []Summary {
	out := make([]Summary, 0, len(b.Documents))
	for _, d := range b.Documents {
		out = append(out, d.Summary)
	}
	return out
}

// BySource maps each source identifier to its records. A repeated identifier
// gets a " (n)" suffix so no document's rows are dropped.
func (b Batch) BySource() map[string][]AccountRecord {
	out := make(map[string][]AccountRecord, len(b.Documents))
	seen := make(map[string]int, len(b.Documents))
	for _, d := range b.Documents {
		id := d.SourceID
		seen[id]++
		if n := seen[id]; n > 1 {
			id = fmt.Sprintf("%s (%d)", id, n)
		}
		out[id] = d.Records
	}
	return out
}

// ByBorrower groups record sets by customer and borrower type. Two reports
// for the same customer stay separate entries of the slice.
func (b Batch) ByBorrower() map[BorrowerKey][][]AccountRecord {
	out := make(map[BorrowerKey][][]AccountRecord)
	for _, d := range b.Documents {
		k := d.Key()
		out[k] = append(out[k], d.Records)
	}
	return out
}

// AccountCount is the total number of account rows in the batch.
func (b Batch) AccountCount() int {
	n := 0
	for _, d := range b.Documents {
		n += len(d.Records)
	}
	return n
}
