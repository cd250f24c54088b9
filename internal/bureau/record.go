package bureau

import (
	"regexp"
	"strings"
)

const creditCardType = "CREDIT CARD"

var (
	accountNumberPattern   = regexp.MustCompile(`(?i)ACCOUNT NUMBER:` + gap + `(.+)`)
	loanTypePattern        = regexp.MustCompile(`(?i)TYPE:` + gap + `(.+)`)
	ownershipPattern       = regexp.MustCompile(`(?i)OWNERSHIP:` + gap + `(.+?)(?:OPENED|\n|LAST|REPORTED|CLOSED|PMT|$)`)
	openedPattern          = datePattern("OPENED")
	lastPaymentPattern     = datePattern("LAST PAYMENT")
	reportedPattern        = datePattern("REPORTED AND CERTIFIED")
	pmtHistStartPattern    = datePattern("PMT HIST START")
	pmtHistEndPattern      = datePattern("PMT HIST END")
	sanctionedPattern      = amountPattern("SANCTIONED")
	creditLimitPattern     = amountPattern("CREDIT LIMIT")
	currentBalancePattern  = regexp.MustCompile(`(?i)CURRENT BALANCE:` + gap + `(-?[\d,]+)`)
	emiPattern             = amountPattern("EMI")
	repaymentTenurePattern = regexp.MustCompile(`(?i)REPAYMENT TENURE:` + gap + `(\d+)`)
	closedPattern          = regexp.MustCompile(`(?i)CLOSED:` + gap + `(.+)`)
)

func datePattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `:` + gap + `(\d{2}-\d{2}-\d{4})`)
}

func amountPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `:` + gap + `([\d,]+)`)
}

// RecordInput is the report-level context an account row needs.
type RecordInput struct {
	CustomerName string
	BorrowerType BorrowerType
	SerialNo     int
	Max12        int
	Max36        int
}

// BuildRecord extracts one account row from a tradeline chunk. Every field
// is optional; a label missing from the chunk leaves its column empty.
func BuildRecord(chunk string, in RecordInput) AccountRecord {
	field := func(p *regexp.Regexp) string {
		return ExtractScalar(chunk, p, "")
	}

	loanType := field(loanTypePattern)

	// Cards report their limit where loans report the sanctioned amount.
	sanctioned := sanctionedPattern
	if strings.EqualFold(loanType, creditCardType) {
		sanctioned = creditLimitPattern
	}

	details := AccountDetails{
		AccountNumber:   field(accountNumberPattern),
		Opened:          field(openedPattern),
		LastPayment:     field(lastPaymentPattern),
		Reported:        field(reportedPattern),
		PmtHistStart:    field(pmtHistStartPattern),
		PmtHistEnd:      field(pmtHistEndPattern),
		RepaymentTenure: field(repaymentTenurePattern),
		Closed:          field(closedPattern),
	}

	status := StatusActive
	if details.Closed != "" {
		status = StatusClosed
	}

	return AccountRecord{
		SerialNo:           in.SerialNo,
		BorrowerType:       in.BorrowerType,
		Borrower:           in.CustomerName,
		LoanType:           loanType,
		SanctionDate:       SlashDate(details.Opened),
		SanctionedAmount:   field(sanctioned),
		MonthlyEMI:         field(emiPattern),
		CurrentOutstanding: field(currentBalancePattern),
		Status:             status,
		MaxDPD12:           in.Max12,
		MaxDPD36:           in.Max36,
		Ownership:          field(ownershipPattern),
		Details:            details,
	}
}

// SlashDate rewrites DD-MM-YYYY as DD/MM/YYYY. The date is not validated.
func SlashDate(s string) string {
	return strings.ReplaceAll(s, "-", "/")
}
