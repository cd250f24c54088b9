package bureau

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// tradeline describes one account block of a generated report.
type tradeline struct {
	Type        string
	Ownership   string
	Opened      string
	Sanctioned  string
	CreditLimit string
	Balance     string
	EMI         string
	Closed      string
	Codes       []string // payment grid, most recent month first
}

// reportText renders a report the way the PDF decoder lays one out.
func reportText(name, date, score string, lines []tradeline) string {
	var sb strings.Builder
	sb.WriteString("TransUnion CIBIL\n")
	if name != "" {
		sb.WriteString("CONSUMER: " + name + "\n")
	}
	sb.WriteString("MEMBER ID: NB1234 MEMBER REFERENCE: 9988\n")
	if date != "" {
		sb.WriteString("DATE: " + date + "\n")
	}
	sb.WriteString("TIME: 10:15:30\nCONTROL NUMBER: 1,234,567\n")
	if score != "" {
		sb.WriteString("CREDITVISION® SCORE " + score + "\n")
	}
	sb.WriteString("ACCOUNT(S)\n")
	for _, tl := range lines {
		sb.WriteString(tradelineText(tl))
	}
	sb.WriteString("ENQUIRIES:\nMEMBER DATE OF ENQUIRY\n")
	return sb.String()
}

func tradelineText(tl tradeline) string {
	var sb strings.Builder
	sb.WriteString("STATUS\n")
	writeField := func(label, v string) {
		if v != "" {
			sb.WriteString(label + ": " + v + "\n")
		}
	}
	writeField("MEMBER NAME", "NOT DISCLOSED")
	writeField("TYPE", tl.Type)
	writeField("OWNERSHIP", tl.Ownership)
	writeField("OPENED", tl.Opened)
	writeField("CLOSED", tl.Closed)
	writeField("SANCTIONED", tl.Sanctioned)
	writeField("CREDIT LIMIT", tl.CreditLimit)
	writeField("CURRENT BALANCE", tl.Balance)
	writeField("EMI", tl.EMI)
	if len(tl.Codes) > 0 {
		sb.WriteString("DAYS PAST DUE/ASSET CLASSIFICATION (UP TO 36 MONTHS; LEFT TO RIGHT)\n")
		for i, code := range tl.Codes {
			sb.WriteString(code + " " + monthLabel(i))
			if i%6 == 5 {
				sb.WriteString("\n")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("ACCOUNT DATES\n")
	return sb.String()
}

// monthLabel returns the MM-YY label of the grid cell i months before 01-23.
func monthLabel(i int) string {
	m := 1 - i
	y := 23
	for m <= 0 {
		m += 12
		y--
	}
	return fmt.Sprintf("%02d-%02d", m, y)
}

// groupDigits formats n with thousands separators.
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	var out []byte
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

var gridCodes = []string{"000", "XXX", "STD", "030", "060", "090", "120", "900"}

func randomTradeline(f *gofakeit.Faker) tradeline {
	tl := tradeline{
		Type:       f.RandomString([]string{"PERSONAL LOAN", "AUTO LOAN", "HOUSING LOAN", "GOLD LOAN", "CREDIT CARD"}),
		Ownership:  f.RandomString([]string{"INDIVIDUAL", "JOINT", "GUARANTOR"}),
		Opened:     fmt.Sprintf("%02d-%02d-%d", f.Number(1, 28), f.Number(1, 12), f.Number(2010, 2022)),
		Balance:    groupDigits(f.Number(0, 5000000)),
		EMI:        groupDigits(f.Number(500, 90000)),
	}
	if tl.Type == "CREDIT CARD" {
		tl.CreditLimit = groupDigits(f.Number(10000, 900000))
	} else {
		tl.Sanctioned = groupDigits(f.Number(10000, 9000000))
	}
	if f.Bool() {
		tl.Closed = fmt.Sprintf("%02d-%02d-2022", f.Number(1, 28), f.Number(1, 12))
	}
	n := f.Number(0, 36)
	for i := 0; i < n; i++ {
		tl.Codes = append(tl.Codes, f.RandomString(gridCodes))
	}
	return tl
}

// expectedMaxima computes the grid maxima directly from the codes.
func expectedMaxima(codes []string) (int, int) {
	var m12, m36 int
	for i, c := range codes {
		v, err := strconv.Atoi(c)
		if err != nil {
			v = 0
		}
		if i < 12 && v > m12 {
			m12 = v
		}
		if v > m36 {
			m36 = v
		}
	}
	return m12, m36
}
