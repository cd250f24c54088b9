package bureau

import (
	"regexp"
	"strconv"
	"strings"
)

// historyMarker precedes the payment status grid of an account. The grid
// reads left to right, most recent month first.
const historyMarker = "LEFT TO RIGHT)"

// recentWindow is the number of leading grid cells treated as the last 12 months.
const recentWindow = 12

// dpdPointPattern matches a status cell: a three character code followed by
// its MM-YY month label. Codes are days past due or letters such as XXX/STD.
var dpdPointPattern = regexp.MustCompile(`([0-9XSTD]{3})` + gap + `(\d{2}-\d{2})`)

// DPDPoint is one month of an account's payment history.
type DPDPoint struct {
	Code  string `json:"code"`
	Days  int    `json:"days"`
	Month string `json:"month"`
}

// PaymentHistory returns the chunk text after the history marker, or "".
func PaymentHistory(chunk string) string {
	_, after, found := strings.Cut(chunk, historyMarker)
	if !found {
		return ""
	}
	return after
}

// BuildSeries recovers the payment history cells of an account chunk in grid
// order. Non-numeric codes count as zero days past due.
func BuildSeries(chunk string) []DPDPoint {
	history := StripNoise(PaymentHistory(chunk))
	if history == "" {
		return nil
	}

	matches := dpdPointPattern.FindAllStringSubmatch(history, -1)
	points := make([]DPDPoint, 0, len(matches))
	for _, m := range matches {
		days, err := strconv.Atoi(m[1])
		if err != nil {
			days = 0
		}
		points = append(points, DPDPoint{Code: m[1], Days: days, Month: m[2]})
	}
	return points
}

// Aggregate returns the worst days past due over the first 12 points and over
// all points. The 12 month window is positional; it is not checked against
// the history start and end dates.
func Aggregate(points []DPDPoint) (max12, max36 int) {
	for i, p := range points {
		if i < recentWindow && p.Days > max12 {
			max12 = p.Days
		}
		if p.Days > max36 {
			max36 = p.Days
		}
	}
	return max12, max36
}

// DelinquencyMaxima is BuildSeries followed by Aggregate.
func DelinquencyMaxima(chunk string) (max12, max36 int) {
	return Aggregate(BuildSeries(chunk))
}
