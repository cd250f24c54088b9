package bureau

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSeries_NoMarker(t *testing.T) {
	chunk := "\nTYPE: AUTO LOAN\n030 01-23 090 12-22\n"

	assert.Empty(t, BuildSeries(chunk))
	max12, max36 := DelinquencyMaxima(chunk)
	assert.Zero(t, max12)
	assert.Zero(t, max36)
}

func TestBuildSeries_Points(t *testing.T) {
	chunk := "TYPE: GOLD LOAN\n(LEFT TO RIGHT)\n000 01-23 XXX 12-22\nSTD 11-22 030 10-22\n"

	points := BuildSeries(chunk)

	require.Len(t, points, 4)
	assert.Equal(t, DPDPoint{Code: "000", Days: 0, Month: "01-23"}, points[0])
	assert.Equal(t, DPDPoint{Code: "XXX", Days: 0, Month: "12-22"}, points[1])
	assert.Equal(t, DPDPoint{Code: "STD", Days: 0, Month: "11-22"}, points[2])
	assert.Equal(t, DPDPoint{Code: "030", Days: 30, Month: "10-22"}, points[3])
}

func TestBuildSeries_UnicodeSeparator(t *testing.T) {
	points := BuildSeries("LEFT TO RIGHT)\n060\u00a005-22 000\u202f04-22")

	require.Len(t, points, 2)
	assert.Equal(t, DPDPoint{Code: "060", Days: 60, Month: "05-22"}, points[0])
	assert.Equal(t, DPDPoint{Code: "000", Days: 0, Month: "04-22"}, points[1])
}

func TestBuildSeries_NonNumericCode(t *testing.T) {
	points := BuildSeries("LEFT TO RIGHT) XXX 03-21")

	require.Len(t, points, 1)
	assert.Equal(t, 0, points[0].Days)
	assert.Equal(t, "03-21", points[0].Month)
}

func TestBuildSeries_SkipsNoiseLines(t *testing.T) {
	// A page break inside the grid drags header lines in; their digits must
	// not be read as status cells.
	chunk := "LEFT TO RIGHT)\n000 01-23\nTIME: 900 11-22\nCONTROL NUMBER: 999 10-22\n060 12-22\n"

	points := BuildSeries(chunk)

	require.Len(t, points, 2)
	assert.Equal(t, "01-23", points[0].Month)
	assert.Equal(t, "12-22", points[1].Month)
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		codes  []string
		want12 int
		want36 int
	}{
		{"empty", nil, 0, 0},
		{"all current", []string{"000", "000", "000"}, 0, 0},
		{"worst inside window", []string{"000", "090", "030"}, 90, 90},
		{"worst outside window", append(strings.Split(strings.Repeat("000,", 12), ",")[:12], "120"), 0, 120},
		{"twelfth cell counts", append(strings.Split(strings.Repeat("000,", 11), ",")[:11], "060", "030"), 60, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := make([]DPDPoint, 0, len(tt.codes))
			for _, c := range tt.codes {
				points = append(points, BuildSeries("LEFT TO RIGHT) "+c+" 01-23")...)
			}
			require.Len(t, points, len(tt.codes))

			max12, max36 := Aggregate(points)
			assert.Equal(t, tt.want12, max12)
			assert.Equal(t, tt.want36, max36)
		})
	}
}

func TestAggregate_ShortSeriesWindowsAgree(t *testing.T) {
	f := gofakeit.New(7)
	for i := 0; i < 50; i++ {
		var codes []string
		for j, n := 0, f.Number(0, 12); j < n; j++ {
			codes = append(codes, f.RandomString(gridCodes))
		}
		chunk := tradelineText(tradeline{Type: "AUTO LOAN", Codes: codes})

		max12, max36 := DelinquencyMaxima(chunk)
		assert.Equal(t, max12, max36, "codes %v", codes)
	}
}

func TestDelinquencyMaxima_GeneratedGrids(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 100; i++ {
		tl := randomTradeline(f)
		want12, want36 := expectedMaxima(tl.Codes)

		max12, max36 := DelinquencyMaxima(tradelineText(tl))

		assert.Equal(t, want12, max12, "codes %v", tl.Codes)
		assert.Equal(t, want36, max36, "codes %v", tl.Codes)
	}
}
