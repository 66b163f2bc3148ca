package analytics

import (
	"testing"

	"github.com/shearly/shearly-api/internal/httperr"
)

func TestParseTimeframe(t *testing.T) {
	cases := []struct {
		in   string
		want Timeframe
	}{
		{"7_days", Timeframe7Days},
		{"30_days", Timeframe30Days},
		{"90_days", Timeframe90Days},
		{"1_year", Timeframe1Year},
		{"", DefaultTimeframe},
	}

	for _, tc := range cases {
		got, err := ParseTimeframe(tc.in)
		if err != nil {
			t.Fatalf("ParseTimeframe(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimeframe(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseTimeframeRejectsUnknown(t *testing.T) {
	_, err := ParseTimeframe("14_days")
	if err == nil {
		t.Fatal("expected an error for an unknown timeframe")
	}
	if !httperr.IsBusiness(err, "invalid_timeframe") {
		t.Fatalf("expected invalid_timeframe, got %v", err)
	}
}

func TestTimeframeDays(t *testing.T) {
	if Timeframe7Days.Days() != 7 || Timeframe30Days.Days() != 30 ||
		Timeframe90Days.Days() != 90 || Timeframe1Year.Days() != 365 {
		t.Fatal("timeframe day counts are wrong")
	}
}
