package analytics

import (
	"time"

	"github.com/shearly/shearly-api/internal/httperr"
)

// ===============================
// Timeframe
// ===============================

type Timeframe string

const (
	Timeframe7Days  Timeframe = "7_days"
	Timeframe30Days Timeframe = "30_days"
	Timeframe90Days Timeframe = "90_days"
	Timeframe1Year  Timeframe = "1_year"

	DefaultTimeframe = Timeframe30Days
)

func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case Timeframe7Days, Timeframe30Days, Timeframe90Days, Timeframe1Year:
		return Timeframe(s), nil
	case "":
		return DefaultTimeframe, nil
	}
	return "", httperr.ErrBusiness("invalid_timeframe")
}

func (t Timeframe) Days() int {
	switch t {
	case Timeframe7Days:
		return 7
	case Timeframe90Days:
		return 90
	case Timeframe1Year:
		return 365
	default:
		return 30
	}
}

// Window returns the half-open interval [start, end) the timeframe
// covers, ending at now.
func (t Timeframe) Window(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -t.Days()), now
}

// PreviousWindow returns the window of equal length immediately before
// this one, used for period-over-period comparisons.
func (t Timeframe) PreviousWindow(now time.Time) (time.Time, time.Time) {
	start, _ := t.Window(now)
	return start.AddDate(0, 0, -t.Days()), start
}
