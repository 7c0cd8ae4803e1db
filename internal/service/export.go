package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
)

const (
	csvTimeLayout = "15:04"
	csvNA         = "n/a"
)

// WriteCSV renders the night history as CSV, one row per night in
// ascending date order. Missing fields render as "n/a".
func WriteCSV(w io.Writer, nights []domain.NightSummary, target domain.ScheduleTarget, loc *time.Location) error {
	cw := csv.NewWriter(w)

	header := []string{"date", "time_in_bed_hours", "time_asleep_hours", "efficiency_percent", "bedtime", "wake_time", "midpoint", "on_schedule"}
	if err := cw.Write(header); err != nil {
		return err
	}

	// History is held most recent first; export reads oldest first.
	for i := len(nights) - 1; i >= 0; i-- {
		n := nights[i]
		row := []string{
			string(n.Date),
			csvHours(n.TimeInBed),
			csvHours(n.TimeAsleep),
			csvPercent(n.Efficiency),
			csvClock(n.Bedtime, loc),
			csvClock(n.WakeTime, loc),
			csvClock(n.Midpoint, loc),
			csvOnSchedule(n, target, loc),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvHours(d *time.Duration) string {
	if d == nil {
		return csvNA
	}
	return fmt.Sprintf("%.2f", d.Hours())
}

func csvPercent(v *float64) string {
	if v == nil {
		return csvNA
	}
	return fmt.Sprintf("%.1f", *v)
}

func csvClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return csvNA
	}
	return t.In(loc).Format(csvTimeLayout)
}

func csvOnSchedule(n domain.NightSummary, target domain.ScheduleTarget, loc *time.Location) string {
	dev := DeviationFor(n, target, loc)
	switch dev.Fit {
	case domain.FitOnSchedule:
		return "yes"
	case domain.FitUnknown:
		return csvNA
	default:
		return "no"
	}
}
