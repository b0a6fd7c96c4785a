package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	minDateSerial = 20000
	maxDateSerial = 90000
)

var (
	brDateRe  = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})`)
	isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
)

// ParseNumber reads a pt-BR formatted number ("1.234,56"). Anything that does not parse,
// including the empty string, is 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseDateFlexible accepts dd/mm/yyyy (anything after the date is ignored), yyyy-mm-dd and
// spreadsheet serial numbers. It returns nil when the value is not a date; callers must keep
// that distinct from any real date.
func ParseDateFlexible(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if m := brDateRe.FindStringSubmatch(s); m != nil {
		return civilDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return civilDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || n <= minDateSerial || n >= maxDateSerial {
		return nil
	}

	t, err := excelize.ExcelDateToTime(n, false)
	if err != nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func civilDate(year, month, day int) *time.Time {
	if month < 1 || month > 12 || day < 1 {
		return nil
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		// 31/02 and friends normalize into the next month
		return nil
	}
	return &t
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
