package classify

import "time"

type CertStatus string

const (
	NoCertification CertStatus = "no_certification"
	Expired         CertStatus = "expired"
	ExpiringSoon    CertStatus = "expiring_soon"
	CertOK          CertStatus = "ok"
)

const (
	CertValidityYears = 5
	ExpiringWindow    = 3 // months
)

// Certification classifies a certification date against today, at day granularity.
// Expiry is the safe five year anniversary; the expiry day itself counts as expired.
func Certification(certDate *time.Time, today time.Time) CertStatus {
	if certDate == nil {
		return NoCertification
	}

	expiry := ExpiryDate(*certDate)
	t := Day(today)
	if !t.Before(expiry) {
		return Expired
	}
	if !expiry.After(AddMonthsSafe(t, ExpiringWindow)) {
		return ExpiringSoon
	}
	return CertOK
}

// ExpiryDate is the day the certification stops being valid.
func ExpiryDate(certDate time.Time) time.Time {
	return AddYearsSafe(Day(certDate), CertValidityYears)
}

// AddYearsSafe adds years without rolling Feb 29 into March: the day is clamped to the
// last day of the target month.
func AddYearsSafe(t time.Time, years int) time.Time {
	return addClamped(t, years, 0)
}

// AddMonthsSafe is the month counterpart of AddYearsSafe (31/01 + 1 month = 28 or 29/02).
func AddMonthsSafe(t time.Time, months int) time.Time {
	return addClamped(t, 0, months)
}

func addClamped(t time.Time, years, months int) time.Time {
	y, m, d := t.Date()
	// first day of the target month, normalized by time.Date
	first := time.Date(y+years, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Day drops the time of day, keeping the calendar date of t in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
