package classify

import (
	"time"

	"treinoexpresso/cmd/internal/records"
)

// AllCountersZero reports whether every product counter of the row is exactly zero.
// Counters missing from the file were parsed as zero.
func AllCountersZero(row *records.RosterRow) bool {
	for _, v := range row.Counters {
		if v != 0 {
			return false
		}
	}
	return true
}

// CertAttention selects active trained stores whose certification expired or is about to.
func CertAttention(row *records.RosterRow, today time.Time) (CertStatus, bool) {
	if row.Trx <= 0 || row.CertDate == nil || !IsTreinado(row.Status) {
		return "", false
	}
	st := Certification(row.CertDate, today)
	return st, st == Expired || st == ExpiringSoon
}

// TransactingOnly selects stores with transactions but no product sold.
func TransactingOnly(row *records.RosterRow) bool {
	return row.Trx > 0 && AllCountersZero(row)
}

// TrainedAndZeroed selects trained stores with no transaction and no product sold.
func TrainedAndZeroed(row *records.RosterRow) bool {
	return IsTreinado(row.Status) && row.Trx == 0 && AllCountersZero(row)
}

// TrxRange buckets the transaction count the way the roster filters do. Fractional counts
// between the bounds (0.5, 199.5) and negative ones belong to no bucket.
func TrxRange(trx float64) string {
	switch {
	case trx == 0:
		return "0"
	case trx >= 1 && trx <= 199:
		return "1-199"
	case trx >= 200:
		return "200+"
	default:
		return ""
	}
}
