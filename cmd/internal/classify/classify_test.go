package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"treinoexpresso/cmd/internal/records"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestAddYearsSafeClampsLeapDay(t *testing.T) {
	assert.Equal(t, date(2025, time.February, 28), AddYearsSafe(date(2020, time.February, 29), 5))
	assert.Equal(t, date(2028, time.February, 29), AddYearsSafe(date(2024, time.February, 29), 4))
	assert.Equal(t, date(2026, time.March, 10), AddYearsSafe(date(2021, time.March, 10), 5))
}

func TestAddMonthsSafe(t *testing.T) {
	assert.Equal(t, date(2023, time.February, 28), AddMonthsSafe(date(2023, time.January, 31), 1))
	assert.Equal(t, date(2024, time.February, 29), AddMonthsSafe(date(2023, time.November, 30), 3))
	assert.Equal(t, date(2025, time.January, 15), AddMonthsSafe(date(2024, time.October, 15), 3))
}

func TestCertificationBoundaries(t *testing.T) {
	today := time.Date(2025, time.June, 10, 23, 59, 0, 0, time.UTC)

	// five years minus one day ago: expires tomorrow
	almost := date(2020, time.June, 11)
	assert.NotEqual(t, Expired, Certification(&almost, today))
	assert.Equal(t, ExpiringSoon, Certification(&almost, today))

	// exactly five years ago: expires today
	exact := date(2020, time.June, 10)
	assert.Equal(t, Expired, Certification(&exact, today))

	assert.Equal(t, NoCertification, Certification(nil, today))
	assert.Equal(t, CertOK, Certification(ptr(date(2024, time.January, 1)), today))
}

func TestCertificationLeapDay(t *testing.T) {
	cert := date(2020, time.February, 29)
	assert.Equal(t, date(2025, time.February, 28), ExpiryDate(cert))
	assert.Equal(t, ExpiringSoon, Certification(&cert, date(2025, time.February, 27)))
	assert.Equal(t, Expired, Certification(&cert, date(2025, time.February, 28)))
}

func TestCertificationExpiringWindow(t *testing.T) {
	today := date(2025, time.June, 10)

	// expiry exactly three months ahead is still "expiring soon"
	edge := date(2020, time.September, 10)
	assert.Equal(t, ExpiringSoon, Certification(&edge, today))

	after := date(2020, time.September, 11)
	assert.Equal(t, CertOK, Certification(&after, today))
}

func TestCertificationIgnoresTimeOfDay(t *testing.T) {
	cert := time.Date(2020, time.June, 10, 18, 0, 0, 0, time.UTC)
	morning := time.Date(2025, time.June, 10, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, Expired, Certification(&cert, morning))
}

func TestBucket(t *testing.T) {
	tests := []struct {
		in   string
		want StatusBucket
	}{
		{"TREINADO", BucketTreinado},
		{"Treinado - ok", BucketTreinado},
		{"TRANSACIONANDO", BucketTransacional},
		{"treinado e transacionando", BucketTransacional},
		{"", BucketOutro},
		{"Pendente", BucketOutro},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bucket(tt.in), tt.in)
	}

	assert.True(t, IsTreinado(" Treinado "))
	assert.False(t, IsTreinado("Treinado - ok"))
}

func row(trx float64, status string, counters map[string]float64, cert *time.Time) *records.RosterRow {
	if counters == nil {
		counters = map[string]float64{"qtd_contas": 0, "qtd_lime": 0}
	}
	return &records.RosterRow{Chave: "1", Trx: trx, Status: status, Counters: counters, CertDate: cert}
}

func TestTransactingOnly(t *testing.T) {
	assert.True(t, TransactingOnly(row(10, "", nil, nil)))
	assert.False(t, TransactingOnly(row(0, "TREINADO", nil, nil)), "trx=0 never qualifies")
	assert.False(t, TransactingOnly(row(10, "", map[string]float64{"qtd_contas": 1}, nil)))
}

func TestTrainedAndZeroed(t *testing.T) {
	assert.True(t, TrainedAndZeroed(row(0, "TREINADO", nil, nil)))
	assert.False(t, TrainedAndZeroed(row(0, "TREINADO", map[string]float64{"qtd_lime": 0, "vlr_lime": 0.5}, nil)))
	assert.False(t, TrainedAndZeroed(row(3, "TREINADO", nil, nil)))
	assert.False(t, TrainedAndZeroed(row(0, "Treinado - ok", nil, nil)))
}

func TestCertAttention(t *testing.T) {
	today := date(2025, time.June, 10)
	old := ptr(date(2019, time.January, 1))

	st, ok := CertAttention(row(5, "TREINADO", nil, old), today)
	assert.True(t, ok)
	assert.Equal(t, Expired, st)

	_, ok = CertAttention(row(0, "TREINADO", nil, old), today)
	assert.False(t, ok)

	_, ok = CertAttention(row(5, "TRANSACIONANDO", nil, old), today)
	assert.False(t, ok)

	_, ok = CertAttention(row(5, "TREINADO", nil, nil), today)
	assert.False(t, ok)

	_, ok = CertAttention(row(5, "TREINADO", nil, ptr(date(2024, time.January, 1))), today)
	assert.False(t, ok)
}

func TestTrxRange(t *testing.T) {
	assert.Equal(t, "0", TrxRange(0))
	assert.Equal(t, "1-199", TrxRange(1))
	assert.Equal(t, "1-199", TrxRange(199))
	assert.Equal(t, "200+", TrxRange(200))
	assert.Empty(t, TrxRange(0.5))
	assert.Empty(t, TrxRange(199.5))
	assert.Empty(t, TrxRange(-3))
}
