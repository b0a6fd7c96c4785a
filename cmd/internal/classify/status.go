package classify

import "strings"

type StatusBucket string

const (
	BucketTransacional StatusBucket = "transacional"
	BucketTreinado     StatusBucket = "treinado"
	BucketOutro        StatusBucket = "outro"
)

// Bucket classifies free-text status by substring. "transacion" is checked first so that
// "Treinado - transacionando" lands in the transacting bucket.
func Bucket(status string) StatusBucket {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "transacion"):
		return BucketTransacional
	case strings.Contains(s, "treinad"):
		return BucketTreinado
	default:
		return BucketOutro
	}
}

// IsTreinado is the exact-match predicate the composite filters use.
func IsTreinado(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == "treinado"
}
