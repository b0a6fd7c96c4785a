package utils

import "treinoexpresso/cmd/internal/records"

const CNPJLength = 14

// NormalizeCNPJ strips punctuation and left-pads to 14 digits. Values longer than that are returned as digits.
func NormalizeCNPJ(raw string) string {
	d := records.OnlyDigits(raw)
	if d == "" || len(d) >= CNPJLength {
		return d
	}
	return padLeft(d, CNPJLength)
}

func IsCNPJValid(cnpj string) bool {
	if len(cnpj) != CNPJLength {
		return false
	}

	if records.OnlyDigits(cnpj) != cnpj {
		return false
	}

	// Reject known invalid patterns that trick the math algorithm
	if hasAllSameDigits(cnpj) {
		return false
	}
	return validateCNPJDigits(cnpj)
}

func hasAllSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func validateCNPJDigits(cnpj string) bool {
	weights1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	weights2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

	digit1 := calculateCNPJDigit(cnpj[:12], weights1)
	digit2 := calculateCNPJDigit(cnpj[:13], weights2)

	return digit1 == int(cnpj[12]-'0') && digit2 == int(cnpj[13]-'0')
}

func calculateCNPJDigit(base string, weights []int) int {
	sum := 0
	for i, weight := range weights {
		sum += int(base[i]-'0') * weight
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

func padLeft(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
