package view

import (
	"strings"

	"github.com/ttacon/libphonenumber"

	"treinoexpresso/cmd/internal/records"
)

const defaultRegion = "BR"

// FormatPhone renders a Brazilian number in national format, "(71) 99999-8888".
// Numbers libphonenumber rejects are returned as typed.
func FormatPhone(ddd, tel string) string {
	num, ok := parsePhone(ddd, tel)
	if !ok {
		return strings.TrimSpace(strings.Join(nonEmpty(ddd, tel), " "))
	}
	return libphonenumber.Format(num, libphonenumber.NATIONAL)
}

// WhatsAppLink returns a wa.me link, or "" when the number is not valid.
func WhatsAppLink(ddd, tel string) string {
	num, ok := parsePhone(ddd, tel)
	if !ok {
		return ""
	}
	e164 := libphonenumber.Format(num, libphonenumber.E164)
	return "https://wa.me/" + strings.TrimPrefix(e164, "+")
}

func parsePhone(ddd, tel string) (*libphonenumber.PhoneNumber, bool) {
	digits := records.OnlyDigits(ddd + tel)
	if digits == "" {
		return nil, false
	}

	num, err := libphonenumber.Parse(digits, defaultRegion)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return nil, false
	}
	return num, true
}
