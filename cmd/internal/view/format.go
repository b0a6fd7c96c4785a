package view

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"treinoexpresso/cmd/internal/records"
)

const Placeholder = "—"

// Moeda renders a money amount with two decimals ("80.00").
func Moeda(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// MoedaOf is Moeda for optional amounts; nil renders as "0.00".
func MoedaOf(v *float64) string {
	if v == nil {
		return Moeda(0)
	}
	return Moeda(*v)
}

// FormatBRL renders pt-BR currency: "R$ 1.234,56".
func FormatBRL(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return "R$ " + humanize.FormatFloat("#.###,##", rounded)
}

// FormatPtBRDate renders dd/mm/yyyy, or the placeholder for absent dates.
func FormatPtBRDate(t *time.Time) string {
	if t == nil {
		return Placeholder
	}
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// FormatDateOr renders the date when it parsed and falls back to the raw cell otherwise.
func FormatDateOr(t *time.Time, raw string) string {
	if t != nil {
		return FormatPtBRDate(t)
	}
	if strings.TrimSpace(raw) == "" {
		return Placeholder
	}
	return raw
}

// FormatDateTime renders unix millis as "dd/mm/yyyy HH:MM" in loc.
func FormatDateTime(millis int64, loc *time.Location) string {
	if millis <= 0 {
		return Placeholder
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(millis).In(loc).Format("02/01/2006 15:04")
}

// FormatCNPJ pads to 14 digits and punctuates (00.000.000/0000-00).
func FormatCNPJ(s string) string {
	d := records.OnlyDigits(s)
	if d == "" || len(d) > 14 {
		return strings.TrimSpace(s)
	}
	d = strings.Repeat("0", 14-len(d)) + d
	return fmt.Sprintf("%s.%s.%s/%s-%s", d[0:2], d[2:5], d[5:8], d[8:12], d[12:14])
}

// FormatCPF pads to 11 digits and punctuates (000.000.000-00).
func FormatCPF(s string) string {
	d := records.OnlyDigits(s)
	if d == "" || len(d) > 11 {
		return strings.TrimSpace(s)
	}
	d = strings.Repeat("0", 11-len(d)) + d
	return fmt.Sprintf("%s.%s.%s-%s", d[0:3], d[3:6], d[6:9], d[9:11])
}

// Tone is the color hint of an exam status.
type Tone string

const (
	ToneGreen  Tone = "green"
	ToneRed    Tone = "red"
	ToneYellow Tone = "yellow"
	ToneGray   Tone = "gray"
)

func StatusTone(status string) Tone {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "aprov"):
		return ToneGreen
	case strings.Contains(s, "reprov"):
		return ToneRed
	case strings.Contains(s, "pend"), strings.Contains(s, "aguard"), strings.Contains(s, "andam"):
		return ToneYellow
	default:
		return ToneGray
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
