package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold tells the normalizer how to case-fold header names.
type Fold int

const (
	FoldNone Fold = iota
	FoldLower
	FoldUpper
)

// ParseFold maps the textual fold names used in alias tables.
func ParseFold(s string) Fold {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lower":
		return FoldLower
	case "upper":
		return FoldUpper
	default:
		return FoldNone
	}
}

// mojibake undoes UTF-8 text that went through a Latin-1 round trip on the way into the sheet.
var mojibake = strings.NewReplacer(
	"Ã³", "ó",
	"Ã£", "ã",
	"Ã§", "ç",
	"Ãº", "ú",
	"Ã¡", "á",
	"Ã©", "é",
	"Ã­", "í",
	"Ãª", "ê",
	"Ã´", "ô",
	"Â", "",
)

// NormalizeKey fixes encoding artifacts, trims and folds a header name.
// Applying it twice gives the same result as applying it once.
func NormalizeKey(s string, fold Fold) string {
	// case folding can itself produce a sequence from the table ("ã³" -> "Ã³"), so run to a fixed point
	for i := 0; i < 8; i++ {
		next := foldCase(strings.TrimSpace(mojibake.Replace(s)), fold)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func foldCase(s string, fold Fold) string {
	switch fold {
	case FoldLower:
		return strings.ToLower(s)
	case FoldUpper:
		return strings.ToUpper(s)
	default:
		return s
	}
}

// Normalize rewrites every key of every row and trims cell values.
func Normalize(raw *RawRecords, fold Fold) *NormalizedRecords {
	out := &NormalizedRecords{}
	if raw == nil {
		return out
	}

	seen := make(map[string]bool, len(raw.Headers))
	for _, h := range raw.Headers {
		key := NormalizeKey(h, fold)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out.Headers = append(out.Headers, key)
	}

	out.Rows = make([]Record, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		rec := make(Record, len(row))
		for k, v := range row {
			key := NormalizeKey(k, fold)
			if key == "" {
				continue
			}
			// first non-empty value wins when two raw headers collapse into one key
			if cur, ok := rec[key]; ok && cur != "" {
				continue
			}
			rec[key] = strings.TrimSpace(v)
		}
		out.Rows = append(out.Rows, rec)
	}
	return out
}

// FoldAccents lower-cases s and strips combining marks ("Agência" -> "agencia").
// Used for tolerant header matching and free-text search.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ContainsFolded reports whether needle occurs in any of the haystacks, ignoring case and accents.
// An empty needle matches everything.
func ContainsFolded(needle string, haystacks ...string) bool {
	needle = FoldAccents(needle)
	if needle == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(FoldAccents(h), needle) {
			return true
		}
	}
	return false
}
