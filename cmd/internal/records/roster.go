package records

import (
	"strings"
	"time"

	"treinoexpresso/cmd/internal/ingest"
)

// RosterRow is one store of the base-lojas roster.
type RosterRow struct {
	Chave     string
	Nome      string
	Municipio string
	AgPacb    string
	Agencia   string
	Pacb      string
	Status    string
	Trx       float64
	CertRaw   string
	CertDate  *time.Time
	Bloqueado bool
	Counters  map[string]float64
}

// RosterRows maps normalized roster records. Rows without a store key are dropped.
func RosterRows(recs *ingest.NormalizedRecords, table *ingest.AliasTable) []*RosterRow {
	cols := table.Resolve(recs.Headers)

	rows := make([]*RosterRow, 0, recs.Len())
	for _, rec := range recs.Rows {
		chave := cols.Get(rec, "chave")
		if chave == "" {
			continue
		}

		agPacb := cols.Get(rec, "agpacb")
		agencia, pacb := SplitAgPacb(agPacb, "/")
		certRaw := cols.Get(rec, "certificacao")

		row := &RosterRow{
			Chave:     chave,
			Nome:      cols.Get(rec, "nome"),
			Municipio: cols.Get(rec, "municipio"),
			AgPacb:    agPacb,
			Agencia:   agencia,
			Pacb:      pacb,
			Status:    cols.Get(rec, "status"),
			Trx:       ingest.ParseNumber(cols.Get(rec, "trx")),
			CertRaw:   certRaw,
			CertDate:  ingest.ParseDateFlexible(certRaw),
			Bloqueado: IsBloqueado(cols.Get(rec, "bloqueado")),
			Counters:  make(map[string]float64, len(table.Counters)),
		}
		for _, c := range table.Counters {
			row.Counters[c] = ingest.ParseNumber(rec[c])
		}
		rows = append(rows, row)
	}
	return rows
}

// SplitAgPacb splits "0001/123" style cells on any of the separators.
func SplitAgPacb(s string, seps ...string) (agencia, pacb string) {
	for _, sep := range seps {
		if a, p, ok := strings.Cut(s, sep); ok {
			return strings.TrimSpace(a), strings.TrimSpace(p)
		}
	}
	return strings.TrimSpace(s), ""
}

// IsBloqueado reads the free-text BLOQUEADO column.
func IsBloqueado(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "sim", "s", "1", "true", "bloqueado", "yes":
		return true
	case "", "nao", "não", "n", "0", "false", "desbloqueado", "no":
		return false
	}
	return strings.Contains(v, "bloq") || strings.Contains(v, "sim")
}
