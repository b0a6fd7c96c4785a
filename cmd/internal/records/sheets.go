package records

import (
	"strconv"
	"strings"
	"time"

	"treinoexpresso/cmd/internal/ingest"
)

// MicrosseguroRow is one store released to sell micro-insurance.
type MicrosseguroRow struct {
	Chave       string
	Expresso    string
	Agencia     string
	Supervisao  string
	Vendas2026  float64
	LiberadoRaw string
	LiberadoEm  *time.Time
}

// MicrosseguroRows drops rows without a key and keeps the first row of each key.
func MicrosseguroRows(recs *ingest.NormalizedRecords, table *ingest.AliasTable) []*MicrosseguroRow {
	cols := table.Resolve(recs.Headers)
	seen := make(map[string]bool, recs.Len())

	rows := make([]*MicrosseguroRow, 0, recs.Len())
	for _, rec := range recs.Rows {
		chave := cols.Get(rec, "chave")
		if chave == "" || seen[chave] {
			continue
		}
		seen[chave] = true

		raw := cols.Get(rec, "liberadoEm")
		rows = append(rows, &MicrosseguroRow{
			Chave:       chave,
			Expresso:    cols.Get(rec, "expresso"),
			Agencia:     cols.Get(rec, "agencia"),
			Supervisao:  cols.Get(rec, "supervisao"),
			Vendas2026:  ingest.ParseNumber(cols.Get(rec, "vendas2026")),
			LiberadoRaw: raw,
			LiberadoEm:  ingest.ParseDateFlexible(raw),
		})
	}
	return rows
}

// CertificateRecord is one exam result of the certified-people CSV.
type CertificateRecord struct {
	CNPJ           string
	ChaveLoja      string
	Correspondente string
	CPF            string
	Nome           string
	StatusProva    string
	DataRaw        string
	Data           *time.Time
}

func CertificateRecords(recs *ingest.NormalizedRecords, table *ingest.AliasTable) []*CertificateRecord {
	cols := table.Resolve(recs.Headers)

	out := make([]*CertificateRecord, 0, recs.Len())
	for _, rec := range recs.Rows {
		r := &CertificateRecord{
			CNPJ:           cols.Get(rec, "cnpj"),
			ChaveLoja:      cols.Get(rec, "chave"),
			Correspondente: cols.Get(rec, "correspondente"),
			CPF:            cols.Get(rec, "cpf"),
			Nome:           cols.Get(rec, "nome"),
			StatusProva:    cols.Get(rec, "status"),
			DataRaw:        cols.Get(rec, "data"),
		}
		if r.CPF == "" && r.Nome == "" && r.CNPJ == "" {
			continue
		}
		r.Data = ingest.ParseDateFlexible(r.DataRaw)
		out = append(out, r)
	}
	return out
}

// TrainingStore is one row of the training list workbook.
type TrainingStore struct {
	Chave        string
	RazaoSocial  string
	NomeLoja     string
	CNPJ         string // 14 digits when the three CNPJ columns are present
	CodAgencia   string
	NomeAgencia  string
	Pacb         string
	Municipio    string
	DDD          string
	Telefone     string
	StatusTablet string
	Contato      string
	Email        string
}

func TrainingStores(recs *ingest.NormalizedRecords, table *ingest.AliasTable) []*TrainingStore {
	cols := table.Resolve(recs.Headers)
	get := func(rec ingest.Record, field string) string {
		return cellText(cols.Get(rec, field))
	}

	out := make([]*TrainingStore, 0, recs.Len())
	for _, rec := range recs.Rows {
		chave := get(rec, "chave")
		if chave == "" {
			continue
		}

		out = append(out, &TrainingStore{
			Chave:        chave,
			RazaoSocial:  get(rec, "razaoSocial"),
			NomeLoja:     get(rec, "nomeLoja"),
			CNPJ:         BuildCNPJ(get(rec, "cnpj"), get(rec, "filial"), get(rec, "controle")),
			CodAgencia:   get(rec, "codAgencia"),
			NomeAgencia:  get(rec, "nomeAgencia"),
			Pacb:         get(rec, "pacb"),
			Municipio:    get(rec, "municipio"),
			DDD:          get(rec, "ddd"),
			Telefone:     get(rec, "telefone"),
			StatusTablet: get(rec, "statusTablet"),
			Contato:      get(rec, "contato"),
			Email:        get(rec, "email"),
		})
	}
	return out
}

// BuildCNPJ joins the root (8), branch (4) and check digits (2) columns of the training list.
// Only the root is required; the result is empty when it has no digits.
func BuildCNPJ(root, branch, check string) string {
	root = OnlyDigits(root)
	if root == "" {
		return ""
	}
	return padNum(root, 8) + padNum(OnlyDigits(branch), 4) + padNum(OnlyDigits(check), 2)
}

// LojaImport is one row of the store import CSV.
type LojaImport struct {
	Chave        string
	NomeExpresso string
	Agencia      string
	Pacb         string
}

// LojaImports returns the valid rows and the number of rows dropped for lacking a key.
func LojaImports(recs *ingest.NormalizedRecords, table *ingest.AliasTable) ([]*LojaImport, int) {
	cols := table.Resolve(recs.Headers)
	strip := func(s string) string { return strings.ReplaceAll(s, " ", "") }

	var skipped int
	out := make([]*LojaImport, 0, recs.Len())
	for _, rec := range recs.Rows {
		chave := strip(cols.Get(rec, "chave"))
		if chave == "" {
			skipped++
			continue
		}

		agencia, pacb := strip(cols.Get(rec, "agencia")), strip(cols.Get(rec, "pacb"))
		if combined := cols.Get(rec, "agpacb"); combined != "" {
			a, p := SplitAgPacb(combined, "/", "-")
			if agencia == "" {
				agencia = strip(a)
			}
			if pacb == "" {
				pacb = strip(p)
			}
		}

		out = append(out, &LojaImport{
			Chave:        chave,
			NomeExpresso: cols.Get(rec, "nome"),
			Agencia:      agencia,
			Pacb:         pacb,
		})
	}
	return out, skipped
}

// cellText turns numeric cells such as "1234.0" into "1234"; other text is returned trimmed.
func cellText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}

func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func padNum(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
