package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"", 0},
		{"abc", 0},
		{"  42 ", 42},
		{"0", 0},
		{"R$ 1.000,00", 1000},
		{"-3,5", -3.5},
		{"NaN", 0},
		{"Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

func TestParseDateFlexible(t *testing.T) {
	date := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{"br", "05/03/2021", date(2021, time.March, 5)},
		{"br with time", "05/03/2021 14:30:00", date(2021, time.March, 5)},
		{"iso", "2021-03-05", date(2021, time.March, 5)},
		{"iso with time", "2021-03-05T10:00:00Z", date(2021, time.March, 5)},
		{"serial", "45000", date(2023, time.March, 15)},
		{"serial below range", "20000", nil},
		{"serial above range", "90000", nil},
		{"small number", "12", nil},
		{"empty", "", nil},
		{"garbage", "ontem", nil},
		{"impossible day", "31/02/2021", nil},
		{"leap day", "29/02/2020", date(2020, time.February, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDateFlexible(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v", got)
		})
	}
}

func TestNormalizeKeyIsIdempotent(t *testing.T) {
	inputs := []string{
		"  Agência/PACB ",
		"MunicÃ­pio",
		"DATA REALIZAÃ‡ÃƒO",
		"NÂº da Loja",
		"ã³",
		"qtd_TrxContabil",
		"",
	}

	for _, fold := range []Fold{FoldNone, FoldLower, FoldUpper} {
		for _, in := range inputs {
			once := NormalizeKey(in, fold)
			assert.Equal(t, once, NormalizeKey(once, fold), "input %q fold %d", in, fold)
		}
	}
}

func TestNormalizeKeyFixesMojibake(t *testing.T) {
	assert.Equal(t, "município", NormalizeKey("MunicÃ­pio", FoldLower))
	assert.Equal(t, "SUPERVISÃO", NormalizeKey("SupervisÃ£o", FoldUpper))
	assert.Equal(t, "Razão Social", NormalizeKey(" RazÃ£o Social ", FoldNone))
	assert.Equal(t, "nº", NormalizeKey("NÂº", FoldLower))
}

func TestNormalize(t *testing.T) {
	raw := &RawRecords{
		Headers: []string{" Chave_Loja ", "MunicÃ­pio", "chave_loja"},
		Rows: []map[string]string{
			{" Chave_Loja ": " 123 ", "MunicÃ­pio": "Salvador", "chave_loja": ""},
		},
	}

	got := Normalize(raw, FoldLower)
	assert.Equal(t, []string{"chave_loja", "município"}, got.Headers)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "123", got.Rows[0]["chave_loja"])
	assert.Equal(t, "Salvador", got.Rows[0]["município"])
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', DetectDelimiter("chave;nome;agencia,pacb"))
	assert.Equal(t, ',', DetectDelimiter("chave,nome,agencia"))
	assert.Equal(t, ',', DetectDelimiter("chave"))
}

func TestDecodeCSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfchave_loja;nome_loja;qtd_TrxContabil\n\n123;Loja A;1.234\n456;\"Loja; B\";0\n")

	recs, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"chave_loja", "nome_loja", "qtd_TrxContabil"}, recs.Headers)
	require.Len(t, recs.Rows, 2)
	assert.Equal(t, "Loja; B", recs.Rows[1]["nome_loja"])
	assert.Equal(t, "1.234", recs.Rows[0]["qtd_TrxContabil"])
}

func TestDecodeLatin1CSV(t *testing.T) {
	text := "município,agência\nSão Gonçalo,001\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(text)
	require.NoError(t, err)

	recs, err := Decode([]byte(latin1))
	require.NoError(t, err)
	assert.Equal(t, []string{"município", "agência"}, recs.Headers)
	assert.Equal(t, "São Gonçalo", recs.Rows[0]["município"])
}

func TestDecodeDuplicateAndShortRows(t *testing.T) {
	recs, err := Decode([]byte("a,b,a,\n1\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a_1"}, recs.Headers)
	assert.Equal(t, map[string]string{"a": "1", "b": "", "a_1": ""}, recs.Rows[0])
	assert.Equal(t, "3", recs.Rows[1]["a_1"])
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Chave Loja", "Válido Des", "Vendas 2026"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"999", 45000, 7}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	recs, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chave Loja", "Válido Des", "Vendas 2026"}, recs.Headers)
	require.Len(t, recs.Rows, 1)
	assert.Equal(t, "999", recs.Rows[0]["Chave Loja"])
	assert.NotNil(t, ParseDateFlexible(recs.Rows[0]["Válido Des"]))
}

func TestDecodeEmpty(t *testing.T) {
	_, err := Decode([]byte("   \n"))
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

type fakeReader struct {
	data map[string][]byte
}

func (f *fakeReader) Download(_ context.Context, key string) ([]byte, error) {
	d, ok := f.data[key]
	if !ok {
		return nil, errors.New("missing")
	}
	return d, nil
}

func TestLoaderLoad(t *testing.T) {
	l := NewLoader(&fakeReader{data: map[string][]byte{"base-lojas/banco.csv": []byte("chave_loja\n1\n")}})

	recs, err := l.Load(context.Background(), "base-lojas/banco.csv")
	require.NoError(t, err)
	assert.Len(t, recs.Rows, 1)

	_, err = l.Load(context.Background(), "nope.csv")
	assert.ErrorIs(t, err, ErrLoad)
}

func TestAliasResolution(t *testing.T) {
	table := MustAliasTable("roster")
	raw := &RawRecords{
		Headers: []string{"CHAVE_LOJA", "Agência/PACB", "ag_pacb", "STATUS_ANALISE"},
		Rows: []map[string]string{
			{"CHAVE_LOJA": "1", "Agência/PACB": "0001/22", "ag_pacb": "", "STATUS_ANALISE": "TREINADO"},
		},
	}

	recs, cols := table.Apply(raw)
	rec := recs.Rows[0]
	assert.Equal(t, "1", cols.Get(rec, "chave"))
	assert.Equal(t, "0001/22", cols.Get(rec, "agpacb"), "empty ag_pacb falls through to the next alias")
	assert.Equal(t, "TREINADO", cols.Get(rec, "status"))
	assert.Equal(t, "", cols.Get(rec, "municipio"))
	assert.Empty(t, cols.Missing())
}

func TestAliasMissingAndHint(t *testing.T) {
	table := MustAliasTable("lojas")
	cols := table.Resolve([]string{"chave da lja", "nome"})

	assert.Equal(t, []string{"chave"}, cols.Missing())
	assert.Equal(t, "chave da lja", cols.Hint("chave"))
}

func TestAliasTablesLoad(t *testing.T) {
	tables, err := DefaultAliasTables()
	require.NoError(t, err)
	for _, name := range []string{"roster", "microsseguro", "certificados", "treinamentos", "lojas"} {
		assert.Contains(t, tables, name)
	}
	assert.Len(t, tables["roster"].Counters, 25)

	_, err = ParseAliasTables([]byte("x:\n  required: [a]\n  fields:\n    b: [c]\n"))
	assert.Error(t, err)
}

func TestContainsFolded(t *testing.T) {
	assert.True(t, ContainsFolded("sao goncalo", "SÃO GONÇALO"))
	assert.True(t, ContainsFolded("", "x"))
	assert.False(t, ContainsFolded("feira", "Salvador", "Camaçari"))
}
