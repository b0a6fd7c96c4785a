package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treinoexpresso/cmd/internal/ingest"
)

func decode(t *testing.T, table string, csv string) (*ingest.NormalizedRecords, *ingest.AliasTable) {
	t.Helper()
	raw, err := ingest.Decode([]byte(csv))
	require.NoError(t, err)
	tbl := ingest.MustAliasTable(table)
	recs, _ := tbl.Apply(raw)
	return recs, tbl
}

func TestRosterRows(t *testing.T) {
	recs, tbl := decode(t, "roster",
		"chave_loja;nome_loja;municipio;AGENCIA/PACB;STATUS_ANALISE;qtd_TrxContabil;dt_certificacao;BLOQUEADO;qtd_contas;QTD_MTOKEN\n"+
			"123;Loja A;Salvador;0001/77;TREINADO;1.250;10/01/2021;não;0;2\n"+
			";sem chave;;;;;;;;\n")

	rows := RosterRows(recs, tbl)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "123", r.Chave)
	assert.Equal(t, "Loja A", r.Nome)
	assert.Equal(t, "0001", r.Agencia)
	assert.Equal(t, "77", r.Pacb)
	assert.Equal(t, 1250.0, r.Trx)
	assert.False(t, r.Bloqueado)
	require.NotNil(t, r.CertDate)
	assert.Equal(t, time.Date(2021, time.January, 10, 0, 0, 0, 0, time.UTC), *r.CertDate)
	assert.Len(t, r.Counters, 25)
	assert.Equal(t, 2.0, r.Counters["qtd_mtoken"])
	assert.Equal(t, 0.0, r.Counters["vlr_exp_sorte"], "missing counter columns read as zero")
}

func TestIsBloqueado(t *testing.T) {
	for _, v := range []string{"SIM", "s", "1", "true", "Bloqueado", "yes", "bloq. judicial", "sim, temporário"} {
		assert.True(t, IsBloqueado(v), v)
	}
	for _, v := range []string{"NAO", "não", "n", "0", "false", "desbloqueado", "no", "", "ativo"} {
		assert.False(t, IsBloqueado(v), v)
	}
}

func TestSplitAgPacb(t *testing.T) {
	a, p := SplitAgPacb(" 0001 / 22 ", "/")
	assert.Equal(t, "0001", a)
	assert.Equal(t, "22", p)

	a, p = SplitAgPacb("0001-22", "/", "-")
	assert.Equal(t, "0001", a)
	assert.Equal(t, "22", p)

	a, p = SplitAgPacb("0001", "/")
	assert.Equal(t, "0001", a)
	assert.Equal(t, "", p)
}

func TestMicrosseguroRowsDedup(t *testing.T) {
	recs, tbl := decode(t, "microsseguro",
		"Chave Loja,Correspondente,Cod Ag,Supervisão,Vendas 2026,Válido Des\n"+
			"10,Loja X,0001,Sup A,3,01/02/2026\n"+
			"10,Loja X dup,0001,Sup A,9,\n"+
			",sem chave,,,,\n"+
			"11,Loja Y,0002,Sup B,0,quando possível\n")

	rows := MicrosseguroRows(recs, tbl)
	require.Len(t, rows, 2)
	assert.Equal(t, "Loja X", rows[0].Expresso)
	assert.Equal(t, 3.0, rows[0].Vendas2026)
	assert.Equal(t, "Sup A", rows[0].Supervisao)
	assert.NotNil(t, rows[0].LiberadoEm)
	assert.Nil(t, rows[1].LiberadoEm)
	assert.Equal(t, "quando possível", rows[1].LiberadoRaw)
}

func TestCertificateRecords(t *testing.T) {
	recs, tbl := decode(t, "certificados",
		"CNPJ;CHAVE_LOJA;CORRESPONDENTE;CPF CANDIDATO;NOME CANDIDATO;STATUS PROVA;DATA REALIZAÇÃO\n"+
			"1234567000195;55;Corr;1234567890;Maria;Aprovado;2024-05-02\n"+
			";;;;;;\n")

	got := CertificateRecords(recs, tbl)
	require.Len(t, got, 1)
	assert.Equal(t, "Maria", got[0].Nome)
	assert.Equal(t, "1234567890", got[0].CPF)
	assert.Equal(t, "Aprovado", got[0].StatusProva)
	assert.NotNil(t, got[0].Data)
}

func TestTrainingStores(t *testing.T) {
	recs, tbl := decode(t, "treinamentos",
		"Chave Loja,Razão Social,Nome da Loja,CNPJ,Filial,Controle,Municipio,DDD,Telefone,Email Contato\n"+
			"777.0,Empresa LTDA,Loja Z,1234567.0,1,95,Feira,75,999998888,a@b.com\n"+
			",,,,,,,,,\n")

	got := TrainingStores(recs, tbl)
	require.Len(t, got, 1)
	assert.Equal(t, "777", got[0].Chave)
	assert.Equal(t, "01234567000195", got[0].CNPJ)
	assert.Equal(t, "a@b.com", got[0].Email)
}

func TestBuildCNPJ(t *testing.T) {
	assert.Equal(t, "12345678000195", BuildCNPJ("12345678", "0001", "95"))
	assert.Equal(t, "00000001000100", BuildCNPJ("1", "1", ""))
	assert.Equal(t, "", BuildCNPJ("", "1", "1"))
}

func TestLojaImports(t *testing.T) {
	recs, tbl := decode(t, "lojas",
		"chave_loja;nome_expresso;ag_pacb\n"+
			" 12 3 ;Loja A;0001 - 55\n"+
			";Loja sem chave;0001/1\n"+
			"9;Loja B;0002/66\n")

	got, skipped := LojaImports(recs, tbl)
	assert.Equal(t, 1, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, &LojaImport{Chave: "123", NomeExpresso: "Loja A", Agencia: "0001", Pacb: "55"}, got[0])
	assert.Equal(t, "0002", got[1].Agencia)
	assert.Equal(t, "66", got[1].Pacb)
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "1234", cellText("1234.0"))
	assert.Equal(t, "12.5", cellText("12.5"))
	assert.Equal(t, "Ag. Centro", cellText(" Ag. Centro "))
	assert.Equal(t, "a@b.com", cellText("a@b.com"))
}
