package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMicrosseguroListIsCapped(t *testing.T) {
	f := newFixture(t)

	var b strings.Builder
	b.WriteString("Chave Loja,Correspondente,Cod Ag,Supervisão,Vendas 2026,Válido Des\n")
	for i := 0; i < DefaultListLimit+5; i++ {
		fmt.Fprintf(&b, "%d,Loja %d,0001,Sup A,%d,01/02/2026\n", 5000+i, i, i%4)
	}
	b.WriteString("9999,Mercearia São Jorge,0007,Sup B,3,liberado sob consulta\n")
	f.putDataset(t, DatasetMicrosseguro, b.String())

	svc := NewMicrosseguroService(f.reader())

	all, err := svc.Search(context.Background(), "")
	require.Nil(t, err)
	assert.Equal(t, DefaultListLimit, all.Shown)
	assert.Equal(t, DefaultListLimit+6, all.Total)
	assert.Len(t, all.Items, DefaultListLimit)
	assert.Equal(t, "01/02/2026", all.Items[0].LiberadoEm)

	found, err := svc.Search(context.Background(), "sao jorge")
	require.Nil(t, err)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, "9999", found.Items[0].Chave)
	assert.Equal(t, "liberado sob consulta", found.Items[0].LiberadoEm, "unparseable dates are shown as written")

	bySup, err := svc.Search(context.Background(), "sup a")
	require.Nil(t, err)
	assert.Equal(t, DefaultListLimit+5, bySup.Shown, "a search term lifts the cap")
}

func TestCertificateSearch(t *testing.T) {
	f := newFixture(t)
	f.putDataset(t, DatasetCertificados,
		"CNPJ;CHAVE_LOJA;CORRESPONDENTE;CPF CANDIDATO;NOME CANDIDATO;STATUS PROVA;DATA REALIZAÇÃO\n"+
			"11222333000181;777;Mercadinho Sol;123.456.789-09;Rita Souza;APROVADO;05/03/2024\n"+
			"11444777000161;888;Farmácia Lua;98765432100;Caio Lima;REPROVADO;2024-04-10\n")

	svc := NewCertificateService(f.reader())
	ctx := context.Background()

	all, err := svc.Search(ctx, "")
	require.Nil(t, err)
	assert.Equal(t, 2, all.Total)

	byCPF, err := svc.Search(ctx, "12345678909")
	require.Nil(t, err)
	require.Equal(t, 1, byCPF.Total)
	hit := byCPF.Items[0]
	assert.Equal(t, "Rita Souza", hit.Nome)
	assert.Equal(t, "123.456.789-09", hit.CPF)
	assert.Equal(t, "11.222.333/0001-81", hit.CNPJ)
	assert.Equal(t, "05/03/2024", hit.DataRealizacao)
	assert.NotEmpty(t, hit.Mensagem)

	byCNPJ, err := svc.Search(ctx, "11.444.777/0001-61")
	require.Nil(t, err)
	require.Equal(t, 1, byCNPJ.Total)
	assert.Equal(t, "Caio Lima", byCNPJ.Items[0].Nome)

	byName, err := svc.Search(ctx, "farmacia")
	require.Nil(t, err)
	assert.Equal(t, 1, byName.Total)

	none, err := svc.Search(ctx, "ninguém")
	require.Nil(t, err)
	assert.Zero(t, none.Total)
	assert.NotNil(t, none.Items)
}
