package minhareceita

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treinoexpresso/cmd/internal/domain/entity"
)

func TestGetByCNPJ(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/11222333000181":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"cnpj": "11222333000181",
				"razao_social": "EXPRESSO LTDA",
				"descricao_situacao_cadastral": "BAIXADA",
				"municipio": "SALVADOR",
				"email": " Contato@Expresso.com ",
				"qsa": [{"nome_socio": "ANA"}, {"nome_socio": "ANA"}, {"nome_socio": "BRUNO"}]
			}`))
		case "/00000000000191":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	company, err := client.GetByCNPJ(context.Background(), "11222333000181")
	require.NoError(t, err)
	assert.Equal(t, "EXPRESSO LTDA", company.RazaoSocial)
	assert.Equal(t, entity.StatusClosed, company.Situacao)
	assert.False(t, company.Operating())
	assert.Equal(t, "contato@expresso.com", company.Email)
	assert.Len(t, company.Partners, 2)

	_, err = client.GetByCNPJ(context.Background(), "00000000000191")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.GetByCNPJ(context.Background(), "99999999999999")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
