package service

import (
	"bytes"
	"context"
	"image/color"
	"net/http"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/database/repository"
	"treinoexpresso/cmd/internal/domain/entity"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(640, 480, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func newPrestacaoService(t *testing.T) (*DefaultPrestacaoService, *fixture) {
	t.Helper()
	f := newFixture(t)
	return NewPrestacaoService(repository.NewPrestacaoRepository(f.db), f.store, f.policy, f.clock, f.validate), f
}

func viagem() *contract.CreatePrestacaoRequest {
	return &contract.CreatePrestacaoRequest{
		DataViagem:  "2025-06-10",
		Destino:     "Feira de Santana",
		KmInicial:   100,
		KmFinal:     180.5,
		Gasolina:    50,
		Alimentacao: 30,
	}
}

func TestPrestacaoTotalsAndPaymentToggle(t *testing.T) {
	svc, f := newPrestacaoService(t)

	created, isNew, err := svc.Create(f.ana, "", viagem())
	require.Nil(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "80.00", created.TotalViagem)
	assert.Equal(t, "PENDENTE", created.StatusPagamento)
	assert.Equal(t, 80.5, created.KmRodado)
	assert.Equal(t, "10/06/2025", created.DataViagemLabel)
	assert.Equal(t, "Ana", created.UserNome)
	assert.Empty(t, created.PagoBy)

	_, err = svc.TogglePagamento(f.ana, created.ID)
	requireCode(t, http.StatusForbidden, err)

	paid, err := svc.TogglePagamento(f.admin, created.ID)
	require.Nil(t, err)
	assert.Equal(t, "PAGA", paid.StatusPagamento)
	assert.Equal(t, f.admin.Email, paid.PagoBy)
	assert.NotEmpty(t, paid.PagoAt)

	stored, err := svc.Get(f.ana, created.ID)
	require.Nil(t, err)
	assert.Equal(t, "PAGA", stored.StatusPagamento)
	assert.Equal(t, f.admin.Email, stored.PagoBy)

	reverted, err := svc.TogglePagamento(f.admin, created.ID)
	require.Nil(t, err)
	assert.Equal(t, "PENDENTE", reverted.StatusPagamento)
	assert.Empty(t, reverted.PagoBy)
	assert.Empty(t, reverted.PagoAt)

	stored, err = svc.Get(f.ana, created.ID)
	require.Nil(t, err)
	assert.Empty(t, stored.PagoBy)
	assert.Empty(t, stored.PagoAt)

	_, err = svc.TogglePagamento(f.admin, 424242)
	requireCode(t, http.StatusNotFound, err)
}

func TestPrestacaoValidation(t *testing.T) {
	svc, f := newPrestacaoService(t)

	req := viagem()
	req.KmFinal = 50
	_, _, err := svc.Create(f.ana, "", req)
	requireCode(t, http.StatusBadRequest, err)

	req = viagem()
	req.OutrasDespesas = 12
	_, _, err = svc.Create(f.ana, "", req)
	requireCode(t, http.StatusBadRequest, err)

	req.OutrasDescricao = "pedágio"
	created, _, err := svc.Create(f.ana, "", req)
	require.Nil(t, err)
	assert.Equal(t, "92.00", created.TotalViagem)

	req = viagem()
	req.DataViagem = "10/06/2025"
	_, _, err = svc.Create(f.ana, "", req)
	requireCode(t, http.StatusBadRequest, err)

	_, _, err = svc.Create(f.ana, "not-a-uuid", viagem())
	requireCode(t, http.StatusBadRequest, err)
}

func TestPrestacaoIdempotentSubmit(t *testing.T) {
	svc, f := newPrestacaoService(t)
	key := uuid.NewString()

	first, isNew, err := svc.Create(f.ana, key, viagem())
	require.Nil(t, err)
	assert.True(t, isNew)

	again, isNew, err := svc.Create(f.ana, key, viagem())
	require.Nil(t, err)
	assert.False(t, isNew)
	assert.Equal(t, first.ID, again.ID)

	other, isNew, err := svc.Create(f.bruno, key, viagem())
	require.Nil(t, err)
	assert.True(t, isNew, "keys are scoped per user")
	assert.NotEqual(t, first.ID, other.ID)

	own, err := svc.ListOwn(f.ana)
	require.Nil(t, err)
	assert.Equal(t, 1, own.Total)
}

func TestPrestacaoVisibility(t *testing.T) {
	svc, f := newPrestacaoService(t)

	mine, _, err := svc.Create(f.ana, "", viagem())
	require.Nil(t, err)
	req := viagem()
	req.Destino = "Ilhéus"
	_, _, err = svc.Create(f.bruno, "", req)
	require.Nil(t, err)

	_, err = svc.Get(f.bruno, mine.ID)
	requireCode(t, http.StatusNotFound, err)

	_, err = svc.Get(f.admin, mine.ID)
	assert.Nil(t, err)

	_, err = svc.ListAll(f.ana, &contract.PrestacaoListQuery{})
	requireCode(t, http.StatusForbidden, err)

	all, err := svc.ListAll(f.admin, &contract.PrestacaoListQuery{})
	require.Nil(t, err)
	assert.Equal(t, 2, all.Total)

	filtered, err := svc.ListAll(f.admin, &contract.PrestacaoListQuery{Q: "ilheus"})
	require.Nil(t, err)
	require.Equal(t, 1, filtered.Total)
	assert.Equal(t, f.bruno.Email, filtered.Items[0].UserEmail)

	paid, err := svc.ListAll(f.admin, &contract.PrestacaoListQuery{Status: "PAGA"})
	require.Nil(t, err)
	assert.Zero(t, paid.Total)

	_, err = svc.ListAll(f.admin, &contract.PrestacaoListQuery{Status: "ATRASADA"})
	requireCode(t, http.StatusBadRequest, err)

	err = svc.Delete(context.Background(), f.bruno, mine.ID)
	requireCode(t, http.StatusNotFound, err)
}

func TestComprovantesUploadAndCascadeDelete(t *testing.T) {
	svc, f := newPrestacaoService(t)
	ctx := context.Background()

	prest, _, err := svc.Create(f.ana, "", viagem())
	require.Nil(t, err)

	files := []*contract.UploadFile{
		{Name: "nota.png", Data: pngBytes(t)},
		{Name: "recibo.pdf", Data: pdfBytes},
	}

	_, err = svc.UploadComprovantes(ctx, f.admin, prest.ID, files)
	requireCode(t, http.StatusForbidden, err)

	resp, err := svc.UploadComprovantes(ctx, f.ana, prest.ID, files)
	require.Nil(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "nota.png", resp.Files[0].Name)
	assert.NotEmpty(t, resp.Files[0].ThumbURL)
	assert.Equal(t, "recibo.pdf", resp.Files[1].Name)
	assert.Empty(t, resp.Files[1].ThumbURL)
	assert.True(t, strings.HasPrefix(resp.Files[1].URL, "https://signed.test/prestacoes/2/"))

	keys := f.store.Keys()
	require.Len(t, keys, 3)
	for _, k := range keys {
		if strings.HasSuffix(k, thumbnailSuffix) {
			assert.Equal(t, "image/jpeg", f.store.ContentTypeOf(k))
		}
	}

	listed, err := svc.Comprovantes(ctx, f.admin, prest.ID)
	require.Nil(t, err)
	assert.Equal(t, 2, listed.Total)

	_, err = svc.Comprovantes(ctx, f.bruno, prest.ID)
	requireCode(t, http.StatusNotFound, err)

	require.Nil(t, svc.Delete(ctx, f.ana, prest.ID))

	after, err := svc.Comprovantes(ctx, f.ana, prest.ID)
	require.Nil(t, err)
	assert.Zero(t, after.Total)
	assert.Empty(t, after.Files)
	assert.Empty(t, f.store.Keys())

	_, err = svc.Get(f.ana, prest.ID)
	requireCode(t, http.StatusNotFound, err)
}

func TestComprovantesRejections(t *testing.T) {
	svc, f := newPrestacaoService(t)
	ctx := context.Background()

	prest, _, err := svc.Create(f.ana, "", viagem())
	require.Nil(t, err)

	_, err = svc.UploadComprovantes(ctx, f.ana, prest.ID, nil)
	requireCode(t, http.StatusBadRequest, err)

	_, err = svc.UploadComprovantes(ctx, f.ana, prest.ID, []*contract.UploadFile{{Name: "notas.txt", Data: []byte("só texto")}})
	requireCode(t, http.StatusUnsupportedMediaType, err)

	big := make([]byte, MaxComprovanteSize+1)
	copy(big, pdfBytes)
	_, err = svc.UploadComprovantes(ctx, f.ana, prest.ID, []*contract.UploadFile{{Name: "grande.pdf", Data: big}})
	requireCode(t, http.StatusRequestEntityTooLarge, err)

	batch := make([]*contract.UploadFile, 6)
	for i := range batch {
		batch[i] = &contract.UploadFile{Name: "recibo.pdf", Data: pdfBytes}
	}
	_, err = svc.UploadComprovantes(ctx, f.ana, prest.ID, batch)
	require.Nil(t, err)

	_, err = svc.UploadComprovantes(ctx, f.ana, prest.ID, batch[:5])
	requireCode(t, http.StatusBadRequest, err)

	comps, err := svc.Comprovantes(ctx, f.ana, prest.ID)
	require.Nil(t, err)
	assert.Equal(t, 6, comps.Total)
	assert.Len(t, f.store.Keys(), 6)
}

func TestComprovantesOfUnknownReport(t *testing.T) {
	svc, f := newPrestacaoService(t)

	resp, err := svc.Comprovantes(context.Background(), f.ana, 99)
	require.Nil(t, err)
	assert.Zero(t, resp.Total)
	assert.NotNil(t, resp.Files)
}

func TestPrestacaoTotalOverride(t *testing.T) {
	p := &entity.Prestacao{Gasolina: 10.1, Alimentacao: 0.2}
	assert.Equal(t, "10.30", PrestacaoTotal(p).StringFixed(2))

	p.TotalViagem = ptr(99.9)
	assert.Equal(t, "99.90", PrestacaoTotal(p).StringFixed(2))
}
