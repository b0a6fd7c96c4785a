package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/database/repository"
	"treinoexpresso/cmd/internal/utils/apierror"
)

func TestDatasetUpload(t *testing.T) {
	f := newFixture(t)
	svc := NewDatasetService(repository.NewDatasetRepository(f.db), f.store, f.policy)
	ctx := context.Background()
	good := &contract.UploadFile{Name: "banco.csv", Data: []byte(rosterCSV)}

	_, err := svc.Upload(ctx, f.ana, DatasetRoster, good)
	requireCode(t, http.StatusForbidden, err)

	_, err = svc.Upload(ctx, f.admin, "planilha-nova", good)
	requireCode(t, http.StatusNotFound, err)

	_, err = svc.Upload(ctx, f.admin, DatasetRoster, nil)
	requireCode(t, http.StatusBadRequest, err)

	_, err = svc.Upload(ctx, f.admin, DatasetRoster, &contract.UploadFile{Name: "banco.pdf", Data: pdfBytes})
	requireCode(t, http.StatusUnsupportedMediaType, err)

	resp, err := svc.Upload(ctx, f.admin, DatasetRoster, good)
	require.Nil(t, err)
	assert.Equal(t, 6, resp.Rows)
	assert.Equal(t, "base-lojas/banco.csv", resp.Path)
	assert.Equal(t, f.admin.Email, resp.UploadedBy)
	assert.NotEmpty(t, resp.SizeLabel)
	assert.Equal(t, []string{"base-lojas/banco.csv"}, f.store.Keys())

	_, err = svc.Upload(ctx, f.admin, DatasetRoster, &contract.UploadFile{Name: "banco.csv", Data: []byte("chave_lojx;nome\n1;Loja\n")})
	requireCode(t, http.StatusBadRequest, err)
	assert.Contains(t, err.(*apierror.APIError).Message, "chave_loja")

	stored, derr := f.store.Download(ctx, "base-lojas/banco.csv")
	require.NoError(t, derr)
	assert.Equal(t, rosterCSV, string(stored), "a rejected upload keeps the previous file")

	list, err := svc.List()
	require.Nil(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, DatasetRoster, list[0].Dataset)
}

func TestDatasetReaderErrors(t *testing.T) {
	f := newFixture(t)
	reader := f.reader()
	ds, ok := LookupDataset(DatasetMicrosseguro)
	require.True(t, ok)

	_, err := reader.Read(context.Background(), ds)
	requireCode(t, http.StatusNotFound, err)

	f.store.Put(ds.Path, []byte(" \n\n "))
	_, err = reader.Read(context.Background(), ds)
	requireCode(t, http.StatusInternalServerError, err)
}
