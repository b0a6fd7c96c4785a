package service

import (
	"context"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/records"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/view"
)

// DefaultCertificateService looks people up in the certification CSV. Nothing is persisted.
type DefaultCertificateService struct {
	Reader *DatasetReader
}

func NewCertificateService(reader *DatasetReader) *DefaultCertificateService {
	return &DefaultCertificateService{Reader: reader}
}

func (s *DefaultCertificateService) Search(ctx context.Context, q string) (*contract.CertificateResponse, apierror.ErrorResponse) {
	ds, _ := LookupDataset(DatasetCertificados)
	recs, err := s.Reader.Read(ctx, ds)
	if err != nil {
		return nil, err
	}

	all := records.CertificateRecords(recs, ds.AliasTable())
	matched := make([]*records.CertificateRecord, 0, len(all))
	for _, r := range all {
		if isBlank(q) ||
			matchesTerm(q, r.CNPJ, r.ChaveLoja, r.Correspondente, r.CPF, r.Nome, r.StatusProva, r.DataRaw) ||
			matchesDigits(q, r.CPF, r.CNPJ) {
			matched = append(matched, r)
		}
	}

	shown := matched
	if isBlank(q) {
		shown = limitSlice(matched, DefaultListLimit)
	}

	items := make([]*contract.CertificateItem, len(shown))
	for i, r := range shown {
		items[i] = &contract.CertificateItem{
			CNPJ:           view.FormatCNPJ(r.CNPJ),
			ChaveLoja:      r.ChaveLoja,
			Correspondente: r.Correspondente,
			CPF:            view.FormatCPF(r.CPF),
			Nome:           r.Nome,
			StatusProva:    r.StatusProva,
			DataRealizacao: view.FormatDateOr(r.Data, r.DataRaw),
			Tone:           string(view.StatusTone(r.StatusProva)),
			Mensagem:       view.CandidateMessage(r),
		}
	}
	return &contract.CertificateResponse{Items: items, Shown: len(items), Total: len(matched)}, nil
}
