package service

import (
	"context"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/records"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/view"
)

// DefaultListLimit caps lists served without a search term.
const DefaultListLimit = 300

type DefaultMicrosseguroService struct {
	Reader *DatasetReader
}

func NewMicrosseguroService(reader *DatasetReader) *DefaultMicrosseguroService {
	return &DefaultMicrosseguroService{Reader: reader}
}

func (s *DefaultMicrosseguroService) Search(ctx context.Context, q string) (*contract.MicrosseguroResponse, apierror.ErrorResponse) {
	ds, _ := LookupDataset(DatasetMicrosseguro)
	recs, err := s.Reader.Read(ctx, ds)
	if err != nil {
		return nil, err
	}

	rows := records.MicrosseguroRows(recs, ds.AliasTable())
	matched := make([]*records.MicrosseguroRow, 0, len(rows))
	for _, r := range rows {
		if matchesTerm(q, r.Chave, r.Expresso, r.Agencia, r.Supervisao) {
			matched = append(matched, r)
		}
	}

	shown := matched
	if isBlank(q) {
		shown = limitSlice(matched, DefaultListLimit)
	}

	items := make([]*contract.MicrosseguroItem, len(shown))
	for i, r := range shown {
		items[i] = &contract.MicrosseguroItem{
			Chave:      r.Chave,
			Expresso:   r.Expresso,
			Agencia:    r.Agencia,
			Supervisao: r.Supervisao,
			Vendas2026: r.Vendas2026,
			LiberadoEm: view.FormatDateOr(r.LiberadoEm, r.LiberadoRaw),
		}
	}
	return &contract.MicrosseguroResponse{Items: items, Shown: len(items), Total: len(matched)}, nil
}
