package service

import (
	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/domain/policy"
	"treinoexpresso/cmd/internal/ingest"
	"treinoexpresso/cmd/internal/records"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
)

const LojaSearchLimit = 50

type LojaRepository interface {
	FindByChave(chave string) (*entity.Loja, error)
	Search(q string, limit int) ([]*entity.Loja, error)
	UpsertBatches(lojas []*entity.Loja) (int, error)
}

type DefaultLojaService struct {
	LojaRepo LojaRepository
	Policy   *policy.AccessPolicy
}

func NewLojaService(repo LojaRepository, pol *policy.AccessPolicy) *DefaultLojaService {
	return &DefaultLojaService{LojaRepo: repo, Policy: pol}
}

// Import upserts the stores of an uploaded CSV into the autofill directory.
func (s *DefaultLojaService) Import(actor *entity.User, file *contract.UploadFile) (*contract.LojaImportResponse, apierror.ErrorResponse) {
	if err := s.Policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	if file == nil || len(file.Data) == 0 {
		return nil, apierror.MissingFileError
	}

	if _, ok := utils.CheckFileExt(file.Name, []string{"csv"}); !ok {
		return nil, apierror.InvalidMediaTypeError
	}

	raw, err := ingest.Decode(file.Data)
	if err != nil {
		log.Warnf("rejected lojas import %q: %v", file.Name, err)
		return nil, apierror.UnreadableFileError
	}

	table := ingest.MustAliasTable("lojas")
	recs, cols := table.Apply(raw)
	if !cols.Found("chave") {
		return nil, apierror.NewMissingColumnError("chave_loja", cols.Hint("chave"))
	}

	rows, skipped := records.LojaImports(recs, table)
	now := utils.NowUTC()
	lojas := make([]*entity.Loja, len(rows))
	for i, r := range rows {
		lojas[i] = &entity.Loja{
			ChaveLoja:    r.Chave,
			NomeExpresso: r.NomeExpresso,
			Agencia:      r.Agencia,
			Pacb:         r.Pacb,
			UpdatedAt:    now,
			UpdatedBy:    actor.Email,
		}
	}

	written, err := s.LojaRepo.UpsertBatches(dedupeLojas(lojas))
	if err != nil {
		log.Errorf("failed to import lojas (%d written before failure): %v", written, err)
		return nil, apierror.InternalServerError
	}

	log.Infof("%s imported %d lojas (%d skipped)", actor.Email, written, skipped)
	return &contract.LojaImportResponse{Imported: written, Skipped: skipped}, nil
}

func (s *DefaultLojaService) Get(chave string) (*contract.LojaResponse, apierror.ErrorResponse) {
	loja, err := s.LojaRepo.FindByChave(chave)
	if err != nil {
		log.Errorf("failed to fetch loja %s: %v", chave, err)
		return nil, apierror.InternalServerError
	}

	if loja == nil {
		return nil, apierror.NotFoundError
	}
	return toLojaResponse(loja), nil
}

func (s *DefaultLojaService) Search(q string) ([]*contract.LojaResponse, apierror.ErrorResponse) {
	lojas, err := s.LojaRepo.Search(q, LojaSearchLimit)
	if err != nil {
		log.Errorf("failed to search lojas: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.LojaResponse, len(lojas))
	for i, l := range lojas {
		resp[i] = toLojaResponse(l)
	}
	return resp, nil
}

// dedupeLojas keeps the last row of each key; one upsert statement cannot touch a key twice.
func dedupeLojas(lojas []*entity.Loja) []*entity.Loja {
	index := make(map[string]int, len(lojas))
	out := make([]*entity.Loja, 0, len(lojas))
	for _, l := range lojas {
		if i, ok := index[l.ChaveLoja]; ok {
			out[i] = l
			continue
		}
		index[l.ChaveLoja] = len(out)
		out = append(out, l)
	}
	return out
}

func toLojaResponse(l *entity.Loja) *contract.LojaResponse {
	return &contract.LojaResponse{
		ChaveLoja:    l.ChaveLoja,
		NomeExpresso: l.NomeExpresso,
		Agencia:      l.Agencia,
		Pacb:         l.Pacb,
		UpdatedAt:    utils.FormatEpoch(l.UpdatedAt),
		UpdatedBy:    l.UpdatedBy,
	}
}
