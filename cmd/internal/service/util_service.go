package service

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/infrastructure/minhareceita"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/view"
)

type CompanyRepository interface {
	Save(company *entity.Company) error
	FindByCNPJ(cnpj string) (*entity.Company, error)
}

type CompanyRegistry interface {
	GetByCNPJ(ctx context.Context, cnpj string) (*entity.Company, error)
}

// MailEnv records which mail variables were set in the environment.
type MailEnv struct {
	ResendAPIKey bool
	FromEmail    bool
	MailTo       bool
}

type MiscService struct {
	Registry    CompanyRegistry
	CompanyRepo CompanyRepository
	Env         MailEnv
}

func NewMiscService(registry CompanyRegistry, companyRepo CompanyRepository, env MailEnv) *MiscService {
	return &MiscService{
		Registry:    registry,
		CompanyRepo: companyRepo,
		Env:         env,
	}
}

func (u *MiscService) GetCompanyByCNPJ(ctx context.Context, rawCNPJ string) (*contract.CompanyResponse, apierror.ErrorResponse) {
	cnpj := utils.NormalizeCNPJ(rawCNPJ)
	if !utils.IsCNPJValid(cnpj) {
		return nil, apierror.InvalidCNPJError
	}

	company, fromCache, err := u.findCompany(ctx, cnpj)
	if err != nil {
		return nil, err
	}
	return toCompanyResp(company, fromCache), nil
}

// EnvCheck reports which mail variables are set, without revealing them.
// Defaults and the chosen mail provider do not count.
func (u *MiscService) EnvCheck() *contract.EnvCheckResponse {
	return &contract.EnvCheckResponse{
		HasResendAPIKey: u.Env.ResendAPIKey,
		HasFromEmail:    u.Env.FromEmail,
		HasMailTo:       u.Env.MailTo,
	}
}

// findCompany is a utility function that will try to resolve the CNPJ into a company.
// It returns the company, a boolean (true = cached, false = API fetch) and a possible error response.
func (u *MiscService) findCompany(ctx context.Context, cnpj string) (*entity.Company, bool, apierror.ErrorResponse) {
	cached, err := u.CompanyRepo.FindByCNPJ(cnpj)
	if err != nil {
		log.Errorf("failed to find company by cnpj %s: %v", cnpj, err)
		return nil, false, apierror.InternalServerError
	}

	if cached != nil {
		if !cached.Found {
			return nil, false, apierror.NotFoundError
		}
		return cached, true, nil
	}

	apiCompany, apierr := u.fetchFromAPI(ctx, cnpj)
	if apierr != nil {
		return nil, false, apierr
	}

	if err := u.CompanyRepo.Save(apiCompany); err != nil {
		// Only the cache failed; the lookup itself succeeded.
		log.Errorf("failed to save company cache for CNPJ %s: %v", cnpj, err)
	}
	return apiCompany, false, nil
}

func (u *MiscService) fetchFromAPI(ctx context.Context, cnpj string) (*entity.Company, apierror.ErrorResponse) {
	company, err := u.Registry.GetByCNPJ(ctx, cnpj)
	if err != nil {
		if errors.Is(err, minhareceita.ErrNotFound) {
			u.cacheNegativeResult(cnpj)
			return nil, apierror.NotFoundError
		}
		log.Errorf("failed to fetch company by cnpj %s: %v", cnpj, err)
		return nil, apierror.InternalServerError
	}

	company.Found = true
	company.CachedAt = utils.NowUTC()
	return company, nil
}

func (u *MiscService) cacheNegativeResult(cnpj string) {
	emptyCompany := &entity.Company{
		CNPJ:     cnpj,
		Situacao: entity.StatusUnknown,
		Found:    false,
		CachedAt: utils.NowUTC(),
	}
	if err := u.CompanyRepo.Save(emptyCompany); err != nil {
		log.Warnf("failed to cache missing CNPJ %s: %v", cnpj, err)
	}
}

func toCompanyResp(c *entity.Company, cached bool) *contract.CompanyResponse {
	return &contract.CompanyResponse{
		CNPJ:               c.CNPJ,
		CNPJFormatado:      view.FormatCNPJ(c.CNPJ),
		RazaoSocial:        c.RazaoSocial,
		NomeFantasia:       c.NomeFantasia,
		Porte:              c.Porte,
		InicioAtividade:    c.InicioAtividade,
		AtividadePrincipal: c.AtividadePrincipal,
		Situacao:           string(c.Situacao),
		MotivoSituacao:     c.MotivoSituacao,
		DataSituacao:       c.DataSituacao,
		Ativa:              c.Operating(),
		Municipio:          c.Municipio,
		UF:                 c.UF,
		CEP:                c.CEP,
		Telefone:           c.Telefone,
		Email:              c.Email,
		Socios:             toPartnersResponse(c.Partners),
		Cached:             cached,
	}
}

func toPartnersResponse(ps []*entity.CompanyPartner) []*contract.PartnerResponse {
	partners := make([]*contract.PartnerResponse, len(ps))
	for i, p := range ps {
		partners[i] = &contract.PartnerResponse{
			Nome:         p.Nome,
			Qualificacao: p.Qualificacao,
			FaixaEtaria:  p.FaixaEtaria,
		}
	}
	return partners
}
