package minhareceita

import (
	"strings"

	"treinoexpresso/cmd/internal/domain/entity"
)

type companyResponse struct {
	CNPJ                     string `json:"cnpj"`
	RazaoSocial              string `json:"razao_social"`
	NomeFantasia             string `json:"nome_fantasia"`
	Porte                    string `json:"porte"`
	InicioAtividade          string `json:"data_inicio_atividade"`
	RegistrationStatus       string `json:"descricao_situacao_cadastral"`
	RegistrationStatusReason string `json:"descricao_motivo_situacao_cadastral"`
	RegistrationStatusDate   string `json:"data_situacao_cadastral"`
	AtividadePrincipal       string `json:"cnae_fiscal_descricao"`
	Municipio                string `json:"municipio"`
	UF                       string `json:"uf"`
	CEP                      string `json:"cep"`
	Telefone                 string `json:"ddd_telefone_1"`
	Email                    string `json:"email"`

	Partners []*partnerResponse `json:"qsa"`
}

type partnerResponse struct {
	Name     string `json:"nome_socio"`
	Role     string `json:"qualificacao_socio"`
	AgeRange string `json:"faixa_etaria"`
}

func (c *companyResponse) ToDomain() *entity.Company {
	partners := make([]*entity.CompanyPartner, 0, len(c.Partners))
	seen := make(map[string]bool, len(c.Partners))
	for _, p := range c.Partners {
		if p == nil || seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		partners = append(partners, &entity.CompanyPartner{
			CompanyCNPJ:  c.CNPJ,
			Nome:         p.Name,
			Qualificacao: p.Role,
			FaixaEtaria:  p.AgeRange,
		})
	}

	return &entity.Company{
		CNPJ:               c.CNPJ,
		RazaoSocial:        c.RazaoSocial,
		NomeFantasia:       c.NomeFantasia,
		Porte:              c.Porte,
		InicioAtividade:    c.InicioAtividade,
		Situacao:           translateStatus(c.RegistrationStatus),
		MotivoSituacao:     c.RegistrationStatusReason,
		DataSituacao:       c.RegistrationStatusDate,
		AtividadePrincipal: c.AtividadePrincipal,
		Municipio:          c.Municipio,
		UF:                 c.UF,
		CEP:                c.CEP,
		Telefone:           strings.TrimSpace(c.Telefone),
		Email:              strings.ToLower(strings.TrimSpace(c.Email)),
		Partners:           partners,
	}
}

func translateStatus(status string) entity.RegStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "ATIVA":
		return entity.StatusActive
	case "BAIXADA":
		return entity.StatusClosed
	case "SUSPENSA":
		return entity.StatusSuspended
	case "INAPTA":
		return entity.StatusUnfit
	case "NULA":
		return entity.StatusNull
	default:
		return entity.StatusUnknown
	}
}
