package entity

type RegStatus string

const (
	StatusActive    RegStatus = "ATIVA"
	StatusClosed    RegStatus = "BAIXADA"
	StatusSuspended RegStatus = "SUSPENSA"
	StatusUnfit     RegStatus = "INAPTA"
	StatusNull      RegStatus = "NULA"
	StatusUnknown   RegStatus = "DESCONHECIDA"
)

// Company caches one minhareceita lookup.
type Company struct {
	CNPJ               string `gorm:"primaryKey;column:cnpj"`
	RazaoSocial        string
	NomeFantasia       string
	Porte              string
	InicioAtividade    string
	Situacao           RegStatus
	MotivoSituacao     string
	DataSituacao       string
	AtividadePrincipal string
	Municipio          string
	UF                 string
	CEP                string
	Telefone           string
	Email              string

	// Found is false for CNPJs the registry answered 404 for, so they are not queried again
	// until the row expires.
	Found    bool  `gorm:"not null"`
	CachedAt int64 `gorm:"not null;index;autoUpdateTime:false"`

	Partners []*CompanyPartner `gorm:"foreignKey:CompanyCNPJ;references:CNPJ;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type CompanyPartner struct {
	ID           int    `gorm:"primaryKey"`
	CompanyCNPJ  string `gorm:"uniqueIndex:idx_company_partner_cnpj_name;index"`
	Nome         string `gorm:"uniqueIndex:idx_company_partner_cnpj_name"`
	Qualificacao string
	FaixaEtaria  string
}

// Operating is true only for companies whose registration is active.
func (c *Company) Operating() bool {
	return c.Situacao == StatusActive
}
