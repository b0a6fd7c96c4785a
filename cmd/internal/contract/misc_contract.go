package contract

type CompanyResponse struct {
	CNPJ               string             `json:"cnpj"`
	CNPJFormatado      string             `json:"cnpjFormatado"`
	RazaoSocial        string             `json:"razaoSocial"`
	NomeFantasia       string             `json:"nomeFantasia"`
	Porte              string             `json:"porte"`
	InicioAtividade    string             `json:"inicioAtividade"`
	AtividadePrincipal string             `json:"atividadePrincipal"`
	Situacao           string             `json:"situacao"`
	MotivoSituacao     string             `json:"motivoSituacao"`
	DataSituacao       string             `json:"dataSituacao"`
	Ativa              bool               `json:"ativa"`
	Municipio          string             `json:"municipio"`
	UF                 string             `json:"uf"`
	CEP                string             `json:"cep"`
	Telefone           string             `json:"telefone"`
	Email              string             `json:"email"`
	Socios             []*PartnerResponse `json:"socios"`
	Cached             bool               `json:"cached"`
}

type PartnerResponse struct {
	Nome         string `json:"nome"`
	Qualificacao string `json:"qualificacao"`
	FaixaEtaria  string `json:"faixaEtaria"`
}

type DatasetResponse struct {
	Dataset    string `json:"dataset"`
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	SizeLabel  string `json:"sizeLabel"`
	Rows       int    `json:"rows"`
	UploadedBy string `json:"uploadedBy"`
	UploadedAt string `json:"uploadedAt"`
}

type EnvCheckResponse struct {
	HasResendAPIKey bool `json:"has_RESEND_API_KEY"`
	HasFromEmail    bool `json:"has_FROM_EMAIL"`
	HasMailTo       bool `json:"has_MAIL_TO"`
}

type BaixaRequest struct {
	AssuntoTipo      string `json:"assuntoTipo"`
	NomeExpresso     string `json:"nomeExpresso"`
	Chave            string `json:"chave"`
	Agencia          string `json:"agencia"`
	Pacb             string `json:"pacb"`
	Motivo           string `json:"motivo"`
	EmailGerente     string `json:"emailGerente"`
	SolicitanteEmail string `json:"solicitanteEmail"`
	SolicitanteNome  string `json:"solicitanteNome"`
}

type BaixaResponse struct {
	Ok bool   `json:"ok"`
	ID string `json:"id"`
}
