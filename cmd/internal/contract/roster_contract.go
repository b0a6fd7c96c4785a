package contract

type RosterQuery struct {
	Q         string `query:"q"`
	Agencia   string `query:"agencia"`
	Municipio string `query:"municipio"`
	Status    string `query:"status" validate:"omitempty,oneof=transacional treinado outro"`
	Cert      string `query:"cert" validate:"omitempty,oneof=nao ok vencida"`
	Trx       string `query:"trx" validate:"omitempty,oneof=0 1-199 200+"`
}

type RosterItem struct {
	Chave           string  `json:"chave"`
	Nome            string  `json:"nome"`
	Municipio       string  `json:"municipio"`
	Agencia         string  `json:"agencia"`
	Pacb            string  `json:"pacb"`
	Status          string  `json:"status"`
	StatusBucket    string  `json:"statusBucket"`
	Trx             float64 `json:"trx"`
	TrxRange        string  `json:"trxRange"`
	Certificacao    string  `json:"certificacao"`
	CertStatus      string  `json:"certStatus"`
	Bloqueado       bool    `json:"bloqueado"`
	TreinadorEmail  string  `json:"treinadorEmail,omitempty"`
	TreinamentoStat string  `json:"treinamentoStatus,omitempty"`
}

type RosterSummary struct {
	Total          int `json:"total"`
	Transacionando int `json:"transacionando"`
	Treinados      int `json:"treinados"`
	SemCert        int `json:"semCert"`
	CertVencida    int `json:"certVencida"`
}

type GeralResponse struct {
	Items    []*RosterItem `json:"items"`
	Summary  RosterSummary `json:"summary"`
	Agencias []string      `json:"agencias"`
}

type RosterListResponse struct {
	Items      []*RosterItem `json:"items"`
	Total      int           `json:"total"`
	Agencias   []string      `json:"agencias"`
	Municipios []string      `json:"municipios,omitempty"`
}

type CertAttentionItem struct {
	RosterItem
	Vencimento string `json:"vencimento"`
	Classe     string `json:"classe"`
	Mensagem   string `json:"mensagem"`
}

type CertAttentionResponse struct {
	Vencidas   []*CertAttentionItem `json:"vencidas"`
	AVencer    []*CertAttentionItem `json:"aVencer"`
	Referencia string               `json:"referencia"`
}

type MicrosseguroItem struct {
	Chave      string  `json:"chave"`
	Expresso   string  `json:"expresso"`
	Agencia    string  `json:"agencia"`
	Supervisao string  `json:"supervisao"`
	Vendas2026 float64 `json:"vendas2026"`
	LiberadoEm string  `json:"liberadoEm"`
}

type MicrosseguroResponse struct {
	Items []*MicrosseguroItem `json:"items"`
	Shown int                 `json:"shown"`
	Total int                 `json:"total"`
}

type CertificateItem struct {
	CNPJ           string `json:"cnpj"`
	ChaveLoja      string `json:"chaveLoja"`
	Correspondente string `json:"correspondente"`
	CPF            string `json:"cpf"`
	Nome           string `json:"nome"`
	StatusProva    string `json:"statusProva"`
	DataRealizacao string `json:"dataRealizacao"`
	Tone           string `json:"tone"`
	Mensagem       string `json:"mensagem"`
}

type CertificateResponse struct {
	Items []*CertificateItem `json:"items"`
	Shown int                `json:"shown"`
	Total int                `json:"total"`
}
