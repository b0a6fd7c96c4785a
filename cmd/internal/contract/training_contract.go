package contract

type TrainingStoreItem struct {
	Chave         string               `json:"chave"`
	RazaoSocial   string               `json:"razaoSocial"`
	NomeLoja      string               `json:"nomeLoja"`
	CNPJ          string               `json:"cnpj"`
	CNPJFormatado string               `json:"cnpjFormatado"`
	CodAgencia    string               `json:"codAgencia"`
	NomeAgencia   string               `json:"nomeAgencia"`
	Pacb          string               `json:"pacb"`
	Municipio     string               `json:"municipio"`
	Telefone      string               `json:"telefone"`
	WhatsApp      string               `json:"whatsapp,omitempty"`
	StatusTablet  string               `json:"statusTablet"`
	Contato       string               `json:"contato"`
	Email         string               `json:"email"`
	Agendamento   *AgendamentoResponse `json:"agendamento,omitempty"`
	Mensagem      string               `json:"mensagem"`
}

type TrainingListResponse struct {
	Items          []*TrainingStoreItem `json:"items"`
	Total          int                  `json:"total"`
	ListUploadedAt string               `json:"listUploadedAt,omitempty"`
}

type ScheduleRequest struct {
	// ScheduledAt is RFC3339; empty keeps the store assigned without a date.
	ScheduledAt string `json:"scheduledAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	NomeLoja    string `json:"nomeLoja" validate:"max=200"`
	RazaoSocial string `json:"razaoSocial" validate:"max=200"`
	Municipio   string `json:"municipio" validate:"max=120"`
	CNPJ        string `json:"cnpj" validate:"omitempty,max=18"`
}

type AgendamentoResponse struct {
	ChaveLoja      string `json:"chaveLoja"`
	NomeLoja       string `json:"nomeLoja"`
	RazaoSocial    string `json:"razaoSocial"`
	Municipio      string `json:"municipio"`
	CNPJ           string `json:"cnpj"`
	TrainerEmail   string `json:"trainerEmail"`
	ScheduledAt    string `json:"scheduledAt,omitempty"`
	ScheduledLabel string `json:"scheduledLabel"`
	Status         string `json:"status"`
	ListUploadedAt string `json:"listUploadedAt,omitempty"`
	ConcludedAt    string `json:"concludedAt,omitempty"`
	UpdatedAt      string `json:"updatedAt"`
	InCurrentList  *bool  `json:"inCurrentList,omitempty"`
}

type AgendaQuery struct {
	Month string `query:"month" validate:"omitempty,yyyymm"`
	Date  string `query:"date" validate:"omitempty,yyyymmdd"`
	Email string `query:"email" validate:"omitempty,email"`
	Q     string `query:"q"`
}

type AgendaResponse struct {
	Items []*AgendamentoResponse `json:"items"`
	Total int                    `json:"total"`
}
