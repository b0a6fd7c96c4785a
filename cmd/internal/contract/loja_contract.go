package contract

type LojaResponse struct {
	ChaveLoja    string `json:"chaveLoja"`
	NomeExpresso string `json:"nomeExpresso"`
	Agencia      string `json:"agencia"`
	Pacb         string `json:"pacb"`
	UpdatedAt    string `json:"updatedAt"`
	UpdatedBy    string `json:"updatedBy,omitempty"`
}

type LojaImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type ArquivoResponse struct {
	ID         int64  `json:"id,string"`
	Titulo     string `json:"titulo"`
	FileName   string `json:"fileName"`
	Size       string `json:"size"`
	UploadedBy string `json:"uploadedBy"`
	UploadedAt string `json:"uploadedAt"`
}

type CreateArquivoRequest struct {
	Titulo string `form:"titulo" validate:"required,notblank,max=200"`
}
