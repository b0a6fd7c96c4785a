package contract

type CreatePrestacaoRequest struct {
	DataViagem      string  `json:"dataViagem" validate:"required,yyyymmdd"`
	Destino         string  `json:"destino" validate:"required,notblank,max=200"`
	KmInicial       float64 `json:"kmInicial" validate:"gte=0"`
	KmFinal         float64 `json:"kmFinal" validate:"gte=0"`
	Gasolina        float64 `json:"gasolina" validate:"gte=0"`
	Alimentacao     float64 `json:"alimentacao" validate:"gte=0"`
	Hospedagem      float64 `json:"hospedagem" validate:"gte=0"`
	OutrasDespesas  float64 `json:"outrasDespesas" validate:"gte=0"`
	OutrasDescricao string  `json:"outrasDescricao" validate:"max=500"`
}

type PrestacaoListQuery struct {
	Q      string `query:"q"`
	Status string `query:"status" validate:"omitempty,oneof=PENDENTE PAGA"`
}

type PrestacaoResponse struct {
	ID              int64   `json:"id,string"`
	UserID          int64   `json:"userId,string"`
	UserNome        string  `json:"userNome"`
	UserEmail       string  `json:"userEmail"`
	DataViagem      string  `json:"dataViagem"`
	DataViagemLabel string  `json:"dataViagemLabel"`
	Destino         string  `json:"destino"`
	KmInicial       float64 `json:"kmInicial"`
	KmFinal         float64 `json:"kmFinal"`
	KmRodado        float64 `json:"kmRodado"`
	Gasolina        string  `json:"gasolina"`
	Alimentacao     string  `json:"alimentacao"`
	Hospedagem      string  `json:"hospedagem"`
	OutrasDespesas  string  `json:"outrasDespesas"`
	OutrasDescricao string  `json:"outrasDescricao,omitempty"`
	TotalViagem     string  `json:"totalViagem"`
	TotalLabel      string  `json:"totalLabel"`
	StatusPagamento string  `json:"statusPagamento"`
	PagoBy          string  `json:"pagoBy,omitempty"`
	PagoAt          string  `json:"pagoAt,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

type PrestacaoListResponse struct {
	Items []*PrestacaoResponse `json:"items"`
	Total int                  `json:"total"`
}

type ComprovanteFile struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl,omitempty"`
}

type ComprovantesResponse struct {
	Files []*ComprovanteFile `json:"files"`
	Total int                `json:"total"`
}

// UploadFile is one part of a multipart upload, already read.
type UploadFile struct {
	Name string
	Data []byte
}
