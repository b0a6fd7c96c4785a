package entity

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDENTE"
	PaymentPaid    PaymentStatus = "PAGA"
)

// Toggle flips between pending and paid.
func (s PaymentStatus) Toggle() PaymentStatus {
	if s == PaymentPaid {
		return PaymentPending
	}
	return PaymentPaid
}

// Prestacao is one travel expense report.
type Prestacao struct {
	ID              int64  `gorm:"primaryKey"`
	UserID          int64  `gorm:"not null;index;uniqueIndex:idx_prestacao_user_idem"`
	UserNome        string `gorm:"not null"`
	UserEmail       string `gorm:"not null"`
	DataViagem      string `gorm:"not null;index"`
	Destino         string `gorm:"not null"`
	KmInicial       float64
	KmFinal         float64
	KmRodado        float64
	Gasolina        float64
	Alimentacao     float64
	Hospedagem      float64
	OutrasDespesas  float64
	OutrasDescricao string

	// TotalViagem overrides the computed total. Only reports migrated from the old store carry it.
	TotalViagem *float64

	StatusPagamento PaymentStatus `gorm:"not null;default:PENDENTE;index"`
	PagoBy          string
	PagoAt          *int64
	IdempotencyKey  *string `gorm:"uniqueIndex:idx_prestacao_user_idem"`
	CreatedAt       int64   `gorm:"not null;index;autoCreateTime:false"`

	Comprovantes []*Comprovante `gorm:"foreignKey:PrestacaoID;constraint:OnDelete:CASCADE;"`
}

// Comprovante is one batch of receipts attached to a report.
type Comprovante struct {
	ID          int64    `gorm:"primaryKey"`
	PrestacaoID int64    `gorm:"not null;index"`
	Keys        []string `gorm:"serializer:json;not null"`
	ThumbKeys   []string `gorm:"serializer:json"`
	UploadedBy  int64    `gorm:"not null"`
	CreatedAt   int64    `gorm:"not null;autoCreateTime:false"`
}
