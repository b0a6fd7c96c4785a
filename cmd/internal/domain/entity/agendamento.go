package entity

type AgendamentoStatus string

const (
	AgendamentoScheduled AgendamentoStatus = "agendado"
	AgendamentoConcluded AgendamentoStatus = "concluido"
)

// Agendamento assigns a store of the training list to a trainer. One row per store key.
type Agendamento struct {
	ChaveLoja      string `gorm:"primaryKey;autoIncrement:false"`
	NomeLoja       string
	RazaoSocial    string
	Municipio      string
	CNPJ           string
	TrainerID      int64             `gorm:"not null;index"`
	TrainerEmail   string            `gorm:"not null;index"`
	ScheduledAt    *int64            `gorm:"index"`
	Status         AgendamentoStatus `gorm:"not null;default:agendado"`
	ListUploadedAt *int64
	ConcludedAt    *int64
	UpdatedAt      int64 `gorm:"not null;autoUpdateTime:false"`
}

func (a *Agendamento) Concluded() bool {
	return a.Status == AgendamentoConcluded
}
