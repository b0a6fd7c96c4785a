package entity

// Loja is the store directory used to autofill forms.
type Loja struct {
	ChaveLoja    string `gorm:"primaryKey;autoIncrement:false"`
	NomeExpresso string `gorm:"index"`
	Agencia      string
	Pacb         string
	UpdatedAt    int64 `gorm:"not null;autoUpdateTime:false"`
	UpdatedBy    string
}

type ArquivoObrigatorio struct {
	ID          int64  `gorm:"primaryKey"`
	Titulo      string `gorm:"not null"`
	StoragePath string `gorm:"not null;uniqueIndex"`
	FileName    string `gorm:"not null"`
	Size        int64
	UploadedBy  string `gorm:"not null"`
	UploadedAt  int64  `gorm:"not null;index"`
}

// DatasetUpload records the last upload of one of the fixed spreadsheets.
type DatasetUpload struct {
	Dataset    string `gorm:"primaryKey;autoIncrement:false"`
	Path       string `gorm:"not null"`
	Size       int64
	Rows       int
	UploadedBy string `gorm:"not null"`
	UploadedAt int64  `gorm:"not null"`
}
