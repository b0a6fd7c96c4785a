package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"treinoexpresso/cmd/internal/domain/entity"
)

type DefaultArquivoRepository struct {
	db *gorm.DB
}

func NewArquivoRepository(db *gorm.DB) *DefaultArquivoRepository {
	return &DefaultArquivoRepository{db: db}
}

func (r *DefaultArquivoRepository) Create(a *entity.ArquivoObrigatorio) error {
	return r.db.Create(a).Error
}

func (r *DefaultArquivoRepository) FindAll() ([]*entity.ArquivoObrigatorio, error) {
	var out []*entity.ArquivoObrigatorio
	if err := r.db.Order("uploaded_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DefaultArquivoRepository) FindByID(id int64) (*entity.ArquivoObrigatorio, error) {
	var a entity.ArquivoObrigatorio
	err := r.db.First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *DefaultArquivoRepository) Delete(id int64) error {
	return r.db.Delete(&entity.ArquivoObrigatorio{}, id).Error
}

type DefaultDatasetRepository struct {
	db *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) *DefaultDatasetRepository {
	return &DefaultDatasetRepository{db: db}
}

func (r *DefaultDatasetRepository) FindByDataset(dataset string) (*entity.DatasetUpload, error) {
	var d entity.DatasetUpload
	err := r.db.Where("dataset = ?", dataset).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DefaultDatasetRepository) FindAll() ([]*entity.DatasetUpload, error) {
	var out []*entity.DatasetUpload
	if err := r.db.Order("dataset ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DefaultDatasetRepository) Upsert(d *entity.DatasetUpload) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dataset"}},
		UpdateAll: true,
	}).Create(d).Error
}
