package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"treinoexpresso/cmd/internal/domain/entity"
)

type DefaultCompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *DefaultCompanyRepository {
	return &DefaultCompanyRepository{db: db}
}

func (r *DefaultCompanyRepository) FindByCNPJ(cnpj string) (*entity.Company, error) {
	var company entity.Company
	err := r.db.
		Preload("Partners").
		Where("cnpj = ?", cnpj).
		First(&company).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &company, nil
}

// Save replaces the cached company and its partner list.
func (r *DefaultCompanyRepository) Save(company *entity.Company) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_cnpj = ?", company.CNPJ).Delete(&entity.CompanyPartner{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(company).Error
	})
}

func (r *DefaultCompanyRepository) DeleteExpired(before int64) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var stale []string
		if err := tx.Model(&entity.Company{}).Where("cached_at < ?", before).Pluck("cnpj", &stale).Error; err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}

		if err := tx.Where("company_cnpj IN ?", stale).Delete(&entity.CompanyPartner{}).Error; err != nil {
			return err
		}

		res := tx.Where("cnpj IN ?", stale).Delete(&entity.Company{})
		removed = res.RowsAffected
		return res.Error
	})
	return removed, err
}
