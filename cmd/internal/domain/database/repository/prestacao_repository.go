package repository

import (
	"errors"

	"gorm.io/gorm"

	"treinoexpresso/cmd/internal/domain/entity"
)

type PrestacaoFilter struct {
	UserID int64
	Status entity.PaymentStatus
}

type DefaultPrestacaoRepository struct {
	db *gorm.DB
}

func NewPrestacaoRepository(db *gorm.DB) *DefaultPrestacaoRepository {
	return &DefaultPrestacaoRepository{db: db}
}

func (r *DefaultPrestacaoRepository) Create(p *entity.Prestacao) error {
	return r.db.Create(p).Error
}

func (r *DefaultPrestacaoRepository) FindByID(id int64) (*entity.Prestacao, error) {
	var p entity.Prestacao
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DefaultPrestacaoRepository) FindByIdempotencyKey(userID int64, key string) (*entity.Prestacao, error) {
	var p entity.Prestacao
	err := r.db.
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll returns reports newest first. Zero values in filter match everything.
func (r *DefaultPrestacaoRepository) FindAll(filter PrestacaoFilter) ([]*entity.Prestacao, error) {
	query := r.db.Order("created_at DESC")
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status_pagamento = ?", filter.Status)
	}

	var out []*entity.Prestacao
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DefaultPrestacaoRepository) UpdatePayment(id int64, status entity.PaymentStatus, by string, at *int64) error {
	return r.db.Model(&entity.Prestacao{}).
		Where("id = ?", id).
		Updates(map[string]any{"status_pagamento": status, "pago_by": by, "pago_at": at}).Error
}

// Delete removes the receipts of the report first and the report last.
func (r *DefaultPrestacaoRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prestacao_id = ?", id).Delete(&entity.Comprovante{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Prestacao{}, id).Error
	})
}

func (r *DefaultPrestacaoRepository) CreateComprovante(c *entity.Comprovante) error {
	return r.db.Create(c).Error
}

func (r *DefaultPrestacaoRepository) FindComprovantes(prestacaoID int64) ([]*entity.Comprovante, error) {
	var out []*entity.Comprovante
	err := r.db.
		Where("prestacao_id = ?", prestacaoID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
