package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"treinoexpresso/cmd/internal/domain/entity"
)

// LojaBatchSize bounds how many rows a single import transaction writes.
const LojaBatchSize = 400

type DefaultLojaRepository struct {
	db *gorm.DB
}

func NewLojaRepository(db *gorm.DB) *DefaultLojaRepository {
	return &DefaultLojaRepository{db: db}
}

func (r *DefaultLojaRepository) FindByChave(chave string) (*entity.Loja, error) {
	var l entity.Loja
	err := r.db.Where("chave_loja = ?", chave).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *DefaultLojaRepository) Search(q string, limit int) ([]*entity.Loja, error) {
	query := r.db.Order("chave_loja ASC").Limit(limit)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(chave_loja) LIKE ? OR LOWER(nome_expresso) LIKE ?", like, like)
	}

	var out []*entity.Loja
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertBatches writes lojas in chunks of LojaBatchSize, one transaction per chunk.
// Chunks already committed stay committed when a later one fails; the count of written rows is returned.
func (r *DefaultLojaRepository) UpsertBatches(lojas []*entity.Loja) (int, error) {
	var written int
	for start := 0; start < len(lojas); start += LojaBatchSize {
		end := min(start+LojaBatchSize, len(lojas))
		chunk := lojas[start:end]

		err := r.db.Transaction(func(tx *gorm.DB) error {
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "chave_loja"}},
				UpdateAll: true,
			}).Create(chunk).Error
		})
		if err != nil {
			return written, err
		}
		written += len(chunk)
	}
	return written, nil
}
