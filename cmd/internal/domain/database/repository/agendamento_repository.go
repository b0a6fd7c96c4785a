package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"treinoexpresso/cmd/internal/domain/entity"
)

// AgendaFilter narrows the agenda. ScheduledFrom/To are inclusive/exclusive millis bounds.
type AgendaFilter struct {
	TrainerEmail  string
	ScheduledFrom int64
	ScheduledTo   int64
}

type DefaultAgendamentoRepository struct {
	db *gorm.DB
}

func NewAgendamentoRepository(db *gorm.DB) *DefaultAgendamentoRepository {
	return &DefaultAgendamentoRepository{db: db}
}

func (r *DefaultAgendamentoRepository) FindByChave(chave string) (*entity.Agendamento, error) {
	var a entity.Agendamento
	err := r.db.Where("chave_loja = ?", chave).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *DefaultAgendamentoRepository) FindAll() ([]*entity.Agendamento, error) {
	var out []*entity.Agendamento
	if err := r.db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindAgenda orders by schedule; unscheduled rows come last.
func (r *DefaultAgendamentoRepository) FindAgenda(filter AgendaFilter) ([]*entity.Agendamento, error) {
	query := r.db.Order("CASE WHEN scheduled_at IS NULL THEN 1 ELSE 0 END, scheduled_at ASC, chave_loja ASC")
	if filter.TrainerEmail != "" {
		query = query.Where("LOWER(trainer_email) = LOWER(?)", filter.TrainerEmail)
	}
	if filter.ScheduledFrom > 0 {
		query = query.Where("scheduled_at >= ?", filter.ScheduledFrom)
	}
	if filter.ScheduledTo > 0 {
		query = query.Where("scheduled_at < ?", filter.ScheduledTo)
	}

	var out []*entity.Agendamento
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert replaces the row of the store key.
func (r *DefaultAgendamentoRepository) Upsert(a *entity.Agendamento) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chave_loja"}},
		UpdateAll: true,
	}).Create(a).Error
}

func (r *DefaultAgendamentoRepository) Delete(chave string) (bool, error) {
	res := r.db.Where("chave_loja = ?", chave).Delete(&entity.Agendamento{})
	return res.RowsAffected > 0, res.Error
}
