package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/database/repository"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/domain/policy"
	"treinoexpresso/cmd/internal/infrastructure/objectstore"
	"treinoexpresso/cmd/internal/records"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/view"
)

type AgendamentoRepository interface {
	FindByChave(chave string) (*entity.Agendamento, error)
	FindAll() ([]*entity.Agendamento, error)
	FindAgenda(filter repository.AgendaFilter) ([]*entity.Agendamento, error)
	Upsert(a *entity.Agendamento) error
	Delete(chave string) (bool, error)
}

type DefaultTrainingService struct {
	AgendamentoRepo AgendamentoRepository
	DatasetRepo     DatasetRepository
	Store           objectstore.Store
	Reader          *DatasetReader
	Policy          *policy.AccessPolicy
	Clock           *Clock
	Validate        *validator.Validate
}

func NewTrainingService(
	agendamentoRepo AgendamentoRepository,
	datasetRepo DatasetRepository,
	store objectstore.Store,
	reader *DatasetReader,
	pol *policy.AccessPolicy,
	clock *Clock,
	validate *validator.Validate,
) *DefaultTrainingService {
	return &DefaultTrainingService{
		AgendamentoRepo: agendamentoRepo,
		DatasetRepo:     datasetRepo,
		Store:           store,
		Reader:          reader,
		Policy:          pol,
		Clock:           clock,
		Validate:        validate,
	}
}

// RawList returns the training workbook exactly as uploaded.
func (s *DefaultTrainingService) RawList(ctx context.Context) ([]byte, apierror.ErrorResponse) {
	ds, _ := LookupDataset(DatasetTreinamentos)
	data, err := s.Store.Download(ctx, ds.Path)
	if err != nil {
		log.Errorf("failed to download training list: %v", err)
		return nil, apierror.FileLoadError
	}
	return data, nil
}

func (s *DefaultTrainingService) loadStores(ctx context.Context) ([]*records.TrainingStore, apierror.ErrorResponse) {
	ds, _ := LookupDataset(DatasetTreinamentos)
	recs, err := s.Reader.Read(ctx, ds)
	if err != nil {
		return nil, err
	}
	return records.TrainingStores(recs, ds.AliasTable()), nil
}

// listUploadedAt is the upload time of the current training list, or nil when unknown.
func (s *DefaultTrainingService) listUploadedAt() *int64 {
	upload, err := s.DatasetRepo.FindByDataset(DatasetTreinamentos)
	if err != nil {
		log.Errorf("failed to fetch training list upload: %v", err)
		return nil
	}
	if upload == nil {
		return nil
	}
	return &upload.UploadedAt
}

func (s *DefaultTrainingService) Lojas(ctx context.Context, actor *entity.User, q string) (*contract.TrainingListResponse, apierror.ErrorResponse) {
	stores, err := s.loadStores(ctx)
	if err != nil {
		return nil, err
	}

	assignments, dberr := s.AgendamentoRepo.FindAll()
	if dberr != nil {
		log.Errorf("failed to fetch agendamentos: %v", dberr)
		return nil, apierror.InternalServerError
	}
	byChave := make(map[string]*entity.Agendamento, len(assignments))
	for _, a := range assignments {
		byChave[a.ChaveLoja] = a
	}

	resp := &contract.TrainingListResponse{Items: []*contract.TrainingStoreItem{}}
	if at := s.listUploadedAt(); at != nil {
		resp.ListUploadedAt = utils.FormatEpoch(*at)
	}

	for _, st := range stores {
		if !matchesTerm(q, st.Chave, st.NomeLoja, st.RazaoSocial, st.Municipio, st.NomeAgencia, st.Pacb) &&
			!matchesDigits(q, st.CNPJ) {
			continue
		}
		resp.Items = append(resp.Items, s.toStoreItem(st, byChave[st.Chave], actor))
	}
	resp.Total = len(resp.Items)
	return resp, nil
}

// Schedule claims a store for the actor, optionally with a date. Rescheduling a concluded
// store opens it again.
func (s *DefaultTrainingService) Schedule(actor *entity.User, chave string, req *contract.ScheduleRequest) (*contract.AgendamentoResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	if isBlank(chave) {
		return nil, apierror.InvalidIDError
	}

	var scheduledAt *int64
	if req.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return nil, apierror.NewInvalidParamTypeError("scheduledAt", "RFC3339")
		}
		millis := t.UnixMilli()
		scheduledAt = &millis
	}

	ag := &entity.Agendamento{
		ChaveLoja:      chave,
		NomeLoja:       req.NomeLoja,
		RazaoSocial:    req.RazaoSocial,
		Municipio:      req.Municipio,
		CNPJ:           records.OnlyDigits(req.CNPJ),
		TrainerID:      actor.ID,
		TrainerEmail:   actor.Email,
		ScheduledAt:    scheduledAt,
		Status:         entity.AgendamentoScheduled,
		ListUploadedAt: s.listUploadedAt(),
		UpdatedAt:      s.Clock.NowMillis(),
	}
	if err := s.AgendamentoRepo.Upsert(ag); err != nil {
		log.Errorf("failed to save agendamento %s: %v", chave, err)
		return nil, apierror.InternalServerError
	}
	return s.toAgendamentoResponse(ag, nil), nil
}

func (s *DefaultTrainingService) Concluir(actor *entity.User, chave string) (*contract.AgendamentoResponse, apierror.ErrorResponse) {
	ag, err := s.AgendamentoRepo.FindByChave(chave)
	if err != nil {
		log.Errorf("failed to fetch agendamento %s: %v", chave, err)
		return nil, apierror.InternalServerError
	}

	if perr := s.Policy.CanCompleteAgendamento(actor, ag); perr != nil {
		return nil, perr
	}

	now := s.Clock.NowMillis()
	ag.Status = entity.AgendamentoConcluded
	ag.ConcludedAt = &now
	ag.UpdatedAt = now
	if err := s.AgendamentoRepo.Upsert(ag); err != nil {
		log.Errorf("failed to conclude agendamento %s: %v", chave, err)
		return nil, apierror.InternalServerError
	}
	return s.toAgendamentoResponse(ag, nil), nil
}

// Reset removes the assignment, returning the store to the unassigned state.
func (s *DefaultTrainingService) Reset(actor *entity.User, chave string) apierror.ErrorResponse {
	if err := s.Policy.CanResetAgendamento(actor); err != nil {
		return err
	}

	deleted, err := s.AgendamentoRepo.Delete(chave)
	if err != nil {
		log.Errorf("failed to delete agendamento %s: %v", chave, err)
		return apierror.InternalServerError
	}

	if !deleted {
		return apierror.NotFoundError
	}
	return nil
}

func (s *DefaultTrainingService) Agenda(ctx context.Context, actor *entity.User, query *contract.AgendaQuery) (*contract.AgendaResponse, apierror.ErrorResponse) {
	utils.Sanitize(query)
	if valerr := s.Validate.Struct(query); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	filter := repository.AgendaFilter{TrainerEmail: s.Policy.AgendaScope(actor, query.Email)}
	loc := s.Clock.Location
	switch {
	case query.Date != "":
		day, _ := time.ParseInLocation(time.DateOnly, query.Date, loc)
		filter.ScheduledFrom = day.UnixMilli()
		filter.ScheduledTo = day.AddDate(0, 0, 1).UnixMilli()
	case query.Month != "":
		month, _ := time.ParseInLocation("2006-01", query.Month, loc)
		filter.ScheduledFrom = month.UnixMilli()
		filter.ScheduledTo = month.AddDate(0, 1, 0).UnixMilli()
	}

	list, err := s.AgendamentoRepo.FindAgenda(filter)
	if err != nil {
		log.Errorf("failed to fetch agenda: %v", err)
		return nil, apierror.InternalServerError
	}

	current := s.currentChaves(ctx)
	resp := &contract.AgendaResponse{Items: []*contract.AgendamentoResponse{}}
	for _, ag := range list {
		if !matchesTerm(query.Q, ag.ChaveLoja, ag.NomeLoja, ag.RazaoSocial, ag.Municipio, ag.TrainerEmail) {
			continue
		}

		var inList *bool
		if current != nil {
			present := current[ag.ChaveLoja]
			inList = &present
		}
		resp.Items = append(resp.Items, s.toAgendamentoResponse(ag, inList))
	}
	resp.Total = len(resp.Items)
	return resp, nil
}

// currentChaves is the key set of the current training list, or nil when it cannot be read.
func (s *DefaultTrainingService) currentChaves(ctx context.Context) map[string]bool {
	stores, err := s.loadStores(ctx)
	if err != nil {
		return nil
	}

	out := make(map[string]bool, len(stores))
	for _, st := range stores {
		out[st.Chave] = true
	}
	return out
}

func (s *DefaultTrainingService) toStoreItem(st *records.TrainingStore, ag *entity.Agendamento, actor *entity.User) *contract.TrainingStoreItem {
	var assignment *view.Assignment
	var agResp *contract.AgendamentoResponse
	if ag != nil {
		assignment = &view.Assignment{TrainerEmail: ag.TrainerEmail, Concluded: ag.Concluded()}
		if ag.ScheduledAt != nil {
			assignment.ScheduledAt = *ag.ScheduledAt
		}
		agResp = s.toAgendamentoResponse(ag, nil)
	}

	return &contract.TrainingStoreItem{
		Chave:         st.Chave,
		RazaoSocial:   st.RazaoSocial,
		NomeLoja:      st.NomeLoja,
		CNPJ:          st.CNPJ,
		CNPJFormatado: view.FormatCNPJ(st.CNPJ),
		CodAgencia:    st.CodAgencia,
		NomeAgencia:   st.NomeAgencia,
		Pacb:          st.Pacb,
		Municipio:     st.Municipio,
		Telefone:      view.FormatPhone(st.DDD, st.Telefone),
		WhatsApp:      view.WhatsAppLink(st.DDD, st.Telefone),
		StatusTablet:  st.StatusTablet,
		Contato:       st.Contato,
		Email:         st.Email,
		Agendamento:   agResp,
		Mensagem:      view.TrainingMessage(st, assignment, actor.Email, s.Clock.Location),
	}
}

func (s *DefaultTrainingService) toAgendamentoResponse(ag *entity.Agendamento, inList *bool) *contract.AgendamentoResponse {
	resp := &contract.AgendamentoResponse{
		ChaveLoja:      ag.ChaveLoja,
		NomeLoja:       ag.NomeLoja,
		RazaoSocial:    ag.RazaoSocial,
		Municipio:      ag.Municipio,
		CNPJ:           view.FormatCNPJ(ag.CNPJ),
		TrainerEmail:   ag.TrainerEmail,
		ScheduledLabel: "a definir",
		Status:         string(ag.Status),
		UpdatedAt:      utils.FormatEpoch(ag.UpdatedAt),
		InCurrentList:  inList,
	}
	if ag.ScheduledAt != nil {
		resp.ScheduledAt = utils.FormatEpoch(*ag.ScheduledAt)
		resp.ScheduledLabel = view.FormatDateTime(*ag.ScheduledAt, s.Clock.Location)
	}
	if ag.ListUploadedAt != nil {
		resp.ListUploadedAt = utils.FormatEpoch(*ag.ListUploadedAt)
	}
	if ag.ConcludedAt != nil {
		resp.ConcludedAt = utils.FormatEpoch(*ag.ConcludedAt)
	}
	return resp
}
