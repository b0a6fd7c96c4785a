package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/classify"
	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/ingest"
	"treinoexpresso/cmd/internal/records"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/view"
)

type AgendamentoLister interface {
	FindAll() ([]*entity.Agendamento, error)
}

type DefaultRosterService struct {
	Reader      *DatasetReader
	Agendamento AgendamentoLister
	Clock       *Clock
	Validate    *validator.Validate
}

func NewRosterService(reader *DatasetReader, agendamento AgendamentoLister, clock *Clock, validate *validator.Validate) *DefaultRosterService {
	return &DefaultRosterService{
		Reader:      reader,
		Agendamento: agendamento,
		Clock:       clock,
		Validate:    validate,
	}
}

func (s *DefaultRosterService) load(ctx context.Context) ([]*records.RosterRow, apierror.ErrorResponse) {
	ds, _ := LookupDataset(DatasetRoster)
	recs, err := s.Reader.Read(ctx, ds)
	if err != nil {
		return nil, err
	}
	return records.RosterRows(recs, ds.AliasTable()), nil
}

// Geral is the full roster with the filter bar of the general view. The summary counts the
// filtered rows; the agency list always covers the whole file.
func (s *DefaultRosterService) Geral(ctx context.Context, query *contract.RosterQuery) (*contract.GeralResponse, apierror.ErrorResponse) {
	if err := s.validate(query); err != nil {
		return nil, err
	}

	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	today := s.Clock.Today()
	assignments := s.assignments()
	q := strings.ToLower(query.Q)

	resp := &contract.GeralResponse{
		Items:    make([]*contract.RosterItem, 0, len(rows)),
		Agencias: distinct(rows, func(r *records.RosterRow) string { return r.Agencia }),
	}
	for _, row := range rows {
		if query.Agencia != "" && row.Agencia != query.Agencia {
			continue
		}
		if query.Municipio != "" && ingest.FoldAccents(row.Municipio) != ingest.FoldAccents(query.Municipio) {
			continue
		}
		if query.Status != "" && string(classify.Bucket(row.Status)) != query.Status {
			continue
		}
		if query.Trx != "" && classify.TrxRange(row.Trx) != query.Trx {
			continue
		}
		if query.Cert != "" && certFilter(row, today) != query.Cert {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(row.Chave), q) {
			continue
		}

		item := toRosterItem(row, today, assignments[row.Chave])
		resp.Items = append(resp.Items, item)
		countSummary(&resp.Summary, row, today)
	}
	return resp, nil
}

// Transacionando lists stores that transact but sold no product, busiest first.
func (s *DefaultRosterService) Transacionando(ctx context.Context, query *contract.RosterQuery) (*contract.RosterListResponse, apierror.ErrorResponse) {
	if err := s.validate(query); err != nil {
		return nil, err
	}

	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	selected := filterRows(rows, classify.TransactingOnly)
	agencias := distinct(selected, func(r *records.RosterRow) string { return r.Agencia })

	selected = filterRows(selected, func(r *records.RosterRow) bool {
		if query.Agencia != "" && r.Agencia != query.Agencia {
			return false
		}
		if query.Status != "" && string(classify.Bucket(r.Status)) != query.Status {
			return false
		}
		return matchesTerm(query.Q, r.Nome+" "+r.Chave)
	})
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Trx > selected[j].Trx })

	resp := s.toList(selected)
	resp.Agencias = agencias
	return resp, nil
}

// TreinadosZerados lists trained stores with no transaction and no product, by name.
func (s *DefaultRosterService) TreinadosZerados(ctx context.Context, query *contract.RosterQuery) (*contract.RosterListResponse, apierror.ErrorResponse) {
	if err := s.validate(query); err != nil {
		return nil, err
	}

	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	selected := filterRows(rows, classify.TrainedAndZeroed)
	agencias := distinct(selected, func(r *records.RosterRow) string { return r.Agencia })
	municipios := distinct(selected, func(r *records.RosterRow) string { return r.Municipio })

	selected = filterRows(selected, func(r *records.RosterRow) bool {
		if query.Agencia != "" && r.Agencia != query.Agencia {
			return false
		}
		if query.Municipio != "" && r.Municipio != query.Municipio {
			return false
		}
		return matchesTerm(query.Q, r.Chave, r.Nome, r.Municipio, r.Agencia, r.Pacb)
	})
	sort.SliceStable(selected, func(i, j int) bool {
		return ingest.FoldAccents(selected[i].Nome) < ingest.FoldAccents(selected[j].Nome)
	})

	resp := s.toList(selected)
	resp.Agencias = agencias
	resp.Municipios = municipios
	return resp, nil
}

// CertificacaoVencida splits the stores needing recertification into expired and expiring lists.
func (s *DefaultRosterService) CertificacaoVencida(ctx context.Context, query *contract.RosterQuery) (*contract.CertAttentionResponse, apierror.ErrorResponse) {
	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	today := s.Clock.Today()
	assignments := s.assignments()

	resp := &contract.CertAttentionResponse{
		Vencidas:   []*contract.CertAttentionItem{},
		AVencer:    []*contract.CertAttentionItem{},
		Referencia: view.FormatPtBRDate(&today),
	}

	var expired, expiring []*records.RosterRow
	for _, row := range rows {
		status, ok := classify.CertAttention(row, today)
		if !ok || !matchesTerm(query.Q, row.Chave, row.Nome, row.Municipio, row.Agencia, row.Pacb) {
			continue
		}
		if status == classify.Expired {
			expired = append(expired, row)
		} else {
			expiring = append(expiring, row)
		}
	}

	// Both orders reduce to the certification date, since expiry is a fixed offset from it.
	byCertDate := func(list []*records.RosterRow) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].CertDate.Before(*list[j].CertDate) })
	}
	byCertDate(expired)
	byCertDate(expiring)

	for _, row := range expired {
		resp.Vencidas = append(resp.Vencidas, toCertAttentionItem(row, classify.Expired, today, assignments[row.Chave]))
	}
	for _, row := range expiring {
		resp.AVencer = append(resp.AVencer, toCertAttentionItem(row, classify.ExpiringSoon, today, assignments[row.Chave]))
	}
	return resp, nil
}

func (s *DefaultRosterService) validate(query *contract.RosterQuery) apierror.ErrorResponse {
	utils.Sanitize(query)
	if valerr := s.Validate.Struct(query); valerr != nil {
		return apierror.FromValidationError(valerr)
	}
	return nil
}

// assignments indexes the training assignments by store key. A failure only hides the join.
func (s *DefaultRosterService) assignments() map[string]*entity.Agendamento {
	list, err := s.Agendamento.FindAll()
	if err != nil {
		log.Errorf("failed to fetch agendamentos for roster join: %v", err)
		return map[string]*entity.Agendamento{}
	}

	out := make(map[string]*entity.Agendamento, len(list))
	for _, a := range list {
		out[a.ChaveLoja] = a
	}
	return out
}

func (s *DefaultRosterService) toList(rows []*records.RosterRow) *contract.RosterListResponse {
	today := s.Clock.Today()
	assignments := s.assignments()

	items := make([]*contract.RosterItem, len(rows))
	for i, row := range rows {
		items[i] = toRosterItem(row, today, assignments[row.Chave])
	}
	return &contract.RosterListResponse{Items: items, Total: len(items)}
}

// certFilter is the three-way certification filter of the general view.
func certFilter(row *records.RosterRow, today time.Time) string {
	switch classify.Certification(row.CertDate, today) {
	case classify.NoCertification:
		return "nao"
	case classify.Expired:
		return "vencida"
	default:
		return "ok"
	}
}

func countSummary(sum *contract.RosterSummary, row *records.RosterRow, today time.Time) {
	sum.Total++
	switch classify.Bucket(row.Status) {
	case classify.BucketTransacional:
		sum.Transacionando++
	case classify.BucketTreinado:
		sum.Treinados++
	}
	switch certFilter(row, today) {
	case "nao":
		sum.SemCert++
	case "vencida":
		sum.CertVencida++
	}
}

func filterRows(rows []*records.RosterRow, keep func(*records.RosterRow) bool) []*records.RosterRow {
	out := make([]*records.RosterRow, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func distinct(rows []*records.RosterRow, key func(*records.RosterRow) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range rows {
		if k := key(r); k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func toRosterItem(row *records.RosterRow, today time.Time, ag *entity.Agendamento) *contract.RosterItem {
	item := &contract.RosterItem{
		Chave:        row.Chave,
		Nome:         row.Nome,
		Municipio:    row.Municipio,
		Agencia:      row.Agencia,
		Pacb:         row.Pacb,
		Status:       row.Status,
		StatusBucket: string(classify.Bucket(row.Status)),
		Trx:          row.Trx,
		TrxRange:     classify.TrxRange(row.Trx),
		Certificacao: view.FormatPtBRDate(row.CertDate),
		CertStatus:   string(classify.Certification(row.CertDate, today)),
		Bloqueado:    row.Bloqueado,
	}
	if ag != nil {
		item.TreinadorEmail = ag.TrainerEmail
		item.TreinamentoStat = string(ag.Status)
	}
	return item
}

func toCertAttentionItem(row *records.RosterRow, status classify.CertStatus, today time.Time, ag *entity.Agendamento) *contract.CertAttentionItem {
	expiry := classify.ExpiryDate(*row.CertDate)
	return &contract.CertAttentionItem{
		RosterItem: *toRosterItem(row, today, ag),
		Vencimento: view.FormatPtBRDate(&expiry),
		Classe:     string(status),
		Mensagem:   view.CertificationMessage(row, status),
	}
}
