package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/database/repository"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/domain/policy"
	"treinoexpresso/cmd/internal/infrastructure/objectstore"
	"treinoexpresso/cmd/internal/ingest"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/utils/uid"
	"treinoexpresso/cmd/internal/view"
)

const (
	MaxComprovantes       = 10
	MaxComprovanteSize    = 10 << 20
	ComprovanteURLTTL     = time.Hour
	thumbnailSuffix       = ".thumb.jpg"
	thumbnailMaxDimension = 320
)

type PrestacaoRepository interface {
	Create(p *entity.Prestacao) error
	FindByID(id int64) (*entity.Prestacao, error)
	FindByIdempotencyKey(userID int64, key string) (*entity.Prestacao, error)
	FindAll(filter repository.PrestacaoFilter) ([]*entity.Prestacao, error)
	UpdatePayment(id int64, status entity.PaymentStatus, by string, at *int64) error
	Delete(id int64) error
	CreateComprovante(c *entity.Comprovante) error
	FindComprovantes(prestacaoID int64) ([]*entity.Comprovante, error)
}

type DefaultPrestacaoService struct {
	PrestacaoRepo PrestacaoRepository
	Store         objectstore.Store
	Policy        *policy.AccessPolicy
	Clock         *Clock
	Validate      *validator.Validate
}

func NewPrestacaoService(
	repo PrestacaoRepository,
	store objectstore.Store,
	pol *policy.AccessPolicy,
	clock *Clock,
	validate *validator.Validate,
) *DefaultPrestacaoService {
	return &DefaultPrestacaoService{
		PrestacaoRepo: repo,
		Store:         store,
		Policy:        pol,
		Clock:         clock,
		Validate:      validate,
	}
}

// Create stores a new report. When idemKey repeats a previous submission of the same user, that
// report is returned and created is false.
func (s *DefaultPrestacaoService) Create(actor *entity.User, idemKey string, req *contract.CreatePrestacaoRequest) (*contract.PrestacaoResponse, bool, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, false, apierror.FromValidationError(valerr)
	}

	if req.KmFinal < req.KmInicial {
		return nil, false, apierror.KmRangeError
	}

	if req.OutrasDespesas > 0 && req.OutrasDescricao == "" {
		return nil, false, apierror.OtherExpensesDescError
	}

	var keyPtr *string
	if idemKey = strings.TrimSpace(idemKey); idemKey != "" {
		if _, err := uuid.Parse(idemKey); err != nil {
			return nil, false, apierror.NewInvalidParamTypeError("Idempotency-Key", "uuid")
		}
		if existing := s.findSubmitted(actor.ID, idemKey); existing != nil {
			return toPrestacaoResponse(existing, s.Clock.Location), false, nil
		}
		keyPtr = &idemKey
	}

	money := func(v float64) float64 {
		return decimal.NewFromFloat(v).Round(2).InexactFloat64()
	}
	kmRodado := decimal.NewFromFloat(req.KmFinal).Sub(decimal.NewFromFloat(req.KmInicial))

	prest := &entity.Prestacao{
		ID:              uid.Generate(),
		UserID:          actor.ID,
		UserNome:        actor.Label(),
		UserEmail:       actor.Email,
		DataViagem:      req.DataViagem,
		Destino:         req.Destino,
		KmInicial:       req.KmInicial,
		KmFinal:         req.KmFinal,
		KmRodado:        kmRodado.InexactFloat64(),
		Gasolina:        money(req.Gasolina),
		Alimentacao:     money(req.Alimentacao),
		Hospedagem:      money(req.Hospedagem),
		OutrasDespesas:  money(req.OutrasDespesas),
		OutrasDescricao: req.OutrasDescricao,
		StatusPagamento: entity.PaymentPending,
		IdempotencyKey:  keyPtr,
		CreatedAt:       s.Clock.NowMillis(),
	}

	if err := s.PrestacaoRepo.Create(prest); err != nil {
		// A concurrent submit with the same key won the unique index.
		if keyPtr != nil {
			if existing := s.findSubmitted(actor.ID, idemKey); existing != nil {
				return toPrestacaoResponse(existing, s.Clock.Location), false, nil
			}
		}
		log.Errorf("failed to save prestacao: %v", err)
		return nil, false, apierror.InternalServerError
	}
	return toPrestacaoResponse(prest, s.Clock.Location), true, nil
}

func (s *DefaultPrestacaoService) findSubmitted(userID int64, key string) *entity.Prestacao {
	existing, err := s.PrestacaoRepo.FindByIdempotencyKey(userID, key)
	if err != nil {
		log.Errorf("failed to look up idempotency key: %v", err)
		return nil
	}
	return existing
}

func (s *DefaultPrestacaoService) ListOwn(actor *entity.User) (*contract.PrestacaoListResponse, apierror.ErrorResponse) {
	list, err := s.PrestacaoRepo.FindAll(repository.PrestacaoFilter{UserID: actor.ID})
	if err != nil {
		log.Errorf("failed to fetch prestacoes of %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}
	return s.toList(list, ""), nil
}

func (s *DefaultPrestacaoService) ListAll(actor *entity.User, query *contract.PrestacaoListQuery) (*contract.PrestacaoListResponse, apierror.ErrorResponse) {
	if err := s.Policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	utils.Sanitize(query)
	if valerr := s.Validate.Struct(query); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	list, err := s.PrestacaoRepo.FindAll(repository.PrestacaoFilter{Status: entity.PaymentStatus(query.Status)})
	if err != nil {
		log.Errorf("failed to fetch prestacoes: %v", err)
		return nil, apierror.InternalServerError
	}
	return s.toList(list, query.Q), nil
}

func (s *DefaultPrestacaoService) Get(actor *entity.User, id int64) (*contract.PrestacaoResponse, apierror.ErrorResponse) {
	prest, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if perr := s.Policy.CanViewPrestacao(actor, prest); perr != nil {
		return nil, perr
	}
	return toPrestacaoResponse(prest, s.Clock.Location), nil
}

// TogglePagamento flips the payment status. Paying records who paid and when; reverting clears both.
func (s *DefaultPrestacaoService) TogglePagamento(actor *entity.User, id int64) (*contract.PrestacaoResponse, apierror.ErrorResponse) {
	if err := s.Policy.CanTogglePagamento(actor); err != nil {
		return nil, err
	}

	prest, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if prest == nil {
		return nil, apierror.NotFoundError
	}

	next := prest.StatusPagamento.Toggle()
	var by string
	var at *int64
	if next == entity.PaymentPaid {
		now := s.Clock.NowMillis()
		by, at = actor.Email, &now
	}

	if err := s.PrestacaoRepo.UpdatePayment(id, next, by, at); err != nil {
		log.Errorf("failed to update payment of prestacao %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	prest.StatusPagamento, prest.PagoBy, prest.PagoAt = next, by, at
	return toPrestacaoResponse(prest, s.Clock.Location), nil
}

// Delete removes every receipt row and then the report. Stored objects are removed afterwards,
// best effort.
func (s *DefaultPrestacaoService) Delete(ctx context.Context, actor *entity.User, id int64) apierror.ErrorResponse {
	prest, err := s.find(id)
	if err != nil {
		return err
	}

	if perr := s.Policy.CanDeletePrestacao(actor, prest); perr != nil {
		return perr
	}

	comps, dberr := s.PrestacaoRepo.FindComprovantes(id)
	if dberr != nil {
		log.Errorf("failed to fetch comprovantes of %d: %v", id, dberr)
		return apierror.InternalServerError
	}

	if dberr := s.PrestacaoRepo.Delete(id); dberr != nil {
		log.Errorf("failed to delete prestacao %d: %v", id, dberr)
		return apierror.InternalServerError
	}

	for _, c := range comps {
		for _, key := range append(c.Keys, c.ThumbKeys...) {
			if err := s.Store.Delete(ctx, key); err != nil {
				log.Warnf("failed to delete object %s of prestacao %d: %v", key, id, err)
			}
		}
	}
	return nil
}

// UploadComprovantes attaches one batch of receipts. Only images and PDFs are accepted and a
// report holds at most MaxComprovantes files in total.
func (s *DefaultPrestacaoService) UploadComprovantes(ctx context.Context, actor *entity.User, id int64, files []*contract.UploadFile) (*contract.ComprovantesResponse, apierror.ErrorResponse) {
	prest, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if perr := s.Policy.CanUploadComprovante(actor, prest); perr != nil {
		return nil, perr
	}

	if len(files) == 0 {
		return nil, apierror.MissingFileError
	}

	existing, dberr := s.PrestacaoRepo.FindComprovantes(id)
	if dberr != nil {
		log.Errorf("failed to fetch comprovantes of %d: %v", id, dberr)
		return nil, apierror.InternalServerError
	}

	if countKeys(existing)+len(files) > MaxComprovantes {
		return nil, apierror.TooManyAttachmentsErr
	}

	for _, f := range files {
		if len(f.Data) > MaxComprovanteSize {
			return nil, apierror.NewFileTooLargeError(f.Name, humanize.IBytes(MaxComprovanteSize))
		}
		if !acceptedReceipt(f.Data) {
			return nil, apierror.InvalidMediaTypeError
		}
	}

	now := s.Clock.NowMillis()
	comp := &entity.Comprovante{
		ID:          uid.Generate(),
		PrestacaoID: id,
		Keys:        make([]string, 0, len(files)),
		ThumbKeys:   []string{},
		UploadedBy:  actor.ID,
		CreatedAt:   now,
	}

	for i, f := range files {
		key := fmt.Sprintf("prestacoes/%d/%d/%d_%s", actor.ID, id, now+int64(i), utils.SafeFileName(f.Name))
		if err := s.Store.Upload(ctx, key, f.Data, objectstore.ContentType(f.Name, f.Data)); err != nil {
			log.Errorf("failed to upload comprovante %s: %v", key, err)
			s.discard(ctx, append(comp.Keys, comp.ThumbKeys...))
			return nil, apierror.InternalServerError
		}
		comp.Keys = append(comp.Keys, key)

		if thumbKey, ok := s.uploadThumbnail(ctx, key, f.Data); ok {
			comp.ThumbKeys = append(comp.ThumbKeys, thumbKey)
		}
	}

	if err := s.PrestacaoRepo.CreateComprovante(comp); err != nil {
		log.Errorf("failed to save comprovante batch of %d: %v", id, err)
		s.discard(ctx, append(comp.Keys, comp.ThumbKeys...))
		return nil, apierror.InternalServerError
	}
	return s.listComprovantes(ctx, append(existing, comp))
}

// Comprovantes returns signed links to every receipt of a report. Unknown reports have none.
func (s *DefaultPrestacaoService) Comprovantes(ctx context.Context, actor *entity.User, id int64) (*contract.ComprovantesResponse, apierror.ErrorResponse) {
	prest, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if prest == nil {
		return &contract.ComprovantesResponse{Files: []*contract.ComprovanteFile{}}, nil
	}

	if perr := s.Policy.CanViewPrestacao(actor, prest); perr != nil {
		return nil, perr
	}

	comps, dberr := s.PrestacaoRepo.FindComprovantes(id)
	if dberr != nil {
		log.Errorf("failed to fetch comprovantes of %d: %v", id, dberr)
		return nil, apierror.InternalServerError
	}
	return s.listComprovantes(ctx, comps)
}

func (s *DefaultPrestacaoService) listComprovantes(ctx context.Context, comps []*entity.Comprovante) (*contract.ComprovantesResponse, apierror.ErrorResponse) {
	thumbs := map[string]bool{}
	for _, c := range comps {
		for _, t := range c.ThumbKeys {
			thumbs[t] = true
		}
	}

	seen := map[string]bool{}
	resp := &contract.ComprovantesResponse{Files: []*contract.ComprovanteFile{}}
	for _, c := range comps {
		for _, key := range c.Keys {
			if seen[key] {
				continue
			}
			seen[key] = true

			url, err := s.Store.SignedURL(ctx, key, ComprovanteURLTTL)
			if err != nil {
				log.Errorf("failed to sign comprovante %s: %v", key, err)
				return nil, apierror.InternalServerError
			}

			file := &contract.ComprovanteFile{Name: receiptName(key), URL: url}
			if thumbKey := key + thumbnailSuffix; thumbs[thumbKey] {
				if thumbURL, err := s.Store.SignedURL(ctx, thumbKey, ComprovanteURLTTL); err == nil {
					file.ThumbURL = thumbURL
				}
			}
			resp.Files = append(resp.Files, file)
		}
	}
	resp.Total = len(resp.Files)
	return resp, nil
}

// uploadThumbnail stores a small JPEG next to image receipts. Failures only cost the preview.
func (s *DefaultPrestacaoService) uploadThumbnail(ctx context.Context, key string, data []byte) (string, bool) {
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return "", false
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.Warnf("failed to decode image %s for thumbnail: %v", key, err)
		return "", false
	}

	var buf bytes.Buffer
	thumb := imaging.Fit(img, thumbnailMaxDimension, thumbnailMaxDimension, imaging.Lanczos)
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		log.Warnf("failed to encode thumbnail of %s: %v", key, err)
		return "", false
	}

	thumbKey := key + thumbnailSuffix
	if err := s.Store.Upload(ctx, thumbKey, buf.Bytes(), "image/jpeg"); err != nil {
		log.Warnf("failed to upload thumbnail %s: %v", thumbKey, err)
		return "", false
	}
	return thumbKey, true
}

func (s *DefaultPrestacaoService) discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.Store.Delete(ctx, key); err != nil {
			log.Warnf("failed to discard object %s: %v", key, err)
		}
	}
}

func (s *DefaultPrestacaoService) find(id int64) (*entity.Prestacao, apierror.ErrorResponse) {
	prest, err := s.PrestacaoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch prestacao %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return prest, nil
}

func (s *DefaultPrestacaoService) toList(list []*entity.Prestacao, q string) *contract.PrestacaoListResponse {
	resp := &contract.PrestacaoListResponse{Items: []*contract.PrestacaoResponse{}}
	for _, p := range list {
		if !matchesTerm(q, p.Destino, p.DataViagem, p.UserNome, strconv.FormatInt(p.UserID, 10)) {
			continue
		}
		resp.Items = append(resp.Items, toPrestacaoResponse(p, s.Clock.Location))
	}
	resp.Total = len(resp.Items)
	return resp
}

// PrestacaoTotal is the legacy override when present, otherwise the sum of the four amounts.
func PrestacaoTotal(p *entity.Prestacao) decimal.Decimal {
	if p.TotalViagem != nil {
		return decimal.NewFromFloat(*p.TotalViagem).Round(2)
	}
	return decimal.Sum(
		decimal.NewFromFloat(p.Gasolina),
		decimal.NewFromFloat(p.Alimentacao),
		decimal.NewFromFloat(p.Hospedagem),
		decimal.NewFromFloat(p.OutrasDespesas),
	).Round(2)
}

func acceptedReceipt(data []byte) bool {
	mt := mimetype.Detect(data)
	return strings.HasPrefix(mt.String(), "image/") || mt.Is("application/pdf")
}

func countKeys(comps []*entity.Comprovante) int {
	var n int
	for _, c := range comps {
		n += len(c.Keys)
	}
	return n
}

// receiptName strips the key prefix and the upload timestamp: ".../1700000000000_nota.jpg" -> "nota.jpg".
func receiptName(key string) string {
	name := key[strings.LastIndex(key, "/")+1:]
	if _, rest, ok := strings.Cut(name, "_"); ok && rest != "" {
		return rest
	}
	return name
}

func toPrestacaoResponse(p *entity.Prestacao, loc *time.Location) *contract.PrestacaoResponse {
	total := PrestacaoTotal(p)
	resp := &contract.PrestacaoResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		UserNome:        p.UserNome,
		UserEmail:       p.UserEmail,
		DataViagem:      p.DataViagem,
		DataViagemLabel: view.FormatPtBRDate(ingest.ParseDateFlexible(p.DataViagem)),
		Destino:         p.Destino,
		KmInicial:       p.KmInicial,
		KmFinal:         p.KmFinal,
		KmRodado:        p.KmRodado,
		Gasolina:        view.Moeda(p.Gasolina),
		Alimentacao:     view.Moeda(p.Alimentacao),
		Hospedagem:      view.Moeda(p.Hospedagem),
		OutrasDespesas:  view.Moeda(p.OutrasDespesas),
		OutrasDescricao: p.OutrasDescricao,
		TotalViagem:     total.StringFixed(2),
		TotalLabel:      view.FormatBRL(total.InexactFloat64()),
		StatusPagamento: string(p.StatusPagamento),
		PagoBy:          p.PagoBy,
		CreatedAt:       utils.FormatEpoch(p.CreatedAt),
	}
	if p.PagoAt != nil {
		resp.PagoAt = view.FormatDateTime(*p.PagoAt, loc)
	}
	return resp
}
