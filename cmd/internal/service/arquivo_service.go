package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/domain/policy"
	"treinoexpresso/cmd/internal/infrastructure/objectstore"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/utils/uid"
)

const ArquivoURLTTL = 15 * time.Minute

type ArquivoRepository interface {
	Create(a *entity.ArquivoObrigatorio) error
	FindAll() ([]*entity.ArquivoObrigatorio, error)
	FindByID(id int64) (*entity.ArquivoObrigatorio, error)
	Delete(id int64) error
}

type DefaultArquivoService struct {
	ArquivoRepo ArquivoRepository
	Store       objectstore.Store
	Policy      *policy.AccessPolicy
	Validate    *validator.Validate
}

func NewArquivoService(repo ArquivoRepository, store objectstore.Store, pol *policy.AccessPolicy, validate *validator.Validate) *DefaultArquivoService {
	return &DefaultArquivoService{
		ArquivoRepo: repo,
		Store:       store,
		Policy:      pol,
		Validate:    validate,
	}
}

func (s *DefaultArquivoService) List() ([]*contract.ArquivoResponse, apierror.ErrorResponse) {
	arquivos, err := s.ArquivoRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch arquivos: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ArquivoResponse, len(arquivos))
	for i, a := range arquivos {
		resp[i] = toArquivoResponse(a)
	}
	return resp, nil
}

func (s *DefaultArquivoService) Upload(ctx context.Context, actor *entity.User, req *contract.CreateArquivoRequest, file *contract.UploadFile) (*contract.ArquivoResponse, apierror.ErrorResponse) {
	if err := s.Policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	if file == nil || len(file.Data) == 0 {
		return nil, apierror.MissingFileError
	}

	if !mimetype.Detect(file.Data).Is("application/pdf") {
		return nil, apierror.InvalidMediaTypeError
	}

	now := utils.NowUTC()
	base := utils.SafeFileName(file.Name)
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(base, ext)
	}
	path := fmt.Sprintf("arquivos-obrigatorios/%d-%s.pdf", now, base)

	if err := s.Store.Upload(ctx, path, file.Data, "application/pdf"); err != nil {
		log.Errorf("failed to upload arquivo %s: %v", path, err)
		return nil, apierror.InternalServerError
	}

	arquivo := &entity.ArquivoObrigatorio{
		ID:          uid.Generate(),
		Titulo:      req.Titulo,
		StoragePath: path,
		FileName:    file.Name,
		Size:        int64(len(file.Data)),
		UploadedBy:  actor.Email,
		UploadedAt:  now,
	}
	if err := s.ArquivoRepo.Create(arquivo); err != nil {
		log.Errorf("failed to save arquivo %s: %v", path, err)
		if derr := s.Store.Delete(ctx, path); derr != nil {
			log.Warnf("failed to discard object %s: %v", path, derr)
		}
		return nil, apierror.InternalServerError
	}
	return toArquivoResponse(arquivo), nil
}

// DownloadURL is a short-lived link to the document.
func (s *DefaultArquivoService) DownloadURL(ctx context.Context, id int64) (string, apierror.ErrorResponse) {
	arquivo, err := s.find(id)
	if err != nil {
		return "", err
	}

	url, serr := s.Store.SignedURL(ctx, arquivo.StoragePath, ArquivoURLTTL)
	if serr != nil {
		log.Errorf("failed to sign arquivo %s: %v", arquivo.StoragePath, serr)
		return "", apierror.InternalServerError
	}
	return url, nil
}

func (s *DefaultArquivoService) Delete(ctx context.Context, actor *entity.User, id int64) apierror.ErrorResponse {
	if err := s.Policy.RequireAdmin(actor); err != nil {
		return err
	}

	arquivo, err := s.find(id)
	if err != nil {
		return err
	}

	if serr := s.Store.Delete(ctx, arquivo.StoragePath); serr != nil {
		log.Errorf("failed to delete object %s: %v", arquivo.StoragePath, serr)
		return apierror.InternalServerError
	}

	if derr := s.ArquivoRepo.Delete(id); derr != nil {
		log.Errorf("failed to delete arquivo %d: %v", id, derr)
		return apierror.InternalServerError
	}
	return nil
}

func (s *DefaultArquivoService) find(id int64) (*entity.ArquivoObrigatorio, apierror.ErrorResponse) {
	arquivo, err := s.ArquivoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch arquivo %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if arquivo == nil {
		return nil, apierror.NotFoundError
	}
	return arquivo, nil
}

func toArquivoResponse(a *entity.ArquivoObrigatorio) *contract.ArquivoResponse {
	return &contract.ArquivoResponse{
		ID:         a.ID,
		Titulo:     a.Titulo,
		FileName:   a.FileName,
		Size:       humanize.Bytes(uint64(a.Size)),
		UploadedBy: a.UploadedBy,
		UploadedAt: utils.FormatEpoch(a.UploadedAt),
	}
}
