package service

import (
	"context"
	"errors"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/domain/policy"
	"treinoexpresso/cmd/internal/infrastructure/objectstore"
	"treinoexpresso/cmd/internal/ingest"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
)

// Dataset is one of the spreadsheets the dashboard reads from a fixed object key.
type Dataset struct {
	Name  string
	Path  string
	Table string
	Exts  []string
}

const (
	DatasetRoster       = "base-lojas"
	DatasetMicrosseguro = "microsseguro"
	DatasetCertificados = "pessoa-certificada"
	DatasetTreinamentos = "treinamentos"
)

var datasets = map[string]*Dataset{
	DatasetRoster: {
		Name:  DatasetRoster,
		Path:  "base-lojas/banco.csv",
		Table: "roster",
		Exts:  []string{"csv"},
	},
	DatasetMicrosseguro: {
		Name:  DatasetMicrosseguro,
		Path:  "microsseguro/liberados-microsseguro.xlsx",
		Table: "microsseguro",
		Exts:  []string{"xlsx", "xls", "csv"},
	},
	DatasetCertificados: {
		Name:  DatasetCertificados,
		Path:  "pessoa-certificada/certificados.csv",
		Table: "certificados",
		Exts:  []string{"csv"},
	},
	DatasetTreinamentos: {
		Name:  DatasetTreinamentos,
		Path:  "trainings/lista-atual.xls",
		Table: "treinamentos",
		Exts:  []string{"xls", "xlsx"},
	},
}

func LookupDataset(name string) (*Dataset, bool) {
	ds, ok := datasets[name]
	return ds, ok
}

func (d *Dataset) AliasTable() *ingest.AliasTable {
	return ingest.MustAliasTable(d.Table)
}

// DatasetReader loads a dataset from the object store and folds its headers.
type DatasetReader struct {
	Loader *ingest.Loader
}

func NewDatasetReader(store objectstore.Store) *DatasetReader {
	return &DatasetReader{Loader: ingest.NewLoader(store)}
}

func (r *DatasetReader) Read(ctx context.Context, ds *Dataset) (*ingest.NormalizedRecords, apierror.ErrorResponse) {
	raw, err := r.Loader.Load(ctx, ds.Path)
	if err != nil {
		return nil, datasetLoadError(ds, err)
	}

	recs, _ := ds.AliasTable().Apply(raw)
	return recs, nil
}

func datasetLoadError(ds *Dataset, err error) apierror.ErrorResponse {
	if errors.Is(err, objectstore.ErrObjectNotFound) {
		log.Warnf("dataset %s not uploaded yet (%s)", ds.Name, ds.Path)
		return apierror.DatasetNotUploadedErr
	}

	log.Errorf("failed to load dataset %s: %v", ds.Name, err)
	return apierror.DatasetUnavailableErr
}

type DatasetRepository interface {
	FindByDataset(dataset string) (*entity.DatasetUpload, error)
	FindAll() ([]*entity.DatasetUpload, error)
	Upsert(d *entity.DatasetUpload) error
}

type DefaultDatasetService struct {
	DatasetRepo DatasetRepository
	Store       objectstore.Store
	Policy      *policy.AccessPolicy
}

func NewDatasetService(repo DatasetRepository, store objectstore.Store, pol *policy.AccessPolicy) *DefaultDatasetService {
	return &DefaultDatasetService{
		DatasetRepo: repo,
		Store:       store,
		Policy:      pol,
	}
}

func (s *DefaultDatasetService) List() ([]*contract.DatasetResponse, apierror.ErrorResponse) {
	uploads, err := s.DatasetRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch dataset uploads: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.DatasetResponse, len(uploads))
	for i, u := range uploads {
		resp[i] = toDatasetResponse(u)
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].Dataset < resp[j].Dataset })
	return resp, nil
}

// Upload replaces the object behind a dataset. The file must decode and carry the dataset's
// required columns, so a broken upload never replaces a working one.
func (s *DefaultDatasetService) Upload(ctx context.Context, actor *entity.User, name string, file *contract.UploadFile) (*contract.DatasetResponse, apierror.ErrorResponse) {
	if err := s.Policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	ds, ok := LookupDataset(name)
	if !ok {
		return nil, apierror.UnknownDatasetError
	}

	if file == nil || len(file.Data) == 0 {
		return nil, apierror.MissingFileError
	}

	if _, ok := utils.CheckFileExt(file.Name, ds.Exts); !ok {
		return nil, apierror.InvalidMediaTypeError
	}

	raw, err := ingest.Decode(file.Data)
	if err != nil {
		log.Warnf("rejected %s upload %q: %v", ds.Name, file.Name, err)
		return nil, apierror.UnreadableFileError
	}

	table := ds.AliasTable()
	recs, cols := table.Apply(raw)
	if missing := cols.Missing(); len(missing) > 0 {
		field := missing[0]
		return nil, apierror.NewMissingColumnError(table.Fields[field][0], cols.Hint(field))
	}

	contentType := objectstore.ContentType(ds.Path, file.Data)
	if err := s.Store.Upload(ctx, ds.Path, file.Data, contentType); err != nil {
		log.Errorf("failed to upload dataset %s: %v", ds.Name, err)
		return nil, apierror.InternalServerError
	}

	upload := &entity.DatasetUpload{
		Dataset:    ds.Name,
		Path:       ds.Path,
		Size:       int64(len(file.Data)),
		Rows:       recs.Len(),
		UploadedBy: actor.Email,
		UploadedAt: utils.NowUTC(),
	}
	if err := s.DatasetRepo.Upsert(upload); err != nil {
		log.Errorf("failed to save dataset upload %s: %v", ds.Name, err)
		return nil, apierror.InternalServerError
	}

	log.Infof("dataset %s replaced by %s (%d rows)", ds.Name, actor.Email, upload.Rows)
	return toDatasetResponse(upload), nil
}

func toDatasetResponse(u *entity.DatasetUpload) *contract.DatasetResponse {
	return &contract.DatasetResponse{
		Dataset:    u.Dataset,
		Path:       u.Path,
		Size:       u.Size,
		SizeLabel:  humanize.Bytes(uint64(u.Size)),
		Rows:       u.Rows,
		UploadedBy: u.UploadedBy,
		UploadedAt: utils.FormatEpoch(u.UploadedAt),
	}
}
