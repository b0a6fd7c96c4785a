package service

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"treinoexpresso/cmd/internal/domain/database"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/domain/policy"
	"treinoexpresso/cmd/internal/infrastructure/objectstore/objectstoretest"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/utils/uid"
	"treinoexpresso/cmd/internal/utils/validators"
)

// fixedNow is 15/06/2025 09:00 in UTC.
var fixedNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	store    *objectstoretest.Memory
	policy   *policy.AccessPolicy
	clock    *Clock
	validate *validator.Validate

	admin *entity.User
	ana   *entity.User
	bruno *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	require.NoError(t, uid.Init(1))

	db, err := database.Init("sqlite", "file::memory:")
	require.NoError(t, err)

	v := validator.New()
	require.NoError(t, validators.Register(v))

	f := &fixture{
		db:       db,
		store:    objectstoretest.NewMemory(),
		policy:   policy.NewAccessPolicy(),
		clock:    &Clock{Location: time.UTC, Now: func() time.Time { return fixedNow }},
		validate: v,
		admin:    &entity.User{ID: 1, SubUUID: "sub-admin", Email: "admin@treino.com", DisplayName: "Admin", Role: entity.RoleAdmin, Active: true},
		ana:      &entity.User{ID: 2, SubUUID: "sub-ana", Email: "ana@treino.com", DisplayName: "Ana", Role: entity.RoleUser, Active: true},
		bruno:    &entity.User{ID: 3, SubUUID: "sub-bruno", Email: "bruno@treino.com", Role: entity.RoleUser, Active: true},
	}
	for _, u := range []*entity.User{f.admin, f.ana, f.bruno} {
		require.NoError(t, db.Create(u).Error)
	}
	return f
}

func (f *fixture) reader() *DatasetReader {
	return NewDatasetReader(f.store)
}

func (f *fixture) putDataset(t *testing.T, name, content string) {
	t.Helper()
	ds, ok := LookupDataset(name)
	require.True(t, ok)
	f.store.Put(ds.Path, []byte(content))
}

func requireCode(t *testing.T, want int, err apierror.ErrorResponse) {
	t.Helper()
	require.NotNil(t, err)
	require.Equal(t, want, err.Code())
}

func ptr[T any](v T) *T { return &v }
