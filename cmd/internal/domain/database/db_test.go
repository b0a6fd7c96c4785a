package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treinoexpresso/cmd/internal/domain/entity"
)

func TestInitMigratesEveryModel(t *testing.T) {
	db, err := Init("sqlite", "file::memory:")
	require.NoError(t, err)

	for _, m := range Models {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&entity.Prestacao{}, "idx_prestacao_user_idem"))
}

func TestInitRejectsUnknownDriver(t *testing.T) {
	_, err := Init("oracle", "x")
	assert.Error(t, err)
}
