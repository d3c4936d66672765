package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelLogRepositoryTableNames(t *testing.T) {
	for _, table := range []string{"model_log", "model_log_v2", "ModelLog", "_staging"} {
		repo, err := NewModelLogRepository(nil, table, nil)
		require.NoError(t, err, "table %q", table)
		assert.NotNil(t, repo)
	}

	for _, table := range []string{"model log", "model_log;drop", `"model_log"`, "1log", "a.b"} {
		_, err := NewModelLogRepository(nil, table, nil)
		assert.Error(t, err, "table %q", table)
	}
}

func TestNewModelLogRepositoryDefaultsTable(t *testing.T) {
	repo, err := NewModelLogRepository(nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModelLogTable, repo.(*modelLogRepository).table)
}
