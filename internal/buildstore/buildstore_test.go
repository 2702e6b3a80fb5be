package buildstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dekarrin/marzipan/internal/diag"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "builds.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func Test_Store_CreateThenGetByID_RoundTrips(t *testing.T) {
	s := openTestStore(t)

	rec := Record{
		WorldName:  "Town Square",
		ErrorCount: 1,
		AnyErrors:  true,
		Diagnostics: []diag.Message{
			{Level: diag.LevelError, Text: "bad stuff", FilePath: "world.zzt", HasFile: true},
		},
	}

	created, err := s.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Town Square", got.WorldName)
	assert.Equal(t, 1, got.ErrorCount)
	assert.True(t, got.AnyErrors)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, "bad stuff", got.Diagnostics[0].Text)
	assert.Equal(t, "world.zzt", got.Diagnostics[0].FilePath)
}

func Test_Store_GetByID_UnknownID_ReturnsErrNotFound(t *testing.T) {
	s := openTestStore(t)

	id, err := uuid.NewRandom()
	require.NoError(t, err)

	_, err = s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}
