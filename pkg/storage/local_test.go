package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	profileID := uuid.New()

	info, err := store.Save(ctx, profileID, "GSTR1_012026.json", "application/json", strings.NewReader(`{"fp":"012026"}`))
	require.NoError(t, err)
	assert.Equal(t, "GSTR1_012026.json", info.Name)
	assert.Equal(t, int64(15), info.Size)

	rc, opened, err := store.Open(ctx, profileID, info.ID)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, info.ID, opened.ID)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"fp":"012026"}`, string(data))
}

func TestLocalStorage_OpenUnknownArtifact(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact not found")
}

func TestLocalStorage_ListIsPerProfile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	profileA := uuid.New()
	profileB := uuid.New()

	_, err = store.Save(ctx, profileA, "GSTR1_012026.json", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	_, err = store.Save(ctx, profileA, "GSTR1_012026.xlsx", "application/octet-stream", strings.NewReader("xlsx"))
	require.NoError(t, err)

	artifacts, err := store.List(ctx, profileA)
	require.NoError(t, err)
	assert.Len(t, artifacts, 2)

	empty, err := store.List(ctx, profileB)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	profileID := uuid.New()

	info, err := store.Save(ctx, profileID, "GSTR1_022026.json", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, profileID, info.ID))

	_, err = store.GetInfo(ctx, profileID, info.ID)
	require.Error(t, err)

	artifacts, err := store.List(ctx, profileID)
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "__etc_passwd", sanitizeFilename("../etc/passwd"))
	assert.Equal(t, "GSTR1_012026.json", sanitizeFilename("GSTR1_012026.json"))
}
