package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/listings-service/internal/entity"
)

func TestCarRepo_MissingFileIsEmpty(t *testing.T) {
	repo := NewCarRepo(filepath.Join(t.TempDir(), "data", "cars.json"))

	cars, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cars)
	assert.NotNil(t, cars)
}

func TestCarRepo_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0o600))

	cars, err := NewCarRepo(path).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestCarRepo_UpsertMergesAndReactivates(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "cars.json")
	repo := NewCarRepo(path)

	_, err := repo.Upsert(ctx, entity.Car{OrderNo: "A1", Title: "Volvo V60", Year: 2019, Price: "245 000 kr"})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, entity.Car{OrderNo: "B2", Title: "Tesla Model 3"})
	require.NoError(t, err)

	found, err := repo.Deactivate(ctx, "A1")
	require.NoError(t, err)
	assert.True(t, found)

	cars, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "B2", cars[0].OrderNo)

	merged, err := repo.Upsert(ctx, entity.Car{OrderNo: "A1", Price: "229 000 kr"})
	require.NoError(t, err)
	assert.Equal(t, "Volvo V60", merged.Title, "fields missing from the update are kept")
	assert.Equal(t, 2019, merged.Year)
	assert.Equal(t, "229 000 kr", merged.Price)
	assert.True(t, merged.IsActive())

	cars, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, "A1", cars[0].OrderNo, "insertion order is kept")
}

func TestCarRepo_DeactivateUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.json")
	found, err := NewCarRepo(path).Deactivate(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no write for a missing car")
}

func TestCarRepo_RecordsWithoutFlagAreActive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"orderNo": "1", "title": "Uten flagg"},
  {"orderNo": "2", "title": "Solgt", "active": false}
]`), 0o600))

	cars, err := NewCarRepo(path).List(context.Background())
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Uten flagg", cars[0].Title)
}

func TestCarRepo_KeepsUnknownFields(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cars.json")
	seed := `[{"orderNo":"A1","title":"Golf","fuel":"diesel","gearbox":"auto"},{"orderNo":"B2","color":"rød"}]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))
	repo := NewCarRepo(path)

	found, err := repo.Deactivate(ctx, "A1")
	require.NoError(t, err)
	require.True(t, found)

	_, err = repo.Upsert(ctx, entity.Car{OrderNo: "B2", Price: "99 000 kr"})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"orderNo":"A1","title":"Golf","fuel":"diesel","gearbox":"auto","active":false},
		{"orderNo":"B2","price":"99 000 kr","color":"rød","active":true}
	]`, string(raw))
}
