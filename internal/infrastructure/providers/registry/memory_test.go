package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	n, err := store.UpsertBatch(context.Background(), []vehicle.Record{
		{Plate: "abcd12", Make: "Toyota", Model: "Yaris", Year: "2019"},
	}, "SGPRT_ene_2026.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.Len())

	rec, err := store.GetByPlate(context.Background(), "ABCD12")
	require.NoError(t, err)
	assert.Equal(t, "ABCD12", rec.Plate)
	assert.Equal(t, "Toyota", rec.Make)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestMemoryStoreMiss(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetByPlate(context.Background(), "ZZZZ99")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePlateNotFound))
}

func TestMemoryStoreUpsertOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.UpsertBatch(ctx, []vehicle.Record{
		{Plate: "ABCD12", Make: "Toyota", Model: "Yaris", Year: "2018"},
	}, "SGPRT_feb_2025.csv")
	require.NoError(t, err)

	_, err = store.UpsertBatch(ctx, []vehicle.Record{
		{Plate: "ABCD12", Make: "Toyota", Model: "Yaris", Year: "2019"},
	}, "SGPRT_oct_2025.csv")
	require.NoError(t, err)

	rec, err := store.GetByPlate(ctx, "ABCD12")
	require.NoError(t, err)
	assert.Equal(t, "2019", rec.Year)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreBacksProvider(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.UpsertBatch(context.Background(), []vehicle.Record{
		{Plate: "HJKL89", Make: "Chevrolet", Model: "Sail", Year: "2020"},
	}, "SGPRT_mar_2026.csv")
	require.NoError(t, err)

	p := NewProvider(store)
	lookup, err := p.LookupPlate(context.Background(), "HJKL89")
	require.NoError(t, err)
	assert.True(t, lookup.Found)
	assert.Equal(t, "registry", lookup.Source)
	assert.Equal(t, "Chevrolet", lookup.Vehicle.Make)
}
