//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/forest-inventory/internal/domain"
	"github.com/phrazzld/forest-inventory/internal/platform/postgres"
	"github.com/phrazzld/forest-inventory/internal/store"
	"github.com/phrazzld/forest-inventory/internal/testdb"
)

func floatPtr(v float64) *float64 { return &v }

func testInventory(name string) domain.ForestInventory {
	return domain.ForestInventory{
		Name:       name,
		TotalAcres: floatPtr(40),
		Plots: []domain.Plot{
			{
				PlotID:    1,
				SizeAcres: 0.2,
				Trees: []domain.Tree{
					{
						TreeID:          1,
						PlotID:          1,
						Species:         domain.Species{Code: "DF", CommonName: "Douglas-fir"},
						DBH:             14,
						Height:          floatPtr(95),
						Status:          domain.TreeStatusLive,
						ExpansionFactor: 1,
					},
				},
			},
		},
	}
}

func newDataset(t *testing.T, name string, createdAt time.Time, ttl time.Duration) *domain.Dataset {
	t.Helper()
	ds, err := domain.NewDataset(testInventory(name), createdAt, ttl)
	require.NoError(t, err)
	return ds
}

func TestPostgresDatasetStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s, err := postgres.NewPostgresDatasetStore(tx, nil)
		require.NoError(t, err)
		ctx := context.Background()

		ds := newDataset(t, "north block", time.Now(), time.Hour)
		require.NoError(t, s.Create(ctx, ds))

		got, err := s.GetByID(ctx, ds.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.ID, got.ID)
		assert.Equal(t, "north block", got.Inventory.Name)
		require.Len(t, got.Inventory.Plots, 1)
		assert.InDelta(t, 14.0, got.Inventory.Plots[0].Trees[0].DBH, 1e-9)
		require.NotNil(t, got.ExpiresAt)

		err = s.Create(ctx, ds)
		assert.ErrorIs(t, err, store.ErrDatasetExists)
	})
}

func TestPostgresDatasetStore_GetMissing(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s, err := postgres.NewPostgresDatasetStore(tx, nil)
		require.NoError(t, err)

		_, err = s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrDatasetNotFound)
	})
}

func TestPostgresDatasetStore_InvalidDataset(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s, err := postgres.NewPostgresDatasetStore(tx, nil)
		require.NoError(t, err)

		ds := newDataset(t, "bad", time.Now(), 0)
		ds.Inventory.Plots[0].SizeAcres = 0
		assert.ErrorIs(t, s.Create(context.Background(), ds), store.ErrInvalidEntity)
	})
}

func TestPostgresDatasetStore_ListDeleteAndExpire(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s, err := postgres.NewPostgresDatasetStore(tx, nil)
		require.NoError(t, err)
		ctx := context.Background()

		now := time.Now()
		kept := newDataset(t, "kept", now, 0)
		stale := newDataset(t, "stale", now.Add(-2*time.Hour), time.Hour)
		require.NoError(t, s.Create(ctx, kept))
		require.NoError(t, s.Create(ctx, stale))

		// Expired datasets are invisible before the sweep runs.
		_, err = s.GetByID(ctx, stale.ID)
		assert.ErrorIs(t, err, store.ErrDatasetNotFound)
		assert.ErrorIs(t, s.Delete(ctx, stale.ID), store.ErrDatasetNotFound)

		summaries, err := s.List(ctx)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(summaries))
		for _, sum := range summaries {
			ids = append(ids, sum.ID)
		}
		assert.Contains(t, ids, kept.ID)
		assert.NotContains(t, ids, stale.ID)

		n, err := s.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)

		require.NoError(t, s.Delete(ctx, kept.ID))
		assert.ErrorIs(t, s.Delete(ctx, kept.ID), store.ErrDatasetNotFound)
	})
}
