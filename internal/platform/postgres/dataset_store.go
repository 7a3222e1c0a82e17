package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/forest-inventory/internal/domain"
	"github.com/phrazzld/forest-inventory/internal/platform/logger"
	"github.com/phrazzld/forest-inventory/internal/store"
)

// DBTX is implemented by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresDatasetStore implements the store.DatasetStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDatasetStore struct {
	db     DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresDatasetStore creates a new PostgreSQL implementation of the
// DatasetStore interface. If logger is nil, a default logger will be used.
func NewPostgresDatasetStore(db DBTX, logger *slog.Logger) (*PostgresDatasetStore, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDatasetStore{
		db:     db,
		logger: logger.With(slog.String("component", "dataset_store")),
		now:    time.Now,
	}, nil
}

// Ensure PostgresDatasetStore implements store.DatasetStore interface
var _ store.DatasetStore = (*PostgresDatasetStore)(nil)

// Create implements store.DatasetStore.Create
func (s *PostgresDatasetStore) Create(ctx context.Context, ds *domain.Dataset) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ds.Validate(); err != nil {
		log.Warn("dataset validation failed during create",
			slog.String("error", err.Error()),
			slog.String("dataset_id", ds.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	payload, err := json.Marshal(ds.Inventory)
	if err != nil {
		return store.NewStoreError("dataset", "create", "failed to encode inventory", err)
	}

	query := `
		INSERT INTO datasets (id, name, num_plots, num_trees, payload, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		ds.ID,
		ds.Inventory.Name,
		ds.Inventory.NumPlots(),
		ds.Inventory.NumTrees(),
		payload,
		ds.CreatedAt,
		ds.ExpiresAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate dataset id",
				slog.String("dataset_id", ds.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrDatasetExists, err)
		}
		log.Error("failed to create dataset",
			slog.String("error", err.Error()),
			slog.String("dataset_id", ds.ID.String()))
		return MapError(err)
	}

	log.Info("dataset created successfully",
		slog.String("dataset_id", ds.ID.String()),
		slog.String("name", ds.Inventory.Name),
		slog.Int("num_plots", ds.Inventory.NumPlots()))
	return nil
}

// GetByID implements store.DatasetStore.GetByID
func (s *PostgresDatasetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving dataset by ID", slog.String("dataset_id", id.String()))

	query := `
		SELECT id, payload, created_at, expires_at
		FROM datasets
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)
	`

	var (
		ds        domain.Dataset
		payload   []byte
		expiresAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, id, s.now().UTC()).
		Scan(&ds.ID, &payload, &ds.CreatedAt, &expiresAt)
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("dataset not found", slog.String("dataset_id", id.String()))
			return nil, store.ErrDatasetNotFound
		}
		log.Error("failed to retrieve dataset",
			slog.String("error", err.Error()),
			slog.String("dataset_id", id.String()))
		return nil, MapError(err)
	}

	if err := json.Unmarshal(payload, &ds.Inventory); err != nil {
		return nil, store.NewStoreError("dataset", "get", "failed to decode inventory", err)
	}
	ds.CreatedAt = ds.CreatedAt.UTC()
	if expiresAt.Valid {
		exp := expiresAt.Time.UTC()
		ds.ExpiresAt = &exp
	}

	return &ds, nil
}

// List implements store.DatasetStore.List
func (s *PostgresDatasetStore) List(ctx context.Context) ([]domain.DatasetSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, num_plots, num_trees, created_at, expires_at
		FROM datasets
		WHERE expires_at IS NULL OR expires_at > $1
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, s.now().UTC())
	if err != nil {
		log.Error("failed to list datasets", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []domain.DatasetSummary{}
	for rows.Next() {
		var (
			sum       domain.DatasetSummary
			expiresAt sql.NullTime
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.NumPlots, &sum.NumTrees, &sum.CreatedAt, &expiresAt); err != nil {
			return nil, MapError(err)
		}
		sum.CreatedAt = sum.CreatedAt.UTC()
		if expiresAt.Valid {
			exp := expiresAt.Time.UTC()
			sum.ExpiresAt = &exp
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("listed datasets", slog.Int("count", len(summaries)))
	return summaries, nil
}

// Delete implements store.DatasetStore.Delete
func (s *PostgresDatasetStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM datasets WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)`,
		id, s.now().UTC())
	if err != nil {
		log.Error("failed to delete dataset",
			slog.String("error", err.Error()),
			slog.String("dataset_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrDatasetNotFound); err != nil {
		return err
	}

	log.Info("dataset deleted", slog.String("dataset_id", id.String()))
	return nil
}

// DeleteExpired implements store.DatasetStore.DeleteExpired
func (s *PostgresDatasetStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM datasets WHERE expires_at IS NOT NULL AND expires_at <= $1`, now.UTC())
	if err != nil {
		log.Error("failed to delete expired datasets", slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		log.Info("expired datasets deleted", slog.Int64("count", n))
	}
	return int(n), nil
}
