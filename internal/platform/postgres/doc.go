// Package postgres provides the PostgreSQL implementation of store.DatasetStore.
// Inventories are stored as JSONB documents next to the columns needed for
// listing and expiry, and the schema is managed by goose migrations embedded
// in the package.
package postgres
