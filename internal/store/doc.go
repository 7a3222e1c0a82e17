// Package store defines the persistence interfaces for stored inventory
// datasets and the errors shared by every store implementation. The
// implementations live in internal/platform/memory and internal/platform/postgres.
package store
