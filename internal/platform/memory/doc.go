// Package memory provides an in-process implementation of store.DatasetStore.
//
// Datasets live only as long as the process. Reads hand out deep copies so
// callers can never mutate stored inventories.
package memory
