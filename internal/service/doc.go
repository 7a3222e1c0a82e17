// Package service contains the application use cases. It orchestrates the
// dataset store (defined in internal/store) and the analysis engine to import
// inventories, keep them for a limited time and analyse them on request.
//
// The service layer depends on domain entities and the store interfaces, but
// never on a specific store implementation.
package service
