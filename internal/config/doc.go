// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional forest.yaml file. It provides
// type-safe access to server, store and analysis settings while keeping
// configuration details separate from business logic.
package config
