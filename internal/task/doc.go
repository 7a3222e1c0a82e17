// Package task runs periodic background maintenance jobs, such as evicting
// expired datasets, alongside the HTTP server.
package task
