// Package domain contains the core forestry entities of the application: sample
// trees, plots, inventories and the volume equations attached to them. It is
// independent of any storage format, transport or analysis algorithm.
package domain
