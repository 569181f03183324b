// Package stats reports row counts per entity kind, a cheap health signal
// for the sync pipeline.
package stats
