// Package loader wires application features onto the HTTP server. Each
// feature registers its own routes, keeping the start command free of
// per-feature routing knowledge.
package loader
