// Package scheduler drives full sync cycles, once on demand or repeatedly in
// the background. The register publishes a fresh dataset daily, so the
// default interval is 24 hours.
package scheduler
