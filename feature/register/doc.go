// Package register is the boundary to the public antenna register. It pages
// through the register's WFS endpoint and converts GeoJSON features into the
// feed types the sync cycle consumes. It performs no deduplication or
// validation beyond shape checks; that is the reconciliation engine's job.
package register
