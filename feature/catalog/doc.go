// Package catalog keeps the reference data in sync: providers fetched from
// the antennakaart API, plus the static band and carrier spectrum tables.
// Carriers link providers to their licensed frequency ranges and are what the
// station sync matches antenna frequencies against.
package catalog
