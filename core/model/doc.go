// Package model defines the persisted domain entities.
//
// Every entity that participates in reconciliation embeds SyncEntity, which
// carries the three pieces of identity the sync machinery relies on:
//
//   - ID: surrogate key assigned by the store on first insertion, immutable
//     afterwards, used for foreign keys.
//   - ExternalID: stable identifier from the upstream register or catalog,
//     unique per entity kind, the reconciliation key.
//   - RowVersion: opaque version counter bumped on every persisted mutation.
//
// Provider, Band and Carrier are maintained by the static catalog sync and are
// read-only inputs to the base station sync. BaseStation and Antenna are owned
// exclusively by the register sync cycle.
package model
