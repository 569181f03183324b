// Package reconcile keeps a local table consistent with an incoming snapshot.
//
// The engine is generic over any entity carrying an external id, an internal
// id and a row version (the Entity interface). One call computes and applies
// the add/update/delete set for a full snapshot:
//
//   - entities with an unknown external id are inserted in bulk,
//   - entities with a known external id adopt the persisted identity and are
//     updated only when one of the declared columns actually differs, writing
//     only the changed columns,
//   - persisted rows missing from the snapshot are deleted.
//
// Work is batched (1000 external ids per round trip) and runs inside the
// caller's transaction, so a failed call leaves the table untouched. Which
// fields participate in the comparison is declared per call as a Column table
// rather than derived through reflection.
package reconcile
